package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"sparcsetl/internal/csvexport"
)

// DatasetHandler serves the most recently exported dataset file.
type DatasetHandler struct {
	datasetPath string
}

// NewDatasetHandler creates a handler serving the dataset at datasetPath.
func NewDatasetHandler(datasetPath string) *DatasetHandler {
	return &DatasetHandler{datasetPath: datasetPath}
}

// Download handles GET /api/v1/dataset
func (h *DatasetHandler) Download(c *gin.Context) {
	if _, err := os.Stat(h.datasetPath); err != nil {
		RespondError(c, http.StatusNotFound, "NO_DATASET", "no dataset has been produced yet")
		return
	}
	// The attachment name follows the configured dataset path so the two
	// cannot drift.
	base := strings.TrimSuffix(filepath.Base(h.datasetPath), filepath.Ext(h.datasetPath))
	c.FileAttachment(h.datasetPath, csvexport.BuildFilename(base))
}
