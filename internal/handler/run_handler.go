package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sparcsetl/internal/port"
)

// RunHandler serves the run history and per-run warehouse rows.
type RunHandler struct {
	runs port.RunRepository
	subs port.SubmissionRepository
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runs port.RunRepository, subs port.SubmissionRepository) *RunHandler {
	return &RunHandler{runs: runs, subs: subs}
}

// parsePagination extracts offset/limit query parameters with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

// List handles GET /api/v1/runs
func (h *RunHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	runs, total, err := h.runs.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, runs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetLatest handles GET /api/v1/runs/latest
func (h *RunHandler) GetLatest(c *gin.Context) {
	run, err := h.runs.GetLatest(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, run)
}

// GetByID handles GET /api/v1/runs/:id
func (h *RunHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "run id must be a valid UUID")
		return
	}
	run, err := h.runs.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, run)
}

// ListSubmissions handles GET /api/v1/runs/:id/submissions
func (h *RunHandler) ListSubmissions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "run id must be a valid UUID")
		return
	}
	offset, limit := parsePagination(c)
	rows, total, err := h.subs.ListByRun(c.Request.Context(), id, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, rows, PagMeta{Total: total, Offset: offset, Limit: limit})
}
