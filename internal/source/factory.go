package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"sparcsetl/internal/domain"
	"sparcsetl/internal/port"
)

// Factory selects a grid source by document format.
type Factory struct {
	sources map[domain.SourceFormat]port.GridSource
}

// NewFactory creates an empty factory. Formats are registered explicitly
// by the caller wiring the pipeline.
func NewFactory() *Factory {
	return &Factory{sources: map[domain.SourceFormat]port.GridSource{}}
}

// Register associates a grid source with a document format.
func (f *Factory) Register(format domain.SourceFormat, src port.GridSource) {
	f.sources[format] = src
}

// ForFile returns the grid source handling the file's extension. Files
// of a format nothing was registered for are unsupported.
func (f *Factory) ForFile(path string) (port.GridSource, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	format, ok := domain.FormatByExtension[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	src, ok := f.sources[format]
	if !ok {
		return nil, fmt.Errorf("%w: no source registered for %s", domain.ErrUnsupportedFormat, format)
	}
	return src, nil
}
