package usecase

import (
	"context"

	"github.com/ca-srg/propertime/domain/repository"
)

// CreateSeriesRequest represents a request to build a series
type CreateSeriesRequest struct {
	Label string
	Start string
	End   string
	// Span is the step; empty uses the configured default span
	Span string
	// Persist stores the series in the series database
	Persist bool
	InstantContext
}

// ExportSeriesRequest represents a request to export a stored series
type ExportSeriesRequest struct {
	ID string
	repository.SeriesExportOptions
}

// SeriesResult is the presentation model of a series
type SeriesResult struct {
	ID        string           `json:"id" yaml:"id"`
	Label     string           `json:"label" yaml:"label"`
	Span      string           `json:"span" yaml:"span"`
	Start     string           `json:"start" yaml:"start"`
	End       string           `json:"end" yaml:"end"`
	Aligned   bool             `json:"aligned" yaml:"aligned"`
	Persisted bool             `json:"persisted" yaml:"persisted"`
	Points    []*InstantResult `json:"points" yaml:"points"`
}

// ExportResult describes a finished export
type ExportResult struct {
	ID         string `json:"id" yaml:"id"`
	Format     string `json:"format" yaml:"format"`
	OutputPath string `json:"output_path" yaml:"output_path"`
	Points     int    `json:"points" yaml:"points"`
}

// SeriesService defines the interface for building, storing and exporting series
type SeriesService interface {
	Create(ctx context.Context, req *CreateSeriesRequest) (*SeriesResult, error)
	Get(ctx context.Context, id string) (*SeriesResult, error)
	List(ctx context.Context) ([]repository.SeriesSummary, error)
	Delete(ctx context.Context, id string) error

	// Export writes a stored series in the requested format. An empty output
	// path writes <export dir>/<id><extension>.
	Export(ctx context.Context, req *ExportSeriesRequest) (*ExportResult, error)
}
