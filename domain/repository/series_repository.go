package repository

import (
	"context"
	"time"

	"github.com/ca-srg/propertime/domain/entity"
)

// SeriesRepository defines the interface for persisting series
type SeriesRepository interface {
	Save(ctx context.Context, series *entity.Series) error
	FindByID(ctx context.Context, id string) (*entity.Series, error)
	List(ctx context.Context) ([]SeriesSummary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// SeriesSummary is a stored series without its points
type SeriesSummary struct {
	ID        string    `json:"id" yaml:"id"`
	Label     string    `json:"label" yaml:"label"`
	Span      string    `json:"span" yaml:"span"`
	Start     string    `json:"start" yaml:"start"`
	End       string    `json:"end" yaml:"end"`
	Points    int       `json:"points" yaml:"points"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// SeriesWriter defines the interface for exporting a series to a file
type SeriesWriter interface {
	// Format returns the export format name (csv, jsonl, cbor)
	Format() string
	// Extension returns the file extension the writer requires, dot included
	Extension() string
	Write(ctx context.Context, series *entity.Series, outputPath string) error
}

// SeriesExportOptions represents options for a series export
type SeriesExportOptions struct {
	OutputPath string
	Format     string // csv, jsonl, cbor
	Compress   bool   // snappy framing, jsonl only
}
