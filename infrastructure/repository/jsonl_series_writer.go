package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/golang/snappy"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/entity"
	"github.com/ca-srg/propertime/domain/repository"
)

// jsonlLine is one line of a JSONL export: the series header first, then
// one point per line
type jsonlLine struct {
	Kind   string        `json:"kind"`
	Series *seriesHeader `json:"series,omitempty"`
	Point  *pointRecord  `json:"point,omitempty"`
}

// JSONLSeriesWriter implements SeriesWriter for JSON Lines, optionally
// wrapped in the snappy framing format
type JSONLSeriesWriter struct {
	logger   domain.Logger
	compress bool
}

// NewJSONLSeriesWriter creates a new JSONL series writer
func NewJSONLSeriesWriter(logger domain.Logger, compress bool) repository.SeriesWriter {
	return &JSONLSeriesWriter{
		logger:   logger,
		compress: compress,
	}
}

func (w *JSONLSeriesWriter) Format() string { return "jsonl" }

func (w *JSONLSeriesWriter) Extension() string {
	if w.compress {
		return ".jsonl.sz"
	}
	return ".jsonl"
}

// Write writes the header line followed by one line per point
func (w *JSONLSeriesWriter) Write(ctx context.Context, series *entity.Series, outputPath string) (err error) {
	if err := validateOutputPath(outputPath, w.Extension()); err != nil {
		return err
	}

	file, err := createOutputFile(outputPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = domain.ErrFileOperationWithCause("close file", outputPath, closeErr)
		}
	}()

	var out io.Writer = file
	var sz *snappy.Writer
	if w.compress {
		sz = snappy.NewBufferedWriter(file)
		out = sz
	}
	buffered := bufio.NewWriter(out)

	if err := writeJSONL(ctx, buffered, series); err != nil {
		return err
	}

	if err := buffered.Flush(); err != nil {
		return domain.ErrExportWithCause("jsonl", "failed to flush output", err)
	}
	if sz != nil {
		if err := sz.Close(); err != nil {
			return domain.ErrExportWithCause("jsonl", "failed to close snappy stream", err)
		}
	}

	w.logger.Info(ctx, "JSONL export completed",
		domain.NewField("outputPath", outputPath),
		domain.NewField("points", series.Len()),
		domain.NewField("compressed", w.compress))

	return nil
}

func writeJSONL(ctx context.Context, out io.Writer, series *entity.Series) error {
	enc := json.NewEncoder(out)
	header := newSeriesHeader(series)
	if err := enc.Encode(jsonlLine{Kind: "series", Series: &header}); err != nil {
		return domain.ErrExportWithCause("jsonl", "failed to write series header", err)
	}

	for i, point := range series.Points() {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := newPointRecord(i, point)
		if err := enc.Encode(jsonlLine{Kind: "point", Point: &record}); err != nil {
			return domain.ErrExportWithCause("jsonl", fmt.Sprintf("failed to write point %d", i), err)
		}
	}
	return nil
}
