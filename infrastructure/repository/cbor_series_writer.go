package repository

import (
	"bufio"
	"context"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/entity"
	"github.com/ca-srg/propertime/domain/repository"
	"github.com/ca-srg/propertime/infrastructure/codec"
)

// cborDocument is the single CBOR item written per export
type cborDocument struct {
	Series seriesHeader  `cbor:"series"`
	Points []pointRecord `cbor:"points"`
}

// CBORSeriesWriter implements SeriesWriter with deterministic CBOR
type CBORSeriesWriter struct {
	logger domain.Logger
}

// NewCBORSeriesWriter creates a new CBOR series writer
func NewCBORSeriesWriter(logger domain.Logger) repository.SeriesWriter {
	return &CBORSeriesWriter{
		logger: logger,
	}
}

func (w *CBORSeriesWriter) Format() string    { return "cbor" }
func (w *CBORSeriesWriter) Extension() string { return ".cbor" }

// Write encodes the whole series as one deterministic CBOR map
func (w *CBORSeriesWriter) Write(ctx context.Context, series *entity.Series, outputPath string) (err error) {
	if err := validateOutputPath(outputPath, w.Extension()); err != nil {
		return err
	}

	points := series.Points()
	doc := cborDocument{
		Series: newSeriesHeader(series),
		Points: make([]pointRecord, len(points)),
	}
	for i, point := range points {
		doc.Points[i] = newPointRecord(i, point)
	}
	if err := ctx.Err(); err != nil {
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

	buffered := bufio.NewWriter(file)
	if err := codec.NewEncoder(buffered).Encode(doc); err != nil {
		return domain.ErrExportWithCause("cbor", "failed to encode series", err)
	}
	if err := buffered.Flush(); err != nil {
		return domain.ErrExportWithCause("cbor", "failed to flush output", err)
	}

	w.logger.Info(ctx, "CBOR export completed",
		domain.NewField("outputPath", outputPath),
		domain.NewField("points", series.Len()))

	return nil
}
