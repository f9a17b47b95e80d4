package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/entity"
	"github.com/ca-srg/propertime/domain/repository"
)

// CSVSeriesWriter implements SeriesWriter for CSV files
type CSVSeriesWriter struct {
	logger domain.Logger
}

// NewCSVSeriesWriter creates a new CSV series writer
func NewCSVSeriesWriter(logger domain.Logger) repository.SeriesWriter {
	return &CSVSeriesWriter{
		logger: logger,
	}
}

func (w *CSVSeriesWriter) Format() string    { return "csv" }
func (w *CSVSeriesWriter) Extension() string { return ".csv" }

// Write writes one row per point of the series
func (w *CSVSeriesWriter) Write(ctx context.Context, series *entity.Series, outputPath string) (err error) {
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

	// UTF-8 BOM so spreadsheet tools pick the right encoding
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return domain.ErrExportWithCause("csv", "failed to write UTF-8 BOM", err)
	}

	writer := csv.NewWriter(file)

	header := []string{"index", "epoch", "iso", "canonical", "zone", "offset", "dst"}
	if err := writer.Write(header); err != nil {
		return domain.ErrExportWithCause("csv", "failed to write CSV header", err)
	}

	for i, point := range series.Points() {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := newPointRecord(i, point)
		row := []string{
			strconv.Itoa(record.Index),
			strconv.FormatFloat(record.Epoch, 'f', -1, 64),
			record.ISO,
			sanitizeCSVField(record.Canonical),
			sanitizeCSVField(record.Zone),
			strconv.FormatFloat(record.Offset, 'f', -1, 64),
			strconv.FormatBool(record.DST),
		}
		if err := writer.Write(row); err != nil {
			return domain.ErrExportWithCause("csv", fmt.Sprintf("failed to write point %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return domain.ErrExportWithCause("csv", "failed to flush CSV writer", err)
	}

	w.logger.Info(ctx, "CSV export completed",
		domain.NewField("outputPath", outputPath),
		domain.NewField("points", series.Len()))

	return nil
}

// sanitizeCSVField sanitizes a field to prevent CSV injection
func sanitizeCSVField(field string) string {
	// Remove any leading characters that could cause formula injection
	dangerousChars := []string{"=", "+", "-", "@", "\t", "\r", "|"}
	for _, char := range dangerousChars {
		if strings.HasPrefix(field, char) {
			return "'" + field
		}
	}

	// Also check for formula patterns
	dangerousPatterns := []string{"=CMD", "=DDE", "@SUM", "IMPORTXML", "WEBSERVICE"}
	fieldUpper := strings.ToUpper(field)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(fieldUpper, pattern) {
			return "'" + field
		}
	}

	return field
}
