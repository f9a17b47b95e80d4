package repository

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/entity"
	"github.com/ca-srg/propertime/domain/repository"
	"github.com/ca-srg/propertime/domain/valueobject"
)

// seriesHeader describes a series in every export format
type seriesHeader struct {
	ID        string    `json:"id" cbor:"id"`
	Label     string    `json:"label" cbor:"label"`
	Span      string    `json:"span" cbor:"span"`
	Start     string    `json:"start" cbor:"start"`
	End       string    `json:"end" cbor:"end"`
	Points    int       `json:"points" cbor:"points"`
	Aligned   bool      `json:"aligned" cbor:"aligned"`
	CreatedAt time.Time `json:"created_at" cbor:"created_at"`
}

// pointRecord is one exported instant
type pointRecord struct {
	Index     int     `json:"index" cbor:"index"`
	Epoch     float64 `json:"epoch" cbor:"epoch"`
	ISO       string  `json:"iso" cbor:"iso"`
	Canonical string  `json:"canonical" cbor:"canonical"`
	Zone      string  `json:"zone,omitempty" cbor:"zone,omitempty"`
	Offset    float64 `json:"offset" cbor:"offset"`
	DST       bool    `json:"dst" cbor:"dst"`
}

func newSeriesHeader(series *entity.Series) seriesHeader {
	return seriesHeader{
		ID:        series.ID(),
		Label:     series.Label(),
		Span:      series.Span().String(),
		Start:     series.Start().String(),
		End:       series.End().String(),
		Points:    series.Len(),
		Aligned:   series.Aligned(),
		CreatedAt: series.CreatedAt().UTC(),
	}
}

func newPointRecord(index int, t valueobject.Instant) pointRecord {
	zone := ""
	if z := t.Zone(); z != nil {
		zone = z.Name()
	}
	return pointRecord{
		Index:     index,
		Epoch:     t.Seconds(),
		ISO:       t.ISO(),
		Canonical: t.String(),
		Zone:      zone,
		Offset:    t.Offset(),
		DST:       t.IsDST(),
	}
}

// validateOutputPath validates the output path for security and checks
// that it ends with the writer's extension
func validateOutputPath(path string, extension string) error {
	if path == "" {
		return domain.ErrInvalidInput("outputPath", "cannot be empty")
	}

	// Check for directory traversal attempts before cleaning hides them
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return domain.ErrPathTraversal(path)
		}
	}
	cleanPath := filepath.Clean(path)

	// Ensure it's not an absolute path to system directories
	if filepath.IsAbs(cleanPath) && !isTempPath(cleanPath) {
		systemDirs := []string{"/etc", "/usr", "/bin", "/sbin", "/var", "/proc", "/sys", "/dev", "/root"}
		for _, dir := range systemDirs {
			if cleanPath == dir || strings.HasPrefix(cleanPath, dir+"/") {
				return domain.ErrSystemDirectory(path)
			}
		}
	}

	// Check for hidden files (starting with .)
	base := filepath.Base(cleanPath)
	if strings.HasPrefix(base, ".") && base != "." {
		return domain.ErrFileOperation("validatePath", path, "cannot write to hidden files")
	}

	if !strings.HasSuffix(base, extension) || base == extension {
		return domain.ErrInvalidInput("outputPath", "file must have "+extension+" extension")
	}

	return nil
}

// isTempPath reports whether the path lives under a temp directory
func isTempPath(path string) bool {
	for _, prefix := range []string{"/tmp/", "/var/folders/", filepath.Clean(os.TempDir()) + string(filepath.Separator)} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// createOutputFile creates the parent directory and opens the file with
// restricted permissions, truncating any previous content
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, domain.ErrFileOperationWithCause("create directory", dir, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, domain.ErrFileOperationWithCause("create file", path, err)
	}
	return file, nil
}

// NewSeriesWriter returns the writer for an export format. Compression is
// only available for jsonl.
func NewSeriesWriter(format string, compress bool, logger domain.Logger) (repository.SeriesWriter, error) {
	switch strings.ToLower(format) {
	case "csv":
		if compress {
			return nil, domain.ErrExport("csv", "compression is only supported for jsonl")
		}
		return NewCSVSeriesWriter(logger), nil
	case "jsonl":
		return NewJSONLSeriesWriter(logger, compress), nil
	case "cbor":
		if compress {
			return nil, domain.ErrExport("cbor", "compression is only supported for jsonl")
		}
		return NewCBORSeriesWriter(logger), nil
	default:
		return nil, domain.ErrInvalidInput("format", "unsupported export format: "+format)
	}
}
