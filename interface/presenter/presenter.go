package presenter

import (
	"fmt"
	"io"

	"github.com/ca-srg/propertime/domain/repository"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

// Presenter renders use case results
type Presenter interface {
	// Instant and span output
	PrintInstant(result *usecase.InstantResult) error
	PrintSpan(result *usecase.SpanResult) error
	PrintDay(result *usecase.DayResult) error

	// Series output
	PrintSeries(result *usecase.SeriesResult) error
	PrintSeriesList(items []repository.SeriesSummary) error
	PrintExport(result *usecase.ExportResult) error

	// Zone and configuration output
	PrintZoneInfo(info repository.ZoneInfo) error
	PrintConfig(data map[string]interface{}) error
	PrintMessage(msg string) error

	PrintError(err error) error
}

// Formats lists the supported output formats
var Formats = []string{"text", "json", "yaml"}

// NewPresenter returns the presenter for an output format
func NewPresenter(format string, out, errOut io.Writer) (Presenter, error) {
	switch format {
	case "text", "":
		return NewConsolePresenter(out, errOut), nil
	case "json":
		return NewJSONPresenter(out, errOut), nil
	case "yaml":
		return NewYAMLPresenter(out, errOut), nil
	default:
		return nil, fmt.Errorf("invalid format %q: must be one of %v", format, Formats)
	}
}
