package presenter

import (
	"encoding/json"
	"io"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/repository"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

// JSONPresenterImpl implements Presenter for JSON output
type JSONPresenterImpl struct {
	writer    io.Writer
	errWriter io.Writer
	encoder   *json.Encoder
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter(out, errOut io.Writer) *JSONPresenterImpl {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return &JSONPresenterImpl{
		writer:    out,
		errWriter: errOut,
		encoder:   encoder,
	}
}

// PrintInstant prints an instant as JSON
func (p *JSONPresenterImpl) PrintInstant(result *usecase.InstantResult) error {
	return p.encoder.Encode(result)
}

// PrintSpan prints a span as JSON
func (p *JSONPresenterImpl) PrintSpan(result *usecase.SpanResult) error {
	return p.encoder.Encode(result)
}

// PrintSeries prints a series as JSON
func (p *JSONPresenterImpl) PrintSeries(result *usecase.SeriesResult) error {
	return p.encoder.Encode(result)
}

// PrintSeriesList prints stored series as JSON
func (p *JSONPresenterImpl) PrintSeriesList(items []repository.SeriesSummary) error {
	if items == nil {
		items = []repository.SeriesSummary{}
	}
	data := map[string]interface{}{
		"series":     items,
		"totalCount": len(items),
	}
	return p.encoder.Encode(data)
}

// PrintDay prints the day boundaries as JSON
func (p *JSONPresenterImpl) PrintDay(result *usecase.DayResult) error {
	return p.encoder.Encode(result)
}

// PrintExport prints an export result as JSON
func (p *JSONPresenterImpl) PrintExport(result *usecase.ExportResult) error {
	return p.encoder.Encode(result)
}

// PrintZoneInfo prints zone information as JSON
func (p *JSONPresenterImpl) PrintZoneInfo(info repository.ZoneInfo) error {
	return p.encoder.Encode(info)
}

// PrintConfig prints a configuration export as JSON
func (p *JSONPresenterImpl) PrintConfig(data map[string]interface{}) error {
	return p.encoder.Encode(data)
}

// PrintMessage prints a message as JSON
func (p *JSONPresenterImpl) PrintMessage(msg string) error {
	return p.encoder.Encode(map[string]string{"message": msg})
}

// PrintError prints an error as JSON
func (p *JSONPresenterImpl) PrintError(err error) error {
	errData := map[string]interface{}{
		"message": err.Error(),
	}
	if code := domain.GetErrorCode(err); code != "" {
		errData["code"] = string(code)
	}

	// Use stderr for errors
	encoder := json.NewEncoder(p.errWriter)
	encoder.SetIndent("", "  ")

	return encoder.Encode(map[string]interface{}{"error": errData})
}
