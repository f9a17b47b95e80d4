package presenter

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/repository"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

// YAMLPresenterImpl implements Presenter for YAML output
type YAMLPresenterImpl struct {
	writer    io.Writer
	errWriter io.Writer
}

// NewYAMLPresenter creates a new YAML presenter
func NewYAMLPresenter(out, errOut io.Writer) *YAMLPresenterImpl {
	return &YAMLPresenterImpl{
		writer:    out,
		errWriter: errOut,
	}
}

// encode writes one YAML document per call
func (p *YAMLPresenterImpl) encode(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func (p *YAMLPresenterImpl) PrintInstant(result *usecase.InstantResult) error {
	return p.encode(p.writer, result)
}

func (p *YAMLPresenterImpl) PrintSpan(result *usecase.SpanResult) error {
	return p.encode(p.writer, result)
}

func (p *YAMLPresenterImpl) PrintSeries(result *usecase.SeriesResult) error {
	return p.encode(p.writer, result)
}

func (p *YAMLPresenterImpl) PrintSeriesList(items []repository.SeriesSummary) error {
	if items == nil {
		items = []repository.SeriesSummary{}
	}
	return p.encode(p.writer, map[string]interface{}{
		"series":      items,
		"total_count": len(items),
	})
}

func (p *YAMLPresenterImpl) PrintDay(result *usecase.DayResult) error {
	return p.encode(p.writer, result)
}

func (p *YAMLPresenterImpl) PrintExport(result *usecase.ExportResult) error {
	return p.encode(p.writer, result)
}

func (p *YAMLPresenterImpl) PrintZoneInfo(info repository.ZoneInfo) error {
	return p.encode(p.writer, info)
}

func (p *YAMLPresenterImpl) PrintConfig(data map[string]interface{}) error {
	return p.encode(p.writer, data)
}

func (p *YAMLPresenterImpl) PrintMessage(msg string) error {
	return p.encode(p.writer, map[string]string{"message": msg})
}

// PrintError prints an error as YAML on the error writer
func (p *YAMLPresenterImpl) PrintError(err error) error {
	errData := map[string]string{
		"message": err.Error(),
	}
	if code := domain.GetErrorCode(err); code != "" {
		errData["code"] = string(code)
	}
	return p.encode(p.errWriter, map[string]interface{}{"error": errData})
}
