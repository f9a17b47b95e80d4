package impl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/entity"
	"github.com/ca-srg/propertime/domain/repository"
	"github.com/ca-srg/propertime/domain/valueobject"
	"github.com/ca-srg/propertime/infrastructure/config"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

// SeriesWriterFactory returns the writer for an export format
type SeriesWriterFactory func(format string, compress bool) (repository.SeriesWriter, error)

// SeriesServiceImpl implements SeriesService
type SeriesServiceImpl struct {
	config         *config.AppConfig
	seriesRepo     repository.SeriesRepository
	writerFactory  SeriesWriterFactory
	instantService *InstantServiceImpl
	logger         domain.Logger
}

// NewSeriesService creates a new series service. The repository may be
// nil, in which case series can be built but not stored.
func NewSeriesService(
	cfg *config.AppConfig,
	seriesRepo repository.SeriesRepository,
	writerFactory SeriesWriterFactory,
	zoneService repository.ZoneService,
	clock valueobject.Clock,
	logger domain.Logger,
) (usecase.SeriesService, error) {
	if writerFactory == nil {
		return nil, fmt.Errorf("series writer factory is required")
	}
	instantService, err := NewInstantService(cfg, zoneService, clock, logger)
	if err != nil {
		return nil, err
	}

	return &SeriesServiceImpl{
		config:         cfg,
		seriesRepo:     seriesRepo,
		writerFactory:  writerFactory,
		instantService: instantService.(*InstantServiceImpl),
		logger:         logger,
	}, nil
}

// Create builds a series and optionally stores it
func (s *SeriesServiceImpl) Create(ctx context.Context, req *usecase.CreateSeriesRequest) (*usecase.SeriesResult, error) {
	if req == nil {
		return nil, domain.ErrInvalidInput("request", "create series request is required")
	}

	spanText := req.Span
	if spanText == "" && s.config != nil && s.config.Span != nil {
		spanText = s.config.Span.DefaultSpan
	}
	span, err := valueobject.ParseSpan(spanText)
	if err != nil {
		return nil, err
	}

	start, err := s.instantService.parseValue(req.Start, req.InstantContext)
	if err != nil {
		return nil, err
	}

	// The end is read on the start's zone unless it carries its own
	endContext := req.InstantContext
	if endContext.Zone == "" && endContext.Offset == nil {
		if z := start.Zone(); z != nil {
			endContext.Zone = z.Name()
		} else {
			offset := start.Offset()
			endContext.Offset = &offset
		}
	}
	end, err := s.parseEnd(req.End, start, endContext)
	if err != nil {
		return nil, err
	}

	series, err := entity.NewSeries(req.Label, start, end, span, s.instantService.clock)
	if err != nil {
		return nil, err
	}

	result := newSeriesResult(series)
	if req.Persist {
		if err := s.requireRepository(); err != nil {
			return nil, err
		}
		if err := s.seriesRepo.Save(ctx, series); err != nil {
			return nil, err
		}
		result.Persisted = true
	}

	s.logger.Info(ctx, "Series created",
		domain.NewField("id", series.ID()),
		domain.NewField("span", series.Span().String()),
		domain.NewField("points", series.Len()),
		domain.NewField("persisted", req.Persist))

	return result, nil
}

// parseEnd reads the end instant. A bare span ("+1D") is taken relative
// to the start.
func (s *SeriesServiceImpl) parseEnd(value string, start valueobject.Instant, ic usecase.InstantContext) (valueobject.Instant, error) {
	text := strings.TrimSpace(value)
	if rel, ok := strings.CutPrefix(text, "+"); ok && !isHexArg(text) {
		if span, err := valueobject.ParseSpan(rel); err == nil {
			return span.Shift(start, 1)
		}
	}

	end, err := s.instantService.parseValue(text, ic)
	if err != nil {
		return valueobject.Instant{}, err
	}
	// Aware input keeps its own context; move it to the start's so points match
	if z := start.Zone(); z != nil {
		return end.WithZone(z), nil
	}
	return end.WithOffset(start.Offset()), nil
}

// Get loads a stored series
func (s *SeriesServiceImpl) Get(ctx context.Context, id string) (*usecase.SeriesResult, error) {
	if err := s.requireRepository(); err != nil {
		return nil, err
	}
	series, err := s.seriesRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := newSeriesResult(series)
	result.Persisted = true
	return result, nil
}

// List returns the stored series without their points
func (s *SeriesServiceImpl) List(ctx context.Context) ([]repository.SeriesSummary, error) {
	if err := s.requireRepository(); err != nil {
		return nil, err
	}
	return s.seriesRepo.List(ctx)
}

// Delete removes a stored series
func (s *SeriesServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.requireRepository(); err != nil {
		return err
	}
	if err := s.seriesRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "Series deleted", domain.NewField("id", id))
	return nil
}

// Export writes a stored series in the requested format
func (s *SeriesServiceImpl) Export(ctx context.Context, req *usecase.ExportSeriesRequest) (*usecase.ExportResult, error) {
	if req == nil {
		return nil, domain.ErrInvalidInput("request", "export request is required")
	}
	if err := s.requireRepository(); err != nil {
		return nil, err
	}

	format := strings.ToLower(strings.TrimSpace(req.Format))
	compress := req.Compress
	outputDir := "."
	if s.config != nil && s.config.Export != nil {
		if format == "" {
			format = s.config.Export.Format
			compress = compress || s.config.Export.Compress
		}
		if s.config.Export.OutputDir != "" {
			outputDir = s.config.Export.OutputDir
		}
	}
	if format == "" {
		format = "csv"
	}

	writer, err := s.writerFactory(format, compress)
	if err != nil {
		return nil, err
	}

	series, err := s.seriesRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(outputDir, series.ID()+writer.Extension())
	}

	if err := writer.Write(ctx, series, outputPath); err != nil {
		return nil, err
	}

	return &usecase.ExportResult{
		ID:         series.ID(),
		Format:     writer.Format(),
		OutputPath: outputPath,
		Points:     series.Len(),
	}, nil
}

func (s *SeriesServiceImpl) requireRepository() error {
	if s.seriesRepo == nil {
		return domain.NewDomainError(domain.ErrCodeRepository, "series storage is not configured")
	}
	return nil
}

func newSeriesResult(series *entity.Series) *usecase.SeriesResult {
	points := series.Points()
	result := &usecase.SeriesResult{
		ID:      series.ID(),
		Label:   series.Label(),
		Span:    series.Span().String(),
		Start:   series.Start().String(),
		End:     series.End().String(),
		Aligned: series.Aligned(),
		Points:  make([]*usecase.InstantResult, len(points)),
	}
	for i, p := range points {
		result.Points[i] = NewInstantResult(p)
	}
	return result
}
