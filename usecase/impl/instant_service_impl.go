package impl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/repository"
	"github.com/ca-srg/propertime/domain/valueobject"
	"github.com/ca-srg/propertime/infrastructure/config"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

// InstantServiceImpl implements InstantService
type InstantServiceImpl struct {
	config      *config.AppConfig
	zoneService repository.ZoneService
	clock       valueobject.Clock
	logger      domain.Logger
}

// NewInstantService creates a new instant service
func NewInstantService(
	cfg *config.AppConfig,
	zoneService repository.ZoneService,
	clock valueobject.Clock,
	logger domain.Logger,
) (usecase.InstantService, error) {
	if zoneService == nil {
		return nil, fmt.Errorf("zone service is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if clock == nil {
		clock = valueobject.RealClock()
	}

	return &InstantServiceImpl{
		config:      cfg,
		zoneService: zoneService,
		clock:       clock,
		logger:      logger,
	}, nil
}

// Now returns the current instant in the given context
func (s *InstantServiceImpl) Now(ic usecase.InstantContext) (*usecase.InstantResult, error) {
	opts, err := s.contextOptions(ic, true)
	if err != nil {
		return nil, err
	}
	inst, err := valueobject.Now(append(opts, valueobject.WithClock(s.clock))...)
	if err != nil {
		return nil, err
	}
	return NewInstantResult(inst), nil
}

// Parse reads an instant from any supported text form
func (s *InstantServiceImpl) Parse(req *usecase.ParseRequest) (*usecase.InstantResult, error) {
	if req == nil {
		return nil, domain.ErrInvalidInput("request", "parse request is required")
	}
	inst, err := s.parseValue(req.Value, req.InstantContext)
	if err != nil {
		return nil, err
	}
	return NewInstantResult(inst), nil
}

// Convert moves an instant to another zone or offset
func (s *InstantServiceImpl) Convert(req *usecase.ConvertRequest) (*usecase.InstantResult, error) {
	if req == nil {
		return nil, domain.ErrInvalidInput("request", "convert request is required")
	}
	inst, err := s.parseValue(req.Value, usecase.InstantContext{})
	if err != nil {
		return nil, err
	}

	target := strings.TrimSpace(req.To)
	if target == "" {
		return nil, domain.ErrInvalidInput("to", "a zone name or an offset is required")
	}
	if offset, err := valueobject.ParseOffset(target); err == nil {
		return NewInstantResult(inst.WithOffset(offset)), nil
	}
	zone, err := s.zoneService.ResolveZone(target)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(context.Background(), "Converted instant",
		domain.NewField("from", inst.String()),
		domain.NewField("zone", zone.Name()))
	return NewInstantResult(inst.WithZone(zone)), nil
}

// Shift moves an instant by a span the given number of times
func (s *InstantServiceImpl) Shift(req *usecase.ShiftRequest) (*usecase.InstantResult, error) {
	if req == nil {
		return nil, domain.ErrInvalidInput("request", "shift request is required")
	}
	span, err := valueobject.ParseSpan(req.Span)
	if err != nil {
		return nil, err
	}
	inst, err := s.parseValue(req.Value, req.InstantContext)
	if err != nil {
		return nil, err
	}

	times := req.Times
	if times == 0 {
		times = 1
	}
	shifted, err := span.Shift(inst, times)
	if err != nil {
		return nil, err
	}
	return NewInstantResult(shifted), nil
}

// Round rounds an instant to the boundaries of a span
func (s *InstantServiceImpl) Round(req *usecase.RoundRequest) (*usecase.InstantResult, error) {
	if req == nil {
		return nil, domain.ErrInvalidInput("request", "round request is required")
	}
	spanText := req.Span
	if spanText == "" && s.config != nil && s.config.Span != nil {
		spanText = s.config.Span.DefaultSpan
	}
	span, err := valueobject.ParseSpan(spanText)
	if err != nil {
		return nil, err
	}

	how := req.How
	if how == "" && s.config != nil && s.config.Span != nil {
		how = s.config.Span.Rounding
	}
	rounding, err := valueobject.ParseRounding(how)
	if err != nil {
		return nil, err
	}

	inst, err := s.parseValue(req.Value, req.InstantContext)
	if err != nil {
		return nil, err
	}
	rounded, err := span.Round(inst, rounding)
	if err != nil {
		return nil, err
	}
	return NewInstantResult(rounded), nil
}

// DescribeSpan returns the components and, when possible, the length of a span
func (s *InstantServiceImpl) DescribeSpan(req *usecase.SpanRequest) (*usecase.SpanResult, error) {
	if req == nil {
		return nil, domain.ErrInvalidInput("request", "span request is required")
	}
	span, err := valueobject.ParseSpan(req.Span)
	if err != nil {
		return nil, err
	}

	c := span.Components()
	result := &usecase.SpanResult{
		Span: span.String(),
		Components: map[string]any{
			"years":   c.Years,
			"months":  c.Months,
			"weeks":   c.Weeks,
			"days":    c.Days,
			"hours":   c.Hours,
			"minutes": c.Minutes,
			"seconds": c.Seconds,
		},
		Calendar: span.IsCalendar(),
		Physical: span.IsPhysical(),
	}

	var anchor *valueobject.Instant
	if req.Anchor != "" {
		inst, err := s.parseValue(req.Anchor, req.InstantContext)
		if err != nil {
			return nil, err
		}
		anchor = &inst
		result.Anchor = inst.String()

		end, err := span.Shift(inst, 1)
		if err != nil {
			return nil, err
		}
		result.End = end.String()
	}

	if !span.IsCalendar() || (anchor != nil && !span.IsComposite()) {
		seconds, err := span.AsSeconds(anchor)
		if err != nil {
			return nil, err
		}
		result.Seconds = &seconds
	}
	return result, nil
}

// Day returns the local midnights around an instant
func (s *InstantServiceImpl) Day(req *usecase.ParseRequest) (*usecase.DayResult, error) {
	if req == nil {
		return nil, domain.ErrInvalidInput("request", "day request is required")
	}
	at, err := s.instantOrNow(req.Value, req.InstantContext)
	if err != nil {
		return nil, err
	}
	start, end, err := s.zoneService.GetDayBoundaries(at)
	if err != nil {
		return nil, err
	}
	return &usecase.DayResult{
		Start:   NewInstantResult(start),
		End:     NewInstantResult(end),
		Seconds: end.Seconds() - start.Seconds(),
	}, nil
}

// ZoneInfo describes a zone at an instant
func (s *InstantServiceImpl) ZoneInfo(name string, at string) (*repository.ZoneInfo, error) {
	if name == "" && at == "" {
		info := s.zoneService.GetCurrentZoneInfo()
		return &info, nil
	}
	zone, err := s.zoneService.ResolveZone(name)
	if err != nil {
		return nil, err
	}
	inst, err := s.instantOrNow(at, usecase.InstantContext{Zone: zone.Name()})
	if err != nil {
		return nil, err
	}
	info := s.zoneService.GetZoneInfo(zone, inst)
	return &info, nil
}

func (s *InstantServiceImpl) instantOrNow(value string, ic usecase.InstantContext) (valueobject.Instant, error) {
	if strings.TrimSpace(value) != "" {
		return s.parseValue(value, ic)
	}
	opts, err := s.contextOptions(ic, true)
	if err != nil {
		return valueobject.Instant{}, err
	}
	return valueobject.Now(append(opts, valueobject.WithClock(s.clock))...)
}

// contextOptions turns an InstantContext into construction options. With
// useDefault the configured zone applies when neither a zone nor an
// offset is given.
func (s *InstantServiceImpl) contextOptions(ic usecase.InstantContext, useDefault bool) ([]valueobject.Option, error) {
	opts := []valueobject.Option{valueobject.WithLogger(s.logger)}
	if ic.Guessing || (s.config != nil && s.config.Zone != nil && s.config.Zone.Guessing) {
		opts = append(opts, valueobject.WithGuessing())
	}

	switch {
	case ic.Zone != "":
		zone, err := s.zoneService.ResolveZone(ic.Zone)
		if err != nil {
			return nil, err
		}
		opts = append(opts, valueobject.WithZone(zone))
		if ic.Offset != nil {
			opts = append(opts, valueobject.WithOffset(*ic.Offset))
		}
	case ic.Offset != nil:
		opts = append(opts, valueobject.WithoutZone(), valueobject.WithOffset(*ic.Offset))
	case useDefault:
		zone, err := s.defaultZone()
		if err != nil {
			return nil, err
		}
		opts = append(opts, valueobject.WithZone(zone))
	}
	return opts, nil
}

// defaultZone returns the configured zone. A failed system detection
// still yields its UTC fallback.
func (s *InstantServiceImpl) defaultZone() (*valueobject.Zone, error) {
	zone, err := s.zoneService.GetConfiguredZone()
	if err != nil {
		if zone != nil && domain.IsErrorCode(err, domain.ErrCodeUnknownZone) {
			s.logger.Warn(context.Background(), "Using fallback zone", domain.NewField("zone", zone.Name()))
			return zone, nil
		}
		return nil, err
	}
	return zone, nil
}

func (s *InstantServiceImpl) explicit(ic usecase.InstantContext) bool {
	return ic.Zone != "" || ic.Offset != nil
}

// parseValue reads a canonical string, a hexadecimal float, epoch seconds
// or an ISO 8601 string, in that order. Aware input keeps its own zone or
// offset unless one is given explicitly.
func (s *InstantServiceImpl) parseValue(value string, ic usecase.InstantContext) (valueobject.Instant, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return valueobject.Instant{}, domain.ErrInvalidInput("value", "cannot be empty")
	}

	if strings.HasPrefix(text, "Time:") {
		inst, err := valueobject.Parse(text)
		if err != nil {
			return valueobject.Instant{}, err
		}
		return s.project(inst, ic)
	}

	if isHexArg(text) {
		opts, err := s.contextOptions(ic, true)
		if err != nil {
			return valueobject.Instant{}, err
		}
		return valueobject.FromHex(text, opts...)
	}

	if seconds, err := strconv.ParseFloat(text, 64); err == nil {
		opts, err := s.contextOptions(ic, true)
		if err != nil {
			return valueobject.Instant{}, err
		}
		return valueobject.FromEpoch(seconds, opts...)
	}

	opts, err := s.contextOptions(ic, false)
	if err != nil {
		return valueobject.Instant{}, err
	}
	inst, err := valueobject.FromISO(text, opts...)
	if err != nil && !s.explicit(ic) && domain.IsErrorCode(err, domain.ErrCodeInvalidInput) {
		// Naive input: read it on the configured zone
		zone, zerr := s.defaultZone()
		if zerr != nil {
			return valueobject.Instant{}, zerr
		}
		return valueobject.FromISO(text, append(opts, valueobject.WithZone(zone))...)
	}
	return inst, err
}

// project applies an explicit context to an already decoded instant
func (s *InstantServiceImpl) project(inst valueobject.Instant, ic usecase.InstantContext) (valueobject.Instant, error) {
	switch {
	case ic.Zone != "":
		zone, err := s.zoneService.ResolveZone(ic.Zone)
		if err != nil {
			return valueobject.Instant{}, err
		}
		return inst.WithZone(zone), nil
	case ic.Offset != nil:
		return inst.WithOffset(*ic.Offset), nil
	default:
		return inst, nil
	}
}

// NewInstantResult builds the presentation model of an instant
func NewInstantResult(inst valueobject.Instant) *usecase.InstantResult {
	zone := ""
	if z := inst.Zone(); z != nil {
		zone = z.Name()
	}
	civil := inst.Civil()
	return &usecase.InstantResult{
		Canonical:     inst.String(),
		ISO:           inst.ISO(),
		Epoch:         inst.Seconds(),
		Hex:           inst.Hex(),
		Zone:          zone,
		Offset:        inst.OffsetString(),
		OffsetSeconds: inst.Offset(),
		DST:           inst.IsDST(),
		Civil:         civil.String(),
		Weekday:       civil.Weekday(),
		Integer:       inst.IsInteger(),
	}
}

func isHexArg(text string) bool {
	lower := strings.ToLower(strings.TrimLeft(text, "+-"))
	return strings.HasPrefix(lower, "0x")
}
