package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/valueobject"
)

// MaxSeriesPoints caps the number of instants a single series may hold.
const MaxSeriesPoints = 100000

// Series is the ordered list of instants obtained by sliding a start
// instant forward by a span until an end instant is reached.
type Series struct {
	id        string
	label     string
	span      valueobject.Span
	start     valueobject.Instant
	end       valueobject.Instant
	points    []valueobject.Instant
	createdAt time.Time
}

// NewSeries slides from start to end by span. Every position up to and
// including end is kept, so the last point equals end when the span
// divides the interval. The creation time is read from clock; nil means
// the system clock.
func NewSeries(label string, start, end valueobject.Instant, span valueobject.Span, clock valueobject.Clock) (*Series, error) {
	if label == "" {
		label = fmt.Sprintf("%s every %s", start.ISO(), span)
	}
	if clock == nil {
		clock = valueobject.RealClock()
	}
	if !start.Before(end) {
		return nil, domain.ErrInvalidInput("end", "must be after start")
	}

	points := []valueobject.Instant{start}
	slider := start
	for {
		next, err := span.Shift(slider, 1)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.GetErrorCode(err),
				fmt.Sprintf("cannot slide series %q past %s", label, slider), err)
		}
		if next.After(end) {
			break
		}
		if len(points) == MaxSeriesPoints {
			return nil, domain.ErrInvalidInput("span",
				fmt.Sprintf("series would exceed %d points", MaxSeriesPoints))
		}
		points = append(points, next)
		slider = next
	}

	return &Series{
		id:        uuid.NewString(),
		label:     label,
		span:      span,
		start:     start,
		end:       end,
		points:    points,
		createdAt: clock.Now().UTC(),
	}, nil
}

// RestoreSeries rebuilds a persisted series without sliding again.
func RestoreSeries(
	id string,
	label string,
	span valueobject.Span,
	start valueobject.Instant,
	end valueobject.Instant,
	points []valueobject.Instant,
	createdAt time.Time,
) (*Series, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput("series id", "cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidInput("series id", err.Error())
	}
	if len(points) == 0 {
		return nil, domain.ErrInvalidInput("points", "a series has at least its start point")
	}
	return &Series{
		id:        id,
		label:     label,
		span:      span,
		start:     start,
		end:       end,
		points:    points,
		createdAt: createdAt,
	}, nil
}

// ID returns the series ID
func (s *Series) ID() string {
	return s.id
}

// Label returns the label
func (s *Series) Label() string {
	return s.label
}

// Span returns the step span
func (s *Series) Span() valueobject.Span {
	return s.span
}

// Start returns the start instant
func (s *Series) Start() valueobject.Instant {
	return s.start
}

// End returns the end instant
func (s *Series) End() valueobject.Instant {
	return s.end
}

// Points returns a copy of the points
func (s *Series) Points() []valueobject.Instant {
	out := make([]valueobject.Instant, len(s.points))
	copy(out, s.points)
	return out
}

// Len returns the number of points
func (s *Series) Len() int {
	return len(s.points)
}

// CreatedAt returns the creation time
func (s *Series) CreatedAt() time.Time {
	return s.createdAt
}

// Aligned reports whether the slider landed exactly on the end instant.
func (s *Series) Aligned() bool {
	return s.points[len(s.points)-1].Equal(s.end)
}
