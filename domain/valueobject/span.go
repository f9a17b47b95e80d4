package valueobject

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ca-srg/propertime/domain"
)

var spanTokenPattern = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]+))?([YMWDhms])$`)

// Span is a duration made of calendar components (years, months, weeks,
// days), whose length depends on where it is applied, and physical
// components (hours, minutes, seconds), whose length is fixed.
type Span struct {
	years   int
	months  int
	weeks   int
	days    int
	hours   int
	minutes int
	seconds int
	micros  int
}

// SpanComponents are the explicit fields of a Span. Seconds may carry a
// fraction down to the microsecond.
type SpanComponents struct {
	Years   int
	Months  int
	Weeks   int
	Days    int
	Hours   int
	Minutes int
	Seconds float64
}

func (c SpanComponents) isZero() bool {
	return c == SpanComponents{}
}

// SpanOf builds a Span from explicit components. Negative components and
// all-zero spans are rejected.
func SpanOf(c SpanComponents) (Span, error) {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"years", c.Years}, {"months", c.Months}, {"weeks", c.Weeks},
		{"days", c.Days}, {"hours", c.Hours}, {"minutes", c.Minutes},
	} {
		if f.value < 0 {
			return Span{}, domain.ErrInvalidInput(f.name, "cannot be negative")
		}
	}
	if math.IsNaN(c.Seconds) || math.IsInf(c.Seconds, 0) || c.Seconds < 0 {
		return Span{}, domain.ErrInvalidInput("seconds", "must be a finite non-negative number")
	}

	us := toMicros(c.Seconds)
	s := Span{
		years:   c.Years,
		months:  c.Months,
		weeks:   c.Weeks,
		days:    c.Days,
		hours:   c.Hours,
		minutes: c.Minutes,
		seconds: int(us / microsPerSecond),
		micros:  int(us % microsPerSecond),
	}
	if s.isZero() {
		return Span{}, domain.ErrInvalidInput("span", "at least one component must be non-zero")
	}
	return s, nil
}

// SpanFromSeconds is the numeric shorthand for a physical span.
func SpanFromSeconds(seconds float64) (Span, error) {
	return SpanOf(SpanComponents{Seconds: seconds})
}

// NewSpan builds a Span from either its string form or explicit
// components, never both.
func NewSpan(value string, c SpanComponents) (Span, error) {
	if value != "" && !c.isZero() {
		return Span{}, domain.ErrInvalidInput("span", "choose between the string form and explicit components")
	}
	if value != "" {
		return ParseSpan(value)
	}
	return SpanOf(c)
}

// ParseSpan reads tokens such as "1D", "15m" or "30.3s" joined by "_".
// Only seconds may carry a fraction; digits past the microsecond are
// truncated.
func ParseSpan(value string) (Span, error) {
	if value == "" {
		return Span{}, domain.ErrInvalidInput("span", "value cannot be empty")
	}

	var s Span
	seen := make(map[string]bool)
	for _, token := range strings.Split(value, "_") {
		m := spanTokenPattern.FindStringSubmatch(token)
		if m == nil {
			return Span{}, domain.ErrMalformedString("span", value, fmt.Sprintf("cannot parse %q", token))
		}
		unit := m[3]
		if seen[unit] {
			return Span{}, domain.ErrMalformedString("span", value, fmt.Sprintf("unit %q given twice", unit))
		}
		seen[unit] = true
		if m[2] != "" && unit != "s" {
			return Span{}, domain.ErrMalformedString("span", value, "only seconds may have a fractional part")
		}

		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Span{}, domain.ErrMalformedString("span", value, fmt.Sprintf("%q is out of range", m[1]))
		}
		switch unit {
		case "Y":
			s.years = n
		case "M":
			s.months = n
		case "W":
			s.weeks = n
		case "D":
			s.days = n
		case "h":
			s.hours = n
		case "m":
			s.minutes = n
		case "s":
			s.seconds = n
			s.micros = parseFraction(m[2])
		}
	}

	if s.isZero() {
		return Span{}, domain.ErrInvalidInput("span", fmt.Sprintf("%q has no non-zero component", value))
	}
	return s, nil
}

// MustParseSpan is like ParseSpan but panics on error.
func MustParseSpan(value string) Span {
	s, err := ParseSpan(value)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Span) isZero() bool {
	return s == Span{}
}

// Years returns the years component.
func (s Span) Years() int { return s.years }

// Months returns the months component.
func (s Span) Months() int { return s.months }

// Weeks returns the weeks component.
func (s Span) Weeks() int { return s.weeks }

// Days returns the days component.
func (s Span) Days() int { return s.days }

// Hours returns the hours component.
func (s Span) Hours() int { return s.hours }

// Minutes returns the minutes component.
func (s Span) Minutes() int { return s.minutes }

// Seconds returns the seconds component, fraction included.
func (s Span) Seconds() float64 {
	return fromMicros(int64(s.seconds)*microsPerSecond + int64(s.micros))
}

// Microseconds returns the sub-second part of the seconds component.
func (s Span) Microseconds() int { return s.micros }

// Components returns the explicit fields.
func (s Span) Components() SpanComponents {
	return SpanComponents{
		Years: s.years, Months: s.months, Weeks: s.weeks, Days: s.days,
		Hours: s.hours, Minutes: s.minutes, Seconds: s.Seconds(),
	}
}

// IsCalendar reports whether any of years, months, weeks or days is set.
func (s Span) IsCalendar() bool {
	return s.years != 0 || s.months != 0 || s.weeks != 0 || s.days != 0
}

// IsPhysical reports whether any of hours, minutes or seconds is set.
func (s Span) IsPhysical() bool {
	return s.hours != 0 || s.minutes != 0 || s.seconds != 0 || s.micros != 0
}

// IsComposite reports whether both calendar and physical components are set.
func (s Span) IsComposite() bool {
	return s.IsCalendar() && s.IsPhysical()
}

func (s Span) physicalMicros() int64 {
	return (int64(s.hours)*3600+int64(s.minutes)*60+int64(s.seconds))*microsPerSecond + int64(s.micros)
}

// String renders the canonical form in Y, M, W, D, h, m, s order, e.g.
// "1D_30m_30.3s".
func (s Span) String() string {
	var parts []string
	for _, f := range []struct {
		value int
		unit  string
	}{
		{s.years, "Y"}, {s.months, "M"}, {s.weeks, "W"}, {s.days, "D"},
		{s.hours, "h"}, {s.minutes, "m"},
	} {
		if f.value != 0 {
			parts = append(parts, strconv.Itoa(f.value)+f.unit)
		}
	}
	if s.seconds != 0 || s.micros != 0 {
		sec := strconv.Itoa(s.seconds)
		if s.micros != 0 {
			sec += "." + strings.TrimRight(fmt.Sprintf("%06d", s.micros), "0")
		}
		parts = append(parts, sec+"s")
	}
	return strings.Join(parts, "_")
}

// Equal compares fixed-length spans by length and all others field by
// field, so "1h" equals "3600s" while "24h" differs from "1D".
func (s Span) Equal(other Span) bool {
	if !s.IsCalendar() && !other.IsCalendar() {
		return s.physicalMicros() == other.physicalMicros()
	}
	return s == other
}

// EqualString compares with a string form.
func (s Span) EqualString(value string) bool {
	return s.String() == value
}

// EqualSeconds compares a fixed-length span with a length in seconds.
func (s Span) EqualSeconds(seconds float64) bool {
	return !s.IsCalendar() && fromMicros(s.physicalMicros()) == seconds
}

// Plus sums every component.
func (s Span) Plus(other Span) Span {
	sum := Span{
		years:   s.years + other.years,
		months:  s.months + other.months,
		weeks:   s.weeks + other.weeks,
		days:    s.days + other.days,
		hours:   s.hours + other.hours,
		minutes: s.minutes + other.minutes,
		seconds: s.seconds + other.seconds,
		micros:  s.micros + other.micros,
	}
	if sum.micros >= int(microsPerSecond) {
		sum.seconds++
		sum.micros -= int(microsPerSecond)
	}
	return sum
}

// AsSeconds returns the span length. Calendar spans need the anchor they
// start from; composite spans have no single length.
func (s Span) AsSeconds(anchor *Instant) (float64, error) {
	if !s.IsCalendar() {
		return fromMicros(s.physicalMicros()), nil
	}
	if anchor == nil {
		return 0, domain.ErrInvalidInput("anchor", "a calendar span has a length only from a given starting point")
	}
	if s.IsComposite() {
		return 0, domain.ErrUnsupportedOperation("as seconds", "composite spans have no single length")
	}
	end, err := s.Shift(*anchor, 1)
	if err != nil {
		return 0, err
	}
	return end.seconds - anchor.seconds, nil
}

// Shift moves the anchor by the span the given number of times. Calendar
// spans move the wall clock and then resolve it strictly on the anchor's
// zone; they support times == 1 only.
func (s Span) Shift(anchor Instant, times int) (Instant, error) {
	if !s.IsCalendar() {
		return anchor.rebuild(anchor.seconds + fromMicros(s.physicalMicros())*float64(times))
	}
	if times != 1 {
		return Instant{}, domain.ErrUnsupportedOperation("shift",
			fmt.Sprintf("calendar spans can be shifted once only (got %d times)", times))
	}

	start := anchor.Civil()
	naive := start.naiveMicros() +
		int64(s.weeks*7+s.days)*microsPerDay +
		s.physicalMicros()
	c := civilFromNaiveMicros(naive)

	if s.years != 0 {
		c.Year += s.years
		if err := c.Validate(); err != nil {
			return Instant{}, domain.NewDomainErrorWithCause(domain.ErrCodeInvalidInput,
				fmt.Sprintf("cannot shift %s by %s", anchor, s), err)
		}
	}

	if s.months != 0 {
		total := s.months + c.Month
		yearsToAdd := total / 12
		newMonth := total % 12
		if newMonth == 0 {
			newMonth = 12
			yearsToAdd--
		}
		c.Year += yearsToAdd
		c.Month = newMonth
		if err := c.Validate(); err != nil {
			return Instant{}, domain.ErrInvalidInput("day",
				fmt.Sprintf("day is out of range for month for %s plus %d month(s)", start, s.months))
		}
	}

	shifted, err := resolveLike(anchor, c)
	if err != nil {
		return Instant{}, domain.NewDomainErrorWithCause(domain.GetErrorCode(err),
			fmt.Sprintf("cannot shift %s by %s", anchor, s), err)
	}
	return shifted, nil
}

// ShiftTime is Shift for a Go time; the result keeps its location.
func (s Span) ShiftTime(t time.Time, times int) (time.Time, error) {
	inst, err := FromTime(t)
	if err != nil {
		return time.Time{}, err
	}
	shifted, err := s.Shift(inst, times)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMicro(toMicros(shifted.seconds)).In(t.Location()), nil
}

// resolveLike places civil fields in the anchor's zone or offset, never
// guessing.
func resolveLike(anchor Instant, c CivilTime) (Instant, error) {
	if anchor.zone == nil {
		off := anchor.offset
		us, err := civilToEpoch(c, nil, &off, resolveStrict, nil)
		if err != nil {
			return Instant{}, err
		}
		return newInstant(fromMicros(us), nil, &off)
	}
	us, err := civilToEpoch(c, anchor.zone, nil, resolveStrict, nil)
	if err != nil {
		return Instant{}, err
	}
	return newInstant(fromMicros(us), anchor.zone, nil)
}

// Apply computes s <op> other with the span on the left. Only adding
// another span is defined.
func (s Span) Apply(op Op, other Operand) (Span, error) {
	if o, ok := other.Span(); ok && op == OpAdd {
		return s.Plus(o), nil
	}
	return Span{}, domain.ErrUnsupportedOperation("span "+op.String()+" "+other.Kind().String(),
		"only another span can be added to a span")
}

// ApplyReflected computes other <op> s with the span on the right:
// instants and times are shifted, numbers are offset by the span length
// and spans are summed. Spans are never subtracted from spans.
func (s Span) ApplyReflected(op Op, other Operand) (Operand, error) {
	var times int
	switch op {
	case OpAdd:
		times = 1
	case OpSub:
		times = -1
	default:
		return Operand{}, domain.ErrUnsupportedOperation(other.Kind().String()+" "+op.String()+" span",
			"spans support addition and subtraction only")
	}

	switch other.kind {
	case KindSpan:
		if op == OpSub {
			return Operand{}, domain.ErrUnsupportedOperation("span - span", "negative spans are not supported")
		}
		return SpanOperand(other.span.Plus(s)), nil

	case KindInstant:
		shifted, err := s.Shift(other.instant, times)
		if err != nil {
			return Operand{}, err
		}
		return InstantOperand(shifted), nil

	case KindTime:
		inst, err := FromTime(other.time)
		if err != nil {
			return Operand{}, err
		}
		shifted, err := s.Shift(inst, times)
		if err != nil {
			return Operand{}, err
		}
		return TimeOperand(time.UnixMicro(toMicros(shifted.seconds)).In(other.time.Location())), nil

	default:
		length, err := s.AsSeconds(nil)
		if err != nil {
			return Operand{}, err
		}
		return NumberOperand(other.number + length*float64(times)), nil
	}
}
