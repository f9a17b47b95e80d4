package valueobject

import (
	"fmt"
	"math"
	"slices"

	"github.com/ca-srg/propertime/domain"
)

// Rounding selects the boundary Round returns.
type Rounding int

const (
	RoundHalf Rounding = iota
	RoundFloor
	RoundCeil
)

// ParseRounding maps "half", "floor" or "ceil" to a Rounding.
func ParseRounding(how string) (Rounding, error) {
	switch how {
	case "half", "":
		return RoundHalf, nil
	case "floor":
		return RoundFloor, nil
	case "ceil":
		return RoundCeil, nil
	default:
		return RoundHalf, domain.ErrInvalidInput("rounding", fmt.Sprintf("unknown rounding strategy %q", how))
	}
}

func (r Rounding) String() string {
	switch r {
	case RoundFloor:
		return "floor"
	case RoundCeil:
		return "ceil"
	default:
		return "half"
	}
}

// Floor returns the span boundary at or before the instant.
func (s Span) Floor(t Instant) (Instant, error) {
	return s.Round(t, RoundFloor)
}

// Ceil returns the span boundary after the floor.
func (s Span) Ceil(t Instant) (Instant, error) {
	return s.Round(t, RoundCeil)
}

// Round aligns the instant to the span boundaries. The result keeps the
// instant's zone or offset.
//
// Fixed-length spans longer than one hour align to multiples of the span
// on the local wall clock; a boundary skipped by a DST gap moves to the end
// of the gap and a repeated one counts twice. Calendar spans must be a single unit (1Y, 1M, 1W or
// 1D) and align to the start of that unit on the wall clock. Ties go to
// the ceiling for fixed-length spans and to the floor for calendar spans.
func (s Span) Round(t Instant, how Rounding) (Instant, error) {
	if s.IsComposite() {
		return Instant{}, domain.ErrUnsupportedOperation("round "+s.String(), "composite spans cannot be used for rounding")
	}
	if s.IsCalendar() {
		return s.roundCalendar(t, how)
	}
	return s.roundPhysical(t, how)
}

func (s Span) roundPhysical(t Instant, how Rounding) (Instant, error) {
	length := fromMicros(s.physicalMicros())
	sec := t.seconds

	var floor, ceil float64
	switch {
	case length <= 3600:
		floor = sec - floorMod(sec, length)
		ceil = floor + length
	case t.zone == nil:
		local := sec + t.offset
		floor = (local - floorMod(local, length)) - t.offset
		ceil = floor + length
	default:
		floor, ceil = wallClockBounds(t.zone, sec, t.offset, length)
	}

	var rounded float64
	switch how {
	case RoundFloor:
		rounded = floor
	case RoundCeil:
		rounded = ceil
	default:
		if math.Abs(sec-floor) < math.Abs(ceil-sec) {
			rounded = floor
		} else {
			rounded = ceil
		}
	}
	return t.rebuild(rounded)
}

// wallClockBounds finds the boundaries around sec at which the zone's wall
// clock shows a multiple of length. The floor is the latest such instant
// not after sec, the ceiling the earliest one after the floor.
func wallClockBounds(z *Zone, sec, offset, length float64) (float64, float64) {
	local := sec + offset
	localFloor := local - floorMod(local, length)

	floor := math.Inf(-1)
	for i := 0; i < 3 && math.IsInf(floor, -1); i++ {
		for _, e := range wallClockInstants(z, localFloor, sec) {
			if e <= sec && e > floor {
				floor = e
			}
		}
		if math.IsInf(floor, -1) {
			localFloor -= length
		}
	}
	if math.IsInf(floor, -1) {
		floor = localFloor - offset
	}

	ceil := math.Inf(1)
	for _, local := range []float64{localFloor, localFloor + length} {
		for _, e := range wallClockInstants(z, local, sec) {
			if e > floor && e < ceil {
				ceil = e
			}
		}
	}
	if math.IsInf(ceil, 1) {
		ceil = floor + length
	}
	return floor, ceil
}

// wallClockInstants returns the instants at which the zone's wall clock
// shows local, earliest first. Repeated wall clock times give two
// instants; a wall clock time skipped by a DST gap gives the end of the
// gap. near is any instant within a day of the result.
func wallClockInstants(z *Zone, local, near float64) []float64 {
	var offsets []int
	for _, at := range []float64{near - 86400, near, near + 86400} {
		off, _ := z.OffsetAt(at)
		if !slices.Contains(offsets, off) {
			offsets = append(offsets, off)
		}
	}

	var out []float64
	for _, off := range offsets {
		e := local - float64(off)
		if got, _ := z.OffsetAt(e); got == off {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		out = append(out, gapEnd(z, local, offsets))
	}
	slices.Sort(out)
	return out
}

// gapEnd returns the first instant after the DST gap that skips local.
func gapEnd(z *Zone, local float64, offsets []int) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, off := range offsets {
		e := local - float64(off)
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
	}
	lo, hi = math.Floor(lo), math.Ceil(hi)
	before, _ := z.OffsetAt(lo)
	for hi-lo > 1 {
		mid := math.Floor((lo + hi) / 2)
		if off, _ := z.OffsetAt(mid); off == before {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

func (s Span) roundCalendar(t Instant, how Rounding) (Instant, error) {
	units := 0
	for _, v := range []int{s.years, s.months, s.weeks, s.days} {
		if v > 1 {
			return Instant{}, domain.ErrUnsupportedOperation("round "+s.String(),
				"calendar spans with a count greater than one cannot be used for rounding")
		}
		units += v
	}
	if units > 1 {
		return Instant{}, domain.ErrUnsupportedOperation("round "+s.String(),
			"calendar spans with more than one unit cannot be used for rounding")
	}

	c := t.Civil()
	c.Hour, c.Minute, c.Second, c.Microsecond = 0, 0, 0, 0
	switch {
	case s.years == 1:
		c.Month, c.Day = 1, 1
	case s.months == 1:
		c.Day = 1
	case s.weeks == 1:
		c = civilFromNaiveMicros(c.naiveMicros() - int64(c.Weekday())*microsPerDay)
	}

	floor, err := resolveLike(t, c)
	if err != nil {
		return Instant{}, err
	}
	if how == RoundFloor {
		return floor, nil
	}

	ceil, err := s.Shift(floor, 1)
	if err != nil {
		return Instant{}, err
	}
	if how == RoundCeil {
		return ceil, nil
	}

	if math.Abs(t.seconds-floor.seconds) <= math.Abs(t.seconds-ceil.seconds) {
		return floor, nil
	}
	return ceil, nil
}
