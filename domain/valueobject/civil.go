package valueobject

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ca-srg/propertime/domain"
)

const (
	microsPerSecond = int64(1_000_000)
	microsPerDay    = 86400 * microsPerSecond
)

// CivilTime holds wall-clock fields with no zone or offset attached.
type CivilTime struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

// Classification tells how a civil time maps onto a named zone.
type Classification int

const (
	// Normal civil times map to exactly one instant.
	Normal Classification = iota
	// Ambiguous civil times map to two instants (backward transition).
	Ambiguous
	// NonExistent civil times map to no instant (forward transition).
	NonExistent
)

func (c Classification) String() string {
	switch c {
	case Normal:
		return "normal"
	case Ambiguous:
		return "ambiguous"
	case NonExistent:
		return "non-existent"
	default:
		return "unknown"
	}
}

type resolveMode int

const (
	resolveStrict resolveMode = iota
	resolveGuess
)

// Validate checks every field range, including the day of month.
func (c CivilTime) Validate() error {
	switch {
	case c.Year < 1 || c.Year > 9999:
		return domain.ErrInvalidInput("year", fmt.Sprintf("%d is out of range", c.Year))
	case c.Month < 1 || c.Month > 12:
		return domain.ErrInvalidInput("month", "month must be in 1..12")
	case c.Day < 1 || c.Day > daysIn(c.Year, c.Month):
		return domain.ErrInvalidInput("day", "day is out of range for month")
	case c.Hour < 0 || c.Hour > 23:
		return domain.ErrInvalidInput("hour", "hour must be in 0..23")
	case c.Minute < 0 || c.Minute > 59:
		return domain.ErrInvalidInput("minute", "minute must be in 0..59")
	case c.Second < 0 || c.Second > 59:
		return domain.ErrInvalidInput("second", "second must be in 0..59")
	case c.Microsecond < 0 || c.Microsecond > 999999:
		return domain.ErrInvalidInput("microsecond", "microsecond must be in 0..999999")
	}
	return nil
}

// String renders "YYYY-MM-DD HH:MM:SS" with a trimmed fraction when the
// microseconds are not zero.
func (c CivilTime) String() string {
	return c.format(' ') + c.fraction()
}

func (c CivilTime) format(sep byte) string {
	return fmt.Sprintf("%04d-%02d-%02d%c%02d:%02d:%02d", c.Year, c.Month, c.Day, sep, c.Hour, c.Minute, c.Second)
}

func (c CivilTime) fraction() string {
	if c.Microsecond == 0 {
		return ""
	}
	return "." + strings.TrimRight(fmt.Sprintf("%06d", c.Microsecond), "0")
}

// Weekday returns the day of the week, Monday being 0.
func (c CivilTime) Weekday() int {
	wd := time.Date(c.Year, time.Month(c.Month), c.Day, 0, 0, 0, 0, time.UTC).Weekday()
	return (int(wd) + 6) % 7
}

// naiveMicros reads the fields as if they were UTC.
func (c CivilTime) naiveMicros() int64 {
	return time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, c.Second, c.Microsecond*1000, time.UTC).UnixMicro()
}

func civilFromNaiveMicros(us int64) CivilTime {
	t := time.UnixMicro(us).UTC()
	return CivilTime{
		Year:        t.Year(),
		Month:       int(t.Month()),
		Day:         t.Day(),
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Microsecond: t.Nanosecond() / 1000,
	}
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func toMicros(seconds float64) int64 {
	return int64(math.RoundToEven(seconds * 1e6))
}

func fromMicros(us int64) float64 {
	return float64(us) / 1e6
}

// localize maps civil fields onto a zone. For ambiguous times the epoch
// uses the offset the zone reports when the fields are read as UTC.
func localize(c CivilTime, z *Zone) (int64, Classification) {
	naive := c.naiveMicros()

	off1, _ := z.offsetAtMicros(naive)
	epoch := naive - int64(off1)*microsPerSecond
	off2, _ := z.offsetAtMicros(epoch)
	if off2 != off1 {
		epoch = naive - int64(off2)*microsPerSecond
		if off3, _ := z.offsetAtMicros(epoch); off3 != off2 {
			return epoch, NonExistent
		}
	}

	if z.isUTC() {
		return epoch, Normal
	}

	// Another offset in effect one hour either side that also maps the
	// same wall clock back onto itself means the civil time repeats.
	for _, at := range []int64{epoch - 3600*microsPerSecond, epoch + 3600*microsPerSecond} {
		off, _ := z.offsetAtMicros(at)
		alt := naive - int64(off)*microsPerSecond
		if alt == epoch {
			continue
		}
		if altOff, _ := z.offsetAtMicros(alt); altOff == off {
			return epoch, Ambiguous
		}
	}
	return epoch, Normal
}

// Classify tells whether the civil time is normal, ambiguous or
// non-existent on the zone.
func Classify(c CivilTime, z *Zone) (Classification, error) {
	if err := c.Validate(); err != nil {
		return Normal, err
	}
	if z == nil {
		return Normal, nil
	}
	_, class := localize(c, z)
	return class, nil
}

// civilToEpoch converts civil fields to epoch microseconds under a zone,
// a fixed offset, or both. An explicit offset disambiguates repeated wall
// clock times; non-existent times always fail.
func civilToEpoch(c CivilTime, zone *Zone, offset *float64, mode resolveMode, logger domain.Logger) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	naive := c.naiveMicros()

	if zone == nil {
		if offset == nil {
			return 0, domain.ErrInvalidInput("offset", "a time zone or an offset is required")
		}
		return naive - toMicros(*offset), nil
	}

	epoch, class := localize(c, zone)
	switch class {
	case NonExistent:
		return 0, domain.ErrNonExistentTime(c.String(), zone.Name())
	case Ambiguous:
		if offset != nil {
			break
		}
		if mode != resolveGuess {
			return 0, domain.ErrAmbiguousTime(c.String(), zone.Name()).
				WithDetails("hint", "enable guessing or provide an offset")
		}
		off, _ := zone.offsetAtMicros(epoch)
		if logger != nil {
			logger.Warn(context.Background(), fmt.Sprintf("Time %s is ambiguous on time zone %s, assuming %s UTC offset",
				c.String(), zone.Name(), formatOffset(float64(off))),
				domain.NewField("zone", zone.Name()))
		}
	}

	if offset != nil {
		return naive - toMicros(*offset), nil
	}
	return epoch, nil
}

// epochToCivil projects epoch seconds onto a zone or a fixed offset and
// returns the civil fields, the effective offset and the DST flag.
func epochToCivil(seconds float64, zone *Zone, offset float64) (CivilTime, float64, bool) {
	us := toMicros(seconds)
	dst := false
	if zone != nil {
		off, isDST := zone.offsetAtMicros(us)
		offset = float64(off)
		dst = isDST
	}
	return civilFromNaiveMicros(us + toMicros(offset)), offset, dst
}
