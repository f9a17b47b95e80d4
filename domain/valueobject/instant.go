package valueobject

import (
	"fmt"
	"math"
	"time"

	"github.com/ca-srg/propertime/domain"
)

// Instant is a point in time expressed as epoch seconds, decorated with
// either a named zone or a fixed UTC offset.
//
// When a zone is set the offset always equals the zone's offset at the
// instant. Instants are immutable and safe to share between goroutines;
// the civil projection is recomputed on every call.
type Instant struct {
	seconds float64
	zone    *Zone
	offset  float64
}

func newInstant(seconds float64, zone *Zone, offset *float64) (Instant, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return Instant{}, domain.ErrInvalidInput("seconds", "must be a finite number")
	}
	if zone != nil {
		off, _ := zone.OffsetAt(seconds)
		if offset != nil && *offset != float64(off) {
			return Instant{}, domain.ErrInconsistentOffset(*offset, float64(off), zone.Name()).
				WithDetails("hint", "disable the time zone to use an arbitrary offset")
		}
		return Instant{seconds: seconds, zone: zone, offset: float64(off)}, nil
	}
	if offset == nil {
		return Instant{}, domain.ErrInvalidInput("offset", "an offset is required when no time zone is set")
	}
	if math.IsNaN(*offset) || math.IsInf(*offset, 0) {
		return Instant{}, domain.ErrInvalidInput("offset", "must be a finite number")
	}
	return Instant{seconds: seconds, offset: *offset}, nil
}

// FromEpoch creates an Instant from epoch seconds. The zone defaults to
// UTC; an explicit offset must agree with the zone unless WithoutZone is
// used.
func FromEpoch(seconds float64, opts ...Option) (Instant, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return Instant{}, err
	}
	return newInstant(seconds, cfg.defaultZone(), cfg.offset)
}

// Now samples the configured clock, UTC by default.
func Now(opts ...Option) (Instant, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return Instant{}, err
	}
	return newInstant(fromMicros(cfg.clock.Now().UnixMicro()), cfg.defaultZone(), cfg.offset)
}

// FromCivil creates an Instant from exactly six components: year, month,
// day, hour, minute and second. The second may carry a fraction; the
// others must be integral.
func FromCivil(components []float64, opts ...Option) (Instant, error) {
	switch n := len(components); {
	case n < 6:
		return Instant{}, domain.ErrInvalidInput("components",
			"incomplete components: year, month, day, hour, minute and second are all required")
	case n == 7:
		return Instant{}, domain.ErrInvalidInput("components",
			"got a 7th component, use a fractional second to set sub-second precision")
	case n > 7:
		return Instant{}, domain.ErrInvalidInput("components",
			fmt.Sprintf("too many components: got %d, expected 6", n))
	}

	names := [...]string{"year", "month", "day", "hour", "minute"}
	fields := make([]int, len(names))
	for i, name := range names {
		v := components[i]
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return Instant{}, domain.ErrInvalidInput(name, "must be an integer")
		}
		fields[i] = int(v)
	}

	sec := components[5]
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < 0 {
		return Instant{}, domain.ErrInvalidInput("second", "must be a finite non-negative number")
	}
	whole := math.Floor(sec)
	micros := int(math.Round((sec - whole) * 1e6))
	if micros == 1_000_000 {
		micros = 999_999
	}

	cfg, err := newConfig(opts)
	if err != nil {
		return Instant{}, err
	}
	c := CivilTime{
		Year: fields[0], Month: fields[1], Day: fields[2],
		Hour: fields[3], Minute: fields[4], Second: int(whole), Microsecond: micros,
	}
	return fromCivil(c, cfg.defaultZone(), cfg)
}

// Date is FromCivil with typed fields.
func Date(year, month, day, hour, minute int, second float64, opts ...Option) (Instant, error) {
	return FromCivil([]float64{float64(year), float64(month), float64(day), float64(hour), float64(minute), second}, opts...)
}

// FromCivilTime decorates naive civil fields with a given zone or
// offset; one of the two is required.
func FromCivilTime(c CivilTime, opts ...Option) (Instant, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return Instant{}, err
	}
	var zone *Zone
	if cfg.zoneMode == zoneGiven {
		zone = cfg.zone
	}
	if zone == nil && cfg.offset == nil {
		return Instant{}, domain.ErrInvalidInput("civil time", "naive civil time requires a time zone or an offset")
	}
	return fromCivil(c, zone, cfg)
}

func fromCivil(c CivilTime, zone *Zone, cfg *config) (Instant, error) {
	us, err := civilToEpoch(c, zone, cfg.offset, cfg.mode(), cfg.logger)
	if err != nil {
		return Instant{}, err
	}
	return newInstant(fromMicros(us), zone, cfg.offset)
}

// FromTime creates an Instant from a Go time. Its location is kept as
// the zone, or as an offset for fixed-offset locations, unless a zone
// or offset option moves it elsewhere.
func FromTime(t time.Time, opts ...Option) (Instant, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return Instant{}, err
	}
	embeddedZone, embeddedOffset := contextOf(t)
	return cfg.retarget(fromMicros(t.UnixMicro()), embeddedZone, embeddedOffset)
}

func contextOf(t time.Time) (*Zone, *float64) {
	loc := t.Location()
	if isFixedLocation(loc) {
		_, off := t.Zone()
		o := float64(off)
		return nil, &o
	}
	return ZoneFromLocation(loc), nil
}

// Seconds returns the epoch seconds.
func (t Instant) Seconds() float64 {
	return t.seconds
}

// Zone returns the named zone, or nil for offset-only instants.
func (t Instant) Zone() *Zone {
	return t.zone
}

// Offset returns the UTC offset in seconds.
func (t Instant) Offset() float64 {
	return t.offset
}

// IsDST reports whether the zone observes daylight saving time at the
// instant. Offset-only instants never do.
func (t Instant) IsDST() bool {
	if t.zone == nil {
		return false
	}
	_, dst := t.zone.OffsetAt(t.seconds)
	return dst
}

// Civil returns the wall-clock fields in the instant's zone or offset.
func (t Instant) Civil() CivilTime {
	c, _, _ := epochToCivil(t.seconds, t.zone, t.offset)
	return c
}

// Time converts to a Go time in the instant's zone, or in a fixed zone
// carrying the offset rounded to whole seconds.
func (t Instant) Time() time.Time {
	gt := time.UnixMicro(toMicros(t.seconds))
	if t.zone != nil {
		return gt.In(t.zone.loc)
	}
	return gt.In(time.FixedZone("", int(math.Round(t.offset))))
}

// WithZone returns the same instant on another zone, with the offset
// recomputed. A nil zone keeps the current offset and drops the zone.
func (t Instant) WithZone(z *Zone) Instant {
	if z == nil {
		return Instant{seconds: t.seconds, offset: t.offset}
	}
	off, _ := z.OffsetAt(t.seconds)
	return Instant{seconds: t.seconds, zone: z, offset: float64(off)}
}

// WithOffset returns the same instant with a fixed offset and no zone.
func (t Instant) WithOffset(offset float64) Instant {
	return Instant{seconds: t.seconds, offset: offset}
}

// Equal compares the epoch value only, as numbers do.
func (t Instant) Equal(other Instant) bool {
	return t.seconds == other.seconds
}

// Identical compares value, zone and offset.
func (t Instant) Identical(other Instant) bool {
	return t.seconds == other.seconds && t.zone.Equals(other.zone) && t.offset == other.offset
}

// Before reports whether t is strictly earlier than other.
func (t Instant) Before(other Instant) bool {
	return t.seconds < other.seconds
}

// After reports whether t is strictly later than other.
func (t Instant) After(other Instant) bool {
	return t.seconds > other.seconds
}

// Compare returns -1, 0 or +1.
func (t Instant) Compare(other Instant) int {
	switch {
	case t.seconds < other.seconds:
		return -1
	case t.seconds > other.seconds:
		return 1
	default:
		return 0
	}
}

// contextName renders the zone name or the offset, for messages.
func (t Instant) contextName() string {
	if t.zone != nil {
		return t.zone.Name()
	}
	return formatOffset(t.offset)
}

// rebuild decorates new epoch seconds with the same zone or offset.
func (t Instant) rebuild(seconds float64) (Instant, error) {
	if t.zone != nil {
		return newInstant(seconds, t.zone, nil)
	}
	off := t.offset
	return newInstant(seconds, nil, &off)
}
