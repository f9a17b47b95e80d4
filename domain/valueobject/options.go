package valueobject

import (
	"github.com/ca-srg/propertime/domain"
)

type zoneMode int

const (
	zoneUnset zoneMode = iota
	zoneGiven
	zoneNone
)

type config struct {
	zoneMode zoneMode
	zone     *Zone
	offset   *float64
	guessing bool
	logger   domain.Logger
	clock    Clock
	err      error
}

// Option configures Instant construction.
type Option func(*config)

// WithZone sets the target zone. A nil zone is the same as WithoutZone.
func WithZone(z *Zone) Option {
	return func(c *config) {
		if z == nil {
			c.zoneMode = zoneNone
			c.zone = nil
			return
		}
		c.zoneMode = zoneGiven
		c.zone = z
	}
}

// WithZoneName resolves and sets the target zone by identifier.
func WithZoneName(name string) Option {
	return func(c *config) {
		z, err := LoadZone(name)
		if err != nil {
			c.err = err
			return
		}
		c.zoneMode = zoneGiven
		c.zone = z
	}
}

// WithoutZone disables the default zone; an offset must then be given.
func WithoutZone() Option {
	return WithZone(nil)
}

// WithOffset sets an explicit UTC offset in seconds.
func WithOffset(seconds float64) Option {
	return func(c *config) {
		c.offset = &seconds
	}
}

// WithGuessing resolves ambiguous civil times instead of failing.
func WithGuessing() Option {
	return func(c *config) {
		c.guessing = true
	}
}

// WithLogger sets the sink for ambiguity warnings.
func WithLogger(logger domain.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithClock sets the clock sampled by Now.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

func newConfig(opts []Option) (*config, error) {
	c := &config{clock: RealClock()}
	for _, opt := range opts {
		opt(c)
	}
	if c.err != nil {
		return nil, c.err
	}
	return c, nil
}

// defaultZone is the zone used by constructors that default to UTC.
func (c *config) defaultZone() *Zone {
	switch c.zoneMode {
	case zoneGiven:
		return c.zone
	case zoneNone:
		return nil
	default:
		return UTC
	}
}

func (c *config) mode() resolveMode {
	if c.guessing {
		return resolveGuess
	}
	return resolveStrict
}

// retarget decorates epoch seconds read from an aware value. A given
// zone wins over the embedded one; a given offset wins when no zone was
// given. When both a zone and an offset are given they must agree.
func (c *config) retarget(seconds float64, embeddedZone *Zone, embeddedOffset *float64) (Instant, error) {
	var zone *Zone
	var offset *float64

	switch c.zoneMode {
	case zoneGiven:
		zone = c.zone
	case zoneUnset:
		if c.offset == nil {
			zone = embeddedZone
		}
	}

	if c.zoneMode != zoneGiven {
		switch {
		case c.offset != nil:
			offset = c.offset
		case embeddedOffset != nil:
			offset = embeddedOffset
		case zone == nil && embeddedZone != nil:
			off, _ := embeddedZone.OffsetAt(seconds)
			o := float64(off)
			offset = &o
		}
	}

	inst, err := newInstant(seconds, zone, offset)
	if err != nil {
		return Instant{}, err
	}
	if c.zoneMode == zoneGiven && c.offset != nil && inst.offset != *c.offset {
		return Instant{}, domain.ErrInconsistentOffset(*c.offset, inst.offset, zone.Name())
	}
	return inst, nil
}
