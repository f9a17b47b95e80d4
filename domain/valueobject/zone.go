package valueobject

import (
	"sync"
	"time"

	"github.com/ca-srg/propertime/domain"
)

// Zone is a resolved named time zone backed by the tz database.
// Fixed offsets are never represented as a Zone; an Instant carries them
// as a bare offset instead.
type Zone struct {
	name string
	loc  *time.Location
}

// UTC is the zone every constructor defaults to.
var UTC = &Zone{name: "UTC", loc: time.UTC}

var (
	zoneCacheMu sync.RWMutex
	zoneCache   = map[string]*Zone{"UTC": UTC}
)

// LoadZone resolves a zone identifier such as "Europe/Rome".
// Unknown identifiers fail with an UNKNOWN_ZONE error.
func LoadZone(name string) (*Zone, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput("zone", "name cannot be empty")
	}

	zoneCacheMu.RLock()
	z, ok := zoneCache[name]
	zoneCacheMu.RUnlock()
	if ok {
		return z, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, domain.ErrUnknownZone(name, err)
	}

	zoneCacheMu.Lock()
	defer zoneCacheMu.Unlock()
	if z, ok := zoneCache[name]; ok {
		return z, nil
	}
	z = &Zone{name: name, loc: loc}
	zoneCache[name] = z
	return z, nil
}

// MustLoadZone is like LoadZone but panics on error.
func MustLoadZone(name string) *Zone {
	z, err := LoadZone(name)
	if err != nil {
		panic(err)
	}
	return z
}

// ZoneFromLocation wraps an already resolved location. A nil location
// yields a nil zone.
func ZoneFromLocation(loc *time.Location) *Zone {
	if loc == nil {
		return nil
	}
	if loc == time.UTC {
		return UTC
	}
	return &Zone{name: loc.String(), loc: loc}
}

// ResolveZone normalizes a zone argument: nil, a zone name, a
// *time.Location or a *Zone.
func ResolveZone(spec any) (*Zone, error) {
	switch v := spec.(type) {
	case nil:
		return nil, nil
	case *Zone:
		return v, nil
	case string:
		return LoadZone(v)
	case *time.Location:
		return ZoneFromLocation(v), nil
	default:
		return nil, domain.ErrInvalidInput("zone", "unsupported zone argument")
	}
}

// isFixedLocation reports whether loc only carries a constant offset,
// as produced by time.FixedZone, rather than a tz database entry.
func isFixedLocation(loc *time.Location) bool {
	if loc == nil || loc == time.UTC || loc == time.Local {
		return false
	}
	name := loc.String()
	if name == "" {
		return true
	}
	_, err := LoadZone(name)
	return err != nil
}

// Name returns the zone identifier.
func (z *Zone) Name() string {
	return z.name
}

// Location returns the underlying tz database handle.
func (z *Zone) Location() *time.Location {
	return z.loc
}

func (z *Zone) String() string {
	return z.name
}

// Equals reports whether both zones have the same identifier. Two nil
// zones are equal.
func (z *Zone) Equals(other *Zone) bool {
	if z == nil || other == nil {
		return z == other
	}
	return z.name == other.name
}

// OffsetAt returns the UTC offset in seconds in effect at the given epoch
// seconds, and whether daylight saving time applies.
func (z *Zone) OffsetAt(seconds float64) (int, bool) {
	return z.offsetAtMicros(toMicros(seconds))
}

func (z *Zone) offsetAtMicros(us int64) (int, bool) {
	t := time.UnixMicro(us).In(z.loc)
	_, offset := t.Zone()
	return offset, t.IsDST()
}

func (z *Zone) isUTC() bool {
	return z.name == "UTC"
}
