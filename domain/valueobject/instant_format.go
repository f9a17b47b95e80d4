package valueobject

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ca-srg/propertime/domain"
)

var (
	canonicalPattern     = regexp.MustCompile(`^Time: (\S+) \((\d{4}-\d{2}-\d{2}) (\S+) (\S+)( DST)?\)$`)
	compactOffsetPattern = regexp.MustCompile(`^[+-]\d{4}$`)
	offsetPattern        = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})(?::(\d{2})(?:\.(\d{1,6}))?)?$`)
	isoPattern           = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?(Z|[+-]\d{2}:\d{2}(?::\d{2}(?:\.\d{1,6})?)?)?$`)
)

// formatFloat renders a float the shortest way that reads back exactly,
// with a trailing ".0" for integral values and exponent notation for
// very large or very small magnitudes.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatOffset renders ±HH:MM, adding :SS and .ffffff only when needed.
func formatOffset(offset float64) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
	}
	us := toMicros(math.Abs(offset))
	h := us / (3600 * microsPerSecond)
	m := us / (60 * microsPerSecond) % 60
	s := us / microsPerSecond % 60
	frac := us % microsPerSecond

	out := fmt.Sprintf("%c%02d:%02d", sign, h, m)
	if s != 0 || frac != 0 {
		out += fmt.Sprintf(":%02d", s)
	}
	if frac != 0 {
		out += fmt.Sprintf(".%06d", frac)
	}
	return out
}

func parseOffset(s string) (float64, bool) {
	m := offsetPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[2])
	mi, _ := strconv.Atoi(m[3])
	sec := 0
	if m[4] != "" {
		sec, _ = strconv.Atoi(m[4])
	}
	if mi > 59 || sec > 59 {
		return 0, false
	}
	us := (int64(h)*3600 + int64(mi)*60 + int64(sec)) * microsPerSecond
	us += int64(parseFraction(m[5]))
	if m[1] == "-" {
		us = -us
	}
	return fromMicros(us), true
}

// parseFraction reads decimal digits as microseconds, truncating beyond
// the sixth digit.
func parseFraction(digits string) int {
	if digits == "" {
		return 0
	}
	if len(digits) > 6 {
		digits = digits[:6]
	}
	digits += strings.Repeat("0", 6-len(digits))
	v, _ := strconv.Atoi(digits)
	return v
}

// String returns the canonical form, for example
// "Time: 523291560.0 (1986-08-01 16:46:00 Europe/Rome DST)".
func (t Instant) String() string {
	c, _, dst := epochToCivil(t.seconds, t.zone, t.offset)
	suffix := ""
	if dst {
		suffix = " DST"
	}
	return fmt.Sprintf("Time: %s (%s %s%s)", formatFloat(t.seconds), c.String(), t.contextName(), suffix)
}

// ISO returns the ISO 8601 form with a numeric offset, UTC included.
func (t Instant) ISO() string {
	c, offset, _ := epochToCivil(t.seconds, t.zone, t.offset)
	frac := ""
	if c.Microsecond != 0 {
		frac = fmt.Sprintf(".%06d", c.Microsecond)
	}
	return c.format('T') + frac + formatOffset(offset)
}

// OffsetString returns the UTC offset as ±HH:MM, with seconds when needed.
func (t Instant) OffsetString() string {
	return formatOffset(t.offset)
}

// ParseOffset reads a ±HH:MM[:SS[.ffffff]] or ±HHMM offset as seconds.
func ParseOffset(text string) (float64, error) {
	normalized := text
	if compactOffsetPattern.MatchString(text) {
		normalized = text[:3] + ":" + text[3:]
	}
	if offset, ok := parseOffset(normalized); ok {
		return offset, nil
	}
	return 0, domain.ErrMalformedString("offset", text, "expected ±HH:MM[:SS[.ffffff]] or ±HHMM")
}

// Parse reads the canonical form produced by String. The text must
// render back byte for byte, so an epoch value and civil fields that
// disagree are rejected.
func Parse(text string) (Instant, error) {
	m := canonicalPattern.FindStringSubmatch(text)
	if m == nil {
		return Instant{}, domain.ErrMalformedString("time", text, "unknown format")
	}

	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Instant{}, domain.ErrMalformedString("time", text, "invalid epoch value")
	}

	var opts []Option
	if off, ok := parseOffset(m[4]); ok {
		opts = append(opts, WithoutZone(), WithOffset(off))
	} else {
		z, err := LoadZone(m[4])
		if err != nil {
			return Instant{}, domain.NewDomainErrorWithCause(domain.ErrCodeMalformedString,
				fmt.Sprintf("malformed time %q: unknown zone or offset", text), err)
		}
		opts = append(opts, WithZone(z))
	}

	inst, err := FromEpoch(seconds, opts...)
	if err != nil {
		return Instant{}, err
	}
	if inst.String() != text {
		return Instant{}, domain.ErrMalformedString("time", text, "inconsistent with "+inst.String())
	}
	return inst, nil
}

type isoParts struct {
	civil  CivilTime
	zone   *Zone
	offset *float64
}

func parseISO(text string) (isoParts, error) {
	m := isoPattern.FindStringSubmatch(text)
	if m == nil {
		return isoParts{}, domain.ErrMalformedString("ISO time", text, "unknown format")
	}
	atoi := func(s string) int {
		v, _ := strconv.Atoi(s)
		return v
	}
	p := isoParts{civil: CivilTime{
		Year: atoi(m[1]), Month: atoi(m[2]), Day: atoi(m[3]),
		Hour: atoi(m[4]), Minute: atoi(m[5]), Second: atoi(m[6]),
		Microsecond: parseFraction(m[7]),
	}}
	if err := p.civil.Validate(); err != nil {
		return isoParts{}, domain.NewDomainErrorWithCause(domain.ErrCodeMalformedString,
			fmt.Sprintf("malformed ISO time %q", text), err)
	}

	switch tz := m[8]; {
	case tz == "":
	case tz == "Z":
		p.zone = UTC
	default:
		off, ok := parseOffset(tz)
		if !ok {
			return isoParts{}, domain.ErrMalformedString("ISO time", text, "invalid offset")
		}
		p.offset = &off
	}
	return p, nil
}

// FromISO parses an ISO 8601 string. A trailing "Z" yields the UTC zone,
// a numeric offset yields an offset-only instant, and naive strings need
// a zone or offset option. Given options move aware input to the target
// zone or offset.
func FromISO(text string, opts ...Option) (Instant, error) {
	p, err := parseISO(text)
	if err != nil {
		return Instant{}, err
	}
	if p.zone == nil && p.offset == nil {
		return FromCivilTime(p.civil, opts...)
	}

	cfg, err := newConfig(opts)
	if err != nil {
		return Instant{}, err
	}
	var off float64
	if p.offset != nil {
		off = *p.offset
	}
	us := p.civil.naiveMicros() - toMicros(off)
	return cfg.retarget(fromMicros(us), p.zone, p.offset)
}

// MarshalText encodes the canonical form.
func (t Instant) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes the canonical form.
func (t *Instant) UnmarshalText(data []byte) error {
	inst, err := Parse(string(data))
	if err != nil {
		return err
	}
	*t = inst
	return nil
}
