package valueobject

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ca-srg/propertime/domain"
)

// Hex returns the epoch seconds in hexadecimal floating point notation,
// e.g. "0x1.ec00000000000p+6" for 123.
func (t Instant) Hex() string {
	return hexFloat(t.seconds)
}

func hexFloat(f float64) string {
	sign := ""
	if math.Signbit(f) {
		sign = "-"
	}
	if f == 0 {
		return sign + "0x0.0p+0"
	}

	bits := math.Float64bits(f)
	exp := int((bits >> 52) & 0x7ff)
	mant := bits & (1<<52 - 1)

	lead := 1
	if exp == 0 {
		// subnormal
		lead = 0
		exp = -1022
	} else {
		exp -= 1023
	}
	expSign := "+"
	if exp < 0 {
		expSign = "-"
		exp = -exp
	}
	return fmt.Sprintf("%s0x%d.%013xp%s%d", sign, lead, mant, expSign, exp)
}

// FromHex creates an Instant from hexadecimal floating point notation.
// The "0x" prefix and the exponent are optional.
func FromHex(s string, opts ...Option) (Instant, error) {
	text := strings.TrimSpace(s)
	sign := ""
	if strings.HasPrefix(text, "-") || strings.HasPrefix(text, "+") {
		sign, text = text[:1], text[1:]
	}
	lower := strings.ToLower(text)
	if !strings.HasPrefix(lower, "0x") {
		lower = "0x" + lower
	}
	if !strings.Contains(lower, "p") {
		lower += "p0"
	}
	f, err := strconv.ParseFloat(sign+lower, 64)
	if err != nil {
		return Instant{}, domain.ErrMalformedString("hex", s, "invalid hexadecimal floating point value")
	}
	return FromEpoch(f, opts...)
}

// IsInteger reports whether the epoch seconds have no fractional part.
func (t Instant) IsInteger() bool {
	return t.seconds == math.Trunc(t.seconds)
}

// IntegerRatio returns the epoch seconds as an exact fraction in lowest
// terms with a positive denominator.
func (t Instant) IntegerRatio() (*big.Int, *big.Int) {
	r := new(big.Rat).SetFloat64(t.seconds)
	return new(big.Int).Set(r.Num()), new(big.Int).Set(r.Denom())
}

// Real is not defined for instants.
func (t Instant) Real() (float64, error) {
	return 0, domain.ErrUnsupportedOperation("real", "complex numbers make no sense with time")
}

// Imag is not defined for instants.
func (t Instant) Imag() (float64, error) {
	return 0, domain.ErrUnsupportedOperation("imag", "complex numbers make no sense with time")
}

// Conjugate is not defined for instants.
func (t Instant) Conjugate() (Instant, error) {
	return Instant{}, domain.ErrUnsupportedOperation("conjugate", "complex numbers make no sense with time")
}
