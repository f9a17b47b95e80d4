package valueobject

import (
	"fmt"
	"math"
	"time"

	"github.com/ca-srg/propertime/domain"
)

// Op is an arithmetic operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpFloorDiv
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	case OpFloorDiv:
		return "//"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// OperandKind tells which value an Operand holds.
type OperandKind int

const (
	KindNumber OperandKind = iota
	KindInstant
	KindTime
	KindSpan
)

func (k OperandKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInstant:
		return "instant"
	case KindTime:
		return "time"
	case KindSpan:
		return "span"
	default:
		return "unknown"
	}
}

// Operand is the other side of an arithmetic operation.
type Operand struct {
	kind    OperandKind
	number  float64
	instant Instant
	time    time.Time
	span    Span
}

// NumberOperand wraps plain seconds.
func NumberOperand(x float64) Operand {
	return Operand{kind: KindNumber, number: x}
}

// InstantOperand wraps an Instant.
func InstantOperand(t Instant) Operand {
	return Operand{kind: KindInstant, instant: t}
}

// TimeOperand wraps a Go time.
func TimeOperand(t time.Time) Operand {
	return Operand{kind: KindTime, time: t}
}

// SpanOperand wraps a Span.
func SpanOperand(s Span) Operand {
	return Operand{kind: KindSpan, span: s}
}

// Kind returns the wrapped value kind.
func (o Operand) Kind() OperandKind { return o.kind }

// Number returns the wrapped number.
func (o Operand) Number() (float64, bool) { return o.number, o.kind == KindNumber }

// Instant returns the wrapped Instant.
func (o Operand) Instant() (Instant, bool) { return o.instant, o.kind == KindInstant }

// Time returns the wrapped Go time.
func (o Operand) Time() (time.Time, bool) { return o.time, o.kind == KindTime }

// Span returns the wrapped Span.
func (o Operand) Span() (Span, bool) { return o.span, o.kind == KindSpan }

// Apply computes t <op> other. Numbers keep t's zone or offset; two
// instants must have reconcilable contexts; spans shift t.
func (t Instant) Apply(op Op, other Operand) (Instant, error) {
	return t.apply(op, other, false)
}

// ApplyReflected computes other <op> t.
func (t Instant) ApplyReflected(op Op, other Operand) (Instant, error) {
	return t.apply(op, other, true)
}

func (t Instant) apply(op Op, other Operand, reflected bool) (Instant, error) {
	var value float64
	target := t

	switch other.kind {
	case KindSpan:
		if reflected {
			return Instant{}, domain.ErrUnsupportedOperation("span "+op.String()+" instant",
				"only adding or subtracting a span to an instant is supported")
		}
		res, err := other.span.ApplyReflected(op, InstantOperand(t))
		if err != nil {
			return Instant{}, err
		}
		inst, _ := res.Instant()
		return inst, nil

	case KindInstant:
		ctx, err := combineContext(t, other.instant.zone, other.instant.offset)
		if err != nil {
			return Instant{}, err
		}
		target = ctx
		value = other.instant.seconds

	case KindTime:
		zone, offset := contextOf(other.time)
		var off float64
		if offset != nil {
			off = *offset
		}
		ctx, err := combineContext(t, zone, off)
		if err != nil {
			return Instant{}, err
		}
		target = ctx
		value = fromMicros(other.time.UnixMicro())

	default:
		value = other.number
	}

	a, b := t.seconds, value
	if reflected {
		a, b = b, a
	}
	result, err := compute(op, a, b)
	if err != nil {
		return Instant{}, err
	}
	return target.rebuild(result)
}

// combineContext picks the zone or offset for a result built from t and
// another zone-or-offset: equal zones, else the only zone, else equal
// offsets.
func combineContext(t Instant, zone *Zone, offset float64) (Instant, error) {
	switch {
	case t.zone != nil && zone != nil:
		if !t.zone.Equals(zone) {
			return Instant{}, domain.ErrIncompatibleContext(t.zone.Name(), zone.Name())
		}
		return t, nil
	case t.zone != nil:
		return t, nil
	case zone != nil:
		return Instant{zone: zone}, nil
	default:
		if t.offset != offset {
			return Instant{}, domain.ErrIncompatibleContext(formatOffset(t.offset), formatOffset(offset))
		}
		return t, nil
	}
}

// Add returns t + other.
func (t Instant) Add(other Instant) (Instant, error) {
	return t.Apply(OpAdd, InstantOperand(other))
}

// Sub returns t - other.
func (t Instant) Sub(other Instant) (Instant, error) {
	return t.Apply(OpSub, InstantOperand(other))
}

// AddSeconds returns t shifted by x seconds in the same context.
func (t Instant) AddSeconds(x float64) (Instant, error) {
	return t.Apply(OpAdd, NumberOperand(x))
}

// AddSpan returns t shifted forward by the span.
func (t Instant) AddSpan(s Span) (Instant, error) {
	return t.Apply(OpAdd, SpanOperand(s))
}

// SubSpan returns t shifted backward by the span.
func (t Instant) SubSpan(s Span) (Instant, error) {
	return t.Apply(OpSub, SpanOperand(s))
}

// compute applies op with floating point semantics where modulo and
// floor division follow the sign of the divisor.
func compute(op Op, a, b float64) (float64, error) {
	var r float64
	switch op {
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpMul:
		r = a * b
	case OpDiv:
		if b == 0 {
			return 0, domain.ErrInvalidInput("divisor", "division by zero")
		}
		r = a / b
	case OpMod:
		if b == 0 {
			return 0, domain.ErrInvalidInput("divisor", "modulo by zero")
		}
		r = floorMod(a, b)
	case OpFloorDiv:
		if b == 0 {
			return 0, domain.ErrInvalidInput("divisor", "division by zero")
		}
		r = floorDiv(a, b)
	case OpPow:
		if a == 0 && b < 0 {
			return 0, domain.ErrInvalidInput("exponent", "zero cannot be raised to a negative power")
		}
		if a < 0 && b != math.Trunc(b) {
			return 0, domain.ErrInvalidInput("exponent", "negative number cannot be raised to a fractional power")
		}
		r = math.Pow(a, b)
	default:
		return 0, domain.ErrUnsupportedOperation(op.String(), "unknown operator")
	}
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0, domain.ErrInvalidInput("result", fmt.Sprintf("%v %s %v is out of range", a, op, b))
	}
	return r, nil
}

func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 {
		if (b < 0) != (m < 0) {
			m += b
		}
	} else {
		m = math.Copysign(0, b)
	}
	return m
}

func floorDiv(a, b float64) float64 {
	m := math.Mod(a, b)
	div := (a - m) / b
	if m != 0 && (b < 0) != (m < 0) {
		div -= 1
	}
	if div == 0 {
		return math.Copysign(0, a/b)
	}
	fd := math.Floor(div)
	if div-fd > 0.5 {
		fd += 1
	}
	return fd
}
