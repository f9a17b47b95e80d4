package usecase

import (
	"github.com/ca-srg/propertime/domain/repository"
)

// InstantContext selects the zone or offset an instant is projected on.
// Zone wins over Offset; an empty Zone with a nil Offset means the
// configured default zone.
type InstantContext struct {
	Zone     string
	Offset   *float64
	Guessing bool
}

// ParseRequest represents a request to read an instant from text
type ParseRequest struct {
	// Value is a canonical string, an ISO 8601 string, epoch seconds or a
	// hexadecimal float ("0x...")
	Value string
	InstantContext
}

// ConvertRequest represents a request to move an instant to another zone or offset
type ConvertRequest struct {
	Value string
	// To is a zone name, "local", "UTC" or a "±HH:MM" offset
	To string
}

// ShiftRequest represents a request to shift an instant by a span
type ShiftRequest struct {
	Value string
	Span  string
	Times int
	InstantContext
}

// RoundRequest represents a request to round an instant to a span boundary
type RoundRequest struct {
	Value string
	Span  string
	// How is half, floor or ceil; empty uses the configured rounding
	How string
	InstantContext
}

// SpanRequest represents a request to describe a span, optionally at an anchor
type SpanRequest struct {
	Span   string
	Anchor string
	InstantContext
}

// InstantResult is the presentation model of an instant
type InstantResult struct {
	Canonical     string  `json:"canonical" yaml:"canonical"`
	ISO           string  `json:"iso" yaml:"iso"`
	Epoch         float64 `json:"epoch" yaml:"epoch"`
	Hex           string  `json:"hex" yaml:"hex"`
	Zone          string  `json:"zone,omitempty" yaml:"zone,omitempty"`
	Offset        string  `json:"offset" yaml:"offset"`
	OffsetSeconds float64 `json:"offset_seconds" yaml:"offset_seconds"`
	DST           bool    `json:"dst" yaml:"dst"`
	Civil         string  `json:"civil" yaml:"civil"`
	Weekday       int     `json:"weekday" yaml:"weekday"`
	Integer       bool    `json:"integer" yaml:"integer"`
}

// SpanResult is the presentation model of a span
type SpanResult struct {
	Span       string         `json:"span" yaml:"span"`
	Components map[string]any `json:"components" yaml:"components"`
	Calendar   bool           `json:"calendar" yaml:"calendar"`
	Physical   bool           `json:"physical" yaml:"physical"`
	// Seconds is the length of the span, measured from Anchor for calendar spans
	Seconds *float64 `json:"seconds,omitempty" yaml:"seconds,omitempty"`
	Anchor  string   `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	End     string   `json:"end,omitempty" yaml:"end,omitempty"`
}

// DayResult is the local day containing an instant
type DayResult struct {
	Start   *InstantResult `json:"start" yaml:"start"`
	End     *InstantResult `json:"end" yaml:"end"`
	Seconds float64        `json:"seconds" yaml:"seconds"`
}

// InstantService defines the instant operations exposed to the CLI
type InstantService interface {
	// Now returns the current instant in the given context
	Now(ctx InstantContext) (*InstantResult, error)

	// Parse reads an instant from any supported text form
	Parse(req *ParseRequest) (*InstantResult, error)

	// Convert moves an instant to another zone or offset without changing its epoch value
	Convert(req *ConvertRequest) (*InstantResult, error)

	// Shift moves an instant by a span the given number of times
	Shift(req *ShiftRequest) (*InstantResult, error)

	// Round rounds an instant to the boundaries of a span
	Round(req *RoundRequest) (*InstantResult, error)

	// DescribeSpan returns the components and, when possible, the length of a span
	DescribeSpan(req *SpanRequest) (*SpanResult, error)

	// Day returns the local midnights around an instant; an empty value means now
	Day(req *ParseRequest) (*DayResult, error)

	// ZoneInfo describes a zone at an instant. An empty name and value report
	// the configured zone right now, with how it was determined.
	ZoneInfo(name string, at string) (*repository.ZoneInfo, error)
}
