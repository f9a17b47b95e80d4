package repository

import (
	"github.com/ca-srg/propertime/domain/valueobject"
)

// ZoneService defines the interface for zone detection and zone-related lookups
type ZoneService interface {
	// GetSystemZone returns the zone the host is configured with
	GetSystemZone() (*valueobject.Zone, error)

	// GetConfiguredZone returns the configured default zone, falling back to the system zone
	GetConfiguredZone() (*valueobject.Zone, error)

	// ResolveZone resolves a zone name; "" means the configured zone and "local" the system zone
	ResolveZone(name string) (*valueobject.Zone, error)

	// GetDayBoundaries returns the start of the day containing the instant and the start of the next one
	GetDayBoundaries(at valueobject.Instant) (start, end valueobject.Instant, err error)

	// GetZoneInfo returns zone information at the given instant
	GetZoneInfo(zone *valueobject.Zone, at valueobject.Instant) ZoneInfo

	// GetCurrentZoneInfo returns information about the configured zone right now
	GetCurrentZoneInfo() ZoneInfo
}

// ZoneInfo contains zone information for display and logging
type ZoneInfo struct {
	// Name is the zone name (e.g., "Europe/Rome", "Asia/Tokyo")
	Name string `json:"name" yaml:"name"`

	// Offset is the UTC offset in the format "+09:00" or "-05:00"
	Offset string `json:"offset" yaml:"offset"`

	// OffsetSeconds is the offset from UTC in seconds
	OffsetSeconds int `json:"offset_seconds" yaml:"offset_seconds"`

	// IsDST indicates whether daylight saving time is active
	IsDST bool `json:"dst" yaml:"dst"`

	// DetectionMethod indicates how the zone was determined
	// Values: "system", "config", "explicit", "fallback"
	DetectionMethod string `json:"detection_method" yaml:"detection_method"`
}
