package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/repository"
	"github.com/ca-srg/propertime/domain/valueobject"
	"github.com/ca-srg/propertime/infrastructure/config"
)

const (
	defaultLocaltimePath = "/etc/localtime"
	defaultTimezonePath  = "/etc/timezone"
)

var oneDay = valueobject.MustParseSpan("1D")

// ZoneServiceImpl implements the ZoneService interface
type ZoneServiceImpl struct {
	config *config.AppConfig
	logger domain.Logger
	clock  valueobject.Clock

	localtimePath string
	timezonePath  string

	zoneMu      sync.RWMutex
	systemZone  *valueobject.Zone
	method      string
	detectionMu sync.Mutex
	detected    bool
}

// NewZoneServiceImpl creates a new instance of ZoneServiceImpl
func NewZoneServiceImpl(config *config.AppConfig, logger domain.Logger) *ZoneServiceImpl {
	return &ZoneServiceImpl{
		config:        config,
		logger:        logger,
		clock:         valueobject.RealClock(),
		localtimePath: defaultLocaltimePath,
		timezonePath:  defaultTimezonePath,
	}
}

// GetSystemZone returns the zone the host is configured with
func (s *ZoneServiceImpl) GetSystemZone() (*valueobject.Zone, error) {
	s.zoneMu.RLock()
	if s.detected {
		zone := s.systemZone
		s.zoneMu.RUnlock()
		return zone, nil
	}
	s.zoneMu.RUnlock()

	return s.detectSystemZone()
}

// GetConfiguredZone returns the configured default zone, falling back to the system zone
func (s *ZoneServiceImpl) GetConfiguredZone() (*valueobject.Zone, error) {
	name := ""
	if s.config != nil && s.config.Zone != nil {
		name = s.config.Zone.DefaultZone
	}
	if name == "" || name == "local" {
		return s.GetSystemZone()
	}
	return valueobject.LoadZone(name)
}

// ResolveZone resolves a zone name; "" means the configured zone and "local" the system zone
func (s *ZoneServiceImpl) ResolveZone(name string) (*valueobject.Zone, error) {
	switch name {
	case "":
		return s.GetConfiguredZone()
	case "local":
		return s.GetSystemZone()
	default:
		return valueobject.LoadZone(name)
	}
}

// GetDayBoundaries returns the local midnight starting the day of the
// instant and the midnight starting the next day, in the instant's zone.
func (s *ZoneServiceImpl) GetDayBoundaries(at valueobject.Instant) (start, end valueobject.Instant, err error) {
	start, err = oneDay.Floor(at)
	if err != nil {
		return valueobject.Instant{}, valueobject.Instant{}, err
	}
	end, err = oneDay.Shift(start, 1)
	if err != nil {
		return valueobject.Instant{}, valueobject.Instant{}, err
	}
	return start, end, nil
}

// GetZoneInfo returns zone information at the given instant
func (s *ZoneServiceImpl) GetZoneInfo(zone *valueobject.Zone, at valueobject.Instant) repository.ZoneInfo {
	if zone == nil {
		zone = valueobject.UTC
	}
	offset, dst := zone.OffsetAt(at.Seconds())
	return repository.ZoneInfo{
		Name:            zone.Name(),
		Offset:          formatOffset(offset),
		OffsetSeconds:   offset,
		IsDST:           dst,
		DetectionMethod: "explicit",
	}
}

// GetCurrentZoneInfo returns information about the configured zone right now
func (s *ZoneServiceImpl) GetCurrentZoneInfo() repository.ZoneInfo {
	zone, err := s.GetConfiguredZone()
	if err != nil || zone == nil {
		// Return UTC info if zone resolution fails
		return repository.ZoneInfo{
			Name:            "UTC",
			Offset:          "+00:00",
			OffsetSeconds:   0,
			IsDST:           false,
			DetectionMethod: "fallback",
		}
	}

	now, err := valueobject.Now(valueobject.WithZone(zone), valueobject.WithClock(s.clock))
	if err != nil {
		return repository.ZoneInfo{Name: zone.Name(), Offset: "+00:00", DetectionMethod: "fallback"}
	}

	info := s.GetZoneInfo(zone, now)
	info.DetectionMethod = s.detectionMethod()
	return info
}

func (s *ZoneServiceImpl) detectionMethod() string {
	if s.config != nil && s.config.Zone != nil {
		if name := s.config.Zone.DefaultZone; name != "" && name != "local" {
			return "config"
		}
	}
	s.zoneMu.RLock()
	defer s.zoneMu.RUnlock()
	if s.method == "" {
		return "system"
	}
	return s.method
}

// detectSystemZone detects the system zone
func (s *ZoneServiceImpl) detectSystemZone() (*valueobject.Zone, error) {
	s.detectionMu.Lock()
	defer s.detectionMu.Unlock()

	// Check if already detected
	s.zoneMu.RLock()
	if s.detected {
		zone := s.systemZone
		s.zoneMu.RUnlock()
		return zone, nil
	}
	s.zoneMu.RUnlock()

	ctx := context.Background()

	// Method 1: Check TZ environment variable
	if tzEnv := strings.TrimPrefix(os.Getenv("TZ"), ":"); tzEnv != "" {
		zone, err := valueobject.LoadZone(tzEnv)
		if err == nil {
			s.logger.Debug(ctx, "Detected zone from TZ environment variable",
				domain.NewField("zone", zone.Name()))
			s.setSystemZone(zone, "system")
			return zone, nil
		}
		s.logger.Warn(ctx, "Failed to load zone from TZ environment variable",
			domain.NewField("TZ", tzEnv),
			domain.NewField("error", err.Error()))
	}

	// Method 2: Read /etc/localtime symlink (e.g., /usr/share/zoneinfo/Europe/Rome)
	if linkPath, err := os.Readlink(s.localtimePath); err == nil {
		parts := strings.Split(linkPath, "/zoneinfo/")
		if len(parts) > 1 {
			if zone, err := valueobject.LoadZone(parts[1]); err == nil {
				s.logger.Debug(ctx, "Detected zone from localtime link",
					domain.NewField("zone", zone.Name()),
					domain.NewField("path", s.localtimePath))
				s.setSystemZone(zone, "system")
				return zone, nil
			}
		}
	}

	// Method 3: Read /etc/timezone (Debian style)
	if data, err := os.ReadFile(s.timezonePath); err == nil {
		if name := strings.TrimSpace(string(data)); name != "" {
			if zone, err := valueobject.LoadZone(name); err == nil {
				s.logger.Debug(ctx, "Detected zone from timezone file",
					domain.NewField("zone", zone.Name()),
					domain.NewField("path", s.timezonePath))
				s.setSystemZone(zone, "system")
				return zone, nil
			}
		}
	}

	// Fallback to UTC
	s.logger.Warn(ctx, "Failed to detect system zone, using UTC as fallback")
	s.setSystemZone(valueobject.UTC, "fallback")
	return valueobject.UTC, domain.ErrZoneDetection("UTC")
}

// setSystemZone sets the detected zone with proper locking
func (s *ZoneServiceImpl) setSystemZone(zone *valueobject.Zone, method string) {
	s.zoneMu.Lock()
	defer s.zoneMu.Unlock()
	s.systemZone = zone
	s.method = method
	s.detected = true
}

// formatOffset formats an offset in seconds as +HH:MM or -HH:MM
func formatOffset(offset int) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60
	return fmt.Sprintf("%s%02d:%02d", sign, hours, minutes)
}
