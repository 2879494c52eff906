// Package config loads daybreak service configuration from YAML files or
// SQLite databases behind a common provider interface.
package config

import (
	"fmt"

	"github.com/chrissnell/daybreak/pkg/twilight"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetLocations() ([]LocationData, error)
	GetServerConfig() (*ServerData, error)
	GetStorageConfig() (*StorageData, error)

	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Locations []LocationData `json:"locations" yaml:"locations"`
	Server    ServerData     `json:"server,omitempty" yaml:"server"`
	Storage   *StorageData   `json:"storage,omitempty" yaml:"storage"`

	// SolarErrorMinutes is the solver convergence tolerance in minutes of
	// time. Zero selects the documented default of 0.5.
	SolarErrorMinutes float64 `json:"solar_error_minutes,omitempty" yaml:"solar_error_minutes"`
}

// LocationData holds one named observer location. Latitude, longitude, and
// UTC offset are pointers so that an omitted field is distinguishable from a
// legitimate zero (the equator and the prime meridian are real places).
type LocationData struct {
	Name             string   `json:"name" yaml:"name"`
	Latitude         *float64 `json:"latitude" yaml:"latitude"`
	Longitude        *float64 `json:"longitude" yaml:"longitude"`
	UTCOffsetMinutes *int     `json:"utc_offset_minutes" yaml:"utc_offset_minutes"`
	Timezone         string   `json:"timezone,omitempty" yaml:"timezone"`
}

// ServerData holds the HTTP API configuration
type ServerData struct {
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr"`
}

// StorageData holds the optional almanac archive configuration
type StorageData struct {
	Postgres *PostgresData `json:"postgres,omitempty" yaml:"postgres"`
}

// PostgresData holds the almanac archive connection settings
type PostgresData struct {
	ConnectionString string `json:"connection_string" yaml:"connection_string"`
}

// Location resolves a named location into a solver Location. A location with
// any of latitude, longitude, or UTC offset missing resolves to
// twilight.ErrLocationNotConfigured; the caller is expected to fix the
// configuration rather than solve with undefined geography.
func (c *ConfigData) Location(name string) (twilight.Location, error) {
	for _, ld := range c.Locations {
		if ld.Name != name {
			continue
		}
		if ld.Latitude == nil || ld.Longitude == nil || ld.UTCOffsetMinutes == nil {
			return twilight.Location{}, fmt.Errorf("location %q: %w", name, twilight.ErrLocationNotConfigured)
		}
		loc := twilight.NewLocation(*ld.Latitude, *ld.Longitude, *ld.UTCOffsetMinutes).WithName(ld.Name)
		if ld.Timezone != "" {
			loc = loc.WithTimezone(ld.Timezone)
		}
		return loc, nil
	}
	return twilight.Location{}, fmt.Errorf("location %q: %w", name, twilight.ErrLocationNotConfigured)
}
