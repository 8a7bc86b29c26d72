// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kkyr/fig"

	"github.com/wneessen/sunspot/internal/i18n"
)

const configEnv = "SUNSPOT"

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Server struct {
		Address         string        `fig:"address" default:"127.0.0.1:5000"`
		ReadTimeout     time.Duration `fig:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `fig:"write_timeout" default:"120s"`
		IdleTimeout     time.Duration `fig:"idle_timeout" default:"60s"`
		ShutdownTimeout time.Duration `fig:"shutdown_timeout" default:"10s"`
		CORSOrigins     []string      `fig:"cors_origins" default:"[*]"`
	} `fig:"server"`

	Estimation struct {
		// Meters
		DefaultRadius float64 `fig:"default_radius" default:"500"`
		MaxRadius     float64 `fig:"max_radius" default:"5000"`
		// Degrees, must divide 360
		BearingInterval int `fig:"bearing_interval" default:"45"`
		MaxResults      int `fig:"max_results" default:"5"`
		// Fallback values in meters
		BuildingHeight float64 `fig:"building_height" default:"15"`
		StreetWidth    float64 `fig:"street_width" default:"10"`
		// Upper bound for a single estimation, must stay below server.write_timeout
		Timeout time.Duration `fig:"timeout" default:"90s"`
	} `fig:"estimation"`

	Geocoder struct {
		// Allowed values: osm-nominatim
		Provider     string        `fig:"provider" default:"osm-nominatim"`
		Endpoint     string        `fig:"endpoint" default:"https://nominatim.openstreetmap.org"`
		UserAgent    string        `fig:"user_agent"`
		RateLimit    float64       `fig:"rate_limit" default:"1"`
		CacheHitTTL  time.Duration `fig:"cache_hit_ttl" default:"24h"`
		CacheMissTTL time.Duration `fig:"cache_miss_ttl" default:"10m"`
	} `fig:"geocoder"`

	StreetWidth struct {
		// Allowed values: overpass, static
		Provider string `fig:"provider" default:"overpass"`
		Endpoint string `fig:"endpoint" default:"https://overpass-api.de/api/interpreter"`
		// Meters around the coordinate that are searched for ways
		SearchRadius int           `fig:"search_radius" default:"50"`
		RateLimit    float64       `fig:"rate_limit" default:"2"`
		CacheTTL     time.Duration `fig:"cache_ttl" default:"6h"`
	} `fig:"streetwidth"`

	Intervals struct {
		CachePurge time.Duration `fig:"cache_purge" default:"10m"`
	} `fig:"intervals"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	c.Locale = i18n.Language(c.Locale).String()

	if c.Server.Address == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if c.Estimation.DefaultRadius <= 0 {
		return fmt.Errorf("invalid default radius: %g", c.Estimation.DefaultRadius)
	}
	if c.Estimation.MaxRadius < c.Estimation.DefaultRadius {
		return fmt.Errorf("max radius %g is smaller than the default radius %g", c.Estimation.MaxRadius,
			c.Estimation.DefaultRadius)
	}
	if interval := c.Estimation.BearingInterval; interval <= 0 || interval > 360 || 360%interval != 0 {
		return fmt.Errorf("invalid bearing interval: %d", interval)
	}
	if c.Estimation.MaxResults < 1 {
		return fmt.Errorf("invalid max results: %d", c.Estimation.MaxResults)
	}
	if c.Estimation.BuildingHeight <= 0 {
		return fmt.Errorf("invalid building height: %g", c.Estimation.BuildingHeight)
	}
	if c.Estimation.StreetWidth <= 0 {
		return fmt.Errorf("invalid street width: %g", c.Estimation.StreetWidth)
	}
	if c.Estimation.Timeout <= 0 {
		return fmt.Errorf("invalid estimation timeout: %s", c.Estimation.Timeout)
	}
	if c.Server.WriteTimeout > 0 && c.Estimation.Timeout >= c.Server.WriteTimeout {
		return fmt.Errorf("estimation timeout %s must be shorter than the server write timeout %s",
			c.Estimation.Timeout, c.Server.WriteTimeout)
	}
	if c.Geocoder.Provider != "osm-nominatim" {
		return fmt.Errorf("unsupported geocoder provider: %s", c.Geocoder.Provider)
	}
	switch c.StreetWidth.Provider {
	case "overpass":
		if c.StreetWidth.SearchRadius < 1 {
			return fmt.Errorf("invalid street width search radius: %d", c.StreetWidth.SearchRadius)
		}
	case "static":
	default:
		return fmt.Errorf("unsupported street width provider: %s", c.StreetWidth.Provider)
	}
	if c.Intervals.CachePurge < time.Second {
		return fmt.Errorf("cache purge interval must be at least 1s, got %s", c.Intervals.CachePurge)
	}

	return nil
}
