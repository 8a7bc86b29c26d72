// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"cmp"
	"fmt"
	"net/url"
	"strings"

	"github.com/wneessen/sunspot/internal/building"
	"github.com/wneessen/sunspot/internal/geocode"
	nominatim "github.com/wneessen/sunspot/internal/geocode/provider/osm-nominatim"
	"github.com/wneessen/sunspot/internal/http"
	"github.com/wneessen/sunspot/internal/i18n"
	"github.com/wneessen/sunspot/internal/solar"
	"github.com/wneessen/sunspot/internal/street"
	"github.com/wneessen/sunspot/internal/street/provider/overpass"
)

// selectProviders fills every component that was not injected via an Option.
func (s *Service) selectProviders() error {
	client := http.New(s.logger, http.WithUserAgent(s.config.Geocoder.UserAgent))

	if s.geocoder == nil {
		geocoder, err := s.selectGeocodeProvider(client)
		if err != nil {
			return fmt.Errorf("failed to create geocode provider: %w", err)
		}
		s.geocoder = geocoder
	}
	if s.streets == nil {
		estimator, err := s.selectStreetWidthProvider(client)
		if err != nil {
			return fmt.Errorf("failed to create street width provider: %w", err)
		}
		s.streets = estimator
	}
	if s.buildings == nil {
		s.buildings = building.NewStatic(s.config.Estimation.BuildingHeight)
	}
	if s.positions == nil {
		s.positions = solar.NewCalculator()
	}
	return nil
}

func (s *Service) selectGeocodeProvider(client *http.Client) (geocode.Geocoder, error) {
	var provider geocode.Geocoder
	conf := s.config.Geocoder

	switch strings.ToLower(conf.Provider) {
	case "osm-nominatim", "nominatim":
		endpoint := cmp.Or(conf.Endpoint, nominatim.DefaultEndpoint)
		if err := limitHost(client, endpoint, conf.RateLimit); err != nil {
			return nil, err
		}
		provider = nominatim.New(client, i18n.Language(s.config.Locale), endpoint)
	default:
		return nil, fmt.Errorf("unsupported geocoder type: %s", conf.Provider)
	}

	cached := geocode.NewCachedGeocoder(provider, conf.CacheHitTTL, conf.CacheMissTTL)
	cached.Observe(s.recorder)
	s.purgers = append(s.purgers, cached)
	return cached, nil
}

func (s *Service) selectStreetWidthProvider(client *http.Client) (street.Estimator, error) {
	conf := s.config.StreetWidth

	switch strings.ToLower(conf.Provider) {
	case "overpass":
		endpoint := cmp.Or(conf.Endpoint, overpass.DefaultEndpoint)
		if err := limitHost(client, endpoint, conf.RateLimit); err != nil {
			return nil, err
		}
		cached := street.NewCachedEstimator(overpass.New(client, endpoint, conf.SearchRadius), conf.CacheTTL)
		cached.Observe(s.recorder)
		s.purgers = append(s.purgers, cached)
		return cached, nil
	case "static":
		return street.NewStatic(s.config.Estimation.StreetWidth), nil
	default:
		return nil, fmt.Errorf("unsupported street width provider: %s", conf.Provider)
	}
}

// limitHost installs a rate limit for the host of endpoint.
func limitHost(client *http.Client, endpoint string, perSecond float64) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	client.SetRateLimit(u.Host, perSecond, 1)
	return nil
}
