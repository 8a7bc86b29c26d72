// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/wneessen/sunspot/internal/building"
	"github.com/wneessen/sunspot/internal/config"
	"github.com/wneessen/sunspot/internal/geo"
	"github.com/wneessen/sunspot/internal/geocode"
	"github.com/wneessen/sunspot/internal/logger"
	"github.com/wneessen/sunspot/internal/solar"
	"github.com/wneessen/sunspot/internal/street"
	"github.com/wneessen/sunspot/internal/sunlight"
)

const (
	// confidenceDecimals is the number of decimals confidence values are rounded to
	confidenceDecimals = 2

	FallbackBuildingHeight = "building_height"
	FallbackStreetWidth    = "street_width"
	FallbackLocationName   = "location_name"
)

var (
	ErrLocationRequired = errors.New("location is required")
	ErrInvalidRadius    = errors.New("invalid radius")
	ErrGeocoding        = errors.New("geocoding failed")
	ErrSolarPosition    = errors.New("solar position calculation failed")
	ErrTimeout          = errors.New("estimation timed out")
)

// StepError reports which step of an estimation failed and why.
type StepError struct {
	Step error
	Err  error
}

func (e *StepError) Error() string {
	return e.Step.Error() + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() []error {
	return []error{e.Step, e.Err}
}

// Recorder receives operational events of the service.
type Recorder interface {
	Upstream(provider string, err error)
	Fallback(kind string)
	CacheLookup(cache string, hit bool)
}

type nopRecorder struct{}

func (nopRecorder) Upstream(string, error)   {}
func (nopRecorder) Fallback(string)          {}
func (nopRecorder) CacheLookup(string, bool) {}

// purger is implemented by the caching providers.
type purger interface {
	Purge() int
}

// Request is a single sunlight estimation request.
type Request struct {
	Location string
	// Radius in meters around the location in which sunny spots are searched. Zero selects
	// the configured default.
	Radius float64
}

type NearbySpot struct {
	LocationName    string
	Coordinate      geo.Coordinate
	SunlightPresent bool
	Confidence      float64
}

// Report is the outcome of an estimation for a location and its surroundings.
type Report struct {
	Query          string
	LocationName   string
	Coordinate     geo.Coordinate
	Solar          solar.Position
	BuildingHeight float64
	StreetWidth    float64
	ShadowLength   float64
	Radius         float64
	sunlight.Estimate
	Nearby    []NearbySpot
	CreatedAt time.Time
}

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	recorder  Recorder
	scheduler gocron.Scheduler
	now       func() time.Time

	geocoder  geocode.Geocoder
	positions solar.Positioner
	buildings building.Estimator
	streets   street.Estimator
	purgers   []purger
}

type Option func(*Service)

// WithRecorder registers a Recorder, e.g. the Prometheus metrics.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

func WithGeocoder(geocoder geocode.Geocoder) Option {
	return func(s *Service) { s.geocoder = geocoder }
}

func WithPositioner(positioner solar.Positioner) Option {
	return func(s *Service) { s.positions = positioner }
}

func WithBuildingEstimator(estimator building.Estimator) Option {
	return func(s *Service) { s.buildings = estimator }
}

func WithStreetEstimator(estimator street.Estimator) Option {
	return func(s *Service) { s.streets = estimator }
}

// WithClock overrides the time source used for the solar position.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service. Components not provided via options are created from conf.
func New(conf *config.Config, log *logger.Logger, opts ...Option) (*Service, error) {
	if conf == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	service := &Service{
		config:    conf,
		logger:    log,
		recorder:  nopRecorder{},
		scheduler: scheduler,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	if err = service.selectProviders(); err != nil {
		return nil, err
	}

	return service, nil
}

// Run starts the cache janitor and blocks until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.createScheduledJob(ctx, s.config.Intervals.CachePurge, s.purgeCaches,
		"cache_purge_job"); err != nil {
		return err
	}
	s.scheduler.Start()

	<-ctx.Done()
	return s.scheduler.Shutdown()
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

func (s *Service) purgeCaches(context.Context) {
	removed := 0
	for _, p := range s.purgers {
		removed += p.Purge()
	}
	s.logger.Debug("purged expired cache entries", slog.Int("removed", removed))
}

// Estimate geocodes the requested location, decides whether it is sunlit right now and
// looks for sunlit spots on a circle of the requested radius around it. Only geocoding and
// solar position failures of the origin fail the estimation. The whole estimation is bound
// by the configured estimation timeout.
func (s *Service) Estimate(ctx context.Context, req Request) (*Report, error) {
	if req.Location == "" {
		return nil, ErrLocationRequired
	}
	radius := req.Radius
	if radius == 0 {
		radius = s.config.Estimation.DefaultRadius
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 || radius > s.config.Estimation.MaxRadius {
		return nil, fmt.Errorf("%w: must be between 0 and %g meters, got %g", ErrInvalidRadius,
			s.config.Estimation.MaxRadius, radius)
	}

	ctx, cancel := context.WithTimeoutCause(ctx, s.config.Estimation.Timeout, ErrTimeout)
	defer cancel()

	now := s.now().UTC()
	report := &Report{
		Query:     req.Location,
		Radius:    radius,
		CreatedAt: now,
	}

	coords, err := s.geocoder.Search(ctx, req.Location)
	s.recorder.Upstream(s.geocoder.Name(), ignoreNotFound(err))
	if err != nil {
		return nil, &StepError{Step: ErrGeocoding, Err: err}
	}
	report.Coordinate = coords

	report.Solar, err = s.positions.Position(coords, now)
	if err != nil {
		return nil, &StepError{Step: ErrSolarPosition, Err: err}
	}

	report.BuildingHeight = s.buildingHeight(ctx, coords)
	report.StreetWidth = s.streetWidth(ctx, coords)
	var estimate sunlight.Estimate
	report.ShadowLength, estimate = sunlight.Evaluate(report.BuildingHeight, report.Solar.Elevation,
		report.StreetWidth)
	estimate.Confidence = sunlight.Round(estimate.Confidence, confidenceDecimals)
	report.Estimate = estimate
	report.LocationName, err = s.locationName(ctx, coords)
	if err != nil {
		return nil, &StepError{Step: ErrGeocoding, Err: err}
	}

	s.logger.Debug("origin evaluated", slog.String("location", req.Location), slog.String("coords", coords.String()),
		slog.Float64("elevation", report.Solar.Elevation), slog.Float64("shadow", report.ShadowLength),
		slog.Float64("width", report.StreetWidth), slog.Bool("sunny", estimate.SunlightPresent))

	report.Nearby, err = s.nearby(ctx, coords, radius, now)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// nearby evaluates the points around origin and returns the sunny ones ordered by
// descending confidence.
func (s *Service) nearby(ctx context.Context, origin geo.Coordinate, radius float64, now time.Time) ([]NearbySpot, error) {
	points, err := geo.Nearby(origin, radius, s.config.Estimation.BearingInterval)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRadius, err)
	}

	spots := make([]NearbySpot, 0, len(points))
	for _, point := range points {
		if err = context.Cause(ctx); err != nil {
			return nil, err
		}
		position, posErr := s.positions.Position(point, now)
		if posErr != nil {
			s.logger.Debug("skipping nearby point", slog.String("coords", point.String()), logger.Err(posErr))
			continue
		}
		_, estimate := sunlight.Evaluate(s.buildingHeight(ctx, point), position.Elevation, s.streetWidth(ctx, point))
		if !estimate.SunlightPresent {
			continue
		}
		name, nameErr := s.locationName(ctx, point)
		if nameErr != nil {
			s.logger.Debug("skipping nearby point", slog.String("coords", point.String()), logger.Err(nameErr))
			continue
		}
		spots = append(spots, NearbySpot{
			LocationName:    name,
			Coordinate:      point,
			SunlightPresent: true,
			Confidence:      sunlight.Round(estimate.Confidence, confidenceDecimals),
		})
	}

	slices.SortStableFunc(spots, func(a, b NearbySpot) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	if len(spots) > s.config.Estimation.MaxResults {
		spots = spots[:s.config.Estimation.MaxResults]
	}

	return spots, nil
}

func (s *Service) buildingHeight(ctx context.Context, coords geo.Coordinate) float64 {
	height, err := s.buildings.Height(ctx, coords)
	if err != nil || height <= 0 {
		s.logger.Debug("using fallback building height", slog.String("coords", coords.String()), logger.Err(err))
		s.recorder.Fallback(FallbackBuildingHeight)
		return s.config.Estimation.BuildingHeight
	}
	return height
}

func (s *Service) streetWidth(ctx context.Context, coords geo.Coordinate) float64 {
	width, err := s.streets.Width(ctx, coords)
	s.recorder.Upstream(s.streets.Name(), err)
	if err != nil || width <= 0 {
		s.logger.Debug("using fallback street width", slog.String("coords", coords.String()), logger.Err(err))
		s.recorder.Fallback(FallbackStreetWidth)
		return s.config.Estimation.StreetWidth
	}
	return width
}

// locationName reverse geocodes coords. Coordinates without an address are named
// geocode.UnknownLocation, lookup errors are returned.
func (s *Service) locationName(ctx context.Context, coords geo.Coordinate) (string, error) {
	addr, err := s.geocoder.Reverse(ctx, coords)
	s.recorder.Upstream(s.geocoder.Name(), err)
	if err != nil {
		return "", fmt.Errorf("failed to reverse geocode %s: %w", coords, err)
	}
	if !addr.AddressFound {
		s.recorder.Fallback(FallbackLocationName)
		return geocode.UnknownLocation, nil
	}
	return addr.Label(), nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, geocode.ErrNotFound) {
		return nil
	}
	return err
}
