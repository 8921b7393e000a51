package core

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/navhealth/internal/logging"
	"github.com/signalsfoundry/navhealth/model"
)

// tracerName identifies the analyzer's spans.
const tracerName = "github.com/signalsfoundry/navhealth/core"

// AnalyzerConfig bundles the per-run analysis parameters.
type AnalyzerConfig struct {
	Detector DetectorConfig
	Health   HealthConfig

	ElevationMaskDeg float64
	Timestep         time.Duration
	PropDuration     time.Duration
	DailyDedup       bool

	// Workers bounds the per-satellite fan-out; 0 means GOMAXPROCS.
	Workers int
}

// DefaultAnalyzerConfig returns the standard parameter set.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Detector:         DefaultDetectorConfig(),
		Health:           DefaultHealthConfig(),
		ElevationMaskDeg: 5,
		Timestep:         15 * time.Minute,
		PropDuration:     36 * time.Hour,
		DailyDedup:       true,
	}
}

// MetricsRecorder receives analysis counters. The observability collector
// implements it; a nil recorder disables recording.
type MetricsRecorder interface {
	ObserveRunDuration(seconds float64)
	AddSatellitesAnalyzed(n int)
	AddManeuversDetected(n int)
	IncPropagationFailures()
}

// SeriesInput is one satellite's raw element history plus its published
// target inclination, if any.
type SeriesInput struct {
	SatelliteID          string
	Records              []model.OrbitalRecord
	TargetInclinationDeg *float64
}

// SatelliteReport is the complete analysis output for one satellite.
type SatelliteReport struct {
	Series    *model.OrbitalSeries
	Maneuvers []model.ManeuverEvent
	Health    model.HealthAssessment
}

// Analyzer runs the per-satellite analytics pipeline. All computation is
// stateless per invocation; satellites are processed independently, so the
// fan-out degree never changes the output.
type Analyzer struct {
	cfg     AnalyzerConfig
	log     logging.Logger
	metrics MetricsRecorder
	tracer  trace.Tracer
}

// NewAnalyzer constructs an analyzer. log may be nil for a silent analyzer;
// metrics may be nil to disable counters.
func NewAnalyzer(cfg AnalyzerConfig, log logging.Logger, metrics MetricsRecorder) *Analyzer {
	if log == nil {
		log = logging.Noop()
	}
	return &Analyzer{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

// AnalyzeSatellite normalizes one element history and runs maneuver
// detection and health assessment over it.
func (a *Analyzer) AnalyzeSatellite(ctx context.Context, in SeriesInput) SatelliteReport {
	_, span := a.tracer.Start(ctx, "AnalyzeSatellite",
		trace.WithAttributes(attribute.String("satellite", in.SatelliteID)))
	defer span.End()

	series := NormalizeSeries(in.SatelliteID, in.Records, a.cfg.DailyDedup)
	maneuvers := DetectManeuvers(series, a.cfg.Detector)
	health := AssessHealth(series, maneuvers, in.TargetInclinationDeg, a.cfg.Health)

	span.SetAttributes(
		attribute.Int("records", series.Len()),
		attribute.Int("maneuvers", len(maneuvers)),
	)
	return SatelliteReport{Series: series, Maneuvers: maneuvers, Health: health}
}

// AnalyzeAll fans the per-satellite pipeline out across a bounded worker
// pool. Results are collected positionally, so the output is identical for
// any parallelism degree.
func (a *Analyzer) AnalyzeAll(ctx context.Context, inputs []SeriesInput) []SatelliteReport {
	ctx, span := a.tracer.Start(ctx, "AnalyzeAll",
		trace.WithAttributes(attribute.Int("satellites", len(inputs))))
	defer span.End()

	start := time.Now()
	workers := a.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	reports := make([]SatelliteReport, len(inputs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, in SeriesInput) {
			defer wg.Done()
			defer func() { <-sem }()
			reports[i] = a.AnalyzeSatellite(ctx, in)
		}(i, in)
	}
	wg.Wait()

	maneuvers := 0
	for _, r := range reports {
		maneuvers += len(r.Maneuvers)
	}
	if a.metrics != nil {
		a.metrics.AddSatellitesAnalyzed(len(inputs))
		a.metrics.AddManeuversDetected(maneuvers)
		a.metrics.ObserveRunDuration(time.Since(start).Seconds())
	}
	a.log.Info(ctx, "analysis run complete",
		logging.Int("satellites", len(inputs)),
		logging.Int("maneuvers", maneuvers),
	)
	return reports
}

// NamedEphemeris pairs an ephemeris model with the satellite it describes.
type NamedEphemeris struct {
	SatelliteID string
	Model       EphemerisModel
}

// DOPForLocation evaluates every ephemeris at t for the observer, builds
// the design matrix over the elevation mask, and solves for the DOP
// metrics. Satellites whose ephemeris cannot be evaluated are excluded from
// that instant's geometry. The result is nil for degenerate geometry; the
// visible set is reported either way.
func (a *Analyzer) DOPForLocation(ctx context.Context, ephs []NamedEphemeris, obs model.Observer, t time.Time) (*model.DOPResult, []model.SatellitePosition) {
	_, span := a.tracer.Start(ctx, "DOPForLocation",
		trace.WithAttributes(attribute.String("observer", obs.Name)))
	defer span.End()

	positions := make([]model.SatellitePosition, 0, len(ephs))
	for _, eph := range ephs {
		pos, ok := eph.Model.Observe(obs, t)
		if !ok {
			if a.metrics != nil {
				a.metrics.IncPropagationFailures()
			}
			a.log.Debug(ctx, "position unknown",
				logging.String("satellite", eph.SatelliteID),
				logging.String("observer", obs.Name),
			)
			continue
		}
		positions = append(positions, pos)
	}

	visible := VisibleSatellites(positions, a.cfg.ElevationMaskDeg)
	result := SolveDOP(BuildDesignMatrix(positions, a.cfg.ElevationMaskDeg))
	if result != nil {
		result.VisibleSatellites = visible
		result.Quality = DOPQuality(result.GDOP)
	}
	return result, positions
}

// GroundTracks propagates each satellite over the configured window and
// collects the envelopes. A failed propagation skips that satellite; the
// skip list is returned alongside the envelopes.
func (a *Analyzer) GroundTracks(ctx context.Context, ephs []NamedEphemeris, start time.Time) ([]*model.GroundTrackEnvelope, []string) {
	ctx, span := a.tracer.Start(ctx, "GroundTracks")
	defer span.End()

	var envelopes []*model.GroundTrackEnvelope
	var skipped []string
	for _, eph := range ephs {
		env, err := GroundTrack(eph.Model, eph.SatelliteID, start, a.cfg.Timestep, a.cfg.PropDuration)
		if err != nil {
			if a.metrics != nil {
				a.metrics.IncPropagationFailures()
			}
			a.log.Warn(ctx, "ground track skipped",
				logging.String("satellite", eph.SatelliteID),
				logging.String("error", err.Error()),
			)
			skipped = append(skipped, eph.SatelliteID)
			continue
		}
		envelopes = append(envelopes, env)
	}
	return envelopes, skipped
}
