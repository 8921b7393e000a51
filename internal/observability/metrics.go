package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AnalysisCollector bundles Prometheus metrics for analysis runs and
// provides a ready-to-serve /metrics handler.
type AnalysisCollector struct {
	gatherer prometheus.Gatherer

	SatellitesAnalyzed  prometheus.Counter
	ManeuversDetected   prometheus.Counter
	PropagationFailures prometheus.Counter
	FetchErrors         prometheus.Counter
	RunDuration         prometheus.Histogram
	CatalogSatellites   prometheus.Gauge
}

// NewAnalysisCollector registers the analysis metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewAnalysisCollector(reg prometheus.Registerer) (*AnalysisCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	analyzed, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_satellites_total",
		Help: "Total number of satellite element series analyzed.",
	}), "analysis_satellites_total")
	if err != nil {
		return nil, err
	}
	maneuvers, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_maneuvers_detected_total",
		Help: "Total number of confirmed orbit-correction maneuvers detected.",
	}), "analysis_maneuvers_detected_total")
	if err != nil {
		return nil, err
	}
	propFailures, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_propagation_failures_total",
		Help: "Total number of ephemeris evaluations that degraded to position-unknown.",
	}), "analysis_propagation_failures_total")
	if err != nil {
		return nil, err
	}
	fetchErrors, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_fetch_errors_total",
		Help: "Total number of per-satellite element retrieval failures.",
	}), "catalog_fetch_errors_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_run_duration_seconds",
		Help:    "Wall-clock duration of whole analysis runs in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})
	duration, err = registerHistogram(reg, duration, "analysis_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	catalogSize, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_satellites",
		Help: "Number of satellites registered in the catalog.",
	}), "catalog_satellites")
	if err != nil {
		return nil, err
	}

	return &AnalysisCollector{
		gatherer:            gatherer,
		SatellitesAnalyzed:  analyzed,
		ManeuversDetected:   maneuvers,
		PropagationFailures: propFailures,
		FetchErrors:         fetchErrors,
		RunDuration:         duration,
		CatalogSatellites:   catalogSize,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *AnalysisCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveRunDuration satisfies the analyzer's MetricsRecorder interface.
func (c *AnalysisCollector) ObserveRunDuration(seconds float64) {
	if c == nil || c.RunDuration == nil {
		return
	}
	c.RunDuration.Observe(seconds)
}

// AddSatellitesAnalyzed records n analyzed series.
func (c *AnalysisCollector) AddSatellitesAnalyzed(n int) {
	if c == nil || c.SatellitesAnalyzed == nil {
		return
	}
	c.SatellitesAnalyzed.Add(float64(n))
}

// AddManeuversDetected records n confirmed maneuvers.
func (c *AnalysisCollector) AddManeuversDetected(n int) {
	if c == nil || c.ManeuversDetected == nil {
		return
	}
	c.ManeuversDetected.Add(float64(n))
}

// IncPropagationFailures records one position-unknown degradation.
func (c *AnalysisCollector) IncPropagationFailures() {
	if c == nil || c.PropagationFailures == nil {
		return
	}
	c.PropagationFailures.Inc()
}

// IncFetchErrors records one per-satellite retrieval failure.
func (c *AnalysisCollector) IncFetchErrors() {
	if c == nil || c.FetchErrors == nil {
		return
	}
	c.FetchErrors.Inc()
}

// SetCatalogSize drives the catalog-size gauge.
func (c *AnalysisCollector) SetCatalogSize(n int) {
	if c == nil || c.CatalogSatellites == nil {
		return
	}
	c.CatalogSatellites.Set(float64(n))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
