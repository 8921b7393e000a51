package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestNewAnalysisCollector_RecordsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewAnalysisCollector(reg)
	if err != nil {
		t.Fatal(err)
	}

	c.AddSatellitesAnalyzed(7)
	c.AddManeuversDetected(3)
	c.IncPropagationFailures()
	c.IncFetchErrors()
	c.SetCatalogSize(7)
	c.ObserveRunDuration(0.4)

	if got := testutil.ToFloat64(c.SatellitesAnalyzed); got != 7 {
		t.Errorf("satellites analyzed = %v, want 7", got)
	}
	if got := testutil.ToFloat64(c.ManeuversDetected); got != 3 {
		t.Errorf("maneuvers detected = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.PropagationFailures); got != 1 {
		t.Errorf("propagation failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.FetchErrors); got != 1 {
		t.Errorf("fetch errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.CatalogSatellites); got != 7 {
		t.Errorf("catalog gauge = %v, want 7", got)
	}
}

func TestNewAnalysisCollector_ReregistrationReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewAnalysisCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewAnalysisCollector(reg)
	if err != nil {
		t.Fatalf("second registration failed: %v", err)
	}

	// Both handles must feed the same underlying series.
	first.AddSatellitesAnalyzed(2)
	second.AddSatellitesAnalyzed(3)
	if got := testutil.ToFloat64(first.SatellitesAnalyzed); got != 5 {
		t.Errorf("shared counter = %v, want 5", got)
	}
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewAnalysisCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	c.AddSatellitesAnalyzed(1)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "analysis_satellites_total 1") {
		t.Errorf("exposition missing analysis_satellites_total:\n%s", body)
	}
}

func TestRunDurationHistogram_CountsObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewAnalysisCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	c.ObserveRunDuration(0.2)
	c.ObserveRunDuration(1.5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var hist *dto.Histogram
	for _, mf := range families {
		if mf.GetName() == "analysis_run_duration_seconds" {
			hist = mf.GetMetric()[0].GetHistogram()
		}
	}
	if hist == nil {
		t.Fatal("run-duration histogram not gathered")
	}
	if hist.GetSampleCount() != 2 {
		t.Errorf("sample count = %d, want 2", hist.GetSampleCount())
	}
	if got := hist.GetSampleSum(); got < 1.69 || got > 1.71 {
		t.Errorf("sample sum = %v, want 1.7", got)
	}
}

func TestCollectorMethods_NilSafe(t *testing.T) {
	var c *AnalysisCollector
	// Must not panic.
	c.AddSatellitesAnalyzed(1)
	c.AddManeuversDetected(1)
	c.IncPropagationFailures()
	c.IncFetchErrors()
	c.SetCatalogSize(1)
	c.ObserveRunDuration(1)
}
