// Command navhealth runs a full constellation health analysis: it pulls
// element history and current ephemerides from Space-Track, detects orbit
// maintenance maneuvers, scores per-satellite health, and evaluates
// positioning geometry and ground-track envelopes over the service region.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/signalsfoundry/navhealth/core"
	"github.com/signalsfoundry/navhealth/internal/config"
	"github.com/signalsfoundry/navhealth/internal/logging"
	"github.com/signalsfoundry/navhealth/internal/observability"
	"github.com/signalsfoundry/navhealth/internal/spacetrack"
	"github.com/signalsfoundry/navhealth/internal/tle"
	"github.com/signalsfoundry/navhealth/kb"
	"github.com/signalsfoundry/navhealth/model"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file (defaults built in)")
	days := flag.Int("days", 180, "element history window in days, ending now")
	outPath := flag.String("out", "", "write the full report as JSON to this file")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address (overrides config)")
	skipGeometry := flag.Bool("skip-geometry", false, "skip DOP and ground-track evaluation")
	flag.Parse()

	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	log := logging.NewFromEnv()
	ctx, log := logging.WithRunLogger(context.Background(), log)

	if err := run(ctx, log, *configPath, *days, *outPath, *metricsAddr, *skipGeometry); err != nil {
		log.Error(ctx, "run failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, log logging.Logger, configPath string, days int, outPath, metricsAddr string, skipGeometry bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if days <= 0 {
		return fmt.Errorf("history window must be positive, got %d days", days)
	}

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	collector, err := observability.NewAnalysisCollector(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	if metricsAddr == "" {
		metricsAddr = cfg.MetricsAddr
	}
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics listener stopped", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", metricsAddr))
	}

	catalog := kb.NewCatalog()
	for _, e := range cfg.CatalogEntries() {
		if err := catalog.Add(e); err != nil {
			return fmt.Errorf("build catalog: %w", err)
		}
	}
	collector.SetCatalogSize(catalog.Size())

	client, err := newSpaceTrackClient(ctx, log)
	if err != nil {
		return err
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)
	log.Info(ctx, "fetching element history",
		logging.String("start", start.Format("2006-01-02")),
		logging.String("end", end.Format("2006-01-02")),
		logging.Int("satellites", catalog.Size()),
	)

	analyzer := core.NewAnalyzer(cfg.AnalyzerConfig(), log, collector)

	var inputs []core.SeriesInput
	for _, entry := range catalog.List() {
		records, err := client.GPHistory(ctx, entry.NoradID, start, end)
		if err != nil {
			collector.IncFetchErrors()
			if errors.Is(err, spacetrack.ErrNoData) {
				log.Warn(ctx, "no element history", logging.String("satellite", entry.Name))
			} else {
				log.Warn(ctx, "element history fetch failed",
					logging.String("satellite", entry.Name),
					logging.String("error", err.Error()),
				)
			}
			continue
		}
		inputs = append(inputs, core.SeriesInput{
			SatelliteID:          entry.Name,
			Records:              records,
			TargetInclinationDeg: entry.Requirement.InclinationDeg,
		})
	}
	if len(inputs) == 0 {
		return errors.New("no element history retrieved for any satellite")
	}

	reports := analyzer.AnalyzeAll(ctx, inputs)
	printHealthTable(reports)
	printManeuverTable(reports)

	out := report{
		GeneratedAt:  end,
		HistoryStart: start,
		HistoryEnd:   end,
		Satellites:   reports,
	}

	if !skipGeometry {
		ephs, err := currentEphemerides(ctx, log, client, catalog, cfg.IncludeInactiveInDOP)
		if err != nil {
			log.Warn(ctx, "geometry evaluation skipped", logging.String("error", err.Error()))
		} else {
			now := time.Now().UTC()
			observers := cfg.ObserverList()
			for _, obs := range observers {
				dop, positions := analyzer.DOPForLocation(ctx, ephs, obs, now)
				out.DOP = append(out.DOP, dopReport{
					Observer:  obs,
					Time:      now,
					Result:    dop,
					Positions: positions,
				})
			}
			printDOPTable(out.DOP)

			envelopes, skipped := analyzer.GroundTracks(ctx, ephs, now)
			out.GroundTracks = envelopes
			out.SkippedTracks = skipped
			printGroundTrackTable(envelopes)
		}
	}

	if outPath != "" {
		if err := writeReport(outPath, out); err != nil {
			return err
		}
		log.Info(ctx, "report written", logging.String("path", outPath))
	}
	return nil
}

func newSpaceTrackClient(ctx context.Context, log logging.Logger) (*spacetrack.Client, error) {
	user := os.Getenv("SPACETRACK_USER")
	pass := os.Getenv("SPACETRACK_PASSWORD")
	if user == "" || pass == "" {
		return nil, errors.New("SPACETRACK_USER and SPACETRACK_PASSWORD must be set")
	}

	opts := []spacetrack.Option{spacetrack.WithLogger(log)}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cache, err := spacetrack.NewRedisCache(addr)
		if err != nil {
			log.Warn(ctx, "redis cache unavailable, continuing uncached",
				logging.String("addr", addr),
				logging.String("error", err.Error()),
			)
		} else {
			opts = append(opts, spacetrack.WithCache(cache))
		}
	}
	return spacetrack.New(user, pass, opts...)
}

// currentEphemerides fetches the latest ephemeris text and builds one SGP4
// model per matched satellite, sorted by name for stable output.
func currentEphemerides(ctx context.Context, log logging.Logger, client *spacetrack.Client, catalog *kb.Catalog, includeInactive bool) ([]core.NamedEphemeris, error) {
	entries := catalog.ListActive()
	if includeInactive {
		entries = catalog.List()
	}
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.NoradID)
	}

	text, err := client.LatestTLEs(ctx, ids)
	if err != nil {
		return nil, err
	}

	matched := tle.Match(tle.Parse(text), catalog.NameToNoradID())
	if len(matched) == 0 {
		return nil, errors.New("no ephemeris sets matched the catalog")
	}

	names := make([]string, 0, len(matched))
	for name := range matched {
		names = append(names, name)
	}
	sort.Strings(names)

	ephs := make([]core.NamedEphemeris, 0, len(names))
	for _, name := range names {
		set := matched[name]
		ephs = append(ephs, core.NamedEphemeris{
			SatelliteID: name,
			Model:       core.NewSGP4Ephemeris(name, set.Line1, set.Line2),
		})
	}
	log.Info(ctx, "ephemerides ready", logging.Int("satellites", len(ephs)))
	return ephs, nil
}

// report is the JSON output document.
type report struct {
	GeneratedAt  time.Time `json:"generatedAt"`
	HistoryStart time.Time `json:"historyStart"`
	HistoryEnd   time.Time `json:"historyEnd"`

	Satellites    []core.SatelliteReport       `json:"satellites"`
	DOP           []dopReport                  `json:"dop,omitempty"`
	GroundTracks  []*model.GroundTrackEnvelope `json:"groundTracks,omitempty"`
	SkippedTracks []string                     `json:"skippedTracks,omitempty"`
}

type dopReport struct {
	Observer  model.Observer            `json:"observer"`
	Time      time.Time                 `json:"time"`
	Result    *model.DOPResult          `json:"result"`
	Positions []model.SatellitePosition `json:"positions"`
}

func writeReport(path string, out report) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func printHealthTable(reports []core.SatelliteReport) {
	fmt.Println("\nConstellation health")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SATELLITE\tTYPE\tSCORE\tSTATUS\tDRIFT\tDIRECTION\tMNV/MONTH\tREMARKS")
	for _, r := range reports {
		h := r.Health
		direction := "-"
		if h.MeanDriftDegPerDay != nil {
			direction = core.DriftDirection(*h.MeanDriftDegPerDay)
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\t%s\t%s\t%.2f\t%s\n",
			h.SatelliteID,
			h.Type,
			h.OverallScore,
			h.Status,
			orDash(h.DriftStatus),
			direction,
			h.ManeuversPerMonth,
			strings.Join(h.Remarks, "; "),
		)
	}
	w.Flush()
}

func printManeuverTable(reports []core.SatelliteReport) {
	total := 0
	for _, r := range reports {
		total += len(r.Maneuvers)
	}
	fmt.Printf("\nConfirmed maneuvers (%d)\n", total)
	if total == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SATELLITE\tEPOCH\tKIND\tΔSMA (km)\tΔINC (deg)")
	for _, r := range reports {
		for _, m := range r.Maneuvers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.4f\n",
				m.SatelliteID,
				m.Epoch.Format("2006-01-02"),
				maneuverKind(m),
				m.DeltaSMAKm,
				m.DeltaIncDeg,
			)
		}
	}
	w.Flush()
}

func maneuverKind(m model.ManeuverEvent) string {
	switch {
	case m.EastWest && m.NorthSouth:
		return "EW+NS"
	case m.EastWest:
		return "EW"
	case m.NorthSouth:
		return "NS"
	default:
		return "?"
	}
}

func printDOPTable(results []dopReport) {
	fmt.Println("\nPositioning geometry")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LOCATION\tVISIBLE\tGDOP\tPDOP\tHDOP\tVDOP\tTDOP\tQUALITY")
	for _, r := range results {
		if r.Result == nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t-\tinsufficient geometry\n", r.Observer.Name)
			continue
		}
		d := r.Result
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			r.Observer.Name,
			len(d.VisibleSatellites),
			d.GDOP, d.PDOP, d.HDOP, d.VDOP, d.TDOP,
			d.Quality,
		)
	}
	w.Flush()
}

func printGroundTrackTable(envelopes []*model.GroundTrackEnvelope) {
	fmt.Println("\nGround-track envelopes")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SATELLITE\tLAT RANGE (deg)\tMEAN LON (deg)\tSAMPLES")
	for _, e := range envelopes {
		fmt.Fprintf(w, "%s\t%.2f .. %.2f\t%.2f\t%d\n",
			e.SatelliteID,
			e.MinLatDeg, e.MaxLatDeg,
			e.MeanLonDeg,
			len(e.Times),
		)
	}
	w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
