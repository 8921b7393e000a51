// Package config loads the analysis configuration from YAML, layering file
// values over the built-in defaults for the NavIC constellation.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/navhealth/core"
	"github.com/signalsfoundry/navhealth/model"
)

// Config holds the full runner configuration.
type Config struct {
	Analysis   AnalysisConfig    `yaml:"analysis"`
	Observers  []ObserverConfig  `yaml:"observers"`
	Satellites []SatelliteConfig `yaml:"satellites"`

	// IncludeInactiveInDOP keeps decommissioned satellites in the
	// positioning-geometry runs; element-history analysis always covers
	// the whole catalog.
	IncludeInactiveInDOP bool `yaml:"includeInactiveInDop"`

	// MetricsAddr, when set, serves Prometheus metrics on that address.
	MetricsAddr string `yaml:"metricsAddr"`
}

// AnalysisConfig carries the tunable analysis parameters.
type AnalysisConfig struct {
	ZThreshold              float64 `yaml:"zThreshold"`
	SMAThresholdKm          float64 `yaml:"smaThresholdKm"`
	IncThresholdDeg         float64 `yaml:"incThresholdDeg"`
	PersistWindow           int     `yaml:"persistWindow"`
	InclinationToleranceDeg float64 `yaml:"inclinationToleranceDeg"`
	DriftToleranceGSO       float64 `yaml:"driftToleranceGso"`
	DriftToleranceIGSO      float64 `yaml:"driftToleranceIgso"`
	MinManeuversPerMonth    float64 `yaml:"minManeuversPerMonth"`
	MaxManeuversPerMonth    float64 `yaml:"maxManeuversPerMonth"`
	UniformityThreshold     float64 `yaml:"maneuverUniformityThreshold"`
	ElevationMaskDeg        float64 `yaml:"elevationMaskDeg"`
	TimestepMinutes         int     `yaml:"timestepMinutes"`
	PropDurationDays        float64 `yaml:"propDurationDays"`
	DailyDedup              *bool   `yaml:"dailyDedup"`
	Workers                 int     `yaml:"workers"`
}

// ObserverConfig is one ground location for DOP analysis.
type ObserverConfig struct {
	Name   string  `yaml:"name"`
	LatDeg float64 `yaml:"latDeg"`
	LonDeg float64 `yaml:"lonDeg"`
}

// SatelliteConfig is one constellation member.
type SatelliteConfig struct {
	Name                 string   `yaml:"name"`
	NoradID              int      `yaml:"noradId"`
	Active               bool     `yaml:"active"`
	TargetLongitudeDeg   *float64 `yaml:"targetLongitudeDeg"`
	TargetInclinationDeg *float64 `yaml:"targetInclinationDeg"`
}

// Default returns the built-in configuration: default analysis parameters,
// the five DOP reference locations across the service region, and the NavIC
// constellation with its published slot requirements.
func Default() Config {
	t := true
	return Config{
		Analysis: AnalysisConfig{
			ZThreshold:              3.5,
			SMAThresholdKm:          0.5,
			IncThresholdDeg:         0.01,
			PersistWindow:           2,
			InclinationToleranceDeg: 1.0,
			DriftToleranceGSO:       0.05,
			DriftToleranceIGSO:      2.0,
			MinManeuversPerMonth:    1,
			MaxManeuversPerMonth:    8,
			UniformityThreshold:     0.8,
			ElevationMaskDeg:        5,
			TimestepMinutes:         15,
			PropDurationDays:        1.5,
			DailyDedup:              &t,
		},
		Observers: []ObserverConfig{
			{Name: "Northernmost (Siachen Glacier)", LatDeg: 35.5, LonDeg: 77.0},
			{Name: "Southernmost (Indira Point)", LatDeg: 6.75, LonDeg: 93.85},
			{Name: "Easternmost (Kibithu)", LatDeg: 28.0, LonDeg: 97.0},
			{Name: "Westernmost (Guhar Moti)", LatDeg: 23.7, LonDeg: 68.1},
			{Name: "Capital (Delhi)", LatDeg: 28.7, LonDeg: 77.1},
		},
		Satellites: []SatelliteConfig{
			{Name: "IRNSS-1B", NoradID: 39635, Active: false, TargetLongitudeDeg: f(55.0), TargetInclinationDeg: f(29.0)},
			{Name: "IRNSS-1C", NoradID: 40269, Active: false, TargetLongitudeDeg: f(83.0), TargetInclinationDeg: f(5.0)},
			{Name: "IRNSS-1D", NoradID: 40547, Active: false, TargetLongitudeDeg: f(111.75), TargetInclinationDeg: f(30.0)},
			{Name: "IRNSS-1E", NoradID: 41241, Active: true, TargetLongitudeDeg: f(111.75), TargetInclinationDeg: f(29.0)},
			{Name: "IRNSS-1F", NoradID: 41384, Active: true, TargetLongitudeDeg: f(32.5), TargetInclinationDeg: f(5.0)},
			{Name: "IRNSS-1I", NoradID: 43286, Active: true, TargetLongitudeDeg: f(55.0), TargetInclinationDeg: f(29.0)},
			{Name: "NVS-01", NoradID: 56759, Active: true, TargetLongitudeDeg: f(129.5), TargetInclinationDeg: f(5.0)},
		},
	}
}

func f(v float64) *float64 { return &v }

// Load reads a YAML configuration over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects parameter combinations the scoring model is undefined
// for.
func (c Config) Validate() error {
	a := c.Analysis
	switch {
	case a.ZThreshold <= 0:
		return fmt.Errorf("zThreshold must be positive, got %v", a.ZThreshold)
	case a.SMAThresholdKm <= 0:
		return fmt.Errorf("smaThresholdKm must be positive, got %v", a.SMAThresholdKm)
	case a.IncThresholdDeg <= 0:
		return fmt.Errorf("incThresholdDeg must be positive, got %v", a.IncThresholdDeg)
	case a.PersistWindow < 1:
		return fmt.Errorf("persistWindow must be at least 1, got %d", a.PersistWindow)
	case a.InclinationToleranceDeg <= 0:
		return fmt.Errorf("inclinationToleranceDeg must be positive, got %v", a.InclinationToleranceDeg)
	case a.DriftToleranceGSO <= 0 || a.DriftToleranceIGSO <= 0:
		return fmt.Errorf("drift tolerances must be positive")
	case a.MinManeuversPerMonth < 0:
		return fmt.Errorf("minManeuversPerMonth must not be negative, got %v", a.MinManeuversPerMonth)
	case a.MaxManeuversPerMonth < a.MinManeuversPerMonth:
		return fmt.Errorf("maxManeuversPerMonth %v below minManeuversPerMonth %v",
			a.MaxManeuversPerMonth, a.MinManeuversPerMonth)
	case a.UniformityThreshold <= 0:
		return fmt.Errorf("maneuverUniformityThreshold must be positive, got %v", a.UniformityThreshold)
	case a.ElevationMaskDeg < 0:
		return fmt.Errorf("elevationMaskDeg must not be negative, got %v", a.ElevationMaskDeg)
	case a.TimestepMinutes <= 0:
		return fmt.Errorf("timestepMinutes must be positive, got %d", a.TimestepMinutes)
	case a.PropDurationDays <= 0:
		return fmt.Errorf("propDurationDays must be positive, got %v", a.PropDurationDays)
	}

	seen := make(map[int]string)
	for _, s := range c.Satellites {
		if s.Name == "" || s.NoradID <= 0 {
			return fmt.Errorf("satellite entries need a name and a positive noradId")
		}
		if prev, dup := seen[s.NoradID]; dup {
			return fmt.Errorf("NORAD ID %d assigned to both %q and %q", s.NoradID, prev, s.Name)
		}
		seen[s.NoradID] = s.Name
	}
	return nil
}

// AnalyzerConfig converts the flat parameters into the engine's config.
func (c Config) AnalyzerConfig() core.AnalyzerConfig {
	a := c.Analysis
	dailyDedup := true
	if a.DailyDedup != nil {
		dailyDedup = *a.DailyDedup
	}
	return core.AnalyzerConfig{
		Detector: core.DetectorConfig{
			ZThreshold:      a.ZThreshold,
			SMAThresholdKm:  a.SMAThresholdKm,
			IncThresholdDeg: a.IncThresholdDeg,
			PersistWindow:   a.PersistWindow,
		},
		Health: core.HealthConfig{
			InclinationToleranceDeg: a.InclinationToleranceDeg,
			MinManeuversPerMonth:    a.MinManeuversPerMonth,
			MaxManeuversPerMonth:    a.MaxManeuversPerMonth,
			UniformityThreshold:     a.UniformityThreshold,
			DriftToleranceGSO:       a.DriftToleranceGSO,
			DriftToleranceIGSO:      a.DriftToleranceIGSO,
		},
		ElevationMaskDeg: a.ElevationMaskDeg,
		Timestep:         time.Duration(a.TimestepMinutes) * time.Minute,
		PropDuration:     time.Duration(a.PropDurationDays * 24 * float64(time.Hour)),
		DailyDedup:       dailyDedup,
		Workers:          a.Workers,
	}
}

// CatalogEntries converts the satellite table into catalog entries.
func (c Config) CatalogEntries() []*model.SatelliteEntry {
	entries := make([]*model.SatelliteEntry, 0, len(c.Satellites))
	for _, s := range c.Satellites {
		entries = append(entries, &model.SatelliteEntry{
			Name:    s.Name,
			NoradID: s.NoradID,
			Active:  s.Active,
			Requirement: model.ServiceRequirement{
				LongitudeDeg:   s.TargetLongitudeDeg,
				InclinationDeg: s.TargetInclinationDeg,
			},
		})
	}
	return entries
}

// ObserverList converts the observer table into model observers.
func (c Config) ObserverList() []model.Observer {
	obs := make([]model.Observer, 0, len(c.Observers))
	for _, o := range c.Observers {
		obs = append(obs, model.Observer{Name: o.Name, LatDeg: o.LatDeg, LonDeg: o.LonDeg})
	}
	return obs
}
