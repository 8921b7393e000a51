package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/signalsfoundry/navhealth/model"
)

// ErrWindowTooShort is returned when the propagation window admits no
// interior sample times.
var ErrWindowTooShort = errors.New("propagation window too short for timestep")

// GroundTrack propagates a satellite over (start, start+duration) at the
// given timestep and reduces the subsatellite track to its geographic
// envelope. Sample times lie strictly inside the window (boundary samples
// are excluded). A propagation failure is returned to the caller, which
// skips the satellite rather than aborting the batch.
func GroundTrack(eph EphemerisModel, satelliteID string, start time.Time, step, duration time.Duration) (*model.GroundTrackEnvelope, error) {
	if step <= 0 || duration <= 0 {
		return nil, ErrWindowTooShort
	}
	nSteps := int(duration/step) + 1
	if nSteps <= 2 {
		return nil, ErrWindowTooShort
	}

	env := &model.GroundTrackEnvelope{SatelliteID: satelliteID}
	for k := 1; k <= nSteps-2; k++ {
		t := start.Add(time.Duration(k) * step)
		lat, lon, err := eph.Subpoint(t)
		if err != nil {
			return nil, fmt.Errorf("ground track for %s at %s: %w", satelliteID, t.Format(time.RFC3339), err)
		}
		env.Times = append(env.Times, t)
		env.Latitudes = append(env.Latitudes, lat)
		env.Longitudes = append(env.Longitudes, lon)
	}

	env.MinLatDeg, env.MaxLatDeg, env.MeanLatDeg = summarize(env.Latitudes)
	env.MinLonDeg, env.MaxLonDeg, env.MeanLonDeg = summarize(env.Longitudes)
	return env, nil
}

func summarize(xs []float64) (min, max, avg float64) {
	min, max = xs[0], xs[0]
	for _, x := range xs {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return min, max, mean(xs)
}
