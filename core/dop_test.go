package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/navhealth/model"
)

func skyPositions() []model.SatellitePosition {
	// One satellite near zenith plus four spread around the horizon at a
	// healthy elevation: a well-conditioned positioning geometry.
	return []model.SatellitePosition{
		{SatelliteID: "A", AltitudeDeg: 85, AzimuthDeg: 0},
		{SatelliteID: "B", AltitudeDeg: 30, AzimuthDeg: 0},
		{SatelliteID: "C", AltitudeDeg: 30, AzimuthDeg: 90},
		{SatelliteID: "D", AltitudeDeg: 30, AzimuthDeg: 180},
		{SatelliteID: "E", AltitudeDeg: 30, AzimuthDeg: 270},
	}
}

func TestSolveDOP_Invariants(t *testing.T) {
	rows := BuildDesignMatrix(skyPositions(), 5)
	res := SolveDOP(rows)
	if res == nil {
		t.Fatal("well-conditioned geometry returned nil")
	}

	// GDOP^2 = PDOP^2 + TDOP^2 and PDOP^2 = HDOP^2 + VDOP^2 hold by
	// construction of the covariance decomposition.
	if d := math.Abs(res.GDOP*res.GDOP - (res.PDOP*res.PDOP + res.TDOP*res.TDOP)); d > 1e-9 {
		t.Errorf("GDOP^2 - (PDOP^2+TDOP^2) = %v, want ~0", d)
	}
	if d := math.Abs(res.PDOP*res.PDOP - (res.HDOP*res.HDOP + res.VDOP*res.VDOP)); d > 1e-9 {
		t.Errorf("PDOP^2 - (HDOP^2+VDOP^2) = %v, want ~0", d)
	}
	for _, v := range []float64{res.GDOP, res.PDOP, res.HDOP, res.VDOP, res.TDOP} {
		if v <= 0 || math.IsNaN(v) {
			t.Errorf("non-positive DOP component: %+v", res)
			break
		}
	}
}

func TestSolveDOP_TooFewSatellites(t *testing.T) {
	rows := BuildDesignMatrix(skyPositions()[:3], 5)
	if res := SolveDOP(rows); res != nil {
		t.Errorf("three satellites returned %+v, want nil", res)
	}
	if res := SolveDOP(nil); res != nil {
		t.Errorf("empty matrix returned %+v, want nil", res)
	}
}

func TestSolveDOP_SingularGeometry(t *testing.T) {
	// Four satellites in exactly the same direction give a rank-one normal
	// matrix.
	same := model.SatellitePosition{AltitudeDeg: 45, AzimuthDeg: 120}
	positions := []model.SatellitePosition{same, same, same, same}

	if res := SolveDOP(BuildDesignMatrix(positions, 5)); res != nil {
		t.Errorf("degenerate geometry returned %+v, want nil", res)
	}
}

func TestBuildDesignMatrix_MaskIsExclusive(t *testing.T) {
	positions := []model.SatellitePosition{
		{SatelliteID: "below", AltitudeDeg: 4, AzimuthDeg: 10},
		{SatelliteID: "at-mask", AltitudeDeg: 5, AzimuthDeg: 20},
		{SatelliteID: "above", AltitudeDeg: 6, AzimuthDeg: 30},
	}

	rows := BuildDesignMatrix(positions, 5)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (only strictly above the mask)", len(rows))
	}
	visible := VisibleSatellites(positions, 5)
	if len(visible) != 1 || visible[0] != "above" {
		t.Errorf("visible = %v, want [above]", visible)
	}
}

func TestDesignMatrixRow_DirectionCosines(t *testing.T) {
	positions := []model.SatellitePosition{{AltitudeDeg: 30, AzimuthDeg: 90}}
	rows := BuildDesignMatrix(positions, 5)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	r := rows[0]
	if !floatsClose(r[0], math.Cos(30*deg2Rad)) {
		t.Errorf("east component = %v, want cos(30)", r[0])
	}
	if math.Abs(r[1]) > 1e-12 {
		t.Errorf("north component = %v, want 0 at az=90", r[1])
	}
	if !floatsClose(r[2], 0.5) {
		t.Errorf("up component = %v, want sin(30)=0.5", r[2])
	}
	if r[3] != 1 {
		t.Errorf("clock column = %v, want 1", r[3])
	}
}

func TestDOPQuality_Bands(t *testing.T) {
	cases := []struct {
		gdop float64
		want string
	}{
		{1.5, "Excellent"},
		{2.0, "Good"},
		{3.9, "Good"},
		{5.0, "Moderate"},
		{7.5, "Fair"},
		{8.0, "Poor"},
		{25, "Poor"},
	}
	for _, c := range cases {
		if got := DOPQuality(c.gdop); got != c.want {
			t.Errorf("DOPQuality(%v) = %q, want %q", c.gdop, got, c.want)
		}
	}
}
