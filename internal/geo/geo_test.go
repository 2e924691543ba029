package geo

import (
	"math"
	"testing"

	"entrega/internal/types"
)

func TestDistanceKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Point{Lat: -23.55, Lng: -46.63},
			b:         types.Point{Lat: -23.55, Lng: -46.63},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "one degree of longitude at the equator",
			a:         types.Point{Lat: 0, Lng: 0},
			b:         types.Point{Lat: 0, Lng: 1},
			wantKm:    111.2,
			tolerance: 0.5,
		},
		{
			name:      "Sao Paulo to Rio de Janeiro (~360km)",
			a:         types.Point{Lat: -23.5505, Lng: -46.6333},
			b:         types.Point{Lat: -22.9068, Lng: -43.1729},
			wantKm:    360,
			tolerance: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("DistanceKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	a := types.Point{Lat: -23.0, Lng: -46.0}
	b := types.Point{Lat: -22.0, Lng: -45.0}
	d1 := DistanceKm(a, b)
	d2 := DistanceKm(b, a)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("distance is not symmetric: %f vs %f", d1, d2)
	}
}

func TestRoundKm1(t *testing.T) {
	if got := RoundKm1(3.14159); got != 3.1 {
		t.Errorf("RoundKm1(3.14159) = %f, want 3.1", got)
	}
	if got := RoundKm1(2.36); got != 2.4 {
		t.Errorf("RoundKm1(2.36) = %f, want 2.4", got)
	}
}
