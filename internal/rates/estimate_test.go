package rates

import (
	"testing"
)

func TestEstimateETASeconds(t *testing.T) {
	cases := []struct {
		name    string
		vehicle string
		meters  float64
		want    int
	}{
		{"bike 5km at 15km/h", VehicleBike, 5000, 1200},
		{"e-bike 5km at 20km/h", VehicleEBike, 5000, 900},
		{"e-car 30km at 30km/h", VehicleECar, 30000, 3600},
		{"zero distance", VehicleBike, 0, 0},
		{"unknown vehicle falls back to bike", "scooter", 5000, 1200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EstimateETASeconds(tc.vehicle, tc.meters); got != tc.want {
				t.Errorf("EstimateETASeconds = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEstimateCO2(t *testing.T) {
	if got := EstimateCO2(VehicleBike, 10000); got != 0 {
		t.Errorf("bike CO2 = %v, want 0", got)
	}
	if got := EstimateCO2(VehicleECar, 10000); got != 0.5 {
		t.Errorf("e-car CO2 = %v, want 0.5", got)
	}
}

func TestFormatETA(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0 hours 0 minutes"},
		{59, "0 hours 0 minutes"},
		{60, "0 hours 1 minute"},
		{300, "0 hours 5 minutes"},
		{3600, "1 hour 0 minutes"},
		{3660, "1 hour 1 minute"},
		{7500, "2 hours 5 minutes"},
		{-10, "0 hours 0 minutes"},
	}
	for _, tc := range cases {
		if got := FormatETA(tc.seconds); got != tc.want {
			t.Errorf("FormatETA(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
