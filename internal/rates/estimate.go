package rates

import (
	"math"
	"strconv"
)

// Average courier speed per vehicle class, km/h. Used only when the client
// did not pre-compute an ETA.
var cruiseSpeedKmh = map[string]float64{
	VehicleBike:  15,
	VehicleEBike: 20,
	VehicleECar:  30,
}

// Emission factor per vehicle class, kg CO2 per km.
var co2PerKm = map[string]float64{
	VehicleBike:  0,
	VehicleEBike: 0.005,
	VehicleECar:  0.05,
}

// EstimateETASeconds derives a travel-time estimate from distance and
// vehicle class. Unknown vehicles fall back to the bike speed.
func EstimateETASeconds(vehicleType string, distanceMeters float64) int {
	if distanceMeters <= 0 {
		return 0
	}
	speed, ok := cruiseSpeedKmh[vehicleType]
	if !ok {
		speed = cruiseSpeedKmh[VehicleBike]
	}
	return int(math.Ceil(distanceMeters * 3.6 / speed))
}

// EstimateCO2 derives the emission total in kg for a leg.
func EstimateCO2(vehicleType string, distanceMeters float64) float64 {
	if distanceMeters <= 0 {
		return 0
	}
	return co2PerKm[vehicleType] * distanceMeters / 1000
}

// FormatETA renders a seconds total as "H hour(s) M minute(s)". The hour
// part is always present, "0 hours" included.
func FormatETA(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60

	return pluralize(hours, "hour") + " " + pluralize(minutes, "minute")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
