// Package rates prices a single delivery leg. It is pure: no I/O, no clock,
// no store access. Two interchangeable strategies share the same contract:
// the vehicle-class tier table below (current), and a lookup against the
// persisted delivery_rates bands (legacy, selected when the caller's data
// carries a package size instead of a vehicle class).
package rates

import (
	"math"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/apperr"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
)

// Delivery urgency classes.
const (
	DeliveryInstant   = "instant"
	DeliveryScheduled = "scheduled"
)

// Vehicle classes.
const (
	VehicleBike  = "bike"
	VehicleEBike = "e-bike"
	VehicleECar  = "e-car"
)

// InsuranceSurcharge is the multiplier applied when item protection is on.
const InsuranceSurcharge = 1.02

// baseKilometers is the distance the base price covers for tiered vehicles.
const baseKilometers = 3

type tier struct {
	base  float64 // price of the first baseKilometers
	perKm float64 // each km beyond that (ceil-rounded)
	flat  bool    // no base tier: perKm applies from km 1
}

var tiers = map[string]map[string]tier{
	VehicleBike: {
		DeliveryScheduled: {base: 40, perKm: 10},
		DeliveryInstant:   {base: 50, perKm: 12},
	},
	VehicleEBike: {
		DeliveryScheduled: {base: 55, perKm: 13},
		DeliveryInstant:   {base: 65, perKm: 15},
	},
	VehicleECar: {
		DeliveryScheduled: {perKm: 65, flat: true},
		DeliveryInstant:   {perKm: 75, flat: true},
	},
}

// ComputeFee prices a leg by vehicle class and urgency. Distance is in
// meters; partial kilometers bill as a full kilometer. Non-positive
// distance is free regardless of the other inputs, including unknown
// vehicle or urgency classes.
func ComputeFee(deliveryType, vehicleType string, distanceMeters float64, insured bool) (float64, error) {
	if distanceMeters <= 0 {
		return 0, nil
	}

	byVehicle, ok := tiers[vehicleType]
	if !ok {
		return 0, apperr.Newf(apperr.Validation, "unknown vehicle type %q", vehicleType)
	}
	t, ok := byVehicle[deliveryType]
	if !ok {
		return 0, apperr.Newf(apperr.Validation, "unknown delivery type %q", deliveryType)
	}

	km := math.Ceil(distanceMeters / 1000)

	var fee float64
	if t.flat {
		fee = t.perKm * km
	} else {
		fee = t.base
		if km > baseKilometers {
			fee += (km - baseKilometers) * t.perKm
		}
	}

	if insured {
		fee *= InsuranceSurcharge
	}
	return fee, nil
}

// TableFee prices a leg against the legacy rate bands: the first band whose
// [MinDistance, MaxDistance] range contains the distance wins; a nil
// MaxDistance marks the open-ended last band. Non-positive distance is free.
func TableFee(bands []models.DeliveryRate, deliveryType, packageSize string, distanceMeters float64) (float64, error) {
	if distanceMeters <= 0 {
		return 0, nil
	}
	d := int(distanceMeters)
	for _, b := range bands {
		if b.DeliveryType != deliveryType || b.PackageSize != packageSize {
			continue
		}
		if d < b.MinDistance {
			continue
		}
		if b.MaxDistance != nil && d > *b.MaxDistance {
			continue
		}
		return b.Price, nil
	}
	return 0, apperr.Newf(apperr.Validation, "no rate for %s/%s at %dm", deliveryType, packageSize, d)
}

// UsesTableRates reports whether a receiver payload selects the legacy
// package-size strategy rather than the vehicle-class one.
func UsesTableRates(vehicleType, packageSize string) bool {
	return vehicleType == "" && packageSize != ""
}
