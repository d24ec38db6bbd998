package pricing

import "math"

// Dimensions of a package in centimeters.
// A zero value means the dimension was not provided.
type Dimensions struct {
	Length float64 `json:"length,omitempty" yaml:"length,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// Complete returns true when all three dimensions are provided.
func (d Dimensions) Complete() bool {
	return d.Length > 0 && d.Width > 0 && d.Height > 0
}

// VolumetricWeight returns the volumetric weight of the package for the courier,
// rounded up to one decimal place. It returns 0 when any dimension is missing.
func VolumetricWeight(courier string, dims Dimensions) float64 {
	if !dims.Complete() {
		return 0
	}
	volume := dims.Length * dims.Width * dims.Height
	return math.Ceil(volume/Divisor(courier)*10) / 10
}

// MaxChargeableWeight is the largest billable weight in kg.
const MaxChargeableWeight = 1_000_000

// ChargeableWeight returns the billable weight: the greater of actual and
// volumetric weight, rounded up to a whole kg, never less than 1
// and capped at MaxChargeableWeight.
func ChargeableWeight(actualWeight, volumetricWeight float64) int {
	w := math.Ceil(math.Max(actualWeight, volumetricWeight))
	switch {
	case math.IsNaN(w) || w < 1:
		return 1
	case w > MaxChargeableWeight:
		return MaxChargeableWeight
	}
	return int(w)
}
