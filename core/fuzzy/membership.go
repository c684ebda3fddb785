package fuzzy

import "math"

// Service quality breakpoints
const (
	serviceLowEnd      = 50.0
	serviceLowWidth    = 20.0
	serviceMediumStart = 30.0
	serviceMediumEnd   = 80.0
	serviceMediumWidth = 30.0
	serviceHighStart   = 60.0
	serviceHighWidth   = 20.0
)

// Price breakpoints, in currency units
const (
	priceCheapEnd      = 40000.0
	priceMediumStart   = 30000.0
	priceMediumEnd     = 50000.0
	priceExpensiveFrom = 40000.0
	priceWidth         = 10000.0
)

// clamp01 bounds x to [0,1]. NaN maps to 0.
func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// FuzzifyService maps a service quality score to low/medium/high degrees.
// It is total over the reals: values outside 0-100 saturate.
func FuzzifyService(q float64) ServiceDegrees {
	var d ServiceDegrees
	d[ServiceLow] = clamp01((serviceLowEnd - q) / serviceLowWidth)
	d[ServiceMedium] = clamp01(math.Min(
		(q-serviceMediumStart)/serviceMediumWidth,
		(serviceMediumEnd-q)/serviceMediumWidth,
	))
	d[ServiceHigh] = clamp01((q - serviceHighStart) / serviceHighWidth)
	return d
}

// FuzzifyPrice maps a price to cheap/medium/expensive degrees
func FuzzifyPrice(p float64) PriceDegrees {
	var d PriceDegrees
	d[PriceCheap] = clamp01((priceCheapEnd - p) / priceWidth)
	d[PriceMedium] = clamp01(math.Min(
		(p-priceMediumStart)/priceWidth,
		(priceMediumEnd-p)/priceWidth,
	))
	d[PriceExpensive] = clamp01((p - priceExpensiveFrom) / priceWidth)
	return d
}
