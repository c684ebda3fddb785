// Package fuzzy - Mamdani fuzzy evaluation of restaurant suitability
// Two crisp inputs (service quality, price) are fuzzified, combined by a
// fixed 3x3 rule table and defuzzified to one score by centroid.
// Everything in this package is pure and safe for concurrent use.
package fuzzy

import "fmt"

// ServiceTerm is a linguistic term of the service quality input
type ServiceTerm int

const (
	ServiceLow ServiceTerm = iota
	ServiceMedium
	ServiceHigh
)

// ServiceTerms lists the service terms in mapping order
var ServiceTerms = [...]ServiceTerm{ServiceLow, ServiceMedium, ServiceHigh}

// String returns the English term name
func (t ServiceTerm) String() string {
	switch t {
	case ServiceLow:
		return "low"
	case ServiceMedium:
		return "medium"
	case ServiceHigh:
		return "high"
	}
	return "unknown"
}

// MarshalText encodes the term by its English name
func (t ServiceTerm) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a term from its English name
func (t *ServiceTerm) UnmarshalText(text []byte) error {
	for _, term := range ServiceTerms {
		if term.String() == string(text) {
			*t = term
			return nil
		}
	}
	return fmt.Errorf("unknown service term %q", text)
}

// Label returns the term name used in the source spreadsheets
func (t ServiceTerm) Label() string {
	switch t {
	case ServiceLow:
		return "rendah"
	case ServiceMedium:
		return "sedang"
	case ServiceHigh:
		return "tinggi"
	}
	return "unknown"
}

// PriceTerm is a linguistic term of the price input
type PriceTerm int

const (
	PriceCheap PriceTerm = iota
	PriceMedium
	PriceExpensive
)

// PriceTerms lists the price terms in mapping order
var PriceTerms = [...]PriceTerm{PriceCheap, PriceMedium, PriceExpensive}

// String returns the English term name
func (t PriceTerm) String() string {
	switch t {
	case PriceCheap:
		return "cheap"
	case PriceMedium:
		return "medium"
	case PriceExpensive:
		return "expensive"
	}
	return "unknown"
}

// MarshalText encodes the term by its English name
func (t PriceTerm) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a term from its English name
func (t *PriceTerm) UnmarshalText(text []byte) error {
	for _, term := range PriceTerms {
		if term.String() == string(text) {
			*t = term
			return nil
		}
	}
	return fmt.Errorf("unknown price term %q", text)
}

// Label returns the term name used in the source spreadsheets
func (t PriceTerm) Label() string {
	switch t {
	case PriceCheap:
		return "murah"
	case PriceMedium:
		return "sedang"
	case PriceExpensive:
		return "mahal"
	}
	return "unknown"
}

// OutputTerm is a linguistic term of the suitability output
type OutputTerm int

const (
	Poor OutputTerm = iota
	Fair
	Good
	VeryGood
)

// OutputTerms lists the output terms in mapping order
var OutputTerms = [...]OutputTerm{Poor, Fair, Good, VeryGood}

// String returns the English term name
func (t OutputTerm) String() string {
	switch t {
	case Poor:
		return "poor"
	case Fair:
		return "fair"
	case Good:
		return "good"
	case VeryGood:
		return "very_good"
	}
	return "unknown"
}

// MarshalText encodes the term by its English name
func (t OutputTerm) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a term from its English name
func (t *OutputTerm) UnmarshalText(text []byte) error {
	for _, term := range OutputTerms {
		if term.String() == string(text) {
			*t = term
			return nil
		}
	}
	return fmt.Errorf("unknown output term %q", text)
}

// Label returns the term name used in the source spreadsheets
func (t OutputTerm) Label() string {
	switch t {
	case Poor:
		return "buruk"
	case Fair:
		return "cukup"
	case Good:
		return "baik"
	case VeryGood:
		return "sangat_baik"
	}
	return "unknown"
}

// ServiceDegrees holds one membership degree per ServiceTerm
type ServiceDegrees [len(ServiceTerms)]float64

// Get returns the degree of a term
func (d ServiceDegrees) Get(t ServiceTerm) float64 { return d[t] }

// Map returns the degrees keyed by term name
func (d ServiceDegrees) Map() map[string]float64 {
	m := make(map[string]float64, len(d))
	for _, t := range ServiceTerms {
		m[t.String()] = d[t]
	}
	return m
}

// PriceDegrees holds one membership degree per PriceTerm
type PriceDegrees [len(PriceTerms)]float64

// Get returns the degree of a term
func (d PriceDegrees) Get(t PriceTerm) float64 { return d[t] }

// Map returns the degrees keyed by term name
func (d PriceDegrees) Map() map[string]float64 {
	m := make(map[string]float64, len(d))
	for _, t := range PriceTerms {
		m[t.String()] = d[t]
	}
	return m
}

// OutputDegrees holds one membership degree per OutputTerm
type OutputDegrees [len(OutputTerms)]float64

// Get returns the degree of a term
func (d OutputDegrees) Get(t OutputTerm) float64 { return d[t] }

// Map returns the degrees keyed by term name
func (d OutputDegrees) Map() map[string]float64 {
	m := make(map[string]float64, len(d))
	for _, t := range OutputTerms {
		m[t.String()] = d[t]
	}
	return m
}
