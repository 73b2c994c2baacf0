package model

// FuelType identifies a fuel in the fuel table of a Problem.
type FuelType string

const (
	FuelGas      FuelType = "gas"
	FuelKerosine FuelType = "kerosine"
	FuelCO2      FuelType = "co2"
	FuelWind     FuelType = "wind"
)

// FuelTypes lists every recognised fuel.
var FuelTypes = []FuelType{FuelGas, FuelKerosine, FuelCO2, FuelWind}

// Valid reports whether t is one of the recognised fuels.
func (t FuelType) Valid() bool {
	switch t {
	case FuelGas, FuelKerosine, FuelCO2, FuelWind:
		return true
	default:
		return false
	}
}

// Intermittent reports whether units burning this fuel cannot be curtailed
// while running: they are either off or at their available capacity.
func (t FuelType) Intermittent() bool {
	return t == FuelWind
}

func (t FuelType) String() string { return string(t) }

// Fuel holds the price and availability of a fuel for one request.
type Fuel struct {
	Cost   float64 `json:"cost"`   // €/MWh
	Factor float64 `json:"factor"` // availability in [0,1], 1 for gas or kerosine
}
