package model

// PlantType is the kind of power plant as submitted by clients.
type PlantType string

const (
	PlantGasFired    PlantType = "gasfired"
	PlantTurbojet    PlantType = "turbojet"
	PlantWindTurbine PlantType = "windturbine"
)

// FuelType returns the fuel burnt by the plant type. ok is false for unknown
// plant types.
func (t PlantType) FuelType() (FuelType, bool) {
	switch t {
	case PlantGasFired:
		return FuelGas, true
	case PlantTurbojet:
		return FuelKerosine, true
	case PlantWindTurbine:
		return FuelWind, true
	default:
		return "", false
	}
}

// Plant is a generating unit with its nominal operating limits in MW.
type Plant struct {
	Name       string   `json:"name"`
	FuelType   FuelType `json:"fuel_type"`
	Efficiency float64  `json:"efficiency"` // 1 for wind
	PMin       float64  `json:"pmin"`
	PMax       float64  `json:"pmax"`
}
