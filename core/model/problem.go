package model

// Problem is a validated dispatch request. Every plant's FuelType must be a
// key of Fuels.
type Problem struct {
	Load   float64           `json:"load"`
	Fuels  map[FuelType]Fuel `json:"fuels"`
	Plants []Plant           `json:"plants"`
}

// PlantConfiguration is the power in MW assigned to a plant.
type PlantConfiguration struct {
	Name  string  `json:"name"`
	Power float64 `json:"p"`
}

// TotalPower sums the power of all configurations.
func TotalPower(cfgs []PlantConfiguration) float64 {
	var sum float64
	for _, c := range cfgs {
		sum += c.Power
	}
	return sum
}
