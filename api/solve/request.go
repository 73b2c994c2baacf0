package solve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/powerplant/core/model"
)

// PowerPlant is one plant as submitted by clients.
type PowerPlant struct {
	Name       string  `json:"name" yaml:"name" validate:"required"`
	Type       string  `json:"type" yaml:"type" validate:"required,oneof=gasfired turbojet windturbine"`
	Efficiency float64 `json:"efficiency" yaml:"efficiency" validate:"gt=0"`
	PMin       float64 `json:"pmin" yaml:"pmin" validate:"gte=0"`
	PMax       float64 `json:"pmax" yaml:"pmax" validate:"gtefield=PMin"`
}

// Request is the body of a production plan request. Fuel keys carry a unit
// suffix, e.g. "gas(euro/MWh)" or "wind(%)".
type Request struct {
	Load        float64            `json:"load" yaml:"load" validate:"gt=0"`
	Fuels       map[string]float64 `json:"fuels" yaml:"fuels" validate:"required,min=1"`
	PowerPlants []PowerPlant       `json:"powerplants" yaml:"powerplants" validate:"required,min=1,unique=Name,dive"`
}

// ErrInvalidRequest wraps every validation failure.
var ErrInvalidRequest = errors.New("invalid request")

var validate = validator.New()

// fuelLabel extracts the fuel name of a key such as "gas(euro/MWh)".
func fuelLabel(key string) string {
	name, _, _ := strings.Cut(key, "(")
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseFuels converts the request fuel map. Wind is given in percent and
// becomes an availability factor; every other fuel is fully available.
// The CO2 price is accepted but no plant type burns it, so it is left out.
func ParseFuels(raw map[string]float64) (map[model.FuelType]model.Fuel, error) {
	fuels := make(map[model.FuelType]model.Fuel, len(raw))
	for key, v := range raw {
		ft := model.FuelType(fuelLabel(key))
		if !ft.Valid() {
			return nil, fmt.Errorf("%w: unknown fuel %q", ErrInvalidRequest, key)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: fuel %q must not be negative", ErrInvalidRequest, key)
		}
		switch ft {
		case model.FuelCO2:
			continue
		case model.FuelWind:
			if v > 100 {
				return nil, fmt.Errorf("%w: wind availability %.1f%% above 100", ErrInvalidRequest, v)
			}
			fuels[ft] = model.Fuel{Cost: 0, Factor: v / 100}
		default:
			fuels[ft] = model.Fuel{Cost: v, Factor: 1}
		}
	}
	return fuels, nil
}

// Validate checks field constraints and that every plant's fuel is priced.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// ToProblem validates the request and converts it into a model.Problem.
func (r Request) ToProblem() (model.Problem, error) {
	if err := r.Validate(); err != nil {
		return model.Problem{}, err
	}
	fuels, err := ParseFuels(r.Fuels)
	if err != nil {
		return model.Problem{}, err
	}
	plants := make([]model.Plant, len(r.PowerPlants))
	for i, pp := range r.PowerPlants {
		ft, ok := model.PlantType(pp.Type).FuelType()
		if !ok {
			return model.Problem{}, fmt.Errorf("%w: unknown plant type %q", ErrInvalidRequest, pp.Type)
		}
		if _, priced := fuels[ft]; !priced {
			return model.Problem{}, fmt.Errorf("%w: plant %q needs fuel %q", ErrInvalidRequest, pp.Name, ft)
		}
		plants[i] = model.Plant{
			Name:       pp.Name,
			FuelType:   ft,
			Efficiency: pp.Efficiency,
			PMin:       pp.PMin,
			PMax:       pp.PMax,
		}
	}
	return model.Problem{Load: r.Load, Fuels: fuels, Plants: plants}, nil
}
