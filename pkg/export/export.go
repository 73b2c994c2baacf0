// Package export renders production plans for files and terminals.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/powerplant/core/model"
)

// WriteJSON writes the production plan to w in the API response format.
func WriteJSON(w io.Writer, plan []model.PlantConfiguration) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if plan == nil {
		plan = []model.PlantConfiguration{}
	}
	return enc.Encode(plan)
}

// WriteCSV writes the production plan to w with a name,power header.
func WriteCSV(w io.Writer, plan []model.PlantConfiguration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "power"}); err != nil {
		return err
	}
	for _, c := range plan {
		if err := cw.Write([]string{c.Name, strconv.FormatFloat(c.Power, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
