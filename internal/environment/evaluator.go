package environment

import (
	"fmt"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/models"
)

const (
	TitleHeat    = "Heat Warning"
	TitleCooling = "Cooling Alert"
	TitleThirsty = "Thirsty Plants"
)

// Crossings compares two consecutive readings and returns an alert for each
// threshold crossed between them. Heat and cooling are exclusive; soil is
// evaluated independently.
func Crossings(prev, cur Reading) []models.AlertDraft {
	var drafts []models.AlertDraft

	switch {
	case cur.Temperature > constants.HeatThreshold && prev.Temperature <= constants.HeatThreshold:
		drafts = append(drafts, models.AlertDraft{
			Title:    TitleHeat,
			Message:  fmt.Sprintf("Temperature reached %s°C. Ensure your plants have shade.", formatNumber(cur.Temperature)),
			Severity: models.AlertWarning,
		})
	case cur.Temperature < constants.CoolingThreshold && prev.Temperature >= constants.CoolingThreshold:
		drafts = append(drafts, models.AlertDraft{
			Title:    TitleCooling,
			Message:  fmt.Sprintf("It's getting chilly (%s°C). Monitor tropical plants.", formatNumber(cur.Temperature)),
			Severity: models.AlertInfo,
		})
	}

	if cur.SoilMoisture < constants.SoilThreshold && prev.SoilMoisture >= constants.SoilThreshold {
		drafts = append(drafts, models.AlertDraft{
			Title:    TitleThirsty,
			Message:  fmt.Sprintf("Soil moisture dropped to %s%%. Consider watering.", formatNumber(cur.SoilMoisture)),
			Severity: models.AlertWarning,
		})
	}

	return drafts
}

// Evaluator remembers the previous reading so each crossing fires once.
type Evaluator struct {
	prev   Reading
	primed bool
}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// NewPrimedEvaluator starts from a known previous reading.
func NewPrimedEvaluator(prev Reading) *Evaluator {
	return &Evaluator{prev: prev, primed: true}
}

// Evaluate records r and returns the alerts it triggers. The first reading
// of an unprimed evaluator only sets the baseline.
func (e *Evaluator) Evaluate(r Reading) []models.AlertDraft {
	defer func() {
		e.prev = r
		e.primed = true
	}()
	if !e.primed {
		return nil
	}
	return Crossings(e.prev, r)
}
