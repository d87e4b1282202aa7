// Package environment simulates greenhouse sensors and turns threshold
// crossings into alerts.
package environment

import (
	"math"
	"strconv"

	"github.com/julianstephens/smartgrow/internal/constants"
)

// Reading is one sample of every sensor.
type Reading struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	SoilMoisture float64 `json:"soilMoisture"`
	Light        float64 `json:"light"`
}

func InitialReading() Reading {
	return Reading{
		Temperature:  constants.InitialTemperature,
		Humidity:     constants.InitialHumidity,
		SoilMoisture: constants.InitialSoilMoisture,
		Light:        constants.InitialLight,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// formatNumber prints v without trailing zeros, e.g. 32 or 31.4.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
