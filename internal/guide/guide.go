// Package guide holds the companion planting reference and grower tips.
package guide

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/smartgrow/internal/models"
)

//go:embed plants.yaml
var rawGuide []byte

type Plant struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Category   string   `yaml:"category" json:"category"`
	Companions []string `yaml:"companions" json:"companions"`
	Avoid      []string `yaml:"avoid" json:"avoid"`
	Tips       string   `yaml:"tips" json:"tips"`
	HybridInfo string   `yaml:"hybridInfo" json:"hybridInfo"`
}

type document struct {
	Plants []Plant                      `yaml:"plants"`
	Tips   map[models.Language][]string `yaml:"tips"`
}

var data = mustLoad(rawGuide)

func mustLoad(raw []byte) document {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("invalid embedded plant guide: %v", err))
	}
	return doc
}

// All returns every plant in display order.
func All() []Plant {
	out := make([]Plant, len(data.Plants))
	copy(out, data.Plants)
	return out
}

func Lookup(id string) (Plant, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range data.Plants {
		if p.ID == id {
			return p, true
		}
	}
	return Plant{}, false
}

// Search matches query against name and category, case-insensitively. An
// empty query returns every plant.
func Search(query string) []Plant {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return All()
	}
	var out []Plant
	for _, p := range data.Plants {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// Tips returns grower tips in lang, falling back to English.
func Tips(lang models.Language) []string {
	if tips, ok := data.Tips[lang]; ok && len(tips) > 0 {
		return tips
	}
	return data.Tips[models.LanguageEnglish]
}

// TipAt rotates through the tips, e.g. one per tick of a timer.
func TipAt(lang models.Language, n int) string {
	tips := Tips(lang)
	if len(tips) == 0 {
		return ""
	}
	if n < 0 {
		n = -n
	}
	return tips[n%len(tips)]
}
