package models

import (
	"errors"
	"fmt"

	"github.com/julianstephens/smartgrow/internal/constants"
)

var ErrUnknownPersona = errors.New("unknown persona")

// Persona is the profile icon a user picks from a fixed set.
type Persona string

const (
	Persona1  Persona = "Persona1"
	Persona2  Persona = "Persona2"
	Persona3  Persona = "Persona3"
	Persona4  Persona = "Persona4"
	Persona5  Persona = "Persona5"
	Persona6  Persona = "Persona6"
	Persona7  Persona = "Persona7"
	Persona8  Persona = "Persona8"
	Persona9  Persona = "Persona9"
	Persona10 Persona = "Persona10"
)

type PersonaInfo struct {
	Key   Persona
	Label string
	Color string
}

// Personas is ordered the way the persona picker shows them.
var Personas = []PersonaInfo{
	{Persona1, "The Botanist", "#10b981"},
	{Persona2, "The Plant Doc", "#3b82f6"},
	{Persona3, "Happy Harvester", "#eab308"},
	{Persona4, "Seed Sower", "#f97316"},
	{Persona5, "Garden Guide", "#a855f7"},
	{Persona6, "Flora Fanatic", "#ec4899"},
	{Persona7, "Soil Scientist", "#64748b"},
	{Persona8, "Nature Ninja", "#6366f1"},
	{Persona9, "Bloom Buddy", "#14b8a6"},
	{Persona10, "Leaf Legend", "#ef4444"},
}

var personaIndex = func() map[Persona]PersonaInfo {
	m := make(map[Persona]PersonaInfo, len(Personas))
	for _, p := range Personas {
		m[p.Key] = p
	}
	return m
}()

func ParsePersona(s string) (Persona, error) {
	if _, ok := personaIndex[Persona(s)]; ok {
		return Persona(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPersona, s)
}

func DefaultPersona() Persona {
	return Persona(constants.DefaultPersona)
}

func (p Persona) Valid() bool {
	_, ok := personaIndex[p]
	return ok
}

// Info returns the lookup entry, falling back to the default persona.
func (p Persona) Info() PersonaInfo {
	if info, ok := personaIndex[p]; ok {
		return info
	}
	return personaIndex[DefaultPersona()]
}

func (p Persona) Label() string {
	return p.Info().Label
}
