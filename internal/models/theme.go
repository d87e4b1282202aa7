package models

import (
	"errors"
	"fmt"

	"github.com/julianstephens/smartgrow/internal/constants"
)

var ErrUnknownTheme = errors.New("unknown theme")

type Theme string

const (
	ThemeGreen  Theme = "green"
	ThemeBlue   Theme = "blue"
	ThemePurple Theme = "purple"
	ThemeRose   Theme = "rose"
	ThemeOrange Theme = "orange"
	ThemeTeal   Theme = "teal"
)

type ThemeInfo struct {
	Key     Theme
	Label   string
	Primary string // 600 shade
	Accent  string // 500 shade
}

var Themes = []ThemeInfo{
	{ThemeGreen, "Botanical Green", "#16a34a", "#22c55e"},
	{ThemeBlue, "Ocean Blue", "#2563eb", "#3b82f6"},
	{ThemePurple, "Royal Purple", "#9333ea", "#a855f7"},
	{ThemeRose, "Velvet Rose", "#e11d48", "#f43f5e"},
	{ThemeOrange, "Sunset Orange", "#ea580c", "#f97316"},
	{ThemeTeal, "Midnight Teal", "#0d9488", "#14b8a6"},
}

var themeIndex = func() map[Theme]ThemeInfo {
	m := make(map[Theme]ThemeInfo, len(Themes))
	for _, t := range Themes {
		m[t.Key] = t
	}
	return m
}()

func ParseTheme(s string) (Theme, error) {
	if _, ok := themeIndex[Theme(s)]; ok {
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

func (t Theme) Valid() bool {
	_, ok := themeIndex[t]
	return ok
}

// Info resolves the theme, treating an unset theme as the default.
func (t Theme) Info() ThemeInfo {
	if info, ok := themeIndex[t]; ok {
		return info
	}
	return themeIndex[Theme(constants.DefaultTheme)]
}
