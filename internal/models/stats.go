package models

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/julianstephens/smartgrow/internal/constants"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageTagalog Language = "tl"
)

func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(s)) {
	case LanguageEnglish:
		return LanguageEnglish, nil
	case LanguageTagalog:
		return LanguageTagalog, nil
	}
	return "", fmt.Errorf("unknown language %q (expected en or tl)", s)
}

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageTagalog
}

func (l Language) Name() string {
	if l == LanguageTagalog {
		return "Tagalog"
	}
	return "English"
}

// UserStats holds the gamification counters and profile of one user.
type UserStats struct {
	XP            int      `json:"xp" validate:"gte=0"`
	Level         int      `json:"level" validate:"gte=1"`
	ScansCount    int      `json:"scansCount" validate:"gte=0"`
	SessionsCount int      `json:"sessionsCount" validate:"gte=0"`
	Username      string   `json:"username"`
	FullName      string   `json:"fullName,omitempty"`
	ProfileIcon   Persona  `json:"profileIcon"`
	LastAction    string   `json:"lastAction,omitempty"`
	ThemeColor    Theme    `json:"themeColor,omitempty"`
	Language      Language `json:"language,omitempty"`
}

func DefaultUserStats() UserStats {
	return UserStats{
		XP:          0,
		Level:       1,
		Username:    constants.DefaultUsername,
		ProfileIcon: DefaultPersona(),
		LastAction:  constants.DefaultLastAction,
	}
}

func (s *UserStats) Validate() error {
	return validate.Struct(s)
}

// XPTarget is the xp needed to leave the current level.
func (s UserStats) XPTarget() int {
	return s.Level * constants.XPPerLevel
}

// DisplayName prefers the full name, capitalising each word.
func (s UserStats) DisplayName() string {
	name := s.FullName
	if strings.TrimSpace(name) == "" {
		name = s.Username
	}
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
