package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/smartgrow/internal/config"
	"github.com/julianstephens/smartgrow/internal/environment"
	apperrors "github.com/julianstephens/smartgrow/internal/errors"
	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/provider"
	"github.com/julianstephens/smartgrow/internal/storage"
	"github.com/julianstephens/smartgrow/internal/storage/kv"
	"github.com/julianstephens/smartgrow/internal/tracker"
	"github.com/julianstephens/smartgrow/internal/utils"
)

type Context struct {
	Config    *config.Config
	ConfigDir string
	Backend   kv.Backend
	Store     *storage.Store
	Provider  provider.Provider

	// Now and Confirm are swapped in tests.
	Now     func() time.Time
	Confirm func(title string) (bool, error)
}

// Tracker returns a tracker over the current Store and Provider. Each call
// builds a new one, so a pending follow-up lives on the returned value only.
func (c *Context) Tracker() *tracker.Tracker {
	opts := []tracker.Option{tracker.WithClock(c.Clock)}
	if c.Provider != nil {
		opts = append(opts, tracker.WithProvider(c.Provider))
	}
	return tracker.New(c.Store, opts...)
}

// Clock is the current time, honouring Now when set.
func (c *Context) Clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Sampler builds the environmental sampler from the configuration.
func (c *Context) Sampler(onSample environment.SampleFunc) *environment.Sampler {
	var opts []environment.Option
	if c.Config != nil {
		opts = append(opts, environment.WithInterval(c.Config.Sampler.Interval))
		if c.Config.Sampler.Seed != 0 {
			opts = append(opts, environment.WithSeed(c.Config.Sampler.Seed))
		}
	}
	if onSample != nil {
		opts = append(opts, environment.OnSample(onSample))
	}
	return environment.NewSampler(opts...)
}

// Location is the configured display timezone.
func (c *Context) Location() *time.Location {
	if c.Config == nil {
		return time.Local
	}
	return c.Config.Location()
}

// Language is the user's stored language, falling back to the configured one.
func (c *Context) Language() models.Language {
	if lang := c.Store.GetStats().Language; lang.Valid() {
		return lang
	}
	if c.Config != nil {
		if lang, err := models.ParseLanguage(c.Config.Language); err == nil {
			return lang
		}
	}
	return models.LanguageEnglish
}

// ConfirmDelete asks before a permanent delete unless skip is set.
func (c *Context) ConfirmDelete(title string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	confirm := c.Confirm
	if confirm == nil {
		confirm = promptConfirm
	}
	return confirm(title)
}

func promptConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// FormatTime prints a millisecond timestamp in the display timezone.
func (c *Context) FormatTime(ms int64) string {
	return utils.FormatMillis(ms, c.Location())
}

// Truncate shortens s to width runes for table columns.
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// Rule prints a table separator.
func Rule(width int) {
	fmt.Println(strings.Repeat("-", width))
}

// DiagnosisError replaces provider failures with the message shown to users.
// The underlying error goes to the log.
func DiagnosisError(err error) error {
	if !apperrors.IsKind(err, apperrors.KindProvider) {
		return err
	}
	logger.Warn("Diagnosis failed", "error", err)
	return errors.New(provider.UserMessage)
}
