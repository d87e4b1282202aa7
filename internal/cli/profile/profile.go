package profile

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/config"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/storage"
	"github.com/julianstephens/smartgrow/internal/tracker"
)

type ProfileCmd struct {
	Show     ProfileShowCmd     `cmd:"" default:"1" help:"Show the current profile."`
	Set      ProfileSetCmd      `cmd:"" help:"Edit the profile. Without flags an interactive form is shown."`
	Login    ProfileLoginCmd    `cmd:"" help:"Switch to a user's namespace."`
	Logout   ProfileLogoutCmd   `cmd:"" help:"Return to the anonymous namespace."`
	Language ProfileLanguageCmd `cmd:"" help:"Change the diagnosis language."`
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	stats := ctx.Store.GetStats()
	theme := stats.ThemeColor
	if !theme.Valid() {
		theme = models.ThemeGreen
	}

	fmt.Println("Profile:")
	fmt.Printf("  User:      %s\n", ctx.Store.User())
	fmt.Printf("  Username:  %s\n", stats.Username)
	if stats.FullName != "" {
		fmt.Printf("  Full name: %s\n", stats.FullName)
	}
	fmt.Printf("  Persona:   %s (%s)\n", stats.ProfileIcon.Label(), stats.ProfileIcon)
	fmt.Printf("  Theme:     %s (%s)\n", theme.Info().Label, theme)
	fmt.Printf("  Language:  %s\n", ctx.Language().Name())
	return nil
}

type ProfileSetCmd struct {
	Username *string `help:"Display username."`
	FullName *string `help:"Full name."`
	Persona  *string `help:"Persona key (Persona1..Persona10)."`
	Theme    *string `help:"Theme (green|blue|purple|rose|orange|teal)."`
}

func (c *ProfileSetCmd) Run(ctx *cli.Context) error {
	update := tracker.ProfileUpdate{
		Username: c.Username,
		FullName: c.FullName,
		Persona:  c.Persona,
		Theme:    c.Theme,
	}
	if update == (tracker.ProfileUpdate{}) {
		var err error
		update, err = editForm(ctx.Store.GetStats())
		if err != nil {
			return err
		}
	}

	if _, err := ctx.Tracker().UpdateProfile(update); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	fmt.Println("✓ Profile updated")
	return nil
}

// editForm prompts for every profile field, prefilled with the current values.
func editForm(stats models.UserStats) (tracker.ProfileUpdate, error) {
	username := stats.Username
	fullName := stats.FullName
	persona := string(stats.ProfileIcon)
	theme := string(stats.ThemeColor)
	if theme == "" {
		theme = string(models.ThemeGreen)
	}

	personaOpts := make([]huh.Option[string], 0, len(models.Personas))
	for _, p := range models.Personas {
		personaOpts = append(personaOpts, huh.NewOption(p.Label, string(p.Key)))
	}
	themeOpts := make([]huh.Option[string], 0, len(models.Themes))
	for _, t := range models.Themes {
		themeOpts = append(themeOpts, huh.NewOption(t.Label, string(t.Key)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&username).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("username cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Full name").
				Value(&fullName),
			huh.NewSelect[string]().
				Title("Persona").
				Options(personaOpts...).
				Value(&persona),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&theme),
		),
	)
	if err := form.Run(); err != nil {
		return tracker.ProfileUpdate{}, err
	}
	return tracker.ProfileUpdate{
		Username: &username,
		FullName: &fullName,
		Persona:  &persona,
		Theme:    &theme,
	}, nil
}

type ProfileLoginCmd struct {
	User string `arg:"" help:"User ID."`
}

func (c *ProfileLoginCmd) Run(ctx *cli.Context) error {
	if err := config.SetCurrentUser(ctx.ConfigDir, c.User); err != nil {
		return err
	}
	ctx.Store = ctx.Store.WithUser(storage.NewUserContext(c.User))

	if _, err := ctx.Tracker().Welcome(""); err != nil {
		return fmt.Errorf("failed to greet user: %w", err)
	}
	fmt.Printf("✓ Logged in as %s\n", ctx.Store.User())
	return nil
}

type ProfileLogoutCmd struct{}

func (c *ProfileLogoutCmd) Run(ctx *cli.Context) error {
	if err := config.ClearCurrentUser(ctx.ConfigDir); err != nil {
		return err
	}
	ctx.Store = ctx.Store.WithUser(storage.Anonymous)
	fmt.Println("✓ Logged out")
	return nil
}

type ProfileLanguageCmd struct {
	Language string `arg:"" enum:"en,tl" help:"Language code (en|tl)."`
}

func (c *ProfileLanguageCmd) Run(ctx *cli.Context) error {
	lang, err := models.ParseLanguage(c.Language)
	if err != nil {
		return err
	}
	if _, err := ctx.Tracker().SetLanguage(lang); err != nil {
		return fmt.Errorf("failed to change language: %w", err)
	}
	fmt.Printf("✓ Language set to %s\n", lang.Name())
	return nil
}
