package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/keyring"
	"github.com/julianstephens/smartgrow/internal/storage/postgres"
)

// entryAliases maps the short names accepted on the command line to keyring entries.
var entryAliases = map[string]string{
	"gemini":   constants.KeyringGeminiKey,
	"openai":   constants.KeyringOpenAIKey,
	"database": constants.DefaultKeyringUser,
}

func resolveEntry(name string) string {
	if entry, ok := entryAliases[strings.ToLower(name)]; ok {
		return entry
	}
	return name
}

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show a stored secret, masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" default:"1" help:"Check keyring availability and stored secrets."`
}

// KeyringSetCmd stores an API key or the database connection string
type KeyringSetCmd struct {
	Name   string `arg:"" help:"Secret name (gemini|openai|database)."`
	Secret string `arg:"" optional:"" help:"Secret value. Prompted for when omitted."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	entry := resolveEntry(cmd.Name)
	secret := cmd.Secret
	if secret == "" {
		if err := huh.NewInput().
			Title(fmt.Sprintf("Value for %s", entry)).
			EchoMode(huh.EchoModePassword).
			Value(&secret).
			Run(); err != nil {
			return err
		}
	}

	if entry == constants.DefaultKeyringUser {
		if err := checkConnectionString(secret); err != nil {
			return err
		}
	}

	if err := keyring.Set(entry, secret); err != nil {
		return err
	}
	fmt.Printf("✓ %s stored successfully in OS keyring\n", entry)
	return nil
}

func checkConnectionString(connStr string) error {
	if !strings.HasPrefix(connStr, "postgres://") &&
		!strings.HasPrefix(connStr, "postgresql://") &&
		!strings.Contains(connStr, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}
	return nil
}

// KeyringGetCmd prints a stored secret with its sensitive part masked
type KeyringGetCmd struct {
	Name string `arg:"" help:"Secret name (gemini|openai|database)."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	entry := resolveEntry(cmd.Name)
	secret, err := keyring.Get(entry)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'smartgrow keyring set' to store one", entry)
		}
		return err
	}

	if entry == constants.DefaultKeyringUser {
		fmt.Println(maskPassword(secret))
	} else {
		fmt.Println(maskKey(secret))
	}
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Name string `arg:"" help:"Secret name (gemini|openai|database)."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	entry := resolveEntry(cmd.Name)
	if err := keyring.Delete(entry); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", entry)
		}
		return err
	}
	fmt.Printf("✓ %s deleted from OS keyring\n", entry)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}

	fmt.Println("✓ OS keyring is available")
	for _, entry := range keyring.Entries {
		if _, err := keyring.Get(entry); err == nil {
			fmt.Printf("✓ %s is stored\n", entry)
		} else {
			fmt.Printf("ℹ %s is not stored\n", entry)
		}
	}
	return nil
}

// maskKey keeps the first four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****"
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			// The last @ separates user info from host
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		masked := make([]string, 0, len(parts))
		for _, part := range parts {
			if strings.HasPrefix(part, "password=") {
				masked = append(masked, "password=****")
			} else {
				masked = append(masked, part)
			}
		}
		return strings.Join(masked, " ")
	}

	return connStr
}
