package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/storage"
	"github.com/julianstephens/smartgrow/internal/storage/kv"
	"github.com/julianstephens/smartgrow/internal/utils"
)

// keyPrefix matches every collection of every user.
const keyPrefix = "smartgrow_"

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing local storage before initialization."`
	Source string `help:"Source storage location to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Backend.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized smartgrow storage at: %s\n", ctx.Backend.GetConfigPath())

	configFile := filepath.Join(ctx.ConfigDir, constants.ConfigFileName)
	if _, err := os.Stat(configFile); errors.Is(err, os.ErrNotExist) && ctx.Config != nil {
		if err := ctx.Config.Save(ctx.ConfigDir); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Wrote default config to: %s\n", configFile)
	}

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		n, err := copyData(c.Source, ctx.Backend)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("Copied %d collection(s) successfully!\n", n)
	}
	return nil
}

// reset deletes local storage. Remote backends are never wiped.
func (c *InitCmd) reset(ctx *cli.Context) error {
	location := ctx.Config.Storage
	var path string
	switch storage.BackendFor(location) {
	case constants.BackendSQLite, constants.BackendJSON:
		path = location
	case constants.BackendBadger:
		path = strings.TrimPrefix(location, "badger:")
	case constants.BackendMemory:
		return nil
	default:
		return fmt.Errorf("--force is only supported for local storage")
	}

	path, err := utils.ExpandPath(path)
	if err != nil {
		return err
	}
	if c.Source != "" {
		if src, err := utils.ExpandPath(strings.TrimPrefix(c.Source, "badger:")); err == nil {
			absSrc, _ := filepath.Abs(src)
			absDst, _ := filepath.Abs(path)
			if absSrc == absDst {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
			}
		}
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing storage: %w", err)
	}
	if err := ctx.Backend.Close(); err != nil {
		return fmt.Errorf("failed to close existing storage: %w", err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete existing storage: %w", err)
	}
	fmt.Printf("Deleted existing storage at: %s\n", path)
	return nil
}

// copyData copies every stored collection from the source location into dst
// and returns how many keys were written.
func copyData(source string, dst kv.Backend) (int, error) {
	src, err := storage.OpenBackend(source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source storage: %w", err)
	}
	defer src.Close()

	keys, err := src.Keys(keyPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list source keys: %w", err)
	}
	for _, key := range keys {
		value, err := src.Get(key)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := dst.Put(key, value); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", key, err)
		}
		fmt.Printf("  %s\n", key)
	}
	return len(keys), nil
}
