package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/storage/badger"
	"github.com/julianstephens/smartgrow/internal/storage/jsonfile"
	"github.com/julianstephens/smartgrow/internal/storage/kv"
	"github.com/julianstephens/smartgrow/internal/storage/postgres"
	"github.com/julianstephens/smartgrow/internal/storage/redis"
	"github.com/julianstephens/smartgrow/internal/storage/sqlite"
	"github.com/julianstephens/smartgrow/internal/utils"
)

// BackendFor names the backend a storage location selects.
func BackendFor(location string) string {
	switch {
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		return constants.BackendPostgres
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		return constants.BackendRedis
	case strings.HasPrefix(location, "badger:"):
		return constants.BackendBadger
	case location == constants.BackendMemory || location == ":memory:":
		return constants.BackendMemory
	case strings.HasSuffix(strings.ToLower(location), ".json"):
		return constants.BackendJSON
	default:
		return constants.BackendSQLite
	}
}

// OpenBackend builds, but does not open, the backend for a location.
// Postgres connection strings carrying a password are rejected.
func OpenBackend(location string) (kv.Backend, error) {
	return openBackend(location, false)
}

// OpenSecretBackend is OpenBackend for locations read from the keyring or
// the environment, where an embedded postgres password is allowed.
func OpenSecretBackend(location string) (kv.Backend, error) {
	return openBackend(location, true)
}

func openBackend(location string, allowCredentials bool) (kv.Backend, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("storage location is empty")
	}

	switch BackendFor(location) {
	case constants.BackendPostgres:
		if ok, err := postgres.ValidateConnString(location); !ok {
			if !allowCredentials || !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
		}
		return postgres.New(location), nil
	case constants.BackendRedis:
		return redis.NewStore(location), nil
	case constants.BackendBadger:
		path, err := utils.ExpandPath(strings.TrimPrefix(location, "badger:"))
		if err != nil {
			return nil, err
		}
		return badger.NewStore(badger.DefaultConfig(path)), nil
	case constants.BackendMemory:
		return kv.NewMemory(), nil
	case constants.BackendJSON:
		path, err := utils.ExpandPath(location)
		if err != nil {
			return nil, err
		}
		return jsonfile.NewStore(path), nil
	default:
		path, err := utils.ExpandPath(location)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
}

// Migrator is implemented by backends with a versioned schema.
type Migrator interface {
	Migrate() error
}
