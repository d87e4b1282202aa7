// Package badger stores collections in an embedded BadgerDB directory.
package badger

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"

	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/storage/kv"
)

// Config holds configuration for a BadgerDB instance.
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// GCInterval is how often value log GC runs. Zero disables it.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum discardable fraction before a GC pass rewrites a file.
	GCDiscardRatio float64
}

func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts the application logger to badger.Logger.
type badgerLogger struct {
	l *log.Logger
}

func (b *badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error(fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn(fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug(fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debug(fmt.Sprintf(format, args...))
}

type Store struct {
	cfg Config
	db  *badger.DB

	stopGC chan struct{}
	gcDone sync.WaitGroup
}

func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) Init() error {
	return s.open(true)
}

func (s *Store) Load() error {
	return s.open(false)
}

func (s *Store) open(create bool) error {
	if s.db != nil {
		return nil
	}

	var opts badger.Options
	if s.cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if s.cfg.Path == "" {
			return errors.New("path is required for persistent database")
		}
		if create {
			if err := os.MkdirAll(s.cfg.Path, 0700); err != nil {
				return fmt.Errorf("create database directory %s: %w", s.cfg.Path, err)
			}
		} else if _, err := os.Stat(s.cfg.Path); os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'smartgrow init' first")
		}
		opts = badger.DefaultOptions(s.cfg.Path)
	}

	opts = opts.
		WithSyncWrites(s.cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{l: logger.Named("badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open badger database: %w", err)
	}
	s.db = db

	if s.cfg.GCInterval > 0 && !s.cfg.InMemory {
		s.startGC()
	}
	return nil
}

func (s *Store) startGC() {
	s.stopGC = make(chan struct{})
	s.gcDone.Add(1)
	go func() {
		defer s.gcDone.Done()
		ticker := time.NewTicker(s.cfg.GCInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopGC:
				return
			case <-ticker.C:
				// Run until nothing is left to rewrite
				for s.db.RunValueLogGC(s.cfg.GCDiscardRatio) == nil {
				}
			}
		}
	}()
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if s.stopGC != nil {
		close(s.stopGC)
		s.gcDone.Wait()
		s.stopGC = nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Get(key string) ([]byte, error) {
	if s.db == nil {
		return nil, kv.ErrNotLoaded
	}

	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return out, nil
}

func (s *Store) Put(key string, value []byte) error {
	if s.db == nil {
		return kv.ErrNotLoaded
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if s.db == nil {
		return kv.ErrNotLoaded
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Keys(prefix string) ([]string, error) {
	if s.db == nil {
		return nil, kv.ErrNotLoaded
	}

	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func (s *Store) GetConfigPath() string {
	if s.cfg.InMemory {
		return "badger (in-memory)"
	}
	return s.cfg.Path
}
