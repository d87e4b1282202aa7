// Package clitest builds command contexts for the cli package tests.
package clitest

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/config"
	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/provider"
	"github.com/julianstephens/smartgrow/internal/storage"
	"github.com/julianstephens/smartgrow/internal/storage/kv"
)

var FixedNow = time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC)

// FakeProvider returns Records in order, repeating the last one.
type FakeProvider struct {
	Records []models.DiagnosisRecord
	Err     error
	Langs   []models.Language
}

func (f *FakeProvider) Name() string { return "fake" }

func (f *FakeProvider) Diagnose(_ context.Context, _ provider.Image, lang models.Language) (models.DiagnosisRecord, error) {
	f.Langs = append(f.Langs, lang)
	if f.Err != nil {
		return models.DiagnosisRecord{}, provider.Failure("fake", f.Err)
	}
	if len(f.Records) == 0 {
		return models.DiagnosisRecord{}, provider.Failure("fake", provider.ErrNoProviders)
	}
	rec := f.Records[0]
	if len(f.Records) > 1 {
		f.Records = f.Records[1:]
	}
	return rec, nil
}

// Diagnosis is a provider response for plant at severity.
func Diagnosis(plant string, severity models.Severity) models.DiagnosisRecord {
	return models.DiagnosisRecord{
		PlantName:         plant,
		Diagnosis:         "Leaf spot",
		Confidence:        0.87,
		Severity:          severity,
		OrganicTreatment:  "Neem oil spray",
		ChemicalTreatment: "Copper fungicide",
		Prevention:        "Water at the base",
		PowerTips:         []string{"Remove affected leaves"},
	}
}

// NewContext returns a context over an in-memory backend for user "tester".
// Deletes are confirmed unless Confirm is replaced.
func NewContext(t *testing.T) *cli.Context {
	t.Helper()
	cfg := config.Default()
	cfg.Storage = constants.BackendMemory
	cfg.Timezone = "UTC"

	backend := kv.NewMemory()
	if err := backend.Init(); err != nil {
		t.Fatalf("failed to init backend: %v", err)
	}
	return &cli.Context{
		Config:    &cfg,
		ConfigDir: t.TempDir(),
		Backend:   backend,
		Store:     storage.NewStore(backend, storage.NewUserContext("tester")),
		Now:       func() time.Time { return FixedNow },
		Confirm:   func(string) (bool, error) { return true, nil },
	}
}

// WriteImage writes a tiny PNG and returns its path.
func WriteImage(t *testing.T) string {
	t.Helper()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	path := filepath.Join(t.TempDir(), "leaf.png")
	if err := os.WriteFile(path, png, 0o600); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

// CaptureStdout runs fn and returns what it printed.
func CaptureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig
	return string(<-done), runErr
}
