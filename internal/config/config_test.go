package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/smartgrow/internal/constants"
)

var configEnvVars = []string{
	"SMARTGROW_DB_CONNECTION", "REDIS_ADDR", "SMARTGROW_STORAGE", "SMARTGROW_LOG_LEVEL",
	"SMARTGROW_LANGUAGE", "SMARTGROW_TIMEZONE", "SMARTGROW_ADDR", "GEMINI_API_KEY", "GEMINI_MODEL",
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL", "SMARTGROW_SAMPLE_INTERVAL",
	"SMARTGROW_SAMPLE_SEED", "SMARTGROW_USER",
}

// setupConfigTest isolates the environment and keyring and returns an empty
// config dir.
func setupConfigTest(t *testing.T, secrets map[string]string) string {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	old := keyringLookup
	keyringLookup = func(entry string) string { return secrets[entry] }
	t.Cleanup(func() { keyringLookup = old })

	return t.TempDir()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := setupConfigTest(t, nil)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != constants.DefaultConfigPath {
		t.Errorf("expected %q, got %q", constants.DefaultConfigPath, cfg.Storage)
	}
	if cfg.Sampler.Interval != constants.SampleInterval {
		t.Errorf("expected interval %v, got %v", constants.SampleInterval, cfg.Sampler.Interval)
	}
	if cfg.Language != "en" {
		t.Errorf("expected language %q, got %q", "en", cfg.Language)
	}
	if cfg.Provider.GeminiModel != constants.DefaultGeminiModel {
		t.Errorf("expected %q, got %q", constants.DefaultGeminiModel, cfg.Provider.GeminiModel)
	}
}

func TestLoad_File(t *testing.T) {
	dir := setupConfigTest(t, nil)
	writeFile(t, filepath.Join(dir, constants.ConfigFileName), `
storage: /data/garden.json
language: tl
timezone: Asia/Manila
serve:
  addr: 0.0.0.0:9000
sampler:
  interval: 2s
  seed: 7
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != "/data/garden.json" {
		t.Errorf("expected %q, got %q", "/data/garden.json", cfg.Storage)
	}
	if cfg.Language != "tl" || cfg.Timezone != "Asia/Manila" {
		t.Errorf("unexpected language/timezone %q/%q", cfg.Language, cfg.Timezone)
	}
	if cfg.Serve.Addr != "0.0.0.0:9000" {
		t.Errorf("expected addr 0.0.0.0:9000, got %q", cfg.Serve.Addr)
	}
	if cfg.Sampler.Interval != 2*time.Second || cfg.Sampler.Seed != 7 {
		t.Errorf("unexpected sampler %+v", cfg.Sampler)
	}
	if cfg.Provider.OpenAIModel != constants.DefaultOpenAIModel {
		t.Errorf("expected default openai model kept, got %q", cfg.Provider.OpenAIModel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := setupConfigTest(t, map[string]string{constants.KeyringGeminiKey: "from-keyring"})
	writeFile(t, filepath.Join(dir, constants.ConfigFileName), "language: tl\n")
	t.Setenv("SMARTGROW_LANGUAGE", "en")
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("SMARTGROW_SAMPLE_INTERVAL", "250ms")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Language != "en" {
		t.Errorf("expected env language to win, got %q", cfg.Language)
	}
	if cfg.Provider.GeminiAPIKey != "from-env" {
		t.Errorf("expected env key to win over keyring, got %q", cfg.Provider.GeminiAPIKey)
	}
	if cfg.Sampler.Interval != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", cfg.Sampler.Interval)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := setupConfigTest(t, nil)
	writeFile(t, filepath.Join(dir, ".env"), "OPENAI_API_KEY=sk-dotenv\n")
	// godotenv never overrides a variable that is already set, even to ""
	os.Unsetenv("OPENAI_API_KEY")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider.OpenAIAPIKey != "sk-dotenv" {
		t.Errorf("expected %q, got %q", "sk-dotenv", cfg.Provider.OpenAIAPIKey)
	}
}

func TestLoad_KeyringSecrets(t *testing.T) {
	dir := setupConfigTest(t, map[string]string{
		constants.KeyringOpenAIKey:   "sk-keyring",
		constants.DefaultKeyringUser: "postgres://grower:pw@db:5432/smartgrow",
	})

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider.OpenAIAPIKey != "sk-keyring" {
		t.Errorf("expected keyring key, got %q", cfg.Provider.OpenAIAPIKey)
	}
	if !cfg.StorageFromSecret || !strings.HasPrefix(cfg.Storage, "postgres://") {
		t.Errorf("expected keyring connection string, got %q (secret=%v)", cfg.Storage, cfg.StorageFromSecret)
	}
}

func TestLoad_RedisAddr(t *testing.T) {
	dir := setupConfigTest(t, nil)
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != "redis://cache:6379" {
		t.Errorf("expected %q, got %q", "redis://cache:6379", cfg.Storage)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		errPart string
	}{
		{"bad yaml", "storage: [", nil, "parse"},
		{"bad language", "language: fr\n", nil, "Language"},
		{"bad timezone", "timezone: Mars/Olympus\n", nil, "timezone"},
		{"zero interval", "sampler:\n  interval: 0s\n", nil, "Interval"},
		{"bad log level", "log_level: loud\n", nil, "LogLevel"},
		{"bad interval env", "", map[string]string{"SMARTGROW_SAMPLE_INTERVAL": "soon"}, "SMARTGROW_SAMPLE_INTERVAL"},
		{"bad base url", "provider:\n  openai_base_url: not a url\n", nil, "OpenAIBaseURL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupConfigTest(t, nil)
			if tt.file != "" {
				writeFile(t, filepath.Join(dir, constants.ConfigFileName), tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("expected error mentioning %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := setupConfigTest(t, nil)

	cfg := Default()
	cfg.Language = "tl"
	cfg.Provider.GeminiAPIKey = "never-written"
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, constants.ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "never-written") {
		t.Error("expected api key to stay out of config.yaml")
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Language != "tl" {
		t.Errorf("expected %q, got %q", "tl", loaded.Language)
	}
}

func TestCurrentUser(t *testing.T) {
	dir := setupConfigTest(t, nil)

	if user, err := CurrentUser(dir); err != nil || user != "" {
		t.Fatalf("expected no user, got %q (%v)", user, err)
	}
	if err := SetCurrentUser(dir, "  maria "); err != nil {
		t.Fatalf("SetCurrentUser failed: %v", err)
	}
	if user, _ := CurrentUser(dir); user != "maria" {
		t.Errorf("expected %q, got %q", "maria", user)
	}

	t.Setenv("SMARTGROW_USER", "juan")
	if user, _ := CurrentUser(dir); user != "juan" {
		t.Errorf("expected env user %q, got %q", "juan", user)
	}
	t.Setenv("SMARTGROW_USER", "")

	if err := ClearCurrentUser(dir); err != nil {
		t.Fatalf("ClearCurrentUser failed: %v", err)
	}
	if err := ClearCurrentUser(dir); err != nil {
		t.Errorf("expected clearing twice to succeed, got %v", err)
	}
	if user, _ := CurrentUser(dir); user != "" {
		t.Errorf("expected logged out, got %q", user)
	}
	if err := SetCurrentUser(dir, " "); err == nil {
		t.Error("expected error for blank user")
	}
}
