package constants

import "time"

const (
	AppName            = "smartgrow"
	DefaultConfigDir   = "~/.config/smartgrow"
	DefaultConfigPath  = "~/.config/smartgrow/smartgrow.db"
	ConfigFileName     = "config.yaml"
	SessionFileName    = "session"
	LockfileName       = "smartgrow.lock"
	LogFileName        = "smartgrow.log"
	Version            = "v0.3.0"
	DefaultKeyringUser = "database-connection"

	// Keyring entries
	KeyringGeminiKey = "gemini-api-key"
	KeyringOpenAIKey = "openai-api-key"

	// Storage base keys, suffixed per user
	KeyScans      = "smartgrow_scans"
	KeyMonitoring = "smartgrow_monitoring"
	KeyAlerts     = "smartgrow_alerts"
	KeyUserStats  = "smartgrow_user_stats"

	// RedisKeyPrefix scopes every key written by the redis backend
	RedisKeyPrefix = "smartgrow:"

	// HTTP
	DefaultServeAddr = "127.0.0.1:8080"
	UserHeader       = "X-User-ID"
	SecretHeader     = "X-SmartGrow-Secret"
	NotifyPath       = "/internal/alerts"
	NotifyTimeout    = 5 * time.Second
	MaxImageBytes    = 10 << 20
	ShutdownTimeout  = 10 * time.Second

	// Redis
	RedisDialTimeout  = 5 * time.Second
	RedisReadTimeout  = 3 * time.Second
	RedisWriteTimeout = 3 * time.Second
)
