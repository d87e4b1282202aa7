package constants

const (
	// Profile defaults
	DefaultUsername   = "Botanist"
	DefaultPersona    = "Persona1"
	DefaultTheme      = "green"
	DefaultLastAction = "Welcome to SmartGrow!"
	DefaultLanguage   = "en"

	// Provider defaults
	DefaultGeminiModel = "gemini-3-flash-preview"
	DefaultOpenAIModel = "gpt-4o"
	DefaultImageMIME   = "image/jpeg"

	// Backend names
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
	BackendRedis    = "redis"
	BackendJSON     = "json"
	BackendMemory   = "memory"
)
