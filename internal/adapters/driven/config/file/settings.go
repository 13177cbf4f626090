package file

import (
	"os"
	"time"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
)

// Configuration keys.
const (
	KeyVaultDir          = "vault_dir"
	KeyStubMode          = "stub_mode"
	KeyOCRDPI            = "ocr_dpi"
	KeyOCRLanguage       = "ocr_language"
	KeyAIProvider        = "ai_provider"
	KeyAIAPIKey          = "ai_api_key"
	KeyAIModel           = "ai_model"
	KeyAIBaseURL         = "ai_base_url"
	KeyAITimeoutSeconds  = "ai_timeout_seconds"
	KeyAIMaxAttempts     = "ai_max_attempts"
	KeyAIInitialBackoff  = "ai_initial_backoff_seconds"
	KeyAIRequestsPerMin  = "ai_requests_per_minute"
	KeyHistoryDays       = "history_days"
	KeyHistoryMaxBytes   = "history_max_bytes"
)

// Environment overrides, checked when the config file leaves a value
// unset. The API key in particular usually lives in the environment
// rather than on disk.
const (
	EnvAPIKey   = "HANSEI_API_KEY"
	EnvVaultDir = "HANSEI_VAULT_DIR"
)

// LoadSettings builds the settings object from the config store,
// environment overrides, and compiled-in defaults, in that order of
// precedence.
func LoadSettings(store *ConfigStore) domain.Settings {
	settings := domain.Settings{
		VaultDir:          store.GetString(KeyVaultDir),
		StubMode:          store.GetBool(KeyStubMode),
		DPI:               store.GetInt(KeyOCRDPI),
		LanguageHint:      store.GetString(KeyOCRLanguage),
		Provider:          domain.AIProvider(store.GetString(KeyAIProvider)),
		APIKey:            store.GetString(KeyAIAPIKey),
		Model:             store.GetString(KeyAIModel),
		BaseURL:           store.GetString(KeyAIBaseURL),
		AITimeout:         time.Duration(store.GetInt(KeyAITimeoutSeconds)) * time.Second,
		MaxAttempts:       store.GetInt(KeyAIMaxAttempts),
		InitialBackoff:    time.Duration(store.GetInt(KeyAIInitialBackoff)) * time.Second,
		RequestsPerMinute: store.GetInt(KeyAIRequestsPerMin),
		HistoryDays:       store.GetInt(KeyHistoryDays),
		HistoryMaxBytes:   store.GetInt(KeyHistoryMaxBytes),
	}

	if settings.APIKey == "" {
		settings.APIKey = os.Getenv(EnvAPIKey)
	}
	if settings.VaultDir == "" {
		settings.VaultDir = os.Getenv(EnvVaultDir)
	}

	applyDefaults(&settings)
	return settings
}

func applyDefaults(s *domain.Settings) {
	if s.DPI <= 0 {
		s.DPI = domain.DefaultDPI
	}
	if s.LanguageHint == "" {
		s.LanguageHint = domain.DefaultLanguageHint
	}
	if !s.Provider.IsValid() {
		s.Provider = domain.AIProviderGemini
	}
	if s.AITimeout <= 0 {
		s.AITimeout = domain.DefaultAITimeout
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = domain.DefaultMaxAttempts
	}
	if s.InitialBackoff <= 0 {
		s.InitialBackoff = domain.DefaultInitialBackoff
	}
	if s.HistoryDays <= 0 {
		s.HistoryDays = domain.DefaultHistoryDays
	}
	if s.HistoryMaxBytes <= 0 {
		s.HistoryMaxBytes = domain.DefaultHistoryMaxBytes
	}
}
