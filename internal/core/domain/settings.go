package domain

import "time"

// AIProvider identifies the coaching model backend.
type AIProvider string

// Available providers.
const (
	// AIProviderGemini is the Google Gemini API (the vault's default).
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is the OpenAI chat completions API, or any
	// compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderStub is the deterministic in-process stub for running
	// without network access or API keys.
	AIProviderStub AIProvider = "stub"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderStub:
		return true
	default:
		return false
	}
}

// Default configuration values. All of these are overridable through
// the config file; none are read from ambient state inside the core.
const (
	DefaultDPI             = 300
	DefaultLanguageHint    = "jpn"
	DefaultHistoryDays     = 7
	DefaultHistoryMaxBytes = 16 * 1024
	DefaultMaxAttempts     = 4
	DefaultInitialBackoff  = 2 * time.Second
	DefaultAITimeout       = 120 * time.Second
)

// Settings is the explicit configuration object constructed once at
// process start and passed into the orchestrator and each capability
// adapter.
type Settings struct {
	// VaultDir is the root of the note vault.
	VaultDir string

	// StubMode replaces every capability provider with deterministic
	// stubs. Selected here, never by conditionals inside the pipeline.
	StubMode bool

	// DPI is the rasterization resolution. 300 keeps handwriting
	// legible for the recogniser.
	DPI int

	// LanguageHint is the OCR language (tesseract naming, e.g. "jpn").
	LanguageHint string

	// Provider selects the AI backend.
	Provider AIProvider

	// APIKey authenticates against the provider.
	APIKey string

	// Model names the model to use; empty selects the adapter default.
	Model string

	// BaseURL overrides the provider endpoint; empty selects the
	// adapter default.
	BaseURL string

	// AITimeout bounds a single generation call. A timeout is treated
	// as provider-unavailable and retried.
	AITimeout time.Duration

	// MaxAttempts bounds retries on rate-limited or unavailable calls.
	MaxAttempts int

	// InitialBackoff is the first retry delay; it doubles per attempt.
	InitialBackoff time.Duration

	// RequestsPerMinute rate-limits outgoing AI calls. Zero disables
	// client-side limiting.
	RequestsPerMinute int

	// HistoryDays is how many prior daily notes feed the prompt.
	HistoryDays int

	// HistoryMaxBytes caps the historical context in the prompt;
	// oldest entries are dropped first.
	HistoryMaxBytes int
}

// HistoryEntry is one prior daily note used as model context.
// Read-only; ordered most recent first.
type HistoryEntry struct {
	Date    ReflectionDate
	Content string
}

// Run statuses recorded in the run journal.
const (
	RunStatusSuccess = "success"
	RunStatusPartial = "partial"
	RunStatusFailed  = "failed"
)

// Pipeline stages, recorded so a fatal error identifies where it
// happened.
const (
	StageInput    = "input"
	StageExtract  = "extract"
	StageCompose  = "compose"
	StageGenerate = "generate"
	StageMerge    = "merge"
	StagePersist  = "persist"
)

// RunRecord is one journal entry for a daily pipeline run.
type RunRecord struct {
	ID          string
	Date        string
	Stage       string
	Status      string
	Pages       int
	FailedPages int
	Error       string
	Duration    time.Duration
	StartedAt   time.Time
}

// ArticleNote is a bookmarked-article note in the vault: YAML
// frontmatter carrying the source link, plus a markdown body.
type ArticleNote struct {
	// Path is the note's location, relative to the vault root.
	Path string

	// Link is the article URL from the frontmatter.
	Link string

	// Created is the bookmark date from the frontmatter; zero when
	// absent or unparseable.
	Created time.Time

	// Frontmatter is the raw YAML block, preserved verbatim on write.
	Frontmatter string

	// Body is the note content after the frontmatter.
	Body string
}
