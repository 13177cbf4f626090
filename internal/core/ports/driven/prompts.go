package driven

// Prompt template names.
const (
	// PromptDailyCoaching turns a day's reflection plus recent history
	// into coaching feedback and next-day actions.
	PromptDailyCoaching = "daily_coaching"

	// PromptWeeklyReview turns a week of daily notes into a review.
	PromptWeeklyReview = "weekly_review"

	// PromptNoteSummary turns a source note into per-topic summaries as
	// structured JSON.
	PromptNoteSummary = "note_summary"
)

// PromptStore provides prompt templates for the composer.
// Implementations may load user-customised files with embedded
// defaults as fallback.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
