package domain

import (
	"context"
	"time"
)

// AssessmentEngine is the decision core consumed by the presentation layers
type AssessmentEngine interface {
	MissingRequired(answers AnswerSet) []QuestionID
	Evaluate(ctx context.Context, answers AnswerSet) (*AssessmentOutcome, error)
}

// CompletionHook observes successfully evaluated assessments. Implementations must not block the
// caller or report failures back into the outcome.
type CompletionHook interface {
	AssessmentCompleted(ctx context.Context, outcome *AssessmentOutcome)
}

// CompletionHookFunc adapts a function to CompletionHook
type CompletionHookFunc func(ctx context.Context, outcome *AssessmentOutcome)

// AssessmentCompleted calls f(ctx, outcome)
func (f CompletionHookFunc) AssessmentCompleted(ctx context.Context, outcome *AssessmentOutcome) {
	f(ctx, outcome)
}

// CounterStore persists the aggregate number of completed assessments. Increments must be atomic
// at the storage layer.
type CounterStore interface {
	Increment(ctx context.Context, tier Tier) error
	Totals(ctx context.Context) (*CounterTotals, error)
	Close() error
}

// Session is one in-progress questionnaire. Answers live in memory only.
type Session struct {
	ID        string    `json:"id"`
	Answers   AnswerSet `json:"answers"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionStore holds in-progress sessions
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	Len() int
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetDatabaseConfig() *DatabaseConfig
	GetServerConfig() *ServerConfig
	Reload() error
	Validate() error
	GetDatabaseURL() string
	IsProduction() bool
	IsDevelopment() bool
}
