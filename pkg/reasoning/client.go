// Package reasoning defines the contract with the external reasoning
// service and provides the Anthropic-backed client plus a scriptable mock.
package reasoning

import "context"

// Outcome is the structured verdict the reasoning service returns for one
// execution attempt.
type Outcome string

const (
	OutcomeCompleted        Outcome = "completed"
	OutcomeBlocked          Outcome = "blocked"
	OutcomeFailed           Outcome = "failed"
	OutcomeNeedsMoreContext Outcome = "needs_more_context"
)

// Request carries one fully rendered prompt to the reasoning service.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	WorkingDir   string
}

// Result is the structured response from one reasoning call.
type Result struct {
	Success       bool     `json:"success"`
	Outcome       Outcome  `json:"outcome"`
	Summary       string   `json:"summary"`
	ModifiedFiles []string `json:"modified_files,omitempty"`
	Questions     []string `json:"questions,omitempty"`
	TokensUsed    int      `json:"tokens_used,omitempty"`
	ErrorMessage  string   `json:"error_message,omitempty"`
}

// Client is the engine's only view of the reasoning service. Blocking
// calls must observe ctx so a stop request can interrupt them.
type Client interface {
	ExecutePrompt(ctx context.Context, req Request) (*Result, error)
}
