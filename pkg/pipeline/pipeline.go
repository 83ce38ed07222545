package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marchcraft/drover/pkg/reasoning"
	"github.com/marchcraft/drover/pkg/work"
)

// Result is the typed outcome of one pipeline execution, handed back to
// the orchestrator so it can decide the item's next status inline.
type Result struct {
	Phase        work.TransformationType
	Outcome      reasoning.Outcome
	Summary      string
	TokensUsed   int
	ErrorMessage string
}

// Pipeline drives a single work item through one transformation phase.
type Pipeline struct {
	items     work.ItemRepository
	sessions  work.SessionRepository
	questions work.QuestionRepository
	client    reasoning.Client
	log       *logrus.Entry
	now       func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the pipeline's time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline over the given repositories and reasoning client.
func New(items work.ItemRepository, sessions work.SessionRepository, questions work.QuestionRepository, client reasoning.Client, opts ...Option) *Pipeline {
	p := &Pipeline{
		items:     items,
		sessions:  sessions,
		questions: questions,
		client:    client,
		log:       logrus.WithField("component", "pipeline"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Execute runs one phase of work on an item. Every call persists exactly
// one WorkSession, even when the reasoning service fails: a collaborator
// error becomes a Failed session and a Failed result, never a propagated
// error. The item's attempt counter and last-worked timestamp advance
// unconditionally.
func (p *Pipeline) Execute(ctx context.Context, itemID string, phase work.TransformationType) (*Result, error) {
	execCtx, err := p.BuildContext(itemID)
	if err != nil {
		return nil, err
	}

	system, user, err := renderPrompts(phase, execCtx)
	if err != nil {
		return nil, err
	}

	startedAt := p.now()
	p.log.WithFields(logrus.Fields{
		"item":  itemID,
		"phase": phase,
	}).Info("Executing transformation")

	res, execErr := p.client.ExecutePrompt(ctx, reasoning.Request{
		SystemPrompt: system,
		UserPrompt:   user,
	})

	session := &work.WorkSession{
		ID:             uuid.New().String(),
		WorkItemID:     itemID,
		Transformation: phase,
		StartedAt:      startedAt,
		EndedAt:        p.now(),
	}

	result := &Result{Phase: phase}

	if execErr != nil {
		// The collaborator threw; record the failure, do not propagate.
		session.Outcome = work.SessionFailed
		session.ErrorMessage = execErr.Error()
		result.Outcome = reasoning.OutcomeFailed
		result.ErrorMessage = execErr.Error()
		p.log.WithFields(logrus.Fields{
			"item":  itemID,
			"phase": phase,
			"error": execErr,
		}).Error("Reasoning call failed")
	} else {
		session.Outcome = sessionOutcome(res.Outcome)
		session.TokensUsed = res.TokensUsed
		session.Summary = res.Summary
		session.ModifiedFiles = res.ModifiedFiles
		session.ErrorMessage = res.ErrorMessage

		result.Outcome = res.Outcome
		result.Summary = res.Summary
		result.TokensUsed = res.TokensUsed
		result.ErrorMessage = res.ErrorMessage
	}

	if err := p.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("recording session for %s: %w", itemID, err)
	}

	if execErr == nil && (res.Outcome == reasoning.OutcomeBlocked || res.Outcome == reasoning.OutcomeNeedsMoreContext) {
		for _, text := range res.Questions {
			question := &work.BlockedQuestion{
				ID:         uuid.New().String(),
				WorkItemID: itemID,
				Question:   text,
				CreatedAt:  p.now(),
			}
			if err := p.questions.Create(question); err != nil {
				return nil, fmt.Errorf("recording question for %s: %w", itemID, err)
			}
		}
	}

	if err := p.touchItem(itemID); err != nil {
		return nil, err
	}

	return result, nil
}

// touchItem advances the attempt counter and last-worked timestamp. This
// happens on every attempt regardless of outcome.
func (p *Pipeline) touchItem(itemID string) error {
	item, err := p.items.GetByID(itemID)
	if err != nil {
		return fmt.Errorf("reloading item %s: %w", itemID, err)
	}
	item.AttemptCount++
	item.LastWorkedAt = p.now()
	item.UpdatedAt = p.now()
	if err := p.items.Update(item); err != nil {
		return fmt.Errorf("updating item %s: %w", itemID, err)
	}
	return nil
}

// sessionOutcome maps a reasoning outcome onto the session enumeration.
// Blocked and NeedsMoreContext both record as blocked.
func sessionOutcome(o reasoning.Outcome) work.SessionOutcome {
	switch o {
	case reasoning.OutcomeCompleted:
		return work.SessionCompleted
	case reasoning.OutcomeBlocked, reasoning.OutcomeNeedsMoreContext:
		return work.SessionBlocked
	default:
		return work.SessionFailed
	}
}
