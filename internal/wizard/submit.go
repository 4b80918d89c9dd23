package wizard

import (
	"context"
	"fmt"
	"time"
)

// Submission is the payload handed to a Submitter
type Submission struct {
	Wizard      string         `json:"wizard"`
	SessionID   string         `json:"session_id"`
	Values      map[string]any `json:"values"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// Result is the outcome of one submission attempt
type Result struct {
	ID  string
	Err error
}

// Submitter delivers a completed wizard somewhere
type Submitter interface {
	Submit(ctx context.Context, sub Submission) Result
}

// SubmitterFunc adapts a function to Submitter
type SubmitterFunc func(ctx context.Context, sub Submission) Result

// Submit calls f
func (f SubmitterFunc) Submit(ctx context.Context, sub Submission) Result {
	return f(ctx, sub)
}

// BeginSubmit re-validates every step and moves the state to submitting.
// The returned state carries the errors when validation fails.
func BeginSubmit(def *Definition, s State) (State, error) {
	if err := checkEditable(s); err != nil {
		return s, err
	}
	if s.Step != def.StepCount() {
		return s, ErrNotOnLastStep
	}

	next := s.clone()
	valid := true
	for step := 1; step <= def.StepCount(); step++ {
		if !validateStep(def, &next, step) {
			valid = false
		}
	}
	if !valid {
		return next, ErrInvalid
	}

	next.Status = StatusSubmitting
	next.LastError = ""
	return next, nil
}

// CompleteSubmit records the submitter's result. A failure keeps the values
// so the submission can be retried.
func CompleteSubmit(s State, result Result) State {
	if s.Status != StatusSubmitting {
		return s
	}

	next := s.clone()
	if result.Err != nil {
		next.Status = StatusFailed
		next.LastError = result.Err.Error()
		return next
	}
	next.Status = StatusSubmitted
	next.SubmissionID = result.ID
	return next
}

// NewSubmission builds the submitter payload from a state
func NewSubmission(def *Definition, sessionID string, s State, now time.Time) Submission {
	return Submission{
		Wizard:      def.Name,
		SessionID:   sessionID,
		Values:      s.clone().Values,
		SubmittedAt: now,
	}
}

// Submit runs BeginSubmit, the submitter and CompleteSubmit in one call
func Submit(ctx context.Context, def *Definition, s State, sessionID string, submitter Submitter) (State, error) {
	pending, err := BeginSubmit(def, s)
	if err != nil {
		return pending, err
	}

	result := submitter.Submit(ctx, NewSubmission(def, sessionID, pending, time.Now().UTC()))
	done := CompleteSubmit(pending, result)
	if result.Err != nil {
		return done, fmt.Errorf("submit %s: %w", def.Name, result.Err)
	}
	return done, nil
}
