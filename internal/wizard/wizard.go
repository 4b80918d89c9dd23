// Package wizard runs multi-step forms described by a Definition. Every
// transition takes a State and returns a new one; nothing is shared between
// the input and the output.
package wizard

import (
	"errors"
	"fmt"
	"maps"

	"github.com/richxcame/moto-showroom/pkg/validation"
)

// Status is the submission status of a wizard
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
	StatusFailed     Status = "failed"
)

// Outcome reports what Advance did
type Outcome string

const (
	OutcomeAdvanced      Outcome = "advanced"
	OutcomeBlocked       Outcome = "blocked"
	OutcomeReadyToSubmit Outcome = "ready_to_submit"
)

// OK reports whether the step validated
func (o Outcome) OK() bool {
	return o != OutcomeBlocked
}

var (
	ErrSubmitted        = errors.New("wizard already submitted")
	ErrSubmitInProgress = errors.New("submission in progress")
	ErrNotOnLastStep    = errors.New("submit is only allowed on the last step")
	ErrInvalid          = errors.New("wizard has invalid fields")
)

// State is the explicit state of one wizard run
type State struct {
	Step         int               `json:"step"`
	Values       map[string]any    `json:"values"`
	Errors       map[string]string `json:"errors"`
	Status       Status            `json:"status"`
	SubmissionID string            `json:"submission_id,omitempty"`
	LastError    string            `json:"last_error,omitempty"`
}

// Locked reports whether the state no longer accepts edits
func (s State) Locked() bool {
	return s.Status == StatusSubmitted || s.Status == StatusSubmitting
}

func (s State) clone() State {
	out := s
	out.Values = make(map[string]any, len(s.Values))
	for k, v := range s.Values {
		if list, ok := v.([]string); ok {
			v = append([]string{}, list...)
		}
		out.Values[k] = v
	}
	out.Errors = maps.Clone(s.Errors)
	if out.Errors == nil {
		out.Errors = map[string]string{}
	}
	return out
}

// Reset returns the initial state: step 1, empty values, idle
func Reset(def *Definition) State {
	s := State{
		Step:   1,
		Values: make(map[string]any, len(def.fields)),
		Errors: map[string]string{},
		Status: StatusIdle,
	}
	for name, ref := range def.fields {
		s.Values[name] = ref.field.zero()
	}
	return s
}

// Restore brings a decoded state back to the definition's shape: values are
// coerced to their field kinds, missing ones zeroed and unknown ones dropped.
func Restore(def *Definition, s State) State {
	next := Reset(def)
	next.Step = min(max(s.Step, 1), def.StepCount())
	next.Status = s.Status
	if next.Status == "" {
		next.Status = StatusIdle
	}
	next.SubmissionID = s.SubmissionID
	next.LastError = s.LastError

	for name, ref := range def.fields {
		if v, err := ref.field.coerce(s.Values[name]); err == nil {
			next.Values[name] = v
		}
	}
	for name, msg := range s.Errors {
		if _, ok := def.fields[name]; ok {
			next.Errors[name] = msg
		}
	}
	return next
}

// SetField stores a value without validating it
func SetField(def *Definition, s State, name string, value any) (State, error) {
	return SetFields(def, s, map[string]any{name: value})
}

// SetFields stores several values at once. Nothing is applied if any name or
// value is rejected.
func SetFields(def *Definition, s State, values map[string]any) (State, error) {
	if err := checkEditable(s); err != nil {
		return s, err
	}

	coerced := make(map[string]any, len(values))
	for name, value := range values {
		f, ok := def.Field(name)
		if !ok {
			return s, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		v, err := f.coerce(value)
		if err != nil {
			return s, err
		}
		coerced[name] = v
	}

	next := s.clone()
	for name, v := range coerced {
		next.Values[name] = v
	}
	return next, nil
}

// Advance validates only the current step. On failure the step is kept and
// only this step's errors are replaced. On the last step a valid form is
// reported as ready to submit and the step does not move.
func Advance(def *Definition, s State) (State, Outcome) {
	if s.Locked() {
		return s, OutcomeBlocked
	}

	next := s.clone()
	if !validateStep(def, &next, next.Step) {
		return next, OutcomeBlocked
	}

	if next.Step >= def.StepCount() {
		return next, OutcomeReadyToSubmit
	}
	next.Step++
	return next, OutcomeAdvanced
}

// Retreat moves back one step without validating
func Retreat(s State) State {
	if s.Locked() || s.Step <= 1 {
		return s
	}
	next := s.clone()
	next.Step--
	return next
}

// Validate checks every step and returns the collected failures
func Validate(def *Definition, s State) map[string]string {
	next := s.clone()
	for step := 1; step <= def.StepCount(); step++ {
		validateStep(def, &next, step)
	}
	return next.Errors
}

// validateStep replaces the errors of one step's fields and reports whether they all passed
func validateStep(def *Definition, s *State, step int) bool {
	ok := true
	for _, f := range def.StepFields(step) {
		delete(s.Errors, f.Name)
		if msg := checkField(f, s.Values[f.Name]); msg != "" {
			s.Errors[f.Name] = msg
			ok = false
		}
	}
	return ok
}

func checkField(f Field, raw any) string {
	value, err := f.coerce(raw)
	if err != nil {
		return f.message("type")
	}

	tag, err := validation.CheckVar(value, f.Rule)
	if err != nil {
		return f.message("rule")
	}
	if tag != "" {
		return f.message(tag)
	}

	if f.Check != nil {
		return f.Check(value)
	}
	return ""
}

// FirstErrorStep returns the earliest step holding an error, or 0 when the
// state has none
func FirstErrorStep(def *Definition, s State) int {
	first := 0
	for name := range s.Errors {
		step := def.StepOf(name)
		if step > 0 && (first == 0 || step < first) {
			first = step
		}
	}
	return first
}

func checkEditable(s State) error {
	switch s.Status {
	case StatusSubmitted:
		return ErrSubmitted
	case StatusSubmitting:
		return ErrSubmitInProgress
	}
	return nil
}
