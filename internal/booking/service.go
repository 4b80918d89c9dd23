package booking

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/moto-showroom/internal/wizard"
	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/richxcame/moto-showroom/pkg/logger"
	"github.com/richxcame/moto-showroom/pkg/tracing"
	"go.uber.org/zap"
)

// StepInfo describes one page of a wizard
type StepInfo struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// DateWindow is the range of bookable dates, inclusive
type DateWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Options is everything a client needs to render a wizard
type Options struct {
	Kind               Kind                `json:"kind"`
	Steps              []StepInfo          `json:"steps"`
	Models             []ModelOption       `json:"models"`
	Dealerships        []Location          `json:"dealerships,omitempty"`
	ServiceLocations   []Location          `json:"service_locations,omitempty"`
	TimeSlots          []string            `json:"time_slots"`
	Dates              DateWindow          `json:"dates"`
	ServiceTypes       []ServiceType       `json:"service_types,omitempty"`
	AdditionalServices []AdditionalService `json:"additional_services,omitempty"`
	LicenseTypes       []Option            `json:"license_types,omitempty"`
	RidingExperience   []Option            `json:"riding_experience,omitempty"`
}

// View is a session as returned to clients
type View struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	wizard.State
	StepCount int            `json:"step_count"`
	Current   StepInfo       `json:"current"`
	Outcome   wizard.Outcome `json:"outcome,omitempty"`
	ErrorStep int            `json:"error_step,omitempty"`
	Summary   Summary        `json:"summary"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Service runs wizard sessions. Calls against one session are serialized.
type Service struct {
	store     SessionStore
	ref       *Reference
	defs      map[Kind]*wizard.Definition
	submitter wizard.Submitter
	locks     *keyedMutex
	now       Clock
}

// NewService creates a booking service. A nil clock uses time.Now.
func NewService(store SessionStore, ref *Reference, submitter wizard.Submitter, now Clock) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store: store,
		ref:   ref,
		defs: map[Kind]*wizard.Definition{
			KindTestRide: TestRideDefinition(ref, now),
			KindService:  ServiceDefinition(ref, now),
		},
		submitter: submitter,
		locks:     newKeyedMutex(),
		now:       now,
	}
}

// Definition returns the wizard table of kind
func (s *Service) Definition(kind Kind) (*wizard.Definition, error) {
	def, ok := s.defs[kind]
	if !ok {
		return nil, common.NewNotFoundError("unknown booking wizard", ErrUnknownKind)
	}
	return def, nil
}

// Options returns the steps and reference lists of a wizard
func (s *Service) Options(kind Kind) (*Options, error) {
	def, err := s.Definition(kind)
	if err != nil {
		return nil, err
	}

	today := s.now().UTC()
	opts := &Options{
		Kind:   kind,
		Steps:  make([]StepInfo, 0, def.StepCount()),
		Models: s.ref.Models,
		Dates: DateWindow{
			From: today.Format("2006-01-02"),
			To:   today.AddDate(0, maxMonthsAhead, 0).Format("2006-01-02"),
		},
	}
	for step := 1; step <= def.StepCount(); step++ {
		opts.Steps = append(opts.Steps, stepInfo(def, step))
	}

	switch kind {
	case KindTestRide:
		opts.Dealerships = s.ref.Dealerships
		opts.TimeSlots = s.ref.TestRideSlots
		opts.LicenseTypes = s.ref.LicenseTypes
		opts.RidingExperience = s.ref.Experience
	case KindService:
		opts.ServiceLocations = s.ref.ServiceLocations
		opts.TimeSlots = s.ref.ServiceSlots
		opts.ServiceTypes = s.ref.ServiceTypes
		opts.AdditionalServices = s.ref.AdditionalServices
	}
	return opts, nil
}

// Create starts a new session at step 1
func (s *Service) Create(ctx context.Context, kind Kind) (*View, error) {
	def, err := s.Definition(kind)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		State:     wizard.Reset(def),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	recordCreated(kind)
	logger.InfoContext(ctx, "wizard session created",
		zap.String("wizard", string(kind)),
		zap.String("session_id", sess.ID),
	)
	return s.view(def, sess, ""), nil
}

// Get returns a session
func (s *Service) Get(ctx context.Context, kind Kind, id string) (*View, error) {
	def, sess, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return s.view(def, sess, ""), nil
}

// SetFields stores values without validating them
func (s *Service) SetFields(ctx context.Context, kind Kind, id string, values map[string]any) (*View, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	def, sess, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	next, err := wizard.SetFields(def, sess.State, values)
	if err != nil {
		return s.view(def, sess, ""), translate(err)
	}
	sess.State = next
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(def, sess, ""), nil
}

// Advance validates the current step and moves forward when it passes
func (s *Service) Advance(ctx context.Context, kind Kind, id string) (*View, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	def, sess, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if sess.State.Locked() {
		return s.view(def, sess, wizard.OutcomeBlocked), translate(lockedError(sess.State))
	}

	step := sess.State.Step
	var outcome wizard.Outcome
	_ = tracing.TraceBusinessLogic(ctx, tracerName, "wizard.advance", tracing.WizardAttributes(string(kind), id, step), func(context.Context) error {
		sess.State, outcome = wizard.Advance(def, sess.State)
		return nil
	})
	recordAdvance(kind, step, outcome)

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	view := s.view(def, sess, outcome)
	if !outcome.OK() {
		logger.DebugContext(ctx, "wizard step blocked",
			zap.String("wizard", string(kind)),
			zap.String("session_id", id),
			zap.Int("step", step),
			zap.Int("errors", len(sess.State.Errors)),
		)
		return view, common.NewValidationError("please correct the highlighted fields", stepErrors(def, sess.State, step))
	}
	return view, nil
}

// Retreat moves back one step
func (s *Service) Retreat(ctx context.Context, kind Kind, id string) (*View, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	def, sess, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if sess.State.Locked() {
		return s.view(def, sess, ""), translate(lockedError(sess.State))
	}

	sess.State = wizard.Retreat(sess.State)
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(def, sess, ""), nil
}

// Submit re-validates the whole form and hands it to the submitter. A
// submitter failure leaves the session failed with its values, ready for
// another attempt.
func (s *Service) Submit(ctx context.Context, kind Kind, id string) (*View, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	def, sess, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	pending, err := wizard.BeginSubmit(def, sess.State)
	if errors.Is(err, wizard.ErrInvalid) {
		sess.State = pending
		if saveErr := s.save(ctx, sess); saveErr != nil {
			return nil, saveErr
		}
		return s.view(def, sess, wizard.OutcomeBlocked), common.NewValidationError("please correct the highlighted fields", pending.Errors)
	}
	if err != nil {
		return s.view(def, sess, ""), translate(err)
	}

	sess.State = pending
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	ctx = logger.ContextWithSessionID(ctx, id)
	start := time.Now()
	result := s.submitter.Submit(ctx, wizard.NewSubmission(def, id, pending, s.now().UTC()))
	recordSubmission(kind, id, time.Since(start), result.Err)

	sess.State = wizard.CompleteSubmit(pending, result)
	if err := s.save(context.WithoutCancel(ctx), sess); err != nil {
		return nil, err
	}

	view := s.view(def, sess, "")
	if result.Err != nil {
		logger.WarnContext(ctx, "lead submission failed",
			zap.String("wizard", string(kind)),
			zap.Error(result.Err),
		)
		return view, common.NewAppError(http.StatusBadGateway, "submission failed, please try again", result.Err).WithCode("submission_failed")
	}

	logger.InfoContext(ctx, "lead accepted",
		zap.String("wizard", string(kind)),
		zap.String("submission_id", result.ID),
	)
	return view, nil
}

// Reset clears a session back to step 1. A submission in flight cannot be reset.
func (s *Service) Reset(ctx context.Context, kind Kind, id string) (*View, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	def, sess, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if sess.State.Status == wizard.StatusSubmitting {
		return s.view(def, sess, ""), translate(wizard.ErrSubmitInProgress)
	}

	sess.State = wizard.Reset(def)
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(def, sess, ""), nil
}

func (s *Service) load(ctx context.Context, kind Kind, id string) (*wizard.Definition, *Session, error) {
	def, err := s.Definition(kind)
	if err != nil {
		return nil, nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil, common.NewNotFoundError("session not found", ErrSessionNotFound)
	}

	sess, err := s.store.Get(ctx, kind, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil, common.NewNotFoundError("session not found", err)
	}
	if err != nil {
		return nil, nil, common.NewInternalError("failed to load session", err)
	}
	if sess.Kind != kind {
		return nil, nil, common.NewNotFoundError("session not found", ErrSessionNotFound)
	}

	sess.State = wizard.Restore(def, sess.State)
	return def, sess, nil
}

func (s *Service) save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		logger.ErrorContext(ctx, "failed to save wizard session",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return common.NewInternalError("failed to save session", err)
	}
	return nil
}

func (s *Service) view(def *wizard.Definition, sess *Session, outcome wizard.Outcome) *View {
	return &View{
		ID:        sess.ID,
		Kind:      sess.Kind,
		State:     sess.State,
		StepCount: def.StepCount(),
		Current:   stepInfo(def, sess.State.Step),
		Outcome:   outcome,
		ErrorStep: wizard.FirstErrorStep(def, sess.State),
		Summary:   Summarize(sess.Kind, s.ref, sess.State),
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

func stepInfo(def *wizard.Definition, step int) StepInfo {
	info := StepInfo{Number: step, Fields: []string{}}
	if step >= 1 && step <= def.StepCount() {
		info.Title = def.Steps[step-1].Title
	}
	for _, f := range def.StepFields(step) {
		info.Fields = append(info.Fields, f.Name)
	}
	return info
}

func stepErrors(def *wizard.Definition, state wizard.State, step int) map[string]string {
	out := make(map[string]string)
	for _, f := range def.StepFields(step) {
		if msg, ok := state.Errors[f.Name]; ok {
			out[f.Name] = msg
		}
	}
	return out
}

func lockedError(state wizard.State) error {
	if state.Status == wizard.StatusSubmitting {
		return wizard.ErrSubmitInProgress
	}
	return wizard.ErrSubmitted
}

// translate maps wizard errors to client errors
func translate(err error) error {
	switch {
	case errors.Is(err, wizard.ErrUnknownField), errors.Is(err, wizard.ErrInvalidValue):
		return common.NewBadRequestError(err.Error(), err)
	case errors.Is(err, wizard.ErrSubmitted):
		return common.NewConflictError("booking has already been submitted").WithCode("already_submitted")
	case errors.Is(err, wizard.ErrSubmitInProgress):
		return common.NewConflictError("submission in progress").WithCode("submit_in_progress")
	case errors.Is(err, wizard.ErrNotOnLastStep):
		return common.NewConflictError("complete every step before submitting").WithCode("not_on_last_step")
	}
	return err
}

// keyedMutex hands out one lock per key and forgets keys nobody holds
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyLock)}
}

// Lock blocks until key is free and returns the unlock function
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
