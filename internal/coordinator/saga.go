// Package coordinator drives a single order through its saga: it sequences
// the inventory calls, tracks which steps completed and undoes them in
// reverse order when a later step fails or the order is cancelled.
package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/order-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/order-sagas/internal/inventory"
)

const tracerName = "github.com/jcmexdev/order-sagas/internal/coordinator"

// Metrics receives saga lifecycle events.
type Metrics interface {
	SagaStarted()
	SagaFinished(status string)
	StepObserved(step, outcome string, d time.Duration)
	CompensationFailed(step string)
}

type nopMetrics struct{}

func (nopMetrics) SagaStarted()                               {}
func (nopMetrics) SagaFinished(string)                        {}
func (nopMetrics) StepObserved(string, string, time.Duration) {}
func (nopMetrics) CompensationFailed(string)                  {}

// Saga is the state machine of one order.
//
// Run and Cancel both hold exec for their whole duration, so forward steps
// and compensation never interleave. Readers take mu only, which is never
// held across an inventory call.
type Saga struct {
	orderID   string
	userID    string
	createdAt time.Time

	inventory inventory.Client
	steps     []step
	logger    *slog.Logger
	recorder  sagalog.Repository
	metrics   Metrics
	tracer    trace.Tracer
	now       func() time.Time

	exec            sync.Mutex
	cancelRequested atomic.Bool

	mu                 sync.RWMutex
	status             Status
	items              []OrderItem
	completedSteps     []StepName
	compensatedSteps   []StepName
	failureReason      string
	compensationErrors []string
	updatedAt          time.Time
}

// Option configures a Saga built by NewSaga.
type Option func(*Saga)

// WithLogger sets the logger; the saga adds its order_id to every record.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Saga) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder appends every transition to an audit log.
func WithRecorder(repo sagalog.Repository) Option {
	return func(s *Saga) { s.recorder = repo }
}

// WithMetrics reports lifecycle and step events to m.
func WithMetrics(m Metrics) Option {
	return func(s *Saga) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer replaces the global otel tracer used for saga spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Saga) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock sets the time source for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Saga) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSaga builds a PENDING saga over already enriched items.
func NewSaga(orderID, userID string, items []OrderItem, inv inventory.Client, opts ...Option) (*Saga, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if inv == nil {
		return nil, errors.New("coordinator: inventory client is required")
	}

	s := &Saga{
		orderID:   orderID,
		userID:    userID,
		inventory: inv,
		steps:     stepCatalog,
		logger:    slog.Default(),
		metrics:   nopMetrics{},
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
		status:    StatusPending,
		items:     slices.Clone(items),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("order_id", orderID)
	s.createdAt = s.now().UTC()
	s.updatedAt = s.createdAt
	return s, nil
}

// OrderID identifies the order the saga drives.
func (s *Saga) OrderID() string { return s.orderID }

// UserID is the owner checked by CancelOrder.
func (s *Saga) UserID() string { return s.userID }

// CreatedAt is taken from the saga clock in NewSaga, in UTC.
func (s *Saga) CreatedAt() time.Time { return s.createdAt }

// Status returns the current status.
func (s *Saga) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Items returns a copy of the order lines.
func (s *Saga) Items() []OrderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Snapshot is a consistent copy of a saga's observable state.
type Snapshot struct {
	OrderID            string
	UserID             string
	Status             Status
	Items              []OrderItem
	CompletedSteps     []StepName
	CompensatedSteps   []StepName
	FailureReason      string
	CompensationErrors []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Total is computed from the items on every call.
func (s Snapshot) Total() decimal.Decimal { return Total(s.Items) }

// Inconsistent reports whether a compensating action failed.
func (s Snapshot) Inconsistent() bool { return len(s.CompensationErrors) > 0 }

// Snapshot returns a consistent copy of the saga state.
func (s *Saga) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		OrderID:            s.orderID,
		UserID:             s.userID,
		Status:             s.status,
		Items:              slices.Clone(s.items),
		CompletedSteps:     slices.Clone(s.completedSteps),
		CompensatedSteps:   slices.Clone(s.compensatedSteps),
		FailureReason:      s.failureReason,
		CompensationErrors: slices.Clone(s.compensationErrors),
		CreatedAt:          s.createdAt,
		UpdatedAt:          s.updatedAt,
	}
}

// Run executes the steps in order and reports the status it left the saga in.
// Step failures are contained: they trigger compensation and end in FAILED.
// Run on a saga that is no longer PENDING does nothing. A pending Cancel is
// honoured between steps by returning early while still RUNNING; Cancel then
// compensates once it acquires the saga.
func (s *Saga) Run(ctx context.Context) Status {
	s.exec.Lock()
	defer s.exec.Unlock()

	if !s.transition(ctx, StatusPending, StatusRunning) {
		return s.Status()
	}
	s.metrics.SagaStarted()
	s.record(ctx, sagalog.StatusStarted, "", s.payload(), nil)

	ctx, span := s.tracer.Start(ctx, "saga.run", trace.WithAttributes(
		attribute.String("order.id", s.orderID),
		attribute.String("user.id", s.userID),
	))
	defer span.End()

	for _, st := range s.steps {
		if s.cancelRequested.Load() {
			s.logger.InfoContext(ctx, "saga interrupted by cancellation", "next_step", st.name)
			span.AddEvent("cancel requested")
			return StatusRunning
		}
		if err := s.runStep(ctx, st); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.fail(ctx, st.name, err)
			return StatusFailed
		}
	}

	s.transition(ctx, StatusRunning, StatusCompleted)
	s.metrics.SagaFinished(string(StatusCompleted))
	s.record(ctx, sagalog.StatusCompleted, "", "", nil)
	s.logger.InfoContext(ctx, "saga completed successfully")
	return StatusCompleted
}

// Cancel compensates whatever completed and ends in CANCELLED. On a saga
// that is already compensating or finished it only reports the status.
func (s *Saga) Cancel(ctx context.Context) Status {
	s.cancelRequested.Store(true)

	s.exec.Lock()
	defer s.exec.Unlock()

	current := s.Status()
	switch current {
	case StatusPending, StatusRunning, StatusCompleted:
	default:
		s.logger.InfoContext(ctx, "cancel is a no-op", "status", current)
		return current
	}

	ctx, span := s.tracer.Start(ctx, "saga.cancel", trace.WithAttributes(
		attribute.String("order.id", s.orderID),
		attribute.String("saga.from_status", string(current)),
	))
	defer span.End()

	s.logger.InfoContext(ctx, "cancelling saga", "from_status", current)
	s.transition(ctx, current, StatusCompensating)
	s.record(ctx, sagalog.StatusCompensating, "", "", nil)
	s.compensate(ctx)
	s.transition(ctx, StatusCompensating, StatusCancelled)
	// A saga cancelled before Run was never counted as started.
	if current != StatusPending {
		s.metrics.SagaFinished(string(StatusCancelled))
	}
	s.record(ctx, sagalog.StatusCancelled, "", "", s.Snapshot().CompensationErrors)
	return StatusCancelled
}

func (s *Saga) runStep(ctx context.Context, st step) error {
	ctx, span := s.tracer.Start(ctx, "saga.step", trace.WithAttributes(
		attribute.String("saga.step", string(st.name)),
	))
	defer span.End()

	s.logger.InfoContext(ctx, "executing step", "step", st.name)
	start := time.Now()
	err := st.forward(s, ctx)
	s.metrics.StepObserved(string(st.name), outcome(err, "ok", "error"), time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "step failed", "step", st.name, "error", err)
		s.record(ctx, sagalog.StatusStepFailed, st.name, "", []string{err.Error()})
		return err
	}

	s.mu.Lock()
	s.completedSteps = append(s.completedSteps, st.name)
	s.updatedAt = s.now().UTC()
	s.mu.Unlock()
	s.record(ctx, sagalog.StatusStepDone, st.name, "", nil)
	return nil
}

func (s *Saga) fail(ctx context.Context, failed StepName, cause error) {
	s.mu.Lock()
	s.failureReason = cause.Error()
	s.mu.Unlock()

	s.logger.WarnContext(ctx, "step failed, starting rollback", "step", failed, "error", cause)
	s.transition(ctx, StatusRunning, StatusCompensating)
	s.record(ctx, sagalog.StatusCompensating, failed, "", []string{cause.Error()})
	s.compensate(ctx)
	s.transition(ctx, StatusCompensating, StatusFailed)
	s.metrics.SagaFinished(string(StatusFailed))

	errs := append([]string{cause.Error()}, s.Snapshot().CompensationErrors...)
	s.record(ctx, sagalog.StatusFailed, failed, "", errs)
}

// compensate walks the completed steps in reverse. Every walked step is
// appended to compensatedSteps, whether its action succeeded, failed, or it
// had none.
func (s *Saga) compensate(ctx context.Context) {
	s.mu.RLock()
	completed := slices.Clone(s.completedSteps)
	s.mu.RUnlock()

	for i := len(completed) - 1; i >= 0; i-- {
		name := completed[i]
		if st, ok := lookupStep(name); ok && st.compensate != nil {
			s.logger.InfoContext(ctx, "compensating step", "step", name)
			start := time.Now()
			err := st.compensate(s, ctx)
			s.metrics.StepObserved(string(name), outcome(err, "compensated", "compensation_failed"), time.Since(start))
			if err != nil {
				s.flagInconsistent(ctx, name, err)
			}
		}

		s.mu.Lock()
		s.compensatedSteps = append(s.compensatedSteps, name)
		s.updatedAt = s.now().UTC()
		s.mu.Unlock()
		s.record(ctx, sagalog.StatusStepCompensated, name, "", nil)
	}
}

func (s *Saga) flagInconsistent(ctx context.Context, name StepName, err error) {
	cerr := &CompensationFailureError{Step: name, Err: err}
	s.logger.ErrorContext(ctx, "CRITICAL: failed to compensate step", "step", name, "error", cerr)
	s.metrics.CompensationFailed(string(name))

	s.mu.Lock()
	s.compensationErrors = append(s.compensationErrors, cerr.Error())
	s.mu.Unlock()
	s.record(ctx, sagalog.StatusCompensationFailed, name, "", []string{cerr.Error()})
}

// transition moves from→to if the saga is currently in from.
func (s *Saga) transition(ctx context.Context, from, to Status) bool {
	if !CanTransition(from, to) {
		s.logger.ErrorContext(ctx, "illegal saga transition", "from", from, "to", to)
		return false
	}

	s.mu.Lock()
	if s.status != from {
		s.mu.Unlock()
		return false
	}
	s.status = to
	s.updatedAt = s.now().UTC()
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "saga transition", "from", from, "to", to)
	return true
}

func (s *Saga) record(ctx context.Context, status sagalog.Status, stepName StepName, payload string, errs []string) {
	if s.recorder == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, s.orderID, status, string(stepName), payload, errs)
	if err := s.recorder.Save(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "failed to write saga log", "status", status, "error", err)
	}
}

type payloadItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (s *Saga) payload() string {
	items := s.Items()
	lines := make([]payloadItem, len(items))
	for i, it := range items {
		lines[i] = payloadItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	b, err := json.Marshal(struct {
		UserID string        `json:"user_id"`
		Items  []payloadItem `json:"items"`
	}{UserID: s.userID, Items: lines})
	if err != nil {
		return ""
	}
	return string(b)
}

func outcome(err error, ok, failed string) string {
	if err != nil {
		return failed
	}
	return ok
}
