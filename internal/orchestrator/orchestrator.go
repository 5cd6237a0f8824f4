// Package orchestrator exposes the order operations: it enriches requested
// lines with live inventory data, registers a saga per order, launches it in
// the background and answers cancel and status queries.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/order-sagas/internal/coordinator"
	"github.com/jcmexdev/order-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/order-sagas/internal/inventory"
	"github.com/jcmexdev/order-sagas/internal/pkg/cache"
	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors"
	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors/constants"
)

// StatusProcessing is the acknowledgement returned by ProcessOrder.
const StatusProcessing = "PROCESSING"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidOrder     = errors.New("invalid order")
)

// SagaStore is where sagas live for the lifetime of the process.
type SagaStore interface {
	Put(saga *coordinator.Saga) error
	Get(orderID string) (*coordinator.Saga, bool)
	ListByUser(userID string) []string
	Len() int
}

// Metrics is the subset of the metrics registry the orchestrator feeds.
type Metrics interface {
	coordinator.Metrics
	InFlightMetrics
	SetStored(n int)
	IdempotentReplay()
}

type ItemRequest struct {
	ProductID string
	Quantity  int64
}

// Ack is the immediate answer to ProcessOrder.
type Ack struct {
	OrderID string
	Status  string
}

// OrderView is what status queries return. TotalAmount is recomputed from the
// items on every query.
type OrderView struct {
	OrderID          string
	UserID           string
	Status           coordinator.Status
	Items            []coordinator.OrderItem
	TotalAmount      decimal.Decimal
	CompletedSteps   []coordinator.StepName
	CompensatedSteps []coordinator.StepName
	FailureReason    string
	Inconsistent     bool
	CreatedAt        time.Time
}

// Orchestrator accepts orders and runs one saga per order in the background.
type Orchestrator struct {
	inventory inventory.Client
	store     SagaStore
	launcher  *Launcher
	logger    *slog.Logger
	metrics   Metrics
	recorder  sagalog.Repository
	cache     cache.Cache
	idemTTL   time.Duration
	newID     func() string
	now       func() time.Time
}

// Option configures an Orchestrator built by New.
type Option func(*Orchestrator)

// WithLogger sets the logger shared by the orchestrator and its sagas.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics reports saga, launcher and idempotency events to m.
func WithMetrics(m Metrics) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithLauncher replaces the default launcher (64 concurrent sagas).
func WithLauncher(l *Launcher) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.launcher = l
		}
	}
}

// WithRecorder writes every saga transition to an audit log.
func WithRecorder(repo sagalog.Repository) Option {
	return func(o *Orchestrator) { o.recorder = repo }
}

// WithIdempotency makes ProcessOrder replay the first acknowledgement for a
// repeated x-idempotency-key of the same user, for ttl.
func WithIdempotency(c cache.Cache, ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.cache = c
		o.idemTTL = ttl
	}
}

// WithIDGenerator replaces uuid.NewString for new order ids.
func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// WithClock sets the time source handed to every saga.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New builds an orchestrator over inv and st. Without WithLauncher it runs
// up to 64 sagas at once.
func New(inv inventory.Client, st SagaStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		inventory: inv,
		store:     st,
		logger:    slog.Default(),
		metrics:   nopMetrics{},
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.launcher == nil {
		o.launcher = NewLauncher(64, o.logger, o.metrics)
	}
	return o
}

// ProcessOrder enriches the lines, registers a saga and starts it without
// waiting. Only validation and enrichment failures reach the caller; the
// saga's outcome has to be polled with GetOrderStatus.
func (o *Orchestrator) ProcessOrder(ctx context.Context, userID string, reqs []ItemRequest) (Ack, error) {
	if err := validate(userID, reqs); err != nil {
		return Ack{}, err
	}

	idemKey := o.idempotencyKey(ctx, userID)
	if orderID, ok := o.replay(ctx, idemKey); ok {
		return Ack{OrderID: orderID, Status: StatusProcessing}, nil
	}

	items, err := o.enrich(ctx, reqs)
	if err != nil {
		o.logger.WarnContext(ctx, "order enrichment failed", "user_id", userID, "error", err)
		return Ack{}, err
	}

	orderID := o.newID()
	if existing, ok := o.claim(ctx, idemKey, orderID); !ok {
		return Ack{OrderID: existing, Status: StatusProcessing}, nil
	}

	saga, err := coordinator.NewSaga(orderID, userID, items, o.inventory,
		coordinator.WithLogger(o.logger),
		coordinator.WithMetrics(o.metrics),
		coordinator.WithRecorder(o.recorder),
		coordinator.WithClock(o.now),
	)
	if err != nil {
		return Ack{}, fmt.Errorf("create saga: %w", err)
	}
	if err := o.store.Put(saga); err != nil {
		return Ack{}, fmt.Errorf("register saga: %w", err)
	}
	o.metrics.SetStored(o.store.Len())

	o.logger.InfoContext(ctx, "order accepted, launching saga", "order_id", orderID, "user_id", userID, "items", len(items))
	o.launcher.Submit(ctx, "saga:"+orderID, func(ctx context.Context) {
		status := saga.Run(ctx)
		o.logger.InfoContext(ctx, "saga run finished", "order_id", orderID, "status", status)
	})

	return Ack{OrderID: orderID, Status: StatusProcessing}, nil
}

// CancelOrder compensates the order on behalf of its owner and waits for the
// compensation to finish. Cancelling an order that is already compensating
// or finished succeeds without doing anything.
func (o *Orchestrator) CancelOrder(ctx context.Context, orderID, userID string) (coordinator.Status, error) {
	saga, ok := o.store.Get(orderID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if saga.UserID() != userID {
		o.logger.WarnContext(ctx, "cancel rejected: not the owner", "order_id", orderID, "user_id", userID)
		return "", fmt.Errorf("%w: order %s does not belong to user %s", ErrPermissionDenied, orderID, userID)
	}

	// A client hanging up must not abort compensation halfway.
	status := saga.Cancel(context.WithoutCancel(ctx))
	o.logger.InfoContext(ctx, "cancel processed", "order_id", orderID, "status", status)
	return status, nil
}

// GetOrderStatus returns a snapshot of the order or ErrOrderNotFound.
func (o *Orchestrator) GetOrderStatus(ctx context.Context, orderID string) (OrderView, error) {
	saga, ok := o.store.Get(orderID)
	if !ok {
		return OrderView{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return viewOf(saga.Snapshot()), nil
}

// ListUserOrders returns the user's orders, newest first. Unknown users get
// an empty list.
func (o *Orchestrator) ListUserOrders(ctx context.Context, userID string) []OrderView {
	ids := o.store.ListByUser(userID)
	views := make([]OrderView, 0, len(ids))
	for _, id := range ids {
		if saga, ok := o.store.Get(id); ok {
			views = append(views, viewOf(saga.Snapshot()))
		}
	}
	slices.SortStableFunc(views, func(a, b OrderView) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return views
}

// Shutdown waits for running sagas to finish, up to ctx's deadline.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	return o.launcher.Wait(ctx)
}

func validate(userID string, reqs []ItemRequest) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidOrder)
	}
	if len(reqs) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidOrder)
	}
	for _, r := range reqs {
		if strings.TrimSpace(r.ProductID) == "" {
			return fmt.Errorf("%w: product id is required", ErrInvalidOrder)
		}
		if r.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for %s must be positive", ErrInvalidOrder, r.ProductID)
		}
	}
	return nil
}

// enrich fetches every item in parallel and stops at the first failure.
func (o *Orchestrator) enrich(ctx context.Context, reqs []ItemRequest) ([]coordinator.OrderItem, error) {
	items := make([]coordinator.OrderItem, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range reqs {
		g.Go(func() error {
			live, err := o.inventory.GetItem(gctx, r.ProductID)
			if errors.Is(err, inventory.ErrItemNotFound) {
				return &coordinator.ProductNotFoundError{ProductID: r.ProductID, Err: err}
			}
			if err != nil {
				return fmt.Errorf("enrich item %s: %w", r.ProductID, err)
			}
			items[i] = coordinator.NewOrderItem(r.Quantity, live)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (o *Orchestrator) idempotencyKey(ctx context.Context, userID string) string {
	if o.cache == nil {
		return ""
	}
	key := interceptors.GetMetadataValue(ctx, constants.HeaderXIdempotencyKey)
	if key == "" {
		return ""
	}
	return o.cache.GenerateKey("process-order", userID+":"+key)
}

// replay returns the order already accepted under key. The cached id wins
// even when the saga is not stored yet, because its request may still be
// between claim and Put. Cache failures disable idempotency for the request
// instead of failing it.
func (o *Orchestrator) replay(ctx context.Context, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	orderID, err := o.cache.Get(ctx, key)
	if err != nil {
		o.logger.WarnContext(ctx, "idempotency lookup failed", "error", err)
		return "", false
	}
	if orderID == "" {
		return "", false
	}
	o.metrics.IdempotentReplay()
	o.logger.InfoContext(ctx, "replaying idempotent order", "order_id", orderID)
	return orderID, true
}

// claim binds key to orderID. It reports false with the winner's order id
// when another request holds the key.
func (o *Orchestrator) claim(ctx context.Context, key, orderID string) (string, bool) {
	if key == "" {
		return "", true
	}
	ok, err := o.cache.SetIfAbsent(ctx, key, orderID, o.idemTTL)
	if err != nil {
		o.logger.WarnContext(ctx, "idempotency claim failed", "error", err)
		return "", true
	}
	if ok {
		return "", true
	}
	if existing, replayed := o.replay(ctx, key); replayed {
		return existing, false
	}
	// The winner's key expired before it could be read back.
	if _, err := o.cache.SetIfAbsent(ctx, key, orderID, o.idemTTL); err != nil {
		o.logger.WarnContext(ctx, "idempotency reclaim failed", "error", err)
	}
	return "", true
}

func viewOf(s coordinator.Snapshot) OrderView {
	return OrderView{
		OrderID:          s.OrderID,
		UserID:           s.UserID,
		Status:           s.Status,
		Items:            s.Items,
		TotalAmount:      s.Total(),
		CompletedSteps:   s.CompletedSteps,
		CompensatedSteps: s.CompensatedSteps,
		FailureReason:    s.FailureReason,
		Inconsistent:     s.Inconsistent(),
		CreatedAt:        s.CreatedAt,
	}
}

type nopMetrics struct{}

func (nopMetrics) SagaStarted()                               {}
func (nopMetrics) SagaFinished(string)                        {}
func (nopMetrics) StepObserved(string, string, time.Duration) {}
func (nopMetrics) CompensationFailed(string)                  {}
func (nopMetrics) IncInFlight()                               {}
func (nopMetrics) DecInFlight()                               {}
func (nopMetrics) SetStored(int)                              {}
func (nopMetrics) IdempotentReplay()                          {}
