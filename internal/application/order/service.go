package order

import (
	"context"
	"errors"
	"time"

	"github.com/clothstore/backend/internal/domain/order"
	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxNumberAttempts bounds order number allocation per request
const DefaultMaxNumberAttempts = 3

// sampleSize is the number of recent orders shown by the connection report
const sampleSize = 3

// Numbering schemes reported to the Recorder
const (
	NumberingSequential = "sequential"
	NumberingFallback   = "fallback"
)

// Recorder receives order lifecycle measurements
type Recorder interface {
	OrderCreated(paymentMethod, numbering string)
	NumberCollision()
	StatusUpdated(status string)
}

type nopRecorder struct{}

func (nopRecorder) OrderCreated(string, string) {}
func (nopRecorder) NumberCollision()            {}
func (nopRecorder) StatusUpdated(string)        {}

// OrderService handles the order lifecycle: intake, status changes and reporting
type OrderService struct {
	repo           order.Repository
	allocator      *order.Allocator
	maxAttempts    int
	location       *time.Location
	now            func() time.Time
	eventPublisher shared.EventPublisher
	recorder       Recorder
	logger         *zap.Logger
}

// Option configures an OrderService
type Option func(*OrderService)

// WithAllocator sets the order number allocator
func WithAllocator(a *order.Allocator) Option {
	return func(s *OrderService) {
		if a != nil {
			s.allocator = a
		}
	}
}

// WithMaxAttempts sets how many candidates a single creation may try
func WithMaxAttempts(n int) Option {
	return func(s *OrderService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithLocation sets the timezone that defines "today" for statistics
func WithLocation(loc *time.Location) Option {
	return func(s *OrderService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(s *OrderService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *OrderService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewOrderService creates a new OrderService
func NewOrderService(repo order.Repository, opts ...Option) *OrderService {
	s := &OrderService{
		repo:        repo,
		allocator:   order.NewAllocator(order.DefaultNumberPrefix, order.DefaultNumberDigits),
		maxAttempts: DefaultMaxNumberAttempts,
		location:    time.Local,
		now:         time.Now,
		recorder:    nopRecorder{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the event publisher for order notifications
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateOrder validates a checkout submission and stores it under a fresh order number.
// Number collisions are retried with a new candidate; the last attempt uses a
// count-independent fallback. Either a complete order is stored or nothing is.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	o, err := order.NewOrder(req.customer(), req.items(), req.TotalAmount, order.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return nil, err
	}

	tried := make(map[string]struct{}, s.maxAttempts)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		number, numbering, err := s.candidate(ctx, attempt, tried)
		if err != nil {
			return nil, err
		}
		tried[number] = struct{}{}
		o.AssignNumber(number)

		err = s.repo.Insert(ctx, o)
		if err == nil {
			o.MarkPlaced()
			s.publish(ctx, o)
			s.recorder.OrderCreated(string(o.PaymentMethod), numbering)
			s.logger.Info("order created",
				zap.String("order_number", o.OrderNumber),
				zap.String("order_id", o.ID.String()),
				zap.String("numbering", numbering),
				zap.Int("attempt", attempt),
			)
			response := ToOrderResponse(o)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrDuplicateIdentifier) {
			return nil, err
		}

		s.recorder.NumberCollision()
		s.logger.Warn("order number collision",
			zap.String("order_number", number),
			zap.Int("attempt", attempt),
		)
	}

	return nil, shared.ErrIdentifierExhausted
}

// candidate picks the number to try on the given attempt and names the scheme that produced it
func (s *OrderService) candidate(ctx context.Context, attempt int, tried map[string]struct{}) (string, string, error) {
	if attempt > 1 && attempt == s.maxAttempts {
		return s.allocator.Fallback(), NumberingFallback, nil
	}
	count, err := s.repo.Count(ctx, order.Filter{})
	if err != nil {
		return "", "", err
	}
	return s.allocator.Next(count, tried), NumberingSequential, nil
}

// ListOrders returns orders newest first. An empty status or "all" returns every order.
func (s *OrderService) ListOrders(ctx context.Context, status string) ([]OrderResponse, error) {
	filter := order.Filter{}
	if status != "" && status != "all" {
		parsed, err := order.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter = order.WithStatus(parsed)
	}

	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// UpdateStatus moves an order to a new status.
// Re-applying the current status succeeds without a write; completed orders cannot go back to pending.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*OrderResponse, error) {
	status, err := order.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed, err := current.ChangeStatus(status)
	if err != nil {
		return nil, err
	}
	if !changed {
		response := ToOrderResponse(current)
		return &response, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, current)
	s.recorder.StatusUpdated(string(status))
	s.logger.Info("order status updated",
		zap.String("order_number", updated.OrderNumber),
		zap.String("status", string(status)),
	)

	response := ToOrderResponse(updated)
	return &response, nil
}

// GetStatistics computes dashboard figures from the store on every call.
// The sub-queries are not isolated from concurrent writes, so totals are best-effort.
func (s *OrderService) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	total, err := s.repo.Count(ctx, order.Filter{})
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.Count(ctx, order.WithStatus(order.StatusPending))
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.Count(ctx, order.WithStatus(order.StatusCompleted))
	if err != nil {
		return nil, err
	}
	today, err := s.repo.CountCreatedSince(ctx, s.startOfDay())
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.AggregateRevenue(ctx, order.WithStatus(order.StatusCompleted))
	if err != nil {
		return nil, err
	}

	return &StatisticsResponse{
		TotalOrders:     total,
		PendingOrders:   pending,
		CompletedOrders: completed,
		TodaysOrders:    today,
		TotalRevenue:    revenue.InexactFloat64(),
	}, nil
}

// DiagnoseConnection reports store reachability with a small sample of recent orders
func (s *OrderService) DiagnoseConnection(ctx context.Context) (*ConnectionReport, error) {
	if err := s.repo.Ping(ctx); err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, order.Filter{})
	if err != nil {
		return nil, err
	}
	sample, err := s.repo.Sample(ctx, sampleSize)
	if err != nil {
		return nil, err
	}
	return &ConnectionReport{
		Database:     "connected",
		TotalOrders:  total,
		SampleOrders: ToOrderResponses(sample),
	}, nil
}

// startOfDay returns local midnight in the configured timezone
func (s *OrderService) startOfDay() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

// publish sends pending domain events. Delivery is best-effort and never fails the request.
func (s *OrderService) publish(ctx context.Context, o *order.Order) {
	events := o.PullDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_number", o.OrderNumber),
			zap.Error(err),
		)
	}
}
