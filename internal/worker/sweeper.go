package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/checkout/internal/domain/model"
)

// CheckoutFacade exposes the subset of application functionality required by the sweeper.
type CheckoutFacade interface {
	StalePendingOrders(ctx context.Context, ttl time.Duration, limit int) ([]model.Order, error)
	ExpireOrder(ctx context.Context, orderID string) (bool, error)
}

// StaleOrderSweeper fails orders whose 3-D Secure challenge was abandoned.
type StaleOrderSweeper struct {
	facade    CheckoutFacade
	ttl       time.Duration
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewStaleOrderSweeper constructs the sweeper worker pool. A zero ttl disables it.
func NewStaleOrderSweeper(facade CheckoutFacade, ttl, interval time.Duration, batchSize, workers int, logger *slog.Logger) *StaleOrderSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &StaleOrderSweeper{
		facade:    facade,
		ttl:       ttl,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan model.Order, batchSize*workers),
	}
}

// Enabled reports whether Start launches any goroutines.
func (s *StaleOrderSweeper) Enabled() bool {
	return s.ttl > 0 && s.interval > 0
}

// Start launches background sweeping.
func (s *StaleOrderSweeper) Start(ctx context.Context) {
	if !s.Enabled() {
		s.logger.Info("stale order sweeper disabled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *StaleOrderSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *StaleOrderSweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *StaleOrderSweeper) sweep(ctx context.Context) {
	orders, err := s.facade.StalePendingOrders(ctx, s.ttl, s.batchSize)
	if err != nil {
		s.logger.Error("fetch stale orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- order:
		}
	}
}

func (s *StaleOrderSweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-s.jobs:
			if !ok {
				return
			}
			s.expire(ctx, order)
		}
	}
}

func (s *StaleOrderSweeper) expire(ctx context.Context, order model.Order) {
	expired, err := s.facade.ExpireOrder(ctx, order.ID)
	if err != nil {
		s.logger.Error("expire order failed", slog.String("order", order.ID), slog.String("error", err.Error()))
		return
	}
	if expired {
		s.logger.Info("pending order expired",
			slog.String("order", order.ID), slog.Duration("age", time.Since(order.CreatedAt)))
	}
}
