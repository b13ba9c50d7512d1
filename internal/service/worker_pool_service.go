package service

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"
)

// WorkerPoolPurchaseService implements the PurchaseService interface by
// running purchases on a bounded worker pool. The caller still blocks for the
// synchronous receipt; the pool caps how many settlements hit the store at
// once.
type WorkerPoolPurchaseService struct {
	baseService PurchaseService
	pool        *ants.Pool
	logger      *slog.Logger
}

type purchaseResult struct {
	receipt *Receipt
	err     error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolPurchaseService(
	baseService PurchaseService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolPurchaseService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolPurchaseService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// Execute submits a purchase to the worker pool and waits for its receipt.
func (s *WorkerPoolPurchaseService) Execute(ctx context.Context, req *PurchaseRequest) (*Receipt, error) {
	logger := s.logger
	if req.CorrelationID != "" {
		logger = s.logger.With("correlation_id", req.CorrelationID)
	}

	logger.Info("Submitting purchase to worker pool",
		"account_id", req.AccountID.String(),
		"game", string(req.Game),
		"denomination", req.Denomination,
	)

	// Buffered so the worker never blocks handing over the result
	resultChan := make(chan purchaseResult, 1)

	// Create a copy of the request to avoid data races
	requestCopy := *req

	// Submit the task to the worker pool
	err := s.pool.Submit(func() {
		receipt, err := s.baseService.Execute(ctx, &requestCopy)
		resultChan <- purchaseResult{receipt: receipt, err: err}
	})

	if err != nil {
		logger.Error("Failed to submit purchase to worker pool",
			"account_id", req.AccountID.String(),
			"error", err,
		)
		return nil, err
	}

	// Wait for the result from the worker
	result := <-resultChan
	return result.receipt, result.err
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolPurchaseService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolPurchaseService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolPurchaseService) Capacity() int {
	return s.pool.Cap()
}
