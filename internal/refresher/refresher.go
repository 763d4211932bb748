// Package refresher reprices every portfolio that holds stocks.
package refresher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"folio/internal/logger"
	"folio/internal/metrics"
	"folio/internal/models"
	"folio/internal/repository"
)

// Repricer reprices one user's portfolio.
type Repricer interface {
	Reprice(ctx context.Context, userID string) (*models.Assets, error)
}

// UserError records a failed reprice.
type UserError struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

// RunResult contains the outcome of a refresh run.
type RunResult struct {
	UsersScanned int           `json:"usersScanned"`
	Repriced     int           `json:"repriced"`
	Errors       []UserError   `json:"errors"`
	Duration     time.Duration `json:"duration"`
}

// Refresher walks all portfolios with holdings and reprices them with bounded
// concurrency.
type Refresher struct {
	store       repository.AssetStore
	repricer    Repricer
	concurrency int
	log         *zap.SugaredLogger

	mu      sync.Mutex
	running bool
}

// New creates a Refresher. A concurrency below one means one user at a time.
func New(store repository.AssetStore, repricer Repricer, concurrency int) *Refresher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Refresher{
		store:       store,
		repricer:    repricer,
		concurrency: concurrency,
		log:         logger.Named("refresher"),
	}
}

// ErrAlreadyRunning is returned when Run is called while a run is in progress.
var ErrAlreadyRunning = errors.New("refresh already running")

// Run executes a single refresh cycle. Per-user failures are collected in the
// result and never stop the run; only a failure to list portfolios or a
// cancelled context is returned as an error.
func (r *Refresher) Run(ctx context.Context) (*RunResult, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	start := time.Now()
	result := &RunResult{Errors: []UserError{}}
	var mu sync.Mutex

	err := r.store.ListWithHoldings(ctx, func(batch []models.Assets) error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.concurrency)

		for _, a := range batch {
			userID := a.UserID
			g.Go(func() error {
				_, err := r.repricer.Reprice(gctx, userID)

				mu.Lock()
				defer mu.Unlock()
				result.UsersScanned++
				if err != nil {
					r.log.Warnw("reprice failed", "user_id", userID, "error", err)
					metrics.RefreshUsersTotal.WithLabelValues("error").Inc()
					result.Errors = append(result.Errors, UserError{UserID: userID, Reason: err.Error()})
					return nil
				}
				metrics.RefreshUsersTotal.WithLabelValues("ok").Inc()
				result.Repriced++
				return nil
			})
		}
		_ = g.Wait()
		return ctx.Err()
	})

	result.Duration = time.Since(start)
	metrics.RefreshDuration.Observe(result.Duration.Seconds())
	if err != nil {
		r.log.Errorw("refresh aborted", "error", err, "users_scanned", result.UsersScanned)
		return result, err
	}

	r.log.Infow("refresh complete",
		"users_scanned", result.UsersScanned,
		"repriced", result.Repriced,
		"errors", len(result.Errors),
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}
