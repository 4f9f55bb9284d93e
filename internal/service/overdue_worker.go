package service

import (
	"context"
	"sync"
	"time"

	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// OverdueWorker is a background worker that periodically sweeps all
// loans through the status engine so penalties and delay labels stay
// current without anyone loading the loan list.
type OverdueWorker struct {
	loanRepo       domain.LoanRepository
	borrowerRepo   domain.BorrowerRepository
	eventPublisher websocket.EventPublisher
	logger         zerolog.Logger
	interval       time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
	mu             sync.Mutex
	running        bool
}

// OverdueWorkerConfig holds configuration for the overdue worker
type OverdueWorkerConfig struct {
	Interval time.Duration // How often to run the sweep
}

// DefaultOverdueWorkerConfig returns sensible defaults
func DefaultOverdueWorkerConfig() OverdueWorkerConfig {
	return OverdueWorkerConfig{
		Interval: 1 * time.Hour,
	}
}

// NewOverdueWorker creates a new overdue worker
func NewOverdueWorker(
	loanRepo domain.LoanRepository,
	borrowerRepo domain.BorrowerRepository,
	eventPublisher websocket.EventPublisher,
	logger zerolog.Logger,
	config OverdueWorkerConfig,
) *OverdueWorker {
	if config.Interval <= 0 {
		config.Interval = 1 * time.Hour
	}

	return &OverdueWorker{
		loanRepo:       loanRepo,
		borrowerRepo:   borrowerRepo,
		eventPublisher: eventPublisher,
		logger:         logger.With().Str("component", "overdue_worker").Logger(),
		interval:       config.Interval,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start begins the background overdue sweep
func (w *OverdueWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("interval", w.interval).
		Msg("Starting overdue worker")

	go w.run(ctx)
}

// Stop gracefully stops the overdue worker
func (w *OverdueWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping overdue worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Overdue worker stopped")
}

// run is the main loop for the overdue worker
func (w *OverdueWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Run immediately on startup
	w.RunOnce(ctx, time.Now())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return
		case <-w.stopCh:
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return
		case <-ticker.C:
			w.RunOnce(ctx, time.Now())
		}
	}
}

// SweepResult summarizes a single sweep over the loan book
type SweepResult struct {
	Checked int
	Updated int
	Errors  int
}

// RunOnce sweeps every loan once as of the given time. Loans whose
// status, penalty, or balance schedule changed are persisted; a loan
// newly entering a delayed status bumps the borrower's late payment
// counter.
func (w *OverdueWorker) RunOnce(ctx context.Context, now time.Time) SweepResult {
	startTime := time.Now()
	result := SweepResult{}

	loans, err := w.loanRepo.GetAll()
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to load loans for overdue sweep")
		result.Errors++
		return result
	}

	for _, loan := range loans {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Context cancelled, stopping sweep")
			return result
		case <-w.stopCh:
			w.logger.Info().Msg("Stop signal received, stopping sweep")
			return result
		default:
		}

		result.Checked++

		refreshed := RefreshLoanStatus(loan, now)
		if !loanStatusChanged(loan, refreshed) {
			continue
		}

		wasDelayed := loan.IsDelayed()

		persisted, err := w.loanRepo.Update(refreshed)
		if err != nil {
			w.logger.Error().
				Err(err).
				Int32("loan_id", loan.ID).
				Msg("Failed to persist refreshed loan during sweep")
			result.Errors++
			continue
		}
		result.Updated++

		if !wasDelayed && persisted.IsDelayed() {
			w.recordLatePayment(persisted.BorrowerID)
		}

		if w.eventPublisher != nil {
			w.eventPublisher.Publish(websocket.LoanUpdated(persisted))
		}
	}

	elapsed := time.Since(startTime)
	w.logger.Info().
		Int("checked", result.Checked).
		Int("updated", result.Updated).
		Int("errors", result.Errors).
		Dur("elapsed", elapsed).
		Msg("Completed overdue sweep")

	return result
}

func (w *OverdueWorker) recordLatePayment(borrowerID int32) {
	borrower, err := w.borrowerRepo.GetByID(borrowerID)
	if err != nil {
		w.logger.Warn().
			Err(err).
			Int32("borrower_id", borrowerID).
			Msg("Failed to load borrower for late payment count")
		return
	}
	stats := borrower.LoanStats
	stats.LatePayments++
	if err := w.borrowerRepo.UpdateStats(borrowerID, stats); err != nil {
		w.logger.Warn().
			Err(err).
			Int32("borrower_id", borrowerID).
			Msg("Failed to update borrower late payment count")
	}
}

// IsRunning returns whether the worker is currently running
func (w *OverdueWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
