// Package workflow runs the marketplace's state-changing operations. Each operation is one
// all-or-nothing unit of work against the relational stores: a balance change, the ledger entry
// that explains it, the status transition it pays for and the outbox event describing it
// commit together or not at all.
package workflow

import (
	"log/slog"
	"time"

	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// Options are the business rules product can toggle through configuration
type Options struct {
	AllowReverification bool
}

// Engine executes workflows through a TxRunner
type Engine struct {
	runner TxRunner
	ledger *coinLedger
	events *eventRecorder
	opts   Options
	now    func() time.Time
	logger *slog.Logger
}

func NewEngine(runner TxRunner, opts Options, now func() time.Time, logger *slog.Logger) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		runner: runner,
		ledger: newCoinLedger(logger),
		events: newEventRecorder(logger),
		opts:   opts,
		now:    now,
		logger: logger,
	}
}

// clock returns the current time truncated to what PostgreSQL stores
func (e *Engine) clock() time.Time {
	return e.now().UTC().Truncate(time.Microsecond)
}

func (e *Engine) loggerFor(caller shared.Caller, op string) *slog.Logger {
	logger := e.logger.With("workflow", op, "user_id", caller.UserID)
	if caller.CorrelationID != "" {
		logger = logger.With("correlation_id", caller.CorrelationID)
	}
	return logger
}
