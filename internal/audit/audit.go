// Package audit appends scoring records to an external append-only
// destination with lazy, serialized header initialization.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/health-risk-service/internal/domain"
	"github.com/couchcryptid/health-risk-service/internal/observability"
)

// Destination is the external row-oriented store. Appends are atomic from
// this package's point of view; emptiness is only consulted before the
// first-ever write.
type Destination interface {
	IsEmpty(ctx context.Context) (bool, error)
	AppendRow(ctx context.Context, values []any) error
}

// Log appends SubmissionRecords to a Destination. The destination infers its
// schema from the first row, so Log writes a header row before the first
// data row on an empty destination.
//
// The emptiness check followed by the header write is a check-then-act
// sequence that is not atomic at the destination; Log serializes it behind a
// mutex so concurrent sessions against an empty destination produce exactly
// one header. This is the only lock in the service held across an I/O
// boundary.
type Log struct {
	dest    Destination
	timeout time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger

	mu          sync.Mutex
	headerReady bool
}

// NewLog creates an audit log over a destination. timeout bounds each append
// (header initialization included) so a hung destination cannot stall the
// scoring session; zero disables the bound.
func NewLog(dest Destination, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Log {
	return &Log{dest: dest, timeout: timeout, metrics: metrics, logger: logger}
}

// Append writes one record, initializing the destination's header first if
// needed. Failures wrap ErrPersistenceFailure and never affect the record's
// already-computed score; the caller reports them as a warning.
func (l *Log) Append(ctx context.Context, rec domain.SubmissionRecord) error {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	err := l.append(ctx, rec)
	l.metrics.AuditAppendDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		l.metrics.AuditAppends.WithLabelValues("error").Inc()
		return fmt.Errorf("%v: %w", err, domain.ErrPersistenceFailure)
	}
	l.metrics.AuditAppends.WithLabelValues("success").Inc()
	return nil
}

func (l *Log) append(ctx context.Context, rec domain.SubmissionRecord) error {
	if err := l.ensureHeader(ctx, rec.Header()); err != nil {
		return fmt.Errorf("initialize header: %w", err)
	}
	if err := l.dest.AppendRow(ctx, rec.Values()); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// ensureHeader writes the header row once per destination lifetime. On error
// headerReady stays false so the next append retries initialization.
func (l *Log) ensureHeader(ctx context.Context, header []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.headerReady {
		return nil
	}

	empty, err := l.dest.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("check destination emptiness: %w", err)
	}
	if empty {
		row := make([]any, len(header))
		for i, name := range header {
			row[i] = name
		}
		if err := l.dest.AppendRow(ctx, row); err != nil {
			return fmt.Errorf("write header row: %w", err)
		}
		l.metrics.HeaderInitializations.Inc()
		l.logger.Info("audit header initialized", "fields", len(header))
	}
	l.headerReady = true
	return nil
}
