// Package cutout_audit_gateway delivers cutout audit records to a sink
// without blocking the retrieval path.
package cutout_audit_gateway

import (
	"context"
	"sync"
	"time"

	"skyview/domain"
	"skyview/port/cutout_audit_port"
	"skyview/utils/logger"
	"skyview/utils/metrics"

	"github.com/google/uuid"
)

const (
	DefaultQueueSize    = 256
	DefaultWriteTimeout = 5 * time.Second
)

// AsyncAuditGateway implements CutoutAuditPort as a write-behind queue in
// front of a CutoutAuditSink. Records are dropped with a warning when the
// queue is full.
type AsyncAuditGateway struct {
	sink         cutout_audit_port.CutoutAuditSink
	queue        chan domain.CutoutAuditRecord
	writeTimeout time.Duration
	now          func() time.Time

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsyncAuditGateway starts the background writer.
func NewAsyncAuditGateway(sink cutout_audit_port.CutoutAuditSink, queueSize int, writeTimeout time.Duration) *AsyncAuditGateway {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	g := &AsyncAuditGateway{
		sink:         sink,
		queue:        make(chan domain.CutoutAuditRecord, queueSize),
		writeTimeout: writeTimeout,
		now:          time.Now,
		done:         make(chan struct{}),
	}
	go g.run()
	return g
}

// RecordCutout enqueues record. It never blocks.
func (g *AsyncAuditGateway) RecordCutout(ctx context.Context, record domain.CutoutAuditRecord) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = g.now().UTC()
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.closed {
		logger.FromContext(ctx).Warn("Audit record dropped after shutdown", "id", record.ID)
		metrics.AuditDroppedTotal.Inc()
		return
	}

	select {
	case g.queue <- record:
	default:
		logger.FromContext(ctx).Warn("Audit queue full, dropping record",
			"id", record.ID,
			"provider", record.Provider,
			"survey", record.Survey)
		metrics.AuditDroppedTotal.Inc()
	}
}

func (g *AsyncAuditGateway) run() {
	defer close(g.done)
	for record := range g.queue {
		ctx, cancel := context.WithTimeout(context.Background(), g.writeTimeout)
		if err := g.sink.WriteCutoutAudit(ctx, record); err != nil {
			logger.Logger.Error("Failed to write cutout audit record", "id", record.ID, "error", err)
		}
		cancel()
	}
}

// Close stops accepting records and waits for the queue to drain or ctx to end.
func (g *AsyncAuditGateway) Close(ctx context.Context) error {
	g.mu.Lock()
	if !g.closed {
		g.closed = true
		close(g.queue)
	}
	g.mu.Unlock()

	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
