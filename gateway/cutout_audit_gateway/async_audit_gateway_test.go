package cutout_audit_gateway

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"skyview/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	records []domain.CutoutAuditRecord
	block   chan struct{}
	err     error
}

func (s *recordingSink) WriteCutoutAudit(ctx context.Context, record domain.CutoutAuditRecord) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return s.err
}

func (s *recordingSink) Records() []domain.CutoutAuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CutoutAuditRecord(nil), s.records...)
}

func TestAsyncAuditGateway_DeliversRecords(t *testing.T) {
	sink := &recordingSink{}
	gw := NewAsyncAuditGateway(sink, 8, time.Second)

	gw.RecordCutout(context.Background(), domain.CutoutAuditRecord{
		Provider:     domain.ProviderPrimary,
		Survey:       "CDS/P/DSS2/color",
		AttemptCount: 1,
		ByteSize:     2048,
	})

	require.NoError(t, gw.Close(context.Background()))

	records := sink.Records()
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID, "an id is assigned")
	assert.False(t, records[0].RecordedAt.IsZero())
	assert.Equal(t, domain.ProviderPrimary, records[0].Provider)
	assert.Equal(t, 2048, records[0].ByteSize)
}

func TestAsyncAuditGateway_DropsWhenFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	gw := NewAsyncAuditGateway(sink, 1, time.Second)

	// The first record is picked up by the worker and blocks in the sink,
	// the second fills the queue, the rest are dropped.
	for i := 0; i < 5; i++ {
		gw.RecordCutout(context.Background(), domain.CutoutAuditRecord{AttemptCount: i})
		if i == 0 {
			time.Sleep(20 * time.Millisecond)
		}
	}

	close(sink.block)
	require.NoError(t, gw.Close(context.Background()))
	assert.Len(t, sink.Records(), 2)
}

func TestAsyncAuditGateway_SinkErrorsAreAbsorbed(t *testing.T) {
	sink := &recordingSink{err: errors.New("db down")}
	gw := NewAsyncAuditGateway(sink, 4, time.Second)

	gw.RecordCutout(context.Background(), domain.CutoutAuditRecord{})
	gw.RecordCutout(context.Background(), domain.CutoutAuditRecord{})

	require.NoError(t, gw.Close(context.Background()))
	assert.Len(t, sink.Records(), 2)
}

func TestAsyncAuditGateway_RecordAfterClose(t *testing.T) {
	sink := &recordingSink{}
	gw := NewAsyncAuditGateway(sink, 4, time.Second)
	require.NoError(t, gw.Close(context.Background()))

	assert.NotPanics(t, func() {
		gw.RecordCutout(context.Background(), domain.CutoutAuditRecord{})
	})
	assert.Empty(t, sink.Records())
	assert.NoError(t, gw.Close(context.Background()), "close is idempotent")
}

func TestAsyncAuditGateway_CloseHonorsContext(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	gw := NewAsyncAuditGateway(sink, 4, time.Second)
	gw.RecordCutout(context.Background(), domain.CutoutAuditRecord{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, gw.Close(ctx), context.DeadlineExceeded)

	close(sink.block)
}

func TestLogAuditSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogAuditSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := sink.WriteCutoutAudit(context.Background(), domain.CutoutAuditRecord{
		ID:       "abc",
		Provider: domain.ProviderSecondary,
		Survey:   "CDS/P/DSS2/color",
		CacheHit: true,
		ByteSize: 10,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"provider":"secondary"`)
	assert.Contains(t, buf.String(), `"cache_hit":true`)
}
