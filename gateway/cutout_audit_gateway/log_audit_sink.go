package cutout_audit_gateway

import (
	"context"
	"log/slog"

	"skyview/domain"
	"skyview/utils/logger"
)

// LogAuditSink writes audit records as structured log lines. It is used when
// no audit database is configured.
type LogAuditSink struct {
	logger *slog.Logger
}

func NewLogAuditSink(l *slog.Logger) *LogAuditSink {
	return &LogAuditSink{logger: l}
}

func (s *LogAuditSink) WriteCutoutAudit(ctx context.Context, record domain.CutoutAuditRecord) error {
	l := s.logger
	if l == nil {
		l = logger.Logger
	}
	l.InfoContext(ctx, "cutout audit",
		"id", record.ID,
		"provider", record.Provider,
		"survey", record.Survey,
		"attempt_count", record.AttemptCount,
		"cache_hit", record.CacheHit,
		"byte_size", record.ByteSize,
		"recorded_at", record.RecordedAt)
	return nil
}
