package cutout_audit_port

import (
	"context"

	"skyview/domain"
)

// CutoutAuditPort receives one record per successful cutout retrieval.
type CutoutAuditPort interface {
	RecordCutout(ctx context.Context, record domain.CutoutAuditRecord)
}

// CutoutAuditSink persists audit records. Implementations may block.
type CutoutAuditSink interface {
	WriteCutoutAudit(ctx context.Context, record domain.CutoutAuditRecord) error
}
