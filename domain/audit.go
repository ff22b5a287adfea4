package domain

import "time"

// CutoutAuditRecord is emitted once per successful retrieval.
type CutoutAuditRecord struct {
	ID           string
	Provider     ProviderID
	Survey       string
	AttemptCount int
	CacheHit     bool
	ByteSize     int
	RecordedAt   time.Time
}
