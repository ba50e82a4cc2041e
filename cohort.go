package cohort

import (
	"context"

	"github.com/google/uuid"
)

// Hydrator assembles nested read models from the normalized relational store.
// Implementations hold no state between calls and are safe for concurrent use.
type Hydrator interface {
	// BundlesBySubject resolves every record belonging to the subject and
	// hydrates each into a Bundle, most-recent record first. A subject with
	// no records yields an empty slice, not an error.
	BundlesBySubject(ctx context.Context, subjectID uuid.UUID) ([]*Bundle, error)

	// BundleByRecord hydrates a single known record. Returns a
	// RECORD_NOT_FOUND error when the record does not exist.
	BundleByRecord(ctx context.Context, recordID int64) (*Bundle, error)

	// ScheduleBySubject fetches the subject's visit schedule, already ordered
	// descending by date then time, and partitions it into latest + history.
	ScheduleBySubject(ctx context.Context, subjectID uuid.UUID) (*ScheduleGroup, error)

	// TrackerByRecord returns normalized visit-progress metrics for a record.
	// The upstream aggregate call is best-effort: any failure is logged and
	// an empty slice is returned.
	TrackerByRecord(ctx context.Context, recordID int64) []TrackerItem
}
