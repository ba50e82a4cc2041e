package internal

import (
	"context"

	"github.com/google/uuid"
)

// RawRow is one relational row keyed by column name, as returned by the
// store before any typing is applied.
type RawRow map[string]any

// RecordStore is the relational collaborator the engine reads from. Every
// query filters on an identifier or identifier set; sorting for schedules is
// pushed into the query.
type RecordStore interface {
	// ResolveRecordIDs returns the ids of every record belonging to the
	// subject, created-at descending then id descending. No match yields an
	// empty slice, never an error.
	ResolveRecordIDs(ctx context.Context, subjectID uuid.UUID) ([]int64, error)

	// FetchRecordsByIDs reads the record table itself, preserving the
	// resolver ordering.
	FetchRecordsByIDs(ctx context.Context, recordIDs []int64) ([]RawRow, error)

	// FetchByRecordIDs reads one leaf table filtered by owning record id.
	FetchByRecordIDs(ctx context.Context, table string, recordIDs []int64) ([]RawRow, error)

	// FetchSchedules reads the subject's schedule rows ordered descending by
	// date then time.
	FetchSchedules(ctx context.Context, subjectID uuid.UUID) ([]RawRow, error)
}

// TrackerClient is the external computed-aggregate collaborator. Its payload
// is loosely typed and its field names are not stable across versions.
type TrackerClient interface {
	VisitProgress(ctx context.Context, recordID int64) ([]map[string]any, error)
}
