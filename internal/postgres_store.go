package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lunahealth/cohort"
)

// recordStorePool is the subset of pgxpool.Pool the store needs. pgxmock
// satisfies it in tests.
type recordStorePool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRecordStore reads the hydration schema from Postgres. It issues
// only id-set-filtered selects; all write paths live elsewhere.
type PostgresRecordStore struct {
	pool   recordStorePool
	tables cohort.TableNames
}

func NewPostgresRecordStore(pool recordStorePool, tables cohort.TableNames) *PostgresRecordStore {
	return &PostgresRecordStore{
		pool:   pool,
		tables: tables,
	}
}

// ResolveRecordIDs returns the subject's record ids, most recent first.
func (s *PostgresRecordStore) ResolveRecordIDs(ctx context.Context, subjectID uuid.UUID) ([]int64, error) {
	query := fmt.Sprintf(
		`SELECT id FROM %s WHERE subject_id = $1 ORDER BY created_at DESC, id DESC`,
		sanitizeIdentifier(s.tables.Records),
	)

	rows, err := s.pool.Query(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("resolve record ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan record id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve record ids: %w", err)
	}
	return ids, nil
}

// FetchRecordsByIDs reads the record table itself, keeping resolver order.
func (s *PostgresRecordStore) FetchRecordsByIDs(ctx context.Context, recordIDs []int64) ([]RawRow, error) {
	if len(recordIDs) == 0 {
		return []RawRow{}, nil
	}
	query := fmt.Sprintf(
		`SELECT * FROM %s WHERE id = ANY($1) ORDER BY created_at DESC, id DESC`,
		sanitizeIdentifier(s.tables.Records),
	)
	return s.queryRaw(ctx, query, recordIDs)
}

// FetchByRecordIDs reads one leaf table filtered by owning record id. The
// stable ORDER BY id makes last-seen-wins merging deterministic.
func (s *PostgresRecordStore) FetchByRecordIDs(ctx context.Context, table string, recordIDs []int64) ([]RawRow, error) {
	if len(recordIDs) == 0 {
		return []RawRow{}, nil
	}
	query := fmt.Sprintf(
		`SELECT * FROM %s WHERE record_id = ANY($1) ORDER BY id`,
		sanitizeIdentifier(table),
	)
	return s.queryRaw(ctx, query, recordIDs)
}

// FetchSchedules reads schedule rows for a subject. Ordering is pushed into
// the query; the partitioner downstream never sorts.
func (s *PostgresRecordStore) FetchSchedules(ctx context.Context, subjectID uuid.UUID) ([]RawRow, error) {
	query := fmt.Sprintf(
		`SELECT * FROM %s WHERE subject_id = $1 ORDER BY schedule_date DESC, schedule_time DESC, id DESC`,
		sanitizeIdentifier(s.tables.Schedules),
	)
	return s.queryRaw(ctx, query, subjectID)
}

func (s *PostgresRecordStore) queryRaw(ctx context.Context, query string, args ...any) ([]RawRow, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	raw, err := rowsToRaw(rows)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// rowsToRaw materializes a result set into column-keyed rows.
func rowsToRaw(rows pgx.Rows) ([]RawRow, error) {
	out := make([]RawRow, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		fields := rows.FieldDescriptions()
		row := make(RawRow, len(fields))
		for i, fd := range fields {
			if i < len(values) {
				row[fd.Name] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func sanitizeIdentifier(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.Split(name, ".")
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.Trim(part, " \"")
		if trimmed == "" {
			continue
		}
		clean = append(clean, trimmed)
	}
	if len(clean) == 0 {
		return ""
	}
	return pgx.Identifier(clean).Sanitize()
}
