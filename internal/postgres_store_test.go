package internal

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunahealth/cohort"
)

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRecordStore) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewPostgresRecordStore(mock, cohort.DefaultTableNames())
}

func TestResolveRecordIDs(t *testing.T) {
	ctx := context.Background()
	mock, store := newMockStore(t)

	subjectID := uuid.MustParse("55555555-5555-5555-5555-555555555555")
	query := `SELECT id FROM "mch_records" WHERE subject_id = $1 ORDER BY created_at DESC, id DESC`

	mock.ExpectQuery("^" + regexp.QuoteMeta(query) + "$").
		WithArgs(subjectID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(9)).AddRow(int64(4)))

	ids, err := store.ResolveRecordIDs(ctx, subjectID)
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 4}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveRecordIDsNoMatch(t *testing.T) {
	ctx := context.Background()
	mock, store := newMockStore(t)

	subjectID := uuid.New()
	mock.ExpectQuery(`^SELECT id FROM "mch_records"`).
		WithArgs(subjectID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	ids, err := store.ResolveRecordIDs(ctx, subjectID)
	require.NoError(t, err)
	assert.Empty(t, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchByRecordIDs(t *testing.T) {
	ctx := context.Background()
	mock, store := newMockStore(t)

	query := `SELECT * FROM "lab_results" WHERE record_id = ANY($1) ORDER BY id`
	mock.ExpectQuery("^" + regexp.QuoteMeta(query) + "$").
		WithArgs([]int64{1, 2}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "record_id", "visit_id", "test_name", "value"}).
			AddRow(int64(10), int64(1), int64(30), "hb", 11.5).
			AddRow(int64(11), int64(2), nil, "protein", nil))

	rows, err := store.FetchByRecordIDs(ctx, "lab_results", []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(10), rows[0]["id"])
	assert.Equal(t, "hb", rows[0]["test_name"])
	assert.Equal(t, int64(30), rows[0]["visit_id"])
	assert.Nil(t, rows[1]["visit_id"])
	assert.Nil(t, rows[1]["value"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchByRecordIDsEmptySetSkipsQuery(t *testing.T) {
	ctx := context.Background()
	mock, store := newMockStore(t)

	rows, err := store.FetchByRecordIDs(ctx, "lab_results", nil)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// No query was ever issued for an empty id set.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchByRecordIDsPropagatesStorageError(t *testing.T) {
	ctx := context.Background()
	mock, store := newMockStore(t)

	cause := errors.New("relation does not exist")
	mock.ExpectQuery(`^SELECT \* FROM "lab_results"`).
		WithArgs([]int64{5}).
		WillReturnError(cause)

	_, err := store.FetchByRecordIDs(ctx, "lab_results", []int64{5})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchSchedulesPushesOrderingIntoQuery(t *testing.T) {
	ctx := context.Background()
	mock, store := newMockStore(t)

	subjectID := uuid.New()
	query := `SELECT * FROM "visit_schedules" WHERE subject_id = $1 ORDER BY schedule_date DESC, schedule_time DESC, id DESC`
	mock.ExpectQuery("^" + regexp.QuoteMeta(query) + "$").
		WithArgs(subjectID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "subject_id", "schedule_date", "schedule_time"}))

	rows, err := store.FetchSchedules(ctx, subjectID)
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSanitizeIdentifier(t *testing.T) {
	assert.Equal(t, `"lab_results"`, sanitizeIdentifier("lab_results"))
	assert.Equal(t, `"public"."lab_results"`, sanitizeIdentifier("public.lab_results"))
	assert.Equal(t, "", sanitizeIdentifier(""))
	// names that trim away entirely must not leak their quote characters
	assert.Equal(t, "", sanitizeIdentifier(`""`))
	assert.Equal(t, "", sanitizeIdentifier(`" "."  "`))
}

func TestVisitProgressClient(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	client := NewPostgresTrackerClient(mock, "anc_visit_progress")

	query := `SELECT COALESCE(jsonb_agg(t), '[]'::jsonb) FROM "anc_visit_progress"($1) AS t`
	payload := []byte(`[{"trimester": 1, "expected": 2, "completed": 1}]`)
	mock.ExpectQuery("^" + regexp.QuoteMeta(query) + "$").
		WithArgs(int64(12)).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(payload))

	entries, err := client.VisitProgress(ctx, 12)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, float64(1), entries[0]["trimester"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVisitProgressClientError(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	client := NewPostgresTrackerClient(mock, "anc_visit_progress")
	mock.ExpectQuery(`^SELECT COALESCE`).
		WithArgs(int64(3)).
		WillReturnError(errors.New("function unavailable"))

	_, err = client.VisitProgress(ctx, 3)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
