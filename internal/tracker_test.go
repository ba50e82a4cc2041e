package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunahealth/cohort"
)

func TestNormalizeTrackerItemsAliasPriority(t *testing.T) {
	raw := []map[string]any{
		{"trimester": float64(1), "expected": float64(2), "completed": float64(2), "percentage": float64(100)},
		{"tm": float64(2), "target": float64(3), "done": float64(1), "pct": float64(33), "remark": "behind"},
	}

	items := normalizeTrackerItems(raw)
	require.Len(t, items, 2)

	first := items[0]
	require.NotNil(t, first.Trimester)
	assert.Equal(t, int64(1), *first.Trimester)
	require.NotNil(t, first.Percent)
	assert.Equal(t, int64(100), *first.Percent)

	second := items[1]
	require.NotNil(t, second.Trimester)
	assert.Equal(t, int64(2), *second.Trimester)
	require.NotNil(t, second.Expected)
	assert.Equal(t, int64(3), *second.Expected)
	require.NotNil(t, second.Note)
	assert.Equal(t, "behind", *second.Note)
}

func TestNormalizeTrackerItemsDerivesPercent(t *testing.T) {
	raw := []map[string]any{
		{"trimester": float64(2), "expected": float64(4), "completed": float64(2)},
	}

	items := normalizeTrackerItems(raw)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Percent)
	assert.Equal(t, int64(50), *items[0].Percent)
}

func TestNormalizeTrackerItemsZeroExpected(t *testing.T) {
	raw := []map[string]any{
		{"trimester": float64(3), "expected": float64(0), "completed": float64(0)},
	}

	items := normalizeTrackerItems(raw)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Percent, "division by zero must not produce a percent")
}

func TestNormalizeTrackerItemsUnresolvableFields(t *testing.T) {
	raw := []map[string]any{
		{"unrelated": "x", "trimester": nil},
	}

	items := normalizeTrackerItems(raw)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Trimester)
	assert.Nil(t, items[0].Expected)
	assert.Nil(t, items[0].Completed)
	assert.Nil(t, items[0].Percent)
	assert.Nil(t, items[0].Note)
}

type failingTracker struct {
	err error
}

func (f *failingTracker) VisitProgress(ctx context.Context, recordID int64) ([]map[string]any, error) {
	return nil, f.err
}

func TestTrackerByRecordFailsSoft(t *testing.T) {
	h := &hydrator{
		tracker: &failingTracker{err: errors.New("edge function unreachable")},
		fetch:   cohort.FetchConfig{},
	}

	items := h.TrackerByRecord(context.Background(), 12)
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestTrackerByRecordNilClient(t *testing.T) {
	h := &hydrator{}
	assert.Empty(t, h.TrackerByRecord(context.Background(), 12))
}

type staticTracker struct {
	payload []map[string]any
}

func (s *staticTracker) VisitProgress(ctx context.Context, recordID int64) ([]map[string]any, error) {
	return s.payload, nil
}

func TestTrackerByRecordNormalizes(t *testing.T) {
	h := &hydrator{
		tracker: &staticTracker{payload: []map[string]any{
			{"trimester": float64(1), "expected": float64(2), "completed": float64(1)},
		}},
	}

	items := h.TrackerByRecord(context.Background(), 7)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Percent)
	assert.Equal(t, int64(50), *items[0].Percent)
}
