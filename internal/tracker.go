package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/lunahealth/cohort"
)

// Alias priority lists for the external aggregate payload. Field names have
// drifted across backend versions; the first alias carrying a non-null value
// wins.
var (
	trimesterAliases = []string{"trimester", "tm", "stage"}
	expectedAliases  = []string{"expected", "target", "total_expected"}
	completedAliases = []string{"completed", "done", "total_completed"}
	percentAliases   = []string{"percentage", "percent", "pct"}
	noteAliases      = []string{"note", "notes", "remark"}
)

// normalizeTrackerItems adapts the loosely-typed aggregate payload into the
// fixed TrackerItem shape. Unresolvable fields stay nil; nothing here can
// fail at runtime.
func normalizeTrackerItems(raw []map[string]any) []cohort.TrackerItem {
	items := make([]cohort.TrackerItem, 0, len(raw))
	for _, entry := range raw {
		item := cohort.TrackerItem{
			Trimester: firstInt64(entry, trimesterAliases),
			Expected:  firstInt64(entry, expectedAliases),
			Completed: firstInt64(entry, completedAliases),
			Percent:   firstInt64(entry, percentAliases),
			Note:      firstString(entry, noteAliases),
		}
		if item.Percent == nil && item.Expected != nil && item.Completed != nil && *item.Expected > 0 {
			pct := int64(math.Round(float64(*item.Completed) / float64(*item.Expected) * 100))
			item.Percent = &pct
		}
		items = append(items, item)
	}
	return items
}

func firstInt64(entry map[string]any, aliases []string) *int64 {
	for _, alias := range aliases {
		value, ok := entry[alias]
		if !ok || value == nil {
			continue
		}
		if i := asInt64(value); i != nil {
			return i
		}
	}
	return nil
}

func firstString(entry map[string]any, aliases []string) *string {
	for _, alias := range aliases {
		value, ok := entry[alias]
		if !ok || value == nil {
			continue
		}
		if s := asString(value); s != nil {
			return s
		}
	}
	return nil
}

// PostgresTrackerClient calls the computed-aggregate function through the
// same pool the store uses. The function returns a row set which is folded
// into one jsonb array so the payload stays loosely typed end to end.
type PostgresTrackerClient struct {
	pool     recordStorePool
	function string
}

func NewPostgresTrackerClient(pool recordStorePool, function string) *PostgresTrackerClient {
	return &PostgresTrackerClient{
		pool:     pool,
		function: function,
	}
}

func (c *PostgresTrackerClient) VisitProgress(ctx context.Context, recordID int64) ([]map[string]any, error) {
	query := fmt.Sprintf(
		`SELECT COALESCE(jsonb_agg(t), '[]'::jsonb) FROM %s($1) AS t`,
		sanitizeIdentifier(c.function),
	)

	var payload []byte
	if err := c.pool.QueryRow(ctx, query, recordID).Scan(&payload); err != nil {
		return nil, fmt.Errorf("visit progress call: %w", err)
	}

	var entries []map[string]any
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("decode visit progress payload: %w", err)
	}
	return entries, nil
}
