package internal

import (
	"context"

	"github.com/lunahealth/cohort"
	"golang.org/x/sync/errgroup"
)

// leafRows holds one result slot per table read. Each concurrent read writes
// only its own slot, so the struct needs no locking.
type leafRows struct {
	records          []RawRow
	visits           []RawRow
	measurements     []RawRow
	labResults       []RawRow
	checklistItems   []RawRow
	riskEntries      []RawRow
	nutrientEntries  []RawRow
	pregnancyHistory []RawRow
	immunizations    []RawRow
	presentStatuses  []RawRow
	carePlans        []RawRow
}

// fetchAll issues one read per table for the resolved id set, concurrently,
// and waits for all of them before returning. Any failed read cancels the
// rest and aborts the whole call; partial results are never returned. An
// empty id set skips every read so no backend ever sees an empty IN-clause.
func (h *hydrator) fetchAll(ctx context.Context, recordIDs []int64) (*leafRows, error) {
	out := &leafRows{}
	if len(recordIDs) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := h.store.FetchRecordsByIDs(gctx, recordIDs)
		if err != nil {
			return cohort.NewFetchError(h.tables.Records, err)
		}
		EmitRowCount(gctx, h.tables.Records, int64(len(rows)))
		out.records = rows
		return nil
	})

	leafReads := []struct {
		table string
		dst   *[]RawRow
	}{
		{h.tables.Visits, &out.visits},
		{h.tables.Measurements, &out.measurements},
		{h.tables.LabResults, &out.labResults},
		{h.tables.ChecklistItems, &out.checklistItems},
		{h.tables.RiskEntries, &out.riskEntries},
		{h.tables.NutrientEntries, &out.nutrientEntries},
		{h.tables.PregnancyHistory, &out.pregnancyHistory},
		{h.tables.Immunizations, &out.immunizations},
		{h.tables.PresentStatuses, &out.presentStatuses},
		{h.tables.CarePlans, &out.carePlans},
	}
	for _, read := range leafReads {
		g.Go(func() error {
			rows, err := h.store.FetchByRecordIDs(gctx, read.table, recordIDs)
			if err != nil {
				return cohort.NewFetchError(read.table, err)
			}
			EmitRowCount(gctx, read.table, int64(len(rows)))
			*read.dst = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
