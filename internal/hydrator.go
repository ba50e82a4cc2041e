package internal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lunahealth/cohort"
	"go.uber.org/zap"
)

type hydrator struct {
	store   RecordStore
	tracker TrackerClient
	breaker *CircuitBreaker
	tables  cohort.TableNames
	fetch   cohort.FetchConfig
}

// NewHydrator wires the hydration engine. The tracker client may be nil, in
// which case TrackerByRecord always returns an empty list.
func NewHydrator(store RecordStore, tracker TrackerClient, config *cohort.Config) cohort.Hydrator {
	if config == nil {
		config = cohort.DefaultConfig()
	}
	var breaker *CircuitBreaker
	if config.Tracker.BreakerThreshold > 0 {
		breaker = NewCircuitBreaker(
			config.Tracker.BreakerThreshold,
			config.Tracker.BreakerWindow,
			config.Tracker.BreakerCooldown)
	}
	return &hydrator{
		store:   store,
		tracker: tracker,
		breaker: breaker,
		tables:  config.Database.TableNames,
		fetch:   config.Fetch,
	}
}

func (h *hydrator) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.fetch.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.fetch.Timeout)
}

// BundlesBySubject runs the full pipeline: resolve record ids, fan out the
// per-table reads, merge, assemble.
func (h *hydrator) BundlesBySubject(ctx context.Context, subjectID uuid.UUID) ([]*cohort.Bundle, error) {
	if subjectID == uuid.Nil {
		return nil, cohort.NewValidationError("subject id must not be empty")
	}

	ctx, cancel := h.withDeadline(ctx)
	defer cancel()

	resolveStart := time.Now()
	ids, err := h.store.ResolveRecordIDs(ctx, subjectID)
	if err != nil {
		return nil, cohort.NewQueryError("resolve record ids", err).WithSubject(subjectID)
	}
	EmitLatency(ctx, "resolve", time.Since(resolveStart).Milliseconds())
	if h.fetch.MaxRecordIDs > 0 && len(ids) > h.fetch.MaxRecordIDs {
		zap.S().Warnw("record fan-out capped",
			"subjectId", subjectID,
			"resolved", len(ids),
			"cap", h.fetch.MaxRecordIDs)
		ids = ids[:h.fetch.MaxRecordIDs]
	}

	start := time.Now()
	rows, err := h.fetchAll(ctx, ids)
	if err != nil {
		return nil, err
	}
	EmitLatency(ctx, "fetch", time.Since(start).Milliseconds())

	assembleStart := time.Now()
	bundles := assembleBundles(ids, mergeAll(rows))
	EmitLatency(ctx, "assemble", time.Since(assembleStart).Milliseconds())
	zap.S().Debugw("hydrated subject",
		"subjectId", subjectID,
		"records", len(bundles),
		"elapsed", time.Since(start))
	return bundles, nil
}

// BundleByRecord hydrates one known record through the same fan-out path.
func (h *hydrator) BundleByRecord(ctx context.Context, recordID int64) (*cohort.Bundle, error) {
	if recordID <= 0 {
		return nil, cohort.NewValidationError("record id must be positive")
	}

	ctx, cancel := h.withDeadline(ctx)
	defer cancel()

	ids := []int64{recordID}
	rows, err := h.fetchAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	bundles := assembleBundles(ids, mergeAll(rows))
	if len(bundles) == 0 {
		return nil, cohort.NewRecordNotFoundError(recordID)
	}
	return bundles[0], nil
}

// ScheduleBySubject fetches and partitions the subject's visit schedule.
func (h *hydrator) ScheduleBySubject(ctx context.Context, subjectID uuid.UUID) (*cohort.ScheduleGroup, error) {
	if subjectID == uuid.Nil {
		return nil, cohort.NewValidationError("subject id must not be empty")
	}

	ctx, cancel := h.withDeadline(ctx)
	defer cancel()

	rows, err := h.store.FetchSchedules(ctx, subjectID)
	if err != nil {
		return nil, cohort.NewQueryError("fetch visit schedules", err).WithSubject(subjectID)
	}
	return partitionSchedule(mapRows(rows, mapScheduleEntry)), nil
}

// TrackerByRecord is the fail-soft boundary: a failed upstream call yields
// an empty list, never an error.
func (h *hydrator) TrackerByRecord(ctx context.Context, recordID int64) []cohort.TrackerItem {
	if h.tracker == nil || recordID <= 0 {
		return []cohort.TrackerItem{}
	}
	if h.breaker.IsOpen() {
		zap.S().Warnw("visit progress skipped, breaker open", "recordId", recordID)
		return []cohort.TrackerItem{}
	}

	ctx, cancel := h.withDeadline(ctx)
	defer cancel()

	raw, err := h.tracker.VisitProgress(ctx, recordID)
	if err != nil {
		h.breaker.RecordFailure()
		zap.S().Errorw("visit progress fetch failed",
			"recordId", recordID,
			"error", err)
		return []cohort.TrackerItem{}
	}
	h.breaker.RecordSuccess()
	return normalizeTrackerItems(raw)
}
