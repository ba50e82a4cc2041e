package internal

import (
	"sort"

	"github.com/lunahealth/cohort"
)

// mergedLeaves is the output of the merge step: every leaf table indexed by
// record id and, for visit-scoped rows, by visit id.
type mergedLeaves struct {
	recordsByID    map[int64]cohort.MaternalRecord
	visitsByRecord map[int64][]cohort.Visit

	measurementByRecord map[int64]cohort.Measurement
	measurementByVisit  map[int64]cohort.Measurement
	statusByRecord      map[int64]cohort.PresentStatus
	statusByVisit       map[int64]cohort.PresentStatus
	planByRecord        map[int64]cohort.CarePlan
	planByVisit         map[int64]cohort.CarePlan

	labsByRecord      map[int64][]cohort.LabResult
	labsByVisit       map[int64][]cohort.LabResult
	checklistByRecord map[int64][]cohort.ChecklistItem
	checklistByVisit  map[int64][]cohort.ChecklistItem
	risksByRecord     map[int64][]cohort.RiskEntry
	risksByVisit      map[int64][]cohort.RiskEntry
	nutrientsByRecord map[int64][]cohort.NutrientEntry
	nutrientsByVisit  map[int64][]cohort.NutrientEntry
	historyByRecord   map[int64][]cohort.PregnancyHistoryEntry
	historyByVisit    map[int64][]cohort.PregnancyHistoryEntry
	immunByRecord     map[int64][]cohort.Immunization
	immunByVisit      map[int64][]cohort.Immunization
}

func measurementKeys(m cohort.Measurement) (int64, *int64)       { return m.RecordID, m.VisitID }
func statusKeys(s cohort.PresentStatus) (int64, *int64)          { return s.RecordID, s.VisitID }
func planKeys(p cohort.CarePlan) (int64, *int64)                 { return p.RecordID, p.VisitID }
func labKeys(l cohort.LabResult) (int64, *int64)                 { return l.RecordID, l.VisitID }
func checklistKeys(c cohort.ChecklistItem) (int64, *int64)       { return c.RecordID, c.VisitID }
func riskKeys(r cohort.RiskEntry) (int64, *int64)                { return r.RecordID, r.VisitID }
func nutrientKeys(n cohort.NutrientEntry) (int64, *int64)        { return n.RecordID, n.VisitID }
func historyKeys(p cohort.PregnancyHistoryEntry) (int64, *int64) { return p.RecordID, p.VisitID }
func immunizationKeys(i cohort.Immunization) (int64, *int64)     { return i.RecordID, i.VisitID }

// mergeAll maps every fetched table and merges it under its cardinality
// shape.
func mergeAll(rows *leafRows) *mergedLeaves {
	m := &mergedLeaves{}

	m.recordsByID = mergeSingleByKey(mapRows(rows.records, mapMaternalRecord), func(r cohort.MaternalRecord) int64 { return r.ID })
	m.visitsByRecord = mergeArrayByKey(mapRows(rows.visits, mapVisit), func(v cohort.Visit) int64 { return v.RecordID })

	m.measurementByRecord, m.measurementByVisit = mergeDualSingle(mapRows(rows.measurements, mapMeasurement), measurementKeys)
	m.statusByRecord, m.statusByVisit = mergeDualSingle(mapRows(rows.presentStatuses, mapPresentStatus), statusKeys)
	m.planByRecord, m.planByVisit = mergeDualSingle(mapRows(rows.carePlans, mapCarePlan), planKeys)

	m.labsByRecord, m.labsByVisit = mergeDualArray(mapRows(rows.labResults, mapLabResult), labKeys)
	m.checklistByRecord, m.checklistByVisit = mergeDualArray(mapRows(rows.checklistItems, mapChecklistItem), checklistKeys)
	m.risksByRecord, m.risksByVisit = mergeDualArray(mapRows(rows.riskEntries, mapRiskEntry), riskKeys)
	m.nutrientsByRecord, m.nutrientsByVisit = mergeDualArray(mapRows(rows.nutrientEntries, mapNutrientEntry), nutrientKeys)
	m.historyByRecord, m.historyByVisit = mergeDualArray(mapRows(rows.pregnancyHistory, mapPregnancyHistoryEntry), historyKeys)
	m.immunByRecord, m.immunByVisit = mergeDualArray(mapRows(rows.immunizations, mapImmunization), immunizationKeys)

	return m
}

func (m *mergedLeaves) leafSetByRecord(recordID int64) cohort.LeafSet {
	set := cohort.LeafSet{
		LabResults:       orEmpty(m.labsByRecord[recordID]),
		ChecklistItems:   orEmpty(m.checklistByRecord[recordID]),
		RiskEntries:      orEmpty(m.risksByRecord[recordID]),
		NutrientEntries:  orEmpty(m.nutrientsByRecord[recordID]),
		PregnancyHistory: orEmpty(m.historyByRecord[recordID]),
		Immunizations:    orEmpty(m.immunByRecord[recordID]),
	}
	if v, ok := m.measurementByRecord[recordID]; ok {
		set.Measurement = &v
	}
	if v, ok := m.statusByRecord[recordID]; ok {
		set.PresentStatus = &v
	}
	if v, ok := m.planByRecord[recordID]; ok {
		set.CarePlan = &v
	}
	return set
}

func (m *mergedLeaves) leafSetByVisit(visitID int64) cohort.LeafSet {
	set := cohort.LeafSet{
		LabResults:       orEmpty(m.labsByVisit[visitID]),
		ChecklistItems:   orEmpty(m.checklistByVisit[visitID]),
		RiskEntries:      orEmpty(m.risksByVisit[visitID]),
		NutrientEntries:  orEmpty(m.nutrientsByVisit[visitID]),
		PregnancyHistory: orEmpty(m.historyByVisit[visitID]),
		Immunizations:    orEmpty(m.immunByVisit[visitID]),
	}
	if v, ok := m.measurementByVisit[visitID]; ok {
		set.Measurement = &v
	}
	if v, ok := m.statusByVisit[visitID]; ok {
		set.PresentStatus = &v
	}
	if v, ok := m.planByVisit[visitID]; ok {
		set.CarePlan = &v
	}
	return set
}

// assembleBundles stitches one Bundle per resolved record id, in resolver
// order. Record ids with no fetched record row (deleted between resolve and
// fetch) are skipped. Visits are ordered visit-date descending, id
// descending, matching the resolver convention.
func assembleBundles(recordIDs []int64, m *mergedLeaves) []*cohort.Bundle {
	bundles := make([]*cohort.Bundle, 0, len(recordIDs))
	for _, recordID := range recordIDs {
		record, ok := m.recordsByID[recordID]
		if !ok {
			continue
		}

		visits := m.visitsByRecord[recordID]
		sorted := make([]cohort.Visit, len(visits))
		copy(sorted, visits)
		sort.SliceStable(sorted, func(i, j int) bool {
			di, dj := sorted[i].VisitDate, sorted[j].VisitDate
			switch {
			case di == nil && dj != nil:
				return false
			case di != nil && dj == nil:
				return true
			case di != nil && dj != nil && !di.Equal(*dj):
				return di.After(*dj)
			}
			return sorted[i].ID > sorted[j].ID
		})

		visitBundles := make([]*cohort.VisitBundle, 0, len(sorted))
		for _, visit := range sorted {
			visitBundles = append(visitBundles, &cohort.VisitBundle{
				Visit:   visit,
				LeafSet: m.leafSetByVisit(visit.ID),
			})
		}

		bundles = append(bundles, &cohort.Bundle{
			Record:  record,
			LeafSet: m.leafSetByRecord(recordID),
			Visits:  visitBundles,
		})
	}
	return bundles
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
