package cohort

import (
	"time"

	"github.com/google/uuid"
)

// MaternalRecord is the top-level aggregate root. One subject (person) owns
// zero or more records, ordered most-recent-first.
type MaternalRecord struct {
	ID        int64      `json:"id"`
	SubjectID uuid.UUID  `json:"subjectId"`
	Gravida   *int64     `json:"gravida"`
	Para      *int64     `json:"para"`
	Abortus   *int64     `json:"abortus"`
	LMPDate   *time.Time `json:"lmpDate"`
	EDDDate   *time.Time `json:"eddDate"`
	RiskLevel *string    `json:"riskLevel"`
	CreatedAt int64      `json:"createdAt"` // unix millis
}

// Visit is one antenatal-care visit belonging to exactly one record.
type Visit struct {
	ID               int64      `json:"id"`
	RecordID         int64      `json:"recordId"`
	VisitNumber      *int64     `json:"visitNumber"`
	VisitDate        *time.Time `json:"visitDate"`
	GestationalWeeks *int64     `json:"gestationalWeeks"`
}

// Measurement is the per-owner examination row. At most one per record or
// per visit.
type Measurement struct {
	ID             int64    `json:"id"`
	RecordID       int64    `json:"recordId"`
	VisitID        *int64   `json:"visitId"`
	WeightKg       *float64 `json:"weightKg"`
	HeightCm       *float64 `json:"heightCm"`
	MUACCm         *float64 `json:"muacCm"`
	Systolic       *int64   `json:"systolic"`
	Diastolic      *int64   `json:"diastolic"`
	FundalHeightCm *float64 `json:"fundalHeightCm"`
	FetalHeartRate *int64   `json:"fetalHeartRate"`
}

type LabResult struct {
	ID       int64    `json:"id"`
	RecordID int64    `json:"recordId"`
	VisitID  *int64   `json:"visitId"`
	TestName *string  `json:"testName"`
	Value    *float64 `json:"value"`
	Unit     *string  `json:"unit"`
	Flag     *string  `json:"flag"`
}

type ChecklistItem struct {
	ID       int64   `json:"id"`
	RecordID int64   `json:"recordId"`
	VisitID  *int64  `json:"visitId"`
	Code     *string `json:"code"`
	Done     bool    `json:"done"`
	Note     *string `json:"note"`
}

type RiskEntry struct {
	ID       int64   `json:"id"`
	RecordID int64   `json:"recordId"`
	VisitID  *int64  `json:"visitId"`
	Code     *string `json:"code"`
	Severity *string `json:"severity"`
	Note     *string `json:"note"`
}

type NutrientEntry struct {
	ID         int64    `json:"id"`
	RecordID   int64    `json:"recordId"`
	VisitID    *int64   `json:"visitId"`
	Supplement *string  `json:"supplement"`
	DoseMg     *float64 `json:"doseMg"`
	Quantity   *int64   `json:"quantity"`
}

type PregnancyHistoryEntry struct {
	ID            int64    `json:"id"`
	RecordID      int64    `json:"recordId"`
	VisitID       *int64   `json:"visitId"`
	Year          *int64   `json:"year"`
	Outcome       *string  `json:"outcome"`
	BirthWeightKg *float64 `json:"birthWeightKg"`
	Note          *string  `json:"note"`
}

type Immunization struct {
	ID         int64      `json:"id"`
	RecordID   int64      `json:"recordId"`
	VisitID    *int64     `json:"visitId"`
	Vaccine    *string    `json:"vaccine"`
	DoseNumber *int64     `json:"doseNumber"`
	GivenAt    *time.Time `json:"givenAt"`
}

// PresentStatus is the current-condition row. At most one per owner.
type PresentStatus struct {
	ID        int64   `json:"id"`
	RecordID  int64   `json:"recordId"`
	VisitID   *int64  `json:"visitId"`
	Condition *string `json:"condition"`
	Complaint *string `json:"complaint"`
	Note      *string `json:"note"`
}

// CarePlan is the birth-preparedness plan row. At most one per owner.
type CarePlan struct {
	ID            int64   `json:"id"`
	RecordID      int64   `json:"recordId"`
	VisitID       *int64  `json:"visitId"`
	DeliveryPlace *string `json:"deliveryPlace"`
	Transport     *string `json:"transport"`
	BloodDonor    *string `json:"bloodDonor"`
	Note          *string `json:"note"`
}

// LeafSet holds the leaf collections an owner (record or visit) can carry.
// Single-valued leaves are nil when absent; list leaves are empty, never nil.
type LeafSet struct {
	Measurement      *Measurement            `json:"measurement"`
	PresentStatus    *PresentStatus          `json:"presentStatus"`
	CarePlan         *CarePlan               `json:"carePlan"`
	LabResults       []LabResult             `json:"labResults"`
	ChecklistItems   []ChecklistItem         `json:"checklistItems"`
	RiskEntries      []RiskEntry             `json:"riskEntries"`
	NutrientEntries  []NutrientEntry         `json:"nutrientEntries"`
	PregnancyHistory []PregnancyHistoryEntry `json:"pregnancyHistory"`
	Immunizations    []Immunization          `json:"immunizations"`
}

// VisitBundle is one visit enriched with its visit-scoped leaves.
type VisitBundle struct {
	Visit Visit `json:"visit"`
	LeafSet
}

// Bundle is the fully nested read model for one maternal record: the record,
// its record-scoped leaves, and its visits (visit-date descending), each with
// their own leaves.
type Bundle struct {
	Record MaternalRecord `json:"record"`
	LeafSet
	Visits []*VisitBundle `json:"visits"`
}

// ScheduleEntry is an independently stored appointment row for a subject.
type ScheduleEntry struct {
	ID           int64     `json:"id"`
	SubjectID    uuid.UUID `json:"subjectId"`
	ScheduleDate time.Time `json:"scheduleDate"`
	ScheduleTime string    `json:"scheduleTime"`
	Purpose      *string   `json:"purpose"`
	Location     *string   `json:"location"`
}

// ScheduleGroup pairs the most recent schedule entry with the remainder.
// History preserves the descending order of the fetch query.
type ScheduleGroup struct {
	Latest  *ScheduleEntry  `json:"latest"`
	History []ScheduleEntry `json:"history"`
}

// TrackerItem is a per-trimester visit-progress metric normalized from the
// external aggregate source. Fields the source cannot provide stay nil.
type TrackerItem struct {
	Trimester *int64  `json:"trimester"`
	Expected  *int64  `json:"expected"`
	Completed *int64  `json:"completed"`
	Percent   *int64  `json:"percent"`
	Note      *string `json:"note"`
}
