package internal

import (
	"github.com/lunahealth/cohort"
)

// Row mappers convert one raw relational row into one typed value. They are
// pure and total: unparseable numeric fields become nil ("unknown"), null
// strings stay nil, and routing keys degrade to the zero sentinel rather
// than failing. Merge-time context never leaks in here.

func mapMaternalRecord(row RawRow) cohort.MaternalRecord {
	rec := cohort.MaternalRecord{
		ID:        ownerKey(row["id"]),
		Gravida:   asInt64(row["gravida"]),
		Para:      asInt64(row["para"]),
		Abortus:   asInt64(row["abortus"]),
		LMPDate:   asTime(row["lmp_date"]),
		EDDDate:   asTime(row["edd_date"]),
		RiskLevel: asString(row["risk_level"]),
		CreatedAt: millis(row["created_at"]),
	}
	if id, ok := asUUID(row["subject_id"]); ok {
		rec.SubjectID = id
	}
	return rec
}

func mapVisit(row RawRow) cohort.Visit {
	return cohort.Visit{
		ID:               ownerKey(row["id"]),
		RecordID:         ownerKey(row["record_id"]),
		VisitNumber:      asInt64(row["visit_number"]),
		VisitDate:        asTime(row["visit_date"]),
		GestationalWeeks: asInt64(row["gestational_weeks"]),
	}
}

func mapMeasurement(row RawRow) cohort.Measurement {
	return cohort.Measurement{
		ID:             ownerKey(row["id"]),
		RecordID:       ownerKey(row["record_id"]),
		VisitID:        visitKey(row["visit_id"]),
		WeightKg:       asFloat64(row["weight_kg"]),
		HeightCm:       asFloat64(row["height_cm"]),
		MUACCm:         asFloat64(row["muac_cm"]),
		Systolic:       asInt64(row["systolic"]),
		Diastolic:      asInt64(row["diastolic"]),
		FundalHeightCm: asFloat64(row["fundal_height_cm"]),
		FetalHeartRate: asInt64(row["fetal_heart_rate"]),
	}
}

func mapLabResult(row RawRow) cohort.LabResult {
	return cohort.LabResult{
		ID:       ownerKey(row["id"]),
		RecordID: ownerKey(row["record_id"]),
		VisitID:  visitKey(row["visit_id"]),
		TestName: asString(row["test_name"]),
		Value:    asFloat64(row["value"]),
		Unit:     asString(row["unit"]),
		Flag:     asString(row["flag"]),
	}
}

func mapChecklistItem(row RawRow) cohort.ChecklistItem {
	return cohort.ChecklistItem{
		ID:       ownerKey(row["id"]),
		RecordID: ownerKey(row["record_id"]),
		VisitID:  visitKey(row["visit_id"]),
		Code:     asString(row["code"]),
		Done:     asBool(row["done"]),
		Note:     asString(row["note"]),
	}
}

func mapRiskEntry(row RawRow) cohort.RiskEntry {
	return cohort.RiskEntry{
		ID:       ownerKey(row["id"]),
		RecordID: ownerKey(row["record_id"]),
		VisitID:  visitKey(row["visit_id"]),
		Code:     asString(row["code"]),
		Severity: asString(row["severity"]),
		Note:     asString(row["note"]),
	}
}

func mapNutrientEntry(row RawRow) cohort.NutrientEntry {
	return cohort.NutrientEntry{
		ID:         ownerKey(row["id"]),
		RecordID:   ownerKey(row["record_id"]),
		VisitID:    visitKey(row["visit_id"]),
		Supplement: asString(row["supplement"]),
		DoseMg:     asFloat64(row["dose_mg"]),
		Quantity:   asInt64(row["quantity"]),
	}
}

func mapPregnancyHistoryEntry(row RawRow) cohort.PregnancyHistoryEntry {
	return cohort.PregnancyHistoryEntry{
		ID:            ownerKey(row["id"]),
		RecordID:      ownerKey(row["record_id"]),
		VisitID:       visitKey(row["visit_id"]),
		Year:          asInt64(row["year"]),
		Outcome:       asString(row["outcome"]),
		BirthWeightKg: asFloat64(row["birth_weight_kg"]),
		Note:          asString(row["note"]),
	}
}

func mapImmunization(row RawRow) cohort.Immunization {
	return cohort.Immunization{
		ID:         ownerKey(row["id"]),
		RecordID:   ownerKey(row["record_id"]),
		VisitID:    visitKey(row["visit_id"]),
		Vaccine:    asString(row["vaccine"]),
		DoseNumber: asInt64(row["dose_number"]),
		GivenAt:    asTime(row["given_at"]),
	}
}

func mapPresentStatus(row RawRow) cohort.PresentStatus {
	return cohort.PresentStatus{
		ID:        ownerKey(row["id"]),
		RecordID:  ownerKey(row["record_id"]),
		VisitID:   visitKey(row["visit_id"]),
		Condition: asString(row["condition"]),
		Complaint: asString(row["complaint"]),
		Note:      asString(row["note"]),
	}
}

func mapCarePlan(row RawRow) cohort.CarePlan {
	return cohort.CarePlan{
		ID:            ownerKey(row["id"]),
		RecordID:      ownerKey(row["record_id"]),
		VisitID:       visitKey(row["visit_id"]),
		DeliveryPlace: asString(row["delivery_place"]),
		Transport:     asString(row["transport"]),
		BloodDonor:    asString(row["blood_donor"]),
		Note:          asString(row["note"]),
	}
}

func mapScheduleEntry(row RawRow) cohort.ScheduleEntry {
	entry := cohort.ScheduleEntry{
		ID: ownerKey(row["id"]),
	}
	if id, ok := asUUID(row["subject_id"]); ok {
		entry.SubjectID = id
	}
	if t := asTime(row["schedule_date"]); t != nil {
		entry.ScheduleDate = *t
	}
	if s := asString(row["schedule_time"]); s != nil {
		entry.ScheduleTime = *s
	}
	entry.Purpose = asString(row["purpose"])
	entry.Location = asString(row["location"])
	return entry
}

// mapRows applies a row mapper across a fetched table.
func mapRows[T any](rows []RawRow, fn func(RawRow) T) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, fn(row))
	}
	return out
}
