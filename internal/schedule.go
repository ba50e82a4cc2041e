package internal

import (
	"github.com/lunahealth/cohort"
)

// partitionSchedule splits an already-sorted (descending by date then time)
// schedule list into the most recent entry plus the remainder. It performs
// no sorting: ordering is the fetch query's contract.
func partitionSchedule(entries []cohort.ScheduleEntry) *cohort.ScheduleGroup {
	group := &cohort.ScheduleGroup{
		History: []cohort.ScheduleEntry{},
	}
	if len(entries) == 0 {
		return group
	}
	latest := entries[0]
	group.Latest = &latest
	if len(entries) > 1 {
		group.History = append(group.History, entries[1:]...)
	}
	return group
}
