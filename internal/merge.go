package internal

// Keyed merging of mapped rows into owner-indexed maps. Three shapes exist:
// single-value-per-key, array-per-key, and the dual-routed variant that
// partitions one input slice into a by-record map and a by-visit map in a
// single pass.
//
// Rows whose record key is the zero sentinel (missing or unparseable id) are
// skipped entirely. Duplicate keys in a single-value merge are a data
// quality issue, not an error: the last row fetched wins, deterministically,
// because fetch order is stable (ORDER BY id).

// mergeSingleByKey indexes rows by key with last-seen-wins semantics.
func mergeSingleByKey[T any](items []T, key func(T) int64) map[int64]T {
	out := make(map[int64]T, len(items))
	for _, item := range items {
		k := key(item)
		if k == 0 {
			continue
		}
		out[k] = item
	}
	return out
}

// mergeArrayByKey accumulates rows sharing a key into an insertion-ordered
// list.
func mergeArrayByKey[T any](items []T, key func(T) int64) map[int64][]T {
	out := make(map[int64][]T)
	for _, item := range items {
		k := key(item)
		if k == 0 {
			continue
		}
		out[k] = append(out[k], item)
	}
	return out
}

// mergeDualSingle routes each row to exactly one of two single-value maps:
// by-visit when the visit foreign key is present, by-record otherwise. A
// visit id with no matching fetched visit still lands in the by-visit map;
// the assembler simply never looks it up, which drops the row.
func mergeDualSingle[T any](items []T, keys func(T) (int64, *int64)) (byRecord map[int64]T, byVisit map[int64]T) {
	byRecord = make(map[int64]T)
	byVisit = make(map[int64]T)
	for _, item := range items {
		recordID, visitID := keys(item)
		if recordID == 0 {
			continue
		}
		if visitID != nil {
			byVisit[*visitID] = item
			continue
		}
		byRecord[recordID] = item
	}
	return byRecord, byVisit
}

// mergeDualArray is the array-cardinality counterpart of mergeDualSingle.
func mergeDualArray[T any](items []T, keys func(T) (int64, *int64)) (byRecord map[int64][]T, byVisit map[int64][]T) {
	byRecord = make(map[int64][]T)
	byVisit = make(map[int64][]T)
	for _, item := range items {
		recordID, visitID := keys(item)
		if recordID == 0 {
			continue
		}
		if visitID != nil {
			byVisit[*visitID] = append(byVisit[*visitID], item)
			continue
		}
		byRecord[recordID] = append(byRecord[recordID], item)
	}
	return byRecord, byVisit
}
