package goal

// Merge folds a freshly fetched batch into the existing record set. Records
// whose composite key is already present are discarded; keys are recorded as
// soon as a record is accepted so duplicates within the batch itself (e.g. a
// cache replay) are also caught. Encounter order is preserved, which makes
// the operation idempotent: merging the same batch twice equals merging once.
func Merge(existing, batch []Record) ([]Record, int) {
	seen := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		seen[r.Key()] = struct{}{}
	}

	merged := make([]Record, len(existing), len(existing)+len(batch))
	copy(merged, existing)

	added := 0
	for _, r := range batch {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, r)
		added++
	}
	return merged, added
}
