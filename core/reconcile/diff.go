package reconcile

// Diff returns the keys present in live but absent from staged.
// It is pure: neither input is modified.
func Diff(staged, live KeySet) KeySet {
	stale := make(KeySet)
	for key := range live {
		if !staged.Has(key) {
			stale.Add(key)
		}
	}
	return stale
}

// BuildPlan classifies every key of the union of staged and live.
func BuildPlan(staged, live KeySet) Plan {
	plan := Plan{
		Added: make(KeySet),
		Kept:  make(KeySet),
		Stale: Diff(staged, live),
	}

	for key := range staged {
		if live.Has(key) {
			plan.Kept.Add(key)
		} else {
			plan.Added.Add(key)
		}
	}

	return plan
}
