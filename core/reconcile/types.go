package reconcile

import "sort"

// KeySet is a set of entity keys (item identifiers, directory names).
type KeySet map[string]struct{}

// NewKeySet builds a set from the given keys.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add inserts a key.
func (s KeySet) Add(key string) {
	s[key] = struct{}{}
}

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Plan describes how a freshly staged key set relates to the live one.
type Plan struct {
	// Added holds keys present only in the staged set.
	Added KeySet `json:"-"`
	// Kept holds keys present in both sets.
	Kept KeySet `json:"-"`
	// Stale holds keys present only in the live set.
	Stale KeySet `json:"-"`
}

// Summary returns aggregate counts for logging.
func (p Plan) Summary() PlanSummary {
	return PlanSummary{
		Added: len(p.Added),
		Kept:  len(p.Kept),
		Stale: len(p.Stale),
	}
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	Added int `json:"added"`
	Kept  int `json:"kept"`
	Stale int `json:"stale"`
}

// Child is a persisted per-owner row reduced to its identifier and natural value key.
type Child struct {
	ID  uint
	Key string
}

// ChildOutcome reports what SyncChildren changed for one owner.
type ChildOutcome struct {
	Created int
	Kept    int
	Deleted int
}

// Add accumulates another outcome.
func (o *ChildOutcome) Add(other ChildOutcome) {
	o.Created += other.Created
	o.Kept += other.Kept
	o.Deleted += other.Deleted
}
