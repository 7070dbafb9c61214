package quota

// Policy maps a canonical forger key to the maximum number of rings that
// forger may ever have. A Policy is fixed at construction and injected
// into the admission service; it is never mutated afterwards.
type Policy struct {
	limits map[string]int
}

// NewPolicy builds a policy from canonical keys. Keys are normalized
// defensively so that a caller supplying "Anões" still lands on "anoes".
func NewPolicy(limits map[string]int) Policy {
	canonical := make(map[string]int, len(limits))
	for label, max := range limits {
		canonical[Normalize(label)] = max
	}
	return Policy{limits: canonical}
}

// DefaultPolicy returns the ring distribution of the lore: three for the
// elves, seven for the dwarves, nine for men, one for Sauron.
func DefaultPolicy() Policy {
	return NewPolicy(map[string]int{
		"elfos":  3,
		"anoes":  7,
		"homens": 9,
		"sauron": 1,
	})
}

// Capacity returns the quota for a canonical key. Keys absent from the
// policy have capacity zero: unrecognized forgers may never hold a ring.
func (p Policy) Capacity(key string) int {
	return p.limits[key]
}

// Known reports whether the canonical key has an explicit quota entry.
func (p Policy) Known(key string) bool {
	_, ok := p.limits[key]
	return ok
}
