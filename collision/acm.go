package collision

import "sort"

// AllowedCollisionMatrix records which pairs of bodies may touch. A pair entry takes precedence over
// the default entries of its bodies.
type AllowedCollisionMatrix struct {
	entries  map[BodyPair]bool
	defaults map[string]bool
}

// NewAllowedCollisionMatrix returns a matrix that allows nothing.
func NewAllowedCollisionMatrix() *AllowedCollisionMatrix {
	return &AllowedCollisionMatrix{entries: map[BodyPair]bool{}, defaults: map[string]bool{}}
}

// SetEntry sets whether collisions between a and b are allowed.
func (acm *AllowedCollisionMatrix) SetEntry(a, b string, allowed bool) {
	acm.entries[NewBodyPair(a, b)] = allowed
}

// RemoveEntry forgets the explicit entry for the pair.
func (acm *AllowedCollisionMatrix) RemoveEntry(a, b string) {
	delete(acm.entries, NewBodyPair(a, b))
}

// SetDefaultEntry sets whether collisions between name and any body without an explicit entry are allowed.
func (acm *AllowedCollisionMatrix) SetDefaultEntry(name string, allowed bool) {
	acm.defaults[name] = allowed
}

// Entry returns the explicit entry for the pair, if any.
func (acm *AllowedCollisionMatrix) Entry(a, b string) (allowed, ok bool) {
	allowed, ok = acm.entries[NewBodyPair(a, b)]
	return allowed, ok
}

// Allowed reports whether a collision between a and b is acceptable.
func (acm *AllowedCollisionMatrix) Allowed(a, b string) bool {
	if acm == nil {
		return false
	}
	if allowed, ok := acm.Entry(a, b); ok {
		return allowed
	}
	return acm.defaults[a] || acm.defaults[b]
}

// AllowedPairs returns the sorted pairs with an explicit allowing entry.
func (acm *AllowedCollisionMatrix) AllowedPairs() []BodyPair {
	pairs := []BodyPair{}
	for pair, allowed := range acm.entries {
		if allowed {
			pairs = append(pairs, pair)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].First != pairs[j].First {
			return pairs[i].First < pairs[j].First
		}
		return pairs[i].Second < pairs[j].Second
	})
	return pairs
}

// Clone returns an independent copy of the matrix.
func (acm *AllowedCollisionMatrix) Clone() *AllowedCollisionMatrix {
	clone := NewAllowedCollisionMatrix()
	for pair, allowed := range acm.entries {
		clone.entries[pair] = allowed
	}
	for name, allowed := range acm.defaults {
		clone.defaults[name] = allowed
	}
	return clone
}
