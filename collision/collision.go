// Package collision defines collision queries and results, the allowed collision matrix and a reference
// engine that checks named bodies pairwise.
package collision

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r3"

	spatial "go.viam.com/taskconstructor/spatialmath"
)

// BodyType identifies what kind of object a collision body is.
type BodyType int

// The body types known to the engine.
const (
	RobotLink BodyType = iota
	RobotAttached
	WorldObject
)

func (bt BodyType) String() string {
	switch bt {
	case RobotLink:
		return "Robot link"
	case RobotAttached:
		return "Robot attached"
	case WorldObject:
		return "Object"
	}
	return "Unknown"
}

// Body is a named collision object made of one or more geometries placed in the planning frame.
type Body struct {
	Name       string
	Type       BodyType
	Geometries []spatial.Geometry
}

// BodyPair is an unordered pair of body names, stored in lexicographic order.
type BodyPair struct {
	First, Second string
}

// NewBodyPair orders the names so that a pair and its reverse compare equal.
func NewBodyPair(a, b string) BodyPair {
	if b < a {
		a, b = b, a
	}
	return BodyPair{a, b}
}

func (bp BodyPair) String() string {
	return bp.First + "=" + bp.Second
}

// Contact is a single point of interpenetration between two bodies.
type Contact struct {
	// Position of the contact in the planning frame.
	Position r3.Vector
	// Normal points from Body1 into Body2.
	Normal r3.Vector
	Depth  float64

	Body1, Body2         string
	BodyType1, BodyType2 BodyType
}

func (c Contact) String() string {
	return fmt.Sprintf("%s (%s) / %s (%s) at %v depth %.4f", c.Body1, c.BodyType1, c.Body2, c.BodyType2, c.Position, c.Depth)
}

// Request describes what a collision query should compute.
type Request struct {
	// Contacts enables contact reporting. Without it the query stops at the first collision.
	Contacts bool
	// MaxContacts bounds the total number of contacts reported.
	MaxContacts int
	// MaxContactsPerPair bounds the number of contacts reported for any pair of bodies.
	MaxContactsPerPair int
	// Verbose logs every colliding pair.
	Verbose bool
}

// DefaultRequest returns a request that only reports whether anything collides.
func DefaultRequest() Request {
	return Request{MaxContacts: 1, MaxContactsPerPair: 1}
}

// Result is the outcome of a collision query.
type Result struct {
	Collision    bool
	ContactCount int
	Contacts     map[BodyPair][]Contact
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{Contacts: map[BodyPair][]Contact{}}
}

// Pairs returns the colliding pairs with stored contacts, sorted.
func (r *Result) Pairs() []BodyPair {
	pairs := make([]BodyPair, 0, len(r.Contacts))
	for pair := range r.Contacts {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].First != pairs[j].First {
			return pairs[i].First < pairs[j].First
		}
		return pairs[i].Second < pairs[j].Second
	})
	return pairs
}

// AllContacts flattens the stored contacts in sorted pair order.
func (r *Result) AllContacts() []Contact {
	all := make([]Contact, 0, r.ContactCount)
	for _, pair := range r.Pairs() {
		all = append(all, r.Contacts[pair]...)
	}
	return all
}
