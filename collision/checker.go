package collision

import (
	"sort"

	"go.viam.com/taskconstructor/logging"
	"go.viam.com/taskconstructor/utils"
)

// Checker is a reference collision engine. It tests every pair of bodies that is not allowed to touch,
// visiting bodies in name order so results are deterministic.
type Checker struct {
	logger logging.Logger
}

// NewChecker returns a Checker that reports geometry failures and verbose output to logger.
func NewChecker(logger logging.Logger) *Checker {
	return &Checker{logger: logger}
}

// Check runs the query over the bodies. Pairs of world objects are never checked against each other.
// Contacts beyond the request's caps are dropped. A geometry pair that cannot be checked is logged and
// treated as not colliding.
func (c *Checker) Check(req Request, bodies []Body, acm *AllowedCollisionMatrix) *Result {
	res := NewResult()

	sorted := make([]Body, len(bodies))
	copy(sorted, bodies)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	// a collision always records at least one contact when contacts are requested
	maxContacts := req.MaxContacts
	if maxContacts < 1 {
		maxContacts = 1
	}
	maxPerPair := req.MaxContactsPerPair
	if maxPerPair < 1 {
		maxPerPair = 1
	}

	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			x, y := &sorted[i], &sorted[j]
			if x.Name == y.Name || (x.Type == WorldObject && y.Type == WorldObject) || acm.Allowed(x.Name, y.Name) {
				continue
			}
			contacts := c.pairContacts(x, y)
			if len(contacts) == 0 {
				continue
			}
			res.Collision = true
			if req.Verbose {
				c.logger.Debugw("found contacts between bodies, which constitute a collision",
					"body1", x.Name, "type1", x.Type.String(),
					"body2", y.Name, "type2", y.Type.String(),
					"contacts", len(contacts))
			}
			if !req.Contacts {
				return res
			}

			take := utils.MinInt(len(contacts), utils.MinInt(maxPerPair, maxContacts-res.ContactCount))
			pair := NewBodyPair(x.Name, y.Name)
			res.Contacts[pair] = append(res.Contacts[pair], contacts[:take]...)
			res.ContactCount += take
			if res.ContactCount >= maxContacts {
				return res
			}
		}
	}
	return res
}

func (c *Checker) pairContacts(x, y *Body) []Contact {
	var contacts []Contact
	for _, gx := range x.Geometries {
		for _, gy := range y.Geometries {
			points, err := gx.ContactsWith(gy)
			if err != nil {
				c.logger.Warnw("skipping geometry pair", "body1", x.Name, "body2", y.Name, "error", err)
				continue
			}
			for _, p := range points {
				contacts = append(contacts, Contact{
					Position:  p.Position,
					Normal:    p.Normal,
					Depth:     p.Depth,
					Body1:     x.Name,
					Body2:     y.Name,
					BodyType1: x.Type,
					BodyType2: y.Type,
				})
			}
		}
	}
	return contacts
}
