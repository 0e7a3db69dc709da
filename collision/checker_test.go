package collision

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang/geo/r3"
	commonpb "go.viam.com/api/common/v1"
	"go.viam.com/test"

	"go.viam.com/taskconstructor/logging"
	spatial "go.viam.com/taskconstructor/spatialmath"
)

func makeSphere(t *testing.T, pt r3.Vector, radius float64) spatial.Geometry {
	t.Helper()
	s, err := spatial.NewSphere(spatial.NewPoseFromPoint(pt), radius, "")
	test.That(t, err, test.ShouldBeNil)
	return s
}

func makeBox(t *testing.T, pt r3.Vector, side float64) spatial.Geometry {
	t.Helper()
	b, err := spatial.NewBox(spatial.NewPoseFromPoint(pt), r3.Vector{X: side, Y: side, Z: side}, "")
	test.That(t, err, test.ShouldBeNil)
	return b
}

func TestCheckSpheres(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	checker := NewChecker(logger)

	bodies := []Body{
		{Name: "link_b", Type: RobotLink, Geometries: []spatial.Geometry{makeSphere(t, r3.Vector{X: 15}, 10)}},
		{Name: "link_a", Type: RobotLink, Geometries: []spatial.Geometry{makeSphere(t, r3.Vector{}, 10)}},
		{Name: "link_c", Type: RobotLink, Geometries: []spatial.Geometry{makeSphere(t, r3.Vector{X: 500}, 10)}},
	}
	req := Request{Contacts: true, MaxContacts: 10, MaxContactsPerPair: 3, Verbose: true}
	res := checker.Check(req, bodies, NewAllowedCollisionMatrix())

	test.That(t, res.Collision, test.ShouldBeTrue)
	test.That(t, res.ContactCount, test.ShouldEqual, 1)
	test.That(t, res.Pairs(), test.ShouldResemble, []BodyPair{{"link_a", "link_b"}})

	contact := res.Contacts[NewBodyPair("link_b", "link_a")][0]
	test.That(t, contact.Body1, test.ShouldEqual, "link_a")
	test.That(t, contact.Body2, test.ShouldEqual, "link_b")
	test.That(t, contact.BodyType1, test.ShouldEqual, RobotLink)
	test.That(t, contact.Depth, test.ShouldAlmostEqual, 5)
	test.That(t, spatial.R3VectorAlmostEqual(contact.Normal, r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, spatial.R3VectorAlmostEqual(contact.Position, r3.Vector{X: 7.5}, 1e-9), test.ShouldBeTrue)

	verbose := logs.FilterMessage("found contacts between bodies, which constitute a collision").All()
	test.That(t, len(verbose), test.ShouldEqual, 1)
	test.That(t, verbose[0].ContextMap()["body1"], test.ShouldEqual, "link_a")

	// nothing is logged without verbose
	req.Verbose = false
	checker.Check(req, bodies, nil)
	test.That(t, logs.FilterMessage("found contacts between bodies, which constitute a collision").Len(), test.ShouldEqual, 1)
}

func TestCheckCaps(t *testing.T) {
	checker := NewChecker(logging.NewTestLogger(t))

	// every small box lies fully inside the large one, so each pair has 8 corner contacts
	bodies := []Body{{Name: "big", Type: WorldObject, Geometries: []spatial.Geometry{makeBox(t, r3.Vector{}, 100)}}}
	for i := 0; i < 5; i++ {
		bodies = append(bodies, Body{
			Name:       fmt.Sprintf("s%d", i),
			Type:       RobotLink,
			Geometries: []spatial.Geometry{makeBox(t, r3.Vector{X: float64(-40 + 20*i)}, 10)},
		})
	}

	res := checker.Check(Request{Contacts: true, MaxContacts: 10, MaxContactsPerPair: 3}, bodies, nil)
	test.That(t, res.Collision, test.ShouldBeTrue)
	test.That(t, res.ContactCount, test.ShouldEqual, 10)
	test.That(t, len(res.AllContacts()), test.ShouldEqual, 10)
	test.That(t, res.Pairs(), test.ShouldResemble, []BodyPair{{"big", "s0"}, {"big", "s1"}, {"big", "s2"}, {"big", "s3"}})
	for _, pair := range res.Pairs()[:3] {
		test.That(t, len(res.Contacts[pair]), test.ShouldEqual, 3)
	}
	test.That(t, len(res.Contacts[BodyPair{"big", "s3"}]), test.ShouldEqual, 1)

	// uncapped pairs report every corner
	res = checker.Check(Request{Contacts: true, MaxContacts: 100, MaxContactsPerPair: 100}, bodies[:2], nil)
	test.That(t, res.ContactCount, test.ShouldEqual, 8)

	// without contacts the query stops at the first colliding pair
	res = checker.Check(Request{MaxContacts: 10, MaxContactsPerPair: 3}, bodies, nil)
	test.That(t, res.Collision, test.ShouldBeTrue)
	test.That(t, res.ContactCount, test.ShouldEqual, 0)
	test.That(t, len(res.Contacts), test.ShouldEqual, 0)

	// the default request reports a collision without contacts
	res = checker.Check(DefaultRequest(), bodies, nil)
	test.That(t, res.Collision, test.ShouldBeTrue)
	test.That(t, res.ContactCount, test.ShouldEqual, 0)
}

func TestCheckSkipsAllowedAndWorldPairs(t *testing.T) {
	checker := NewChecker(logging.NewTestLogger(t))
	bodies := []Body{
		{Name: "table", Type: WorldObject, Geometries: []spatial.Geometry{makeBox(t, r3.Vector{}, 100)}},
		{Name: "crate", Type: WorldObject, Geometries: []spatial.Geometry{makeBox(t, r3.Vector{Z: 60}, 40)}},
		{Name: "gripper", Type: RobotLink, Geometries: []spatial.Geometry{makeSphere(t, r3.Vector{Z: 55}, 10)}},
		{Name: "part", Type: RobotAttached, Geometries: []spatial.Geometry{makeSphere(t, r3.Vector{Z: 70}, 10)}},
	}

	acm := NewAllowedCollisionMatrix()
	acm.SetEntry("gripper", "part", true)
	acm.SetDefaultEntry("table", true)
	acm.SetEntry("crate", "gripper", true)
	acm.SetEntry("crate", "part", true)
	res := checker.Check(Request{Contacts: true, MaxContacts: 10, MaxContactsPerPair: 3}, bodies, acm)
	test.That(t, res.Collision, test.ShouldBeFalse)

	// an explicit entry overrides the default of the table
	acm.SetEntry("table", "gripper", false)
	res = checker.Check(Request{Contacts: true, MaxContacts: 10, MaxContactsPerPair: 3}, bodies, acm)
	test.That(t, res.Collision, test.ShouldBeTrue)
	test.That(t, res.Pairs(), test.ShouldResemble, []BodyPair{{"gripper", "table"}})
}

type unsupportedGeometry struct {
	label string
}

func (g *unsupportedGeometry) Pose() spatial.Pose { return spatial.NewZeroPose() }
func (g *unsupportedGeometry) Transform(spatial.Pose) spatial.Geometry { return g }
func (g *unsupportedGeometry) Label() string { return g.label }
func (g *unsupportedGeometry) SetLabel(label string) { g.label = label }
func (g *unsupportedGeometry) AlmostEqual(spatial.Geometry) bool { return false }
func (g *unsupportedGeometry) ToProtobuf() *commonpb.Geometry { return nil }
func (g *unsupportedGeometry) String() string { return "unsupported" }
func (g *unsupportedGeometry) ContactsWith(spatial.Geometry) ([]spatial.ContactPoint, error) {
	return nil, errors.New("unsupported geometry")
}

func TestCheckLogsGeometryErrors(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	checker := NewChecker(logger)
	bodies := []Body{
		{Name: "a", Type: RobotLink, Geometries: []spatial.Geometry{&unsupportedGeometry{}, makeSphere(t, r3.Vector{}, 10)}},
		{Name: "b", Type: WorldObject, Geometries: []spatial.Geometry{makeSphere(t, r3.Vector{X: 5}, 10)}},
	}
	res := checker.Check(Request{Contacts: true, MaxContacts: 10, MaxContactsPerPair: 3}, bodies, nil)

	// the failing geometry is skipped, the other one still collides
	test.That(t, res.Collision, test.ShouldBeTrue)
	test.That(t, res.ContactCount, test.ShouldEqual, 1)
	test.That(t, logs.FilterMessage("skipping geometry pair").Len(), test.ShouldEqual, 1)
}

func TestAllowedCollisionMatrix(t *testing.T) {
	acm := NewAllowedCollisionMatrix()
	test.That(t, acm.Allowed("a", "b"), test.ShouldBeFalse)

	acm.SetEntry("b", "a", true)
	test.That(t, acm.Allowed("a", "b"), test.ShouldBeTrue)
	allowed, ok := acm.Entry("a", "b")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, allowed, test.ShouldBeTrue)

	clone := acm.Clone()
	acm.RemoveEntry("a", "b")
	test.That(t, acm.Allowed("a", "b"), test.ShouldBeFalse)
	test.That(t, clone.Allowed("a", "b"), test.ShouldBeTrue)
	test.That(t, clone.AllowedPairs(), test.ShouldResemble, []BodyPair{{"a", "b"}})

	var nilACM *AllowedCollisionMatrix
	test.That(t, nilACM.Allowed("a", "b"), test.ShouldBeFalse)
	test.That(t, NewBodyPair("z", "y").String(), test.ShouldEqual, "y=z")
}
