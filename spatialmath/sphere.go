package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	commonpb "go.viam.com/api/common/v1"

	"go.viam.com/taskconstructor/utils"
)

// sphere is a collision geometry that represents a sphere, it has a pose and a radius that fully define it.
type sphere struct {
	pose   Pose
	radius float64
	label  string
}

// NewSphere instantiates a new sphere Geometry.
func NewSphere(offset Pose, radius float64, label string) (Geometry, error) {
	if radius < 0 || math.IsNaN(radius) {
		return nil, NewBadGeometryDimensionsError(&sphere{})
	}
	return &sphere{offset, radius, label}, nil
}

// Pose returns the pose of the sphere.
func (s *sphere) Pose() Pose {
	return s.pose
}

// Radius returns the radius of the sphere.
func (s *sphere) Radius() float64 {
	return s.radius
}

func (s *sphere) Label() string {
	return s.label
}

func (s *sphere) SetLabel(label string) {
	s.label = label
}

// AlmostEqual compares the sphere with another geometry and checks if they are equivalent.
func (s *sphere) AlmostEqual(g Geometry) bool {
	other, ok := g.(*sphere)
	if !ok {
		return false
	}
	return PoseAlmostEqual(s.pose, other.pose) && utils.Float64AlmostEqual(s.radius, other.radius, 1e-8)
}

// Transform premultiplies the sphere pose with a transform, returning the transformed sphere.
func (s *sphere) Transform(toPremultiply Pose) Geometry {
	return &sphere{Compose(toPremultiply, s.pose), s.radius, s.label}
}

// ToProtobuf converts the sphere to a Geometry proto message.
func (s *sphere) ToProtobuf() *commonpb.Geometry {
	return &commonpb.Geometry{
		Center:       PoseToProtobuf(s.pose),
		GeometryType: &commonpb.Geometry_Sphere{Sphere: &commonpb.Sphere{RadiusMm: s.radius}},
		Label:        s.label,
	}
}

func (s *sphere) String() string {
	return fmt.Sprintf("Type: Sphere | Position: X:%.1f, Y:%.1f, Z:%.1f | Radius: %.0f",
		s.pose.Point().X, s.pose.Point().Y, s.pose.Point().Z, s.radius)
}

// ContactsWith reports the contacts between the sphere and another geometry.
func (s *sphere) ContactsWith(g Geometry) ([]ContactPoint, error) {
	switch other := g.(type) {
	case *sphere:
		return sphereVsSphereContacts(s, other), nil
	case *box:
		return flip(boxVsSphereContacts(other, s)), nil
	default:
		return nil, newCollisionTypeUnsupportedError(s, g)
	}
}

func sphereVsSphereContacts(a, b *sphere) []ContactPoint {
	delta := b.pose.Point().Sub(a.pose.Point())
	dist := delta.Norm()
	depth := a.radius + b.radius - dist
	if depth < -CollisionBuffer {
		return nil
	}
	normal := r3.Vector{X: 0, Y: 0, Z: 1}
	if dist > 0 {
		normal = delta.Mul(1 / dist)
	}
	// midway through the overlapping region along the line between the centers
	pos := a.pose.Point().Add(normal.Mul(a.radius - depth/2))
	return []ContactPoint{{Position: pos, Normal: normal, Depth: math.Max(depth, 0)}}
}
