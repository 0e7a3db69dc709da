package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	commonpb "go.viam.com/api/common/v1"
)

// CollisionBuffer is the amount of separation under which two geometries are considered to be touching.
const CollisionBuffer = 1e-8

// Geometry is an entry point with which to access all types of collision geometries.
type Geometry interface {
	Pose() Pose
	// Transform returns a copy of the geometry with pose composed on the left of its current pose.
	Transform(Pose) Geometry
	Label() string
	SetLabel(string)
	AlmostEqual(Geometry) bool
	ToProtobuf() *commonpb.Geometry
	// ContactsWith reports the contact points between this geometry and another. The returned normals point
	// from this geometry towards the other. An empty slice means the geometries are not touching.
	ContactsWith(Geometry) ([]ContactPoint, error)
	fmt.Stringer
}

// ContactPoint describes a single point of interpenetration between two geometries.
type ContactPoint struct {
	Position r3.Vector
	// Normal is a unit vector pointing from the first geometry towards the second.
	Normal r3.Vector
	// Depth is the penetration depth in mm. Touching geometries have a depth of zero.
	Depth float64
}

// flip returns contact points with the roles of the two geometries exchanged.
func flip(contacts []ContactPoint) []ContactPoint {
	for i := range contacts {
		contacts[i].Normal = contacts[i].Normal.Mul(-1)
	}
	return contacts
}

// NewGeometryFromProto instantiates a new Geometry from a protobuf Geometry message.
func NewGeometryFromProto(geometry *commonpb.Geometry) (Geometry, error) {
	pose := NewPoseFromProtobuf(geometry.GetCenter())
	if box := geometry.GetBox().GetDimsMm(); box != nil {
		return NewBox(pose, r3.Vector{X: box.X, Y: box.Y, Z: box.Z}, geometry.GetLabel())
	}
	if sphere := geometry.GetSphere(); sphere != nil {
		return NewSphere(pose, sphere.GetRadiusMm(), geometry.GetLabel())
	}
	return nil, NewGeometryTypeUnsupportedError(fmt.Sprintf("%T", geometry.GetGeometryType()))
}
