package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	commonpb "go.viam.com/api/common/v1"
)

// box is a collision geometry that represents a 3D rectangular prism, it has a pose and half size that fully define it.
type box struct {
	pose     Pose
	halfSize [3]float64
	label    string
}

// NewBox instantiates a new box Geometry. dims are the full side lengths along the box's local axes.
func NewBox(pose Pose, dims r3.Vector, label string) (Geometry, error) {
	// Negative dimensions not allowed. Zero dimensions are allowed for bounding boxes, etc.
	if dims.X < 0 || dims.Y < 0 || dims.Z < 0 {
		return nil, NewBadGeometryDimensionsError(&box{})
	}
	return &box{pose, [3]float64{0.5 * dims.X, 0.5 * dims.Y, 0.5 * dims.Z}, label}, nil
}

func (b *box) Pose() Pose {
	return b.pose
}

func (b *box) Label() string {
	return b.label
}

func (b *box) SetLabel(label string) {
	b.label = label
}

// AlmostEqual compares the box with another geometry and checks if they are equivalent.
func (b *box) AlmostEqual(g Geometry) bool {
	other, ok := g.(*box)
	if !ok {
		return false
	}
	for i := range b.halfSize {
		if math.Abs(b.halfSize[i]-other.halfSize[i]) > 1e-8 {
			return false
		}
	}
	return PoseAlmostEqual(b.pose, other.pose)
}

// Transform premultiplies the box pose with a transform, returning the transformed box.
func (b *box) Transform(toPremultiply Pose) Geometry {
	return &box{Compose(toPremultiply, b.pose), b.halfSize, b.label}
}

// ToProtobuf converts the box to a Geometry proto message.
func (b *box) ToProtobuf() *commonpb.Geometry {
	return &commonpb.Geometry{
		Center: PoseToProtobuf(b.pose),
		GeometryType: &commonpb.Geometry_Box{
			Box: &commonpb.RectangularPrism{DimsMm: &commonpb.Vector3{
				X: 2 * b.halfSize[0],
				Y: 2 * b.halfSize[1],
				Z: 2 * b.halfSize[2],
			}},
		},
		Label: b.label,
	}
}

func (b *box) String() string {
	return fmt.Sprintf("Type: Box | Position: X:%.1f, Y:%.1f, Z:%.1f | Dims: X:%.0f, Y:%.0f, Z:%.0f",
		b.pose.Point().X, b.pose.Point().Y, b.pose.Point().Z, 2*b.halfSize[0], 2*b.halfSize[1], 2*b.halfSize[2])
}

// ContactsWith reports the contacts between the box and another geometry.
func (b *box) ContactsWith(g Geometry) ([]ContactPoint, error) {
	switch other := g.(type) {
	case *box:
		return boxVsBoxContacts(b, other), nil
	case *sphere:
		return boxVsSphereContacts(b, other), nil
	default:
		return nil, newCollisionTypeUnsupportedError(b, g)
	}
}

// axes returns the box's local unit axes expressed in the parent frame.
func (b *box) axes() [3]r3.Vector {
	o := b.pose.Orientation()
	return [3]r3.Vector{
		RotateVector(o, r3.Vector{X: 1}),
		RotateVector(o, r3.Vector{Y: 1}),
		RotateVector(o, r3.Vector{Z: 1}),
	}
}

// vertices returns the 8 corners of the box in the parent frame.
func (b *box) vertices() []r3.Vector {
	verts := make([]r3.Vector, 0, 8)
	for _, i := range []float64{1, -1} {
		for _, j := range []float64{1, -1} {
			for _, k := range []float64{1, -1} {
				local := r3.Vector{X: i * b.halfSize[0], Y: j * b.halfSize[1], Z: k * b.halfSize[2]}
				verts = append(verts, TransformPoint(b.pose, local))
			}
		}
	}
	return verts
}

// toLocal expresses a point in the parent frame in the box's own frame.
func (b *box) toLocal(pt r3.Vector) r3.Vector {
	return TransformPoint(PoseInverse(b.pose), pt)
}

func (b *box) containsLocal(local r3.Vector) bool {
	return math.Abs(local.X) <= b.halfSize[0]+CollisionBuffer &&
		math.Abs(local.Y) <= b.halfSize[1]+CollisionBuffer &&
		math.Abs(local.Z) <= b.halfSize[2]+CollisionBuffer
}

// projectedRadius is the half length of the box's shadow on the given axis.
func (b *box) projectedRadius(axes [3]r3.Vector, plane r3.Vector) float64 {
	return math.Abs(axes[0].Mul(b.halfSize[0]).Dot(plane)) +
		math.Abs(axes[1].Mul(b.halfSize[1]).Dot(plane)) +
		math.Abs(axes[2].Mul(b.halfSize[2]).Dot(plane))
}

// boxVsBoxContacts runs the separating axis test over the 15 candidate axes and, if no axis separates the boxes,
// reports the corners of each box that lie inside the other. The minimum overlap gives the depth and normal.
// reference: https://gamedev.stackexchange.com/questions/112883/simple-3d-obb-collision-directx9-c
func boxVsBoxContacts(a, b *box) []ContactPoint {
	aAxes, bAxes := a.axes(), b.axes()
	positionDelta := b.pose.Point().Sub(a.pose.Point())

	candidates := make([]r3.Vector, 0, 15)
	candidates = append(candidates, aAxes[:]...)
	candidates = append(candidates, bAxes[:]...)
	for _, ax := range aAxes {
		for _, bx := range bAxes {
			cross := ax.Cross(bx)
			// parallel edges produce a degenerate axis that is already covered by the face axes
			if cross.Norm() < 1e-6 {
				continue
			}
			candidates = append(candidates, cross.Normalize())
		}
	}

	depth := math.Inf(1)
	var normal r3.Vector
	for _, plane := range candidates {
		overlap := a.projectedRadius(aAxes, plane) + b.projectedRadius(bAxes, plane) - math.Abs(positionDelta.Dot(plane))
		if overlap < -CollisionBuffer {
			return nil
		}
		if overlap < depth {
			depth = overlap
			normal = plane
			if positionDelta.Dot(plane) < 0 {
				normal = plane.Mul(-1)
			}
		}
	}
	depth = math.Max(depth, 0)

	var contacts []ContactPoint
	for _, v := range b.vertices() {
		if a.containsLocal(a.toLocal(v)) {
			contacts = append(contacts, ContactPoint{Position: v, Normal: normal, Depth: depth})
		}
	}
	for _, v := range a.vertices() {
		if b.containsLocal(b.toLocal(v)) {
			contacts = append(contacts, ContactPoint{Position: v, Normal: normal, Depth: depth})
		}
	}
	if len(contacts) == 0 {
		// edge to edge contact, estimate the point as the middle of the overlap along the normal
		pos := a.pose.Point().Add(normal.Mul(a.projectedRadius(aAxes, normal) - depth/2))
		contacts = append(contacts, ContactPoint{Position: pos, Normal: normal, Depth: depth})
	}
	return contacts
}

// boxVsSphereContacts finds the point of the box closest to the sphere center. If the center lies inside the box,
// the nearest face is used to push the sphere out.
func boxVsSphereContacts(b *box, s *sphere) []ContactPoint {
	local := b.toLocal(s.pose.Point())
	closest := r3.Vector{
		X: math.Max(-b.halfSize[0], math.Min(b.halfSize[0], local.X)),
		Y: math.Max(-b.halfSize[1], math.Min(b.halfSize[1], local.Y)),
		Z: math.Max(-b.halfSize[2], math.Min(b.halfSize[2], local.Z)),
	}
	o := b.pose.Orientation()

	diff := local.Sub(closest)
	if dist := diff.Norm(); dist > 0 {
		depth := s.radius - dist
		if depth < -CollisionBuffer {
			return nil
		}
		return []ContactPoint{{
			Position: TransformPoint(b.pose, closest),
			Normal:   RotateVector(o, diff.Mul(1/dist)),
			Depth:    math.Max(depth, 0),
		}}
	}

	// sphere center is inside the box; find the face with the least penetration
	coords := [3]float64{local.X, local.Y, local.Z}
	face, faceDist := 0, math.Inf(1)
	for i := range coords {
		if d := b.halfSize[i] - math.Abs(coords[i]); d < faceDist {
			face, faceDist = i, d
		}
	}
	dir := [3]float64{}
	dir[face] = 1
	if coords[face] < 0 {
		dir[face] = -1
	}
	coords[face] = dir[face] * b.halfSize[face]
	return []ContactPoint{{
		Position: TransformPoint(b.pose, r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}),
		Normal:   RotateVector(o, r3.Vector{X: dir[0], Y: dir[1], Z: dir[2]}),
		Depth:    s.radius + faceDist,
	}}
}
