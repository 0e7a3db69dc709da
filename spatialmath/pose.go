// Package spatialmath defines spatial mathematical operations.
// Poses represent a position and orientation in 3D space and are composed as rigid transforms.
// Translations are expressed in millimeters.
package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	commonpb "go.viam.com/api/common/v1"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
// The Point() method returns the position in (x,y,z) mm coordinates,
// and the Orientation() method returns an Orientation object, which has methods to parametrize
// the rotation in multiple different representations.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// NewZeroPose returns a pose at (0,0,0) with same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return newDualQuaternion()
}

// NewPose takes in a position and orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(p)
	}
	q := newDualQuaternion()
	q.Real = Normalize(o.Quaternion())
	q.SetTranslation(p)
	return q
}

// NewPoseFromOrientation takes in an orientation and returns a Pose with no translation.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(point r3.Vector) Pose {
	q := newDualQuaternion()
	q.SetTranslation(point)
	return q
}

// Compose takes two poses, converts them to dual quaternions, and multiplies them together, then normalizes the transform.
// The result is a applied first, then b expressed in a's frame: Compose(a, b) = a ∘ b.
func Compose(a, b Pose) Pose {
	aq := newDualQuaternionFromPose(a)
	result := &dualQuaternion{aq.Transformation(newDualQuaternionFromPose(b).Number)}

	// Normalization
	if vecLen := 1 / quat.Abs(result.Real); vecLen != 1 {
		result.Real = quat.Scale(vecLen, result.Real)
		result.Dual = quat.Scale(vecLen, result.Dual)
	}
	return result
}

// PoseInverse will return the inverse of a pose. So if a given pose p is the pose of A relative to B, PoseInverse(p) will give
// the pose of B relative to A.
func PoseInverse(p Pose) Pose {
	return newDualQuaternionFromPose(p).Invert()
}

// PoseBetween returns the difference between two dualQuaternions, that is, the dq which if multiplied by one will give the other.
// Example: if PoseBetween(a, b) = c, then Compose(a, c) = b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint maps a point expressed in the frame described by p into p's parent frame.
func TransformPoint(p Pose, pt r3.Vector) r3.Vector {
	return Compose(p, NewPoseFromPoint(pt)).Point()
}

// RotateVector rotates v by the orientation o without translating it.
func RotateVector(o Orientation, v r3.Vector) r3.Vector {
	q := o.Quaternion()
	rotated := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same, given an epsilon value.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) && OrientationAlmostEqualEps(a.Orientation(), b.Orientation(), epsilon)
}

// PoseAlmostCoincident will return a bool describing whether 2 poses approximately are at the same 3D coordinate location.
// This uses the same epsilon as the default value for the Viam IK solver.
func PoseAlmostCoincident(a, b Pose) bool {
	return PoseAlmostCoincidentEps(a, b, 1e-4)
}

// PoseAlmostCoincidentEps will return a bool describing whether 2 poses approximately are at the same 3D coordinate location.
func PoseAlmostCoincidentEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return a.Sub(b).Norm() < epsilon
}

// PrettyPrint returns a human readable representation of a pose.
func PrettyPrint(p Pose) string {
	if p == nil {
		return "nil pose"
	}
	ov := p.Orientation().OrientationVectorDegrees()
	return fmt.Sprintf("{X:%.3f Y:%.3f Z:%.3f OX:%.3f OY:%.3f OZ:%.3f Theta:%.3f°}",
		p.Point().X, p.Point().Y, p.Point().Z, ov.OX, ov.OY, ov.OZ, ov.Theta)
}

// PoseToProtobuf converts a pose to the pose format protobuf expects (which is as OrientationVectorDegrees).
func PoseToProtobuf(p Pose) *commonpb.Pose {
	final := &commonpb.Pose{}
	pt := p.Point()
	final.X = pt.X
	final.Y = pt.Y
	final.Z = pt.Z
	poseOV := p.Orientation().OrientationVectorDegrees()
	final.Theta = poseOV.Theta
	final.OX = poseOV.OX
	final.OY = poseOV.OY
	final.OZ = poseOV.OZ
	return final
}

// NewPoseFromProtobuf creates a new pose from a protobuf pose. A nil message is the zero pose.
func NewPoseFromProtobuf(pos *commonpb.Pose) Pose {
	if pos == nil {
		return NewZeroPose()
	}
	return NewPose(
		r3.Vector{X: pos.GetX(), Y: pos.GetY(), Z: pos.GetZ()},
		&OrientationVectorDegrees{Theta: pos.GetTheta(), OX: pos.GetOX(), OY: pos.GetOY(), OZ: pos.GetOZ()},
	)
}
