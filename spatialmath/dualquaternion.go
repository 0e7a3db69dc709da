package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// dualQuaternion defines functions to perform rigid transformations in 3D.
// The real part is the unit rotation quaternion r and the dual part is t*r/2, where t is the translation
// expressed as a pure quaternion.
type dualQuaternion struct {
	dualquat.Number
}

// newDualQuaternion returns a pointer to a new dualQuaternion object whose Quaternion is an identity Quaternion.
// Since the real part of a dual quaternion should be a unit quaternion, not all zeroes, this should be used
// instead of &dualQuaternion{}.
func newDualQuaternion() *dualQuaternion {
	return &dualQuaternion{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

// newDualQuaternionFromPose takes any pose, checks if it is already a DQ and returns that if so, otherwise creates a
// new one.
func newDualQuaternionFromPose(p Pose) *dualQuaternion {
	if q, ok := p.(*dualQuaternion); ok {
		return q.Clone()
	}
	q := newDualQuaternion()
	q.Real = Normalize(p.Orientation().Quaternion())
	q.SetTranslation(p.Point())
	return q
}

// Clone returns a dualQuaternion object identical to this one.
func (q *dualQuaternion) Clone() *dualQuaternion {
	// No need for deep copies here, dualquats are primitives all the way down
	return &dualQuaternion{q.Number}
}

// Point multiplies the dual quaternion by its own conjugate to give a dq where the real is the identity quat,
// and the dual is representative of real world millimeters. We then return the xyz of that dual.
func (q *dualQuaternion) Point() r3.Vector {
	t := q.translation()
	return r3.Vector{X: t.Imag, Y: t.Jmag, Z: t.Kmag}
}

// Orientation returns the rotation quaternion as an Orientation.
func (q *dualQuaternion) Orientation() Orientation {
	rot := Quaternion(q.Real)
	return &rot
}

// SetTranslation correctly sets the translation quaternion against the rotation.
func (q *dualQuaternion) SetTranslation(pt r3.Vector) {
	q.Dual = quat.Number{Real: 0, Imag: pt.X / 2, Jmag: pt.Y / 2, Kmag: pt.Z / 2}
	q.rotate()
}

// rotate multiplies the dual part of the quaternion by the real part give the correct rotation.
func (q *dualQuaternion) rotate() {
	q.Dual = quat.Mul(q.Dual, q.Real)
}

func (q *dualQuaternion) translation() quat.Number {
	return quat.Scale(2, quat.Mul(q.Dual, quat.Conj(q.Real)))
}

// Transformation multiplies the dual quat contained in this dualQuaternion by another dual quat.
func (q *dualQuaternion) Transformation(by dualquat.Number) dualquat.Number {
	// Ensure we are multiplying by a unit dual quaternion
	if vecLen := quat.Abs(by.Real); vecLen != 1 && vecLen != 0 {
		by.Real = quat.Scale(1/vecLen, by.Real)
		by.Dual = quat.Scale(1/vecLen, by.Dual)
	}
	return dualquat.Mul(q.Number, by)
}

// Invert returns a dualQuaternion representing the opposite transformation.
func (q *dualQuaternion) Invert() *dualQuaternion {
	inv := newDualQuaternion()
	inv.Real = quat.Conj(q.Real)
	t := q.Point()
	rotated := quat.Mul(quat.Mul(inv.Real, quat.Number{Imag: t.X, Jmag: t.Y, Kmag: t.Z}), q.Real)
	inv.SetTranslation(r3.Vector{X: -rotated.Imag, Y: -rotated.Jmag, Z: -rotated.Kmag})
	return inv
}
