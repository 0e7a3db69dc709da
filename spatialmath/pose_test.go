package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	commonpb "go.viam.com/api/common/v1"
	"go.viam.com/test"
)

func TestComposeAppliesLeftThenRight(t *testing.T) {
	a := NewPose(r3.Vector{X: 1}, &R4AA{Theta: math.Pi / 2, RZ: 1})
	b := NewPoseFromPoint(r3.Vector{X: 1})

	c := Compose(a, b)
	test.That(t, R3VectorAlmostEqual(c.Point(), r3.Vector{X: 1, Y: 1}, 1e-8), test.ShouldBeTrue)
	test.That(t, OrientationAlmostEqual(c.Orientation(), a.Orientation()), test.ShouldBeTrue)

	// composing with identity on either side is a no-op
	test.That(t, PoseAlmostEqual(Compose(NewZeroPose(), a), a), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(Compose(a, NewZeroPose()), a), test.ShouldBeTrue)
}

func TestPoseInverseAndBetween(t *testing.T) {
	a := NewPose(r3.Vector{X: 10, Y: -4, Z: 2}, &OrientationVectorDegrees{Theta: 30, OX: 1, OY: 1, OZ: 0})
	b := NewPose(r3.Vector{X: -3, Y: 8, Z: 7}, &R4AA{Theta: 1.2, RX: 0.3, RY: -0.1, RZ: 1})

	test.That(t, PoseAlmostEqual(Compose(a, PoseInverse(a)), NewZeroPose()), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(Compose(PoseInverse(a), a), NewZeroPose()), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(Compose(a, PoseBetween(a, b)), b), test.ShouldBeTrue)
}

func TestTransformAndRotatePoint(t *testing.T) {
	p := NewPose(r3.Vector{Z: 5}, &R4AA{Theta: math.Pi, RX: 1})
	test.That(t, R3VectorAlmostEqual(TransformPoint(p, r3.Vector{Y: 1}), r3.Vector{Y: -1, Z: 5}, 1e-8), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(RotateVector(p.Orientation(), r3.Vector{Z: 1}), r3.Vector{Z: -1}, 1e-8), test.ShouldBeTrue)
}

func TestOrientationVectorRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		ov   *OrientationVector
	}{
		{"identity", NewOrientationVector()},
		{"spin about z", &OrientationVector{Theta: math.Pi / 2, OZ: 1}},
		{"point along x", &OrientationVector{OX: 1}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.ov.ToQuat()
			back := QuatToOV(q)
			test.That(t, back.OX, test.ShouldAlmostEqual, tc.ov.OX, 1e-6)
			test.That(t, back.OY, test.ShouldAlmostEqual, tc.ov.OY, 1e-6)
			test.That(t, back.OZ, test.ShouldAlmostEqual, tc.ov.OZ, 1e-6)
			test.That(t, back.Theta, test.ShouldAlmostEqual, tc.ov.Theta, 1e-6)
		})
	}
}

func TestAxisAngleDoesNotMutate(t *testing.T) {
	aa := &R4AA{Theta: 1, RX: 0, RY: 0, RZ: 2}
	q := aa.ToQuat()
	test.That(t, aa.RZ, test.ShouldEqual, 2)
	test.That(t, q.Real, test.ShouldAlmostEqual, math.Cos(0.5))
	test.That(t, q.Kmag, test.ShouldAlmostEqual, math.Sin(0.5))

	back := QuatToR4AA(q)
	test.That(t, back.Theta, test.ShouldAlmostEqual, 1.)
	test.That(t, back.RZ, test.ShouldAlmostEqual, 1.)
}

func TestQuaternionDoubleCover(t *testing.T) {
	q := (&R4AA{Theta: 0.7, RX: 1}).ToQuat()
	neg := Flip(q)
	test.That(t, QuaternionAlmostEqual(q, neg, 1e-8), test.ShouldBeTrue)
	test.That(t, QuaternionAlmostEqual(q, (&R4AA{Theta: 0.8, RX: 1}).ToQuat(), 1e-8), test.ShouldBeFalse)
}

func TestPoseProtobufRoundTrip(t *testing.T) {
	msg := &commonpb.Pose{X: 1, Y: 2, Z: 3, OZ: 1, Theta: 90}
	p := NewPoseFromProtobuf(msg)
	test.That(t, R3VectorAlmostEqual(p.Point(), r3.Vector{X: 1, Y: 2, Z: 3}, 1e-8), test.ShouldBeTrue)
	test.That(t, OrientationAlmostEqual(p.Orientation(), &R4AA{Theta: math.Pi / 2, RZ: 1}), test.ShouldBeTrue)

	back := PoseToProtobuf(p)
	test.That(t, back.X, test.ShouldAlmostEqual, 1.)
	test.That(t, back.Y, test.ShouldAlmostEqual, 2.)
	test.That(t, back.Z, test.ShouldAlmostEqual, 3.)
	test.That(t, back.OZ, test.ShouldAlmostEqual, 1., 1e-6)
	test.That(t, back.Theta, test.ShouldAlmostEqual, 90., 1e-6)

	test.That(t, PoseAlmostEqual(NewPoseFromProtobuf(nil), NewZeroPose()), test.ShouldBeTrue)
}
