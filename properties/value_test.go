package properties

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/taskconstructor/referenceframe"
	spatial "go.viam.com/taskconstructor/spatialmath"
)

func TestValueKinds(t *testing.T) {
	var zero Value
	test.That(t, zero.IsEmpty(), test.ShouldBeTrue)
	test.That(t, Empty().Kind(), test.ShouldEqual, KindEmpty)
	test.That(t, PoseInFrameValue(nil).IsEmpty(), test.ShouldBeTrue)
	test.That(t, PoseInFrameValueFromProtobuf(nil).IsEmpty(), test.ShouldBeTrue)

	pif := referenceframe.NewPoseInFrame("base_link", spatial.NewPoseFromPoint(r3.Vector{X: 1}))
	v := PoseInFrameValue(pif)
	test.That(t, v.IsEmpty(), test.ShouldBeFalse)
	test.That(t, v.Kind(), test.ShouldEqual, KindPoseInFrame)
	test.That(t, v.PoseInFrame(), test.ShouldEqual, pif)
	test.That(t, v.String(), test.ShouldEqual, `pose in frame "base_link"`)

	fromProto := PoseInFrameValueFromProtobuf(referenceframe.PoseInFrameToProtobuf(pif))
	test.That(t, fromProto.PoseInFrame().AlmostEqual(pif), test.ShouldBeTrue)

	test.That(t, StringValue("tool0").Text(), test.ShouldEqual, "tool0")
	test.That(t, FloatValue(0.5).Float(), test.ShouldEqual, 0.5)
	test.That(t, FloatValue(0.5).String(), test.ShouldEqual, "float 0.5")
	test.That(t, Empty().String(), test.ShouldEqual, "empty")
}

func TestValueTypeMismatchPanics(t *testing.T) {
	for _, tc := range []struct {
		name string
		read func()
		want Kind
		got  Kind
	}{
		{"empty as pose", func() { Empty().PoseInFrame() }, KindPoseInFrame, KindEmpty},
		{"string as pose", func() { StringValue("x").PoseInFrame() }, KindPoseInFrame, KindString},
		{"float as string", func() { FloatValue(1).Text() }, KindString, KindFloat},
		{"string as float", func() { StringValue("x").Float() }, KindFloat, KindString},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var recovered interface{}
			func() {
				defer func() { recovered = recover() }()
				tc.read()
			}()
			mismatch, ok := recovered.(*TypeMismatchError)
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, mismatch.Want, test.ShouldEqual, tc.want)
			test.That(t, mismatch.Got, test.ShouldEqual, tc.got)
			test.That(t, mismatch.Error(), test.ShouldContainSubstring, tc.want.String())
		})
	}
}

func TestProperty(t *testing.T) {
	p := NewProperty("timeout in seconds", FloatValue(10))
	test.That(t, p.Description(), test.ShouldEqual, "timeout in seconds")
	test.That(t, p.Defined(), test.ShouldBeTrue)
	test.That(t, p.Value().Float(), test.ShouldEqual, 10.)

	test.That(t, p.SetValue(FloatValue(3)), test.ShouldBeNil)
	test.That(t, p.Value().Float(), test.ShouldEqual, 3.)
	test.That(t, p.SetValue(StringValue("3")), test.ShouldNotBeNil)
	test.That(t, p.Value().Float(), test.ShouldEqual, 3.)

	p.Reset()
	test.That(t, p.Value().Float(), test.ShouldEqual, 10.)

	// a property without a default accepts any kind
	frame := NewProperty("ik frame", Empty())
	test.That(t, frame.Defined(), test.ShouldBeFalse)
	test.That(t, frame.SetValue(PoseInFrameValue(referenceframe.NewZeroPoseInFrame("tool0"))), test.ShouldBeNil)
	test.That(t, frame.Defined(), test.ShouldBeTrue)
	test.That(t, frame.SetValue(Empty()), test.ShouldBeNil)
	test.That(t, frame.Value().IsEmpty(), test.ShouldBeTrue)
}

func TestPropertyMap(t *testing.T) {
	pm := NewPropertyMap()
	_, err := pm.Declare("ik_frame", "frame to move to the target", Empty())
	test.That(t, err, test.ShouldBeNil)
	_, err = pm.Declare("group", "planning group", StringValue("manipulator"))
	test.That(t, err, test.ShouldBeNil)
	_, err = pm.Declare("group", "again", Empty())
	test.That(t, err, test.ShouldNotBeNil)
	_, err = pm.Declare("", "nameless", Empty())
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, pm.Names(), test.ShouldResemble, []string{"group", "ik_frame"})

	v, err := pm.Get("ik_frame")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v.IsEmpty(), test.ShouldBeTrue)
	_, err = pm.Get("eef")
	test.That(t, err.Error(), test.ShouldContainSubstring, `"eef"`)

	test.That(t, pm.Set("group", StringValue("arm")), test.ShouldBeNil)
	err = pm.Set("group", FloatValue(1))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `property "group"`)
	test.That(t, pm.Set("eef", Empty()), test.ShouldNotBeNil)

	v, err = pm.Get("group")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v.Text(), test.ShouldEqual, "arm")
	pm.Reset()
	v, err = pm.Get("group")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v.Text(), test.ShouldEqual, "manipulator")
}
