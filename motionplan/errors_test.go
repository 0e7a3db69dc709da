package motionplan

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestFrameErrors(t *testing.T) {
	t.Run("missing ik frame", func(t *testing.T) {
		err := NewAmbiguousOrMissingFrameError("manipulator", 0, false)
		test.That(t, err, test.ShouldBeError, errors.New("missing ik_frame"))
		test.That(t, IsAmbiguousOrMissingFrame(err), test.ShouldBeTrue)
		test.That(t, IsUnknownFrame(err), test.ShouldBeFalse)
	})

	t.Run("frame without link", func(t *testing.T) {
		err := NewAmbiguousOrMissingFrameError("manipulator", 2, true)
		test.That(t, err, test.ShouldBeError, errors.New("ik_frame doesn't specify a link frame"))
		test.That(t, IsAmbiguousOrMissingFrame(errors.Wrap(err, "compute ik")), test.ShouldBeTrue)
	})

	t.Run("unknown frame", func(t *testing.T) {
		err := errors.Wrap(NewUnknownFrameError("camera"), "compute ik")
		test.That(t, IsUnknownFrame(err), test.ShouldBeTrue)
		test.That(t, IsAmbiguousOrMissingFrame(err), test.ShouldBeFalse)
		var unknown *UnknownFrameError
		test.That(t, errors.As(err, &unknown), test.ShouldBeTrue)
		test.That(t, unknown.FrameID, test.ShouldEqual, "camera")
		test.That(t, err.Error(), test.ShouldEqual, "compute ik: ik_frame specified in unknown frame 'camera'")
	})

	test.That(t, IsUnknownFrame(nil), test.ShouldBeFalse)
	test.That(t, IsAmbiguousOrMissingFrame(errors.New("missing ik_frame")), test.ShouldBeFalse)
}
