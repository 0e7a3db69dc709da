package motionplan

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	missingIKFrameMsg = "missing ik_frame"
	noLinkFrameMsg    = "ik_frame doesn't specify a link frame"
)

// AmbiguousOrMissingFrameError is returned when an IK frame has to come from the group's end effector
// but the group does not have exactly one tip link.
type AmbiguousOrMissingFrameError struct {
	Group    string
	TipCount int
	msg      string
}

func (e *AmbiguousOrMissingFrameError) Error() string {
	return e.msg
}

// NewAmbiguousOrMissingFrameError returns an error for a group with tipCount tips. When explicitFrame is
// set the caller did name a frame, but it was not attached to any link.
func NewAmbiguousOrMissingFrameError(group string, tipCount int, explicitFrame bool) error {
	msg := missingIKFrameMsg
	if explicitFrame {
		msg = noLinkFrameMsg
	}
	return &AmbiguousOrMissingFrameError{Group: group, TipCount: tipCount, msg: msg}
}

// UnknownFrameError is returned when an IK frame names a frame the robot state does not know.
type UnknownFrameError struct {
	FrameID string
}

func (e *UnknownFrameError) Error() string {
	return fmt.Sprintf("ik_frame specified in unknown frame '%s'", e.FrameID)
}

// NewUnknownFrameError returns an error naming the unknown frame id.
func NewUnknownFrameError(frameID string) error {
	return &UnknownFrameError{FrameID: frameID}
}

// IsAmbiguousOrMissingFrame reports whether err is, or wraps, an AmbiguousOrMissingFrameError.
func IsAmbiguousOrMissingFrame(err error) bool {
	var target *AmbiguousOrMissingFrameError
	return errors.As(err, &target)
}

// IsUnknownFrame reports whether err is, or wraps, an UnknownFrameError.
func IsUnknownFrame(err error) bool {
	var target *UnknownFrameError
	return errors.As(err, &target)
}
