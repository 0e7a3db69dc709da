// Package properties holds typed stage configuration values. A value is empty or carries exactly one
// payload from a small closed set of kinds.
package properties

import (
	"fmt"

	commonpb "go.viam.com/api/common/v1"

	"go.viam.com/taskconstructor/referenceframe"
)

// Kind is the payload type held by a Value.
type Kind int

// The kinds a Value can hold.
const (
	KindEmpty Kind = iota
	KindPoseInFrame
	KindString
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindPoseInFrame:
		return "pose in frame"
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// TypeMismatchError is the panic value raised when a Value is read as a kind it does not hold.
type TypeMismatchError struct {
	Want, Got Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("property holds a %v value, not a %v value", e.Got, e.Want)
}

// Value is an immutable, possibly empty, property payload. The zero value is empty.
type Value struct {
	kind Kind
	pose *referenceframe.PoseInFrame
	str  string
	num  float64
}

// Empty returns a value that holds nothing.
func Empty() Value {
	return Value{}
}

// PoseInFrameValue wraps a pose expressed in a named frame. A nil pose gives an empty value.
func PoseInFrameValue(pif *referenceframe.PoseInFrame) Value {
	if pif == nil {
		return Value{}
	}
	return Value{kind: KindPoseInFrame, pose: pif}
}

// PoseInFrameValueFromProtobuf wraps a pose message.
func PoseInFrameValueFromProtobuf(proto *commonpb.PoseInFrame) Value {
	if proto == nil {
		return Value{}
	}
	return PoseInFrameValue(referenceframe.ProtobufToPoseInFrame(proto))
}

// StringValue wraps a string.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// FloatValue wraps a number.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, num: f}
}

// Kind returns the kind of payload held.
func (v Value) Kind() Kind {
	return v.kind
}

// IsEmpty reports whether the value holds nothing.
func (v Value) IsEmpty() bool {
	return v.kind == KindEmpty
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(&TypeMismatchError{Want: k, Got: v.kind})
	}
}

// PoseInFrame returns the pose payload. It panics with a *TypeMismatchError if the value holds anything
// else.
func (v Value) PoseInFrame() *referenceframe.PoseInFrame {
	v.mustBe(KindPoseInFrame)
	return v.pose
}

// Text returns the string payload. It panics with a *TypeMismatchError if the value holds anything else.
func (v Value) Text() string {
	v.mustBe(KindString)
	return v.str
}

// Float returns the numeric payload. It panics with a *TypeMismatchError if the value holds anything else.
func (v Value) Float() float64 {
	v.mustBe(KindFloat)
	return v.num
}

// String describes the kind and payload of the value.
func (v Value) String() string {
	switch v.kind {
	case KindPoseInFrame:
		return fmt.Sprintf("pose in frame %q", v.pose.Parent())
	case KindString:
		return fmt.Sprintf("string %q", v.str)
	case KindFloat:
		return fmt.Sprintf("float %v", v.num)
	default:
		return "empty"
	}
}
