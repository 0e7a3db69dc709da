// Package referenceframe defines the api and does the math of translating between reference frames.
// A robot's links are connected by frames: fixed offsets, revolute joints and prismatic joints. Chaining the
// transforms of those frames from a link up to the world gives the link's global pose.
package referenceframe

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	spatial "go.viam.com/taskconstructor/spatialmath"
	"go.viam.com/taskconstructor/utils"
)

// Limit is the closed range of inputs a single degree of freedom accepts.
type Limit struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the limit.
func (l Limit) Contains(v float64) bool {
	return v >= l.Min && v <= l.Max
}

// Clamp returns the value of the limit closest to v.
func (l Limit) Clamp(v float64) float64 {
	return utils.Clamp(v, l.Min, l.Max)
}

func (l Limit) almostEqual(other Limit) bool {
	const epsilon = 1e-5
	return utils.Float64AlmostEqual(l.Min, other.Min, epsilon) && utils.Float64AlmostEqual(l.Max, other.Max, epsilon)
}

// checkSingleInput validates the input of a one DoF frame. A value outside the limit is still returned,
// together with an out of bounds error.
func checkSingleInput(input []Input, limit Limit) (float64, error) {
	if len(input) != 1 {
		return 0, NewIncorrectDoFError(len(input), 1)
	}
	if !limit.Contains(input[0].Value) {
		return input[0].Value, NewOutOfBoundsError(input[0].Value, limit)
	}
	return input[0].Value, nil
}

// UnboundedLimit is a Limit that admits every input.
func UnboundedLimit() Limit {
	return Limit{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Frame represents a reference frame, e.g. a fixed link offset or a joint.
type Frame interface {
	// Name returns the name of the referenceframe.
	Name() string

	// Transform is the pose (rotation and translation) that goes FROM current frame TO parent's referenceframe.
	Transform([]Input) (spatial.Pose, error)

	// DoF will return a slice with length equal to the number of joints/degrees of freedom.
	// Each element describes the min and max movement limit of that joint/degree of freedom.
	// For robot parts that don't move, it returns an empty slice.
	DoF() []Limit

	// AlmostEquals returns if the otherFrame is close to the referenceframe.
	// differences should just be things like floating point inprecision
	AlmostEquals(otherFrame Frame) bool
}

// a static Frame is a simple corrdinate system that encodes a fixed translation and rotation
// from the current Frame to the parent referenceframe.
type staticFrame struct {
	name      string
	transform spatial.Pose
}

// NewStaticFrame creates a frame given a pose relative to its parent. The pose is fixed for all time.
// Pose is not allowed to be nil.
func NewStaticFrame(name string, pose spatial.Pose) (Frame, error) {
	if pose == nil {
		return nil, errors.New("pose is not allowed to be nil")
	}
	return &staticFrame{name, pose}, nil
}

// NewZeroStaticFrame creates a frame with no translation or orientation changes.
func NewZeroStaticFrame(name string) Frame {
	return &staticFrame{name, spatial.NewZeroPose()}
}

// Name is the name of the referenceframe.
func (sf *staticFrame) Name() string {
	return sf.name
}

// Transform returns the pose associated with this static referenceframe.
func (sf *staticFrame) Transform(input []Input) (spatial.Pose, error) {
	if len(input) != 0 {
		return nil, NewIncorrectDoFError(len(input), 0)
	}
	return sf.transform, nil
}

// DoF are the degrees of freedom of the transform. In the staticFrame, it is always 0.
func (sf *staticFrame) DoF() []Limit {
	return []Limit{}
}

func (sf *staticFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*staticFrame)
	return ok && sf.name == other.name && spatial.PoseAlmostEqual(sf.transform, other.transform)
}

// a prismatic Frame is a frame that can translate without rotation along a single axis.
type translationalFrame struct {
	name      string
	transAxis r3.Vector
	limit     []Limit
}

// NewTranslationalFrame creates a frame given a name and the axis in which to translate.
func NewTranslationalFrame(name string, axis r3.Vector, limit Limit) (Frame, error) {
	if spatial.R3VectorAlmostEqual(r3.Vector{}, axis, 1e-8) {
		return nil, errors.New("cannot use zero vector as translation axis")
	}
	return &translationalFrame{name: name, transAxis: axis.Normalize(), limit: []Limit{limit}}, nil
}

// Name is the name of the frame.
func (pf *translationalFrame) Name() string {
	return pf.name
}

// Transform returns a pose translated along the axis by the input. Out of bounds inputs still produce a pose.
func (pf *translationalFrame) Transform(input []Input) (spatial.Pose, error) {
	v, err := checkSingleInput(input, pf.limit[0])
	if len(input) != 1 {
		return nil, err
	}
	return spatial.NewPoseFromPoint(pf.transAxis.Mul(v)), err
}

// DoF are the degrees of freedom of the transform.
func (pf *translationalFrame) DoF() []Limit {
	return pf.limit
}

func (pf *translationalFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*translationalFrame)
	return ok && pf.name == other.name &&
		spatial.R3VectorAlmostEqual(pf.transAxis, other.transAxis, 1e-8) &&
		pf.limit[0].almostEqual(other.limit[0])
}

type rotationalFrame struct {
	name    string
	rotAxis r3.Vector
	limit   []Limit
}

// NewRotationalFrame creates a new rotationalFrame struct.
// A standard revolute joint will have 1 DoF.
func NewRotationalFrame(name string, axis spatial.R4AA, limit Limit) (Frame, error) {
	axis.Normalize()
	return &rotationalFrame{
		name:    name,
		rotAxis: r3.Vector{X: axis.RX, Y: axis.RY, Z: axis.RZ},
		limit:   []Limit{limit},
	}, nil
}

// Transform returns the rotation by the input angle about the frame's axis. Out of bounds inputs still
// produce a pose.
func (rf *rotationalFrame) Transform(input []Input) (spatial.Pose, error) {
	v, err := checkSingleInput(input, rf.limit[0])
	if len(input) != 1 {
		return nil, err
	}
	return spatial.NewPoseFromOrientation(&spatial.R4AA{Theta: v, RX: rf.rotAxis.X, RY: rf.rotAxis.Y, RZ: rf.rotAxis.Z}), err
}

// DoF returns the number of degrees of freedom that a joint has. This would be 1 for a standard revolute joint.
func (rf *rotationalFrame) DoF() []Limit {
	return rf.limit
}

// Name returns the name of the referenceframe.
func (rf *rotationalFrame) Name() string {
	return rf.name
}

func (rf *rotationalFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*rotationalFrame)
	return ok && rf.name == other.name &&
		spatial.R3VectorAlmostEqual(rf.rotAxis, other.rotAxis, 1e-8) &&
		rf.limit[0].almostEqual(other.limit[0])
}
