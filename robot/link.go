// Package robot holds the kinematic model of an articulated robot: its links, the joints connecting them,
// named joint groups and immutable joint-space states with cached global link transforms.
package robot

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/taskconstructor/referenceframe"
	spatial "go.viam.com/taskconstructor/spatialmath"
)

// JointType describes how a joint moves its child link relative to its parent link.
type JointType string

// The supported joint types.
const (
	FixedJoint     = JointType("fixed")
	RevoluteJoint  = JointType("revolute")
	PrismaticJoint = JointType("prismatic")
)

// Link is a rigid body of a robot model. Links are owned by their Model and are never copied, so
// pointer equality identifies a link.
type Link struct {
	name        string
	index       int
	parentJoint *Joint
	childJoints []*Joint
	geometries  []spatial.Geometry
}

// Name returns the name of the link.
func (l *Link) Name() string {
	return l.name
}

// Index is the position of the link in the model's depth-first link order.
func (l *Link) Index() int {
	return l.index
}

// ParentJoint returns the joint connecting this link to its parent, or nil for the root link.
func (l *Link) ParentJoint() *Joint {
	return l.parentJoint
}

// ParentLink returns the parent link, or nil for the root link.
func (l *Link) ParentLink() *Link {
	if l.parentJoint == nil {
		return nil
	}
	return l.parentJoint.parent
}

// ChildJoints returns the joints for which this link is the parent.
func (l *Link) ChildJoints() []*Joint {
	return l.childJoints
}

// Geometries returns the collision geometries of the link, expressed in the link frame.
func (l *Link) Geometries() []spatial.Geometry {
	return l.geometries
}

func (l *Link) String() string {
	return fmt.Sprintf("link %q", l.name)
}

// Joint connects a parent link to a child link.
type Joint struct {
	name      string
	jointType JointType
	parent    *Link
	child     *Link
	origin    spatial.Pose
	axis      r3.Vector
	limit     referenceframe.Limit
}

// Name returns the name of the joint.
func (j *Joint) Name() string {
	return j.name
}

// Type returns the joint type.
func (j *Joint) Type() JointType {
	return j.jointType
}

// ParentLink returns the link the joint is mounted on.
func (j *Joint) ParentLink() *Link {
	return j.parent
}

// ChildLink returns the link moved by the joint.
func (j *Joint) ChildLink() *Link {
	return j.child
}

// Origin is the pose of the joint frame in the parent link frame when the joint is at zero.
func (j *Joint) Origin() spatial.Pose {
	return j.origin
}

// Axis is the unit axis of motion in the joint frame. Zero for fixed joints.
func (j *Joint) Axis() r3.Vector {
	return j.axis
}

// Limit returns the joint bounds in radians or mm. Fixed joints return a zero Limit.
func (j *Joint) Limit() referenceframe.Limit {
	return j.limit
}

// Movable is true for joints that take an input.
func (j *Joint) Movable() bool {
	return j.jointType != FixedJoint
}

// originFrameName is the name of the static frame holding the joint origin in the model's frame system.
func (j *Joint) originFrameName() string {
	return j.name + "_origin"
}

// frames returns the frames that implement this joint, ordered from the parent link outward.
func (j *Joint) frames() ([]referenceframe.Frame, error) {
	if j.jointType == FixedJoint {
		f, err := referenceframe.NewStaticFrame(j.name, j.origin)
		if err != nil {
			return nil, err
		}
		return []referenceframe.Frame{f}, nil
	}

	origin, err := referenceframe.NewStaticFrame(j.originFrameName(), j.origin)
	if err != nil {
		return nil, err
	}
	var motion referenceframe.Frame
	switch j.jointType {
	case RevoluteJoint:
		motion, err = referenceframe.NewRotationalFrame(j.name, spatial.R4AA{RX: j.axis.X, RY: j.axis.Y, RZ: j.axis.Z}, j.limit)
	case PrismaticJoint:
		motion, err = referenceframe.NewTranslationalFrame(j.name, j.axis, j.limit)
	case FixedJoint:
	default:
		err = NewUnsupportedJointTypeError(j.name, j.jointType)
	}
	if err != nil {
		return nil, err
	}
	return []referenceframe.Frame{origin, motion}, nil
}
