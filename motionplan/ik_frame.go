package motionplan

import (
	"go.viam.com/taskconstructor/planningscene"
	"go.viam.com/taskconstructor/properties"
	"go.viam.com/taskconstructor/robot"
	spatial "go.viam.com/taskconstructor/spatialmath"
)

// Resolution records how an IK frame was determined.
type Resolution int

// The ways an IK frame can be resolved.
const (
	ResolvedByTip Resolution = iota
	ResolvedByExplicitFrame
)

func (r Resolution) String() string {
	if r == ResolvedByExplicitFrame {
		return "explicit frame"
	}
	return "end effector tip"
}

// IKFrame is the link an IK target is expressed for, together with the pose of the target frame in the
// planning frame.
type IKFrame struct {
	Link       *robot.Link
	Pose       spatial.Pose
	Resolution Resolution
}

type failureKind int

const (
	noFailure failureKind = iota
	failMissingFrame
	failNoLinkFrame
	failUnknownFrame
)

// frameInput holds everything the resolution rules look at.
type frameInput struct {
	propertyEmpty bool
	frameID       string
	lookupFound   bool
	lookupHasLink bool
	tipCount      int
}

// frameDecision says where the link and the reference pose come from.
type frameDecision struct {
	failure    failureKind
	resolution Resolution
	// linkFromTip takes the group's single tip instead of the looked up link.
	linkFromTip bool
	// referenceFromLink replaces the looked up reference pose with the global transform of the resolved link.
	referenceFromLink bool
	// composeLocal applies the property's local pose on top of the reference.
	composeLocal bool
}

// decideIKFrame applies the resolution rules in order:
//
//	empty property          -> single tip with its global transform, else missing ik_frame
//	unknown, non-empty id   -> unknown frame
//	no link for the id      -> single tip, else no link frame
//	not found (empty id)    -> reference is the resolved link's global transform
//	otherwise               -> looked up link and reference, composed with the local pose
func decideIKFrame(in frameInput) frameDecision {
	if in.propertyEmpty {
		if in.tipCount != 1 {
			return frameDecision{failure: failMissingFrame}
		}
		return frameDecision{resolution: ResolvedByTip, linkFromTip: true, referenceFromLink: true}
	}
	if !in.lookupFound && in.frameID != "" {
		return frameDecision{failure: failUnknownFrame}
	}
	d := frameDecision{resolution: ResolvedByExplicitFrame, composeLocal: true}
	if !in.lookupHasLink {
		if in.tipCount != 1 {
			return frameDecision{failure: failNoLinkFrame}
		}
		d.linkFromTip = true
	}
	if !in.lookupFound {
		d.resolution = ResolvedByTip
		d.referenceFromLink = true
	}
	return d
}

// frameLookup is the part of a robot state the resolution reads.
type frameLookup interface {
	FrameInfo(frameID string) (*robot.Link, bool, spatial.Pose)
	GlobalLinkTransform(link *robot.Link) spatial.Pose
}

var _ frameLookup = (*robot.State)(nil)

// ResolveIKFrame determines the link and global pose an IK target refers to. An empty property selects
// the group's end effector. Otherwise the property must hold a pose in frame, which is resolved against
// the scene's current state and expressed in the planning frame. A property holding another kind of
// value panics with a *properties.TypeMismatchError.
func ResolveIKFrame(prop properties.Value, scene planningscene.Scene, group robot.JointGroup) (*IKFrame, error) {
	return resolveIKFrame(prop, scene.CurrentState(), group)
}

func resolveIKFrame(prop properties.Value, state frameLookup, group robot.JointGroup) (*IKFrame, error) {
	var tips []*robot.Link
	var groupName string
	if group != nil {
		tips = group.EndEffectorTips()
		groupName = group.Name()
	}

	in := frameInput{propertyEmpty: prop.IsEmpty(), tipCount: len(tips)}
	var (
		link      *robot.Link
		reference spatial.Pose
		local     spatial.Pose
	)
	if !in.propertyEmpty {
		target := prop.PoseInFrame()
		local = target.Pose()
		in.frameID = target.Parent()
		link, in.lookupFound, reference = state.FrameInfo(in.frameID)
		in.lookupHasLink = link != nil
	}

	d := decideIKFrame(in)
	switch d.failure {
	case failMissingFrame:
		return nil, NewAmbiguousOrMissingFrameError(groupName, len(tips), false)
	case failNoLinkFrame:
		return nil, NewAmbiguousOrMissingFrameError(groupName, len(tips), true)
	case failUnknownFrame:
		return nil, NewUnknownFrameError(in.frameID)
	case noFailure:
	}

	if d.linkFromTip {
		link = tips[0]
	}
	if d.referenceFromLink {
		reference = state.GlobalLinkTransform(link)
	}
	pose := reference
	if d.composeLocal && local != nil {
		pose = spatial.Compose(reference, local)
	}
	return &IKFrame{Link: link, Pose: pose, Resolution: d.resolution}, nil
}
