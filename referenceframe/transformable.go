package referenceframe

import (
	commonpb "go.viam.com/api/common/v1"

	"go.viam.com/taskconstructor/spatialmath"
)

// PoseInFrame is a data structure that packages a pose with the name of the
// frame in which it was observed. An empty frame name means no frame was specified.
type PoseInFrame struct {
	parent string
	pose   spatialmath.Pose
}

// NewPoseInFrame generates a new PoseInFrame. A nil pose is replaced by the zero pose.
func NewPoseInFrame(frame string, pose spatialmath.Pose) *PoseInFrame {
	if pose == nil {
		pose = spatialmath.NewZeroPose()
	}
	return &PoseInFrame{
		parent: frame,
		pose:   pose,
	}
}

// NewZeroPoseInFrame returns a new PoseInFrame with a zero pose.
func NewZeroPoseInFrame(frame string) *PoseInFrame {
	return NewPoseInFrame(frame, spatialmath.NewZeroPose())
}

// Parent returns the name of the frame in which the pose was observed.
func (pF *PoseInFrame) Parent() string {
	return pF.parent
}

// Pose returns the pose that was observed.
func (pF *PoseInFrame) Pose() spatialmath.Pose {
	return pF.pose
}

// AlmostEqual returns whether two PoseInFrames share a frame and approximately the same pose.
func (pF *PoseInFrame) AlmostEqual(other *PoseInFrame) bool {
	return pF.parent == other.parent && spatialmath.PoseAlmostEqual(pF.pose, other.pose)
}

// PoseInFrameToProtobuf converts a PoseInFrame struct to a
// PoseInFrame message as specified in common.proto.
func PoseInFrameToProtobuf(framedPose *PoseInFrame) *commonpb.PoseInFrame {
	return &commonpb.PoseInFrame{
		ReferenceFrame: framedPose.parent,
		Pose:           spatialmath.PoseToProtobuf(framedPose.pose),
	}
}

// ProtobufToPoseInFrame converts a PoseInFrame message as specified in
// common.proto to a PoseInFrame struct.
func ProtobufToPoseInFrame(proto *commonpb.PoseInFrame) *PoseInFrame {
	return NewPoseInFrame(proto.GetReferenceFrame(), spatialmath.NewPoseFromProtobuf(proto.GetPose()))
}
