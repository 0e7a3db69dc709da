package referenceframe

import (
	"sort"

	"github.com/pkg/errors"

	spatial "go.viam.com/taskconstructor/spatialmath"
)

// World is the string "world", but made into an exported constant.
const World = "world"

// FrameSystem represents a tree of frames connected to each other, allowing for transformations between any two frames.
type FrameSystem interface {
	// Name returns the name of this FrameSystem
	Name() string

	// World returns the frame corresponding to the root of the FrameSystem, from which other frames are defined with respect to
	World() Frame

	// FrameNames returns the names of all of the frames that exist in the FrameSystem, sorted
	FrameNames() []string

	// Frame returns the Frame in the FrameSystem corresponding to the name, or nil if it does not exist
	Frame(name string) Frame

	// AddFrame inserts a given Frame into the FrameSystem as a child of the parent Frame
	AddFrame(frame, parent Frame) error

	// TracebackFrame traces the parentage of the given frame up to the world, and returns the full list of frames in between.
	// The list will include both the query frame and the world referenceframe
	TracebackFrame(frame Frame) ([]Frame, error)

	// Parent returns the parent Frame for the given Frame in the FrameSystem
	Parent(frame Frame) (Frame, error)

	// Transform takes in a PoseInFrame and destination frame, and returns the pose expressed in the destination.
	// Inputs must be supplied for every frame with non-zero DoF between the two frames and the world.
	Transform(inputs FrameSystemInputs, pif *PoseInFrame, dst string) (*PoseInFrame, error)
}

// treeFrameSystem implements FrameSystem. It is a simple tree graph.
type treeFrameSystem struct {
	name    string
	world   Frame // separate from the map of frames so it can be detached easily
	frames  map[string]Frame
	parents map[Frame]Frame
}

// NewEmptyFrameSystem creates a graph of Frames that have.
func NewEmptyFrameSystem(name string) FrameSystem {
	worldFrame := NewZeroStaticFrame(World)
	return &treeFrameSystem{name, worldFrame, map[string]Frame{}, map[Frame]Frame{}}
}

// Name returns the name of the frame system.
func (sfs *treeFrameSystem) Name() string {
	return sfs.name
}

// World returns the base world referenceframe.
func (sfs *treeFrameSystem) World() Frame {
	return sfs.world
}

var errNoParent = errors.New("no parent")

// Parent returns the parent frame of the input referenceframe. nil if input is World.
func (sfs *treeFrameSystem) Parent(frame Frame) (Frame, error) {
	if !sfs.frameExists(frame.Name()) {
		return nil, NewFrameMissingError(frame.Name())
	}
	if frame == sfs.world {
		return nil, errNoParent
	}
	return sfs.parents[frame], nil
}

// frameExists is a helper function to see if a frame with a given name already exists in the system.
func (sfs *treeFrameSystem) frameExists(name string) bool {
	if name == World {
		return true
	}
	_, ok := sfs.frames[name]
	return ok
}

// Frame returns the frame given the name of the referenceframe. Returns nil if the frame is not found.
func (sfs *treeFrameSystem) Frame(name string) Frame {
	if name == World {
		return sfs.world
	}
	return sfs.frames[name]
}

// TracebackFrame traces the parentage of the given frame up to the world, and returns the full list of frames in between.
// The list will include both the query frame and the world referenceframe.
func (sfs *treeFrameSystem) TracebackFrame(query Frame) ([]Frame, error) {
	if !sfs.frameExists(query.Name()) {
		return nil, NewFrameMissingError(query.Name())
	}
	if query == sfs.world {
		return []Frame{query}, nil
	}
	parents, err := sfs.TracebackFrame(sfs.parents[query])
	if err != nil {
		return nil, err
	}
	return append([]Frame{query}, parents...), nil
}

// FrameNames returns the sorted list of frame names registered in the frame system.
func (sfs *treeFrameSystem) FrameNames() []string {
	frameNames := make([]string, 0, len(sfs.frames))
	for k := range sfs.frames {
		frameNames = append(frameNames, k)
	}
	sort.Strings(frameNames)
	return frameNames
}

// AddFrame sets an already defined Frame into the system.
func (sfs *treeFrameSystem) AddFrame(frame, parent Frame) error {
	if frame == nil {
		return errors.New("cannot add nil frame")
	}
	if parent == nil {
		return errors.Errorf("frame %q has nil parent", frame.Name())
	}
	if frame.Name() == World {
		return NewReservedWordError("frame", World)
	}
	if !sfs.frameExists(parent.Name()) {
		return NewParentFrameMissingError(frame.Name(), parent.Name())
	}
	if sfs.frameExists(frame.Name()) {
		return NewFrameAlreadyExistsError(frame.Name())
	}
	sfs.frames[frame.Name()] = frame
	sfs.parents[frame] = parent
	return nil
}

// Transform takes in a PoseInFrame and a destination frame name and returns the pose expressed in the destination frame.
func (sfs *treeFrameSystem) Transform(inputs FrameSystemInputs, pif *PoseInFrame, dst string) (*PoseInFrame, error) {
	src := sfs.Frame(pif.Parent())
	if src == nil {
		return nil, NewFrameMissingError(pif.Parent())
	}
	dstFrame := sfs.Frame(dst)
	if dstFrame == nil {
		return nil, NewFrameMissingError(dst)
	}
	srcToWorld, err := sfs.transformToWorld(inputs, src)
	if err != nil {
		return nil, err
	}
	dstToWorld, err := sfs.transformToWorld(inputs, dstFrame)
	if err != nil {
		return nil, err
	}
	inWorld := spatial.Compose(srcToWorld, pif.Pose())
	return NewPoseInFrame(dst, spatial.Compose(spatial.PoseInverse(dstToWorld), inWorld)), nil
}

// transformToWorld composes the transforms of every frame between the query frame and the world.
func (sfs *treeFrameSystem) transformToWorld(inputs FrameSystemInputs, frame Frame) (spatial.Pose, error) {
	chain, err := sfs.TracebackFrame(frame)
	if err != nil {
		return nil, err
	}
	pose := spatial.NewZeroPose()
	for _, f := range chain {
		frameInputs, err := inputs.GetFrameInputs(f)
		if err != nil {
			return nil, err
		}
		tf, err := f.Transform(frameInputs)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot transform frame %q", f.Name())
		}
		pose = spatial.Compose(tf, pose)
	}
	return pose, nil
}
