package robot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/taskconstructor/referenceframe"
	spatial "go.viam.com/taskconstructor/spatialmath"
)

// AttachedBody is a rigid object carried by a link of the robot, e.g. a grasped part.
type AttachedBody struct {
	name       string
	link       *Link
	pose       spatial.Pose
	geometries []spatial.Geometry
	touchLinks []string
}

// NewAttachedBody creates a body rigidly attached to link at pose (in the link frame). Geometries are
// expressed in the body frame. Collisions between the body and touchLinks are allowed.
func NewAttachedBody(name string, link *Link, pose spatial.Pose, geometries []spatial.Geometry, touchLinks ...string) *AttachedBody {
	if pose == nil {
		pose = spatial.NewZeroPose()
	}
	return &AttachedBody{name: name, link: link, pose: pose, geometries: geometries, touchLinks: touchLinks}
}

// Name returns the name of the body.
func (ab *AttachedBody) Name() string {
	return ab.name
}

// Link returns the link the body is attached to.
func (ab *AttachedBody) Link() *Link {
	return ab.link
}

// Pose returns the pose of the body in the link frame.
func (ab *AttachedBody) Pose() spatial.Pose {
	return ab.pose
}

// Geometries returns the body's geometries in the body frame.
func (ab *AttachedBody) Geometries() []spatial.Geometry {
	return ab.geometries
}

// TouchLinks returns the names of links the body may touch without being in collision. The link the body
// is attached to is always included.
func (ab *AttachedBody) TouchLinks() []string {
	touch := []string{ab.link.name}
	for _, l := range ab.touchLinks {
		if l != ab.link.name {
			touch = append(touch, l)
		}
	}
	return touch
}

// State is an immutable joint-space snapshot of a Model. Global link transforms are computed once on
// construction so a State can be shared between goroutines.
type State struct {
	model          *Model
	positions      map[string]float64
	linkTransforms []spatial.Pose
	attached       map[string]*AttachedBody
}

// NewDefaultState returns the state with every movable joint at zero, clamped into its limits.
func NewDefaultState(model *Model) *State {
	positions := map[string]float64{}
	for _, j := range model.MovableJoints() {
		positions[j.name] = j.limit.Clamp(0)
	}
	s, err := newState(model, positions, nil)
	if err != nil {
		// positions are within limits by construction
		panic(err)
	}
	return s
}

// NewState creates a state from joint positions keyed by joint name. Joints that are not mentioned take
// their default position. Every position must lie within the joint limits.
func NewState(model *Model, positions map[string]float64) (*State, error) {
	return NewDefaultState(model).WithPositions(positions)
}

// WithPositions returns a copy of the state with the given joint positions replaced. Attached bodies
// are carried over.
func (s *State) WithPositions(positions map[string]float64) (*State, error) {
	merged := make(map[string]float64, len(s.positions))
	for name, v := range s.positions {
		merged[name] = v
	}

	var errs error
	for _, name := range sortedKeys(positions) {
		v := positions[name]
		j := s.model.Joint(name)
		switch {
		case j == nil:
			errs = multierr.Append(errs, NewUnknownJointError(name))
		case !j.Movable():
			errs = multierr.Append(errs, errors.Errorf("joint %q is fixed and takes no position", name))
		case !j.limit.Contains(v):
			errs = multierr.Append(errs, NewJointOutOfBoundsError(name, v, j.limit))
		default:
			merged[name] = v
		}
	}
	if errs != nil {
		return nil, errs
	}
	return newState(s.model, merged, s.attached)
}

func newState(model *Model, positions map[string]float64, attached map[string]*AttachedBody) (*State, error) {
	s := &State{
		model:          model,
		positions:      positions,
		linkTransforms: make([]spatial.Pose, len(model.links)),
		attached:       attached,
	}
	inputs := s.Inputs()
	for _, l := range model.links {
		pif, err := model.fs.Transform(inputs, referenceframe.NewZeroPoseInFrame(l.name), referenceframe.World)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot compute transform of link %q", l.name)
		}
		s.linkTransforms[l.index] = pif.Pose()
	}
	return s, nil
}

// Model returns the model the state belongs to.
func (s *State) Model() *Model {
	return s.model
}

// JointPosition returns the position of the named movable joint.
func (s *State) JointPosition(name string) (float64, bool) {
	v, ok := s.positions[name]
	return v, ok
}

// Positions returns a copy of all movable joint positions keyed by joint name.
func (s *State) Positions() map[string]float64 {
	positions := make(map[string]float64, len(s.positions))
	for name, v := range s.positions {
		positions[name] = v
	}
	return positions
}

// Inputs returns the joint positions as inputs to the model's frame system.
func (s *State) Inputs() referenceframe.FrameSystemInputs {
	return referenceframe.InputsFromPositions(s.positions)
}

// String prints a table of each link, with columns of parent joint, joint position and global pose.
func (s *State) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Link", "Parent Joint", "Position", "Translation", "Orientation"})
	for _, link := range s.model.links {
		joint, position := "", ""
		if pj := link.parentJoint; pj != nil {
			joint = pj.name
			if v, ok := s.positions[pj.name]; ok {
				position = fmt.Sprintf("%.4f", v)
			}
		}
		pose := s.linkTransforms[link.index]
		tra := pose.Point()
		ovd := pose.Orientation().OrientationVectorDegrees()
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", link.index),
			link.name,
			joint,
			position,
			fmt.Sprintf("X:%.0f, Y:%.0f, Z:%.0f", tra.X, tra.Y, tra.Z),
			fmt.Sprintf("OX:%.2f, OY:%.2f, OZ:%.2f, Th:%.2f", ovd.OX, ovd.OY, ovd.OZ, ovd.Theta),
		})
	}
	return t.Render()
}

// GlobalLinkTransform returns the pose of the link in the model frame. Links that do not belong to the
// state's model yield the identity.
func (s *State) GlobalLinkTransform(link *Link) spatial.Pose {
	if !s.ownsLink(link) {
		return spatial.NewZeroPose()
	}
	return s.linkTransforms[link.index]
}

func (s *State) ownsLink(link *Link) bool {
	return link != nil && link.index < len(s.model.links) && s.model.links[link.index] == link
}

// GlobalLinkGeometries returns the link's collision geometries placed in the model frame.
func (s *State) GlobalLinkGeometries(link *Link) []spatial.Geometry {
	tf := s.GlobalLinkTransform(link)
	geoms := make([]spatial.Geometry, 0, len(link.geometries))
	for _, g := range link.geometries {
		geoms = append(geoms, g.Transform(tf))
	}
	return geoms
}

// WithAttachedBody returns a copy of the state carrying the body. Body names must be unique and must not
// shadow a link or the model frame, since they share the frame namespace.
func (s *State) WithAttachedBody(body *AttachedBody) (*State, error) {
	switch {
	case body == nil:
		return nil, errors.New("cannot attach nil body")
	case body.name == "":
		return nil, NewAttachedBodyError(body.name, "name cannot be empty")
	case !s.ownsLink(body.link):
		return nil, NewAttachedBodyError(body.name, "link does not belong to the model")
	case s.model.Link(body.name) != nil || body.name == s.model.modelFrame:
		return nil, NewAttachedBodyError(body.name, "name is already used by a frame of the model")
	}
	if _, ok := s.attached[body.name]; ok {
		return nil, NewAttachedBodyError(body.name, "a body with this name is already attached")
	}

	attached := make(map[string]*AttachedBody, len(s.attached)+1)
	for name, b := range s.attached {
		attached[name] = b
	}
	attached[body.name] = body
	return &State{model: s.model, positions: s.positions, linkTransforms: s.linkTransforms, attached: attached}, nil
}

// WithoutAttachedBody returns a copy of the state without the named body.
func (s *State) WithoutAttachedBody(name string) *State {
	attached := make(map[string]*AttachedBody, len(s.attached))
	for n, b := range s.attached {
		if n != name {
			attached[n] = b
		}
	}
	return &State{model: s.model, positions: s.positions, linkTransforms: s.linkTransforms, attached: attached}
}

// AttachedBody returns the named attached body.
func (s *State) AttachedBody(name string) (*AttachedBody, bool) {
	b, ok := s.attached[name]
	return b, ok
}

// AttachedBodies returns the attached bodies sorted by name.
func (s *State) AttachedBodies() []*AttachedBody {
	bodies := make([]*AttachedBody, 0, len(s.attached))
	for _, name := range sortedKeys(s.attached) {
		bodies = append(bodies, s.attached[name])
	}
	return bodies
}

// AttachedBodyTransform returns the pose of the body in the model frame.
func (s *State) AttachedBodyTransform(body *AttachedBody) spatial.Pose {
	return spatial.Compose(s.GlobalLinkTransform(body.link), body.pose)
}

// GlobalAttachedBodyGeometries returns the body's geometries placed in the model frame.
func (s *State) GlobalAttachedBodyGeometries(body *AttachedBody) []spatial.Geometry {
	tf := s.AttachedBodyTransform(body)
	geoms := make([]spatial.Geometry, 0, len(body.geometries))
	for _, g := range body.geometries {
		geoms = append(geoms, g.Transform(tf))
	}
	return geoms
}

// FrameInfo looks up a frame id and reports the link the frame is rigidly attached to, whether the id was
// known, and the frame's pose in the model frame. Leading slashes are ignored. The model frame resolves to
// the root link with the identity, a link to itself with its global transform, and an attached body to
// its parent link with the body's global pose. Unknown ids return (nil, false, identity).
func (s *State) FrameInfo(frameID string) (*Link, bool, spatial.Pose) {
	id := strings.TrimLeft(frameID, "/")
	if id == s.model.modelFrame {
		return s.model.root, true, spatial.NewZeroPose()
	}
	if l := s.model.Link(id); l != nil {
		return l, true, s.GlobalLinkTransform(l)
	}
	if b, ok := s.attached[id]; ok {
		return b.link, true, s.AttachedBodyTransform(b)
	}
	return nil, false, spatial.NewZeroPose()
}

// KnowsFrameTransform reports whether FrameInfo would find the frame id.
func (s *State) KnowsFrameTransform(frameID string) bool {
	_, found, _ := s.FrameInfo(frameID)
	return found
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
