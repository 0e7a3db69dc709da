package robot

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/taskconstructor/referenceframe"
	spatial "go.viam.com/taskconstructor/spatialmath"
)

// Model is an immutable kinematic tree of links connected by joints. The tree is backed by a
// referenceframe.FrameSystem whose world frame is the model frame.
type Model struct {
	name         string
	modelFrame   string
	root         *Link
	links        []*Link
	linksByName  map[string]*Link
	joints       []*Joint
	jointsByName map[string]*Joint
	groups       map[string]*Group
	fs           referenceframe.FrameSystem

	// pairs of link names that are never collision checked against each other
	disabledCollisions map[[2]string]bool
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// ModelFrame is the name of the frame every global transform of the model is expressed in.
func (m *Model) ModelFrame() string {
	return m.modelFrame
}

// RootLink returns the link attached to the model frame.
func (m *Model) RootLink() *Link {
	return m.root
}

// Links returns every link in depth-first order from the root.
func (m *Model) Links() []*Link {
	return m.links
}

// Link returns the link with the given name, or nil.
func (m *Model) Link(name string) *Link {
	return m.linksByName[name]
}

// Joints returns every joint in depth-first order from the root.
func (m *Model) Joints() []*Joint {
	return m.joints
}

// Joint returns the joint with the given name, or nil.
func (m *Model) Joint(name string) *Joint {
	return m.jointsByName[name]
}

// MovableJoints returns the joints that take an input, in depth-first order.
func (m *Model) MovableJoints() []*Joint {
	var movable []*Joint
	for _, j := range m.joints {
		if j.Movable() {
			movable = append(movable, j)
		}
	}
	return movable
}

// Group returns the named joint group.
func (m *Model) Group(name string) (*Group, bool) {
	g, ok := m.groups[name]
	return g, ok
}

// GroupNames returns the sorted names of the model's groups.
func (m *Model) GroupNames() []string {
	names := make([]string, 0, len(m.groups))
	for name := range m.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FrameSystem returns the frame system backing the model. Inputs are keyed by joint name.
func (m *Model) FrameSystem() referenceframe.FrameSystem {
	return m.fs
}

// CollisionDisabled reports whether collisions between the two links are never checked. Links
// directly connected by a joint are always disabled.
func (m *Model) CollisionDisabled(a, b string) bool {
	return m.disabledCollisions[linkPair(a, b)]
}

// DisabledCollisionPairs returns the sorted list of link pairs excluded from collision checking.
func (m *Model) DisabledCollisionPairs() [][2]string {
	pairs := make([][2]string, 0, len(m.disabledCollisions))
	for pair := range m.disabledCollisions {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

func linkPair(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// ModelBuilder assembles a Model programmatically. Errors are reported by Build.
type ModelBuilder struct {
	name       string
	modelFrame string
	root       string
	links      map[string]*Link
	joints     []*Joint
	groups     []groupSpec
	disabled   [][2]string
	err        error
}

type groupSpec struct {
	name  string
	links []string
	tips  []string
}

// NewModelBuilder starts a model whose root link is rootLink.
func NewModelBuilder(name, rootLink string, rootGeometries ...spatial.Geometry) *ModelBuilder {
	b := &ModelBuilder{
		name:       name,
		modelFrame: referenceframe.World,
		root:       rootLink,
		links:      map[string]*Link{},
	}
	b.addLink(rootLink, rootGeometries)
	return b
}

// SetModelFrame names the frame the root link is attached to. Defaults to "world".
func (b *ModelBuilder) SetModelFrame(name string) *ModelBuilder {
	b.modelFrame = name
	return b
}

func (b *ModelBuilder) addLink(name string, geometries []spatial.Geometry) *Link {
	if name == "" {
		b.fail(errors.New("link name cannot be empty"))
		return nil
	}
	if _, ok := b.links[name]; ok {
		b.fail(NewDuplicateNameError("link", name))
		return nil
	}
	l := &Link{name: name, geometries: geometries}
	b.links[name] = l
	return l
}

func (b *ModelBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// AddJoint adds a joint from an existing parent link to a new child link.
func (b *ModelBuilder) AddJoint(
	name string,
	jointType JointType,
	parent, child string,
	origin spatial.Pose,
	axis r3.Vector,
	limit referenceframe.Limit,
	childGeometries ...spatial.Geometry,
) *ModelBuilder {
	parentLink, ok := b.links[parent]
	if !ok {
		b.fail(NewUnknownLinkError(name, parent))
		return b
	}
	for _, j := range b.joints {
		if j.name == name {
			b.fail(NewDuplicateNameError("joint", name))
			return b
		}
	}
	childLink := b.addLink(child, childGeometries)
	if childLink == nil {
		return b
	}
	if origin == nil {
		origin = spatial.NewZeroPose()
	}
	j := &Joint{name: name, jointType: jointType, parent: parentLink, child: childLink, origin: origin}
	switch jointType {
	case FixedJoint:
	case RevoluteJoint, PrismaticJoint:
		if axis.Norm() == 0 {
			b.fail(NewZeroAxisError(name))
			return b
		}
		j.axis = axis.Normalize()
		j.limit = limit
		if limit.Min > limit.Max {
			b.fail(NewBadLimitError(name, limit))
			return b
		}
	default:
		b.fail(NewUnsupportedJointTypeError(name, jointType))
		return b
	}
	childLink.parentJoint = j
	parentLink.childJoints = append(parentLink.childJoints, j)
	b.joints = append(b.joints, j)
	return b
}

// AddGroup declares a joint group over the named links. When no tips are given they are inferred
// as the group links that have no child link inside the group.
func (b *ModelBuilder) AddGroup(name string, links, tips []string) *ModelBuilder {
	b.groups = append(b.groups, groupSpec{name: name, links: links, tips: tips})
	return b
}

// DisableCollisions excludes a pair of links from collision checking.
func (b *ModelBuilder) DisableCollisions(linkA, linkB string) *ModelBuilder {
	b.disabled = append(b.disabled, [2]string{linkA, linkB})
	return b
}

// Build validates the tree and creates the Model.
func (b *ModelBuilder) Build() (*Model, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.modelFrame == "" {
		return nil, errors.New("model frame cannot be empty")
	}
	m := &Model{
		name:               b.name,
		modelFrame:         b.modelFrame,
		root:               b.links[b.root],
		linksByName:        b.links,
		jointsByName:       map[string]*Joint{},
		groups:             map[string]*Group{},
		fs:                 referenceframe.NewEmptyFrameSystem(b.name),
		disabledCollisions: map[[2]string]bool{},
	}

	rootFrame := referenceframe.NewZeroStaticFrame(m.root.name)
	if err := m.fs.AddFrame(rootFrame, m.fs.World()); err != nil {
		return nil, err
	}
	if err := m.addSubtree(m.root, rootFrame); err != nil {
		return nil, err
	}

	for _, j := range m.joints {
		m.disabledCollisions[linkPair(j.parent.name, j.child.name)] = true
	}
	for _, pair := range b.disabled {
		for _, name := range pair {
			if m.Link(name) == nil {
				return nil, NewUnknownLinkError("disabled collision pair", name)
			}
		}
		m.disabledCollisions[linkPair(pair[0], pair[1])] = true
	}

	for _, gs := range b.groups {
		g, err := newGroup(m, gs)
		if err != nil {
			return nil, err
		}
		if _, ok := m.groups[g.name]; ok {
			return nil, NewDuplicateNameError("group", g.name)
		}
		m.groups[g.name] = g
	}
	return m, nil
}

// AlmostEquals reports whether both models have the same frames, joined the same way, up to floating
// point error. Models built twice from one configuration are almost equal.
func (m *Model) AlmostEquals(other *Model) bool {
	if m == other {
		return true
	}
	if other == nil || m.name != other.name || m.modelFrame != other.modelFrame {
		return false
	}
	names := m.fs.FrameNames()
	otherNames := other.fs.FrameNames()
	if len(names) != len(otherNames) {
		return false
	}
	for i, name := range names {
		if otherNames[i] != name {
			return false
		}
		f, otherF := m.fs.Frame(name), other.fs.Frame(name)
		if !f.AlmostEquals(otherF) {
			return false
		}
		parent, err := m.fs.Parent(f)
		if err != nil {
			return false
		}
		otherParent, err := other.fs.Parent(otherF)
		if err != nil || parent.Name() != otherParent.Name() {
			return false
		}
	}
	return true
}

// addSubtree walks the tree depth-first, numbering links and registering joint and link frames.
func (m *Model) addSubtree(link *Link, linkFrame referenceframe.Frame) error {
	link.index = len(m.links)
	m.links = append(m.links, link)
	for _, j := range link.childJoints {
		m.joints = append(m.joints, j)
		m.jointsByName[j.name] = j

		frames, err := j.frames()
		if err != nil {
			return err
		}
		parent := linkFrame
		for _, f := range frames {
			if err := m.fs.AddFrame(f, parent); err != nil {
				return errors.Wrapf(err, "cannot add joint %q", j.name)
			}
			parent = f
		}
		childFrame := referenceframe.NewZeroStaticFrame(j.child.name)
		if err := m.fs.AddFrame(childFrame, parent); err != nil {
			return errors.Wrapf(err, "cannot add link %q", j.child.name)
		}
		if err := m.addSubtree(j.child, childFrame); err != nil {
			return err
		}
	}
	return nil
}
