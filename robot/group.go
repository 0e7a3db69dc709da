package robot

// JointGroup is a named kinematic chain (or tree) of a model.
type JointGroup interface {
	Name() string
	// EndEffectorTips returns the terminal links of the group, where tools attach.
	EndEffectorTips() []*Link
	// LinkNames returns the names of the links of the group in model order.
	LinkNames() []string
}

// Group is the JointGroup implementation backed by a Model.
type Group struct {
	name  string
	links []*Link
	tips  []*Link
}

var _ JointGroup = (*Group)(nil)

// Name returns the name of the group.
func (g *Group) Name() string {
	return g.name
}

// EndEffectorTips returns the tip links of the group.
func (g *Group) EndEffectorTips() []*Link {
	return g.tips
}

// Links returns the links of the group in model order.
func (g *Group) Links() []*Link {
	return g.links
}

// LinkNames returns the names of the group's links in model order.
func (g *Group) LinkNames() []string {
	names := make([]string, 0, len(g.links))
	for _, l := range g.links {
		names = append(names, l.name)
	}
	return names
}

func newGroup(m *Model, gs groupSpec) (*Group, error) {
	if gs.name == "" {
		return nil, NewEmptyGroupNameError()
	}
	inGroup := map[*Link]bool{}
	for _, name := range gs.links {
		l := m.Link(name)
		if l == nil {
			return nil, NewUnknownLinkError("group "+gs.name, name)
		}
		inGroup[l] = true
	}

	g := &Group{name: gs.name}
	// keep model order regardless of declaration order
	for _, l := range m.links {
		if inGroup[l] {
			g.links = append(g.links, l)
		}
	}

	if len(gs.tips) > 0 {
		for _, name := range gs.tips {
			l := m.Link(name)
			if l == nil || !inGroup[l] {
				return nil, NewTipNotInGroupError(gs.name, name)
			}
			g.tips = append(g.tips, l)
		}
		return g, nil
	}

	for _, l := range g.links {
		hasGroupChild := false
		for _, j := range l.childJoints {
			if inGroup[j.child] {
				hasGroupChild = true
				break
			}
		}
		if !hasGroupChild {
			g.tips = append(g.tips, l)
		}
	}
	return g, nil
}
