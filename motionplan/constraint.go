package motionplan

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/taskconstructor/robot"
	spatial "go.viam.com/taskconstructor/spatialmath"
	"go.viam.com/taskconstructor/utils"
)

// JointConstraint bounds a joint to [Position-ToleranceBelow, Position+ToleranceAbove].
type JointConstraint struct {
	Joint          string
	Position       float64
	ToleranceAbove float64
	ToleranceBelow float64
}

func (jc JointConstraint) String() string {
	return fmt.Sprintf("joint %s in [%.4f, %.4f]", jc.Joint, jc.Position-jc.ToleranceBelow, jc.Position+jc.ToleranceAbove)
}

// OrientationConstraint keeps the orientation of a link, in the planning frame, within ToleranceDegs of
// Orientation.
type OrientationConstraint struct {
	Link          string
	Orientation   spatial.Orientation
	ToleranceDegs float64
}

func (oc OrientationConstraint) String() string {
	return fmt.Sprintf("orientation of %s within %.2f degrees", oc.Link, oc.ToleranceDegs)
}

// Constraints are the path constraints a trajectory was planned under.
type Constraints struct {
	Name                   string
	JointConstraints       []JointConstraint
	OrientationConstraints []OrientationConstraint
}

// NewEmptyConstraints returns an unnamed set of constraints that any state satisfies.
func NewEmptyConstraints() *Constraints {
	return &Constraints{}
}

// AddJointConstraint appends a joint constraint.
func (c *Constraints) AddJointConstraint(jc JointConstraint) {
	c.JointConstraints = append(c.JointConstraints, jc)
}

// AddOrientationConstraint appends an orientation constraint.
func (c *Constraints) AddOrientationConstraint(oc OrientationConstraint) {
	c.OrientationConstraints = append(c.OrientationConstraints, oc)
}

// IsEmpty reports whether there is nothing to satisfy. A nil Constraints is empty.
func (c *Constraints) IsEmpty() bool {
	return c == nil || len(c.JointConstraints)+len(c.OrientationConstraints) == 0
}

func (c *Constraints) String() string {
	if c.IsEmpty() {
		return "none"
	}
	parts := make([]string, 0, len(c.JointConstraints)+len(c.OrientationConstraints))
	for _, jc := range c.JointConstraints {
		parts = append(parts, jc.String())
	}
	for _, oc := range c.OrientationConstraints {
		parts = append(parts, oc.String())
	}
	s := strings.Join(parts, "; ")
	if c.Name != "" {
		s = c.Name + ": " + s
	}
	return s
}

// CheckState returns an error describing every constraint the state violates.
func (c *Constraints) CheckState(state *robot.State) error {
	if c.IsEmpty() {
		return nil
	}
	var errs error
	for _, jc := range c.JointConstraints {
		v, ok := state.JointPosition(jc.Joint)
		if !ok {
			errs = multierr.Append(errs, robot.NewUnknownJointError(jc.Joint))
			continue
		}
		if v < jc.Position-jc.ToleranceBelow || v > jc.Position+jc.ToleranceAbove {
			errs = multierr.Append(errs, errors.Errorf("%v violated, position is %.4f", jc, v))
		}
	}
	for _, oc := range c.OrientationConstraints {
		link := state.Model().Link(oc.Link)
		if link == nil {
			errs = multierr.Append(errs, errors.Errorf("orientation constraint references unknown link %q", oc.Link))
			continue
		}
		actual := state.GlobalLinkTransform(link).Orientation()
		if deg := utils.RadToDeg(orientationDistance(oc.Orientation, actual)); deg > oc.ToleranceDegs {
			errs = multierr.Append(errs, errors.Errorf("%v violated, off by %.2f degrees", oc, deg))
		}
	}
	return errs
}

// orientationDistance returns the angle of the rotation between two orientations, in [0, pi].
func orientationDistance(a, b spatial.Orientation) float64 {
	q := spatial.Normalize(spatial.OrientationBetween(a, b).Quaternion())
	return 2 * math.Acos(math.Min(1, math.Abs(q.Real)))
}
