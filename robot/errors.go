package robot

import (
	"github.com/pkg/errors"

	"go.viam.com/taskconstructor/referenceframe"
)

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// NewDuplicateNameError is returned when two elements of the same kind share a name.
func NewDuplicateNameError(kind, name string) error {
	return errors.Errorf("duplicate %s name %q", kind, name)
}

// NewUnknownLinkError is returned when an element references a link the model does not contain.
func NewUnknownLinkError(referrer, link string) error {
	return errors.Errorf("%s references unknown link %q", referrer, link)
}

// NewUnknownJointError is returned when a joint position is given for a joint the model does not contain.
func NewUnknownJointError(joint string) error {
	return errors.Errorf("unknown joint %q", joint)
}

// NewUnsupportedJointTypeError is returned for joint types other than fixed, revolute and prismatic.
func NewUnsupportedJointTypeError(joint string, jointType JointType) error {
	return errors.Errorf("joint %q has unsupported type %q, supported types are fixed, revolute and prismatic", joint, jointType)
}

// NewZeroAxisError is returned when a movable joint has no axis of motion.
func NewZeroAxisError(joint string) error {
	return errors.Errorf("joint %q cannot use zero vector as axis", joint)
}

// NewBadLimitError is returned when a joint's minimum exceeds its maximum.
func NewBadLimitError(joint string, limit referenceframe.Limit) error {
	return errors.Errorf("joint %q has min %.5f greater than max %.5f", joint, limit.Min, limit.Max)
}

// NewJointOutOfBoundsError is returned when a joint position lies outside the joint limits.
func NewJointOutOfBoundsError(joint string, value float64, limit referenceframe.Limit) error {
	return errors.Wrapf(referenceframe.NewOutOfBoundsError(value, limit), "joint %q", joint)
}

// NewEmptyGroupNameError is returned when a group is declared without a name.
func NewEmptyGroupNameError() error {
	return errors.New("group name cannot be empty")
}

// NewTipNotInGroupError is returned when a declared tip link is not a link of its group.
func NewTipNotInGroupError(group, link string) error {
	return errors.Errorf("tip %q is not a link of group %q", link, group)
}

// NewAttachedBodyError is returned when an attached body cannot be added to a state.
func NewAttachedBodyError(body, reason string) error {
	return errors.Errorf("cannot attach body %q: %s", body, reason)
}
