package referenceframe

import "github.com/pkg/errors"

// OOBErrString is contained in every out of bounds error, distinguishing them from other transform errors.
const OOBErrString = "input out of bounds"

// NewOutOfBoundsError returns an error indicating that an input lies outside the limit of its frame.
func NewOutOfBoundsError(value float64, limit Limit) error {
	return errors.Errorf("%.5f %s [%.5f, %.5f]", value, OOBErrString, limit.Min, limit.Max)
}

// NewParentFrameMissingError returns an error indicating that the parent frame is missing from the frame system.
func NewParentFrameMissingError(frameName, parentName string) error {
	return errors.Errorf("parent frame %q of frame %q not in frame system", parentName, frameName)
}

// NewFrameMissingError returns an error indicating that the given frame is missing from the frame system.
func NewFrameMissingError(frameName string) error {
	return errors.Errorf("frame with name %q not in frame system", frameName)
}

// NewFrameAlreadyExistsError returns an error indicating that a frame of the given name already exists.
func NewFrameAlreadyExistsError(frameName string) error {
	return errors.Errorf("frame with name %q already in frame system", frameName)
}

// NewIncorrectDoFError returns an error indicating that the length of an input slice does not match the DoF of a frame.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewReservedWordError is used when a name in a configuration is a reserved word.
func NewReservedWordError(configType, reservedWord string) error {
	return errors.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}
