package referenceframe

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Input is the value driving a single degree of freedom of a frame.
//   - revolute inputs are in radians.
//   - prismatic inputs are in mm.
type Input struct {
	Value float64
}

// FrameSystemInputs maps frame names to the inputs of that frame.
type FrameSystemInputs map[string][]Input

// InputsFromPositions builds inputs for one-DoF frames named after their joints.
func InputsFromPositions(positions map[string]float64) FrameSystemInputs {
	inputs := make(FrameSystemInputs, len(positions))
	for name, v := range positions {
		inputs[name] = []Input{{Value: v}}
	}
	return inputs
}

// GetFrameInputs returns the inputs of the frame, or an error if a frame with DoF has none.
func (inputs FrameSystemInputs) GetFrameInputs(frame Frame) ([]Input, error) {
	if len(frame.DoF()) == 0 {
		return nil, nil
	}
	frameInputs, ok := inputs[frame.Name()]
	if !ok {
		return nil, NewFrameMissingError(frame.Name())
	}
	return frameInputs, nil
}

// flatten returns the inputs ordered by frame name.
func (inputs FrameSystemInputs) flatten() ([]string, []float64) {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	var values []float64
	for _, name := range names {
		for _, in := range inputs[name] {
			values = append(values, in.Value)
		}
	}
	return names, values
}

// L2Distance returns the euclidean distance between two sets of inputs over the same frames. Inputs
// covering different frames or DoF are infinitely far apart.
func (inputs FrameSystemInputs) L2Distance(other FrameSystemInputs) float64 {
	names, from := inputs.flatten()
	otherNames, to := other.flatten()
	if len(from) != len(to) || len(names) != len(otherNames) {
		return math.Inf(1)
	}
	for i, name := range names {
		if otherNames[i] != name || len(inputs[name]) != len(other[name]) {
			return math.Inf(1)
		}
	}
	return floats.Distance(from, to, 2)
}
