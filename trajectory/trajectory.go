// Package trajectory holds timed sequences of robot states produced by a motion planner.
package trajectory

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/taskconstructor/robot"
)

// Trajectory is an ordered sequence of waypoints of a single robot model, each with the time it takes to
// reach it from the previous waypoint.
type Trajectory struct {
	model     *robot.Model
	groupName string
	waypoints []*robot.State
	durations []time.Duration
}

// NewTrajectory returns an empty trajectory of the model, planned for the named group.
func NewTrajectory(model *robot.Model, groupName string) *Trajectory {
	return &Trajectory{model: model, groupName: groupName}
}

// NewTrajectoryFromPositions builds a trajectory from joint positions keyed by joint name, spacing the
// waypoints dt apart.
func NewTrajectoryFromPositions(model *robot.Model, groupName string, steps []map[string]float64, dt time.Duration) (*Trajectory, error) {
	traj := NewTrajectory(model, groupName)
	prev := robot.NewDefaultState(model)
	for i, step := range steps {
		state, err := prev.WithPositions(step)
		if err != nil {
			return nil, errors.Wrapf(err, "waypoint %d", i)
		}
		duration := dt
		if i == 0 {
			duration = 0
		}
		if err := traj.AddWayPoint(state, duration); err != nil {
			return nil, err
		}
		prev = state
	}
	return traj, nil
}

// Model returns the robot model the waypoints belong to.
func (traj *Trajectory) Model() *robot.Model {
	return traj.model
}

// GroupName returns the name of the group the trajectory was planned for.
func (traj *Trajectory) GroupName() string {
	return traj.groupName
}

// AddWayPoint appends a state reached dt after the previous waypoint.
func (traj *Trajectory) AddWayPoint(state *robot.State, dt time.Duration) error {
	if state == nil {
		return errors.New("waypoint cannot be nil")
	}
	if state.Model() != traj.model {
		return errors.Errorf("waypoint of model %q does not belong to a trajectory of model %q", state.Model().Name(), traj.model.Name())
	}
	if dt < 0 {
		return errors.Errorf("waypoint duration cannot be negative, got %v", dt)
	}
	traj.waypoints = append(traj.waypoints, state)
	traj.durations = append(traj.durations, dt)
	return nil
}

// WayPointCount returns the number of waypoints. A nil trajectory has none.
func (traj *Trajectory) WayPointCount() int {
	if traj == nil {
		return 0
	}
	return len(traj.waypoints)
}

// WayPoint returns the state at index i. It panics if i is out of range.
func (traj *Trajectory) WayPoint(i int) *robot.State {
	return traj.waypoints[i]
}

// WayPointDurationFromPrevious returns the time between waypoint i-1 and waypoint i.
func (traj *Trajectory) WayPointDurationFromPrevious(i int) time.Duration {
	return traj.durations[i]
}

// WayPointDurationFromStart returns the time at which waypoint i is reached.
func (traj *Trajectory) WayPointDurationFromStart(i int) time.Duration {
	var total time.Duration
	for _, d := range traj.durations[:i+1] {
		total += d
	}
	return total
}

// Duration returns the time at which the last waypoint is reached.
func (traj *Trajectory) Duration() time.Duration {
	if traj.WayPointCount() == 0 {
		return 0
	}
	return traj.WayPointDurationFromStart(len(traj.waypoints) - 1)
}

// JointPositions extracts the positions of a single joint across all waypoints.
func (traj *Trajectory) JointPositions(joint string) ([]float64, error) {
	positions := make([]float64, 0, len(traj.waypoints))
	for _, wp := range traj.waypoints {
		v, ok := wp.JointPosition(joint)
		if !ok {
			return nil, fmt.Errorf("joint named %s not found in trajectory", joint)
		}
		positions = append(positions, v)
	}
	return positions, nil
}

// JointPathLength sums the joint space distance between consecutive waypoints.
func (traj *Trajectory) JointPathLength() float64 {
	var length float64
	for i := 1; i < traj.WayPointCount(); i++ {
		length += traj.waypoints[i-1].Inputs().L2Distance(traj.waypoints[i].Inputs())
	}
	return length
}

// Remaining returns a trajectory holding the waypoints from index onwards. The first remaining waypoint
// is reached immediately.
func (traj *Trajectory) Remaining(index int) (*Trajectory, error) {
	if index < 0 {
		return nil, errors.New("could not access trajectory with negative waypoint index")
	}
	if index > len(traj.waypoints) {
		return nil, fmt.Errorf("could not access trajectory index %d, must be at most %d", index, len(traj.waypoints))
	}
	remaining := &Trajectory{
		model:     traj.model,
		groupName: traj.groupName,
		waypoints: append([]*robot.State{}, traj.waypoints[index:]...),
		durations: append([]time.Duration{}, traj.durations[index:]...),
	}
	if len(remaining.durations) > 0 {
		remaining.durations[0] = 0
	}
	return remaining, nil
}
