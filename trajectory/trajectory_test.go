package trajectory

import (
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/taskconstructor/robot"
)

func loadArm(t *testing.T) *robot.Model {
	t.Helper()
	m, err := robot.ParseModelJSONFile("../robot/data/three_joint_arm.json", "")
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestTrajectoryFromPositions(t *testing.T) {
	m := loadArm(t)
	traj, err := NewTrajectoryFromPositions(m, "manipulator", []map[string]float64{
		{"shoulder_pan": 0},
		{"shoulder_pan": 0.5},
		{"shoulder_lift": 0.25},
	}, 100*time.Millisecond)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.GroupName(), test.ShouldEqual, "manipulator")
	test.That(t, traj.Model(), test.ShouldEqual, m)
	test.That(t, traj.WayPointCount(), test.ShouldEqual, 3)
	test.That(t, traj.WayPointDurationFromPrevious(0), test.ShouldEqual, time.Duration(0))
	test.That(t, traj.WayPointDurationFromStart(2), test.ShouldEqual, 200*time.Millisecond)
	test.That(t, traj.Duration(), test.ShouldEqual, 200*time.Millisecond)

	// unspecified joints carry over from the previous waypoint
	pan, err := traj.JointPositions("shoulder_pan")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pan, test.ShouldResemble, []float64{0, 0.5, 0.5})
	_, err = traj.JointPositions("elbow")
	test.That(t, err, test.ShouldNotBeNil)

	rest, err := traj.Remaining(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rest.WayPointCount(), test.ShouldEqual, 2)
	test.That(t, rest.WayPoint(0), test.ShouldEqual, traj.WayPoint(1))
	test.That(t, rest.Duration(), test.ShouldEqual, 100*time.Millisecond)
	test.That(t, traj.WayPointDurationFromPrevious(1), test.ShouldEqual, 100*time.Millisecond)

	_, err = traj.Remaining(4)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = traj.Remaining(-1)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewTrajectoryFromPositions(m, "manipulator", []map[string]float64{{"shoulder_lift": 3}}, time.Second)
	test.That(t, err.Error(), test.ShouldContainSubstring, "waypoint 0")
}

func TestAddWayPoint(t *testing.T) {
	m := loadArm(t)
	traj := NewTrajectory(m, "manipulator")
	test.That(t, traj.WayPointCount(), test.ShouldEqual, 0)
	test.That(t, traj.Duration(), test.ShouldEqual, time.Duration(0))

	test.That(t, traj.AddWayPoint(nil, 0), test.ShouldNotBeNil)
	test.That(t, traj.AddWayPoint(robot.NewDefaultState(m), -time.Second), test.ShouldNotBeNil)

	other, err := robot.NewModelBuilder("other", "base").Build()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.AddWayPoint(robot.NewDefaultState(other), 0), test.ShouldNotBeNil)

	test.That(t, traj.AddWayPoint(robot.NewDefaultState(m), time.Second), test.ShouldBeNil)
	test.That(t, traj.WayPointCount(), test.ShouldEqual, 1)

	var nilTraj *Trajectory
	test.That(t, nilTraj.WayPointCount(), test.ShouldEqual, 0)
}

func TestJointPathLength(t *testing.T) {
	m := loadArm(t)
	traj, err := NewTrajectoryFromPositions(m, "manipulator", []map[string]float64{
		{"shoulder_pan": 0},
		{"shoulder_pan": 0.5},
		{"shoulder_lift": 0.25},
	}, time.Second)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.JointPathLength(), test.ShouldAlmostEqual, 0.75)

	var empty *Trajectory
	test.That(t, empty.JointPathLength(), test.ShouldEqual, 0.)
}
