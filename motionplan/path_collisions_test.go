package motionplan

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/taskconstructor/collision"
	"go.viam.com/taskconstructor/logging"
	"go.viam.com/taskconstructor/planningscene"
	"go.viam.com/taskconstructor/robot"
	spatial "go.viam.com/taskconstructor/spatialmath"
	"go.viam.com/taskconstructor/trajectory"
	"go.viam.com/taskconstructor/visualization"
)

// recordingScene answers collision queries from a fixed table and records every query.
type recordingScene struct {
	frame   string
	current *robot.State
	results map[*robot.State]*collision.Result

	mu       sync.Mutex
	queried  []*robot.State
	requests []collision.Request
}

func (s *recordingScene) PlanningFrame() string      { return s.frame }
func (s *recordingScene) CurrentState() *robot.State { return s.current }

func (s *recordingScene) CheckCollision(req collision.Request, state *robot.State) *collision.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queried = append(s.queried, state)
	s.requests = append(s.requests, req)
	return s.results[state]
}

var _ planningscene.Scene = (*recordingScene)(nil)

func contactResult(body1, body2 string, n int) *collision.Result {
	res := collision.NewResult()
	pair := collision.NewBodyPair(body1, body2)
	for i := 0; i < n; i++ {
		res.Contacts[pair] = append(res.Contacts[pair], collision.Contact{
			Position: r3.Vector{X: float64(i)},
			Body1:    body1,
			Body2:    body2,
		})
	}
	res.Collision = n > 0
	res.ContactCount = n
	return res
}

func armTrajectory(t *testing.T, waypoints int) *trajectory.Trajectory {
	t.Helper()
	model, err := robot.ParseModelJSONFile("../robot/data/three_joint_arm.json", "")
	test.That(t, err, test.ShouldBeNil)
	steps := make([]map[string]float64, 0, waypoints)
	for i := 0; i < waypoints; i++ {
		steps = append(steps, map[string]float64{"shoulder_pan": 0.01 * float64(i)})
	}
	traj, err := trajectory.NewTrajectoryFromPositions(model, "manipulator", steps, 0)
	test.That(t, err, test.ShouldBeNil)
	return traj
}

func newRecordingScene(traj *trajectory.Trajectory) *recordingScene {
	return &recordingScene{
		frame:   "world",
		current: robot.NewDefaultState(traj.Model()),
		results: map[*robot.State]*collision.Result{},
	}
}

func TestMarkPathCollisionsSingleCollidingWaypoint(t *testing.T) {
	traj := armTrajectory(t, 3)
	scene := newRecordingScene(traj)
	scene.results[traj.WayPoint(1)] = contactResult("obstacle", "wrist_link", 2)

	var out visualization.MarkerArray
	MarkPathCollisions(logging.NewTestLogger(t), traj, scene, nil, "manipulator", &out)

	test.That(t, scene.queried, test.ShouldResemble, []*robot.State{traj.WayPoint(0), traj.WayPoint(1), traj.WayPoint(2)})
	for _, req := range scene.requests {
		test.That(t, req, test.ShouldResemble, collision.Request{Contacts: true, MaxContacts: 10, MaxContactsPerPair: 3, Verbose: true})
	}
	test.That(t, out.Len(), test.ShouldEqual, 2)
	for i, m := range out.Markers() {
		test.That(t, m.Namespace, test.ShouldEqual, "obstacle=wrist_link")
		test.That(t, m.ID, test.ShouldEqual, i)
		test.That(t, m.FrameID, test.ShouldEqual, "world")
		test.That(t, m.Pose.Point().X, test.ShouldAlmostEqual, float64(i))
	}
}

func TestMarkPathCollisionsOrderAndAppend(t *testing.T) {
	traj := armTrajectory(t, 4)
	scene := newRecordingScene(traj)
	scene.frame = "base_link"
	scene.results[traj.WayPoint(0)] = contactResult("a", "b", 1)
	scene.results[traj.WayPoint(1)] = collision.NewResult()
	scene.results[traj.WayPoint(3)] = contactResult("c", "d", 2)

	out := &visualization.MarkerArray{}
	out.Append(visualization.Marker{Namespace: "existing"})
	constraints := NewEmptyConstraints()
	constraints.AddJointConstraint(JointConstraint{Joint: "shoulder_lift", ToleranceAbove: 0.1, ToleranceBelow: 0.1})
	MarkPathCollisions(logging.NewTestLogger(t), traj, scene, constraints, "manipulator", out)

	test.That(t, len(scene.queried), test.ShouldEqual, 4)
	namespaces := make([]string, 0, out.Len())
	for _, m := range out.Markers() {
		namespaces = append(namespaces, m.Namespace)
	}
	test.That(t, namespaces, test.ShouldResemble, []string{"existing", "a=b", "c=d", "c=d"})
	test.That(t, out.At(3).FrameID, test.ShouldEqual, "base_link")
}

func TestMarkPathCollisionsNoContacts(t *testing.T) {
	traj := armTrajectory(t, 5)
	scene := newRecordingScene(traj)
	// a result claiming a collision without contacts adds nothing either
	scene.results[traj.WayPoint(2)] = &collision.Result{Collision: true}

	out := &visualization.MarkerArray{}
	out.Append(visualization.Marker{Namespace: "existing"})
	MarkPathCollisions(logging.NewTestLogger(t), traj, scene, nil, "manipulator", out)
	test.That(t, len(scene.queried), test.ShouldEqual, 5)
	test.That(t, out.Len(), test.ShouldEqual, 1)

	empty := newRecordingScene(traj)
	MarkPathCollisions(logging.NewTestLogger(t), nil, empty, nil, "manipulator", out)
	MarkPathCollisions(logging.NewTestLogger(t), trajectory.NewTrajectory(traj.Model(), "manipulator"), empty, nil, "manipulator", out)
	test.That(t, empty.queried, test.ShouldBeEmpty)
	test.That(t, out.Len(), test.ShouldEqual, 1)
}

func TestMarkPathCollisionsLogs(t *testing.T) {
	traj := armTrajectory(t, 2)
	scene := newRecordingScene(traj)
	scene.results[traj.WayPoint(1)] = contactResult("obstacle", "wrist_link", 1)

	logger, logs := logging.NewObservedTestLogger(t)
	var out visualization.MarkerArray
	MarkPathCollisions(logger, traj, scene, nil, "manipulator", &out)

	started := logs.FilterMessage("checking path for collisions").All()
	test.That(t, len(started), test.ShouldEqual, 1)
	test.That(t, started[0].ContextMap()["group"], test.ShouldEqual, "manipulator")
	test.That(t, started[0].ContextMap()["constraints"], test.ShouldEqual, "none")
	colliding := logs.FilterMessage("waypoint in collision").All()
	test.That(t, len(colliding), test.ShouldEqual, 1)
	test.That(t, colliding[0].ContextMap()["waypoint"], test.ShouldEqual, int64(1))
}

func TestMarkPathCollisionsParallelMatchesSequential(t *testing.T) {
	traj := armTrajectory(t, 25)
	scene := newRecordingScene(traj)
	for i := 0; i < traj.WayPointCount(); i += 3 {
		scene.results[traj.WayPoint(i)] = contactResult(fmt.Sprintf("obstacle_%02d", i), "wrist_link", 1+i%3)
	}
	logger := logging.NewTestLogger(t)

	var sequential visualization.MarkerArray
	MarkPathCollisions(logger, traj, scene, nil, "manipulator", &sequential)
	test.That(t, sequential.Len(), test.ShouldBeGreaterThan, 0)

	for _, workers := range []int{0, 1, 4, 100} {
		var parallel visualization.MarkerArray
		err := MarkPathCollisionsParallel(context.Background(), logger, traj, scene, nil, "manipulator", &parallel, workers)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parallel.Markers(), test.ShouldResemble, sequential.Markers())
	}
}

func TestMarkPathCollisionsParallelCancelled(t *testing.T) {
	traj := armTrajectory(t, 10)
	scene := newRecordingScene(traj)
	scene.results[traj.WayPoint(0)] = contactResult("obstacle", "wrist_link", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out visualization.MarkerArray
	err := MarkPathCollisionsParallel(ctx, logging.NewTestLogger(t), traj, scene, nil, "manipulator", &out, 2)
	test.That(t, err, test.ShouldEqual, context.Canceled)
	test.That(t, out.Len(), test.ShouldEqual, 0)
}

func TestMarkPathCollisionsContactCaps(t *testing.T) {
	model, err := robot.ParseModelJSONFile("../robot/data/three_joint_arm.json", "")
	test.That(t, err, test.ShouldBeNil)
	logger, logs := logging.NewObservedTestLogger(t)
	ps := planningscene.NewPlanningScene("caps", model, logger)

	// a small box inside the upper arm touches it at all eight corners
	inner, err := spatial.NewBox(spatial.NewZeroPose(), r3.Vector{X: 20, Y: 20, Z: 20}, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ps.AddObject(&planningscene.WorldObject{
		Name:       "inner",
		Pose:       spatial.NewPoseFromPoint(r3.Vector{X: 150, Z: 150}),
		Geometries: []spatial.Geometry{inner},
	}), test.ShouldBeNil)

	traj := trajectory.NewTrajectory(model, "manipulator")
	test.That(t, traj.AddWayPoint(ps.CurrentState(), 0), test.ShouldBeNil)

	var out visualization.MarkerArray
	MarkPathCollisions(logger, traj, ps, nil, "manipulator", &out)
	test.That(t, out.Len(), test.ShouldEqual, 3)
	for _, m := range out.Markers() {
		test.That(t, m.Namespace, test.ShouldEqual, "inner=upper_arm_link")
	}
	test.That(t, logs.FilterMessage("found contacts between bodies, which constitute a collision").Len(), test.ShouldBeGreaterThan, 0)

	// a dozen pebbles around the wrist exceed the total cap
	test.That(t, ps.RemoveObject("inner"), test.ShouldBeTrue)
	for k := 0; k < 12; k++ {
		test.That(t, ps.AddObjectFromConfig(fmt.Sprintf("pebble_%02d", k), spatial.NewPoseFromPoint(r3.Vector{X: 330, Z: float64(132 + 3*k)}),
			map[string]interface{}{"type": "sphere", "r": 2}), test.ShouldBeNil)
	}
	out = visualization.MarkerArray{}
	MarkPathCollisions(logger, traj, ps, nil, "manipulator", &out)
	test.That(t, out.Len(), test.ShouldEqual, 10)
	perNamespace := map[string]int{}
	for _, m := range out.Markers() {
		perNamespace[m.Namespace]++
	}
	test.That(t, len(perNamespace), test.ShouldEqual, 10)
	for _, n := range perNamespace {
		test.That(t, n, test.ShouldEqual, 1)
	}
}
