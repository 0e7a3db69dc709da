package motionplan

import (
	"context"

	"go.viam.com/taskconstructor/collision"
	"go.viam.com/taskconstructor/logging"
	"go.viam.com/taskconstructor/planningscene"
	"go.viam.com/taskconstructor/trajectory"
	"go.viam.com/taskconstructor/utils"
	"go.viam.com/taskconstructor/visualization"
)

const (
	pathMaxContacts        = 10
	pathMaxContactsPerPair = 3
)

// pathCollisionRequest asks for up to 10 contacts per waypoint, at most 3 of them between any pair of
// bodies. Contacts past these caps are dropped.
func pathCollisionRequest() collision.Request {
	return collision.Request{
		Contacts:           true,
		MaxContacts:        pathMaxContacts,
		MaxContactsPerPair: pathMaxContactsPerPair,
		Verbose:            true,
	}
}

// MarkPathCollisions checks every waypoint of the trajectory against the scene, in order, and appends a
// marker for each reported contact to out. Waypoints without contacts add nothing. The constraints and the
// group name describe the planning request and are only logged. out must not be nil.
func MarkPathCollisions(
	logger logging.Logger,
	traj *trajectory.Trajectory,
	scene planningscene.Scene,
	constraints *Constraints,
	groupName string,
	out *visualization.MarkerArray,
) {
	n := traj.WayPointCount()
	logger.Debugw("checking path for collisions", "group", groupName, "waypoints", n, "constraints", constraints.String())
	for i := 0; i < n; i++ {
		out.Append(waypointCollisionMarkers(logger, scene, traj, i)...)
	}
}

// MarkPathCollisionsParallel is MarkPathCollisions with up to workers waypoints checked at once. Markers
// are collected per waypoint and appended in waypoint order once every waypoint is checked, so out ends up
// the same as with MarkPathCollisions. If ctx is done first, the context error is returned and out is left
// unchanged.
func MarkPathCollisionsParallel(
	ctx context.Context,
	logger logging.Logger,
	traj *trajectory.Trajectory,
	scene planningscene.Scene,
	constraints *Constraints,
	groupName string,
	out *visualization.MarkerArray,
	workers int,
) error {
	n := traj.WayPointCount()
	logger.Debugw("checking path for collisions", "group", groupName, "waypoints", n, "constraints", constraints.String(), "workers", workers)
	buffers := make([][]visualization.Marker, n)
	if err := utils.ForEachIndexParallel(ctx, n, workers, func(ctx context.Context, i int) error {
		buffers[i] = waypointCollisionMarkers(logger, scene, traj, i)
		return nil
	}); err != nil {
		return err
	}
	for _, markers := range buffers {
		out.Append(markers...)
	}
	return nil
}

func waypointCollisionMarkers(logger logging.Logger, scene planningscene.Scene, traj *trajectory.Trajectory, i int) []visualization.Marker {
	res := scene.CheckCollision(pathCollisionRequest(), traj.WayPoint(i))
	if res == nil || res.ContactCount == 0 {
		return nil
	}
	logger.Debugw("waypoint in collision", "waypoint", i, "contacts", res.ContactCount, "pairs", len(res.Contacts))
	return visualization.CollisionMarkersFromContacts(scene.PlanningFrame(), res.Contacts)
}
