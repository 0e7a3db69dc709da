// Package planningscene combines a robot model, its current state and the objects of the world into a
// scene that can be queried for collisions.
package planningscene

import (
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/taskconstructor/collision"
	"go.viam.com/taskconstructor/logging"
	"go.viam.com/taskconstructor/robot"
)

// Scene is the read-only view of a planning scene used by planning stages.
type Scene interface {
	// PlanningFrame is the frame all global transforms and contacts are expressed in.
	PlanningFrame() string
	// CurrentState is the robot state the scene was captured at.
	CurrentState() *robot.State
	// CheckCollision checks the state against itself and the world. A nil state checks the current state.
	CheckCollision(req collision.Request, state *robot.State) *collision.Result
}

// PlanningScene is an in-memory Scene. It is safe for concurrent use.
type PlanningScene struct {
	name    string
	model   *robot.Model
	logger  logging.Logger
	checker *collision.Checker

	mu      sync.RWMutex
	current *robot.State
	objects map[string]*WorldObject
	acm     *collision.AllowedCollisionMatrix
}

var _ Scene = (*PlanningScene)(nil)

// NewPlanningScene creates a scene for the model at its default state. Collisions between links the model
// disables (adjacent links and configured pairs) are allowed.
func NewPlanningScene(name string, model *robot.Model, logger logging.Logger) *PlanningScene {
	acm := collision.NewAllowedCollisionMatrix()
	for _, pair := range model.DisabledCollisionPairs() {
		acm.SetEntry(pair[0], pair[1], true)
	}
	return &PlanningScene{
		name:    name,
		model:   model,
		logger:  logger,
		checker: collision.NewChecker(logger.Sublogger("collision")),
		current: robot.NewDefaultState(model),
		objects: map[string]*WorldObject{},
		acm:     acm,
	}
}

// Name returns the name of the scene.
func (ps *PlanningScene) Name() string {
	return ps.name
}

// Model returns the robot model of the scene.
func (ps *PlanningScene) Model() *robot.Model {
	return ps.model
}

// PlanningFrame returns the model frame of the robot.
func (ps *PlanningScene) PlanningFrame() string {
	return ps.model.ModelFrame()
}

// CurrentState returns the current robot state.
func (ps *PlanningScene) CurrentState() *robot.State {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.current
}

// SetCurrentState replaces the current robot state. A state of a model almost equal to the scene's, such
// as one loaded again from the same configuration, is moved onto the scene's model as long as it carries no
// attached bodies.
func (ps *PlanningScene) SetCurrentState(state *robot.State) error {
	if state == nil {
		return errors.New("current state cannot be nil")
	}
	if state.Model() != ps.model {
		if !ps.model.AlmostEquals(state.Model()) || len(state.AttachedBodies()) > 0 {
			return errors.Errorf("state of model %q does not belong to scene %q", state.Model().Name(), ps.name)
		}
		rebased, err := robot.NewState(ps.model, state.Positions())
		if err != nil {
			return err
		}
		state = rebased
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.current = state
	return nil
}

// AllowedCollisionMatrix returns a copy of the scene's allowed collision matrix.
func (ps *PlanningScene) AllowedCollisionMatrix() *collision.AllowedCollisionMatrix {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.acm.Clone()
}

// SetAllowedCollision sets whether the two named bodies may touch.
func (ps *PlanningScene) SetAllowedCollision(a, b string, allowed bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.acm.SetEntry(a, b, allowed)
}

// CheckCollision checks the state, including its attached bodies, against itself and the world objects.
func (ps *PlanningScene) CheckCollision(req collision.Request, state *robot.State) *collision.Result {
	ps.mu.RLock()
	if state == nil {
		state = ps.current
	}
	acm := ps.acm.Clone()
	bodies := make([]collision.Body, 0, len(ps.model.Links())+len(ps.objects))
	for _, name := range ps.objectNamesLocked() {
		obj := ps.objects[name]
		bodies = append(bodies, collision.Body{Name: obj.Name, Type: collision.WorldObject, Geometries: obj.GlobalGeometries()})
	}
	ps.mu.RUnlock()

	for _, link := range ps.model.Links() {
		if len(link.Geometries()) == 0 {
			continue
		}
		bodies = append(bodies, collision.Body{
			Name:       link.Name(),
			Type:       collision.RobotLink,
			Geometries: state.GlobalLinkGeometries(link),
		})
	}
	for _, body := range state.AttachedBodies() {
		bodies = append(bodies, collision.Body{
			Name:       body.Name(),
			Type:       collision.RobotAttached,
			Geometries: state.GlobalAttachedBodyGeometries(body),
		})
		for _, link := range body.TouchLinks() {
			acm.SetEntry(body.Name(), link, true)
		}
	}
	return ps.checker.Check(req, bodies, acm)
}
