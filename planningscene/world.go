package planningscene

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"
	commonpb "go.viam.com/api/common/v1"

	"go.viam.com/taskconstructor/referenceframe"
	spatial "go.viam.com/taskconstructor/spatialmath"
)

const unnamedGeometryPrefix = "unnamedGeometry_"

// WorldObject is a named collision object of the world. Its geometries are expressed in the object
// frame, placed in the planning frame by Pose.
type WorldObject struct {
	Name       string
	Pose       spatial.Pose
	Geometries []spatial.Geometry
}

// GlobalGeometries returns the object's geometries placed in the planning frame.
func (obj *WorldObject) GlobalGeometries() []spatial.Geometry {
	pose := obj.Pose
	if pose == nil {
		pose = spatial.NewZeroPose()
	}
	geoms := make([]spatial.Geometry, 0, len(obj.Geometries))
	for _, g := range obj.Geometries {
		geoms = append(geoms, g.Transform(pose))
	}
	return geoms
}

// AddObject adds an object to the world. Object names share a namespace with robot links.
func (ps *PlanningScene) AddObject(obj *WorldObject) error {
	if obj == nil || obj.Name == "" {
		return errors.New("world object must have a name")
	}
	if ps.model.Link(obj.Name) != nil {
		return errors.Errorf("world object %q has the name of a robot link", obj.Name)
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if _, ok := ps.objects[obj.Name]; ok {
		return errors.Errorf("world object %q already exists", obj.Name)
	}
	ps.objects[obj.Name] = obj
	ps.logger.Debugw("added world object", "name", obj.Name, "geometries", len(obj.Geometries))
	return nil
}

// AddObjectFromConfig adds an object whose geometries are given as loosely typed attribute maps, as read
// from a generic configuration document.
func (ps *PlanningScene) AddObjectFromConfig(name string, pose spatial.Pose, geometryAttrs ...map[string]interface{}) error {
	geoms := make([]spatial.Geometry, 0, len(geometryAttrs))
	for i, attrs := range geometryAttrs {
		cfg, err := spatial.NewGeometryConfigFromMap(attrs)
		if err != nil {
			return errors.Wrapf(err, "world object %q geometry %d", name, i)
		}
		g, err := cfg.ParseConfig()
		if err != nil {
			return errors.Wrapf(err, "world object %q geometry %d", name, i)
		}
		geoms = append(geoms, g)
	}
	return ps.AddObject(&WorldObject{Name: name, Pose: pose, Geometries: geoms})
}

// AddObjectsFromProtobuf adds one object per geometry of the message. The geometries are expressed in
// the message's reference frame, which must be known to the current state. Unlabeled geometries get a
// generated name.
func (ps *PlanningScene) AddObjectsFromProtobuf(proto *commonpb.GeometriesInFrame) error {
	_, found, reference := ps.CurrentState().FrameInfo(proto.GetReferenceFrame())
	if !found {
		return referenceframe.NewFrameMissingError(proto.GetReferenceFrame())
	}
	unnamed := 1
	for _, protoGeom := range proto.GetGeometries() {
		g, err := spatial.NewGeometryFromProto(protoGeom)
		if err != nil {
			return err
		}
		name := g.Label()
		if name == "" {
			name = unnamedGeometryPrefix + strconv.Itoa(unnamed)
			unnamed++
		}
		if err := ps.AddObject(&WorldObject{Name: name, Pose: reference, Geometries: []spatial.Geometry{g}}); err != nil {
			return err
		}
	}
	return nil
}

// RemoveObject removes the named object and reports whether it existed.
func (ps *PlanningScene) RemoveObject(name string) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	_, ok := ps.objects[name]
	delete(ps.objects, name)
	if ok {
		ps.logger.Debugw("removed world object", "name", name)
	}
	return ok
}

// Object returns the named world object.
func (ps *PlanningScene) Object(name string) (*WorldObject, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	obj, ok := ps.objects[name]
	return obj, ok
}

// ObjectNames returns the sorted names of the world objects.
func (ps *PlanningScene) ObjectNames() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.objectNamesLocked()
}

func (ps *PlanningScene) objectNamesLocked() []string {
	names := make([]string, 0, len(ps.objects))
	for name := range ps.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WorldGeometries returns every world object geometry in the planning frame, labeled by object name.
func (ps *PlanningScene) WorldGeometries() *commonpb.GeometriesInFrame {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := &commonpb.GeometriesInFrame{ReferenceFrame: ps.PlanningFrame()}
	for _, name := range ps.objectNamesLocked() {
		for _, g := range ps.objects[name].GlobalGeometries() {
			pb := g.ToProtobuf()
			pb.Label = name
			out.Geometries = append(out.Geometries, pb)
		}
	}
	return out
}
