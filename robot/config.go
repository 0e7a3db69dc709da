package robot

import (
	"encoding/json"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/taskconstructor/referenceframe"
	spatial "go.viam.com/taskconstructor/spatialmath"
	"go.viam.com/taskconstructor/utils"
)

// ModelConfig represents all supported fields in a kinematics JSON file.
type ModelConfig struct {
	Name               string                `json:"name"`
	ModelFrame         string                `json:"model_frame,omitempty"`
	RootLink           string                `json:"root_link"`
	Links              []LinkConfig          `json:"links"`
	Joints             []JointConfig         `json:"joints,omitempty"`
	Groups             []GroupConfig         `json:"groups,omitempty"`
	DisabledCollisions []CollisionPairConfig `json:"disabled_collisions,omitempty"`
}

// LinkConfig describes a link and its collision geometries, expressed in the link frame.
type LinkConfig struct {
	ID         string                   `json:"id"`
	Geometries []spatial.GeometryConfig `json:"geometries,omitempty"`
}

// JointConfig describes a joint. Revolute limits are in degrees, prismatic limits in mm. A joint without
// limits is unbounded.
type JointConfig struct {
	ID          string                            `json:"id"`
	Type        JointType                         `json:"type"`
	Parent      string                            `json:"parent"`
	Child       string                            `json:"child"`
	Translation r3.Vector                         `json:"translation"`
	Orientation *spatial.OrientationVectorDegrees `json:"orientation,omitempty"`
	Axis        r3.Vector                         `json:"axis"`
	Min         *float64                          `json:"min,omitempty"`
	Max         *float64                          `json:"max,omitempty"`
}

// GroupConfig declares a joint group. Tips are inferred from the links when omitted.
type GroupConfig struct {
	Name  string   `json:"name"`
	Links []string `json:"links"`
	Tips  []string `json:"tips,omitempty"`
}

// CollisionPairConfig names two links that are never checked against each other.
type CollisionPairConfig struct {
	Link1 string `json:"link1"`
	Link2 string `json:"link2"`
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*Model, error) {
	// empty data probably means that the robot has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	cfg := &ModelConfig{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(modelName)
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (*Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// Validate reports every problem of the configuration at once.
func (cfg *ModelConfig) Validate() error {
	var errs error
	if cfg.RootLink == "" {
		errs = multierr.Append(errs, errors.New("root_link is required"))
	}

	links := map[string]bool{}
	for _, l := range cfg.Links {
		switch {
		case l.ID == "":
			errs = multierr.Append(errs, errors.New("link id cannot be empty"))
		case l.ID == referenceframe.World:
			errs = multierr.Append(errs, referenceframe.NewReservedWordError("link", referenceframe.World))
		case links[l.ID]:
			errs = multierr.Append(errs, NewDuplicateNameError("link", l.ID))
		}
		links[l.ID] = true
	}
	if cfg.RootLink != "" && !links[cfg.RootLink] {
		errs = multierr.Append(errs, NewUnknownLinkError("root_link", cfg.RootLink))
	}

	joints := map[string]bool{}
	children := map[string]string{}
	for _, j := range cfg.Joints {
		switch {
		case j.ID == "":
			errs = multierr.Append(errs, errors.New("joint id cannot be empty"))
		case j.ID == referenceframe.World:
			errs = multierr.Append(errs, referenceframe.NewReservedWordError("joint", referenceframe.World))
		case joints[j.ID]:
			errs = multierr.Append(errs, NewDuplicateNameError("joint", j.ID))
		}
		joints[j.ID] = true

		switch j.Type {
		case FixedJoint, RevoluteJoint, PrismaticJoint:
		default:
			errs = multierr.Append(errs, NewUnsupportedJointTypeError(j.ID, j.Type))
		}
		if !links[j.Parent] {
			errs = multierr.Append(errs, NewUnknownLinkError("joint "+j.ID, j.Parent))
		}
		if !links[j.Child] {
			errs = multierr.Append(errs, NewUnknownLinkError("joint "+j.ID, j.Child))
		}
		if other, ok := children[j.Child]; ok {
			errs = multierr.Append(errs, errors.Errorf("link %q is the child of both joint %q and joint %q", j.Child, other, j.ID))
		}
		children[j.Child] = j.ID
		if j.Child == cfg.RootLink && cfg.RootLink != "" {
			errs = multierr.Append(errs, errors.Errorf("root link %q cannot be the child of joint %q", j.Child, j.ID))
		}
		if j.Min != nil && j.Max != nil && *j.Min > *j.Max {
			errs = multierr.Append(errs, NewBadLimitError(j.ID, referenceframe.Limit{Min: *j.Min, Max: *j.Max}))
		}
	}
	for _, l := range cfg.Links {
		if _, ok := children[l.ID]; !ok && l.ID != cfg.RootLink && l.ID != "" {
			errs = multierr.Append(errs, errors.Errorf("link %q is not connected to the root link", l.ID))
		}
	}

	for _, g := range cfg.Groups {
		for _, l := range g.Links {
			if !links[l] {
				errs = multierr.Append(errs, NewUnknownLinkError("group "+g.Name, l))
			}
		}
	}
	for _, pair := range cfg.DisabledCollisions {
		for _, l := range []string{pair.Link1, pair.Link2} {
			if !links[l] {
				errs = multierr.Append(errs, NewUnknownLinkError("disabled collision pair", l))
			}
		}
	}
	return errs
}

// ParseConfig converts the ModelConfig into a Model named modelName, or the configured name if empty.
func (cfg *ModelConfig) ParseConfig(modelName string) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = cfg.Name
	}

	geometries := map[string][]spatial.Geometry{}
	for _, l := range cfg.Links {
		for i := range l.Geometries {
			g, err := l.Geometries[i].ParseConfig()
			if err != nil {
				return nil, errors.Wrapf(err, "link %q", l.ID)
			}
			if g.Label() == "" {
				g.SetLabel(l.ID)
			}
			geometries[l.ID] = append(geometries[l.ID], g)
		}
	}

	builder := NewModelBuilder(modelName, cfg.RootLink, geometries[cfg.RootLink]...)
	if cfg.ModelFrame != "" {
		builder.SetModelFrame(cfg.ModelFrame)
	}

	// joints may be declared in any order, so add each one once its parent link exists
	added := map[string]bool{cfg.RootLink: true}
	pending := cfg.Joints
	for len(pending) > 0 {
		var next []JointConfig
		for _, j := range pending {
			if !added[j.Parent] {
				next = append(next, j)
				continue
			}
			builder.AddJoint(j.ID, j.Type, j.Parent, j.Child, j.origin(), j.Axis, j.limit(), geometries[j.Child]...)
			added[j.Child] = true
		}
		if len(next) == len(pending) {
			return nil, errors.Errorf("joints %v are not connected to the root link", jointIDs(next))
		}
		pending = next
	}

	for _, g := range cfg.Groups {
		builder.AddGroup(g.Name, g.Links, g.Tips)
	}
	for _, pair := range cfg.DisabledCollisions {
		builder.DisableCollisions(pair.Link1, pair.Link2)
	}
	return builder.Build()
}

func (j *JointConfig) origin() spatial.Pose {
	if j.Orientation == nil {
		return spatial.NewPoseFromPoint(j.Translation)
	}
	return spatial.NewPose(j.Translation, j.Orientation)
}

func (j *JointConfig) limit() referenceframe.Limit {
	limit := referenceframe.UnboundedLimit()
	if j.Min != nil {
		limit.Min = *j.Min
	}
	if j.Max != nil {
		limit.Max = *j.Max
	}
	if j.Type == RevoluteJoint {
		limit.Min = utils.DegToRad(limit.Min)
		limit.Max = utils.DegToRad(limit.Max)
	}
	return limit
}

func jointIDs(joints []JointConfig) []string {
	ids := make([]string, 0, len(joints))
	for _, j := range joints {
		ids = append(ids, j.ID)
	}
	return ids
}
