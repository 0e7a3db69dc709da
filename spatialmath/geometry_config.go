package spatialmath

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// GeometryType defines what geometry creator representations are known.
type GeometryType string

// The set of allowed representations for a geometry.
const (
	BoxType    = GeometryType("box")
	SphereType = GeometryType("sphere")
)

// GeometryConfig specifies the format of geometries specified through the configuration file.
type GeometryConfig struct {
	Type GeometryType `json:"type"`

	// parameters used for defining a box's rectangular cross-section
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	Z float64 `json:"z,omitempty"`

	// parameter used for defining a sphere's radius
	R float64 `json:"r,omitempty"`

	// define an offset to position the geometry
	TranslationOffset r3.Vector                 `json:"translation,omitempty"`
	OrientationOffset *OrientationVectorDegrees `json:"orientation,omitempty"`

	Label string `json:"label,omitempty"`
}

// NewGeometryConfigFromMap decodes loosely typed attributes, such as those read from a generic configuration
// document, into a GeometryConfig.
func NewGeometryConfigFromMap(attrs map[string]interface{}) (*GeometryConfig, error) {
	cfg := &GeometryConfig{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return nil, errors.Wrap(err, "cannot decode geometry config")
	}
	return cfg, nil
}

// NewGeometryConfig creates a config for a Geometry from an offset Pose.
func NewGeometryConfig(g Geometry) (*GeometryConfig, error) {
	config := &GeometryConfig{Label: g.Label()}
	offset := g.Pose()
	config.TranslationOffset = offset.Point()
	config.OrientationOffset = offset.Orientation().OrientationVectorDegrees()
	switch gType := g.(type) {
	case *box:
		config.Type = BoxType
		config.X = 2 * gType.halfSize[0]
		config.Y = 2 * gType.halfSize[1]
		config.Z = 2 * gType.halfSize[2]
	case *sphere:
		config.Type = SphereType
		config.R = gType.radius
	default:
		return nil, NewGeometryTypeUnsupportedError(string(config.Type))
	}
	return config, nil
}

// ParseConfig converts a GeometryConfig into the correct Geometry.
func (config *GeometryConfig) ParseConfig() (Geometry, error) {
	var orientation Orientation = NewZeroOrientation()
	if config.OrientationOffset != nil {
		orientation = config.OrientationOffset
	}
	offset := NewPose(config.TranslationOffset, orientation)

	switch config.Type {
	case BoxType:
		return NewBox(offset, r3.Vector{X: config.X, Y: config.Y, Z: config.Z}, config.Label)
	case SphereType:
		return NewSphere(offset, config.R, config.Label)
	case GeometryType(""):
		// no type specified, infer it from the dimensions that were filled in
		if config.R > 0 {
			return NewSphere(offset, config.R, config.Label)
		}
		if config.X > 0 || config.Y > 0 || config.Z > 0 {
			return NewBox(offset, r3.Vector{X: config.X, Y: config.Y, Z: config.Z}, config.Label)
		}
	}
	return nil, NewGeometryTypeUnsupportedError(string(config.Type))
}
