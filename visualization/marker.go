// Package visualization builds renderable markers, such as the spheres that show where a trajectory
// collides, and exports them in the common geometry wire format.
package visualization

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	commonpb "go.viam.com/api/common/v1"
	"google.golang.org/protobuf/encoding/protojson"

	spatial "go.viam.com/taskconstructor/spatialmath"
)

// MarkerType is the shape a marker is drawn with.
type MarkerType int

// The supported marker shapes.
const (
	SphereMarker MarkerType = iota
	CubeMarker
)

func (mt MarkerType) String() string {
	switch mt {
	case SphereMarker:
		return "sphere"
	case CubeMarker:
		return "cube"
	}
	return "unknown"
}

// Marker is a single renderable primitive. Namespace and ID together identify it, so a marker with the
// same pair replaces an earlier one in a viewer.
type Marker struct {
	Namespace string
	ID        int
	Type      MarkerType
	FrameID   string
	Pose      spatial.Pose
	// Scale is the extent of the shape along each axis, in millimeters. For a sphere it is the diameter.
	Scale    r3.Vector
	Color    colorful.Color
	Alpha    float64
	Lifetime time.Duration
}

// Geometry returns the marker as a geometry in its frame, labeled "namespace/id".
func (m *Marker) Geometry() (spatial.Geometry, error) {
	pose := m.Pose
	if pose == nil {
		pose = spatial.NewZeroPose()
	}
	label := fmt.Sprintf("%s/%d", m.Namespace, m.ID)
	switch m.Type {
	case SphereMarker:
		return spatial.NewSphere(pose, m.Scale.X/2, label)
	case CubeMarker:
		return spatial.NewBox(pose, m.Scale, label)
	default:
		return nil, errors.Errorf("cannot convert marker of type %v to a geometry", m.Type)
	}
}

type markerJSON struct {
	Namespace string          `json:"ns"`
	ID        int             `json:"id"`
	Type      string          `json:"type"`
	FrameID   string          `json:"frame_id"`
	Pose      json.RawMessage `json:"pose"`
	Scale     r3.Vector       `json:"scale"`
	Color     string          `json:"color"`
	Alpha     float64         `json:"alpha"`
	Lifetime  float64         `json:"lifetime_sec"`
}

// MarshalJSON encodes the marker with its pose in the common protobuf JSON form.
func (m *Marker) MarshalJSON() ([]byte, error) {
	pose := m.Pose
	if pose == nil {
		pose = spatial.NewZeroPose()
	}
	poseBytes, err := protojson.Marshal(spatial.PoseToProtobuf(pose))
	if err != nil {
		return nil, err
	}
	return json.Marshal(markerJSON{
		Namespace: m.Namespace,
		ID:        m.ID,
		Type:      m.Type.String(),
		FrameID:   m.FrameID,
		Pose:      poseBytes,
		Scale:     m.Scale,
		Color:     m.Color.Clamped().Hex(),
		Alpha:     m.Alpha,
		Lifetime:  m.Lifetime.Seconds(),
	})
}

// MarkerArray is an append-only sequence of markers. The zero value is ready to use.
type MarkerArray struct {
	markers []Marker
}

// Append adds markers at the end of the array.
func (ma *MarkerArray) Append(markers ...Marker) {
	ma.markers = append(ma.markers, markers...)
}

// Len returns the number of markers.
func (ma *MarkerArray) Len() int {
	if ma == nil {
		return 0
	}
	return len(ma.markers)
}

// At returns the marker at index i.
func (ma *MarkerArray) At(i int) Marker {
	return ma.markers[i]
}

// Markers returns a copy of the markers in append order.
func (ma *MarkerArray) Markers() []Marker {
	return append([]Marker(nil), ma.markers...)
}

// ToProtobuf groups the markers by frame, in the order each frame first appears, and converts them to
// geometries.
func (ma *MarkerArray) ToProtobuf() ([]*commonpb.GeometriesInFrame, error) {
	var out []*commonpb.GeometriesInFrame
	byFrame := map[string]*commonpb.GeometriesInFrame{}
	for i := range ma.markers {
		m := &ma.markers[i]
		g, err := m.Geometry()
		if err != nil {
			return nil, errors.Wrapf(err, "marker %d", i)
		}
		gif, ok := byFrame[m.FrameID]
		if !ok {
			gif = &commonpb.GeometriesInFrame{ReferenceFrame: m.FrameID}
			byFrame[m.FrameID] = gif
			out = append(out, gif)
		}
		gif.Geometries = append(gif.Geometries, g.ToProtobuf())
	}
	return out, nil
}

// MarshalJSON encodes the array as a JSON list of markers.
func (ma *MarkerArray) MarshalJSON() ([]byte, error) {
	markers := make([]*Marker, 0, len(ma.markers))
	for i := range ma.markers {
		markers = append(markers, &ma.markers[i])
	}
	return json.Marshal(markers)
}
