package visualization

import (
	"time"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"

	"go.viam.com/taskconstructor/collision"
	spatial "go.viam.com/taskconstructor/spatialmath"
)

// MarkerOptions controls how contact points are drawn.
type MarkerOptions struct {
	// Radius of each contact sphere, in millimeters.
	Radius   float64
	Color    colorful.Color
	Alpha    float64
	Lifetime time.Duration
}

// DefaultMarkerOptions draws contacts as translucent red spheres of radius 35mm that expire after a
// minute.
func DefaultMarkerOptions() MarkerOptions {
	return MarkerOptions{
		Radius:   35,
		Color:    colorful.Color{R: 1, G: 0, B: 0},
		Alpha:    0.8,
		Lifetime: 60 * time.Second,
	}
}

// CollisionMarkersFromContacts converts every contact to a sphere marker in frameID. Markers are
// namespaced "body1=body2" and numbered from zero within each namespace. Pairs are visited in sorted
// order. When opts is omitted DefaultMarkerOptions is used.
func CollisionMarkersFromContacts(frameID string, contacts map[collision.BodyPair][]collision.Contact, opts ...MarkerOptions) []Marker {
	o := DefaultMarkerOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	result := &collision.Result{Contacts: contacts}
	ids := map[string]int{}
	var markers []Marker
	for _, pair := range result.Pairs() {
		for _, c := range contacts[pair] {
			ns := c.Body1 + "=" + c.Body2
			markers = append(markers, Marker{
				Namespace: ns,
				ID:        ids[ns],
				Type:      SphereMarker,
				FrameID:   frameID,
				Pose:      spatial.NewPoseFromPoint(c.Position),
				Scale:     r3.Vector{X: 2 * o.Radius, Y: 2 * o.Radius, Z: 2 * o.Radius},
				Color:     o.Color,
				Alpha:     o.Alpha,
				Lifetime:  o.Lifetime,
			})
			ids[ns]++
		}
	}
	return markers
}
