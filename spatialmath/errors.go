package spatialmath

import "github.com/pkg/errors"

// NewZeroOrientationVectorError returns an error for an orientation vector whose axis has zero length.
func NewZeroOrientationVectorError() error {
	return errors.New("orientation vector has zero length axis")
}

// NewBadGeometryDimensionsError returns an error indicating that the dimensions of the given geometry are invalid.
func NewBadGeometryDimensionsError(g Geometry) error {
	return errors.Errorf("invalid dimension(s) for geometry type %T", g)
}

// NewGeometryTypeUnsupportedError returns an error for a geometry type that cannot be instantiated.
func NewGeometryTypeUnsupportedError(geomType string) error {
	return errors.Errorf("unsupported geometry type %q", geomType)
}

func newCollisionTypeUnsupportedError(g1, g2 Geometry) error {
	return errors.Errorf("collisions between %T and %T are not supported", g1, g2)
}
