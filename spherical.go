package orrery

import "math"

// ToCartesian converts a latitude and longitude (in degrees) on a sphere of the given radius to a position relative to the
// sphere's center. Latitude runs from the equator (0) up to the north pole along +Y (90). Longitude 0 lies along +X, and
// increasing (eastward) longitude rotates clockwise when seen from above the north pole, towards -Z.
//
// Values aren't validated; out-of-range angles simply wrap around the sphere, and NaN inputs produce NaN outputs.
func ToCartesian(latDeg, lonDeg, radius float64) Vector {

	latRad := latDeg * math.Pi / 180
	lonRad := -lonDeg * math.Pi / 180

	return NewVector(
		math.Cos(latRad)*math.Cos(lonRad)*radius,
		math.Sin(latRad)*radius,
		math.Cos(latRad)*math.Sin(lonRad)*radius,
	)

}

// ToOrientation returns the euler rotation (in radians, applied in X, Y, Z order) that points an object's local +Y axis
// outwards along the surface normal at the latitude and longitude given (in degrees). Pass the result to
// NewMatrix4RotateFromEuler() to get a rotation matrix.
func ToOrientation(latDeg, lonDeg float64) Vector {

	latRad := latDeg * math.Pi / 180
	lonRad := -lonDeg * math.Pi / 180

	return NewVector(0, -lonRad, latRad-math.Pi/2)

}

// NewMatrix4FromSphericalOrientation returns a rotation Matrix4 orienting an object so that its local +Y axis points outwards
// from a sphere's surface at the latitude and longitude given (in degrees).
func NewMatrix4FromSphericalOrientation(latDeg, lonDeg float64) Matrix4 {
	return NewMatrix4RotateFromEuler(ToOrientation(latDeg, lonDeg))
}

// SurfaceNormal returns the outward-facing unit normal of a sphere at the latitude and longitude given (in degrees).
func SurfaceNormal(latDeg, lonDeg float64) Vector {
	return ToCartesian(latDeg, lonDeg, 1)
}
