package orrery

import (
	"math"
	"strconv"
)

// The world axes. Orrery uses a right-handed, Y-up coordinate system, with +Z pointing out of the screen towards the viewer.
var (
	WorldRight    = NewVector(1, 0, 0)  // +X
	WorldLeft     = NewVector(-1, 0, 0) // -X
	WorldUp       = NewVector(0, 1, 0)  // +Y
	WorldDown     = NewVector(0, -1, 0) // -Y
	WorldBackward = NewVector(0, 0, 1)  // +Z, towards the viewer
	WorldForward  = NewVector(0, 0, -1) // -Z, into the screen
)

// Vector is a 3D position or direction. W only matters for clip-space coordinates (see Matrix4.MultVecW()); the other
// Vector functions ignore it. Vector functions return modified copies, so calls can be chained.
type Vector struct {
	X, Y, Z float64
	W       float64
}

// NewVector creates a new Vector with the specified x, y, and z components.
func NewVector(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// NewVectorZero returns a zeroed Vector.
func NewVectorZero() Vector {
	return Vector{}
}

// Add returns the sum of the two Vectors.
func (vec Vector) Add(other Vector) Vector {
	return Vector{X: vec.X + other.X, Y: vec.Y + other.Y, Z: vec.Z + other.Z, W: vec.W}
}

// Sub returns the Vector minus the other.
func (vec Vector) Sub(other Vector) Vector {
	return Vector{X: vec.X - other.X, Y: vec.Y - other.Y, Z: vec.Z - other.Z, W: vec.W}
}

// Scale returns the Vector multiplied by the scalar given.
func (vec Vector) Scale(scalar float64) Vector {
	return Vector{X: vec.X * scalar, Y: vec.Y * scalar, Z: vec.Z * scalar, W: vec.W}
}

// Divide returns the Vector divided by the scalar given.
func (vec Vector) Divide(scalar float64) Vector {
	return Vector{X: vec.X / scalar, Y: vec.Y / scalar, Z: vec.Z / scalar, W: vec.W}
}

// Invert returns the Vector pointing the other way (W included).
func (vec Vector) Invert() Vector {
	return Vector{X: -vec.X, Y: -vec.Y, Z: -vec.Z, W: -vec.W}
}

// Dot returns the dot product of the two Vectors.
func (vec Vector) Dot(other Vector) float64 {
	return vec.X*other.X + vec.Y*other.Y + vec.Z*other.Z
}

// Cross returns the cross product of the two Vectors.
func (vec Vector) Cross(other Vector) Vector {
	return Vector{
		X: vec.Y*other.Z - vec.Z*other.Y,
		Y: vec.Z*other.X - vec.X*other.Z,
		Z: vec.X*other.Y - vec.Y*other.X,
		W: vec.W,
	}
}

func (vec Vector) Magnitude() float64 {
	return math.Sqrt(vec.MagnitudeSquared())
}

// MagnitudeSquared returns the squared length of the Vector, skipping the square root.
func (vec Vector) MagnitudeSquared() float64 {
	return vec.Dot(vec)
}

func (vec Vector) Distance(other Vector) float64 {
	return vec.Sub(other).Magnitude()
}

func (vec Vector) DistanceSquared(other Vector) float64 {
	return vec.Sub(other).MagnitudeSquared()
}

// Unit returns the Vector scaled to a length of 1. Vectors too short to have a direction come back unchanged.
func (vec Vector) Unit() Vector {
	l := vec.Magnitude()
	if l < 1e-8 {
		return vec
	}
	return vec.Divide(l)
}

// Equals returns true if X, Y, and Z are each within 1e-8 of the other Vector's.
func (vec Vector) Equals(other Vector) bool {
	const eps = 1e-8
	return math.Abs(vec.X-other.X) <= eps && math.Abs(vec.Y-other.Y) <= eps && math.Abs(vec.Z-other.Z) <= eps
}

// IsZero returns true if the Vector Equals() the zero Vector.
func (vec Vector) IsZero() bool {
	return vec.Equals(Vector{})
}

// IsNaN returns true if X, Y, or Z is NaN.
func (vec Vector) IsNaN() bool {
	return math.IsNaN(vec.X) || math.IsNaN(vec.Y) || math.IsNaN(vec.Z)
}

// Rotate returns the Vector rotated counter-clockwise around the axis given by the angle given (in radians), using Rodrigues'
// rotation formula.
func (vec Vector) Rotate(axis Vector, angle float64) Vector {

	u := axis.Unit()
	sin, cos := math.Sincos(angle)

	out := vec.Scale(cos).
		Add(u.Cross(vec).Scale(sin)).
		Add(u.Scale(u.Dot(vec) * (1 - cos)))

	out.W = vec.W
	return out

}

// Angle returns the angle between the two Vectors, in radians.
func (vec Vector) Angle(other Vector) float64 {
	d := vec.Unit().Dot(other.Unit())
	return math.Acos(math.Max(-1, math.Min(1, d)))
}

// String returns the Vector's X, Y, and Z, like "{1, 2, 3}".
func (vec Vector) String() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return "{" + f(vec.X) + ", " + f(vec.Y) + ", " + f(vec.Z) + "}"
}
