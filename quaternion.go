package orrery

import "math"

// Quaternion represents a rotation as stored in model files (X, Y, Z being the imaginary axis and W the real component).
type Quaternion struct {
	X, Y, Z, W float64
}

// NewQuaternion returns a new Quaternion with the provided components.
func NewQuaternion(x, y, z, w float64) Quaternion {
	return Quaternion{x, y, z, w}
}

// Magnitude returns the length of the Quaternion.
func (quat Quaternion) Magnitude() float64 {
	return math.Sqrt(quat.Dot(quat))
}

// Unit returns a normalized copy of the Quaternion. A zero-length Quaternion returns the identity rotation.
func (quat Quaternion) Unit() Quaternion {
	m := quat.Magnitude()
	if m < 1e-12 {
		return NewQuaternion(0, 0, 0, 1)
	}
	return NewQuaternion(quat.X/m, quat.Y/m, quat.Z/m, quat.W/m)
}

// ToMatrix4 returns the rotation Matrix4 represented by the Quaternion.
func (quat Quaternion) ToMatrix4() Matrix4 {

	q := quat.Unit()

	x, y, z, w := q.X, q.Y, q.Z, q.W

	return Matrix4{
		{1 - 2*(y*y+z*z), 2 * (x*y + z*w), 2 * (x*z - y*w), 0},
		{2 * (x*y - z*w), 1 - 2*(x*x+z*z), 2 * (y*z + x*w), 0},
		{2 * (x*z + y*w), 2 * (y*z - x*w), 1 - 2*(x*x+y*y), 0},
		{0, 0, 0, 1},
	}

}
