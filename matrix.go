package orrery

import (
	"math"
	"strconv"
	"strings"
)

// Matrix4 represents a 4x4 matrix for translation, scale, and rotation. Matrix4s are row-major (the X axis is matrix[0],
// the translation matrix[3]) and vectors are multiplied as row vectors, so A.Mult(B) applies A first, then B.
type Matrix4 [4][4]float64

var identityMatrix = Matrix4{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{0, 0, 0, 1},
}

// NewMatrix4 returns a new identity Matrix4.
func NewMatrix4() Matrix4 {
	return identityMatrix
}

// NewMatrix4Translate returns a Matrix4 that moves by {x, y, z}.
func NewMatrix4Translate(x, y, z float64) Matrix4 {
	mat := identityMatrix
	mat.SetRow(3, Vector{X: x, Y: y, Z: z})
	return mat
}

// NewMatrix4Scale returns a Matrix4 that scales by {x, y, z}.
func NewMatrix4Scale(x, y, z float64) Matrix4 {
	mat := identityMatrix
	mat[0][0], mat[1][1], mat[2][2] = x, y, z
	return mat
}

// NewMatrix4Rotate returns a Matrix4 that rotates counter-clockwise by angle (in radians) around the axis {x, y, z}, as seen
// looking down the axis towards the origin. A zero axis rotates around +Y.
func NewMatrix4Rotate(x, y, z, angle float64) Matrix4 {

	axis := Vector{X: x, Y: y, Z: z}
	if axis.IsZero() {
		axis = WorldUp
	}
	axis = axis.Unit()

	ax, ay, az := axis.X, axis.Y, axis.Z
	s, c := math.Sincos(angle)
	t := 1 - c

	return Matrix4{
		{t*ax*ax + c, t*ax*ay + az*s, t*ax*az - ay*s, 0},
		{t*ax*ay - az*s, t*ay*ay + c, t*ay*az + ax*s, 0},
		{t*ax*az + ay*s, t*ay*az - ax*s, t*az*az + c, 0},
		{0, 0, 0, 1},
	}

}

// NewMatrix4RotateFromEuler creates a rotation Matrix4 from the euler angles (in radians) in the Vector given. Rotations are
// applied Z first, then Y, then X, which matches the "XYZ" euler order used by most scene-graph tools.
func NewMatrix4RotateFromEuler(euler Vector) Matrix4 {
	return NewMatrix4Rotate(0, 0, 1, euler.Z).
		Mult(NewMatrix4Rotate(0, 1, 0, euler.Y)).
		Mult(NewMatrix4Rotate(1, 0, 0, euler.X))
}

// NewProjectionPerspective returns a perspective projection Matrix4 for row vectors. fovy is the vertical field of view in
// degrees. Points in front of the camera come out with a positive W (their depth).
func NewProjectionPerspective(fovy, near, far, viewWidth, viewHeight float64) Matrix4 {

	f := 1 / math.Tan(fovy*math.Pi/360)
	depth := far - near

	return Matrix4{
		{f * viewHeight / viewWidth, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, -(far + near) / depth, -1},
		{0, 0, -2 * far * near / depth, 0},
	}

}

// NewLookAtMatrix returns a rotation Matrix4 whose Forward() (+Z) points from the from position towards the to position,
// keeping Up() as close to the up vector given as possible. Cameras and lights shine down -Z, so they pass the
// arguments the other way around (see Camera.LookAt()).
func NewLookAtMatrix(from, to, up Vector) Matrix4 {

	if from.Equals(to) {
		return NewMatrix4()
	}

	z := to.Sub(from).Unit()
	up = up.Unit()

	// Looking straight along the up vector leaves the sideways axis undefined.
	if z.Equals(up) || z.Equals(up.Invert()) {
		up = WorldRight
		if z.Equals(WorldRight) || z.Equals(WorldLeft) {
			up = WorldBackward
		}
	}

	x := up.Cross(z).Unit()
	y := z.Cross(x)

	mat := identityMatrix
	mat.SetRow(0, x)
	mat.SetRow(1, y)
	mat.SetRow(2, z)
	return mat

}

// Right returns the Matrix4's (normalized) X axis; +X for an identity matrix.
func (matrix Matrix4) Right() Vector {
	return Vector{X: matrix[0][0], Y: matrix[0][1], Z: matrix[0][2]}.Unit()
}

// Up returns the Matrix4's (normalized) Y axis; +Y for an identity matrix.
func (matrix Matrix4) Up() Vector {
	return Vector{X: matrix[1][0], Y: matrix[1][1], Z: matrix[1][2]}.Unit()
}

// Forward returns the Matrix4's (normalized) Z axis; +Z (towards the viewer) for an identity matrix.
func (matrix Matrix4) Forward() Vector {
	return Vector{X: matrix[2][0], Y: matrix[2][1], Z: matrix[2][2]}.Unit()
}

// Decompose splits the Matrix4 into its position, scale, and rotation. Negative scales come out positive, with the
// rotation flipped to match.
func (matrix Matrix4) Decompose() (position, scale Vector, rotation Matrix4) {

	position = matrix.Row(3)
	position.W = 0

	rotation = identityMatrix

	for i := 0; i < 3; i++ {
		axis := matrix.Row(i)
		axis.W = 0
		rotation.SetRow(i, axis.Unit())
		switch i {
		case 0:
			scale.X = axis.Magnitude()
		case 1:
			scale.Y = axis.Magnitude()
		case 2:
			scale.Z = axis.Magnitude()
		}
	}

	return position, scale, rotation

}

// Transposed returns the Matrix4 with its rows and columns swapped. For pure rotations, this is the inverse.
func (matrix Matrix4) Transposed() Matrix4 {
	var out Matrix4
	for i := range matrix {
		for j := range matrix[i] {
			out[i][j] = matrix[j][i]
		}
	}
	return out
}

// Inverted returns the inverse of the Matrix4, found by Gauss-Jordan elimination. A singular Matrix4 returns a zeroed Matrix4.
func (matrix Matrix4) Inverted() Matrix4 {

	m := matrix
	inv := identityMatrix

	for col := 0; col < 4; col++ {

		// Partial pivoting: swap in the row with the largest value in this column.
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}

		if m[pivot][col] == 0 {
			return Matrix4{}
		}

		m[col], m[pivot] = m[pivot], m[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		scale := 1 / m[col][col]
		for j := 0; j < 4; j++ {
			m[col][j] *= scale
			inv[col][j] *= scale
		}

		for row := 0; row < 4; row++ {
			if row == col || m[row][col] == 0 {
				continue
			}
			f := m[row][col]
			for j := 0; j < 4; j++ {
				m[row][j] -= f * m[col][j]
				inv[row][j] -= f * inv[col][j]
			}
		}

	}

	return inv

}

// MultVec transforms the position given by the Matrix4 (rotating, scaling, and translating it).
func (matrix Matrix4) MultVec(vect Vector) Vector {
	out := matrix.MultDirection(vect)
	out.X += matrix[3][0]
	out.Y += matrix[3][1]
	out.Z += matrix[3][2]
	return out
}

// MultVecW transforms the position given by the Matrix4 as a homogeneous coordinate, filling in W (as used for clip space).
func (matrix Matrix4) MultVecW(vect Vector) Vector {
	out := matrix.MultVec(vect)
	out.W = matrix[0][3]*vect.X + matrix[1][3]*vect.Y + matrix[2][3]*vect.Z + matrix[3][3]
	return out
}

// MultDirection transforms the direction given by the Matrix4's rotation and scale, ignoring translation.
func (matrix Matrix4) MultDirection(vect Vector) Vector {
	return Vector{
		X: matrix[0][0]*vect.X + matrix[1][0]*vect.Y + matrix[2][0]*vect.Z,
		Y: matrix[0][1]*vect.X + matrix[1][1]*vect.Y + matrix[2][1]*vect.Z,
		Z: matrix[0][2]*vect.X + matrix[1][2]*vect.Y + matrix[2][2]*vect.Z,
	}
}

// Mult returns the product of the two matrices: the Matrix4's transformation followed by the other's.
func (matrix Matrix4) Mult(other Matrix4) Matrix4 {
	var out Matrix4
	for i := range out {
		for j := range out[i] {
			for k := 0; k < 4; k++ {
				out[i][j] += matrix[i][k] * other[k][j]
			}
		}
	}
	return out
}

// Row returns a row of the Matrix4 as a Vector, W included.
func (matrix Matrix4) Row(rowIndex int) Vector {
	r := matrix[rowIndex]
	return Vector{X: r[0], Y: r[1], Z: r[2], W: r[3]}
}

// SetRow sets the X, Y, and Z values of a row of the Matrix4, leaving the fourth column alone.
func (matrix *Matrix4) SetRow(rowIndex int, vec Vector) {
	matrix[rowIndex][0], matrix[rowIndex][1], matrix[rowIndex][2] = vec.X, vec.Y, vec.Z
}

// Equals returns true if every value of the two matrices is within 1e-6 of each other.
func (matrix Matrix4) Equals(other Matrix4) bool {
	for i := range matrix {
		for j := range matrix[i] {
			if math.Abs(matrix[i][j]-other[i][j]) > 1e-6 {
				return false
			}
		}
	}
	return true
}

// IsIdentity returns true if the Matrix4 is (within tolerance) an identity matrix.
func (matrix Matrix4) IsIdentity() bool {
	return matrix.Equals(identityMatrix)
}

func (matrix Matrix4) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, row := range matrix {
		if i > 0 {
			sb.WriteString("\n")
		}
		for _, v := range row {
			sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
			sb.WriteString(", ")
		}
	}
	sb.WriteString("}")
	return sb.String()
}
