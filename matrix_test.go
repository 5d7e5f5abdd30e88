package orrery

import (
	"math"
	"testing"
)

func BenchmarkMatrixInversion(b *testing.B) {

	b.ReportAllocs()

	mat := NewMatrix4Rotate(0, 1, 0.2, 0.24).Mult(NewMatrix4Translate(1, 4, -12))

	for i := 0; i < b.N; i++ {
		mat.Inverted()
	}

}

func BenchmarkViewProjection(b *testing.B) {

	b.ReportAllocs()

	camera := NewCamera(640, 360)
	camera.SetWorldPosition(0, 3, 20)
	camera.LookAt(NewVectorZero())

	for i := 0; i < b.N; i++ {
		camera.ViewProjection()
	}

}

func TestMatrixInversion(t *testing.T) {

	matrices := []Matrix4{
		NewMatrix4Rotate(0, 1, 0, 0.1),
		NewMatrix4Translate(-10, 0.1, 3232.1976),
		NewMatrix4Scale(10, 0.1, -0.45),
		NewMatrix4Translate(-1, -1, -1).Mult(NewMatrix4Rotate(1, 0, 0.1, 0.334)).Mult(NewMatrix4Scale(10, 1, 2)),
	}

	for i, mat := range matrices {

		// A matrix multiplied by its inverse should give the identity matrix.
		if !mat.Mult(mat.Inverted()).IsIdentity() {
			t.Fatal("failed on matrix #", i, ": matrix * matrix.Inverted() is not identity")
		}

	}

}

func TestMatrixDecompose(t *testing.T) {

	rotation := NewMatrix4Rotate(1, 1, 0, 0.7)
	mat := NewMatrix4Scale(2, 3, 4).Mult(rotation).Mult(NewMatrix4Translate(5, -6, 7))

	pos, scale, rot := mat.Decompose()

	if !pos.Equals(NewVector(5, -6, 7)) {
		t.Fatal("position should be {5, -6, 7}; got", pos)
	}

	if math.Abs(scale.X-2) > 1e-9 || math.Abs(scale.Y-3) > 1e-9 || math.Abs(scale.Z-4) > 1e-9 {
		t.Fatal("scale should be {2, 3, 4}; got", scale)
	}

	if !rot.Equals(rotation) {
		t.Fatal("rotation doesn't match:\n", rot, "\n", rotation)
	}

}

func TestLookAtMatrix(t *testing.T) {

	from := NewVector(1, 2, 3)
	to := NewVector(4, 2, 3)

	if forward := NewLookAtMatrix(from, to, WorldUp).Forward(); !forward.Equals(WorldRight) {
		t.Fatal("look-at matrix should point +Z towards the target; got", forward)
	}

	// Looking straight up shouldn't produce a degenerate matrix.
	up := NewLookAtMatrix(NewVectorZero(), WorldUp, WorldUp)
	if up.Right().IsNaN() || up.Up().IsNaN() || !up.Forward().Equals(WorldUp) {
		t.Fatal("looking along the up vector gave a degenerate matrix:\n", up)
	}

}

func TestEulerRotationOrder(t *testing.T) {

	// Z is applied first, then Y.
	euler := NewVector(0, math.Pi/2, math.Pi/2)
	got := NewMatrix4RotateFromEuler(euler).MultVec(WorldBackward)
	want := WorldBackward.Rotate(WorldBackward, math.Pi/2).Rotate(WorldUp, math.Pi/2)

	if !got.Equals(want) {
		t.Fatal("euler rotation should apply Z before Y; got", got, "want", want)
	}

}

func TestPerspectiveProjectionDepth(t *testing.T) {

	camera := NewCamera(640, 480)
	camera.SetWorldPosition(0, 0, 10)
	camera.LookAt(NewVectorZero())

	clip := camera.WorldToClip(NewVectorZero())

	if math.Abs(clip.W-10) > 1e-9 {
		t.Fatal("clip W should be the distance in front of the camera (10); got", clip.W)
	}

	screen := camera.WorldToScreenPixels(NewVectorZero())

	if math.Abs(screen.X-320) > 1e-6 || math.Abs(screen.Y-240) > 1e-6 {
		t.Fatal("the look-at target should be at the center of the screen; got", screen)
	}

	// +Y in the world is up on screen, which is towards smaller pixel Y values.
	if above := camera.WorldToScreenPixels(NewVector(0, 1, 0)); above.Y >= 240 {
		t.Fatal("a point above the target should be drawn above the center; got", above)
	}

	if camera.PointInFront(NewVector(0, 0, 20)) {
		t.Fatal("a point behind the camera shouldn't be in front of it")
	}

}
