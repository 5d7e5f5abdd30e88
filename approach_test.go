package orrery

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApproachScene(t testing.TB, speed, threshold float64) (*ApproachController, *Camera, *CelestialBody) {

	scene := NewScene("approach")
	body := NewCelestialBody("Mars", nil, 1, NewLabelLayer())
	scene.Add(body)

	camera := NewCamera(640, 480)
	scene.Add(camera)
	camera.SetWorldPosition(0, 0, 10)

	ac, err := NewApproachController(NewVectorZero(), speed, threshold)
	require.NoError(t, err)

	ac.Scene = scene
	ac.Controls = NewOrbitControls(NewVectorZero())
	ac.Controls.EnableRotate = false

	return ac, camera, body

}

func TestNewApproachControllerValidation(t *testing.T) {

	cases := []struct {
		speed, threshold float64
		want             error
	}{
		{0, 0.5, ErrInvalidSpeed},
		{-1, 0.5, ErrInvalidSpeed},
		{math.NaN(), 0.5, ErrInvalidSpeed},
		{0.3, 0, ErrInvalidThreshold},
		{0.3, -0.5, ErrInvalidThreshold},
		{0.3, math.NaN(), ErrInvalidThreshold},
	}

	for _, c := range cases {
		ac, err := NewApproachController(NewVectorZero(), c.speed, c.threshold)
		assert.Nil(t, ac)
		assert.True(t, errors.Is(err, c.want), "speed %v threshold %v: got %v", c.speed, c.threshold, err)
	}

}

func TestApproachArrivesOnFrame(t *testing.T) {

	ac, camera, body := newApproachScene(t, 0.3, 0.5)

	arrivals := 0
	ac.OnArrive = func(c *Camera, b *CelestialBody) {
		arrivals++
		assert.Same(t, camera, c)
		assert.Same(t, body, b)
	}

	for frame := 1; frame < 32; frame++ {
		require.Equal(t, Approaching, ac.Advance(camera, body), "arrived early, on frame %d", frame)
		require.False(t, ac.Controls.EnableRotate)
	}

	require.Equal(t, Arrived, ac.Advance(camera, body))

	assert.Equal(t, 32, ac.Frames())
	assert.Equal(t, 1, arrivals)
	assert.True(t, ac.Controls.EnableRotate)
	assert.InDelta(t, 0.4, camera.WorldPosition().Distance(ac.Target), 1e-9)

}

func TestApproachArrivedIsFinal(t *testing.T) {

	ac, camera, body := newApproachScene(t, 0.3, 0.5)

	arrivals := 0
	ac.OnArrive = func(*Camera, *CelestialBody) { arrivals++ }

	for ac.Advance(camera, body) != Arrived {
	}

	position := camera.WorldPosition()
	frames := ac.Frames()

	for i := 0; i < 10; i++ {
		require.Equal(t, Arrived, ac.Advance(camera, body))
	}

	assert.True(t, camera.WorldPosition().Equals(position))
	assert.Equal(t, frames, ac.Frames())
	assert.Equal(t, 1, arrivals)

	// Moving the camera away again (as the orbit controls would) doesn't restart the approach.
	camera.SetWorldPosition(0, 0, 50)
	assert.Equal(t, Arrived, ac.Advance(camera, body))
	assert.True(t, camera.WorldPosition().Equals(NewVector(0, 0, 50)))

}

func TestApproachDoesNotOvershoot(t *testing.T) {

	ac, camera, body := newApproachScene(t, 20, 0.5)

	assert.Equal(t, Arrived, ac.Advance(camera, body))
	assert.True(t, camera.WorldPosition().Equals(ac.Target), "got %v", camera.WorldPosition())
	assert.Equal(t, 1, ac.Frames())

}

func TestApproachStartingWithinThreshold(t *testing.T) {

	ac, camera, body := newApproachScene(t, 0.3, 0.5)
	camera.SetWorldPosition(0, 0, 0.25)

	assert.Equal(t, Arrived, ac.Advance(camera, body))
	assert.True(t, camera.WorldPosition().Equals(NewVector(0, 0, 0.25)))

}

func TestApproachFacesTarget(t *testing.T) {

	ac, camera, body := newApproachScene(t, 0.3, 0.5)
	ac.Target = NewVector(0, 0, 3)
	camera.SetWorldPosition(4, 0, 3)

	ac.Advance(camera, body)

	assert.True(t, camera.Forward().Equals(WorldLeft), "camera faces %v", camera.Forward())
	assert.True(t, camera.WorldPosition().Equals(NewVector(3.7, 0, 3)), "camera at %v", camera.WorldPosition())

}

func TestApproachSpinsBody(t *testing.T) {

	ac, camera, body := newApproachScene(t, 0.3, 0.5)
	ac.SpinSpeed = 0.1

	loc := body.AddLocation("Origin", 0, 0, nil)

	for i := 0; i < 3; i++ {
		ac.Advance(camera, body)
	}

	want := WorldRight.Rotate(WorldUp, 0.3)
	assert.True(t, loc.WorldAnchor().Equals(want), "got %v, want %v", loc.WorldAnchor(), want)

}

func TestApproachLabelsHiddenUntilArrival(t *testing.T) {

	ac, camera, body := newApproachScene(t, 0.3, 0.5)
	ac.Target = NewVector(0, 0, 3)

	// Faces +Z, towards the camera.
	facing := body.AddLocation("Facing", 0, -90, nil)
	away := body.AddLocation("Away", 0, 90, nil)

	for ac.State() == Approaching {
		ac.Advance(camera, body)
		if ac.State() == Approaching {
			require.False(t, facing.Label.Visible())
			require.False(t, away.Label.Visible())
		}
	}

	assert.Equal(t, 22, ac.Frames())
	assert.True(t, facing.Label.Visible())
	assert.False(t, away.Label.Visible())
	assert.Equal(t, 1, ac.LastVisibility().Visible)
	assert.Equal(t, 2, ac.LastVisibility().Evaluated)

}

func TestApproachMisconfiguredDoesNothing(t *testing.T) {

	ac, camera, body := newApproachScene(t, 0.3, 0.5)
	ac.Speed = 0

	for i := 0; i < 5; i++ {
		assert.Equal(t, Approaching, ac.Advance(camera, body))
	}

	assert.True(t, camera.WorldPosition().Equals(NewVector(0, 0, 10)))
	assert.Zero(t, ac.Frames())

	ac.Speed = 0.3
	ac.ArrivalThreshold = math.NaN()

	assert.Equal(t, Approaching, ac.Advance(camera, body))
	assert.Zero(t, ac.Frames())

}

func TestApproachSkip(t *testing.T) {

	ac, camera, body := newApproachScene(t, 0.3, 0.5)

	arrivals := 0
	ac.OnArrive = func(*Camera, *CelestialBody) { arrivals++ }

	ac.Advance(camera, body)
	ac.Skip(camera, body)

	assert.Equal(t, Arrived, ac.State())
	assert.True(t, ac.Controls.EnableRotate)
	assert.Equal(t, 1, ac.Frames())

	ac.Skip(camera, body)
	ac.Advance(camera, body)

	assert.Equal(t, 1, arrivals)
	assert.Equal(t, "arrived", ac.State().String())

}

func BenchmarkApproach(b *testing.B) {

	ac, camera, body := newApproachScene(b, 0.001, 0.0001)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		ac.Advance(camera, body)
	}

}
