package orrery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newVisibilityScene returns a Scene with a body of radius 1 at the origin, with Locations facing +X, -X, and +Z, and a camera
// at (10, 0, 0) looking at the body.
func newVisibilityScene() (*Scene, *CelestialBody, *Camera, []*Location) {

	scene := NewScene("visibility")
	body := NewCelestialBody("Mars", nil, 1, NewLabelLayer())
	scene.Add(body)

	locations := []*Location{
		body.AddLocation("Near", 0, 0, nil),
		body.AddLocation("Far", 0, 180, nil),
		body.AddLocation("Side", 0, -90, nil),
	}

	camera := NewCamera(640, 480)
	scene.Add(camera)
	camera.SetWorldPosition(10, 0, 0)
	camera.LookAt(NewVectorZero())

	return scene, body, camera, locations

}

func labelVisibility(locations []*Location) []bool {
	out := make([]bool, len(locations))
	for i, loc := range locations {
		out[i] = loc.Label.Visible()
	}
	return out
}

func TestVisibilityNormalPolicy(t *testing.T) {

	scene, body, camera, locations := newVisibilityScene()

	ev := NewVisibilityEvaluator(VisibilityNormal)
	stats := ev.Update(body, camera, scene)

	// The side Location sits at (0, 0, 1), so the camera is (just) behind its horizon.
	assert.Equal(t, []bool{true, false, false}, labelVisibility(locations))
	assert.Equal(t, 3, stats.Evaluated)
	assert.Equal(t, 1, stats.Visible)
	assert.Equal(t, 2, stats.Hidden)

	camera.SetWorldPosition(-10, 0, 0)
	ev.Update(body, camera, scene)

	assert.Equal(t, []bool{false, true, false}, labelVisibility(locations))

	camera.SetWorldPosition(10, 0, 0)
	ev.Update(body, camera, scene)

	assert.Equal(t, []bool{true, false, false}, labelVisibility(locations))

}

func TestVisibilityRayCountPolicy(t *testing.T) {

	scene, body, camera, locations := newVisibilityScene()

	ev := NewVisibilityEvaluator(VisibilityRayCount)
	ev.Update(body, camera, scene)

	// The side label is raised above the surface, so the ray to it clears the body.
	assert.Equal(t, []bool{true, false, true}, labelVisibility(locations))

	// Rays to the near label don't touch the body at all; rays to the far one pass in and back out.
	assert.Empty(t, scene.RayTest(RayTestOptions{From: camera.WorldPosition(), To: locations[0].LabelPosition()}))
	assert.Len(t, scene.RayTest(RayTestOptions{From: camera.WorldPosition(), To: locations[1].LabelPosition()}), 2)

	camera.SetWorldPosition(-10, 0, 0)
	ev.Update(body, camera, scene)

	assert.Equal(t, []bool{false, true, true}, labelVisibility(locations))

	// Without a Scene, only the body's own occluder is tested against.
	camera.SetWorldPosition(10, 0, 0)
	ev.Update(body, camera, nil)

	assert.Equal(t, []bool{true, false, true}, labelVisibility(locations))

}

func TestVisibilityRayCountOtherOccluders(t *testing.T) {

	scene, body, camera, locations := newVisibilityScene()

	// A moon sitting between the camera and the near Location.
	moon := NewCelestialBody("Phobos", nil, 0.5, nil)
	moon.SetWorldPosition(5, 0, 0)
	scene.Add(moon)

	ev := NewVisibilityEvaluator(VisibilityRayCount)
	ev.Update(body, camera, scene)

	assert.False(t, locations[0].Label.Visible())

	// The body on its own doesn't hide it.
	ev.Update(body, camera, nil)

	assert.True(t, locations[0].Label.Visible())

}

func TestVisibilityIdempotent(t *testing.T) {

	for _, policy := range []VisibilityPolicy{VisibilityNormal, VisibilityRayCount} {

		scene, body, camera, locations := newVisibilityScene()
		camera.SetWorldPosition(4, 3, 7)

		ev := NewVisibilityEvaluator(policy)

		first := ev.Update(body, camera, scene)
		want := labelVisibility(locations)

		for i := 0; i < 3; i++ {
			stats := ev.Update(body, camera, scene)
			require.Equal(t, want, labelVisibility(locations), "policy %s", policy)
			require.Equal(t, first.Visible, stats.Visible)
		}

	}

}

func TestVisibilityParallelMatchesSerial(t *testing.T) {

	for _, policy := range []VisibilityPolicy{VisibilityNormal, VisibilityRayCount} {

		build := func() (*Scene, *CelestialBody, *Camera) {
			scene := NewScene("parallel")
			body := NewCelestialBody("Mars", nil, 1, NewLabelLayer())
			scene.Add(body)
			body.Spin(0.3)
			for i := 0; i < 300; i++ {
				body.AddLocation(fmt.Sprintf("Location %d", i), float64(i%170)-85, float64(i*7%360)-180, nil)
			}
			camera := NewCamera(640, 480)
			scene.Add(camera)
			camera.SetWorldPosition(3, 5, 8)
			return scene, body, camera
		}

		serialScene, serialBody, serialCamera := build()
		serial := NewVisibilityEvaluator(policy)
		serialStats := serial.Update(serialBody, serialCamera, serialScene)

		parallelScene, parallelBody, parallelCamera := build()
		parallel := NewVisibilityEvaluator(policy)
		parallel.Parallel = true
		parallel.Workers = 4
		parallelStats := parallel.Update(parallelBody, parallelCamera, parallelScene)

		assert.Equal(t, labelVisibility(serialBody.Locations()), labelVisibility(parallelBody.Locations()), "policy %s", policy)
		assert.Equal(t, serialStats.Visible, parallelStats.Visible)
		assert.Equal(t, 300, parallelStats.Evaluated)
		assert.Greater(t, parallelStats.Visible, 0)
		assert.Greater(t, parallelStats.Hidden, 0)

	}

}

func TestParseVisibilityPolicy(t *testing.T) {

	for input, want := range map[string]VisibilityPolicy{
		"":         VisibilityNormal,
		"normal":   VisibilityNormal,
		" Normal ": VisibilityNormal,
		"raycount": VisibilityRayCount,
		"RAYS":     VisibilityRayCount,
	} {
		got, err := ParseVisibilityPolicy(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseVisibilityPolicy("xray")
	assert.Error(t, err)

	assert.Equal(t, "raycount", VisibilityRayCount.String())

}

func BenchmarkVisibility(b *testing.B) {

	for _, policy := range []VisibilityPolicy{VisibilityNormal, VisibilityRayCount} {

		b.Run(policy.String(), func(b *testing.B) {

			scene := NewScene("bench")
			body := NewCelestialBody("Mars", nil, 1, NewLabelLayer())
			scene.Add(body)

			for i := 0; i < 500; i++ {
				body.AddLocation("Location", float64(i%170)-85, float64(i*7%360)-180, nil)
			}

			camera := NewCamera(640, 480)
			scene.Add(camera)
			camera.SetWorldPosition(0, 0, 10)

			ev := NewVisibilityEvaluator(policy)

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				ev.Update(body, camera, scene)
			}

		})

	}

}

func TestVisibilityAboveAndAntipode(t *testing.T) {

	for _, policy := range []VisibilityPolicy{VisibilityNormal, VisibilityRayCount} {

		scene := NewScene("visibility")
		body := NewCelestialBody("Mars", nil, 1, NewLabelLayer())
		scene.Add(body)

		ev := NewVisibilityEvaluator(policy)

		for lat := -85.0; lat <= 85; lat += 17 {
			for lon := 0.0; lon < 360; lon += 15 {

				loc := body.AddLocation("Site", lat, lon, nil)

				above := ToCartesian(lat, lon, 1).Scale(2)
				if !ev.LocationVisible(loc, above, scene.Occluders()) {
					t.Fatalf("%s: location at %v, %v hidden from directly above it", policy, lat, lon)
				}

				antipode := ToCartesian(-lat, lon+180, 1).Scale(2)
				if ev.LocationVisible(loc, antipode, scene.Occluders()) {
					t.Fatalf("%s: location at %v, %v visible from the far side of the body", policy, lat, lon)
				}

				body.RemoveLocation(loc)

			}
		}

	}

}
