package orrery

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// VisibilityPolicy is how a VisibilityEvaluator decides whether a Location can be seen.
type VisibilityPolicy int

const (
	// VisibilityNormal shows a Location's Label when the camera is on the outward side of the surface at the Location
	// (i.e. the dot product of the surface normal and the direction to the camera is positive).
	VisibilityNormal VisibilityPolicy = iota
	// VisibilityRayCount casts a ray from the camera to the Label's anchor and hides the Label if the ray crosses more than
	// one occluder surface along the way.
	VisibilityRayCount
)

func (policy VisibilityPolicy) String() string {
	switch policy {
	case VisibilityNormal:
		return "normal"
	case VisibilityRayCount:
		return "raycount"
	}
	return fmt.Sprintf("VisibilityPolicy(%d)", int(policy))
}

// ParseVisibilityPolicy returns the VisibilityPolicy named by the string given ("normal" or "raycount").
// An empty string gives VisibilityNormal.
func ParseVisibilityPolicy(s string) (VisibilityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return VisibilityNormal, nil
	case "raycount", "ray", "rays":
		return VisibilityRayCount, nil
	}
	return VisibilityNormal, fmt.Errorf("orrery: unknown visibility policy %q", s)
}

// VisibilityStats summarizes a VisibilityEvaluator update.
type VisibilityStats struct {
	Evaluated int
	Visible   int
	Hidden    int
	Duration  time.Duration
}

// VisibilityEvaluator decides, each frame, which of a CelestialBody's location Labels can be seen from the camera.
type VisibilityEvaluator struct {
	Policy VisibilityPolicy

	// Parallel evaluates Locations across multiple goroutines when there are at least ParallelThreshold of them.
	Parallel          bool
	ParallelThreshold int
	// Workers limits how many goroutines a parallel evaluation uses. Values below 1 use runtime.GOMAXPROCS(0).
	Workers int
}

// NewVisibilityEvaluator returns a new VisibilityEvaluator using the policy given.
func NewVisibilityEvaluator(policy VisibilityPolicy) *VisibilityEvaluator {
	return &VisibilityEvaluator{
		Policy:            policy,
		ParallelThreshold: 256,
	}
}

// Update evaluates every Location on the body from the camera's current position, showing or hiding each Location's Label
// accordingly. The ray-count policy tests against the Scene's occluders; if scene is nil, it tests against the body's
// occluder alone. Update doesn't keep any state between calls, so calling it again with nothing moved gives the same result.
func (ev *VisibilityEvaluator) Update(body *CelestialBody, camera *Camera, scene *Scene) VisibilityStats {

	start := time.Now()

	locations := body.locations
	results := make([]bool, len(locations))

	camPos := camera.WorldPosition()

	var occluders NodeIterator
	if scene != nil {
		occluders = scene.Occluders()
	} else {
		occluders = NodeFilter{body.Occluder}
	}

	if ev.Parallel && len(locations) > 0 && len(locations) >= ev.ParallelThreshold {

		// Everything read below has to have its transforms cached ahead of time so that the goroutines only read.
		if scene != nil {
			scene.UpdateTransforms()
		}
		body.Transform()
		for _, node := range body.ChildrenRecursive() {
			node.Transform()
		}

		workers := ev.Workers
		if workers < 1 {
			workers = runtime.GOMAXPROCS(0)
		}

		chunk := (len(locations) + workers - 1) / workers

		var group errgroup.Group

		for i := 0; i < len(locations); i += chunk {
			lo, hi := i, min(i+chunk, len(locations))
			group.Go(func() error {
				for j := lo; j < hi; j++ {
					results[j] = ev.visible(locations[j], camPos, occluders)
				}
				return nil
			})
		}

		// The workers never fail; Wait() is only used to join them.
		_ = group.Wait()

	} else {

		for i, loc := range locations {
			results[i] = ev.visible(loc, camPos, occluders)
		}

	}

	stats := VisibilityStats{Evaluated: len(locations)}

	for i, loc := range locations {

		if results[i] {
			stats.Visible++
		} else {
			stats.Hidden++
		}

		if loc.Label != nil && body.labels != nil {
			body.labels.SetVisible(loc.Label, results[i])
		}

	}

	stats.Duration = time.Since(start)

	return stats

}

// LocationVisible returns whether the Location can be seen from the camera position given, using the evaluator's policy. For the
// ray-count policy, occluders is what rays are tested against.
func (ev *VisibilityEvaluator) LocationVisible(loc *Location, cameraPosition Vector, occluders NodeIterator) bool {
	return ev.visible(loc, cameraPosition, occluders)
}

func (ev *VisibilityEvaluator) visible(loc *Location, camPos Vector, occluders NodeIterator) bool {

	switch ev.Policy {

	case VisibilityRayCount:
		hits := RayTest(RayTestOptions{
			From:        camPos,
			To:          loc.LabelPosition(),
			TestAgainst: occluders,
		})
		return len(hits) <= 1

	default:
		return loc.WorldNormal().Dot(camPos.Sub(loc.WorldAnchor())) > 0

	}

}
