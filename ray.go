package orrery

import (
	"math"
	"sort"
)

// RayHit represents the result of a raycast test.
type RayHit struct {
	Object   INode  // Object is a pointer to the BoundingObject that was struck by the raycast.
	Position Vector // Position is the world position that the object was struck.
	from     Vector // The starting position of the Ray
	Normal   Vector // Normal is the normal of the surface the ray struck.
	Exiting  bool   // Exiting is true if the ray was leaving the object's volume at this point (rather than entering it).
}

// Distance returns the distance from the RayHit's originating ray source point to the struck position.
func (r RayHit) Distance() float64 {
	return r.from.Distance(r.Position)
}

// boundingSphereRayTest returns the surface crossings of the segment running from the from position to the to position
// against the sphere described by center and radius. A segment that passes fully through the sphere crosses its surface
// twice (entering and then exiting); a segment that starts or ends inside the sphere crosses once. A segment that
// merely grazes the sphere (touching it at a single tangent point) reports a single crossing.
func boundingSphereRayTest(center Vector, radius float64, from, to Vector) []RayHit {

	m := from.Sub(center)
	vec := to.Sub(from)
	length := vec.Magnitude()

	if length == 0 {
		return nil
	}

	normal := vec.Divide(length)
	b := m.Dot(normal)
	c := m.Dot(m) - radius*radius

	// The ray starts outside the sphere and points away from it
	if c > 0 && b > 0 {
		return nil
	}

	discr := b*b - c

	if discr < 0 {
		return nil
	}

	sqrtDiscr := math.Sqrt(discr)

	hits := make([]RayHit, 0, 2)

	addHit := func(t float64, exiting bool) {
		if t < 0 || t > length {
			return
		}
		strikePos := from.Add(normal.Scale(t))
		hits = append(hits, RayHit{
			Position: strikePos,
			from:     from,
			Normal:   strikePos.Sub(center).Unit(),
			Exiting:  exiting,
		})
	}

	addHit(-b-sqrtDiscr, false)

	if sqrtDiscr > 0 {
		addHit(-b+sqrtDiscr, true)
	}

	return hits

}

// RayTestOptions is a struct designed to control what options to use when performing a ray test.
type RayTestOptions struct {
	From Vector // The position to cast rays from.
	To   Vector // The position to cast rays to.

	// TestAgainst is used to specify a selection of BoundingObjects to test against. If it's nil when passed to
	// Scene.RayTest(), every BoundingSphere in the Scene is tested against.
	TestAgainst NodeIterator

	// OnHit is a callback called for each hit a cast Ray returns, sorted by distance from the starting point.
	// index is the index of the hit out of the maximum number of hits found by the function (count).
	// The returned boolean indicates whether to keep iterating through all found rayhits, or to stop after the current one.
	OnHit func(hit RayHit, index, count int) bool
}

// RayTest casts a ray from the "from" world position to the "to" world position while testing against the
// bounding objects provided in the options. Every surface crossing is returned, sorted by distance from the
// starting point (closest first); a ray that passes through a sphere will report two hits against it.
// RayTest allocates its result, so it may be called from multiple goroutines as long as the tested
// Nodes' transforms are not being changed at the same time.
func RayTest(options RayTestOptions) []RayHit {

	var results []RayHit

	if options.TestAgainst == nil {
		return results
	}

	options.TestAgainst.ForEach(func(node INode) bool {

		switch test := node.(type) {

		case *BoundingSphere:

			for _, result := range boundingSphereRayTest(test.WorldPosition(), test.WorldRadius(), options.From, options.To) {
				result.Object = test
				results = append(results, result)
			}

		}

		return true

	})

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Position.DistanceSquared(results[i].from) < results[j].Position.DistanceSquared(results[j].from)
	})

	if options.OnHit != nil {

		for i, r := range results {
			if !options.OnHit(r, i, len(results)) {
				break
			}
		}

	}

	return results

}
