package orrery

import (
	"math"
	"testing"
)

func TestBoundingSphereRayTest(t *testing.T) {

	cases := []struct {
		name     string
		from, to Vector
		hits     int
	}{
		{"through", NewVector(-5, 0, 0), NewVector(5, 0, 0), 2},
		{"stops short", NewVector(-5, 0, 0), NewVector(-2, 0, 0), 0},
		{"ends inside", NewVector(-5, 0, 0), NewVector(0, 0, 0), 1},
		{"starts inside", NewVector(0, 0, 0), NewVector(5, 0, 0), 1},
		{"inside", NewVector(0, 0, 0), NewVector(0.5, 0, 0), 0},
		{"pointing away", NewVector(-5, 0, 0), NewVector(-10, 0, 0), 0},
		{"miss", NewVector(-5, 2, 0), NewVector(5, 2, 0), 0},
		{"tangent", NewVector(-5, 1, 0), NewVector(5, 1, 0), 1},
		{"zero length", NewVector(-5, 0, 0), NewVector(-5, 0, 0), 0},
	}

	for _, c := range cases {
		if hits := boundingSphereRayTest(NewVectorZero(), 1, c.from, c.to); len(hits) != c.hits {
			t.Fatal(c.name, ": expected", c.hits, "hits; got", len(hits))
		}
	}

}

func TestRayTestSortsHits(t *testing.T) {

	scene := NewScene("rays")

	near := NewBoundingSphere("near", 1)
	near.SetLocalPosition(3, 0, 0)

	far := NewBoundingSphere("far", 1)
	far.SetLocalPosition(-3, 0, 0)

	scene.Add(far, near)

	hits := scene.RayTest(RayTestOptions{From: NewVector(10, 0, 0), To: NewVector(-10, 0, 0)})

	if len(hits) != 4 {
		t.Fatal("ray should pass through both spheres; got", len(hits), "hits")
	}

	if hits[0].Object != near || hits[3].Object != far {
		t.Fatal("hits should be sorted by distance from the start of the ray")
	}

	if !hits[0].Position.Equals(NewVector(4, 0, 0)) || hits[0].Exiting || !hits[1].Exiting {
		t.Fatal("first hit should be entering the near sphere at {4, 0, 0}; got", hits[0].Position)
	}

	if !hits[0].Normal.Equals(WorldRight) {
		t.Fatal("hit normal should point out of the sphere; got", hits[0].Normal)
	}

	if d := hits[0].Distance(); math.Abs(d-6) > 1e-9 {
		t.Fatal("first hit should be 6 units away; got", d)
	}

	stopped := 0
	scene.RayTest(RayTestOptions{
		From: NewVector(10, 0, 0),
		To:   NewVector(-10, 0, 0),
		OnHit: func(hit RayHit, index, count int) bool {
			stopped++
			return false
		},
	})

	if stopped != 1 {
		t.Fatal("returning false from OnHit should stop iteration; got", stopped, "calls")
	}

}

func TestRayTestScaledSphere(t *testing.T) {

	parent := NewNode("parent")
	parent.SetLocalScale(3, 3, 3)

	sphere := NewBoundingSphere("sphere", 1)
	parent.AddChildren(sphere)

	if r := sphere.WorldRadius(); math.Abs(r-3) > 1e-9 {
		t.Fatal("world radius should follow the parent's scale; got", r)
	}

	hits := RayTest(RayTestOptions{From: NewVector(10, 0, 0), To: NewVectorZero(), TestAgainst: NodeFilter{sphere}})

	if len(hits) != 1 || !hits[0].Position.Equals(NewVector(3, 0, 0)) {
		t.Fatal("ray should strike the scaled sphere at {3, 0, 0}; got", hits)
	}

}
