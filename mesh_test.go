package orrery

import (
	"math"
	"testing"
)

func TestSphereMeshFacesOutward(t *testing.T) {

	mesh := NewSphereMesh("sphere", 2, 12, 16)

	if r := mesh.Radius(); math.Abs(r-2) > 1e-9 {
		t.Fatal("sphere radius should be 2; got", r)
	}

	for _, part := range mesh.MeshParts {

		for i := 0; i < len(part.Indices); i += 3 {

			p1 := mesh.VertexPositions[part.Indices[i]]
			p2 := mesh.VertexPositions[part.Indices[i+1]]
			p3 := mesh.VertexPositions[part.Indices[i+2]]

			center := p1.Add(p2).Add(p3).Scale(1.0 / 3)

			if calculateNormal(p1, p2, p3).Dot(center) <= 0 {
				t.Fatal("triangle", i/3, "winds inwards")
			}

		}

	}

}

func TestSphereMeshUVsLineUpWithCoordinates(t *testing.T) {

	mesh := NewSphereMesh("sphere", 1, 8, 16)

	for i, uv := range mesh.VertexUVs {

		// The equator, at the middle of the texture.
		if uv.Y != 0.5 || uv.X != 0.5 {
			continue
		}

		if pos := mesh.VertexPositions[i]; !pos.Equals(ToCartesian(0, 0, 1)) {
			t.Fatal("the middle of the texture should map to latitude 0, longitude 0; got", pos)
		}

		return

	}

	t.Fatal("no vertex found at the middle of the texture")

}

func TestRingMesh(t *testing.T) {

	mesh := NewRingMesh("ring", 4.4, 5.2, 50)

	if mesh.TriangleCount() != 100 {
		t.Fatal("a ring of 50 segments should have 100 triangles; got", mesh.TriangleCount())
	}

	for _, pos := range mesh.VertexPositions {
		d := pos.Magnitude()
		if pos.Y != 0 || d < 4.4-1e-9 || d > 5.2+1e-9 {
			t.Fatal("ring vertex out of place:", pos)
		}
	}

	if mesh.MeshParts[0].Material.FaceCulling != CullNone {
		t.Fatal("rings should be visible from both sides")
	}

}

func TestMeshApplyMatrix(t *testing.T) {

	mesh := NewSphereMesh("sphere", 1, 4, 6)
	mesh.ApplyMatrix(NewMatrix4Scale(2, 2, 2).Mult(NewMatrix4Translate(0, 3, 0)))

	if d := mesh.Dimensions; math.Abs(d.Center().Y-3) > 1e-9 || math.Abs(d.Height()-4) > 1e-9 {
		t.Fatal("mesh bounds weren't updated:", d)
	}

	for i, n := range mesh.VertexNormals {
		if math.Abs(n.Magnitude()-1) > 1e-9 {
			t.Fatal("normal", i, "isn't unit length after scaling:", n)
		}
	}

}

func TestModelMerge(t *testing.T) {

	a := NewModel(NewSphereMesh("a", 1, 4, 6), "a")
	b := NewModel(NewSphereMesh("b", 1, 4, 6), "b")
	b.SetLocalPosition(5, 0, 0)

	merged := NewModel(nil, "merged")
	merged.SetLocalPosition(1, 0, 0)
	merged.Merge(a, b)

	if merged.Mesh.TriangleCount() != a.Mesh.TriangleCount()*2 {
		t.Fatal("merged mesh should have the triangles of both models")
	}

	// b's offset is baked in relative to the merged Model.
	if r := merged.Mesh.Radius(); math.Abs(r-5) > 1e-9 {
		t.Fatal("merged radius should be 5; got", r)
	}

	if math.Abs(a.Mesh.Radius()-1) > 1e-9 || math.Abs(b.Mesh.Radius()-1) > 1e-9 {
		t.Fatal("merging shouldn't touch the source meshes")
	}

}
