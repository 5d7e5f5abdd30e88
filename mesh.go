package orrery

import (
	"math"
)

// Dimensions represents the minimum and maximum spatial dimensions of a Mesh arranged in a 2-space Vector array.
type Dimensions [2]Vector

// Max returns the maximum value from all of the axes in the Dimensions. For example, if the Dimensions have a min of [-1, -2, -2],
// and a max of [6, 1.5, 1], Max() will return 7, as it's the largest distance between all axes.
func (dim Dimensions) Max() float64 {
	return math.Max(math.Max(dim.Width(), dim.Height()), dim.Depth())
}

// Center returns the center point inbetween the two corners of the dimension set.
func (dim Dimensions) Center() Vector {
	return dim[0].Add(dim[1]).Scale(0.5)
}

func (dim Dimensions) Width() float64 {
	return dim[1].X - dim[0].X
}

func (dim Dimensions) Height() float64 {
	return dim[1].Y - dim[0].Y
}

func (dim Dimensions) Depth() float64 {
	return dim[1].Z - dim[0].Z
}

// MeshPart represents a collection of triangles in a Mesh that share a Material.
type MeshPart struct {
	Mesh     *Mesh
	Material *Material
	Indices  []uint32 // Indices into the owning Mesh's vertex arrays, three per triangle.
}

// TriangleCount returns the number of triangles in the MeshPart.
func (part *MeshPart) TriangleCount() int {
	return len(part.Indices) / 3
}

// Mesh represents a collection of vertices, grouped into MeshParts that each render with a Material. Vertices are stored in
// parallel arrays (positions, normals, and UVs share an index); MeshParts index into them.
type Mesh struct {
	Name            string
	VertexPositions []Vector
	VertexNormals   []Vector
	VertexUVs       []Vector // UV coordinates; X is U and Y is V, with V running downwards.
	MeshParts       []*MeshPart
	Dimensions      Dimensions
}

// NewMesh takes a name and returns a new, empty Mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name: name,
	}
}

// Clone clones the Mesh, creating a new Mesh with copies of the vertex data. Materials are cloned as well.
func (mesh *Mesh) Clone() *Mesh {

	newMesh := NewMesh(mesh.Name)
	newMesh.VertexPositions = append([]Vector{}, mesh.VertexPositions...)
	newMesh.VertexNormals = append([]Vector{}, mesh.VertexNormals...)
	newMesh.VertexUVs = append([]Vector{}, mesh.VertexUVs...)
	newMesh.Dimensions = mesh.Dimensions

	for _, part := range mesh.MeshParts {
		var mat *Material
		if part.Material != nil {
			mat = part.Material.Clone()
		}
		newMesh.AddMeshPart(mat, part.Indices...)
	}

	return newMesh

}

// AddVertex adds a vertex to the Mesh, returning its index.
func (mesh *Mesh) AddVertex(position, normal, uv Vector) uint32 {
	mesh.VertexPositions = append(mesh.VertexPositions, position)
	mesh.VertexNormals = append(mesh.VertexNormals, normal)
	mesh.VertexUVs = append(mesh.VertexUVs, uv)
	return uint32(len(mesh.VertexPositions) - 1)
}

// AddMeshPart adds a new MeshPart to the Mesh using the Material and triangle indices given. The number of indices must be
// divisible by 3, or AddMeshPart will panic.
func (mesh *Mesh) AddMeshPart(material *Material, indices ...uint32) *MeshPart {

	if len(indices)%3 != 0 {
		panic("orrery: AddMeshPart() has not been given a number of indices divisible by 3")
	}

	part := &MeshPart{
		Mesh:     mesh,
		Material: material,
		Indices:  append([]uint32{}, indices...),
	}
	mesh.MeshParts = append(mesh.MeshParts, part)
	return part

}

// VertexCount returns the number of vertices in the Mesh.
func (mesh *Mesh) VertexCount() int {
	return len(mesh.VertexPositions)
}

// TriangleCount returns the total number of triangles across all of the Mesh's MeshParts.
func (mesh *Mesh) TriangleCount() int {
	count := 0
	for _, part := range mesh.MeshParts {
		count += part.TriangleCount()
	}
	return count
}

// SetMaterial sets the Material of every MeshPart in the Mesh.
func (mesh *Mesh) SetMaterial(material *Material) {
	for _, part := range mesh.MeshParts {
		part.Material = material
	}
}

// ApplyMatrix applies the Matrix provided to all vertices on the Mesh. Normals are rotated by the matrix as well.
func (mesh *Mesh) ApplyMatrix(matrix Matrix4) {

	for i := range mesh.VertexPositions {
		mesh.VertexPositions[i] = matrix.MultVec(mesh.VertexPositions[i])
	}

	_, _, rot := matrix.Decompose()
	for i := range mesh.VertexNormals {
		mesh.VertexNormals[i] = rot.MultDirection(mesh.VertexNormals[i]).Unit()
	}

	mesh.UpdateBounds()

}

// UpdateBounds updates the mesh's dimensions; call this after manually changing vertex positions.
func (mesh *Mesh) UpdateBounds() {

	if len(mesh.VertexPositions) == 0 {
		mesh.Dimensions = Dimensions{}
		return
	}

	mesh.Dimensions[0] = NewVector(math.MaxFloat64, math.MaxFloat64, math.MaxFloat64)
	mesh.Dimensions[1] = NewVector(-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64)

	for _, v := range mesh.VertexPositions {
		mesh.Dimensions[0].X = math.Min(mesh.Dimensions[0].X, v.X)
		mesh.Dimensions[0].Y = math.Min(mesh.Dimensions[0].Y, v.Y)
		mesh.Dimensions[0].Z = math.Min(mesh.Dimensions[0].Z, v.Z)
		mesh.Dimensions[1].X = math.Max(mesh.Dimensions[1].X, v.X)
		mesh.Dimensions[1].Y = math.Max(mesh.Dimensions[1].Y, v.Y)
		mesh.Dimensions[1].Z = math.Max(mesh.Dimensions[1].Z, v.Z)
	}

}

// Radius returns the distance from the Mesh's local origin to its furthest vertex.
func (mesh *Mesh) Radius() float64 {
	maxDist := 0.0
	for _, v := range mesh.VertexPositions {
		maxDist = math.Max(maxDist, v.MagnitudeSquared())
	}
	return math.Sqrt(maxDist)
}

// RecalculateNormals recalculates the vertex normals of the Mesh by averaging the face normals of the triangles that
// share each vertex.
func (mesh *Mesh) RecalculateNormals() {

	normals := make([]Vector, len(mesh.VertexPositions))

	for _, part := range mesh.MeshParts {
		for i := 0; i < len(part.Indices); i += 3 {
			a, b, c := part.Indices[i], part.Indices[i+1], part.Indices[i+2]
			n := calculateNormal(mesh.VertexPositions[a], mesh.VertexPositions[b], mesh.VertexPositions[c])
			normals[a] = normals[a].Add(n)
			normals[b] = normals[b].Add(n)
			normals[c] = normals[c].Add(n)
		}
	}

	for i := range normals {
		normals[i] = normals[i].Unit()
	}

	mesh.VertexNormals = normals

}

// NewSphereMesh creates a new UV sphere Mesh of the given radius, with the number of rings (latitude subdivisions) and
// segments (longitude subdivisions) given. The sphere's UVs wrap once around it horizontally, with the seam running down
// the -X side and the texture's horizontal center facing +X, so an equirectangular map's prime meridian lines up with
// longitude 0 as placed by ToCartesian(). The Mesh has a single MeshPart with a new Material
// named after the Mesh.
func NewSphereMesh(name string, radius float64, rings, segments int) *Mesh {

	rings = max(rings, 2)
	segments = max(segments, 3)

	mesh := NewMesh(name)

	for ring := 0; ring <= rings; ring++ {

		v := float64(ring) / float64(rings)
		theta := v * math.Pi

		for seg := 0; seg <= segments; seg++ {

			u := float64(seg) / float64(segments)
			phi := u * math.Pi * 2

			normal := NewVector(
				-math.Cos(phi)*math.Sin(theta),
				math.Cos(theta),
				math.Sin(phi)*math.Sin(theta),
			)

			mesh.AddVertex(normal.Scale(radius), normal, NewVector(u, v, 0))

		}

	}

	indices := make([]uint32, 0, rings*segments*6)

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {

			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments) + 1

			// The poles collapse into a single point, so we skip the degenerate triangle there
			if ring != 0 {
				indices = append(indices, current, next, current+1)
			}
			if ring != rings-1 {
				indices = append(indices, current+1, next, next+1)
			}

		}
	}

	mesh.AddMeshPart(NewMaterial(name), indices...)
	mesh.UpdateBounds()

	return mesh

}

// NewRingMesh creates a new flat ring (annulus) Mesh lying on the XZ plane, spanning from the inner radius to the outer radius
// and split into the number of segments given. The ring's UVs run from the inner edge (U = 0) to the outer edge (U = 1), matching
// the usual layout of planetary ring textures. The ring is visible from both sides.
func NewRingMesh(name string, innerRadius, outerRadius float64, segments int) *Mesh {

	segments = max(segments, 3)

	mesh := NewMesh(name)

	for seg := 0; seg <= segments; seg++ {

		v := float64(seg) / float64(segments)
		angle := v * math.Pi * 2
		dir := NewVector(math.Cos(angle), 0, -math.Sin(angle))

		mesh.AddVertex(dir.Scale(innerRadius), WorldUp, NewVector(0, v, 0))
		mesh.AddVertex(dir.Scale(outerRadius), WorldUp, NewVector(1, v, 0))

	}

	indices := make([]uint32, 0, segments*6)

	for seg := 0; seg < segments; seg++ {
		inner := uint32(seg * 2)
		outer := inner + 1
		nextInner := inner + 2
		nextOuter := inner + 3
		indices = append(indices, inner, outer, nextOuter, inner, nextOuter, nextInner)
	}

	mat := NewMaterial(name)
	mat.FaceCulling = CullNone
	mesh.AddMeshPart(mat, indices...)
	mesh.UpdateBounds()

	return mesh

}

// calculateNormal returns the counter-clockwise facing normal of the triangle made from p1, p2, and p3.
func calculateNormal(p1, p2, p3 Vector) Vector {
	v0 := p2.Sub(p1)
	v1 := p3.Sub(p2)
	return v0.Cross(v1).Unit()
}
