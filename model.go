package orrery

// Model represents a singular visual instantiation of a Mesh. A Mesh contains the vertex information (what to draw); a Model references the Mesh to draw it with a specific
// Position, Rotation, and/or Scale (where and how to draw).
type Model struct {
	*Node
	Mesh  *Mesh
	Color Color // The overall color of the Model; multiplied with its Materials' colors when rendering.
}

// NewModel creates a new Model (or instance) of the Mesh and Name provided. A Model represents a singular visual instantiation of a Mesh.
func NewModel(mesh *Mesh, name string) *Model {
	return &Model{
		Node:  NewNode(name),
		Mesh:  mesh,
		Color: NewColor(1, 1, 1, 1),
	}
}

// Clone creates a clone of the Model. The Mesh is shared between the two.
func (model *Model) Clone() INode {
	newModel := NewModel(model.Mesh, model.name)
	newModel.Node = model.Node.Clone().(*Node)
	newModel.Color = model.Color
	for _, child := range newModel.children {
		child.setParent(newModel)
	}
	return newModel
}

// Merge merges the provided models into the calling Model's Mesh, baking each one's transform (relative to the calling Model)
// into the vertices. The calling Model's Mesh is replaced with a new Mesh containing the result; the merged Models are left untouched.
func (model *Model) Merge(models ...*Model) {

	merged := NewMesh(model.name)

	if model.Mesh != nil {
		merged.Name = model.Mesh.Name
		appendMesh(merged, model.Mesh, NewMatrix4())
	}

	inverted := model.Transform().Inverted()

	for _, other := range models {
		if other == model || other.Mesh == nil {
			continue
		}
		appendMesh(merged, other.Mesh, other.Transform().Mult(inverted))
	}

	merged.UpdateBounds()
	model.Mesh = merged

}

func appendMesh(dst, src *Mesh, transform Matrix4) {

	offset := uint32(dst.VertexCount())
	_, _, rot := transform.Decompose()

	for i, pos := range src.VertexPositions {
		normal := NewVectorZero()
		if i < len(src.VertexNormals) {
			normal = rot.MultDirection(src.VertexNormals[i]).Unit()
		}
		uv := NewVectorZero()
		if i < len(src.VertexUVs) {
			uv = src.VertexUVs[i]
		}
		dst.AddVertex(transform.MultVec(pos), normal, uv)
	}

	for _, part := range src.MeshParts {
		indices := make([]uint32, len(part.Indices))
		for i, index := range part.Indices {
			indices[i] = index + offset
		}
		dst.AddMeshPart(part.Material, indices...)
	}

}

// AddChildren parents the provided children Nodes to the passed parent Node, inheriting its transformations and being under it in the scenegraph
// hierarchy. If the children are already parented to other Nodes, they are unparented before doing so.
func (model *Model) AddChildren(children ...INode) {
	model.addChildren(model, children...)
}

// Unparent unparents the Model from its parent, removing it from the scenegraph.
func (model *Model) Unparent() {
	if model.parent != nil {
		model.parent.RemoveChildren(model)
	}
}

// Type returns the NodeType for this object.
func (model *Model) Type() NodeType {
	return NodeTypeModel
}
