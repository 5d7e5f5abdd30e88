package orrery

import "strings"

// NodeType represents a Node's type. Node types nest: a NodeType "is" every type whose name it contains, so a
// BoundingSphere (NodeTypeBoundingSphere) is also a NodeTypeBoundingObject and a NodeTypeNode.
type NodeType string

const (
	NodeTypeNode   NodeType = "Node"       // NodeTypeNode represents any generic node
	NodeTypeModel  NodeType = "NodeModel"  // NodeTypeModel represents specifically a Model
	NodeTypeCamera NodeType = "NodeCamera" // NodeTypeCamera represents specifically a Camera
	NodeTypeBody   NodeType = "NodeBody"   // NodeTypeBody represents specifically a CelestialBody

	NodeTypeLight            NodeType = "NodeLight"            // NodeTypeLight represents any light
	NodeTypeDirectionalLight NodeType = "NodeLightDirectional" // NodeTypeDirectionalLight represents specifically a DirectionalLight
	NodeTypeAmbientLight     NodeType = "NodeLightAmbient"     // NodeTypeAmbientLight represents specifically an AmbientLight

	NodeTypeBoundingObject NodeType = "NodeBounding"       // NodeTypeBoundingObject represents any generic bounding object
	NodeTypeBoundingSphere NodeType = "NodeBoundingSphere" // NodeTypeBoundingSphere represents specifically a BoundingSphere BoundingObject
)

// Is returns true if the NodeType falls under the other, more general NodeType.
func (nt NodeType) Is(other NodeType) bool {
	return nt == other || strings.Contains(string(nt), string(other))
}

// INode is anything that sits in a Scene's tree. Every position, rotation, and scale is relative to the parent;
// the World* methods work in absolute terms. Everything in orrery implements INode by embedding a *Node and
// overriding Clone(), Type(), AddChildren(), and Unparent() so that children see the outer type as their parent.
type INode interface {
	Name() string
	Type() NodeType
	Clone() INode

	Parent() INode
	setParent(INode)
	Unparent()
	Children() NodeFilter
	ChildrenRecursive() NodeFilter
	AddChildren(...INode)
	RemoveChildren(...INode)

	LocalPosition() Vector
	SetLocalPosition(x, y, z float64)
	SetLocalPositionVec(position Vector)
	LocalScale() Vector
	SetLocalScale(w, h, d float64)
	SetLocalScaleVec(scale Vector)
	LocalRotation() Matrix4
	SetLocalRotation(rotation Matrix4)
	Rotate(x, y, z, angle float64)

	WorldPosition() Vector
	SetWorldPosition(x, y, z float64)
	SetWorldPositionVec(position Vector)
	WorldScale() Vector
	WorldRotation() Matrix4
	SetWorldRotation(rotation Matrix4)

	// Transform returns the Node's world transform, rebuilding it (and its children's) if anything moved since the last call.
	Transform() Matrix4
	dirtyTransform()

	Visible() bool
	// SetVisible sets the Node's visibility; if recursive is true, every child below it is set the same way.
	SetVisible(visible, recursive bool)
}

// Node is the plain INode; the other scene types embed it.
type Node struct {
	name     string
	position Vector
	scale    Vector
	rotation Matrix4
	visible  bool
	parent   INode
	children []INode

	transform      Matrix4
	transformDirty bool
}

// NewNode returns a new, visible Node at the origin.
func NewNode(name string) *Node {
	return &Node{
		name:           name,
		scale:          Vector{1, 1, 1, 0},
		rotation:       NewMatrix4(),
		visible:        true,
		transform:      NewMatrix4(),
		transformDirty: true,
	}
}

// Name returns the Node's name.
func (node *Node) Name() string {
	return node.name
}

// Type returns the NodeType for this object.
func (node *Node) Type() NodeType {
	return NodeTypeNode
}

// Clone returns a deep copy of the Node, children included. The copy has no parent.
func (node *Node) Clone() INode {

	clone := NewNode(node.name)
	clone.position = node.position
	clone.scale = node.scale
	clone.rotation = node.rotation
	clone.visible = node.visible

	for _, child := range node.children {
		c := child.Clone()
		c.setParent(clone)
		clone.children = append(clone.children, c)
	}

	return clone

}

// Transform returns the Node's world transform (scale, then rotation, then translation, then the parent's transform).
// The result is cached until the Node or one of its parents moves. Rebuilding a Node's transform rebuilds its children's
// too, so after calling Transform() on a tree's root the whole tree can be read from multiple goroutines until
// something moves.
func (node *Node) Transform() Matrix4 {

	if !node.transformDirty {
		return node.transform
	}

	transform := NewMatrix4Scale(node.scale.X, node.scale.Y, node.scale.Z).
		Mult(node.rotation).
		Mult(NewMatrix4Translate(node.position.X, node.position.Y, node.position.Z))

	if node.parent != nil {
		transform = transform.Mult(node.parent.Transform())
	}

	node.transform = transform
	node.transformDirty = false

	for _, child := range node.children {
		child.Transform()
	}

	return transform

}

func (node *Node) dirtyTransform() {

	// Children of a dirty Node are already dirty.
	if node.transformDirty {
		return
	}

	node.transformDirty = true

	for _, child := range node.children {
		child.dirtyTransform()
	}

}

// LocalPosition returns the Node's position relative to its parent.
func (node *Node) LocalPosition() Vector {
	return node.position
}

// SetLocalPosition sets the Node's position relative to its parent.
func (node *Node) SetLocalPosition(x, y, z float64) {
	node.position = Vector{X: x, Y: y, Z: z}
	node.dirtyTransform()
}

// SetLocalPositionVec sets the Node's position relative to its parent.
func (node *Node) SetLocalPositionVec(position Vector) {
	node.SetLocalPosition(position.X, position.Y, position.Z)
}

// WorldPosition returns the Node's absolute position.
func (node *Node) WorldPosition() Vector {
	position := node.Transform().Row(3)
	position.W = 0
	return position
}

// SetWorldPosition moves the Node to the absolute position given.
func (node *Node) SetWorldPosition(x, y, z float64) {
	node.SetWorldPositionVec(Vector{X: x, Y: y, Z: z})
}

// SetWorldPositionVec moves the Node to the absolute position given, undoing its parent's transform to get there.
func (node *Node) SetWorldPositionVec(position Vector) {

	position.W = 0

	if node.parent != nil {
		parentPos, parentScale, parentRot := node.parent.Transform().Decompose()
		position = parentRot.Transposed().MultVec(position.Sub(parentPos))
		position.X /= parentScale.X
		position.Y /= parentScale.Y
		position.Z /= parentScale.Z
	}

	node.position = position
	node.dirtyTransform()

}

// LocalScale returns the Node's scale relative to its parent.
func (node *Node) LocalScale() Vector {
	return node.scale
}

// SetLocalScale sets the Node's scale relative to its parent.
func (node *Node) SetLocalScale(w, h, d float64) {
	node.scale = Vector{X: w, Y: h, Z: d}
	node.dirtyTransform()
}

// SetLocalScaleVec sets the Node's scale relative to its parent.
func (node *Node) SetLocalScaleVec(scale Vector) {
	node.SetLocalScale(scale.X, scale.Y, scale.Z)
}

// WorldScale returns the Node's absolute scale. This decomposes the world transform, so prefer LocalScale() in hot loops.
func (node *Node) WorldScale() Vector {
	_, scale, _ := node.Transform().Decompose()
	return scale
}

// LocalRotation returns the Node's rotation relative to its parent.
func (node *Node) LocalRotation() Matrix4 {
	return node.rotation
}

// SetLocalRotation sets the Node's rotation relative to its parent.
func (node *Node) SetLocalRotation(rotation Matrix4) {
	node.rotation = rotation
	node.dirtyTransform()
}

// WorldRotation returns the Node's absolute rotation. Like WorldScale(), this decomposes the world transform.
func (node *Node) WorldRotation() Matrix4 {
	_, _, rotation := node.Transform().Decompose()
	return rotation
}

// SetWorldRotation sets the Node's absolute rotation.
func (node *Node) SetWorldRotation(rotation Matrix4) {
	if node.parent != nil {
		_, _, parentRot := node.parent.Transform().Decompose()
		rotation = rotation.Mult(parentRot.Transposed())
	}
	node.SetLocalRotation(rotation)
}

// Rotate turns the Node around the local axis {x, y, z} by the angle given in radians. A zero axis does nothing.
func (node *Node) Rotate(x, y, z, angle float64) {
	if x == 0 && y == 0 && z == 0 {
		return
	}
	node.SetLocalRotation(node.rotation.Mult(NewMatrix4Rotate(x, y, z, angle)))
}

// Parent returns the Node's parent, or nil if it has none.
func (node *Node) Parent() INode {
	return node.parent
}

func (node *Node) setParent(parent INode) {
	node.parent = parent
}

// addChildren parents the children to parent, which is the outer type embedding this Node (a Model, a CelestialBody),
// so that child.Parent() returns that rather than the bare Node.
func (node *Node) addChildren(parent INode, children ...INode) {
	for _, child := range children {
		if child.Parent() != nil {
			child.Parent().RemoveChildren(child)
		}
		child.setParent(parent)
		child.dirtyTransform()
		node.children = append(node.children, child)
	}
}

// AddChildren parents the Nodes given to this one, taking them from their previous parents first.
func (node *Node) AddChildren(children ...INode) {
	node.addChildren(node, children...)
}

// RemoveChildren unparents the Nodes given from this one. Nodes that aren't children are ignored.
func (node *Node) RemoveChildren(children ...INode) {
	for _, child := range children {
		for i, c := range node.children {
			if c != child {
				continue
			}
			child.setParent(nil)
			child.dirtyTransform()
			node.children = append(node.children[:i], node.children[i+1:]...)
			break
		}
	}
}

// Unparent removes the Node from its parent. Types embedding Node override this to remove themselves rather than the Node.
func (node *Node) Unparent() {
	if node.parent != nil {
		node.parent.RemoveChildren(node)
	}
}

// Children returns a copy of the Node's direct children.
func (node *Node) Children() NodeFilter {
	return append(make(NodeFilter, 0, len(node.children)), node.children...)
}

// ChildrenRecursive returns every Node below this one: children first, then each child's own descendants in turn.
func (node *Node) ChildrenRecursive() NodeFilter {
	out := node.Children()
	for _, child := range node.children {
		out = append(out, child.ChildrenRecursive()...)
	}
	return out
}

// Visible returns whether the Node is visible. A Node under an invisible parent isn't drawn either way.
func (node *Node) Visible() bool {
	return node.visible
}

func (node *Node) SetVisible(visible, recursive bool) {
	if recursive {
		for _, child := range node.ChildrenRecursive() {
			child.SetVisible(visible, false)
		}
	}
	node.visible = visible
}
