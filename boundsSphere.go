package orrery

import (
	"math"
)

// BoundingSphere represents a 3D sphere. In Orrery, BoundingSpheres act as occluders: ray tests run against them
// rather than against a body's (much more detailed) visual mesh.
type BoundingSphere struct {
	*Node
	Radius float64
}

// NewBoundingSphere returns a new BoundingSphere instance.
func NewBoundingSphere(name string, radius float64) *BoundingSphere {
	return &BoundingSphere{
		Node:   NewNode(name),
		Radius: radius,
	}
}

// Clone returns a new BoundingSphere instance.
func (sphere *BoundingSphere) Clone() INode {
	clone := NewBoundingSphere(sphere.name, sphere.Radius)
	clone.Node = sphere.Node.Clone().(*Node)
	for _, child := range clone.children {
		child.setParent(clone)
	}
	return clone
}

func (sphere *BoundingSphere) AddChildren(children ...INode) {
	// We do this manually so that addChildren() parents the children to the BoundingSphere, rather than to the BoundingSphere.Node.
	sphere.addChildren(sphere, children...)
}

func (sphere *BoundingSphere) Unparent() {
	if sphere.parent != nil {
		sphere.parent.RemoveChildren(sphere)
	}
}

// WorldRadius returns the radius of the BoundingSphere in world units, after taking into account its scale.
func (sphere *BoundingSphere) WorldRadius() float64 {
	scale := sphere.Node.WorldScale()
	maxScale := math.Max(math.Max(math.Abs(scale.X), math.Abs(scale.Y)), math.Abs(scale.Z))
	return sphere.Radius * maxScale
}

// Type returns the NodeType for this object.
func (sphere *BoundingSphere) Type() NodeType {
	return NodeTypeBoundingSphere
}
