package orrery

// DirectionalLight represents a light infinitely far away, like a sun. Like a Camera, it shines down its local -Z axis;
// its position doesn't matter, only its rotation.
type DirectionalLight struct {
	*Node
	Color Color // Color is the color of the light.
	// Energy is the overall energy of the Light. Internally, technically there's no difference between a brighter color and a
	// higher energy, but this is here for convenience.
	Energy float32
	On     bool // If the light is on and contributing to the scene.
}

// NewDirectionalLight returns a new DirectionalLight.
func NewDirectionalLight(name string, r, g, b, energy float32) *DirectionalLight {
	return &DirectionalLight{
		Node:   NewNode(name),
		Color:  NewColor(r, g, b, 1),
		Energy: energy,
		On:     true,
	}
}

// Clone returns a new DirectionalLight with the same properties.
func (sun *DirectionalLight) Clone() INode {

	clone := NewDirectionalLight(sun.name, sun.Color.R, sun.Color.G, sun.Color.B, sun.Energy)
	clone.On = sun.On

	clone.Node = sun.Node.Clone().(*Node)
	for _, child := range clone.children {
		child.setParent(clone)
	}

	return clone

}

// LookAt rotates the light so that it shines towards the target world position from wherever it's placed.
func (sun *DirectionalLight) LookAt(target Vector) {
	sun.SetWorldRotation(NewLookAtMatrix(target, sun.WorldPosition(), WorldUp))
}

// Direction returns the world direction the light comes from (the opposite of the way it shines).
func (sun *DirectionalLight) Direction() Vector {
	return sun.WorldRotation().Forward()
}

// Light returns the color of the light, multiplied by its energy.
func (sun *DirectionalLight) Light() Color {
	return sun.Color.MultiplyRGB(sun.Energy)
}

func (sun *DirectionalLight) AddChildren(children ...INode) {
	sun.addChildren(sun, children...)
}

func (sun *DirectionalLight) Unparent() {
	if sun.parent != nil {
		sun.parent.RemoveChildren(sun)
	}
}

// Type returns the NodeType for this object.
func (sun *DirectionalLight) Type() NodeType {
	return NodeTypeDirectionalLight
}

//---------------//

// AmbientLight represents an ambient light that colors the entire Scene, including the night side of a body.
type AmbientLight struct {
	*Node
	Color  Color
	Energy float32
	On     bool
}

// NewAmbientLight returns a new AmbientLight.
func NewAmbientLight(name string, r, g, b, energy float32) *AmbientLight {
	return &AmbientLight{
		Node:   NewNode(name),
		Color:  NewColor(r, g, b, 1),
		Energy: energy,
		On:     true,
	}
}

// Clone returns a new AmbientLight with the same properties.
func (amb *AmbientLight) Clone() INode {

	clone := NewAmbientLight(amb.name, amb.Color.R, amb.Color.G, amb.Color.B, amb.Energy)
	clone.On = amb.On

	clone.Node = amb.Node.Clone().(*Node)
	for _, child := range clone.children {
		child.setParent(clone)
	}

	return clone

}

// Light returns the global light level for the ambient light.
func (amb *AmbientLight) Light() Color {
	return amb.Color.MultiplyRGB(amb.Energy)
}

func (amb *AmbientLight) AddChildren(children ...INode) {
	amb.addChildren(amb, children...)
}

func (amb *AmbientLight) Unparent() {
	if amb.parent != nil {
		amb.parent.RemoveChildren(amb)
	}
}

// Type returns the NodeType for this object.
func (amb *AmbientLight) Type() NodeType {
	return NodeTypeAmbientLight
}
