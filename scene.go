package orrery

// Scene represents a world of sorts, and can contain a variety of Models and Nodes. The Root Node is the top of the scene graph;
// anything that should be drawn or tested against needs to be parented (directly or indirectly) to it.
type Scene struct {
	Name string // The name of the Scene. Set automatically to the scene name in your 3D modeler if the Scene was loaded from a file.
	// The Root Node of the Scene. Note that this is a Node rather than a Model or anything else, so it has no visible representation.
	Root INode
	// ClearColor is the color the view is cleared to before each frame is drawn.
	ClearColor Color
}

// NewScene creates a new Scene by the name given.
func NewScene(name string) *Scene {
	return &Scene{
		Name:       name,
		Root:       NewNode("Root"),
		ClearColor: NewColor(0, 0, 0, 1),
	}
}

// Add parents the given Nodes to the Scene's Root.
func (scene *Scene) Add(nodes ...INode) {
	scene.Root.AddChildren(nodes...)
}

// Occluders returns all BoundingSpheres in the Scene; these are what ray tests test against by default.
func (scene *Scene) Occluders() NodeFilter {
	return scene.Root.ChildrenRecursive().ByType(NodeTypeBoundingSphere)
}

// Lights returns every light in the Scene.
func (scene *Scene) Lights() NodeFilter {
	return scene.Root.ChildrenRecursive().ByType(NodeTypeLight)
}

// RayTest casts a ray through the Scene, returning every hit sorted by distance from the starting point.
// If options.TestAgainst is nil, the Scene's Occluders() are tested against.
func (scene *Scene) RayTest(options RayTestOptions) []RayHit {
	if options.TestAgainst == nil {
		options.TestAgainst = scene.Occluders()
	}
	return RayTest(options)
}

// UpdateTransforms rebuilds any out-of-date transforms throughout the Scene's tree. After this,
// the Scene can be read from multiple goroutines (e.g. for ray tests) as long as nothing is moved.
func (scene *Scene) UpdateTransforms() {
	scene.Root.Transform()
	for _, node := range scene.Root.ChildrenRecursive() {
		node.Transform()
	}
}
