package orrery

import "fmt"

// Library represents a collection of Scenes, Meshes, and Materials, as loaded from a .gltf / .glb file.
type Library struct {
	Scenes        []*Scene             // A slice of Scenes
	ExportedScene *Scene               // The scene that was set as the file's default scene
	Meshes        map[string]*Mesh     // A Map of Meshes to their names
	Materials     map[string]*Material // A Map of Materials to their names
}

// NewLibrary creates a new Library.
func NewLibrary() *Library {
	return &Library{
		Scenes:    []*Scene{},
		Meshes:    map[string]*Mesh{},
		Materials: map[string]*Material{},
	}
}

// AddScene creates a new Scene with the name given and adds it to the Library.
func (lib *Library) AddScene(sceneName string) *Scene {
	newScene := NewScene(sceneName)
	lib.Scenes = append(lib.Scenes, newScene)
	return newScene
}

// FindNode allows you to find a node by name by searching through each of a Library's scenes. If the Node with the given name isn't found,
// FindNode will return nil.
func (lib *Library) FindNode(objectName string) INode {
	for _, scene := range lib.Scenes {
		if n := scene.Root.ChildrenRecursive().ByName(objectName).First(); n != nil {
			return n
		}
	}
	return nil
}

// MergedModel returns a single Model named as given, containing every Model in the Library's exported scene merged together with
// their transforms baked in. This is how a multi-part asset (like a planet with separate cloud or terrain meshes) becomes one
// drawable surface. ErrNoMesh is returned if the scene has nothing to draw.
func (lib *Library) MergedModel(name string) (*Model, error) {

	scene := lib.ExportedScene
	if scene == nil && len(lib.Scenes) > 0 {
		scene = lib.Scenes[0]
	}

	if scene == nil {
		return nil, fmt.Errorf("%w: library has no scenes", ErrNoMesh)
	}

	scene.UpdateTransforms()

	models := scene.Root.ChildrenRecursive().Models()

	merged := NewModel(nil, name)
	merged.Merge(models...)

	if merged.Mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("%w: scene %q has no triangles", ErrNoMesh, scene.Name)
	}

	merged.Mesh.Name = name

	return merged, nil

}
