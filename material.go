package orrery

import "image"

// FaceCulling indicates which faces of a Material's triangles are not rendered.
type FaceCulling int

const (
	CullBack  FaceCulling = iota // CullBack skips faces turned away from the camera. This is the default.
	CullFront                    // CullFront skips faces turned towards the camera; used for shells seen from outside, like atmospheres.
	CullNone                     // CullNone renders both sides of every face.
)

// BlendMode indicates how triangles rendered with a Material are composited onto what's already been drawn.
type BlendMode int

const (
	BlendNormal   BlendMode = iota // BlendNormal draws triangles using regular alpha blending.
	BlendAdditive                  // BlendAdditive adds the triangles' color to the destination; used for glows.
)

// Material represents how a Mesh (or part of a Mesh) should be drawn.
type Material struct {
	Name    string      // Name is the name of the Material.
	Color   Color       // The overall color of the Material.
	Texture image.Image // The texture applied to the Material. Renderers convert and cache it as needed.

	// TexturePath is the path the texture was referenced by, if it was referenced externally (e.g. by a model file).
	TexturePath string

	Shadeless   bool        // If Shadeless is true, the Material isn't lit.
	FaceCulling FaceCulling // Which faces are culled when rendering.
	BlendMode   BlendMode   // How the Material is composited.

	// Highlight is a rim color added towards the silhouette of the shape, scaled by
	// (1.05 - dot(normal, view))^2. A zero Color (the default) disables it.
	Highlight Color

	// Fresnel shades the Material purely by its rim factor (0.8 - dot(normal, view))^2 multiplied by the Material's Color,
	// rather than by its texture. This is used for glowing shells like atmospheres.
	Fresnel bool
}

// NewMaterial creates a new Material with the name given.
func NewMaterial(name string) *Material {
	return &Material{
		Name:        name,
		Color:       NewColor(1, 1, 1, 1),
		FaceCulling: CullBack,
		BlendMode:   BlendNormal,
	}
}

// Clone creates a clone of the specified Material. The texture is shared, not copied.
func (material *Material) Clone() *Material {
	newMat := *material
	return &newMat
}
