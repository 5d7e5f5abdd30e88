// Package ebiten3d draws orrery Scenes and LabelLayers with Ebitengine.
package ebiten3d

import (
	"image"
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/orrery"
)

// maxBatchVertices is the most vertices a single DrawTriangles call can index with uint16 indices.
const maxBatchVertices = math.MaxUint16 - 2

var defaultImg *ebiten.Image

func init() {
	defaultImg = ebiten.NewImage(4, 4)
	defaultImg.Fill(color.White)
}

// DebugInfo holds statistics about the last Scene rendered.
type DebugInfo struct {
	ModelsDrawn     int
	TrianglesDrawn  int
	TrianglesCulled int
	DrawCalls       int
	FrameTime       time.Duration // Time spent transforming and sorting triangles in Render().
}

type triangle struct {
	vertices [3]ebiten.Vertex
	depth    float64
	image    *ebiten.Image
	blend    ebiten.Blend
}

// Renderer draws a Scene as flat-shaded, depth-sorted triangles. Render() transforms the Scene into a triangle list during
// the game's Update(), and Draw() blits that list onto the screen during the game's Draw().
type Renderer struct {
	// LightDirection is the direction light comes from, in world space, and Ambient the light level of the dark side.
	// Both are only used when the Scene has no DirectionalLight or AmbientLight of its own that's turned on.
	LightDirection orrery.Vector
	Ambient        float32
	Filter         ebiten.Filter

	DebugInfo DebugInfo

	clearColor orrery.Color
	triangles  []triangle
	textures   map[image.Image]*ebiten.Image
	vertices   []ebiten.Vertex
	indices    []uint16
}

// NewRenderer returns a new Renderer, lit from the upper-right.
func NewRenderer() *Renderer {
	return &Renderer{
		LightDirection: orrery.NewVector(1, 1, 1).Unit(),
		Ambient:        0.35,
		Filter:         ebiten.FilterLinear,
		textures:       map[image.Image]*ebiten.Image{},
	}
}

// Render transforms every visible Model in the Scene into screen-space triangles for the Camera given. Triangles that cross
// the near plane are skipped, faces are culled according to their Materials, and the result is sorted back to front.
func (r *Renderer) Render(scene *orrery.Scene, camera *orrery.Camera) {

	t := time.Now()

	r.DebugInfo = DebugInfo{}
	r.clearColor = scene.ClearColor
	r.triangles = r.triangles[:0]

	vp := camera.ViewProjection()
	camPos := camera.WorldPosition()
	light := r.lighting(scene)

	for _, model := range scene.Root.ChildrenRecursive().Models() {

		if model.Mesh == nil || !visibleInTree(model) {
			continue
		}

		r.DebugInfo.ModelsDrawn++

		transform := model.Transform()
		mvp := transform.Mult(vp)
		rotation := model.WorldRotation()

		mesh := model.Mesh

		clip := make([]orrery.Vector, len(mesh.VertexPositions))
		world := make([]orrery.Vector, len(mesh.VertexPositions))
		normals := make([]orrery.Vector, len(mesh.VertexPositions))

		for i, pos := range mesh.VertexPositions {
			clip[i] = mvp.MultVecW(pos)
			world[i] = transform.MultVec(pos)
			normals[i] = rotation.MultDirection(mesh.VertexNormals[i]).Unit()
		}

		for _, part := range mesh.MeshParts {

			mat := part.Material
			if mat == nil {
				mat = orrery.NewMaterial("default")
			}

			img := defaultImg
			if mat.Texture != nil {
				img = r.texture(mat.Texture)
			}

			srcW := float32(img.Bounds().Dx())
			srcH := float32(img.Bounds().Dy())

			blend := ebiten.BlendSourceOver
			if mat.BlendMode == orrery.BlendAdditive {
				blend = ebiten.BlendLighter
			}

			base := model.Color.Multiply(mat.Color)

			for i := 0; i < len(part.Indices); i += 3 {

				i0, i1, i2 := part.Indices[i], part.Indices[i+1], part.Indices[i+2]

				near := camera.Near()
				if clip[i0].W < near || clip[i1].W < near || clip[i2].W < near {
					r.DebugInfo.TrianglesCulled++
					continue
				}

				a := camera.ClipToScreen(clip[i0])
				b := camera.ClipToScreen(clip[i1])
				c := camera.ClipToScreen(clip[i2])

				// Screen Y points down, so counter-clockwise (front) faces have a negative signed area here.
				area := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
				front := area < 0

				if (mat.FaceCulling == orrery.CullBack && !front) || (mat.FaceCulling == orrery.CullFront && front) {
					r.DebugInfo.TrianglesCulled++
					continue
				}

				tri := triangle{
					depth: (a.Z + b.Z + c.Z) / 3,
					image: img,
					blend: blend,
				}

				for v, index := range [3]uint32{i0, i1, i2} {

					screen := [3]orrery.Vector{a, b, c}[v]
					col := r.shade(mat, base, normals[index], camPos.Sub(world[index]).Unit(), light)

					uv := mesh.VertexUVs[index]

					vert := ebiten.Vertex{
						DstX:   float32(screen.X),
						DstY:   float32(screen.Y),
						ColorR: col.R,
						ColorG: col.G,
						ColorB: col.B,
						ColorA: col.A,
					}

					if mat.Texture != nil {
						vert.SrcX = float32(uv.X) * srcW
						vert.SrcY = float32(uv.Y) * srcH
					} else {
						vert.SrcX = 1 + float32(uv.X)*2
						vert.SrcY = 1 + float32(uv.Y)*2
					}

					tri.vertices[v] = vert

				}

				r.triangles = append(r.triangles, tri)

			}

		}

	}

	sort.SliceStable(r.triangles, func(i, j int) bool {
		return r.triangles[i].depth > r.triangles[j].depth
	})

	r.DebugInfo.TrianglesDrawn = len(r.triangles)
	r.DebugInfo.FrameTime = time.Since(t)

}

type lighting struct {
	direction orrery.Vector // The direction light comes from.
	color     orrery.Color
	ambient   orrery.Color
}

// lighting returns the lighting for the Scene: the first DirectionalLight and AmbientLight that are turned on, falling
// back to the Renderer's own LightDirection and Ambient.
func (r *Renderer) lighting(scene *orrery.Scene) lighting {

	l := lighting{
		direction: r.LightDirection.Unit(),
		color:     orrery.NewColor(1, 1, 1, 1),
		ambient:   orrery.NewColor(r.Ambient, r.Ambient, r.Ambient, 1),
	}

	sunFound, ambientFound := false, false

	for _, node := range scene.Lights() {

		if !visibleInTree(node) {
			continue
		}

		switch light := node.(type) {
		case *orrery.DirectionalLight:
			if light.On && !sunFound {
				l.direction = light.Direction()
				l.color = light.Light()
				sunFound = true
			}
		case *orrery.AmbientLight:
			if light.On && !ambientFound {
				l.ambient = light.Light()
				ambientFound = true
			}
		}

	}

	return l

}

// shade returns the color of a vertex with the normal given, seen from the direction given (pointing from the vertex to the camera).
func (r *Renderer) shade(mat *orrery.Material, base orrery.Color, normal, view orrery.Vector, light lighting) orrery.Color {

	nDotV := normal.Dot(view)

	if mat.Fresnel {
		// The shell is drawn from the inside, so the visible faces point away from the camera and the glow peaks towards the middle.
		intensity := float32(math.Pow(0.8-nDotV, 2))
		glow := base.MultiplyRGB(intensity)
		glow.A = base.A
		return glow.Clamp()
	}

	col := base

	if !mat.Shadeless {
		diffuse := float32(math.Max(0, normal.Dot(light.direction)))
		col.R *= light.ambient.R + (1-light.ambient.R)*diffuse*light.color.R
		col.G *= light.ambient.G + (1-light.ambient.G)*diffuse*light.color.G
		col.B *= light.ambient.B + (1-light.ambient.B)*diffuse*light.color.B
	}

	if !mat.Highlight.IsZero() {
		rim := float32(math.Pow(math.Max(0, 1.05-nDotV), 2))
		col.R += mat.Highlight.R * rim
		col.G += mat.Highlight.G * rim
		col.B += mat.Highlight.B * rim
	}

	return col.Clamp()

}

func (r *Renderer) texture(img image.Image) *ebiten.Image {
	if tex, ok := img.(*ebiten.Image); ok {
		return tex
	}
	tex, ok := r.textures[img]
	if !ok {
		tex = ebiten.NewImageFromImage(img)
		r.textures[img] = tex
	}
	return tex
}

// Draw clears the screen to the Scene's clear color and draws the triangles from the last call to Render(), batching
// consecutive triangles that share a texture and blend mode.
func (r *Renderer) Draw(screen *ebiten.Image) {

	screen.Fill(r.clearColor.ToNRGBA())

	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]

	var batchImage *ebiten.Image
	var batchBlend ebiten.Blend

	flush := func() {
		if len(r.indices) == 0 {
			return
		}
		opt := &ebiten.DrawTrianglesOptions{
			Filter: r.Filter,
			Blend:  batchBlend,
		}
		screen.DrawTriangles(r.vertices, r.indices, batchImage, opt)
		r.DebugInfo.DrawCalls++
		r.vertices = r.vertices[:0]
		r.indices = r.indices[:0]
	}

	for _, tri := range r.triangles {

		if tri.image != batchImage || tri.blend != batchBlend || len(r.vertices)+3 > maxBatchVertices {
			flush()
			batchImage = tri.image
			batchBlend = tri.blend
		}

		start := uint16(len(r.vertices))
		r.vertices = append(r.vertices, tri.vertices[:]...)
		r.indices = append(r.indices, start, start+1, start+2)

	}

	flush()

}

// Textures returns how many textures the Renderer has uploaded.
func (r *Renderer) Textures() int {
	return len(r.textures)
}

func visibleInTree(node orrery.INode) bool {
	for n := node; n != nil; n = n.Parent() {
		if !n.Visible() {
			return false
		}
	}
	return true
}
