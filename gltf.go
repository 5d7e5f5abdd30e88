package orrery

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strconv"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	_ "image/jpeg"
	_ "image/png"
)

type GLTFLoadOptions struct {
	// TextureFS is used to resolve images that a GLTF file references by URI (rather than packing them into the file). If it's nil,
	// such images are skipped and only their paths are stored on the Materials (Material.TexturePath).
	TextureFS fs.FS
	// TextureDir is the directory in TextureFS that image URIs are relative to.
	TextureDir string
	// ConvertColorsTosRGB converts material base colors from linear space (as GLTF stores them) to sRGB.
	ConvertColorsTosRGB bool
}

// DefaultGLTFLoadOptions creates an instance of GLTFLoadOptions with some sensible defaults.
func DefaultGLTFLoadOptions() *GLTFLoadOptions {
	return &GLTFLoadOptions{
		TextureDir:          ".",
		ConvertColorsTosRGB: true,
	}
}

// LoadGLTFFile loads a .glb file (or a .gltf file with embedded buffers) from the filesystem given, using a provided
// GLTFLoadOptions struct to alter how the file is loaded. Passing nil for loadOptions will load the file using default load options.
// If the load options have no TextureFS, textures referenced by URI are resolved from fsys, relative to the file.
func LoadGLTFFile(fsys fs.FS, filepath string, loadOptions *GLTFLoadOptions) (*Library, error) {

	file, err := fsys.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if loadOptions == nil {
		loadOptions = DefaultGLTFLoadOptions()
	}

	if loadOptions.TextureFS == nil {
		opts := *loadOptions
		opts.TextureFS = fsys
		opts.TextureDir = path.Dir(filepath)
		loadOptions = &opts
	}

	return LoadGLTFData(file, loadOptions)

}

// LoadGLTFData loads a .glb file (or a .gltf file with embedded buffers) from the reader given, using a provided GLTFLoadOptions
// struct to alter how the file is loaded. Passing nil for loadOptions will load the file using default load options.
// Meshes, Materials, and the node hierarchy of the file's default scene are loaded; anything else (animations, skins, cameras,
// lights) is ignored. LoadGLTFData will return a Library, and an error if the process fails.
func LoadGLTFData(data io.Reader, gltfLoadOptions *GLTFLoadOptions) (*Library, error) {

	decoder := gltf.NewDecoder(data)

	doc := gltf.NewDocument()

	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("orrery: decoding gltf: %w", err)
	}

	if gltfLoadOptions == nil {
		gltfLoadOptions = DefaultGLTFLoadOptions()
	}

	library := NewLibrary()

	images := make([]image.Image, len(doc.Images))
	imagePaths := make([]string, len(doc.Images))

	for i, gltfImage := range doc.Images {

		var imageData []byte
		var err error

		switch {

		case gltfImage.BufferView != nil:
			imageData, err = modeler.ReadBufferView(doc, doc.BufferViews[*gltfImage.BufferView])

		case gltfImage.IsEmbeddedResource():
			imageData, err = gltfImage.MarshalData()

		case gltfImage.URI != "":
			imagePaths[i] = gltfImage.URI
			if gltfLoadOptions.TextureFS == nil {
				continue
			}
			imageData, err = fs.ReadFile(gltfLoadOptions.TextureFS, path.Join(gltfLoadOptions.TextureDir, gltfImage.URI))

		}

		if err != nil {
			return nil, fmt.Errorf("orrery: reading gltf image %d: %w", i, err)
		}

		if len(imageData) == 0 {
			continue
		}

		img, _, err := image.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("orrery: decoding gltf image %d: %w", i, err)
		}

		images[i] = img

	}

	materials := make([]*Material, len(doc.Materials))

	for i, gltfMat := range doc.Materials {

		name := gltfMat.Name
		if name == "" {
			name = "Material." + strconv.Itoa(i)
		}

		newMat := NewMaterial(name)

		if gltfMat.DoubleSided {
			newMat.FaceCulling = CullNone
		}

		if pbr := gltfMat.PBRMetallicRoughness; pbr != nil {

			if texture := pbr.BaseColorTexture; texture != nil && texture.Index < len(doc.Textures) {
				if source := doc.Textures[texture.Index].Source; source != nil {
					newMat.Texture = images[*source]
					newMat.TexturePath = imagePaths[*source]
				}
			}

			if color := pbr.BaseColorFactor; color != nil {
				newMat.Color.R = float32(color[0])
				newMat.Color.G = float32(color[1])
				newMat.Color.B = float32(color[2])
				newMat.Color.A = float32(color[3])
				if gltfLoadOptions.ConvertColorsTosRGB {
					newMat.Color = newMat.Color.ConvertTosRGB()
				}
			}

		}

		materials[i] = newMat
		library.Materials[name] = newMat

	}

	meshes := make([]*Mesh, len(doc.Meshes))

	for i, mesh := range doc.Meshes {

		name := mesh.Name
		if name == "" {
			name = "Mesh." + strconv.Itoa(i)
		}

		newMesh := NewMesh(name)

		for p, v := range mesh.Primitives {

			if v.Mode != gltf.PrimitiveTriangles {
				Logger().Warn("skipping non-triangle gltf primitive", slog.String("mesh", name), slog.Int("primitive", p))
				continue
			}

			posAccessor, posExists := v.Attributes[gltf.POSITION]
			if !posExists {
				continue
			}

			posBuffer := [][3]float32{}
			vertPos, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], posBuffer)
			if err != nil {
				return nil, fmt.Errorf("orrery: reading positions of mesh %q: %w", name, err)
			}

			var normals [][3]float32
			if normalAccessor, normalExists := v.Attributes[gltf.NORMAL]; normalExists {
				normalBuffer := [][3]float32{}
				normals, err = modeler.ReadNormal(doc, doc.Accessors[normalAccessor], normalBuffer)
				if err != nil {
					return nil, fmt.Errorf("orrery: reading normals of mesh %q: %w", name, err)
				}
			}

			var texCoords [][2]float32
			if texCoordAccessor, texCoordExists := v.Attributes[gltf.TEXCOORD_0]; texCoordExists {
				uvBuffer := [][2]float32{}
				texCoords, err = modeler.ReadTextureCoord(doc, doc.Accessors[texCoordAccessor], uvBuffer)
				if err != nil {
					return nil, fmt.Errorf("orrery: reading uvs of mesh %q: %w", name, err)
				}
			}

			offset := uint32(newMesh.VertexCount())

			for j, pos := range vertPos {

				normal := NewVectorZero()
				if j < len(normals) {
					normal = NewVector(float64(normals[j][0]), float64(normals[j][1]), float64(normals[j][2]))
				}

				uv := NewVectorZero()
				if j < len(texCoords) {
					uv = NewVector(float64(texCoords[j][0]), float64(texCoords[j][1]), 0)
				}

				newMesh.AddVertex(NewVector(float64(pos[0]), float64(pos[1]), float64(pos[2])), normal, uv)

			}

			var indices []uint32

			if v.Indices != nil {
				indexBuffer := []uint32{}
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*v.Indices], indexBuffer)
				if err != nil {
					return nil, fmt.Errorf("orrery: reading indices of mesh %q: %w", name, err)
				}
			} else {
				indices = make([]uint32, len(vertPos))
				for j := range indices {
					indices[j] = uint32(j)
				}
			}

			for j := range indices {
				indices[j] += offset
			}

			var mat *Material
			if v.Material != nil {
				mat = materials[*v.Material]
			} else {
				mat = NewMaterial(name)
			}

			newMesh.AddMeshPart(mat, indices[:len(indices)-len(indices)%3]...)

			if normals == nil {
				newMesh.RecalculateNormals()
			}

		}

		newMesh.UpdateBounds()
		meshes[i] = newMesh
		library.Meshes[name] = newMesh

	}

	objects := make([]INode, len(doc.Nodes))

	for i, node := range doc.Nodes {

		name := node.Name
		if name == "" {
			name = "Node." + strconv.Itoa(i)
		}

		var obj INode

		if node.Mesh != nil {
			obj = NewModel(meshes[*node.Mesh], name)
		} else {
			obj = NewNode(name)
		}

		mtData := node.Matrix

		matrix := NewMatrix4()
		matrix.SetRow(0, Vector{float64(mtData[0]), float64(mtData[1]), float64(mtData[2]), float64(mtData[3])})
		matrix.SetRow(1, Vector{float64(mtData[4]), float64(mtData[5]), float64(mtData[6]), float64(mtData[7])})
		matrix.SetRow(2, Vector{float64(mtData[8]), float64(mtData[9]), float64(mtData[10]), float64(mtData[11])})
		matrix.SetRow(3, Vector{float64(mtData[12]), float64(mtData[13]), float64(mtData[14]), float64(mtData[15])})

		// A zeroed matrix is what a document built in code (rather than decoded from a file) has by default.
		if !matrix.IsIdentity() && matrix.Row(0).MagnitudeSquared() > 0 {

			p, s, r := matrix.Decompose()

			obj.SetLocalPositionVec(p)
			obj.SetLocalScaleVec(s)
			obj.SetLocalRotation(r)

		} else {

			obj.SetLocalPositionVec(Vector{float64(node.Translation[0]), float64(node.Translation[1]), float64(node.Translation[2]), 0})

			scale := Vector{float64(node.Scale[0]), float64(node.Scale[1]), float64(node.Scale[2]), 0}
			if scale.IsZero() {
				scale = NewVector(1, 1, 1)
			}
			obj.SetLocalScaleVec(scale)

			quat := NewQuaternion(float64(node.Rotation[0]), float64(node.Rotation[1]), float64(node.Rotation[2]), float64(node.Rotation[3]))
			if quat.Magnitude() > 0 {
				obj.SetLocalRotation(quat.ToMatrix4())
			}

		}

		objects[i] = obj

	}

	hasParent := make([]bool, len(doc.Nodes))

	for i, node := range doc.Nodes {
		for _, child := range node.Children {
			objects[i].AddChildren(objects[child])
			hasParent[child] = true
		}
	}

	if len(doc.Scenes) > 0 {

		for i, gltfScene := range doc.Scenes {

			name := gltfScene.Name
			if name == "" {
				name = "Scene." + strconv.Itoa(i)
			}

			scene := library.AddScene(name)
			for _, root := range gltfScene.Nodes {
				scene.Root.AddChildren(objects[root])
			}

			if (doc.Scene != nil && *doc.Scene == i) || (doc.Scene == nil && i == 0) {
				library.ExportedScene = scene
			}

		}

	} else {

		scene := library.AddScene("Scene")
		for i := range doc.Nodes {
			if !hasParent[i] {
				scene.Root.AddChildren(objects[i])
			}
		}
		library.ExportedScene = scene

	}

	return library, nil

}
