package orrery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// BodyLoader loads the drawable surface of a body by its identifier.
type BodyLoader interface {
	LoadBody(ctx context.Context, id string) (*Model, error)
}

// TextureLoader is implemented by BodyLoaders that can also load standalone textures (like ring textures).
type TextureLoader interface {
	LoadTexture(ctx context.Context, path string) (image.Image, error)
}

// AssetLoader loads body models and textures from a filesystem. Identifiers naming a built-in planet preset (see FindPlanet())
// load the preset's model; any other identifier loads "models/<id>.glb". Loaded models are cached, and concurrent loads of the
// same identifier share a single read. Each call returns its own Model instance (sharing the cached Mesh).
type AssetLoader struct {
	FS      fs.FS
	Options *GLTFLoadOptions

	// Procedural generates a UV sphere (textured with the preset's texture, if it can be found) when a body's model file doesn't exist.
	Procedural bool

	mu    sync.Mutex
	cache map[string]*Model
	group singleflight.Group
}

// NewAssetLoader returns a new AssetLoader reading from the filesystem given, with procedural fallback enabled.
func NewAssetLoader(fsys fs.FS) *AssetLoader {
	return &AssetLoader{
		FS:         fsys,
		Options:    DefaultGLTFLoadOptions(),
		Procedural: true,
		cache:      map[string]*Model{},
	}
}

// LoadBody loads the surface Model of the body with the identifier given.
func (loader *AssetLoader) LoadBody(ctx context.Context, id string) (*Model, error) {

	loader.mu.Lock()
	cached, ok := loader.cache[id]
	loader.mu.Unlock()

	if ok {
		return cached.Clone().(*Model), nil
	}

	result := loader.group.DoChan(id, func() (any, error) {

		// A flight that finished between the cache check above and this call has already cached its result.
		loader.mu.Lock()
		cached, ok := loader.cache[id]
		loader.mu.Unlock()

		if ok {
			return cached, nil
		}

		model, err := loader.load(id)
		if err != nil {
			return nil, err
		}

		loader.mu.Lock()
		loader.cache[id] = model
		loader.mu.Unlock()

		return model, nil

	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Model).Clone().(*Model), nil
	}

}

// LoadTexture loads and decodes the image at the path given.
func (loader *AssetLoader) LoadTexture(ctx context.Context, path string) (image.Image, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(loader.FS, path)
	if err != nil {
		return nil, fmt.Errorf("orrery: loading texture %q: %w", path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("orrery: decoding texture %q: %w", path, err)
	}

	return img, nil

}

func (loader *AssetLoader) load(id string) (*Model, error) {

	preset, isPreset := FindPlanet(id)

	modelPath := "models/" + id + ".glb"
	if isPreset {
		modelPath = preset.ModelPath
	}

	lib, err := LoadGLTFFile(loader.FS, modelPath, loader.Options)

	if err != nil {

		if !errors.Is(err, fs.ErrNotExist) || !loader.Procedural {
			return nil, fmt.Errorf("orrery: loading body %q: %w", id, err)
		}

		Logger().Info("body model not found, generating sphere", slog.String("body", id), slog.String("path", modelPath))

		radius := 1.0
		if isPreset {
			radius = preset.Radius
		}

		model := NewModel(NewSphereMesh(id, radius, 48, 64), id)
		loader.applyPresetTexture(model, preset, isPreset)

		return model, nil

	}

	model, err := lib.MergedModel(id)
	if err != nil {
		return nil, fmt.Errorf("orrery: loading body %q: %w", id, err)
	}

	loader.applyPresetTexture(model, preset, isPreset)

	return model, nil

}

// applyPresetTexture gives untextured Materials on the Model the preset's surface texture, if it can be loaded.
func (loader *AssetLoader) applyPresetTexture(model *Model, preset PlanetPreset, isPreset bool) {

	if !isPreset || preset.TexturePath == "" {
		return
	}

	var texture image.Image

	for _, part := range model.Mesh.MeshParts {

		if part.Material == nil || part.Material.Texture != nil {
			continue
		}

		if texture == nil {
			img, err := loader.LoadTexture(context.Background(), preset.TexturePath)
			if err != nil {
				Logger().Warn("body texture unavailable", slog.String("body", preset.Name), slog.Any("error", err))
				return
			}
			texture = img
		}

		part.Material.Texture = texture
		part.Material.TexturePath = preset.TexturePath

	}

}
