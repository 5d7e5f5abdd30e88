package orrery

import (
	"math"
	"strings"
)

// RingPreset describes a planetary ring.
type RingPreset struct {
	InnerRadius, OuterRadius float64
	Segments                 int
	Tilt                     Vector // Euler rotation (in radians) applied to the ring, which otherwise lies flat on the XZ plane.
	TexturePath              string
}

// PlanetPreset describes how to build one of the built-in planets.
type PlanetPreset struct {
	Name             string
	Radius           float64
	AtmosphereRadius float64
	AtmosphereColor  Color
	Highlight        Color  // Rim highlight color of the surface.
	ModelPath        string // Path of the planet's model, relative to the asset root.
	TexturePath      string // Path of the planet's surface texture, used when the model is missing or untextured.
	Ring             *RingPreset
}

var planetPresets = []PlanetPreset{
	{
		Name:             "Mercury",
		Radius:           3,
		AtmosphereRadius: 4.35,
		AtmosphereColor:  NewColor(0.2, 0.1, 0.9, 1),
		Highlight:        NewColor(0.4, 0.4, 0.8, 1),
		ModelPath:        "models/Mercury.glb",
		TexturePath:      "textures/planets/mercury.jpg",
	},
	{
		Name:             "Venus",
		Radius:           3.2,
		AtmosphereRadius: 5.5,
		AtmosphereColor:  NewColor(0.5, 0.5, 0.5, 1),
		Highlight:        NewColor(0.5, 0.5, 0.5, 1),
		ModelPath:        "models/Venus.glb",
		TexturePath:      "textures/planets/venus.jpg",
	},
	{
		Name:             "Mars",
		Radius:           3.2,
		AtmosphereRadius: 5.4,
		AtmosphereColor:  NewColor(0.9, 0.1, 0.1, 1),
		Highlight:        NewColor(0.85, 0.1, 0.1, 1),
		ModelPath:        "models/Mars.glb",
		TexturePath:      "textures/planets/mars.jpg",
	},
	{
		Name:             "Jupiter",
		Radius:           4.2,
		AtmosphereRadius: 5.6,
		AtmosphereColor:  NewColor(0.3, 0.6, 0.3, 1),
		Highlight:        NewColor(0.85, 0.1, 0.1, 1),
		ModelPath:        "models/Jupiter.glb",
		TexturePath:      "textures/planets/jupiter.jpg",
	},
	{
		Name:             "Saturn",
		Radius:           3.9,
		AtmosphereRadius: 4.1,
		AtmosphereColor:  NewColor(0.9, 0.8, 0.1, 1),
		Highlight:        NewColor(0.85, 0.1, 0.1, 1),
		ModelPath:        "models/Saturn.glb",
		TexturePath:      "textures/planets/saturn.jpg",
		Ring: &RingPreset{
			InnerRadius: 4.4,
			OuterRadius: 5.2,
			Segments:    50,
			Tilt:        NewVector(5+math.Pi/2, 0, 0),
			TexturePath: "textures/planets/saturnRing.png",
		},
	},
	{
		Name:             "Uranus",
		Radius:           3.2,
		AtmosphereRadius: 5.4,
		AtmosphereColor:  NewColor(1, 0.5, 0.1, 1),
		Highlight:        NewColor(0.85, 0.7, 0.1, 1),
		ModelPath:        "models/Uranus.glb",
		TexturePath:      "textures/planets/uranus.jpg",
		Ring: &RingPreset{
			InnerRadius: 4.5,
			OuterRadius: 5.2,
			Segments:    50,
			Tilt:        NewVector(-1.9+math.Pi/2, 0, 0),
			TexturePath: "textures/planets/uranusRing.png",
		},
	},
	{
		Name:             "Neptune",
		Radius:           2.76,
		AtmosphereRadius: 5.63,
		AtmosphereColor:  NewColor(0.9, 0.15, 0.5, 1),
		Highlight:        NewColor(0.85, 0.1, 0.1, 1),
		ModelPath:        "models/Neptune.glb",
		TexturePath:      "textures/planets/neptune.jpg",
	},
}

// Planets returns the built-in planet presets, ordered outwards from the sun.
func Planets() []PlanetPreset {
	return append([]PlanetPreset{}, planetPresets...)
}

// FindPlanet returns the built-in preset with the name given (case-insensitively).
func FindPlanet(name string) (PlanetPreset, bool) {
	for _, preset := range planetPresets {
		if strings.EqualFold(preset.Name, name) {
			return preset, true
		}
	}
	return PlanetPreset{}, false
}
