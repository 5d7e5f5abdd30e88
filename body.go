package orrery

import (
	"log/slog"
	"math"
)

// CelestialBody is a planet (or moon, or anything else round) in a Scene. The CelestialBody itself is a pivot Node; its surface Model,
// atmosphere shell, rings, occluder, and location markers are all parented to it, so moving or spinning the body moves everything on it.
type CelestialBody struct {
	*Node

	Surface    *Model          // The drawn surface of the body, scaled so that it matches the body's radius.
	Atmosphere *Model          // The atmosphere shell, if any. It isn't an occluder.
	Rings      []*Model        // Any rings added with AddRing().
	Occluder   *BoundingSphere // The sphere that ray tests against the body hit.

	// LabelOffset is how far above the surface (along the surface normal) location labels are anchored.
	LabelOffset float64
	// MarkerColor is the color of the point markers that new locations receive.
	MarkerColor Color
	// LabelColor is the default color of location labels.
	LabelColor Color

	labels     *LabelLayer
	radius     float64
	meshRadius float64
	atmoRatio  float64
	markerMesh *Mesh
	locations  []*Location
}

// DefaultMarkerRadius is the radius of the point markers placed for locations.
const DefaultMarkerRadius = 0.05

// DefaultLabelOffset is the default distance location labels are placed above the surface.
const DefaultLabelOffset = 0.15

// NewCelestialBody creates a new CelestialBody with the name and radius given. surface is the Model used to draw the body; it's
// scaled uniformly so that its furthest vertex lies at the given radius. If surface is nil, a UV sphere is generated instead.
// labels is the LabelLayer that location labels are added to; it may be nil, in which case locations don't get Labels.
func NewCelestialBody(name string, surface *Model, radius float64, labels *LabelLayer) *CelestialBody {

	if surface == nil {
		surface = NewModel(NewSphereMesh(name, radius, 48, 64), name)
	}

	body := &CelestialBody{
		Node:        NewNode(name),
		Surface:     surface,
		Occluder:    NewBoundingSphere(name+".occluder", radius),
		LabelOffset: DefaultLabelOffset,
		MarkerColor: NewColor(1, 0, 0, 1),
		LabelColor:  NewColor(1, 0, 0, 1),
		labels:      labels,
		radius:      radius,
		markerMesh:  NewSphereMesh("marker", DefaultMarkerRadius, 8, 12),
	}

	body.markerMesh.MeshParts[0].Material.Shadeless = true

	if surface.Mesh != nil {
		body.meshRadius = surface.Mesh.Radius()
	}

	body.AddChildren(surface, body.Occluder)
	body.rescaleSurface()

	return body

}

func (body *CelestialBody) rescaleSurface() {
	if body.meshRadius <= 0 {
		return
	}
	s := body.radius / body.meshRadius
	body.Surface.SetLocalScale(s, s, s)
}

// Radius returns the body's radius.
func (body *CelestialBody) Radius() float64 {
	return body.radius
}

// SetRadius sets the body's radius, rescaling its surface, occluder, and atmosphere and moving every location that doesn't have
// its own radius override onto the new surface.
func (body *CelestialBody) SetRadius(radius float64) {

	if body.radius == radius {
		return
	}

	body.radius = radius
	body.rescaleSurface()
	body.Occluder.Radius = radius

	if body.Atmosphere != nil {
		s := radius * body.atmoRatio
		body.Atmosphere.SetLocalScale(s, s, s)
	}

	for _, loc := range body.locations {
		if loc.RadiusOverride <= 0 {
			loc.place()
		}
	}

}

// SetAtmosphere gives the body an atmosphere shell of the radius and color given, replacing any existing one. The shell only
// draws its inside faces and adds its color onto what's behind it, glowing towards the body's silhouette.
func (body *CelestialBody) SetAtmosphere(radius float64, color Color) *Model {

	if body.Atmosphere != nil {
		body.Atmosphere.Unparent()
	}

	mesh := NewSphereMesh(body.name+".atmosphere", 1, 32, 48)
	mat := mesh.MeshParts[0].Material
	mat.Color = color
	mat.Shadeless = true
	mat.Fresnel = true
	mat.FaceCulling = CullFront
	mat.BlendMode = BlendAdditive

	body.Atmosphere = NewModel(mesh, body.name+".atmosphere")
	body.Atmosphere.SetLocalScale(radius, radius, radius)
	body.atmoRatio = radius / body.radius

	body.AddChildren(body.Atmosphere)

	return body.Atmosphere

}

// AddRing adds a flat ring around the body, spanning from the inner to the outer radius, tilted by the euler angles given (in
// radians). If material is nil, the ring mesh's default (double-sided) Material is used.
func (body *CelestialBody) AddRing(innerRadius, outerRadius float64, segments int, tilt Vector, material *Material) *Model {

	mesh := NewRingMesh(body.name+".ring", innerRadius, outerRadius, segments)
	if material != nil {
		mesh.SetMaterial(material)
	}

	ring := NewModel(mesh, mesh.Name)
	ring.SetLocalRotation(NewMatrix4RotateFromEuler(tilt))

	body.Rings = append(body.Rings, ring)
	body.AddChildren(ring)

	return ring

}

// LocationOptions customizes how AddLocation() registers a Location. The zero value uses the body's defaults.
type LocationOptions struct {
	// Radius overrides the body's radius for this Location when greater than 0. Overridden Locations stay put when the body's
	// radius changes.
	Radius float64
	// Color is the Label's color. If its alpha is 0, the body's LabelColor is used.
	Color Color
	// Properties are copied onto the Location.
	Properties map[string]any
}

// AddLocation registers a named location at the latitude and longitude given (in degrees). A point marker is placed on the surface,
// oriented along the surface normal, and a Label (if the body has a LabelLayer) is anchored LabelOffset units above it. Locations are
// kept in the order they're added; adding the same coordinates twice creates two distinct Locations.
func (body *CelestialBody) AddLocation(name string, latDeg, lonDeg float64, options *LocationOptions) *Location {

	if options == nil {
		options = &LocationOptions{}
	}

	loc := &Location{
		Name:           name,
		Lat:            latDeg,
		Lon:            lonDeg,
		RadiusOverride: options.Radius,
		Properties:     NewProperties(options.Properties),
		body:           body,
	}

	loc.Marker = NewModel(body.markerMesh, name)
	loc.Marker.Color = body.MarkerColor
	loc.LabelNode = NewNode(name + ".label")
	loc.Marker.AddChildren(loc.LabelNode)
	body.AddChildren(loc.Marker)

	loc.place()

	if body.labels != nil {
		color := options.Color
		if color.A == 0 {
			color = body.LabelColor
		}
		loc.Label = body.labels.Add(name, loc.LabelNode, color)
	}

	body.locations = append(body.locations, loc)

	Logger().Debug("location registered",
		slog.String("body", body.name),
		slog.String("location", name),
		slog.Float64("lat", latDeg),
		slog.Float64("lon", lonDeg),
	)

	return loc

}

// RemoveLocation removes the Location from the body, along with its marker and Label.
func (body *CelestialBody) RemoveLocation(loc *Location) {
	for i, l := range body.locations {
		if l == loc {
			body.locations = append(body.locations[:i], body.locations[i+1:]...)
			loc.Marker.Unparent()
			if loc.Label != nil && body.labels != nil {
				body.labels.Remove(loc.Label)
			}
			loc.body = nil
			return
		}
	}
}

// Locations returns the body's Locations, in the order they were added.
func (body *CelestialBody) Locations() []*Location {
	return append(make([]*Location, 0, len(body.locations)), body.locations...)
}

// PickLocation casts a ray from the "from" world position to the "to" world position (as returned by Camera.ScreenRay()) against
// the body, and returns the Location closest to where it strikes the surface, as long as it's within tolerance world units of it.
// nil is returned if the ray misses the body or no Location is close enough.
func (body *CelestialBody) PickLocation(from, to Vector, tolerance float64) *Location {

	hits := RayTest(RayTestOptions{From: from, To: to, TestAgainst: NodeFilter{body.Occluder}})

	if len(hits) == 0 {
		return nil
	}

	var picked *Location
	best := tolerance * tolerance

	for _, loc := range body.locations {
		if d := loc.WorldAnchor().DistanceSquared(hits[0].Position); d <= best {
			best = d
			picked = loc
		}
	}

	return picked

}

// Labels returns the LabelLayer that the body's location Labels are added to.
func (body *CelestialBody) Labels() *LabelLayer {
	return body.labels
}

// Spin rotates the body around its local vertical (+Y) axis by the angle given, in radians.
func (body *CelestialBody) Spin(angle float64) {
	if angle == 0 || math.IsNaN(angle) {
		return
	}
	body.Rotate(0, 1, 0, angle)
}

// Destroy removes all of the body's Locations (and their Labels) and unparents the body from the scene graph.
func (body *CelestialBody) Destroy() {
	for _, loc := range body.Locations() {
		body.RemoveLocation(loc)
	}
	body.Unparent()
}

// Clone returns a copy of the body. The clone's Locations are re-registered against the same LabelLayer, so they receive new Labels.
func (body *CelestialBody) Clone() INode {

	clone := NewCelestialBody(body.name, body.Surface.Clone().(*Model), body.radius, body.labels)
	clone.meshRadius = body.meshRadius
	clone.rescaleSurface()
	clone.LabelOffset = body.LabelOffset
	clone.MarkerColor = body.MarkerColor
	clone.LabelColor = body.LabelColor
	clone.SetLocalPositionVec(body.position)
	clone.SetLocalRotation(body.rotation)
	clone.SetLocalScaleVec(body.scale)
	clone.visible = body.visible

	if body.Atmosphere != nil {
		clone.SetAtmosphere(body.Atmosphere.LocalScale().X, body.Atmosphere.Mesh.MeshParts[0].Material.Color)
	}

	for _, ring := range body.Rings {
		r := ring.Clone().(*Model)
		clone.Rings = append(clone.Rings, r)
		clone.AddChildren(r)
	}

	for _, loc := range body.locations {
		options := &LocationOptions{Radius: loc.RadiusOverride, Properties: loc.Properties.props}
		if loc.Label != nil {
			options.Color = loc.Label.Color
		}
		clone.AddLocation(loc.Name, loc.Lat, loc.Lon, options)
	}

	return clone

}

// AddChildren parents the provided children Nodes to the passed parent Node, inheriting its transformations and being under it in the scenegraph
// hierarchy. If the children are already parented to other Nodes, they are unparented before doing so.
func (body *CelestialBody) AddChildren(children ...INode) {
	body.addChildren(body, children...)
}

// Unparent unparents the CelestialBody from its parent, removing it from the scenegraph.
func (body *CelestialBody) Unparent() {
	if body.parent != nil {
		body.parent.RemoveChildren(body)
	}
}

// Type returns the NodeType for this object.
func (body *CelestialBody) Type() NodeType {
	return NodeTypeBody
}
