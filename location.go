package orrery

// Location is a named point on a CelestialBody's surface, given by latitude and longitude in degrees.
type Location struct {
	Name     string
	Lat, Lon float64

	// RadiusOverride places the Location on a sphere of this radius rather than the body's when greater than 0.
	RadiusOverride float64

	Marker    *Model // The point marker drawn at the Location; parented to the body.
	LabelNode *Node  // The Node the Label is anchored to, LabelOffset units above the marker.
	Label     *Label // The Location's Label; nil if the body has no LabelLayer.

	Properties *Properties

	body   *CelestialBody
	anchor Vector
}

// Body returns the CelestialBody the Location is on, or nil if it's been removed.
func (loc *Location) Body() *CelestialBody {
	return loc.body
}

// Radius returns the radius of the sphere the Location sits on.
func (loc *Location) Radius() float64 {
	if loc.RadiusOverride > 0 || loc.body == nil {
		return loc.RadiusOverride
	}
	return loc.body.radius
}

// Anchor returns the Location's surface position relative to the body's center (in the body's local space).
func (loc *Location) Anchor() Vector {
	return loc.anchor
}

// Normal returns the outward surface normal at the Location, in the body's local space.
func (loc *Location) Normal() Vector {
	return SurfaceNormal(loc.Lat, loc.Lon)
}

// WorldAnchor returns the Location's surface position in world space.
func (loc *Location) WorldAnchor() Vector {
	return loc.Marker.WorldPosition()
}

// WorldNormal returns the outward surface normal at the Location in world space.
func (loc *Location) WorldNormal() Vector {
	return loc.Marker.WorldRotation().Up()
}

// LabelPosition returns the world position the Location's Label is anchored at.
func (loc *Location) LabelPosition() Vector {
	return loc.LabelNode.WorldPosition()
}

// place recomputes the Location's anchor from its coordinates and moves its marker and label anchor to match.
func (loc *Location) place() {
	loc.anchor = ToCartesian(loc.Lat, loc.Lon, loc.Radius())
	loc.Marker.SetLocalPositionVec(loc.anchor)
	loc.Marker.SetLocalRotation(NewMatrix4FromSphericalOrientation(loc.Lat, loc.Lon))
	loc.LabelNode.SetLocalPosition(0, loc.body.LabelOffset, 0)
}
