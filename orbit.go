package orrery

import (
	"math"
)

// OrbitControls moves a Camera around a target point in response to user input: rotating around it, zooming towards
// or away from it, and panning it across the view. Input is accumulated through Rotate(), Zoom(), and Pan(), and applied
// to a Camera by Update(). Input for a disabled action is ignored.
type OrbitControls struct {
	Target Vector // The point the camera orbits around and looks at.

	EnableRotate bool
	EnableZoom   bool
	EnablePan    bool

	RotateSpeed float64
	ZoomSpeed   float64
	PanSpeed    float64

	MinDistance, MaxDistance     float64 // Limits on the camera's distance from Target. A MaxDistance of 0 is unlimited.
	MinPolarAngle, MaxPolarAngle float64 // Limits on the angle down from the +Y axis, in radians.

	// EnableDamping makes rotation and panning ease out over the following frames instead of stopping immediately.
	EnableDamping bool
	DampingFactor float64

	thetaDelta, phiDelta float64
	zoomScale            float64
	panPixels            Vector
}

// NewOrbitControls returns new OrbitControls orbiting around the target given, with every action enabled.
func NewOrbitControls(target Vector) *OrbitControls {
	return &OrbitControls{
		Target:        target,
		EnableRotate:  true,
		EnableZoom:    true,
		EnablePan:     true,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		MaxPolarAngle: math.Pi,
		DampingFactor: 0.05,
		zoomScale:     1,
	}
}

// Rotate queues a rotation around the target from a pointer drag of dx and dy pixels, in a view of the height given (in pixels).
// Dragging across the full height of the view rotates by a full turn.
func (oc *OrbitControls) Rotate(dx, dy float64, viewHeight int) {
	if !oc.EnableRotate || viewHeight <= 0 {
		return
	}
	oc.thetaDelta -= 2 * math.Pi * dx / float64(viewHeight) * oc.RotateSpeed
	oc.phiDelta -= 2 * math.Pi * dy / float64(viewHeight) * oc.RotateSpeed
}

// Zoom queues a zoom by the number of (mouse wheel) steps given; positive steps move the camera towards the target.
func (oc *OrbitControls) Zoom(steps float64) {
	if !oc.EnableZoom {
		return
	}
	oc.zoomScale *= math.Pow(0.95, steps*oc.ZoomSpeed)
}

// Pan queues a pan of the target across the view from a pointer drag of dx and dy pixels.
func (oc *OrbitControls) Pan(dx, dy float64) {
	if !oc.EnablePan {
		return
	}
	oc.panPixels = oc.panPixels.Add(NewVector(dx, dy, 0).Scale(oc.PanSpeed))
}

// Pending returns true if there's queued input that Update() hasn't finished applying.
func (oc *OrbitControls) Pending() bool {
	const eps = 1e-6
	return math.Abs(oc.thetaDelta) > eps || math.Abs(oc.phiDelta) > eps || math.Abs(oc.zoomScale-1) > eps || oc.panPixels.MagnitudeSquared() > eps
}

// Update applies any queued input to the Camera, returning true if the Camera was moved. With nothing queued, the Camera
// isn't touched at all, so the controls don't fight anything else moving the Camera.
func (oc *OrbitControls) Update(camera *Camera) bool {

	if !oc.Pending() {
		return false
	}

	offset := camera.WorldPosition().Sub(oc.Target)

	radius := offset.Magnitude()
	theta := math.Atan2(offset.X, offset.Z)
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(math.Max(-1, math.Min(1, offset.Y/radius)))
	}

	theta += oc.thetaDelta
	phi += oc.phiDelta

	const eps = 1e-6
	phi = math.Max(oc.MinPolarAngle, math.Min(oc.MaxPolarAngle, phi))
	phi = math.Max(eps, math.Min(math.Pi-eps, phi))

	radius *= oc.zoomScale
	radius = math.Max(radius, oc.MinDistance)
	if oc.MaxDistance > 0 {
		radius = math.Min(radius, oc.MaxDistance)
	}

	if !oc.panPixels.IsZero() {
		_, h := camera.Size()
		// Panning moves the target by the same amount as the view under the pointer moves.
		perPixel := 2 * radius * math.Tan(camera.FieldOfView()*math.Pi/360) / float64(h)
		rot := camera.WorldRotation()
		oc.Target = oc.Target.
			Add(rot.Right().Scale(-oc.panPixels.X * perPixel)).
			Add(rot.Up().Scale(oc.panPixels.Y * perPixel))
	}

	offset = NewVector(
		radius*math.Sin(phi)*math.Sin(theta),
		radius*math.Cos(phi),
		radius*math.Sin(phi)*math.Cos(theta),
	)

	camera.SetWorldPositionVec(oc.Target.Add(offset))
	camera.LookAt(oc.Target)

	if oc.EnableDamping {
		oc.thetaDelta *= 1 - oc.DampingFactor
		oc.phiDelta *= 1 - oc.DampingFactor
		oc.panPixels = oc.panPixels.Scale(1 - oc.DampingFactor)
	} else {
		oc.thetaDelta = 0
		oc.phiDelta = 0
		oc.panPixels = Vector{}
	}

	oc.zoomScale = 1

	return true

}
