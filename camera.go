package orrery

import (
	"math"
)

// Camera represents a camera (where you look from) in Orrery. A Camera looks down its local -Z axis and uses a perspective
// projection; it doesn't own any render targets itself, so it can be used for projection and picking regardless of what draws the Scene.
type Camera struct {
	*Node

	width, height int

	near, far   float64
	fieldOfView float64 // Vertical field of view in degrees

	cachedProjectionMatrix Matrix4
	updateProjectionMatrix bool
}

// NewCamera creates a new Camera with the specified width and height (in pixels). The default field of view is 75 degrees,
// the near plane is 0.1 units away, and the far plane is 1000 units away.
func NewCamera(w, h int) *Camera {

	camera := &Camera{
		Node:                   NewNode("Camera"),
		near:                   0.1,
		far:                    1000,
		fieldOfView:            75,
		updateProjectionMatrix: true,
	}

	camera.Resize(w, h)

	return camera
}

// Clone clones the Camera and returns it.
func (camera *Camera) Clone() INode {

	clone := NewCamera(camera.width, camera.height)
	clone.near = camera.near
	clone.far = camera.far
	clone.fieldOfView = camera.fieldOfView

	clone.Node = camera.Node.Clone().(*Node)
	for _, child := range clone.children {
		child.setParent(clone)
	}

	return clone

}

// Resize sets the size of the Camera's view in pixels, which determines its aspect ratio. If the width and height are already
// set to the specified arguments, then the function does nothing. Sizes smaller than 1 pixel are clamped to 1.
func (camera *Camera) Resize(w, h int) {

	w = max(w, 1)
	h = max(h, 1)

	if w == camera.width && h == camera.height {
		return
	}

	camera.width = w
	camera.height = h
	camera.updateProjectionMatrix = true

}

// Size returns the width and height of the Camera's view.
func (camera *Camera) Size() (w, h int) {
	return camera.width, camera.height
}

// AspectRatio returns the camera's aspect ratio (width / height).
func (camera *Camera) AspectRatio() float64 {
	return float64(camera.width) / float64(camera.height)
}

// ViewMatrix returns the Camera's view matrix.
func (camera *Camera) ViewMatrix() Matrix4 {

	camPos := camera.WorldPosition().Invert()
	transform := NewMatrix4Translate(camPos.X, camPos.Y, camPos.Z)

	// We invert the rotation because the Camera is looking down -Z
	transform = transform.Mult(camera.WorldRotation().Transposed())

	return transform

}

// Projection returns the Camera's projection matrix.
func (camera *Camera) Projection() Matrix4 {

	if !camera.updateProjectionMatrix {
		return camera.cachedProjectionMatrix
	}

	camera.updateProjectionMatrix = false
	camera.cachedProjectionMatrix = NewProjectionPerspective(camera.fieldOfView, camera.near, camera.far, float64(camera.width), float64(camera.height))

	return camera.cachedProjectionMatrix

}

// ViewProjection returns the Camera's view matrix multiplied by its projection matrix, transforming world positions to clip space.
func (camera *Camera) ViewProjection() Matrix4 {
	return camera.ViewMatrix().Mult(camera.Projection())
}

// SetFieldOfView sets the vertical field of view of the camera in degrees.
func (camera *Camera) SetFieldOfView(fovY float64) {
	if camera.fieldOfView == fovY {
		return
	}
	camera.fieldOfView = fovY
	camera.updateProjectionMatrix = true
}

// FieldOfView returns the vertical field of view in degrees.
func (camera *Camera) FieldOfView() float64 {
	return camera.fieldOfView
}

// Near returns the near plane of a camera.
func (camera *Camera) Near() float64 {
	return camera.near
}

// Forward returns the direction the Camera is looking in world space.
func (camera *Camera) Forward() Vector {
	return camera.WorldRotation().Forward().Invert()
}

// LookAt rotates the Camera so that it faces the target world position, keeping the world's +Y axis upwards.
func (camera *Camera) LookAt(target Vector) {
	// Cameras look down -Z, so the look-at matrix's +Z has to point from the target back to the camera.
	camera.SetWorldRotation(NewLookAtMatrix(target, camera.WorldPosition(), WorldUp))
}

// WorldToClip transforms a 3D position in the world to clip coordinates (before screen normalization). The W component
// of the result is the point's depth in front of the camera.
func (camera *Camera) WorldToClip(vert Vector) Vector {
	return camera.Projection().MultVecW(camera.ViewMatrix().MultVec(vert))
}

// ClipToScreen remaps a clip-space vertex to screen pixel coordinates. The Z coordinate is set to the depth (clip W).
func (camera *Camera) ClipToScreen(vert Vector) Vector {

	w := vert.W
	if w == 0 {
		w = 1e-8
	}

	width, height := float64(camera.width), float64(camera.height)

	return Vector{
		X: (vert.X/w*0.5 + 0.5) * width,
		Y: (-vert.Y/w*0.5 + 0.5) * height,
		Z: vert.W,
	}

}

// WorldToScreenPixels transforms a 3D position in the world to a position onscreen, with X and Y representing the pixels.
// The Z coordinate indicates depth away from the camera in 3D world units; points behind the camera have a negative Z.
func (camera *Camera) WorldToScreenPixels(vert Vector) Vector {
	return camera.ClipToScreen(camera.WorldToClip(vert))
}

// PointInFront returns true if the world position given lies in front of the Camera's near plane.
func (camera *Camera) PointInFront(point Vector) bool {
	return camera.ViewMatrix().MultVec(point).Z < -camera.near
}

func (camera *Camera) screenDirection(x, y float64) Vector {

	ndcX := x/float64(camera.width)*2 - 1
	ndcY := 1 - y/float64(camera.height)*2

	tan := math.Tan(camera.fieldOfView * math.Pi / 360)

	dir := NewVector(ndcX*tan*camera.AspectRatio(), ndcY*tan, -1)

	return camera.WorldRotation().MultDirection(dir).Unit()

}

// ScreenRay returns the start and end points of a ray cast from the camera through the pixel at x and y on screen, running
// to the far plane. The result can be passed straight to RayTestOptions (e.g. for picking).
func (camera *Camera) ScreenRay(x, y float64) (from, to Vector) {
	from = camera.WorldPosition()
	to = from.Add(camera.screenDirection(x, y).Scale(camera.far))
	return from, to
}

// AddChildren parents the provided children Nodes to the passed parent Node, inheriting its transformations and being under it in the scenegraph
// hierarchy. If the children are already parented to other Nodes, they are unparented before doing so.
func (camera *Camera) AddChildren(children ...INode) {
	camera.addChildren(camera, children...)
}

// Unparent unparents the Camera from its parent, removing it from the scenegraph.
func (camera *Camera) Unparent() {
	if camera.parent != nil {
		camera.parent.RemoveChildren(camera)
	}
}

// Type returns the NodeType for this object.
func (camera *Camera) Type() NodeType {
	return NodeTypeCamera
}
