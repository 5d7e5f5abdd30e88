package orrery

import (
	"errors"
	"fmt"
)

// Renderer draws a Scene from the viewpoint of a Camera.
type Renderer interface {
	Render(scene *Scene, camera *Camera)
}

// LabelRenderer draws the Labels of a LabelLayer over whatever the Renderer drew.
type LabelRenderer interface {
	RenderLabels(layer *LabelLayer, camera *Camera)
}

// Driver runs one frame of the viewer at a time: it attaches loaded bodies, advances the camera approach, applies user orbit
// input once the camera has arrived, and then hands the Scene to the Renderer, followed by the Labels to the LabelRenderer.
type Driver struct {
	Session    *Session
	Camera     *Camera
	Controller *ApproachController
	Controls   *OrbitControls
	BodyID     string // The identifier of the body the camera approaches.

	Renderer      Renderer      // Optional.
	LabelRenderer LabelRenderer // Optional.
	Metrics       *Metrics      // Optional.

	followed     *CelestialBody
	followedFrom Vector
}

// NewDriver creates a new Driver. The controller is given the Driver's OrbitControls, which orbit around the body and start with
// rotation disabled until the camera arrives, and the Session's Scene to test visibility against.
func NewDriver(session *Session, camera *Camera, controller *ApproachController, bodyID string) *Driver {

	controls := NewOrbitControls(NewVectorZero())
	controls.EnableRotate = false

	controller.Controls = controls
	controller.Scene = session.Scene

	return &Driver{
		Session:    session,
		Camera:     camera,
		Controller: controller,
		Controls:   controls,
		BodyID:     bodyID,
		Metrics:    session.Metrics,
	}

}

// Frame runs a single frame, dt seconds after the last one. Until the body is ready, the scene is still drawn (so a
// loading screen can show through the Renderer), but the camera doesn't move. Errors other than the body not being ready
// yet (a failed load, an unknown body) are returned.
func (driver *Driver) Frame(dt float64) error {

	driver.Session.Poll()

	body, err := driver.Session.Body(driver.BodyID)

	if err != nil && !errors.Is(err, ErrBodyNotReady) {
		return fmt.Errorf("orrery: frame: %w", err)
	}

	if body != nil {

		// User input moves the camera before Advance() so that labels are evaluated against the final pose.
		if driver.Controller.State() == Arrived {
			driver.follow(body)
			driver.Controls.Update(driver.Camera)
		}

		driver.Controller.Advance(driver.Camera, body)

	}

	driver.Session.Labels.Update(dt)

	if driver.Renderer != nil {
		driver.Renderer.Render(driver.Session.Scene, driver.Camera)
	}

	if driver.LabelRenderer != nil {
		driver.LabelRenderer.RenderLabels(driver.Session.Labels, driver.Camera)
	}

	driver.Metrics.observeFrame(driver.Controller.State())
	if body != nil && driver.Controller.State() == Arrived {
		driver.Metrics.observeVisibility(driver.BodyID, driver.Controller.LastVisibility())
	}

	return nil

}

// follow centers the OrbitControls on the body the first time it's orbited. After that, the target only moves as far as the
// body does, so a pan offset survives.
func (driver *Driver) follow(body *CelestialBody) {

	position := body.WorldPosition()

	if driver.followed != body {
		driver.followed = body
		driver.Controls.Target = position
	} else {
		driver.Controls.Target = driver.Controls.Target.Add(position.Sub(driver.followedFrom))
	}

	driver.followedFrom = position

}
