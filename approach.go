package orrery

import (
	"fmt"
	"log/slog"
)

// ApproachState is the state of an ApproachController.
type ApproachState int

const (
	Approaching ApproachState = iota // The camera is flying towards the target.
	Arrived                          // The camera has reached the target; this state is final.
)

func (state ApproachState) String() string {
	switch state {
	case Approaching:
		return "approaching"
	case Arrived:
		return "arrived"
	}
	return fmt.Sprintf("ApproachState(%d)", int(state))
}

// ApproachController flies a Camera from wherever it starts towards a fixed target point, a fixed distance each frame.
// Once the camera comes within ArrivalThreshold of the target, the controller switches to Arrived for good: it enables
// rotation on its OrbitControls, calls OnArrive, and from then on only evaluates label visibility.
type ApproachController struct {
	Target           Vector  // The world position the camera flies towards.
	Speed            float64 // How far the camera moves each frame, in world units.
	ArrivalThreshold float64 // How close to the target the camera needs to be to arrive.
	SpinSpeed        float64 // How far the body spins around its vertical axis each approaching frame, in radians.

	Controls   *OrbitControls       // Controls that receive rotation on arrival. Optional.
	Visibility *VisibilityEvaluator // Evaluates label visibility every arrived frame. Optional.
	Scene      *Scene               // The Scene ray-count visibility tests against. Optional.

	// OnArrive is called once, on the frame the camera arrives.
	OnArrive func(camera *Camera, body *CelestialBody)

	state          ApproachState
	frames         int
	lastVisibility VisibilityStats
}

// NewApproachController returns a new ApproachController flying towards the target given. speed and threshold must both be
// greater than 0.
func NewApproachController(target Vector, speed, threshold float64) (*ApproachController, error) {

	if !(speed > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSpeed, speed)
	}

	if !(threshold > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}

	return &ApproachController{
		Target:           target,
		Speed:            speed,
		ArrivalThreshold: threshold,
		Visibility:       NewVisibilityEvaluator(VisibilityNormal),
	}, nil

}

// State returns the controller's current state.
func (ac *ApproachController) State() ApproachState {
	return ac.state
}

// Frames returns the number of frames the controller spent approaching.
func (ac *ApproachController) Frames() int {
	return ac.frames
}

// LastVisibility returns the result of the most recent visibility evaluation.
func (ac *ApproachController) LastVisibility() VisibilityStats {
	return ac.lastVisibility
}

// Advance moves the controller forward by one frame, returning the resulting state. While approaching, the camera is turned
// to face the target and moved towards it by Speed (without overshooting); the controller arrives on the same frame the
// camera comes within ArrivalThreshold of the target. While arrived, the camera is left alone and the body's labels are
// re-evaluated. If Speed or ArrivalThreshold have been set to values that aren't greater than 0, nothing happens.
func (ac *ApproachController) Advance(camera *Camera, body *CelestialBody) ApproachState {

	if ac.state == Approaching {

		if !(ac.Speed > 0) || !(ac.ArrivalThreshold > 0) {
			return ac.state
		}

		ac.frames++

		position := camera.WorldPosition()
		dist := position.Distance(ac.Target)

		if dist >= ac.ArrivalThreshold {

			camera.LookAt(ac.Target)

			step := min(ac.Speed, dist)
			camera.SetWorldPositionVec(position.Add(ac.Target.Sub(position).Unit().Scale(step)))

			if body != nil {
				body.Spin(ac.SpinSpeed)
			}

			dist = camera.WorldPosition().Distance(ac.Target)

		}

		if dist < ac.ArrivalThreshold {
			ac.arrive(camera, body, dist)
		}

	}

	if ac.state == Arrived && ac.Visibility != nil && body != nil {
		ac.lastVisibility = ac.Visibility.Update(body, camera, ac.Scene)
	}

	return ac.state

}

// Skip ends the approach immediately, wherever the camera is. It does nothing if the controller has already arrived.
func (ac *ApproachController) Skip(camera *Camera, body *CelestialBody) {
	if ac.state == Arrived {
		return
	}
	ac.arrive(camera, body, camera.WorldPosition().Distance(ac.Target))
}

func (ac *ApproachController) arrive(camera *Camera, body *CelestialBody, dist float64) {

	ac.state = Arrived

	if ac.Controls != nil {
		ac.Controls.EnableRotate = true
	}

	name := ""
	if body != nil {
		name = body.Name()
	}

	Logger().Info("approach arrived",
		slog.String("body", name),
		slog.Int("frames", ac.frames),
		slog.Float64("distance", dist),
	)

	if ac.OnArrive != nil {
		ac.OnArrive(camera, body)
	}

}
