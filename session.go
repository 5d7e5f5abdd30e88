package orrery

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// BodyStatus is the loading status of a body in a Session.
type BodyStatus int

const (
	BodyLoading BodyStatus = iota // The body's assets are loading.
	BodyReady                     // The body is in the Scene and can be used.
	BodyFailed                    // The body's assets failed to load.
)

func (status BodyStatus) String() string {
	switch status {
	case BodyLoading:
		return "loading"
	case BodyReady:
		return "ready"
	case BodyFailed:
		return "failed"
	}
	return fmt.Sprintf("BodyStatus(%d)", int(status))
}

type pendingLocation struct {
	name     string
	lat, lon float64
	options  *LocationOptions
}

type bodySlot struct {
	id       string
	status   BodyStatus
	started  time.Time
	done     chan struct{}
	finished bool // Set by the loading goroutine once model / ringTexture / err are filled in.

	model       *Model
	ringTexture image.Image
	err         error

	body    *CelestialBody
	pending []pendingLocation
}

// Session ties a Scene to the bodies loaded into it and the Labels drawn over it. Bodies load in the background through the
// Session's BodyLoader, but are only ever added to the Scene by Poll(), which should be called from the same goroutine that
// updates and draws the Scene (e.g. at the start of each frame).
type Session struct {
	Scene   *Scene
	Labels  *LabelLayer
	Loader  BodyLoader
	Metrics *Metrics // Optional.

	// LabelOffset overrides CelestialBody.LabelOffset on bodies the Session creates, if greater than 0.
	LabelOffset float64

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	slots  map[string]*bodySlot
	order  []string
	closed bool
}

// NewSession creates a new Session loading bodies into the Scene given through the BodyLoader given.
func NewSession(scene *Scene, loader BodyLoader) *Session {

	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		Scene:  scene,
		Labels: NewLabelLayer(),
		Loader: loader,
		ctx:    ctx,
		cancel: cancel,
		slots:  map[string]*bodySlot{},
	}

}

// Load starts loading the body with the identifier given in the background. Loading a body that's already loading (or loaded)
// does nothing. Use Poll() to add finished bodies to the Scene.
func (session *Session) Load(id string) error {

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return ErrClosed
	}

	if _, exists := session.slots[id]; exists {
		return nil
	}

	slot := &bodySlot{
		id:      id,
		status:  BodyLoading,
		started: time.Now(),
		done:    make(chan struct{}),
	}

	session.slots[id] = slot
	session.order = append(session.order, id)

	Logger().Info("body load started", slog.String("body", id))

	go session.load(slot)

	return nil

}

func (session *Session) load(slot *bodySlot) {

	defer close(slot.done)

	model, err := session.Loader.LoadBody(session.ctx, slot.id)
	if err == nil && model == nil {
		err = fmt.Errorf("%w: %q", ErrNoMesh, slot.id)
	}

	var ringTexture image.Image

	if preset, ok := FindPlanet(slot.id); err == nil && ok && preset.Ring != nil && preset.Ring.TexturePath != "" {
		if textureLoader, ok := session.Loader.(TextureLoader); ok {
			tex, texErr := textureLoader.LoadTexture(session.ctx, preset.Ring.TexturePath)
			if texErr != nil {
				Logger().Warn("ring texture unavailable", slog.String("body", slot.id), slog.Any("error", texErr))
			}
			ringTexture = tex
		}
	}

	session.mu.Lock()
	slot.model = model
	slot.ringTexture = ringTexture
	slot.err = err
	slot.finished = true
	session.mu.Unlock()

}

// Poll adds any bodies that have finished loading to the Scene, registering any Locations queued for them, and records bodies
// that failed to load. It returns the bodies that became ready.
func (session *Session) Poll() []*CelestialBody {

	session.mu.Lock()

	var finished []*bodySlot

	for _, id := range session.order {
		slot := session.slots[id]
		if slot.status == BodyLoading && slot.finished {
			finished = append(finished, slot)
		}
	}

	session.mu.Unlock()

	var ready []*CelestialBody

	for _, slot := range finished {

		took := time.Since(slot.started)
		session.Metrics.observeLoad(slot.id, took, slot.err)

		if slot.err != nil {
			session.mu.Lock()
			slot.status = BodyFailed
			session.mu.Unlock()
			Logger().Error("body load failed", slog.String("body", slot.id), slog.Any("error", slot.err))
			continue
		}

		body := session.compose(slot)

		session.mu.Lock()
		slot.body = body
		slot.status = BodyReady
		pending := slot.pending
		slot.pending = nil
		session.mu.Unlock()

		for _, p := range pending {
			body.AddLocation(p.name, p.lat, p.lon, p.options)
		}

		Logger().Info("body ready",
			slog.String("body", slot.id),
			slog.Duration("took", took),
			slog.Int("locations", len(pending)),
		)

		ready = append(ready, body)

	}

	return ready

}

// compose builds the CelestialBody for a finished slot and adds it to the Scene.
func (session *Session) compose(slot *bodySlot) *CelestialBody {

	preset, isPreset := FindPlanet(slot.id)

	radius := 0.0
	if slot.model.Mesh != nil {
		radius = slot.model.Mesh.Radius()
	}
	if isPreset {
		radius = preset.Radius
	}

	body := NewCelestialBody(slot.id, slot.model, radius, session.Labels)

	if session.LabelOffset > 0 {
		body.LabelOffset = session.LabelOffset
	}

	if isPreset {

		if slot.model.Mesh != nil {
			for _, part := range slot.model.Mesh.MeshParts {
				if part.Material != nil {
					part.Material.Highlight = preset.Highlight
				}
			}
		}

		if preset.AtmosphereRadius > 0 {
			body.SetAtmosphere(preset.AtmosphereRadius, preset.AtmosphereColor)
		}

		if ring := preset.Ring; ring != nil {
			var mat *Material
			if slot.ringTexture != nil {
				mat = NewMaterial(slot.id + ".ring")
				mat.Texture = slot.ringTexture
				mat.TexturePath = ring.TexturePath
				mat.FaceCulling = CullNone
				mat.Shadeless = true
			}
			body.AddRing(ring.InnerRadius, ring.OuterRadius, ring.Segments, ring.Tilt, mat)
		}

	}

	session.Scene.Add(body)

	return body

}

// Wait blocks until every body that's currently loading has finished (or the context is done), and then calls Poll(). Like Poll(),
// it should be called from the goroutine that owns the Scene. The first load error encountered is returned.
func (session *Session) Wait(ctx context.Context) error {

	session.mu.Lock()
	var slots []*bodySlot
	for _, id := range session.order {
		if slot := session.slots[id]; slot.status == BodyLoading {
			slots = append(slots, slot)
		}
	}
	session.mu.Unlock()

	group, groupCtx := errgroup.WithContext(ctx)

	for _, slot := range slots {
		group.Go(func() error {
			select {
			case <-slot.done:
				return nil
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	session.Poll()

	for _, slot := range slots {
		if slot.err != nil {
			return fmt.Errorf("orrery: body %q: %w", slot.id, slot.err)
		}
	}

	return nil

}

// Status returns the loading status of the body with the identifier given. ErrBodyNotFound is returned if the body was never loaded.
func (session *Session) Status(id string) (BodyStatus, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	slot, ok := session.slots[id]
	if !ok {
		return BodyLoading, fmt.Errorf("%w: %q", ErrBodyNotFound, id)
	}
	return slot.status, nil
}

// Body returns the body with the identifier given once it's ready. ErrBodyNotFound is returned if it was never loaded, ErrBodyNotReady
// if it's still loading (or has finished but hasn't been polled yet), and the load error if loading failed.
func (session *Session) Body(id string) (*CelestialBody, error) {

	session.mu.Lock()
	defer session.mu.Unlock()

	slot, ok := session.slots[id]

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBodyNotFound, id)
	}

	switch slot.status {
	case BodyLoading:
		return nil, fmt.Errorf("%w: %q", ErrBodyNotReady, id)
	case BodyFailed:
		return nil, fmt.Errorf("orrery: body %q failed to load: %w", id, slot.err)
	}

	return slot.body, nil

}

// AddLocation registers a Location on the body with the identifier given. The body has to be ready; see Body() for the errors returned
// otherwise.
func (session *Session) AddLocation(id, name string, latDeg, lonDeg float64, options *LocationOptions) (*Location, error) {
	body, err := session.Body(id)
	if err != nil {
		return nil, err
	}
	return body.AddLocation(name, latDeg, lonDeg, options), nil
}

// QueueLocation registers a Location on the body with the identifier given as soon as it's ready; if it's ready already, the
// Location is registered immediately. ErrBodyNotFound is returned if the body was never loaded.
func (session *Session) QueueLocation(id, name string, latDeg, lonDeg float64, options *LocationOptions) error {

	session.mu.Lock()

	slot, ok := session.slots[id]

	if !ok {
		session.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrBodyNotFound, id)
	}

	switch slot.status {
	case BodyLoading:
		slot.pending = append(slot.pending, pendingLocation{name: name, lat: latDeg, lon: lonDeg, options: options})
		session.mu.Unlock()
		return nil
	case BodyFailed:
		session.mu.Unlock()
		return fmt.Errorf("orrery: body %q failed to load: %w", id, slot.err)
	}

	body := slot.body
	session.mu.Unlock()

	body.AddLocation(name, latDeg, lonDeg, options)

	return nil

}

// Close cancels any loads in progress, removes every body (and its Labels) from the Scene, and clears the LabelLayer. The Session
// can't be used to load bodies afterwards.
func (session *Session) Close() {

	session.mu.Lock()

	if session.closed {
		session.mu.Unlock()
		return
	}

	session.closed = true
	session.cancel()

	var bodies []*CelestialBody
	for _, id := range session.order {
		if slot := session.slots[id]; slot.body != nil {
			bodies = append(bodies, slot.body)
		}
	}

	session.slots = map[string]*bodySlot{}
	session.order = nil

	session.mu.Unlock()

	for _, body := range bodies {
		body.Destroy()
	}

	session.Labels.Clear()

}
