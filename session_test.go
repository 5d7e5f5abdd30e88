package orrery

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// stubLoader hands out small generated spheres. If release is set, loads block until it's closed.
type stubLoader struct {
	release chan struct{}
	fail    map[string]error
	calls   atomic.Int32
}

func (s *stubLoader) LoadBody(ctx context.Context, id string) (*Model, error) {

	s.calls.Add(1)

	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := s.fail[id]; err != nil {
		return nil, err
	}

	return NewModel(NewSphereMesh(id, 1, 8, 12), id), nil

}

type texturedStubLoader struct {
	*stubLoader
	textures atomic.Int32
}

func (s *texturedStubLoader) LoadTexture(ctx context.Context, path string) (image.Image, error) {
	s.textures.Add(1)
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func waitSession(t *testing.T, session *Session) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return session.Wait(ctx)
}

func TestSessionBodyLifecycle(t *testing.T) {

	loader := &stubLoader{release: make(chan struct{})}
	session := NewSession(NewScene("test"), loader)
	defer session.Close()

	_, err := session.Body("Mars")
	assert.ErrorIs(t, err, ErrBodyNotFound)

	_, err = session.Status("Mars")
	assert.ErrorIs(t, err, ErrBodyNotFound)

	require.NoError(t, session.Load("Mars"))

	_, err = session.Body("Mars")
	assert.ErrorIs(t, err, ErrBodyNotReady)

	_, err = session.AddLocation("Mars", "Olympus Mons", 18.65, -133.8, nil)
	assert.ErrorIs(t, err, ErrBodyNotReady)

	status, err := session.Status("Mars")
	require.NoError(t, err)
	assert.Equal(t, BodyLoading, status)

	// Nothing's finished, so polling doesn't add anything.
	assert.Empty(t, session.Poll())
	assert.Empty(t, session.Scene.Root.Children())

	close(loader.release)
	require.NoError(t, waitSession(t, session))

	body, err := session.Body("Mars")
	require.NoError(t, err)

	status, _ = session.Status("Mars")
	assert.Equal(t, BodyReady, status)
	assert.Same(t, session.Scene.Root, body.Parent())
	assert.Equal(t, 3.2, body.Radius())
	assert.Same(t, session.Labels, body.Labels())

	loc, err := session.AddLocation("Mars", "Olympus Mons", 18.65, -133.8, nil)
	require.NoError(t, err)
	assert.InDelta(t, 3.2, loc.Anchor().Magnitude(), 1e-9)
	assert.Equal(t, 1, session.Labels.Len())

}

func TestSessionQueuedLocations(t *testing.T) {

	loader := &stubLoader{release: make(chan struct{})}
	session := NewSession(NewScene("test"), loader)
	session.LabelOffset = 0.3
	defer session.Close()

	assert.ErrorIs(t, session.QueueLocation("Mars", "Early", 0, 0, nil), ErrBodyNotFound)

	require.NoError(t, session.Load("Mars"))
	require.NoError(t, session.QueueLocation("Mars", "London", 51.5072, 0.1276, nil))
	require.NoError(t, session.QueueLocation("Mars", "London", 51.5072, 0.1276, nil))

	assert.Zero(t, session.Labels.Len())

	close(loader.release)
	require.NoError(t, waitSession(t, session))

	body, err := session.Body("Mars")
	require.NoError(t, err)

	require.Len(t, body.Locations(), 2)
	assert.Equal(t, 2, session.Labels.Len())
	assert.Equal(t, 0.3, body.LabelOffset)

	// Once the body is ready, queued Locations are added straight away.
	require.NoError(t, session.QueueLocation("Mars", "Paris", 48.8566, 2.3522, nil))
	assert.Len(t, body.Locations(), 3)

}

func TestSessionPresetComposition(t *testing.T) {

	loader := &texturedStubLoader{stubLoader: &stubLoader{}}
	session := NewSession(NewScene("test"), loader)
	defer session.Close()

	require.NoError(t, session.Load("Mars"))
	require.NoError(t, session.Load("Saturn"))
	require.NoError(t, session.Load("Phobos"))
	require.NoError(t, waitSession(t, session))

	mars, err := session.Body("Mars")
	require.NoError(t, err)

	require.NotNil(t, mars.Atmosphere)
	assert.InDelta(t, 5.4, mars.Atmosphere.LocalScale().X, 1e-9)
	assert.Empty(t, mars.Rings)
	assert.Equal(t, NewColor(0.85, 0.1, 0.1, 1), mars.Surface.Mesh.MeshParts[0].Material.Highlight)

	saturn, err := session.Body("Saturn")
	require.NoError(t, err)

	require.Len(t, saturn.Rings, 1)
	ringMat := saturn.Rings[0].Mesh.MeshParts[0].Material
	assert.NotNil(t, ringMat.Texture)
	assert.Equal(t, CullNone, ringMat.FaceCulling)
	assert.Equal(t, int32(1), loader.textures.Load())

	// Bodies without a preset keep the size of their model.
	phobos, err := session.Body("Phobos")
	require.NoError(t, err)

	assert.Nil(t, phobos.Atmosphere)
	assert.InDelta(t, 1, phobos.Radius(), 1e-9)

	assert.Len(t, session.Scene.Root.Children(), 3)

}

func TestSessionLoadFailure(t *testing.T) {

	reg := prometheus.NewRegistry()

	loader := &stubLoader{fail: map[string]error{"Mars": errBoom}}
	session := NewSession(NewScene("test"), loader)
	session.Metrics = NewMetrics(reg)
	defer session.Close()

	require.NoError(t, session.Load("Mars"))
	require.NoError(t, session.QueueLocation("Mars", "London", 51.5072, 0.1276, nil))

	err := waitSession(t, session)
	assert.ErrorIs(t, err, errBoom)

	status, _ := session.Status("Mars")
	assert.Equal(t, BodyFailed, status)
	assert.Equal(t, "failed", status.String())

	_, err = session.Body("Mars")
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, ErrBodyNotReady)

	assert.ErrorIs(t, session.QueueLocation("Mars", "Paris", 48.8566, 2.3522, nil), errBoom)

	assert.Empty(t, session.Scene.Root.Children())
	assert.Equal(t, 1.0, testutil.ToFloat64(session.Metrics.BodyLoadFailures.WithLabelValues("Mars")))
	assert.Zero(t, testutil.CollectAndCount(session.Metrics.BodyLoadSeconds))

}

func TestSessionDuplicateLoad(t *testing.T) {

	loader := &stubLoader{release: make(chan struct{})}
	session := NewSession(NewScene("test"), loader)
	session.Metrics = NewMetrics(nil)
	defer session.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, session.Load("Mars"))
	}

	close(loader.release)
	require.NoError(t, waitSession(t, session))

	// Loading again once the body's ready does nothing, too.
	require.NoError(t, session.Load("Mars"))
	session.Poll()

	assert.Equal(t, int32(1), loader.calls.Load())
	assert.Len(t, session.Scene.Root.Children(), 1)
	assert.Equal(t, 1, testutil.CollectAndCount(session.Metrics.BodyLoadSeconds))

}

func TestSessionWaitTimeout(t *testing.T) {

	loader := &stubLoader{release: make(chan struct{})}
	session := NewSession(NewScene("test"), loader)
	defer session.Close()

	require.NoError(t, session.Load("Mars"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, session.Wait(ctx), context.DeadlineExceeded)

	_, err := session.Body("Mars")
	assert.ErrorIs(t, err, ErrBodyNotReady)

}

func TestSessionClose(t *testing.T) {

	session := NewSession(NewScene("test"), &stubLoader{})

	require.NoError(t, session.Load("Mars"))
	require.NoError(t, session.QueueLocation("Mars", "London", 51.5072, 0.1276, nil))
	require.NoError(t, waitSession(t, session))

	body, err := session.Body("Mars")
	require.NoError(t, err)
	require.Equal(t, 1, session.Labels.Len())

	session.Close()
	session.Close()

	assert.Nil(t, body.Parent())
	assert.Empty(t, body.Locations())
	assert.Zero(t, session.Labels.Len())
	assert.Empty(t, session.Scene.Root.Children())

	assert.ErrorIs(t, session.Load("Mars"), ErrClosed)

	_, err = session.Body("Mars")
	assert.ErrorIs(t, err, ErrBodyNotFound)

}

func TestSessionCloseCancelsLoads(t *testing.T) {

	loader := &stubLoader{release: make(chan struct{})}
	session := NewSession(NewScene("test"), loader)

	require.NoError(t, session.Load("Mars"))

	session.mu.Lock()
	slot := session.slots["Mars"]
	session.mu.Unlock()

	session.Close()

	select {
	case <-slot.done:
	case <-time.After(5 * time.Second):
		t.Fatal("closing the session should cancel the load in progress")
	}

	assert.ErrorIs(t, slot.err, context.Canceled)

}

type emptyLoader struct{}

func (emptyLoader) LoadBody(ctx context.Context, id string) (*Model, error) {
	return nil, nil
}

func TestSessionLoaderReturnsNothing(t *testing.T) {

	session := NewSession(NewScene("test"), emptyLoader{})
	defer session.Close()

	require.NoError(t, session.Load("Mars"))
	assert.ErrorIs(t, waitSession(t, session), ErrNoMesh)

	assert.NotPanics(t, func() { session.Poll() })

	status, _ := session.Status("Mars")
	assert.Equal(t, BodyFailed, status)

	_, err := session.Body("Mars")
	assert.ErrorIs(t, err, ErrNoMesh)
	assert.Empty(t, session.Scene.Root.Children())

}
