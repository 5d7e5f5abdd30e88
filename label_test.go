package orrery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLabelCamera() *Camera {
	camera := NewCamera(640, 480)
	camera.SetWorldPosition(0, 0, 10)
	camera.LookAt(NewVectorZero())
	return camera
}

func TestLabelFade(t *testing.T) {

	layer := NewLabelLayer()
	label := layer.Add("Olympus Mons", NewNode("anchor"), NewColor(1, 0, 0, 1))

	require.Zero(t, label.DisplayAlpha())

	layer.SetVisible(label, true)
	layer.Update(0.1)

	alpha := label.DisplayAlpha()
	assert.Greater(t, alpha, float32(0))
	assert.Less(t, alpha, float32(1))

	layer.Update(0.2)
	assert.Equal(t, float32(1), label.DisplayAlpha())

	// Further updates hold the alpha where it is.
	layer.Update(1)
	assert.Equal(t, float32(1), label.DisplayAlpha())

	layer.SetVisible(label, false)
	layer.Update(0.1)

	assert.Less(t, label.DisplayAlpha(), float32(1))
	assert.Greater(t, label.DisplayAlpha(), float32(0))

	layer.Update(1)
	assert.Zero(t, label.DisplayAlpha())

}

func TestLabelFadeReversesMidway(t *testing.T) {

	layer := NewLabelLayer()
	label := layer.Add("A", NewNode("anchor"), NewColor(1, 1, 1, 1))

	layer.SetVisible(label, true)
	layer.Update(0.1)
	midway := label.DisplayAlpha()

	// Hiding partway through fades out from the current alpha, rather than jumping.
	layer.SetVisible(label, false)
	layer.Update(0.01)

	assert.Less(t, label.DisplayAlpha(), midway)
	assert.Greater(t, label.DisplayAlpha(), float32(0))

}

func TestLabelSnapWithoutFade(t *testing.T) {

	layer := NewLabelLayer()
	layer.FadeDuration = 0

	label := layer.Add("A", NewNode("anchor"), NewColor(1, 1, 1, 1))

	layer.SetVisible(label, true)
	layer.SetOpacity(label, 0.5)
	layer.Update(0)

	assert.Equal(t, float32(0.5), label.DisplayAlpha())

	layer.SetOpacity(label, 3)
	assert.Equal(t, 1.0, label.Opacity())

	layer.SetVisible(label, false)
	layer.Update(0)

	assert.Zero(t, label.DisplayAlpha())

}

func TestLabelLayout(t *testing.T) {

	layer := NewLabelLayer()
	layer.FadeDuration = 0

	near := NewNode("near")
	near.SetLocalPosition(0, 0, 5)

	far := NewNode("far")

	behind := NewNode("behind")
	behind.SetLocalPosition(0, 0, 20)

	nearLabel := layer.Add("Near", near, NewColor(1, 1, 1, 1))
	farLabel := layer.Add("Far", far, NewColor(1, 1, 1, 1))
	behindLabel := layer.Add("Behind", behind, NewColor(1, 1, 1, 1))
	layer.Add("Hidden", NewNode("hidden"), NewColor(1, 1, 1, 1))

	layer.SetVisible(nearLabel, true)
	layer.SetVisible(farLabel, true)
	layer.SetVisible(behindLabel, true)
	layer.Update(0)

	placements := layer.Layout(newLabelCamera())

	require.Len(t, placements, 2)

	// Back to front.
	assert.Same(t, farLabel, placements[0].Label)
	assert.Same(t, nearLabel, placements[1].Label)
	assert.InDelta(t, 10, placements[0].Depth, 1e-9)
	assert.InDelta(t, 5, placements[1].Depth, 1e-9)

	// Centered horizontally over the anchor, sitting on top of it.
	bounds := placements[0].Bounds
	assert.Equal(t, 240, bounds.Max.Y)
	assert.Equal(t, 320-bounds.Dx()/2, bounds.Min.X)
	assert.Equal(t, layer.Measure("Far").Size(), bounds.Size())
	assert.Equal(t, float32(1), placements[0].Alpha)

}

func TestLabelLayerRemove(t *testing.T) {

	layer := NewLabelLayer()

	a := layer.Add("A", nil, NewColor(1, 1, 1, 1))
	b := layer.Add("B", nil, NewColor(1, 1, 1, 1))
	c := layer.Add("C", nil, NewColor(1, 1, 1, 1))

	layer.Remove(b)
	assert.Equal(t, []*Label{a, c}, layer.Labels())

	layer.Clear()
	assert.Zero(t, layer.Len())

}
