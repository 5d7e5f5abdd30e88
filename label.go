package orrery

import (
	"image"
	"math"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Label is a piece of screen-space text that follows a Node in 3D space. A Label's visibility and opacity are set through
// the LabelLayer that owns it; the displayed alpha then eases towards the result over the layer's FadeDuration.
type Label struct {
	Text   string
	Anchor INode // The Node the Label is drawn at.
	Color  Color // The text color; its alpha is multiplied by the Label's displayed alpha.

	visible bool
	opacity float64

	displayAlpha float32
	fadeTarget   float32
	fade         *gween.Tween
}

// Visible returns whether the Label has been set to be visible.
func (label *Label) Visible() bool {
	return label.visible
}

// Opacity returns the Label's opacity, ranging from 0 to 1.
func (label *Label) Opacity() float64 {
	return label.opacity
}

// DisplayAlpha returns the alpha the Label is currently drawn with. This follows Visible() and Opacity(), but eases over
// time rather than snapping.
func (label *Label) DisplayAlpha() float32 {
	return label.displayAlpha
}

func (label *Label) target() float32 {
	if !label.visible {
		return 0
	}
	return float32(label.opacity)
}

// LabelPlacement is a Label laid out on screen for a specific Camera.
type LabelPlacement struct {
	Label  *Label
	Bounds image.Rectangle // The text's bounding box on screen, in pixels.
	Origin image.Point     // The text's dot (baseline origin) on screen, in pixels.
	Depth  float64         // Distance in front of the camera, in world units.
	Alpha  float32
}

// LabelLayer owns a set of Labels and lays them out over the 3D view.
type LabelLayer struct {
	Face         font.Face // The font face Labels are measured (and drawn) with.
	FadeDuration float64   // How long, in seconds, a Label takes to fade in or out. 0 disables fading.
	Padding      int       // Padding around each Label's text, in pixels.

	labels []*Label
}

// NewLabelLayer returns a new LabelLayer using the basic 7x13 bitmap font face.
func NewLabelLayer() *LabelLayer {
	return &LabelLayer{
		Face:         basicfont.Face7x13,
		FadeDuration: 0.25,
		Padding:      2,
	}
}

// Add creates a new Label anchored to the Node given and adds it to the layer. New Labels are hidden until something sets
// them to be visible.
func (layer *LabelLayer) Add(text string, anchor INode, color Color) *Label {
	label := &Label{
		Text:    text,
		Anchor:  anchor,
		Color:   color,
		opacity: 1,
	}
	layer.labels = append(layer.labels, label)
	return label
}

// Remove removes the given Labels from the layer.
func (layer *LabelLayer) Remove(labels ...*Label) {
	for _, label := range labels {
		for i, l := range layer.labels {
			if l == label {
				layer.labels[i] = nil
				layer.labels = append(layer.labels[:i], layer.labels[i+1:]...)
				break
			}
		}
	}
}

// Clear removes all Labels from the layer.
func (layer *LabelLayer) Clear() {
	layer.labels = nil
}

// Labels returns the Labels in the layer, in the order they were added.
func (layer *LabelLayer) Labels() []*Label {
	return append(make([]*Label, 0, len(layer.labels)), layer.labels...)
}

// Len returns the number of Labels in the layer.
func (layer *LabelLayer) Len() int {
	return len(layer.labels)
}

// SetVisible sets whether the Label is visible.
func (layer *LabelLayer) SetVisible(label *Label, visible bool) {
	label.visible = visible
}

// SetOpacity sets the opacity of the Label, clamped to the 0 - 1 range.
func (layer *LabelLayer) SetOpacity(label *Label, opacity float64) {
	label.opacity = math.Max(0, math.Min(1, opacity))
}

// Update advances each Label's displayed alpha towards its target by dt seconds.
func (layer *LabelLayer) Update(dt float64) {

	for _, label := range layer.labels {

		target := label.target()

		if layer.FadeDuration <= 0 {
			label.displayAlpha = target
			label.fade = nil
			continue
		}

		if target != label.fadeTarget || (label.fade == nil && label.displayAlpha != target) {
			label.fadeTarget = target
			label.fade = gween.New(label.displayAlpha, target, float32(layer.FadeDuration), ease.OutQuad)
		}

		if label.fade != nil {
			alpha, finished := label.fade.Update(float32(dt))
			label.displayAlpha = alpha
			if finished {
				label.displayAlpha = target
				label.fade = nil
			}
		}

	}

}

// Measure returns the size of the text given, as drawn by the layer (including padding).
func (layer *LabelLayer) Measure(text string) image.Rectangle {
	bounds, _ := font.BoundString(layer.Face, text)
	return image.Rect(
		bounds.Min.X.Floor()-layer.Padding,
		bounds.Min.Y.Floor()-layer.Padding,
		bounds.Max.X.Ceil()+layer.Padding,
		bounds.Max.Y.Ceil()+layer.Padding,
	)
}

// Layout places each drawable Label on screen for the Camera given. Labels that are fully transparent, or whose anchors
// are behind the camera, are left out. Each Label is centered horizontally on its anchor, with its bottom edge at the
// anchor. The placements are ordered back to front.
func (layer *LabelLayer) Layout(camera *Camera) []LabelPlacement {

	placements := make([]LabelPlacement, 0, len(layer.labels))

	for _, label := range layer.labels {

		if label.displayAlpha <= 0 || label.Anchor == nil {
			continue
		}

		worldPos := label.Anchor.WorldPosition()

		if !camera.PointInFront(worldPos) {
			continue
		}

		screenPos := camera.WorldToScreenPixels(worldPos)

		size := layer.Measure(label.Text)

		origin := image.Pt(
			int(math.Round(screenPos.X))-size.Dx()/2-size.Min.X,
			int(math.Round(screenPos.Y))-size.Max.Y,
		)

		placements = append(placements, LabelPlacement{
			Label:  label,
			Bounds: size.Add(origin),
			Origin: origin,
			Depth:  screenPos.Z,
			Alpha:  label.displayAlpha,
		})

	}

	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].Depth > placements[j].Depth
	})

	return placements

}
