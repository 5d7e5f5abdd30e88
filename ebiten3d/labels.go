package ebiten3d

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/solarlune/orrery"
)

var pixelImg *ebiten.Image

func init() {
	pixelImg = ebiten.NewImage(1, 1)
	pixelImg.Fill(color.White)
}

// LabelDrawer draws the Labels of a LabelLayer as text over a translucent backing box. Like Renderer, RenderLabels() lays the
// Labels out during Update(), and Draw() draws them during Draw().
type LabelDrawer struct {
	// Background is the color of the box behind each Label; its alpha is multiplied by the Label's. A zero alpha draws no box.
	Background orrery.Color

	placements []orrery.LabelPlacement
	layer      *orrery.LabelLayer
}

// NewLabelDrawer returns a new LabelDrawer with a dark backing box.
func NewLabelDrawer() *LabelDrawer {
	return &LabelDrawer{
		Background: orrery.NewColor(0, 0, 0, 0.6),
	}
}

// RenderLabels lays out the layer's Labels for the Camera given.
func (ld *LabelDrawer) RenderLabels(layer *orrery.LabelLayer, camera *orrery.Camera) {
	ld.layer = layer
	ld.placements = layer.Layout(camera)
}

// Placements returns the Labels laid out by the last call to RenderLabels(), back to front.
func (ld *LabelDrawer) Placements() []orrery.LabelPlacement {
	return ld.placements
}

// Draw draws the Labels laid out by the last call to RenderLabels() onto the screen.
func (ld *LabelDrawer) Draw(screen *ebiten.Image) {

	if ld.layer == nil {
		return
	}

	for _, p := range ld.placements {

		if ld.Background.A > 0 {
			opt := &ebiten.DrawImageOptions{}
			opt.GeoM.Scale(float64(p.Bounds.Dx()), float64(p.Bounds.Dy()))
			opt.GeoM.Translate(float64(p.Bounds.Min.X), float64(p.Bounds.Min.Y))
			opt.ColorScale.ScaleWithColor(ld.Background.ToNRGBA())
			opt.ColorScale.ScaleAlpha(p.Alpha)
			screen.DrawImage(pixelImg, opt)
		}

		clr := p.Label.Color
		clr.A *= p.Alpha

		text.Draw(screen, p.Label.Text, ld.layer.Face, p.Origin.X, p.Origin.Y, clr.ToNRGBA())

	}

}
