package orrery

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// A Color represents a color, containing R, G, B, and A components, each expected to range from 0 to 1.
type Color struct {
	R, G, B, A float32
}

// NewColor returns a new Color, with the provided R, G, B, and A components expected to range from 0 to 1.
func NewColor(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// NewColorFromStd returns a new Color from a standard library color.Color.
func NewColorFromStd(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return NewColor(float32(r)/math.MaxUint16, float32(g)/math.MaxUint16, float32(b)/math.MaxUint16, float32(a)/math.MaxUint16)
}

// ParseColor parses a color string. It accepts hexadecimal notation ("#rrggbb", "#rrggbbaa", "#rgb"), with or without the
// leading '#', or an SVG / CSS color name (like "red" or "cornflowerblue").
func ParseColor(s string) (Color, error) {

	s = strings.TrimSpace(strings.ToLower(s))

	if named, ok := colornames.Map[s]; ok {
		return NewColorFromStd(named), nil
	}

	hex := strings.TrimPrefix(s, "#")

	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	if len(hex) == 6 {
		hex += "ff"
	}

	if len(hex) != 8 {
		return Color{}, fmt.Errorf("orrery: can't parse color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("orrery: can't parse color %q: %w", s, err)
	}

	return NewColor(
		float32((v>>24)&0xff)/255,
		float32((v>>16)&0xff)/255,
		float32((v>>8)&0xff)/255,
		float32(v&0xff)/255,
	), nil

}

// AddRGB returns a copy of the Color with the value given added to the R, G, and B channels.
func (c Color) AddRGB(value float32) Color {
	c.R += value
	c.G += value
	c.B += value
	return c
}

// Multiply returns a copy of the Color multiplied by the other Color, channel by channel.
func (c Color) Multiply(other Color) Color {
	c.R *= other.R
	c.G *= other.G
	c.B *= other.B
	c.A *= other.A
	return c
}

// MultiplyRGB returns a copy of the Color with the R, G, and B channels multiplied by the value given.
func (c Color) MultiplyRGB(scalar float32) Color {
	c.R *= scalar
	c.G *= scalar
	c.B *= scalar
	return c
}

// Mix returns a copy of the Color, linearly interpolated towards the other Color by the percentage given.
func (c Color) Mix(other Color, percentage float32) Color {
	c.R += (other.R - c.R) * percentage
	c.G += (other.G - c.G) * percentage
	c.B += (other.B - c.B) * percentage
	c.A += (other.A - c.A) * percentage
	return c
}

// Clamp returns a copy of the Color with each channel clamped to the 0 - 1 range.
func (c Color) Clamp() Color {
	clamp := func(v float32) float32 {
		return float32(math.Max(0, math.Min(1, float64(v))))
	}
	return NewColor(clamp(c.R), clamp(c.G), clamp(c.B), clamp(c.A))
}

// IsZero returns true if every channel of the Color is 0 (transparent black), which is treated as "unset".
func (c Color) IsZero() bool {
	return c == Color{}
}

// ToRGBA64 converts a color to a color.RGBA64 instance.
func (c Color) ToRGBA64() color.RGBA64 {
	c = c.Clamp()
	return color.RGBA64{
		uint16(c.R * math.MaxUint16),
		uint16(c.G * math.MaxUint16),
		uint16(c.B * math.MaxUint16),
		uint16(c.A * math.MaxUint16),
	}
}

// ToNRGBA converts the color to a non-alpha-premultiplied color.NRGBA instance.
func (c Color) ToNRGBA() color.NRGBA {
	c = c.Clamp()
	return color.NRGBA{
		uint8(c.R * 255),
		uint8(c.G * 255),
		uint8(c.B * 255),
		uint8(c.A * 255),
	}
}

// ConvertTosRGB returns a copy of the Color, converted from linear color space to sRGB.
func (c Color) ConvertTosRGB() Color {

	convert := func(v float32) float32 {
		if v <= 0.0031308 {
			return v * 12.92
		}
		return float32(1.055*math.Pow(float64(v), 1/2.4) - 0.055)
	}

	c.R = convert(c.R)
	c.G = convert(c.G)
	c.B = convert(c.B)

	return c

}

// String returns the Color in "#rrggbbaa" notation.
func (c Color) String() string {
	n := c.ToNRGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
