// Package overlay draws the post title onto each frame: a translucent black
// box centred vertically, with the wrapped title in white and a black
// outline.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/backmassage/reelsmith/internal/media"
)

// Options controls the box and text layout. Ratios are of the image width.
type Options struct {
	WrapRatio   float64 // max text line width
	BoxRatio    float64 // box width
	LineGap     int     // added to the height of "A"
	Padding     int     // inside the box, above the first line and below the last
	BoxAlpha    uint8
	StrokeWidth int
}

// DefaultOptions matches the production look.
func DefaultOptions() Options {
	return Options{
		WrapRatio:   0.8,
		BoxRatio:    0.86,
		LineGap:     10,
		Padding:     20,
		BoxAlpha:    153,
		StrokeWidth: 2,
	}
}

// Wrap splits text on whitespace into lines no wider than maxWidth pixels.
// A single word wider than maxWidth gets a line of its own.
func Wrap(face font.Face, text string, maxWidth int) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		test := word
		if current != "" {
			test = current + " " + word
		}
		if font.MeasureString(face, test).Ceil() <= maxWidth {
			current = test
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// LineHeight is the height of glyph "A" plus gap.
func LineHeight(face font.Face, gap int) int {
	b, _ := font.BoundString(face, "A")
	return (b.Max.Y - b.Min.Y).Ceil() + gap
}

// DrawTitle returns a copy of src with title drawn over it.
func DrawTitle(src image.Image, title string, face font.Face, opts Options) *image.RGBA {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), src, bounds.Min, draw.Src)

	lines := Wrap(face, title, int(float64(width)*opts.WrapRatio))
	lh := LineHeight(face, opts.LineGap)

	boxW := int(float64(width) * opts.BoxRatio)
	boxH := len(lines)*lh + 2*opts.Padding
	boxX := (width - boxW) / 2
	boxY := (height - boxH) / 2
	shade := image.NewUniform(color.NRGBA{A: opts.BoxAlpha})
	draw.Draw(canvas, image.Rect(boxX, boxY, boxX+boxW, boxY+boxH), shade, image.Point{}, draw.Over)

	ascent := face.Metrics().Ascent
	y := boxY + opts.Padding
	for _, line := range lines {
		w := font.MeasureString(face, line).Ceil()
		x := (width - w) / 2
		dot := fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + ascent}
		drawStroked(canvas, face, line, dot, opts.StrokeWidth)
		y += lh
	}
	return canvas
}

// drawStroked draws s in black at every offset within radius, then in white
// on top.
func drawStroked(dst draw.Image, face font.Face, s string, dot fixed.Point26_6, radius int) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 || dx*dx+dy*dy > radius*radius {
				continue
			}
			d.Dot = fixed.Point26_6{X: dot.X + fixed.I(dx), Y: dot.Y + fixed.I(dy)}
			d.DrawString(s)
		}
	}
	d.Src = image.White
	d.Dot = dot
	d.DrawString(s)
}

// OutputName is the annotated file name for the image at idx.
func OutputName(idx int) string {
	return fmt.Sprintf("img_with_text_%d.jpg", idx)
}

// Annotate draws title on the image at srcPath and writes it to dstPath.
func Annotate(srcPath, dstPath, title string, face font.Face, opts Options) error {
	img, err := media.LoadImage(srcPath)
	if err != nil {
		return err
	}
	return media.SaveJPEG(dstPath, DrawTitle(img, title, face, opts))
}

// Logger is the logging surface AnnotateAll needs.
type Logger interface {
	Warn(string, ...interface{})
}

// AnnotateAll annotates every image into dir. An image that cannot be
// annotated is used as-is. The result has one path per input, in order.
func AnnotateAll(paths []string, title, dir string, face font.Face, opts Options, log Logger) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		dst := filepath.Join(dir, OutputName(i))
		if err := Annotate(p, dst, title, face, opts); err != nil {
			log.Warn("Drawing text on %s: %v", p, err)
			out[i] = p
			continue
		}
		out[i] = dst
	}
	return out
}
