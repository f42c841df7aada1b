package chart

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/f3rmion/freqtab/internal/freq"
	"github.com/golang/freetype/raster"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var (
	colorBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorAxis       = color.RGBA{0x99, 0x99, 0x99, 0xff}
	colorGrid       = color.RGBA{0xe5, 0xe5, 0xe5, 0xff}
	colorText       = color.RGBA{0x44, 0x44, 0x44, 0xff}
)

const (
	swatchSize = 12
	padding    = 12
)

// drawBar draws vertical bars of the frequencies with a zero-based y axis.
func drawBar(series freq.Series, opts Options) *image.RGBA {
	img := newCanvas(opts.Width, opts.Height, colorBackground)
	face := opts.Face
	lineH := face.Metrics().Height.Ceil()

	// Legend
	top := padding
	top += drawLegend(img, face, []string{"Frequency"}, []color.RGBA{opts.BarColor}, padding, top, opts.Width-2*padding)
	top += padding

	maxVal := 0
	for _, f := range series.Frequencies {
		if f > maxVal {
			maxVal = f
		}
	}
	step := tickStep(maxVal)
	yMax := step * int(math.Ceil(float64(maxVal)/float64(step)))
	if yMax == 0 {
		yMax = step
	}

	left := padding + textWidth(face, strconv.Itoa(yMax)) + 6
	right := opts.Width - padding
	bottom := opts.Height - padding - lineH - 4
	if bottom <= top || right <= left {
		return img
	}
	plotH := bottom - top

	for v := 0; v <= yMax; v += step {
		y := bottom - v*plotH/yMax
		fillRect(img, image.Rect(left, y, right, y+1), colorGrid)
		drawText(img, face, strconv.Itoa(v), left-4, y+face.Metrics().Ascent.Ceil()/2, colorText, alignRight)
	}
	fillRect(img, image.Rect(left, top, left+1, bottom+1), colorAxis)
	fillRect(img, image.Rect(left, bottom, right, bottom+1), colorAxis)

	n := series.Len()
	if n == 0 {
		return img
	}
	slot := float64(right-left) / float64(n)
	barW := int(slot * 0.72)
	if barW < 1 {
		barW = 1
	}

	for i, f := range series.Frequencies {
		center := left + int(slot*float64(i)+slot/2)
		h := f * plotH / yMax
		fillRect(img, image.Rect(center-barW/2, bottom-h, center-barW/2+barW, bottom), opts.BarColor)

		label := fitText(face, series.Labels[i], int(slot)-2)
		drawText(img, face, label, center, bottom+4+face.Metrics().Ascent.Ceil(), colorText, alignCenter)
	}

	return img
}

// drawPie draws one slice per category sized by its percentage, starting at
// twelve o'clock and going clockwise, with a legend above.
func drawPie(series freq.Series, opts Options) *image.RGBA {
	img := newCanvas(opts.Width, opts.Height, colorBackground)

	colors := make([]color.RGBA, series.Len())
	for i := range colors {
		colors[i] = opts.sliceColor(i)
	}

	top := padding
	top += drawLegend(img, opts.Face, series.Labels, colors, padding, top, opts.Width-2*padding)
	top += padding

	h := opts.Height - top - padding
	w := opts.Width - 2*padding
	radius := float64(min(w, h)) / 2
	if radius <= 0 {
		return img
	}
	cx := float64(opts.Width) / 2
	cy := float64(top) + float64(h)/2

	fillPie(img, series.Percentages, opts, cx, cy, radius)
	return img
}

// pieImage draws only the slices on a transparent canvas.
func pieImage(values []float64, opts Options, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	radius := float64(min(w, h)) / 2
	fillPie(img, values, opts, float64(w)/2, float64(h)/2, radius)
	return img
}

func fillPie(img *image.RGBA, values []float64, opts Options, cx, cy, radius float64) {
	sum := 0.0
	for _, v := range values {
		if v > 0 {
			sum += v
		}
	}
	if sum <= 0 {
		return
	}

	b := img.Bounds()
	r := raster.NewRasterizer(b.Dx(), b.Dy())
	r.UseNonZeroWinding = true
	painter := raster.NewRGBAPainter(img)

	angle := -math.Pi / 2
	for i, v := range values {
		if v <= 0 {
			continue
		}
		sweep := 2 * math.Pi * v / sum

		steps := int(sweep*radius/3) + 2
		var p raster.Path
		p.Start(point(cx, cy))
		for k := 0; k <= steps; k++ {
			a := angle + sweep*float64(k)/float64(steps)
			p.Add1(point(cx+radius*math.Cos(a), cy+radius*math.Sin(a)))
		}
		p.Add1(point(cx, cy))

		r.Clear()
		r.AddPath(p)
		painter.SetColor(opts.sliceColor(i))
		r.Rasterize(painter)

		angle += sweep
	}
}

// drawLegend lays out swatch and label pairs, wrapping to new rows, and
// returns the height used.
func drawLegend(img *image.RGBA, face font.Face, labels []string, colors []color.RGBA, x, y, maxW int) int {
	if len(labels) == 0 {
		return 0
	}
	lineH := max(face.Metrics().Height.Ceil(), swatchSize) + 4
	ascent := face.Metrics().Ascent.Ceil()

	cx, rows := x, 1
	for i, label := range labels {
		itemW := swatchSize + 4 + textWidth(face, label) + 12
		if cx > x && cx+itemW > x+maxW {
			cx = x
			rows++
		}
		ry := y + (rows-1)*lineH
		fillRect(img, image.Rect(cx, ry, cx+swatchSize, ry+swatchSize), colors[i])
		drawText(img, face, label, cx+swatchSize+4, ry+(swatchSize+ascent)/2, colorText, alignLeft)
		cx += itemW
	}
	return rows * lineH
}

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

func drawText(img *image.RGBA, face font.Face, s string, x, baseline int, col color.Color, a align) {
	w := textWidth(face, s)
	switch a {
	case alignCenter:
		x -= w / 2
	case alignRight:
		x -= w
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// fitText truncates s with an ellipsis until it fits in maxW pixels.
func fitText(face font.Face, s string, maxW int) string {
	if textWidth(face, s) <= maxW {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		t := string(runes) + "…"
		if textWidth(face, t) <= maxW {
			return t
		}
	}
	return ""
}

// tickStep picks a step that gives at most about five grid lines.
func tickStep(maxVal int) int {
	if maxVal <= 5 {
		return 1
	}
	raw := float64(maxVal) / 5
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*mag >= raw {
			return int(m * mag)
		}
	}
	return int(10 * mag)
}

func newCanvas(w, h int, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func point(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}
