// Package chart draws bar and pie charts of a frequency series, both as PNG
// images and as terminal text.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/f3rmion/freqtab/internal/freq"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Type is the kind of chart.
type Type int

const (
	TypeBar Type = iota
	TypePie
)

func (t Type) String() string {
	switch t {
	case TypeBar:
		return "bar"
	case TypePie:
		return "pie"
	default:
		return "unknown"
	}
}

// ErrDestroyed is returned when a destroyed chart is used.
var ErrDestroyed = errors.New("chart destroyed")

// Default colors.
var (
	DefaultBarColor = color.RGBA{0x36, 0xA2, 0xEB, 0xff}
	DefaultPalette  = []color.RGBA{
		{0xFF, 0x63, 0x84, 0xff},
		{0x36, 0xA2, 0xEB, 0xff},
		{0xFF, 0xCE, 0x56, 0xff},
		{0x4C, 0xAF, 0x50, 0xff},
		{0xFF, 0x98, 0x00, 0xff},
	}
)

// Options controls chart rendering.
type Options struct {
	Width    int // Image width in pixels
	Height   int // Image height in pixels
	BarColor color.RGBA
	Palette  []color.RGBA
	Face     font.Face // Label font; basicfont when nil
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Width:    640,
		Height:   400,
		BarColor: DefaultBarColor,
		Palette:  DefaultPalette,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.BarColor == (color.RGBA{}) {
		o.BarColor = def.BarColor
	}
	if len(o.Palette) == 0 {
		o.Palette = def.Palette
	}
	if o.Face == nil {
		o.Face = basicfont.Face7x13
	}
	return o
}

// sliceColor returns the palette color for slice i, cycling the palette.
func (o Options) sliceColor(i int) color.RGBA {
	return o.Palette[i%len(o.Palette)]
}

// Chart is a rendered chart. It owns its image until Destroy is called.
type Chart struct {
	typ    Type
	series freq.Series
	opts   Options
	img    *image.RGBA
}

// New renders a chart of the given type.
func New(typ Type, series freq.Series, opts Options) *Chart {
	opts = opts.withDefaults()
	c := &Chart{typ: typ, series: series, opts: opts}
	switch typ {
	case TypePie:
		c.img = drawPie(series, opts)
	default:
		c.img = drawBar(series, opts)
	}
	return c
}

// NewBar renders a bar chart of frequencies.
func NewBar(series freq.Series, opts Options) *Chart {
	return New(TypeBar, series, opts)
}

// NewPie renders a pie chart of percentages.
func NewPie(series freq.Series, opts Options) *Chart {
	return New(TypePie, series, opts)
}

// Type returns the chart type.
func (c *Chart) Type() Type {
	return c.typ
}

// Series returns the data the chart was drawn from.
func (c *Chart) Series() freq.Series {
	return c.series
}

// Destroy releases the chart. Later calls to Image, PNG and Text fail.
func (c *Chart) Destroy() {
	c.img = nil
	c.series = freq.Series{}
}

// Destroyed reports whether Destroy was called.
func (c *Chart) Destroyed() bool {
	return c.img == nil
}

// Image returns the rendered image.
func (c *Chart) Image() (*image.RGBA, error) {
	if c.Destroyed() {
		return nil, ErrDestroyed
	}
	return c.img, nil
}

// PNG encodes the rendered image.
func (c *Chart) PNG() ([]byte, error) {
	img, err := c.Image()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding %s chart: %w", c.typ, err)
	}
	return buf.Bytes(), nil
}

// Text renders the chart for a terminal of the given width in cells.
func (c *Chart) Text(width int) (string, error) {
	if c.Destroyed() {
		return "", ErrDestroyed
	}
	if c.typ == TypePie {
		return pieText(c.series, c.opts, width), nil
	}
	return barText(c.series, c.opts, width), nil
}

// Handles holds the current bar and pie charts. The zero value is ready to
// use and has no charts.
type Handles struct {
	Bar *Chart
	Pie *Chart

	generation int
}

// Redraw destroys the current charts and then creates a new pair from
// series. The old pair is fully torn down before the new one is built.
func (h *Handles) Redraw(series freq.Series, opts Options) {
	h.Destroy()
	h.Bar = NewBar(series, opts)
	h.Pie = NewPie(series, opts)
	h.generation++
}

// Destroy releases both charts.
func (h *Handles) Destroy() {
	if h.Bar != nil {
		h.Bar.Destroy()
		h.Bar = nil
	}
	if h.Pie != nil {
		h.Pie.Destroy()
		h.Pie = nil
	}
}

// Ready reports whether both charts exist.
func (h *Handles) Ready() bool {
	return h.Bar != nil && h.Pie != nil
}

// Generation counts how many times Redraw has run.
func (h *Handles) Generation() int {
	return h.generation
}

// Get returns the chart of the given type, or nil.
func (h *Handles) Get(typ Type) *Chart {
	if typ == TypePie {
		return h.Pie
	}
	return h.Bar
}
