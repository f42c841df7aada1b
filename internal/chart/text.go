package chart

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/freqtab/internal/freq"
	"github.com/mattn/go-runewidth"
)

// alphaThreshold is the coverage above which a pixel counts as "on".
const alphaThreshold = 0x80

var legendTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f1faee"))

// barText draws one horizontal bar per category.
func barText(series freq.Series, opts Options, width int) string {
	if series.Len() == 0 {
		return ""
	}

	labelW, valueW, maxVal := 0, 0, 0
	for i, label := range series.Labels {
		labelW = max(labelW, runewidth.StringWidth(label))
		valueW = max(valueW, len(strconv.Itoa(series.Frequencies[i])))
		maxVal = max(maxVal, series.Frequencies[i])
	}
	if limit := width / 3; labelW > limit && limit > 0 {
		labelW = limit
	}
	barW := width - labelW - valueW - 2
	if barW < 1 {
		barW = 1
	}

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(Hex(opts.BarColor)))

	var b strings.Builder
	for i, label := range series.Labels {
		f := series.Frequencies[i]
		n := 0
		if maxVal > 0 {
			n = f * barW / maxVal
		}
		if f > 0 && n == 0 {
			n = 1
		}

		b.WriteString(runewidth.FillRight(runewidth.Truncate(label, labelW, "…"), labelW))
		b.WriteString(" ")
		if n > 0 {
			b.WriteString(barStyle.Render(strings.Repeat("█", n)))
			b.WriteString(" ")
		}
		b.WriteString(strconv.Itoa(f))
		if i < series.Len()-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// pieText draws the pie with half-block cells next to a legend.
func pieText(series freq.Series, opts Options, width int) string {
	if series.Len() == 0 {
		return ""
	}

	rows := 10
	if width > 0 && width/4 < rows {
		rows = max(width/4, 3)
	}
	cols := rows * 2

	pie := halfBlocks(pieImage(series.Percentages, opts, cols, rows*2))

	var legend []string
	for i, label := range series.Labels {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(Hex(opts.sliceColor(i)))).Render("■")
		line := fmt.Sprintf("%s %s", swatch, legendTextStyle.Render(
			fmt.Sprintf("%s %s%%", label, strconv.FormatFloat(series.Percentages[i], 'f', 2, 64))))
		legend = append(legend, line)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, pie, "  ", strings.Join(legend, "\n"))
}

// halfBlocks converts an image to half-block art; each cell covers two
// vertical pixels.
func halfBlocks(img *image.RGBA) string {
	b := img.Bounds()
	rows := b.Dy() / 2

	var out strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < b.Dx(); col++ {
			top, topOn := pixel(img, col, row*2)
			bottom, bottomOn := pixel(img, col, row*2+1)

			switch {
			case topOn && bottomOn:
				out.WriteString(lipgloss.NewStyle().
					Foreground(lipgloss.Color(Hex(top))).
					Background(lipgloss.Color(Hex(bottom))).
					Render("▀"))
			case topOn:
				out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(Hex(top))).Render("▀"))
			case bottomOn:
				out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(Hex(bottom))).Render("▄"))
			default:
				out.WriteRune(' ')
			}
		}
		if row < rows-1 {
			out.WriteRune('\n')
		}
	}
	return out.String()
}

// pixel returns the un-premultiplied color at x, y and whether it is on.
func pixel(img *image.RGBA, x, y int) (color.RGBA, bool) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return color.RGBA{}, false
	}
	c := img.RGBAAt(x, y)
	if c.A < alphaThreshold {
		return color.RGBA{}, false
	}
	if c.A < 0xff {
		c.R = uint8(uint32(c.R) * 0xff / uint32(c.A))
		c.G = uint8(uint32(c.G) * 0xff / uint32(c.A))
		c.B = uint8(uint32(c.B) * 0xff / uint32(c.A))
		c.A = 0xff
	}
	return c, true
}
