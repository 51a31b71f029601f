package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/bunbuntype/internal/model"
)

const (
	defaultCurveHeight = 10
	minCurveWidth      = 10
	fallbackTermWidth  = 80
	gutterTop          = "max"
	gutterBottom       = "min"
	gutterSeparator    = " │ "
	curvesTitle        = "Learning Curves"
)

// Metric picks one plotted quantity out of a score record.
type Metric struct {
	Name  string
	Value func(model.ScoreRecord) float64
}

var (
	// WPMMetric plots raw speed.
	WPMMetric = Metric{Name: "WPM", Value: func(r model.ScoreRecord) float64 { return r.WPM }}
	// AWPMMetric plots accuracy-adjusted speed.
	AWPMMetric = Metric{Name: "AWPM", Value: func(r model.ScoreRecord) float64 { return r.AWPM }}
	// AccuracyMetric plots accuracy as a percentage.
	AccuracyMetric = Metric{Name: "Accuracy", Value: func(r model.ScoreRecord) float64 { return r.Accuracy * 100 }}
)

// LearningCurves is the default metric set of the history views.
var LearningCurves = []Metric{WPMMetric, AWPMMetric, AccuracyMetric}

// CurveOptions sizes a curve plot. Zero Width fits the terminal; zero Height
// uses ten rows.
type CurveOptions struct {
	Window int
	Width  int
	Height int
	Color  bool
}

// dash describes how a curve is stroked: a dot is drawn on the first on
// columns of every period.
type dash struct {
	name   string
	period int
	on     int
}

func (d dash) draws(x int) bool {
	return d.period <= 1 || x%d.period < d.on
}

var curveDashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var curveColors = []lipgloss.Color{"#56B6C2", "#E5C07B", "#C678DD"}

// curve is one metric resampled to the plot width together with its range.
type curve struct {
	name   string
	values []float64
	lo, hi float64
	dash   dash
	style  lipgloss.Style
}

// PlotCurves draws the moving average of each metric over records as a
// braille line chart. Every curve is scaled to its own range.
func PlotCurves(w io.Writer, records []model.ScoreRecord, metrics []Metric, opts CurveOptions) error {
	if len(records) == 0 || len(metrics) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultCurveHeight
	}
	width := opts.Width
	if width <= 0 {
		width = CurveWidth(TerminalWidth())
	}
	width = max(width, minCurveWidth)

	curves := make([]curve, len(metrics))
	for i, m := range metrics {
		raw := make([]float64, len(records))
		for j, r := range records {
			raw[j] = m.Value(r)
		}
		values := resample(MovingAverage(raw, opts.Window), width)
		lo, hi := valueRange(values)
		style := lipgloss.NewStyle()
		if opts.Color {
			style = style.Foreground(curveColors[i%len(curveColors)])
		}
		curves[i] = curve{
			name:   m.Name,
			values: values,
			lo:     lo,
			hi:     hi,
			dash:   curveDashes[i%len(curveDashes)],
			style:  style,
		}
	}

	layers := make([]*canvas, len(curves))
	for i, c := range curves {
		layers[i] = newCanvas(width, height)
		layers[i].stroke(c)
	}

	lines := make([]string, 0, height+len(curves)+2)
	lines = append(lines, curvesTitle)
	for _, c := range curves {
		lines = append(lines, fmt.Sprintf("%s: %.1f .. %.1f", c.name, c.lo, c.hi))
	}
	for row := 0; row < height; row++ {
		var b strings.Builder
		fmt.Fprintf(&b, "%*s%s", len(gutterTop), gutterLabel(row, height), gutterSeparator)
		for col := 0; col < width; col++ {
			b.WriteString(composeCell(layers, curves, col, row))
		}
		lines = append(lines, b.String())
	}
	lines = append(lines, legend(curves), "")

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// CurveWidth returns the drawable columns left after the axis gutter.
func CurveWidth(totalWidth int) int {
	gutter := utf8.RuneCountInString(gutterTop) + utf8.RuneCountInString(gutterSeparator)
	return max(totalWidth-gutter, minCurveWidth)
}

// TerminalWidth returns the stdout width, or 80 when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func gutterLabel(row, height int) string {
	switch row {
	case 0:
		return gutterTop
	case height - 1:
		return gutterBottom
	default:
		return ""
	}
}

// composeCell merges the dots of every layer; the first curve present in the
// cell decides its color.
func composeCell(layers []*canvas, curves []curve, col, row int) string {
	var mask uint8
	owner := -1
	for i, layer := range layers {
		bits := layer.cells[row][col]
		if bits == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= bits
	}
	glyph := string(brailleRune(mask))
	if owner < 0 {
		return glyph
	}
	return curves[owner].style.Render(glyph)
}

func legend(curves []curve) string {
	parts := make([]string, len(curves))
	for i, c := range curves {
		parts[i] = c.style.Render(fmt.Sprintf("%c %s (%s)", brailleRune(0x01), c.name, c.dash.name))
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// resample stretches or averages values into exactly width points.
func resample(values []float64, width int) []float64 {
	n := len(values)
	if n == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	if n >= width {
		for x := range out {
			start := x * n / width
			end := max((x+1)*n/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[x] = sum / float64(end-start)
		}
		return out
	}
	if n == 1 || width == 1 {
		for x := range out {
			out[x] = values[0]
		}
		return out
	}
	for x := range out {
		pos := float64(x) * float64(n-1) / float64(width-1)
		i := int(pos)
		if i >= n-1 {
			out[x] = values[n-1]
			continue
		}
		frac := pos - float64(i)
		out[x] = values[i] + (values[i+1]-values[i])*frac
	}
	return out
}

// valueRange returns the bounds of values, widened around a flat series so
// it plots mid-height.
func valueRange(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if hi-lo < 1e-9 {
		return lo - 1, hi + 1
	}
	return lo, hi
}

// canvas is a grid of braille cells, each holding 2x4 dots.
type canvas struct {
	cells [][]uint8
	dotsX int
	dotsY int
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return &canvas{cells: cells, dotsX: width * 2, dotsY: height * 4}
}

// stroke draws c with one sample every second dot column.
func (cv *canvas) stroke(c curve) {
	prevX, prevY := -1, -1
	for i, v := range c.values {
		x := i * 2
		y := cv.dotRow(v, c.lo, c.hi)
		if prevX < 0 {
			if c.dash.draws(x) {
				cv.set(x, y)
			}
		} else {
			cv.line(prevX, prevY, x, y, c.dash)
		}
		prevX, prevY = x, y
	}
}

func (cv *canvas) dotRow(v, lo, hi float64) int {
	if cv.dotsY <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(cv.dotsY-1)))
	return min(max(row, 0), cv.dotsY-1)
}

func (cv *canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= cv.dotsX || y >= cv.dotsY {
		return
	}
	cv.cells[y/4][x/2] |= brailleBits[y%4][x%2]
}

// line rasterizes a segment with Bresenham's algorithm.
func (cv *canvas) line(x0, y0, x1, y1 int, d dash) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		if d.draws(x0) {
			cv.set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// brailleBits maps a dot at [row][col] inside a cell to its Unicode bit.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func brailleRune(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
