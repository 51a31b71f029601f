package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/bunbuntype/internal/model"
)

const (
	barWidth      = 5
	barGap        = 1
	barFill       = "█"
	defaultBarsHi = 10
)

// BarsFit returns how many bars fit in totalWidth columns.
func BarsFit(totalWidth int) int {
	if totalWidth <= 0 {
		return 0
	}
	n := (totalWidth + barGap) / (barWidth + barGap)
	if n < 1 {
		n = 1
	}
	return n
}

// RenderBars draws a vertical bar chart of AWPM per session. Only the most
// recent points that fit in totalWidth are drawn; totalWidth <= 0 draws all.
func RenderBars(w io.Writer, points []model.ChartPoint, totalWidth, height int) error {
	for _, line := range BarLines(points, totalWidth, height) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// BarLines returns the bar chart as lines without trailing newlines.
func BarLines(points []model.ChartPoint, totalWidth, height int) []string {
	if len(points) == 0 {
		return []string{"No sessions found."}
	}
	if height <= 0 {
		height = defaultBarsHi
	}
	if n := BarsFit(totalWidth); n > 0 && len(points) > n {
		points = points[len(points)-n:]
	}
	maxVal := 0.0
	for _, p := range points {
		if p.AWPM > maxVal {
			maxVal = p.AWPM
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}
	filled := make([]int, len(points))
	for i, p := range points {
		v := math.Max(p.AWPM, 0)
		filled[i] = int(math.Round(v / maxVal * float64(height)))
	}

	lines := make([]string, 0, height+3)
	lines = append(lines, "AWPM per session")
	cells := make([]string, len(points))
	for level := height; level >= 1; level-- {
		for i := range points {
			if filled[i] >= level {
				cells[i] = strings.Repeat(barFill, barWidth)
			} else {
				cells[i] = strings.Repeat(" ", barWidth)
			}
		}
		lines = append(lines, joinCells(cells))
	}
	for i, p := range points {
		cells[i] = centerCell(fmt.Sprintf("%.0f", math.Round(p.AWPM)), barWidth)
	}
	lines = append(lines, joinCells(cells))

	date := make([]string, len(points))
	clock := make([]string, len(points))
	for i, p := range points {
		parts := strings.SplitN(p.Label, " ", 2)
		date[i] = centerCell(parts[0], barWidth)
		clock[i] = strings.Repeat(" ", barWidth)
		if len(parts) == 2 {
			clock[i] = centerCell(parts[1], barWidth)
		}
	}
	lines = append(lines, joinCells(date), joinCells(clock))
	return lines
}

func joinCells(cells []string) string {
	return strings.TrimRight(strings.Join(cells, strings.Repeat(" ", barGap)), " ")
}

func centerCell(value string, width int) string {
	value = runewidth.Truncate(value, width, "")
	pad := width - runewidth.StringWidth(value)
	left := pad / 2
	return strings.Repeat(" ", left) + value + strings.Repeat(" ", pad-left)
}
