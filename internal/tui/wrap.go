package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes lays out the word stream. Only the first word is judged
// against input; input past its end is shown as overflow.
func buildStyledRunes(words []string, input []rune) []styledRune {
	out := make([]styledRune, 0, 64)
	for wi, word := range words {
		if wi > 0 {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		target := []rune(word)
		if wi > 0 {
			for _, r := range target {
				out = append(out, newStyledRune(r, pendingStyle))
			}
			continue
		}
		for i, r := range target {
			style := currentWordStyle
			switch {
			case i < len(input) && input[i] == r:
				style = correctStyle
			case i < len(input):
				style = incorrectStyle
			case i == len(input):
				style = cursorStyle
			}
			out = append(out, newStyledRune(r, style))
		}
		if len(input) > len(target) {
			for _, r := range input[len(target):] {
				out = append(out, newStyledRune(r, overflowStyle))
			}
		}
	}
	return out
}

func newStyledRune(r rune, style lipgloss.Style) styledRune {
	return styledRune{
		s:     style.Render(string(r)),
		width: runewidth.RuneWidth(r),
	}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
