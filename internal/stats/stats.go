// Package stats contains score calculations and history reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/bunbuntype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// charsPerWord is the conventional length of one "word" for speed figures.
const charsPerWord = 5.0

// Speed returns words per minute where a word is five characters.
func Speed(charactersTyped, minutes float64) (float64, error) {
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: minutes must be > 0, got %v", model.ErrDomain, minutes)
	}
	return (charactersTyped / charsPerWord) / minutes, nil
}

// Accuracy returns the share of correct characters in [0,1].
func Accuracy(totalCharacters, correctCharacters float64) (float64, error) {
	if totalCharacters <= 0 {
		return 0, fmt.Errorf("%w: total characters must be > 0, got %v", model.ErrDomain, totalCharacters)
	}
	return correctCharacters / totalCharacters, nil
}

// AdjustedSpeed returns Speed scaled by Accuracy.
func AdjustedSpeed(charactersTyped, minutes, correctCharacters float64) (float64, error) {
	wpm, err := Speed(charactersTyped, minutes)
	if err != nil {
		return 0, err
	}
	acc, err := Accuracy(charactersTyped, correctCharacters)
	if err != nil {
		return 0, err
	}
	return wpm * acc, nil
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for the records.
func RenderSummary(w io.Writer, records []model.ScoreRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.Sessions),
		fmt.Sprintf("Avg WPM: %.2f", s.AvgWPM),
		fmt.Sprintf("Avg AWPM: %.2f", s.AvgAWPM),
		fmt.Sprintf("Best AWPM: %.2f", s.BestAWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy*100),
		fmt.Sprintf("Time typed: %s", s.TotalTime),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints the WPM, AWPM and accuracy learning curves.
func RenderCurves(w io.Writer, records []model.ScoreRecord, opts CurveOptions) error {
	return PlotCurves(w, records, LearningCurves, opts)
}

// RenderRecordTable prints one row per record, oldest first.
func RenderRecordTable(w io.Writer, records []model.ScoreRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	headers, rows := RecordRows(records)
	for _, line := range formatTable(headers, rows, 1, 2, 3, 4) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RecordRows formats records as table cells.
func RecordRows(records []model.ScoreRecord) ([]string, [][]string) {
	headers := []string{"Date", "WPM", "AWPM", "Accuracy", "Duration"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.DateTime.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.0f", math.Round(r.WPM)),
			fmt.Sprintf("%.0f", math.Round(r.AWPM)),
			fmt.Sprintf("%.1f%%", r.Accuracy*100),
			fmt.Sprintf("%.0fs", r.Duration),
		})
	}
	return headers, rows
}
