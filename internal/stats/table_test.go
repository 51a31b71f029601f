package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/bunbuntype/internal/model"
)

func TestFormatTableAlignsRecordColumns(t *testing.T) {
	records := []model.ScoreRecord{
		{WPM: 104.4, Accuracy: 0.975, Duration: 60, AWPM: 101.8, DateTime: time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local)},
		{WPM: 8, Accuracy: 0.5, Duration: 15, AWPM: 4, DateTime: time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local)},
	}
	headers, rows := RecordRows(records)

	lines := formatTable(headers, rows, 1, 2, 3, 4)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Date             WPM AWPM Accuracy Duration" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "2024-03-09 14:05 104  102    97.5%      60s" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "2024-03-10 08:00   8    4    50.0%      15s" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableShortRows(t *testing.T) {
	lines := formatTable([]string{"Date", "AWPM"}, [][]string{{"today"}}, 1)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != "today     " {
		t.Fatalf("expected padded empty cell, got %q", lines[1])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
}
