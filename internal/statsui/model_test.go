package statsui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/bunbuntype/internal/model"
)

func sampleRecords() []model.ScoreRecord {
	base := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	records := make([]model.ScoreRecord, 0, 4)
	for i := 0; i < 4; i++ {
		records = append(records, model.ScoreRecord{
			WPM:      40 + float64(i),
			Accuracy: 0.9,
			Duration: 60,
			AWPM:     36 + float64(i),
			DateTime: base.AddDate(0, 0, i),
		})
	}
	return records
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Fatalf("nextCurveWindow(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Fatalf("prevCurveWindow(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}

func TestViewRendersTabs(t *testing.T) {
	m := NewModel(sampleRecords(), model.StatsConfig{CurveWindow: 1})
	m.SetSize(100, 40)
	out := m.View()
	for _, want := range []string{"Overview", "Chart", "Records", "sessions=4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabChart {
		t.Fatalf("expected chart tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "AWPM per session") {
		t.Fatalf("chart tab missing title")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "2024-03-04 09:30") {
		t.Fatalf("records tab missing newest row")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected tabs to wrap, got %d", m.activeTab)
	}
}

func TestEmptyHistory(t *testing.T) {
	m := NewModel(nil, model.StatsConfig{CurveWindow: 5})
	m.SetSize(80, 24)
	if !strings.Contains(m.View(), "No sessions found.") {
		t.Fatalf("expected empty notice")
	}
}

func TestWindowKeys(t *testing.T) {
	m := NewModel(sampleRecords(), model.StatsConfig{CurveWindow: 5})
	m.Update(keyRunes("="))
	if m.cfg.CurveWindow != 10 {
		t.Fatalf("expected window 10, got %d", m.cfg.CurveWindow)
	}
	m.Update(keyRunes("-"))
	m.Update(keyRunes("-"))
	if m.cfg.CurveWindow != 1 {
		t.Fatalf("expected window 1, got %d", m.cfg.CurveWindow)
	}
}

func TestSettingsFormAppliesLast(t *testing.T) {
	m := NewModel(sampleRecords(), model.StatsConfig{CurveWindow: 5})
	m.Update(keyRunes("/"))
	if !m.filterMode {
		t.Fatalf("expected settings form")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(keyRunes("2"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected form to close: %s", m.filterError)
	}
	if m.cfg.Last != 2 || len(m.report.Records) != 2 {
		t.Fatalf("expected last 2 records, got last=%d records=%d", m.cfg.Last, len(m.report.Records))
	}
}

func TestSettingsFormRejectsBadDate(t *testing.T) {
	m := NewModel(sampleRecords(), model.StatsConfig{CurveWindow: 5})
	m.Update(keyRunes("/"))
	m.Update(keyRunes("yesterday"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || m.filterError == "" {
		t.Fatalf("expected validation error")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterMode {
		t.Fatalf("expected esc to cancel")
	}
}

func TestLeaveStandaloneAndEmbedded(t *testing.T) {
	standalone := NewModel(nil, model.StatsConfig{CurveWindow: 5})
	_, cmd := standalone.Update(keyRunes("b"))
	if cmd != nil {
		t.Fatalf("expected b to do nothing standalone")
	}
	_, cmd = standalone.Update(keyRunes("q"))
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit")
	}

	embedded := NewEmbedded(nil, model.StatsConfig{CurveWindow: 5})
	_, cmd = embedded.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(BackMsg); !ok {
		t.Fatalf("expected back message")
	}
}

func TestSetRecordsRefreshes(t *testing.T) {
	m := NewEmbedded(nil, model.StatsConfig{CurveWindow: 5})
	m.SetRecords(sampleRecords())
	if m.report.Summary.Sessions != 4 {
		t.Fatalf("expected 4 sessions, got %d", m.report.Summary.Sessions)
	}
}
