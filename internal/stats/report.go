package stats

import (
	"time"

	"github.com/verte-zerg/bunbuntype/internal/model"
)

// ChartLabelLayout formats chart point labels.
const ChartLabelLayout = "01-02 15:04"

// Summary aggregates a set of records.
type Summary struct {
	Sessions    int
	AvgWPM      float64
	AvgAWPM     float64
	BestAWPM    float64
	AvgAccuracy float64
	TotalTime   time.Duration
}

// Report contains precomputed data for history rendering.
type Report struct {
	Records []model.ScoreRecord
	Summary Summary
	Points  []model.ChartPoint
}

// BuildReport filters records by cfg and prepares them for rendering.
// Records are expected in append order.
func BuildReport(records []model.ScoreRecord, cfg model.StatsConfig) Report {
	filtered := make([]model.ScoreRecord, 0, len(records))
	for _, r := range records {
		if cfg.Since != nil && r.DateTime.Before(*cfg.Since) {
			continue
		}
		filtered = append(filtered, r)
	}
	if cfg.Last > 0 && len(filtered) > cfg.Last {
		filtered = filtered[len(filtered)-cfg.Last:]
	}
	return Report{
		Records: filtered,
		Summary: Summarize(filtered),
		Points:  ChartPoints(filtered),
	}
}

// Summarize computes averages and bests over records.
func Summarize(records []model.ScoreRecord) Summary {
	s := Summary{Sessions: len(records)}
	if len(records) == 0 {
		return s
	}
	var totalWPM, totalAWPM, totalAcc, totalSeconds float64
	for _, r := range records {
		totalWPM += r.WPM
		totalAWPM += r.AWPM
		totalAcc += r.Accuracy
		totalSeconds += r.Duration
		if r.AWPM > s.BestAWPM {
			s.BestAWPM = r.AWPM
		}
	}
	count := float64(len(records))
	s.AvgWPM = totalWPM / count
	s.AvgAWPM = totalAWPM / count
	s.AvgAccuracy = totalAcc / count
	s.TotalTime = time.Duration(totalSeconds * float64(time.Second))
	return s
}

// ChartPoints pairs each record's local timestamp label with its AWPM.
func ChartPoints(records []model.ScoreRecord) []model.ChartPoint {
	points := make([]model.ChartPoint, len(records))
	for i, r := range records {
		points[i] = model.ChartPoint{
			Label: r.DateTime.Local().Format(ChartLabelLayout),
			AWPM:  r.AWPM,
		}
	}
	return points
}

// AWPMSeries returns the AWPM of each record in order.
func AWPMSeries(records []model.ScoreRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.AWPM
	}
	return out
}
