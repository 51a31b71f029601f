// Package model defines shared data structures.
package model

import "time"

// Config defines typing test settings.
type Config struct {
	Duration     time.Duration
	WordListPath string
	HistoryPath  string
	Preview      int
	Debug        bool
}

// StatsConfig defines filters and options for history output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// ScoreRecord captures the score of a finished typing session.
type ScoreRecord struct {
	WPM      float64   `json:"wpm"`
	Accuracy float64   `json:"accuracy"`
	Duration float64   `json:"duration"`
	AWPM     float64   `json:"awpm"`
	DateTime time.Time `json:"date_time"`
}

// Equal reports whether both records hold the same values. Timestamps are
// compared as instants.
func (r ScoreRecord) Equal(other ScoreRecord) bool {
	return r.WPM == other.WPM &&
		r.Accuracy == other.Accuracy &&
		r.Duration == other.Duration &&
		r.AWPM == other.AWPM &&
		r.DateTime.Equal(other.DateTime)
}

// ChartPoint is one labelled bar of the history chart.
type ChartPoint struct {
	Label string
	AWPM  float64
}
