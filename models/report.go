package models

import (
	"time"
)

const (
	ReportPairwise = 0
	ReportAverage  = 1
)

type ReportRow struct {
	UserID   uint    `json:"user_id"`
	FScore   float64 `json:"f-score"`
	Pairings int     `json:"pairings"`
}

// Report is an inter-annotator agreement table computed for a group.
type Report struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time   `gorm:"index" json:"created"`
	GroupID    uint        `gorm:"not null;index" json:"group_id"`
	ReportType int         `gorm:"not null" json:"report_type"`
	Rows       []ReportRow `gorm:"serializer:json;type:text" json:"rows"`
}

// WeightedFScore averages the f-scores weighted by pairings.
func (r *Report) WeightedFScore() float64 {
	var weighted float64
	pairings := r.Pairings()
	if pairings == 0 {
		return 0
	}
	for _, row := range r.Rows {
		weighted += float64(row.Pairings) * row.FScore
	}
	return weighted / float64(pairings)
}

func (r *Report) MeanFScore() float64 {
	if len(r.Rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range r.Rows {
		sum += row.FScore
	}
	return sum / float64(len(r.Rows))
}

func (r *Report) Pairings() int {
	total := 0
	for _, row := range r.Rows {
		total += row.Pairings
	}
	return total
}

// RowFor returns the first row for the user.
func (r *Report) RowFor(userID uint) (ReportRow, bool) {
	for _, row := range r.Rows {
		if row.UserID == userID {
			return row, true
		}
	}
	return ReportRow{}, false
}
