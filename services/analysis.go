package services

import (
	"context"
	"time"

	"mark2cure/models"

	"gorm.io/gorm"
)

// FScorePoint is one report's agreement score.
type FScorePoint struct {
	Created  time.Time `json:"created"`
	FScore   float64   `json:"f-score"`
	Pairings int       `json:"pairings"`
}

type Analysis struct {
	db *gorm.DB
}

func NewAnalysis(db *gorm.DB) *Analysis {
	return &Analysis{db: db}
}

func (a *Analysis) reports(ctx context.Context, groupPK uint) ([]models.Report, error) {
	var group models.Group
	if err := a.db.WithContext(ctx).First(&group, groupPK).Error; err != nil {
		return nil, wrap("load group", err)
	}
	var reports []models.Report
	err := a.db.WithContext(ctx).
		Where("group_id = ? AND report_type = ?", groupPK, models.ReportAverage).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, wrap("load reports", err)
	}
	return reports, nil
}

// Group returns the group's agreement history, newest first. Weighted scores
// weigh each user's f-score by their pairings, otherwise the plain mean is
// used.
func (a *Analysis) Group(ctx context.Context, groupPK uint, weighted bool) ([]FScorePoint, error) {
	reports, err := a.reports(ctx, groupPK)
	if err != nil {
		return nil, err
	}
	out := make([]FScorePoint, 0, len(reports))
	for _, r := range reports {
		p := FScorePoint{Created: r.CreatedAt, Pairings: r.Pairings()}
		if weighted {
			p.FScore = r.WeightedFScore()
		} else {
			p.FScore = r.MeanFScore()
		}
		out = append(out, p)
	}
	return out, nil
}

// GroupUser returns one user's rows from the group's reports, newest first.
// Reports without the user are skipped.
func (a *Analysis) GroupUser(ctx context.Context, groupPK, userID uint) ([]FScorePoint, error) {
	reports, err := a.reports(ctx, groupPK)
	if err != nil {
		return nil, err
	}
	out := []FScorePoint{}
	for _, r := range reports {
		row, ok := r.RowFor(userID)
		if !ok {
			continue
		}
		out = append(out, FScorePoint{Created: r.CreatedAt, FScore: row.FScore, Pairings: row.Pairings})
	}
	return out, nil
}
