package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"mark2cure/models"

	"gorm.io/gorm"
)

//go:embed data/group_release_dates.json
var defaultReleaseDates []byte

type ReleaseDate struct {
	Invite string `json:"invite"`
	Public string `json:"public"`
	Closed string `json:"closed"`
}

// LoadReleaseDates reads group release dates keyed by group stub from path,
// or the bundled table when path is empty.
func LoadReleaseDates(path string) (map[string]ReleaseDate, error) {
	raw := defaultReleaseDates
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read release dates: %w", err)
		}
		raw = b
	}
	dates := make(map[string]ReleaseDate)
	if err := json.Unmarshal(raw, &dates); err != nil {
		return nil, fmt.Errorf("decode release dates: %w", err)
	}
	return dates, nil
}

type GroupDetail struct {
	PK                 uint    `json:"pk"`
	Name               string  `json:"name"`
	Stub               string  `json:"stub"`
	Description        string  `json:"description"`
	Enabled            bool    `json:"enabled"`
	DocumentCount      int64   `json:"document_count"`
	TotalContributors  int64   `json:"total_contributors"`
	PercentageComplete float64 `json:"percentage_complete"`
	CurrentAvgFScore   float64 `json:"current_avg_f_score"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
}

type Contributor struct {
	Username string `gorm:"column:username" json:"username"`
	Count    int64  `gorm:"column:annotations_count" json:"count"`
}

type Groups struct {
	db    *gorm.DB
	dates map[string]ReleaseDate
}

func NewGroups(db *gorm.DB, dates map[string]ReleaseDate) *Groups {
	return &Groups{db: db, dates: dates}
}

// List returns every group except training, highest order first.
func (g *Groups) List(ctx context.Context) ([]models.Group, error) {
	groups := []models.Group{}
	err := g.db.WithContext(ctx).
		Where("stub <> ?", models.TrainingStub).
		Order("sort_order DESC").
		Order("id ASC").
		Find(&groups).Error
	if err != nil {
		return nil, wrap("list groups", err)
	}
	return groups, nil
}

func (g *Groups) get(ctx context.Context, pk uint) (*models.Group, error) {
	var group models.Group
	if err := g.db.WithContext(ctx).First(&group, pk).Error; err != nil {
		return nil, wrap("load group", err)
	}
	return &group, nil
}

// groupDocuments selects the pks of documents in any task of the group.
func groupDocuments(ctx context.Context, db *gorm.DB, pk uint) *gorm.DB {
	return db.WithContext(ctx).Table("task_documents").
		Select("task_documents.document_id").
		Joins("JOIN tasks ON tasks.id = task_documents.task_id").
		Where("tasks.group_id = ?", pk)
}

func (g *Groups) Detail(ctx context.Context, pk uint) (*GroupDetail, error) {
	group, err := g.get(ctx, pk)
	if err != nil {
		return nil, err
	}

	out := &GroupDetail{
		PK:          group.ID,
		Name:        group.Name,
		Stub:        group.Stub,
		Description: group.Description,
		Enabled:     group.Enabled,
	}
	if d, ok := g.dates[group.Stub]; ok {
		out.StartDate = d.Invite
		out.EndDate = d.Closed
	}

	if err := groupDocuments(ctx, g.db, pk).Distinct("task_documents.document_id").Count(&out.DocumentCount).Error; err != nil {
		return nil, wrap("count group documents", err)
	}

	err = g.db.WithContext(ctx).Table("annotations").
		Joins("JOIN views ON views.id = annotations.view_id").
		Joins("JOIN sections ON sections.id = views.section_id").
		Where("sections.document_id IN (?)", groupDocuments(ctx, g.db, pk)).
		Distinct("views.user_id").
		Count(&out.TotalContributors).Error
	if err != nil {
		return nil, wrap("count group contributors", err)
	}

	if out.PercentageComplete, err = g.percentageComplete(ctx, pk); err != nil {
		return nil, err
	}

	var report models.Report
	err = g.db.WithContext(ctx).
		Where("group_id = ? AND report_type = ?", pk, models.ReportAverage).
		Order("created_at DESC").
		Limit(1).
		Find(&report).Error
	if err != nil {
		return nil, wrap("latest report", err)
	}
	if report.ID != 0 {
		out.CurrentAvgFScore = report.WeightedFScore()
	}
	return out, nil
}

// percentageComplete is the share of required quest submissions the
// community has made, counting at most Completions per quest.
func (g *Groups) percentageComplete(ctx context.Context, pk uint) (float64, error) {
	var tasks []models.Task
	if err := g.db.WithContext(ctx).Where("kind = ? AND group_id = ?", models.TaskKindQuest, pk).Find(&tasks).Error; err != nil {
		return 0, wrap("load group quests", err)
	}
	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	counts, err := submissionCounts(ctx, g.db, ids, nil)
	if err != nil {
		return 0, err
	}

	var required, done int64
	for _, t := range tasks {
		required += int64(t.Completions)
		done += min(counts[t.ID], int64(t.Completions))
	}
	if required == 0 {
		return 0, nil
	}
	return float64(done) * 100 / float64(required), nil
}

// Contributors counts each user's annotations on the group's documents.
func (g *Groups) Contributors(ctx context.Context, pk uint) ([]Contributor, error) {
	if _, err := g.get(ctx, pk); err != nil {
		return nil, err
	}

	out := []Contributor{}
	err := g.db.WithContext(ctx).Table("annotations").
		Select("users.username AS username, COUNT(annotations.id) AS annotations_count").
		Joins("JOIN views ON views.id = annotations.view_id").
		Joins("JOIN sections ON sections.id = views.section_id").
		Joins("JOIN users ON users.id = views.user_id").
		Where("sections.document_id IN (?)", groupDocuments(ctx, g.db, pk)).
		Group("users.id, users.username").
		Order("annotations_count DESC, users.username ASC").
		Scan(&out).Error
	if err != nil {
		return nil, wrap("group contributors", err)
	}
	return out, nil
}
