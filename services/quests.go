package services

import (
	"context"

	"mark2cure/models"

	"gorm.io/gorm"
)

var questProgressQuery = mustQuery("quest_progress.sql")

type questRow struct {
	PK             uint  `gorm:"column:pk"`
	QuestCompleted int64 `gorm:"column:quest_completed"`
	ViewCount      int64 `gorm:"column:view_count"`
	Completed      int64 `gorm:"column:completed"`
	HadOpponent    int64 `gorm:"column:had_opponent"`
	DiseasePub     *uint `gorm:"column:disease_pub"`
	GenePub        *uint `gorm:"column:gene_pub"`
	DrugPub        *uint `gorm:"column:drug_pub"`
}

type QuestDocument struct {
	DocumentJSON
	ViewCount   int64 `json:"view_count"`
	Completed   bool  `json:"completed"`
	HadOpponent bool  `json:"had_opponent"`
}

// QuestProgress is a user's view of a quest: whether it is done and the
// state of each document in it.
type QuestProgress struct {
	Completed bool            `json:"completed"`
	Documents []QuestDocument `json:"documents"`
}

type SubmissionProgress struct {
	Required  int   `json:"required"`
	Current   int64 `json:"current"`
	Completed bool  `json:"completed"`
}

type QuestSummary struct {
	ID                      uint               `json:"id"`
	Name                    string             `json:"name"`
	Points                  int                `json:"points"`
	Completions             int                `json:"completions"`
	Documents               []uint             `json:"documents"`
	CurrentSubmissionsCount int64              `json:"current_submissions_count"`
	UserCompleted           *bool              `json:"user_completed,omitempty"`
	Progress                SubmissionProgress `json:"progress"`
}

type Quests struct {
	db   *gorm.DB
	docs *Documents
}

func NewQuests(db *gorm.DB, docs *Documents) *Quests {
	return &Quests{db: db, docs: docs}
}

// Progress reports the user's progress through a quest. Every document row
// must agree on the quest completion flag.
func (q *Quests) Progress(ctx context.Context, questPK, userID uint) (*QuestProgress, error) {
	var task models.Task
	if err := q.db.WithContext(ctx).Where("kind = ?", models.TaskKindQuest).First(&task, questPK).Error; err != nil {
		return nil, wrap("load quest", err)
	}

	var rows []questRow
	err := q.db.WithContext(ctx).Raw(questProgressQuery, map[string]any{
		"task_id":   questPK,
		"user_id":   userID,
		"task_type": models.ViewConceptRecognition,
		"yes":       true,
		"disease":   models.PubtatorDisease,
		"gene":      models.PubtatorGene,
		"chemical":  models.PubtatorChemical,
	}).Scan(&rows).Error
	if err != nil {
		return nil, wrap("quest progress", err)
	}

	res := &QuestProgress{Documents: []QuestDocument{}}
	if len(rows) == 0 {
		return res, nil
	}

	pks := make([]uint, 0, len(rows))
	pubtators := make(map[uint][]uint, len(rows))
	for _, r := range rows {
		pks = append(pks, r.PK)
		for _, pub := range []*uint{r.DiseasePub, r.GenePub, r.DrugPub} {
			if pub != nil {
				pubtators[r.PK] = append(pubtators[r.PK], *pub)
			}
		}
	}

	docs, err := q.docs.AsJSON(ctx, pks, pubtators)
	if err != nil {
		return nil, err
	}
	byPK := make(map[uint]DocumentJSON, len(docs))
	for _, d := range docs {
		byPK[d.PK] = d
	}

	questDone := rows[0].QuestCompleted > 0
	for _, r := range rows {
		if (r.QuestCompleted > 0) != questDone {
			return nil, models.ErrInconsistentQuest
		}
		res.Documents = append(res.Documents, QuestDocument{
			DocumentJSON: byPK[r.PK],
			ViewCount:    r.ViewCount,
			Completed:    r.Completed > 0,
			HadOpponent:  r.HadOpponent > 0,
		})
	}
	res.Completed = questDone
	return res, nil
}

type taskCount struct {
	TaskID uint  `gorm:"column:task_id"`
	Total  int64 `gorm:"column:total"`
}

// submissionCounts counts completed quest relationships per task, optionally
// for one user.
func submissionCounts(ctx context.Context, db *gorm.DB, taskIDs []uint, userID *uint) (map[uint]int64, error) {
	res := make(map[uint]int64, len(taskIDs))
	if len(taskIDs) == 0 {
		return res, nil
	}
	q := db.WithContext(ctx).Model(&models.UserQuestRelationship{}).
		Select("task_id, COUNT(*) AS total").
		Where("completed = ? AND task_id IN ?", true, taskIDs)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var rows []taskCount
	if err := q.Group("task_id").Scan(&rows).Error; err != nil {
		return nil, wrap("count submissions", err)
	}
	for _, r := range rows {
		res[r.TaskID] = r.Total
	}
	return res, nil
}

// ForGroup lists a group's quests with community submission counts and, when
// userID is set, whether that user completed each one.
func (q *Quests) ForGroup(ctx context.Context, groupPK uint, userID *uint) ([]QuestSummary, error) {
	var group models.Group
	if err := q.db.WithContext(ctx).First(&group, groupPK).Error; err != nil {
		return nil, wrap("load group", err)
	}

	var tasks []models.Task
	err := q.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("documents.id ASC") }).
		Where("kind = ? AND group_id = ?", models.TaskKindQuest, groupPK).
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, wrap("load quests", err)
	}

	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	community, err := submissionCounts(ctx, q.db, ids, nil)
	if err != nil {
		return nil, err
	}
	var mine map[uint]int64
	if userID != nil {
		if mine, err = submissionCounts(ctx, q.db, ids, userID); err != nil {
			return nil, err
		}
	}

	out := make([]QuestSummary, 0, len(tasks))
	for _, t := range tasks {
		s := QuestSummary{
			ID:                      t.ID,
			Name:                    t.Name,
			Points:                  t.Points,
			Completions:             t.Completions,
			Documents:               make([]uint, 0, len(t.Documents)),
			CurrentSubmissionsCount: community[t.ID],
			Progress: SubmissionProgress{
				Required:  t.Completions,
				Current:   community[t.ID],
				Completed: community[t.ID] >= int64(t.Completions),
			},
		}
		for _, d := range t.Documents {
			s.Documents = append(s.Documents, d.ID)
		}
		if mine != nil {
			done := mine[t.ID] > 0
			s.UserCompleted = &done
		}
		out = append(out, s)
	}
	return out, nil
}
