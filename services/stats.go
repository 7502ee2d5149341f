package services

import (
	"context"

	"mark2cure/models"

	"gorm.io/gorm"
)

type GlobalStats struct {
	NERAnnotations int64 `json:"ner_annotations"`
	REAnnotations  int64 `json:"re_annotations"`
}

type UserLevels struct {
	NER int `json:"ner"`
	RE  int `json:"re"`
}

type NERStats struct {
	TotalScore      int64 `json:"total_score"`
	QuestsCompleted int64 `json:"quests_completed"`
	PapersReviewed  int64 `json:"papers_reviewed"`
	Annotations     int64 `json:"annotations"`
}

type REStats struct {
	TotalScore      int64 `json:"total_score"`
	QuestsCompleted int64 `json:"quests_completed"`
	Annotations     int64 `json:"annotations"`
}

type Stats struct {
	db *gorm.DB
}

func NewStats(db *gorm.DB) *Stats {
	return &Stats{db: db}
}

// Global counts every entity and relation annotation on the platform.
func (s *Stats) Global(ctx context.Context) (*GlobalStats, error) {
	var out GlobalStats
	if err := s.db.WithContext(ctx).Model(&models.Annotation{}).
		Where("kind = ?", models.AnnotationEntity).
		Count(&out.NERAnnotations).Error; err != nil {
		return nil, wrap("count ner annotations", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.RelationAnswer{}).
		Count(&out.REAnnotations).Error; err != nil {
		return nil, wrap("count re annotations", err)
	}
	return &out, nil
}

// Levels returns the highest training level the user reached per task type.
func (s *Stats) Levels(ctx context.Context, userID uint) (*UserLevels, error) {
	var out UserLevels
	for taskType, dst := range map[string]*int{
		models.LevelEntity:   &out.NER,
		models.LevelRelation: &out.RE,
	} {
		err := s.db.WithContext(ctx).Model(&models.Level{}).
			Select("COALESCE(MAX(level), 0)").
			Where("user_id = ? AND task_type = ?", userID, taskType).
			Scan(dst).Error
		if err != nil {
			return nil, wrap("user level", err)
		}
	}
	return &out, nil
}

func (s *Stats) NER(ctx context.Context, userID uint) (*NERStats, error) {
	var (
		out NERStats
		err error
	)
	if out.TotalScore, err = score(ctx, s.db, userID, models.PointTaskEntityRecognition); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.UserQuestRelationship{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&out.QuestsCompleted).Error; err != nil {
		return nil, wrap("count quests", err)
	}
	if out.PapersReviewed, err = s.completedViews(ctx, userID, models.ViewConceptRecognition); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Annotation{}).
		Joins("JOIN views ON views.id = annotations.view_id").
		Where("annotations.kind = ? AND views.user_id = ?", models.AnnotationEntity, userID).
		Count(&out.Annotations).Error; err != nil {
		return nil, wrap("count ner annotations", err)
	}
	return &out, nil
}

func (s *Stats) RE(ctx context.Context, userID uint) (*REStats, error) {
	var (
		out REStats
		err error
	)
	if out.TotalScore, err = score(ctx, s.db, userID, models.PointTaskRelation); err != nil {
		return nil, err
	}
	if out.QuestsCompleted, err = s.completedViews(ctx, userID, models.ViewRelationIdentification); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.RelationAnswer{}).
		Joins("JOIN views ON views.id = relation_answers.view_id").
		Where("views.user_id = ?", userID).
		Count(&out.Annotations).Error; err != nil {
		return nil, wrap("count re annotations", err)
	}
	return &out, nil
}

func (s *Stats) completedViews(ctx context.Context, userID uint, taskType string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.View{}).
		Where("user_id = ? AND completed = ? AND task_type = ?", userID, true, taskType).
		Count(&n).Error
	if err != nil {
		return 0, wrap("count views", err)
	}
	return n, nil
}
