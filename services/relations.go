package services

import (
	"context"
	"sort"

	"mark2cure/config"
	"mark2cure/models"

	"gorm.io/gorm"
)

var relationDocumentsQuery = mustQuery("relation_documents.sql")

type relationRow struct {
	ID                         uint   `gorm:"column:id"`
	DocumentID                 int    `gorm:"column:document_id"`
	Title                      string `gorm:"column:title"`
	TotalDocumentRelationships int64  `gorm:"column:total_document_relationships"`
	UserDocumentRelationships  int64  `gorm:"column:user_document_relationships"`
	CommunityAnswered          int64  `gorm:"column:community_answered"`
	CommunityCompleted         int64  `gorm:"column:community_completed"`
	UserViewCompleted          int64  `gorm:"column:user_view_completed"`
}

// RelationDocument is a document offered for relation annotation with the
// community's and the user's progress on it.
type RelationDocument struct {
	ID                         uint    `json:"id"`
	DocumentID                 int     `json:"document_id"`
	Title                      string  `json:"title"`
	TotalDocumentRelationships int64   `json:"total_document_relationships"`
	UserDocumentRelationships  int64   `json:"user_document_relationships"`
	CommunityAnswered          int64   `json:"community_answered"`
	CommunityCompleted         int64   `json:"community_completed"`
	CommunityProgress          float64 `json:"community_progress"`
	UserCompleted              bool    `json:"user_completed"`
	UserProgress               float64 `json:"user_progress"`
	UserAnswered               bool    `json:"user_answered"`
	UserViewCompleted          bool    `json:"user_view_completed"`
}

type Relations struct {
	db       *gorm.DB
	workSize int
	k        int
}

func NewRelations(db *gorm.DB, cfg config.RelationConfig) *Relations {
	return &Relations{db: db, workSize: cfg.WorkSize, k: cfg.K}
}

// List returns the relation work available to the user: documents the user
// has not finished, skipping those the community already completed unless
// the user has started them. Documents closest to community completion come
// first.
func (r *Relations) List(ctx context.Context, userID uint) ([]RelationDocument, error) {
	var rows []relationRow
	err := r.db.WithContext(ctx).Raw(relationDocumentsQuery, map[string]any{
		"user_id":   userID,
		"task_type": models.ViewRelationIdentification,
		"yes":       true,
	}).Scan(&rows).Error
	if err != nil {
		return nil, wrap("relation documents", err)
	}

	out := make([]RelationDocument, 0, len(rows))
	for _, row := range rows {
		d := r.document(row)
		if d.UserViewCompleted {
			continue
		}
		if d.CommunityCompleted >= int64(r.k) && !d.UserAnswered {
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CommunityProgress > out[j].CommunityProgress
	})
	if r.workSize > 0 && len(out) > r.workSize {
		out = out[:r.workSize]
	}
	return out, nil
}

func (r *Relations) document(row relationRow) RelationDocument {
	d := RelationDocument{
		ID:                         row.ID,
		DocumentID:                 row.DocumentID,
		Title:                      row.Title,
		TotalDocumentRelationships: row.TotalDocumentRelationships,
		UserDocumentRelationships:  row.UserDocumentRelationships,
		CommunityAnswered:          row.CommunityAnswered,
		CommunityCompleted:         row.CommunityCompleted,
		UserAnswered:               row.UserDocumentRelationships > 0,
		UserViewCompleted:          row.UserViewCompleted > 0,
	}
	if r.k > 0 {
		d.CommunityProgress = percent(row.CommunityCompleted, int64(r.k))
	}
	if row.TotalDocumentRelationships > 0 {
		d.UserProgress = percent(row.UserDocumentRelationships, row.TotalDocumentRelationships)
		d.UserCompleted = row.UserDocumentRelationships >= row.TotalDocumentRelationships
	}
	return d
}

// percent returns part/whole as a percentage capped at 100.
func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	if part >= whole {
		return 100
	}
	return float64(part) * 100 / float64(whole)
}
