package services

import (
	"context"
	"strings"
	"time"

	"mark2cure/models"

	"gorm.io/gorm"
)

type CommentView struct {
	ID       uint      `json:"id"`
	Username string    `json:"username"`
	Message  string    `json:"message"`
	Created  time.Time `json:"created"`
}

type Comments struct {
	db *gorm.DB
}

func NewComments(db *gorm.DB) *Comments {
	return &Comments{db: db}
}

// List returns the discussion of a document, oldest first.
func (c *Comments) List(ctx context.Context, docPK uint) ([]CommentView, error) {
	var comments []models.Comment
	err := c.db.WithContext(ctx).Preload("User").
		Where("document_id = ?", docPK).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, wrap("list comments", err)
	}
	out := make([]CommentView, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentView(cm))
	}
	return out, nil
}

func (c *Comments) Create(ctx context.Context, docPK, userID uint, message string) (*CommentView, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, wrap("create comment", models.ErrInvalidArgument)
	}
	cm := models.Comment{DocumentID: docPK, UserID: userID, Message: message}
	if err := c.db.WithContext(ctx).Create(&cm).Error; err != nil {
		return nil, wrap("create comment", err)
	}
	if err := c.db.WithContext(ctx).Preload("User").First(&cm, cm.ID).Error; err != nil {
		return nil, wrap("load comment", err)
	}
	v := commentView(cm)
	return &v, nil
}

// Delete removes a comment from a document. Only moderators may delete.
func (c *Comments) Delete(ctx context.Context, docPK, commentPK uint, by *models.User) error {
	if by == nil || !by.IsModerator() {
		return wrap("delete comment", models.ErrForbidden)
	}
	res := c.db.WithContext(ctx).Where("document_id = ?", docPK).Delete(&models.Comment{}, commentPK)
	if res.Error != nil {
		return wrap("delete comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete comment", models.ErrNotFound)
	}
	return nil
}

func commentView(cm models.Comment) CommentView {
	v := CommentView{ID: cm.ID, Message: cm.Message, Created: cm.CreatedAt}
	if cm.User != nil {
		v.Username = cm.User.Username
	}
	return v
}
