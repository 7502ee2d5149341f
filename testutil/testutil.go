// Package testutil opens migrated in-memory databases and seeds fixtures for
// package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"mark2cure/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens an in-memory SQLite database unique to the test and migrates
// every model.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.org", PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	require.NoError(t, db.Create(models.NewUserProfile(u.ID)).Error)
	return u
}

func CreateTeam(t *testing.T, db *gorm.DB, owner *models.User, name string, members ...*models.User) *models.Team {
	t.Helper()
	team := &models.Team{OwnerID: owner.ID, Name: name}
	require.NoError(t, db.Create(team).Error)
	for _, m := range members {
		require.NoError(t, db.Model(&models.UserProfile{}).
			Where("user_id = ?", m.ID).
			Update("team_id", team.ID).Error)
	}
	return team
}

// CreateDocument stores a document with a title and an abstract section.
func CreateDocument(t *testing.T, db *gorm.DB, pmid int, title, abstract string) *models.Document {
	t.Helper()
	doc := &models.Document{DocumentID: pmid, Title: title, Source: "pubmed"}
	require.NoError(t, db.Create(doc).Error)
	require.NoError(t, db.Create(&models.Section{DocumentID: doc.ID, Kind: models.SectionTitle, Text: title}).Error)
	require.NoError(t, db.Create(&models.Section{DocumentID: doc.ID, Kind: models.SectionAbstract, Text: abstract}).Error)
	require.NoError(t, db.Preload("Sections").First(doc, doc.ID).Error)
	return doc
}

// CreateView records a view of the document's abstract section.
func CreateView(t *testing.T, db *gorm.DB, user *models.User, doc *models.Document, taskType string, completed bool) *models.View {
	t.Helper()
	var section models.Section
	require.NoError(t, db.Where("document_id = ? AND kind = ?", doc.ID, models.SectionAbstract).First(&section).Error)
	v := &models.View{UserID: user.ID, SectionID: section.ID, TaskType: taskType, Completed: completed}
	require.NoError(t, db.Create(v).Error)
	return v
}

func CreateAnnotation(t *testing.T, db *gorm.DB, view *models.View, kind, typ, text string) *models.Annotation {
	t.Helper()
	a := &models.Annotation{ViewID: view.ID, Kind: kind, Type: typ, Text: text}
	require.NoError(t, db.Create(a).Error)
	return a
}

func CreatePoint(t *testing.T, db *gorm.DB, user *models.User, amount int, task string, created time.Time) *models.Point {
	t.Helper()
	p := &models.Point{UserID: user.ID, Amount: amount, Task: task, CreatedAt: created.UTC()}
	require.NoError(t, db.Create(p).Error)
	return p
}

func CreateGroup(t *testing.T, db *gorm.DB, stub string, order int) *models.Group {
	t.Helper()
	g := &models.Group{Name: strings.ToUpper(stub), Stub: stub, Description: stub + " group", Enabled: true, Order: order}
	require.NoError(t, db.Create(g).Error)
	return g
}

func CreateQuest(t *testing.T, db *gorm.DB, group *models.Group, name string, docs ...*models.Document) *models.Task {
	t.Helper()
	task := &models.Task{Name: name, Kind: models.TaskKindQuest, GroupID: &group.ID, Points: 50, Completions: 2}
	require.NoError(t, db.Create(task).Error)
	if len(docs) > 0 {
		require.NoError(t, db.Model(task).Association("Documents").Append(docs))
	}
	return task
}

func CompleteQuest(t *testing.T, db *gorm.DB, user *models.User, task *models.Task) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserQuestRelationship{TaskID: task.ID, UserID: user.ID, Completed: true}).Error)
}
