package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"mark2cure/models"

	"gorm.io/gorm"
)

// teamScoreWindow covers every point a team has ever earned.
const teamScoreWindow = 10000

type TeamDetail struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Created          time.Time `json:"created"`
	Owner            string    `json:"owner"`
	MembersCount     int64     `json:"members_count"`
	LastActiveUser   *string   `json:"last_active_user"`
	TotalAnnotations int64     `json:"total_annotations"`
	TotalDocuments   int64     `json:"total_documents"`
	FinishedQuests   int64     `json:"finished_quests"`
	TotalScore       int64     `json:"total_score"`
}

type Teams struct {
	db          *gorm.DB
	leaderboard *Leaderboard
}

func NewTeams(db *gorm.DB, lb *Leaderboard) *Teams {
	return &Teams{db: db, leaderboard: lb}
}

// Create makes a team owned by ownerID and moves the owner into it.
func (t *Teams) Create(ctx context.Context, ownerID uint, name, description string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, wrap("create team", models.ErrInvalidArgument)
	}

	team := &models.Team{OwnerID: ownerID, Name: name, Description: description}
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Team{}).Where("name = ?", name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return models.ErrTeamExists
		}
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		return joinTeam(tx, ownerID, &team.ID)
	})
	if err != nil {
		return nil, wrap("create team", err)
	}
	return team, nil
}

func joinTeam(tx *gorm.DB, userID uint, teamID *uint) error {
	var profile models.UserProfile
	if err := tx.Where(models.UserProfile{UserID: userID}).
		Attrs(*models.NewUserProfile(userID)).
		FirstOrCreate(&profile).Error; err != nil {
		return err
	}
	return tx.Model(&profile).Update("team_id", teamID).Error
}

func (t *Teams) Join(ctx context.Context, userID, teamPK uint) error {
	var team models.Team
	if err := t.db.WithContext(ctx).First(&team, teamPK).Error; err != nil {
		return wrap("load team", err)
	}
	if err := joinTeam(t.db.WithContext(ctx), userID, &team.ID); err != nil {
		return wrap("join team", err)
	}
	return nil
}

func (t *Teams) Leave(ctx context.Context, userID uint) error {
	if err := joinTeam(t.db.WithContext(ctx), userID, nil); err != nil {
		return wrap("leave team", err)
	}
	return nil
}

func (t *Teams) members(ctx context.Context, teamPK uint) *gorm.DB {
	return t.db.WithContext(ctx).Model(&models.UserProfile{}).Select("user_id").Where("team_id = ?", teamPK)
}

// Get returns the team with its activity totals.
func (t *Teams) Get(ctx context.Context, teamPK uint) (*TeamDetail, error) {
	var team models.Team
	if err := t.db.WithContext(ctx).Preload("Owner").First(&team, teamPK).Error; err != nil {
		return nil, wrap("load team", err)
	}

	out := &TeamDetail{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		Created:     team.CreatedAt,
	}
	if team.Owner != nil {
		out.Owner = team.Owner.Username
	}

	if err := t.members(ctx, teamPK).Count(&out.MembersCount).Error; err != nil {
		return nil, wrap("count members", err)
	}

	last, err := t.LastActiveUser(ctx, teamPK)
	if err != nil {
		return nil, err
	}
	if last != nil {
		out.LastActiveUser = &last.Username
	}

	annotations := t.db.WithContext(ctx).Table("annotations").
		Joins("JOIN views ON views.id = annotations.view_id").
		Where("views.user_id IN (?)", t.members(ctx, teamPK))
	if err := annotations.Count(&out.TotalAnnotations).Error; err != nil {
		return nil, wrap("count team annotations", err)
	}

	err = t.db.WithContext(ctx).Table("annotations").
		Joins("JOIN views ON views.id = annotations.view_id").
		Joins("JOIN sections ON sections.id = views.section_id").
		Where("views.user_id IN (?)", t.members(ctx, teamPK)).
		Distinct("sections.document_id").
		Count(&out.TotalDocuments).Error
	if err != nil {
		return nil, wrap("count team documents", err)
	}

	err = t.db.WithContext(ctx).Model(&models.UserQuestRelationship{}).
		Where("completed = ? AND user_id IN (?)", true, t.members(ctx, teamPK)).
		Count(&out.FinishedQuests).Error
	if err != nil {
		return nil, wrap("count team quests", err)
	}

	if out.TotalScore, err = t.TotalScore(ctx, teamPK); err != nil {
		return nil, err
	}
	return out, nil
}

// LastActiveUser returns the member seen most recently, or nil when the team
// has no members. Members never seen sort after every seen member.
func (t *Teams) LastActiveUser(ctx context.Context, teamPK uint) (*models.User, error) {
	var profile models.UserProfile
	err := t.db.WithContext(ctx).Preload("User").
		Where("team_id = ?", teamPK).
		Order("last_seen IS NULL, last_seen DESC, id").
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("last active member", err)
	}
	return profile.User, nil
}

func (t *Teams) TotalScore(ctx context.Context, teamPK uint) (int64, error) {
	users, err := t.leaderboard.UsersWithScore(ctx, teamScoreWindow)
	if err != nil {
		return 0, err
	}
	var ids []uint
	if err := t.members(ctx, teamPK).Pluck("user_id", &ids).Error; err != nil {
		return 0, wrap("team members", err)
	}
	member := make(map[uint]bool, len(ids))
	for _, id := range ids {
		member[id] = true
	}
	var total int64
	for _, u := range users {
		if member[u.UserID] {
			total += u.Score
		}
	}
	return total, nil
}
