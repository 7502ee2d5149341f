package services

import (
	"context"
	"strings"
	"time"

	"mark2cure/models"

	"gorm.io/gorm"
)

// ProfileUpdate carries the editable profile fields; nil leaves a field as is.
type ProfileUpdate struct {
	Timezone         *string
	EmailNotify      *bool
	Gender           *string
	Age              *int
	Occupation       *string
	Education        *int
	ScienceEducation *int
	Country          *string
	Referral         *string
	Motivation       *string
	Quote            *string
}

type ProfileSummary struct {
	Username         string              `json:"username"`
	Profile          *models.UserProfile `json:"profile"`
	Team             *string             `json:"team"`
	Online           bool                `json:"online"`
	LastSeenLocal    *time.Time          `json:"last_seen_local"`
	Education        string              `json:"education_label"`
	AnnotationsCount int64               `json:"annotations_count"`
	QuestsCount      int64               `json:"quests_count"`
	NERScore         int64               `json:"ner_score"`
	REScore          int64               `json:"re_score"`
	SkillLevel       models.BadgeAward   `json:"skill_level"`
}

type Profiles struct {
	db            *gorm.DB
	onlineTimeout time.Duration
	now           func() time.Time
}

func NewProfiles(db *gorm.DB, onlineTimeout time.Duration) *Profiles {
	return &Profiles{db: db, onlineTimeout: onlineTimeout, now: utcNow}
}

// GetOrCreate returns the user's profile, creating a default one on first
// access.
func (p *Profiles) GetOrCreate(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := p.db.WithContext(ctx).
		Where(models.UserProfile{UserID: userID}).
		Attrs(*models.NewUserProfile(userID)).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, wrap("get profile", err)
	}
	return &profile, nil
}

func (p *Profiles) Update(ctx context.Context, userID uint, in ProfileUpdate) (*models.UserProfile, error) {
	profile, err := p.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if in.Timezone != nil {
		if _, err := time.LoadLocation(*in.Timezone); err != nil || *in.Timezone == "" {
			return nil, wrap("timezone "+*in.Timezone, models.ErrInvalidArgument)
		}
		changes["timezone"] = *in.Timezone
	}
	if in.EmailNotify != nil {
		changes["email_notify"] = *in.EmailNotify
	}
	if in.Gender != nil {
		if *in.Gender == "" {
			changes["gender"] = nil
		} else {
			changes["gender"] = *in.Gender
		}
	}
	if in.Age != nil {
		changes["age"] = *in.Age
	}
	if in.Occupation != nil {
		changes["occupation"] = *in.Occupation
	}
	if in.Education != nil {
		changes["education"] = *in.Education
	}
	if in.ScienceEducation != nil {
		changes["science_education"] = *in.ScienceEducation
	}
	if in.Country != nil {
		changes["country"] = strings.ToUpper(*in.Country)
	}
	if in.Referral != nil {
		changes["referral"] = *in.Referral
	}
	if in.Motivation != nil {
		changes["motivation"] = *in.Motivation
	}
	if in.Quote != nil {
		changes["quote"] = *in.Quote
	}

	if len(changes) > 0 {
		if err := p.db.WithContext(ctx).Model(profile).Updates(changes).Error; err != nil {
			return nil, wrap("update profile", err)
		}
	}
	return p.GetOrCreate(ctx, userID)
}

// Touch records that the user was just seen.
func (p *Profiles) Touch(ctx context.Context, userID uint) error {
	profile, err := p.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if err := p.db.WithContext(ctx).Model(profile).UpdateColumn("last_seen", p.now()).Error; err != nil {
		return wrap("touch profile", err)
	}
	return nil
}

func (p *Profiles) Score(ctx context.Context, userID uint, task string) (int64, error) {
	return score(ctx, p.db, userID, task)
}

func (p *Profiles) AnnotationsCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := p.db.WithContext(ctx).Model(&models.Annotation{}).
		Joins("JOIN views ON views.id = annotations.view_id").
		Where("views.user_id = ?", userID).
		Count(&n).Error
	if err != nil {
		return 0, wrap("count annotations", err)
	}
	return n, nil
}

func (p *Profiles) QuestsCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := p.db.WithContext(ctx).Model(&models.UserQuestRelationship{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&n).Error
	if err != nil {
		return 0, wrap("count quests", err)
	}
	return n, nil
}

// HighestLevel returns the user's best award for slug, or a zero award.
func (p *Profiles) HighestLevel(ctx context.Context, userID uint, slug string) (models.BadgeAward, error) {
	var award models.BadgeAward
	err := p.db.WithContext(ctx).
		Where("user_id = ? AND slug = ?", userID, slug).
		Order("level DESC").
		Limit(1).
		Find(&award).Error
	if err != nil {
		return models.BadgeAward{}, wrap("highest level", err)
	}
	return award, nil
}

// Summary builds the public profile page of username.
func (p *Profiles) Summary(ctx context.Context, username string) (*ProfileSummary, error) {
	var user models.User
	if err := p.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrap("load user", err)
	}
	profile, err := p.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	out := &ProfileSummary{
		Username:  user.Username,
		Profile:   profile,
		Online:    profile.Online(p.now(), p.onlineTimeout),
		Education: models.EducationLabel(profile.Education),
	}
	if profile.LastSeen != nil {
		local := profile.LastSeen.In(profile.Location())
		out.LastSeenLocal = &local
	}
	if profile.TeamID != nil {
		var team models.Team
		if err := p.db.WithContext(ctx).First(&team, *profile.TeamID).Error; err == nil {
			out.Team = &team.Name
		}
	}
	if out.AnnotationsCount, err = p.AnnotationsCount(ctx, user.ID); err != nil {
		return nil, err
	}
	if out.QuestsCount, err = p.QuestsCount(ctx, user.ID); err != nil {
		return nil, err
	}
	if out.NERScore, err = p.Score(ctx, user.ID, models.PointTaskEntityRecognition); err != nil {
		return nil, err
	}
	if out.REScore, err = p.Score(ctx, user.ID, models.PointTaskRelation); err != nil {
		return nil, err
	}
	if out.SkillLevel, err = p.HighestLevel(ctx, user.ID, "skill"); err != nil {
		return nil, err
	}
	return out, nil
}
