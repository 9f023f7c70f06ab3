package service

import (
	"time"

	"coachloop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storage shapes. They differ from the model types: dates are store timestamps, action
// items are a JSON column that may still hold legacy plain strings.

type teamMemberRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:255;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (teamMemberRecord) TableName() string { return "team_members" }

func (r *teamMemberRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type sessionRecord struct {
	ID                         string    `gorm:"primaryKey;size:36"`
	TeamMemberID               string    `gorm:"size:36;not null;index:idx_member_date,priority:1"`
	TeamMemberName             string    `gorm:"size:255"`
	SessionDate                time.Time `gorm:"not null;index:idx_member_date,priority:2"`
	Transcript                 string    `gorm:"type:text"`
	GrowthThemes               []string  `gorm:"type:text;serializer:json"`
	SkillsToDevelop            []string  `gorm:"type:text;serializer:json"`
	SuggestedCoachingQuestions []string  `gorm:"type:text;serializer:json"`
	ActionItems                string    `gorm:"type:text"`
	CreatedAt                  time.Time `gorm:"autoCreateTime"`
}

func (sessionRecord) TableName() string { return "coaching_sessions" }

func (r *sessionRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&teamMemberRecord{}, &sessionRecord{}, &model.Manager{})
}
