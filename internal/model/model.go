package model

import "time"

type ActionItemStatus string

const (
	StatusOpen       ActionItemStatus = "open"
	StatusInProgress ActionItemStatus = "in-progress"
	StatusDone       ActionItemStatus = "done"
)

// ParseStatus canonicalizes a stored or submitted status. The legacy spelling
// "in progress" is accepted.
func ParseStatus(s string) (ActionItemStatus, bool) {
	switch s {
	case "open":
		return StatusOpen, true
	case "in-progress", "in progress", "in_progress":
		return StatusInProgress, true
	case "done":
		return StatusDone, true
	}
	return "", false
}

type TeamMember struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type ActionItem struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Status      ActionItemStatus `json:"status"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	OwnerName   string           `json:"owner_name"`
}

// CoachingSession is one coaching conversation and its derived insights. Before it is
// persisted ID and CreatedAt are empty.
type CoachingSession struct {
	ID                         string       `json:"id,omitempty"`
	TeamMemberID               string       `json:"team_member_id"`
	TeamMemberName             string       `json:"team_member_name"`
	SessionDate                time.Time    `json:"session_date"`
	Transcript                 string       `json:"transcript"`
	GrowthThemes               []string     `json:"growth_themes"`
	SkillsToDevelop            []string     `json:"skills_to_develop"`
	SuggestedCoachingQuestions []string     `json:"suggested_coaching_questions"`
	ActionItems                []ActionItem `json:"action_items"`
	CreatedAt                  *time.Time   `json:"created_at,omitempty"`
}

// Insights is the model's output contract for one transcript.
type Insights struct {
	GrowthThemes               []string `json:"growthThemes"`
	SkillsToDevelop            []string `json:"skillsToDevelop"`
	SuggestedCoachingQuestions []string `json:"suggestedCoachingQuestions"`
	ActionItems                []string `json:"actionItems"`
}

func (i *Insights) Empty() bool {
	return i == nil || len(i.GrowthThemes) == 0 && len(i.SkillsToDevelop) == 0 &&
		len(i.SuggestedCoachingQuestions) == 0 && len(i.ActionItems) == 0
}

type Manager struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:64" json:"username"`
	Password string `json:"-"`
	Name     string `json:"name"`
}

func (Manager) TableName() string { return "managers" }
