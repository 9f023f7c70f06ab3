package service

import (
	"context"
	"errors"
	"strings"

	"coachloop/internal/logger"
	"coachloop/internal/model"

	"gorm.io/gorm"
)

// SessionService reads and writes coaching sessions.
type SessionService struct{ db *gorm.DB }

func NewSessionService(db *gorm.DB) *SessionService { return &SessionService{db: db} }

// --- reads ---

// ListSessions returns a team member's sessions newest first. limit <= 0 returns all.
func (s *SessionService) ListSessions(ctx context.Context, teamMemberID string, limit int) ([]model.CoachingSession, error) {
	teamMemberID = strings.TrimSpace(teamMemberID)
	if teamMemberID == "" {
		return nil, validationFailure("Team member ID must be a non-empty string.")
	}

	q := s.db.WithContext(ctx).
		Where("team_member_id = ?", teamMemberID).
		Order("session_date DESC").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []sessionRecord
	if err := q.Find(&recs).Error; err != nil {
		logger.Error("list sessions failed", "team_member_id", teamMemberID, "err", err)
		return nil, persistenceFailure("Could not fetch coaching sessions.", err)
	}

	sessions := make([]model.CoachingSession, 0, len(recs))
	for i := range recs {
		sessions = append(sessions, recs[i].toModel())
	}
	return sessions, nil
}

// GetSession returns nil, nil when the session does not exist.
func (s *SessionService) GetSession(ctx context.Context, id string) (*model.CoachingSession, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, validationFailure("Session ID is required.")
	}
	var rec sessionRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("get session failed", "id", id, "err", err)
		return nil, persistenceFailure("Could not fetch coaching session.", err)
	}
	sess := rec.toModel()
	return &sess, nil
}

// --- writes ---

// CreateSession stores a new session for teamMemberID and returns its id. The store
// stamps created_at; any CreatedAt on session is ignored.
func (s *SessionService) CreateSession(ctx context.Context, session *model.CoachingSession, teamMemberID string) (string, error) {
	teamMemberID = strings.TrimSpace(teamMemberID)
	if teamMemberID == "" {
		return "", validationFailure("Team member ID must be a non-empty string.")
	}
	if session == nil {
		return "", validationFailure("Session data cannot be empty.")
	}

	items, err := encodeActionItems(session.ActionItems)
	if err != nil {
		return "", persistenceFailure("Could not add coaching session.", err)
	}
	rec := sessionRecord{
		TeamMemberID:               teamMemberID,
		TeamMemberName:             session.TeamMemberName,
		SessionDate:                session.SessionDate.UTC(),
		Transcript:                 session.Transcript,
		GrowthThemes:               nonNil(session.GrowthThemes),
		SkillsToDevelop:            nonNil(session.SkillsToDevelop),
		SuggestedCoachingQuestions: nonNil(session.SuggestedCoachingQuestions),
		ActionItems:                items,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		logger.Error("create session failed", "team_member_id", teamMemberID, "err", err)
		return "", persistenceFailure("Could not add coaching session.", err)
	}
	return rec.ID, nil
}

// UpdateSessionActionItems replaces the whole action-item field in a single UPDATE.
// An empty, non-nil slice clears it.
func (s *SessionService) UpdateSessionActionItems(ctx context.Context, sessionID string, items []model.ActionItem) error {
	sessionID = strings.TrimSpace(sessionID)
	var issues []string
	if sessionID == "" {
		issues = append(issues, "Session ID is required.")
	}
	if items == nil {
		issues = append(issues, "Action items are required.")
	}
	if len(issues) > 0 {
		return validationFailure(issues...)
	}

	payload, err := encodeActionItems(items)
	if err != nil {
		return persistenceFailure("Could not update action items.", err)
	}
	res := s.db.WithContext(ctx).Model(&sessionRecord{}).Where("id = ?", sessionID).Update("action_items", payload)
	if res.Error != nil {
		logger.Error("update action items failed", "session_id", sessionID, "err", res.Error)
		return persistenceFailure("Could not update action items.", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundFailure("Coaching session " + sessionID + " not found.")
	}
	return nil
}

func (r *sessionRecord) toModel() model.CoachingSession {
	raw, err := decodeActionItems(r.ActionItems)
	if err != nil {
		logger.Warn("unreadable action items, treating as empty", "session_id", r.ID, "err", err)
	}
	sess := model.CoachingSession{
		ID:                         r.ID,
		TeamMemberID:               r.TeamMemberID,
		TeamMemberName:             r.TeamMemberName,
		SessionDate:                r.SessionDate.UTC(),
		Transcript:                 r.Transcript,
		GrowthThemes:               nonNil(r.GrowthThemes),
		SkillsToDevelop:            nonNil(r.SkillsToDevelop),
		SuggestedCoachingQuestions: nonNil(r.SuggestedCoachingQuestions),
		ActionItems:                NormalizeActionItems(raw, r.TeamMemberName, r.ID),
	}
	if !r.CreatedAt.IsZero() {
		t := r.CreatedAt.UTC()
		sess.CreatedAt = &t
	}
	return sess
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
