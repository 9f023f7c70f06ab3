package service

import (
	"context"
	"errors"
	"strings"

	"coachloop/internal/logger"
	"coachloop/internal/model"

	"gorm.io/gorm"
)

type TeamMemberService struct{ db *gorm.DB }

func NewTeamMemberService(db *gorm.DB) *TeamMemberService { return &TeamMemberService{db: db} }

func (s *TeamMemberService) CreateTeamMember(ctx context.Context, name string) (*model.TeamMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationFailure("Team member name must be a non-empty string.")
	}
	rec := teamMemberRecord{Name: name}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		logger.Error("create team member failed", "name", name, "err", err)
		return nil, persistenceFailure("Could not add team member.", err)
	}
	return rec.toModel(), nil
}

// ListTeamMembers returns every team member ordered by name.
func (s *TeamMemberService) ListTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	var recs []teamMemberRecord
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&recs).Error; err != nil {
		logger.Error("list team members failed", "err", err)
		return nil, persistenceFailure("Could not fetch team members.", err)
	}
	members := make([]model.TeamMember, 0, len(recs))
	for i := range recs {
		members = append(members, *recs[i].toModel())
	}
	return members, nil
}

// GetTeamMember returns nil, nil when no team member has the id.
func (s *TeamMemberService) GetTeamMember(ctx context.Context, id string) (*model.TeamMember, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, validationFailure("Team member ID must be a non-empty string.")
	}
	var rec teamMemberRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("get team member failed", "id", id, "err", err)
		return nil, persistenceFailure("Could not fetch team member.", err)
	}
	return rec.toModel(), nil
}

// MatchTeamMember picks the member named name. Exact and case-insensitive matches win;
// otherwise a single member whose name contains name (or is contained in it) matches.
// Ambiguous containment returns nil so the caller treats the name as unmatched.
func MatchTeamMember(name string, members []model.TeamMember) *model.TeamMember {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for i := range members {
		if members[i].Name == name {
			return &members[i]
		}
	}
	for i := range members {
		if strings.EqualFold(members[i].Name, name) {
			return &members[i]
		}
	}
	lower := strings.ToLower(name)
	var found *model.TeamMember
	for i := range members {
		m := strings.ToLower(members[i].Name)
		if !strings.Contains(m, lower) && !strings.Contains(lower, m) {
			continue
		}
		if found != nil {
			return nil
		}
		found = &members[i]
	}
	return found
}

func (r *teamMemberRecord) toModel() *model.TeamMember {
	m := &model.TeamMember{ID: r.ID, Name: r.Name}
	if !r.CreatedAt.IsZero() {
		t := r.CreatedAt.UTC()
		m.CreatedAt = &t
	}
	return m
}
