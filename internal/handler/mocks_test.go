package handler

import (
	"context"

	"coachloop/internal/model"
	"coachloop/internal/service"
)

type mockWorkflow struct {
	SubmitFunc func(ctx context.Context, req model.SubmitRequest, progress func(service.Stage)) (*model.CoachingSession, error)
	UpdateFunc func(ctx context.Context, sessionID string, items []model.ActionItem) error
}

func (m *mockWorkflow) SubmitWithProgress(ctx context.Context, req model.SubmitRequest, progress func(service.Stage)) (*model.CoachingSession, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req, progress)
	}
	return nil, nil
}

func (m *mockWorkflow) UpdateActionItemsAsync(ctx context.Context, sessionID string, items []model.ActionItem) <-chan error {
	ch := make(chan error, 1)
	if m.UpdateFunc != nil {
		ch <- m.UpdateFunc(ctx, sessionID, items)
	} else {
		ch <- nil
	}
	close(ch)
	return ch
}

type mockSessions struct {
	GetFunc    func(ctx context.Context, id string) (*model.CoachingSession, error)
	ListFunc   func(ctx context.Context, teamMemberID string, limit int) ([]model.CoachingSession, error)
	CreateFunc func(ctx context.Context, session *model.CoachingSession, teamMemberID string) (string, error)
}

func (m *mockSessions) GetSession(ctx context.Context, id string) (*model.CoachingSession, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSessions) ListSessions(ctx context.Context, teamMemberID string, limit int) ([]model.CoachingSession, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, teamMemberID, limit)
	}
	return []model.CoachingSession{}, nil
}

func (m *mockSessions) CreateSession(ctx context.Context, session *model.CoachingSession, teamMemberID string) (string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session, teamMemberID)
	}
	return "new-session", nil
}

type mockMembers struct {
	ListFunc   func(ctx context.Context) ([]model.TeamMember, error)
	CreateFunc func(ctx context.Context, name string) (*model.TeamMember, error)
	GetFunc    func(ctx context.Context, id string) (*model.TeamMember, error)
}

func (m *mockMembers) ListTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []model.TeamMember{}, nil
}

func (m *mockMembers) CreateTeamMember(ctx context.Context, name string) (*model.TeamMember, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name)
	}
	return &model.TeamMember{ID: "tm-" + name, Name: name}, nil
}

func (m *mockMembers) GetTeamMember(ctx context.Context, id string) (*model.TeamMember, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}
