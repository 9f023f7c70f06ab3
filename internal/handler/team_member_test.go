package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"coachloop/internal/model"
	"coachloop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberRouter(members *mockMembers, sessions *mockSessions) *gin.Engine {
	h := NewTeamMemberHandler(members, sessions)
	r := gin.New()
	r.GET("/api/team-members", h.List)
	r.POST("/api/team-members", h.Create)
	r.GET("/api/team-members/:id", h.Get)
	return r
}

func TestTeamMemberListAndCreate(t *testing.T) {
	members := &mockMembers{
		ListFunc: func(context.Context) ([]model.TeamMember, error) {
			return []model.TeamMember{{ID: "1", Name: "Ada"}, {ID: "2", Name: "Bo"}}, nil
		},
		CreateFunc: func(_ context.Context, name string) (*model.TeamMember, error) {
			if name == "" {
				return nil, &service.Failure{Kind: service.KindValidation, Message: "Invalid form data."}
			}
			return &model.TeamMember{ID: "3", Name: name}, nil
		},
	}
	r := memberRouter(members, &mockSessions{})

	w := doJSON(r, http.MethodGet, "/api/team-members", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.TeamMember
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = doJSON(r, http.MethodPost, "/api/team-members", map[string]string{"name": "Cy"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"3","name":"Cy"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/team-members", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamMemberDetails(t *testing.T) {
	members := &mockMembers{GetFunc: func(_ context.Context, id string) (*model.TeamMember, error) {
		if id == "1" {
			return &model.TeamMember{ID: "1", Name: "Ada"}, nil
		}
		return nil, nil
	}}
	var gotLimit = -1
	sessions := &mockSessions{ListFunc: func(_ context.Context, id string, limit int) ([]model.CoachingSession, error) {
		gotLimit = limit
		if id == "1" {
			return []model.CoachingSession{*sampleSession()}, nil
		}
		return []model.CoachingSession{}, nil
	}}
	r := memberRouter(members, sessions)

	w := doJSON(r, http.MethodGet, "/api/team-members/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var details model.TeamMemberDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	assert.Equal(t, "Ada", details.TeamMember.Name)
	assert.Len(t, details.Sessions, 1)
	assert.Equal(t, 0, gotLimit)

	w = doJSON(r, http.MethodGet, "/api/team-members/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamMemberDetailsStoreError(t *testing.T) {
	members := &mockMembers{GetFunc: func(context.Context, string) (*model.TeamMember, error) {
		return &model.TeamMember{ID: "1", Name: "Ada"}, nil
	}}
	sessions := &mockSessions{ListFunc: func(context.Context, string, int) ([]model.CoachingSession, error) {
		return nil, &service.Failure{Kind: service.KindPersistence, Message: "Could not fetch coaching sessions."}
	}}
	w := doJSON(memberRouter(members, sessions), http.MethodGet, "/api/team-members/1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
