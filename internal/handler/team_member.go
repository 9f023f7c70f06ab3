package handler

import (
	"context"
	"net/http"

	"coachloop/internal/logger"
	"coachloop/internal/model"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type TeamMemberStore interface {
	ListTeamMembers(ctx context.Context) ([]model.TeamMember, error)
	CreateTeamMember(ctx context.Context, name string) (*model.TeamMember, error)
	GetTeamMember(ctx context.Context, id string) (*model.TeamMember, error)
}

type SessionLister interface {
	ListSessions(ctx context.Context, teamMemberID string, limit int) ([]model.CoachingSession, error)
}

type TeamMemberHandler struct {
	members  TeamMemberStore
	sessions SessionLister
}

func NewTeamMemberHandler(members TeamMemberStore, sessions SessionLister) *TeamMemberHandler {
	return &TeamMemberHandler{members: members, sessions: sessions}
}

// GET /api/team-members
func (h *TeamMemberHandler) List(c *gin.Context) {
	members, err := h.members.ListTeamMembers(c.Request.Context())
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// POST /api/team-members  body: {"name":"..."}
func (h *TeamMemberHandler) Create(c *gin.Context) {
	var req model.CreateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.SubmitResponse{Message: "invalid request"})
		return
	}
	m, err := h.members.CreateTeamMember(c.Request.Context(), req.Name)
	if err != nil {
		respondFailure(c, err)
		return
	}
	logger.Info("team_member.created", "id", m.ID, "name", m.Name)
	c.JSON(http.StatusOK, m)
}

// GET /api/team-members/:id returns the member with every session, newest first.
func (h *TeamMemberHandler) Get(c *gin.Context) {
	id := c.Param("id")
	var (
		member   *model.TeamMember
		sessions []model.CoachingSession
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		member, err = h.members.GetTeamMember(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		sessions, err = h.sessions.ListSessions(ctx, id, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		respondFailure(c, err)
		return
	}
	if member == nil {
		c.JSON(http.StatusNotFound, model.SubmitResponse{Message: "Team member not found."})
		return
	}
	c.JSON(http.StatusOK, model.TeamMemberDetails{TeamMember: member, Sessions: sessions})
}
