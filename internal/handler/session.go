package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"coachloop/internal/logger"
	"coachloop/internal/model"
	"coachloop/internal/service"

	"github.com/gin-gonic/gin"
)

const submitSuccessMessage = "Transcript processed and session saved successfully!"

type SessionWorkflow interface {
	SubmitWithProgress(ctx context.Context, req model.SubmitRequest, progress func(service.Stage)) (*model.CoachingSession, error)
	UpdateActionItemsAsync(ctx context.Context, sessionID string, items []model.ActionItem) <-chan error
}

type SessionReader interface {
	GetSession(ctx context.Context, id string) (*model.CoachingSession, error)
}

type SessionHandler struct {
	flow     SessionWorkflow
	sessions SessionReader
}

func NewSessionHandler(flow SessionWorkflow, sessions SessionReader) *SessionHandler {
	return &SessionHandler{flow: flow, sessions: sessions}
}

// POST /api/sessions
func (h *SessionHandler) Submit(c *gin.Context) {
	var req model.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.SubmitResponse{Message: "invalid request"})
		return
	}
	logger.Info("session.submit", "uid", c.GetInt("user_id"), "team_member_id", req.TeamMemberID,
		"transcript_len", len(req.Transcript), "session_date", req.SessionDate)

	sess, err := h.flow.SubmitWithProgress(c.Request.Context(), req, nil)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SubmitResponse{Message: submitSuccessMessage, Data: sess})
}

// POST /api/sessions/stream
func (h *SessionHandler) SubmitStream(c *gin.Context) {
	var req model.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.SubmitResponse{Message: "invalid request"})
		return
	}

	sse := newSSEWriter(c)
	sess, err := h.flow.SubmitWithProgress(c.Request.Context(), req, func(s service.Stage) {
		sse.event("stage", map[string]string{"stage": s.String()})
	})
	if err != nil {
		status, body := failureBody(err)
		sse.event("error", gin.H{"status": status, "message": body.Message, "issues": body.Issues})
	} else {
		sse.event("result", model.SubmitResponse{Message: submitSuccessMessage, Data: sess})
	}
	sse.done()
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	sess, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess)
}

// PUT /api/sessions/:id/action-items
//
// The write is detached from the request: a client that disconnects still gets its
// change persisted, and is told 202 if it is still listening when the context ends.
func (h *SessionHandler) UpdateActionItems(c *gin.Context) {
	var req model.UpdateActionItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.UpdateActionItemsResponse{Message: "invalid request: " + err.Error()})
		return
	}

	id := c.Param("id")
	select {
	case err := <-h.flow.UpdateActionItemsAsync(c.Request.Context(), id, req.ActionItems):
		if err != nil {
			status, body := failureBody(err)
			c.JSON(status, model.UpdateActionItemsResponse{Message: body.Message})
			return
		}
		c.JSON(http.StatusOK, model.UpdateActionItemsResponse{Success: true})
	case <-c.Request.Context().Done():
		logger.Warn("session.update_action_items.detached", "session_id", id)
		c.JSON(http.StatusAccepted, model.UpdateActionItemsResponse{Success: true, Message: "update in progress"})
	}
}

// GET /api/sessions/:id/export?format=txt|pdf
func (h *SessionHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "txt")
	if format != "txt" && format != "pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be txt or pdf"})
		return
	}
	sess, ok := h.load(c)
	if !ok {
		return
	}

	disposition := fmt.Sprintf("attachment; filename=%q", service.ExportFileName(sess, format))
	if format == "txt" {
		c.Header("Content-Disposition", disposition)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.FormatSessionText(sess)))
		return
	}

	var buf bytes.Buffer
	if err := service.RenderSessionPDF(&buf, sess); err != nil {
		logger.Error("session.export.pdf_failed", "session_id", sess.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *SessionHandler) load(c *gin.Context) (*model.CoachingSession, bool) {
	sess, err := h.sessions.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondFailure(c, err)
		return nil, false
	}
	if sess == nil {
		c.JSON(http.StatusNotFound, model.SubmitResponse{Message: "Coaching session not found."})
		return nil, false
	}
	return sess, true
}
