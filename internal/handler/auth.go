package handler

import (
	"errors"
	"net/http"

	"coachloop/internal/logger"
	"coachloop/internal/middleware"
	"coachloop/internal/model"
	"coachloop/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *service.AuthService
	tokens *middleware.TokenIssuer
}

func NewAuthHandler(auth *service.AuthService, tokens *middleware.TokenIssuer) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	m, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			logger.Warn("login.failed", "username", req.Username)
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.Error("login.error", "username", req.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login unavailable"})
		return
	}

	token, err := h.tokens.Issue(m.ID, m.Name)
	if err != nil {
		logger.Error("login.sign_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login unavailable"})
		return
	}
	logger.Info("login.ok", "uid", m.ID, "name", m.Name)

	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User:  model.User{ID: m.ID, Name: m.Name},
	})
}
