package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"coachloop/internal/config"
	"coachloop/internal/handler"
	"coachloop/internal/llm"
	"coachloop/internal/logger"
	"coachloop/internal/middleware"
	"coachloop/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := service.Migrate(db); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	completer, err := llm.New(cfg.LLM)
	if err != nil {
		slog.Error("llm client init failed", "err", err)
		os.Exit(1)
	}
	if cfg.LLM.APIKey == "" {
		slog.Warn("llm api key is empty, extraction calls will fail", "provider", cfg.LLM.Provider)
	}

	aiSvc := service.NewAIService(completer, service.NewLimiter(cfg.LLM.RequestsPerMinute))
	memberSvc := service.NewTeamMemberService(db)
	sessionSvc := service.NewSessionService(db)
	authSvc := service.NewAuthService(db)
	flow := service.NewWorkflow(memberSvc, sessionSvc, aiSvc, cfg.Coaching)
	tokens := middleware.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authH := handler.NewAuthHandler(authSvc, tokens)
	memberH := handler.NewTeamMemberHandler(memberSvc, sessionSvc)
	sessionH := handler.NewSessionHandler(flow, sessionSvc)
	importH := handler.NewImportHandler(memberSvc, sessionSvc)
	defer importH.Close()

	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-New-Token", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/api/login", authH.Login)

	api := r.Group("/api", middleware.JWTAuth(tokens))
	api.GET("/team-members", memberH.List)
	api.POST("/team-members", memberH.Create)
	api.GET("/team-members/:id", memberH.Get)
	api.POST("/sessions", sessionH.Submit)
	api.POST("/sessions/stream", sessionH.SubmitStream)
	api.GET("/sessions/:id", sessionH.Get)
	api.PUT("/sessions/:id/action-items", sessionH.UpdateActionItems)
	api.GET("/sessions/:id/export", sessionH.Export)
	api.POST("/import/preview", importH.Preview)
	api.POST("/import/confirm", importH.Confirm)

	slog.Info("server starting", "addr", cfg.Addr(), "db", cfg.Database.Driver, "llm", cfg.LLM.Provider)
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
