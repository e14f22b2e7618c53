// Package server wires the HTTP API: route registration, JWT
// authentication, and thin handlers that translate between JSON and the
// service layer.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/healthmateapp/healthmate-server/internal/config"
	"github.com/healthmateapp/healthmate-server/internal/logger"
	"github.com/healthmateapp/healthmate-server/internal/services"
)

type Server struct {
	cfg         *config.Config
	engine      *gin.Engine
	users       *services.UserService
	medications *services.MedicationService
	bp          *services.BloodPressureService
	sugar       *services.BloodSugarService
	alerts      *services.AlertService
	reports     *services.ReportService
	insights    *services.InsightService
	chats       *services.ChatService
}

type Services struct {
	Users       *services.UserService
	Medications *services.MedicationService
	BP          *services.BloodPressureService
	Sugar       *services.BloodSugarService
	Alerts      *services.AlertService
	Reports     *services.ReportService
	Insights    *services.InsightService
	Chats       *services.ChatService
}

func New(cfg *config.Config, svcs Services) *Server {
	s := &Server{
		cfg:         cfg,
		users:       svcs.Users,
		medications: svcs.Medications,
		bp:          svcs.BP,
		sugar:       svcs.Sugar,
		alerts:      svcs.Alerts,
		reports:     svcs.Reports,
		insights:    svcs.Insights,
		chats:       svcs.Chats,
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "X-Adherence-Percent"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := r.Group("/api/users")
	{
		users.POST("/register", s.handleRegister)
		users.POST("/login", s.handleLogin)
		users.POST("/forgot-password", s.handleForgotPassword)
		users.POST("/reset-password", s.handleResetPassword)
		users.POST("/verify-email", s.handleVerifyEmail)

		me := users.Group("")
		me.Use(s.authRequired())
		me.GET("/me", s.handleGetProfile)
		me.PUT("/me", s.handleUpdateProfile)
	}

	api := r.Group("/api")
	api.Use(s.authRequired())
	{
		api.POST("/medications", s.handleAddMedication)
		api.GET("/medications", s.handleListMedications)
		api.PUT("/medications/:id", s.handleUpdateMedication)
		api.DELETE("/medications/:id", s.handleDeleteMedication)
		api.POST("/medications/:id/schedules", s.handleAddMedicationSchedule)
		api.PUT("/medications/schedules/:id", s.handleUpdateMedicationSchedule)
		api.DELETE("/medications/schedules/:id", s.handleDeleteMedicationSchedule)
		api.POST("/medications/logs", s.handleLogDose)
		api.GET("/medications/logs", s.handleListDoseLogs)

		api.POST("/bp/schedules", s.handleAddBPSchedule)
		api.GET("/bp/schedules", s.handleListBPSchedules)
		api.PUT("/bp/schedules/:id", s.handleUpdateBPSchedule)
		api.DELETE("/bp/schedules/:id", s.handleDeleteBPSchedule)
		api.POST("/bp/logs", s.handleAddBPLog)
		api.GET("/bp/logs", s.handleListBPLogs)

		api.POST("/sugar/schedules", s.handleAddSugarSchedule)
		api.GET("/sugar/schedules", s.handleListSugarSchedules)
		api.PUT("/sugar/schedules/:id", s.handleUpdateSugarSchedule)
		api.DELETE("/sugar/schedules/:id", s.handleDeleteSugarSchedule)
		api.POST("/sugar/logs", s.handleAddSugarLog)
		api.GET("/sugar/logs", s.handleListSugarLogs)

		api.POST("/alerts", s.handleGetAlerts)
		api.POST("/reports", s.handleGetReportPDF)
		api.GET("/reports/adherence", s.handleGetAdherence)

		api.GET("/insights", s.handleListInsights)
		api.POST("/insights/generate", s.handleGenerateInsight)

		api.POST("/chats", s.handleCreateChat)
		api.GET("/chats", s.handleListChats)
		api.GET("/chats/:id/messages", s.handleListChatMessages)
		api.POST("/chats/:id/messages", s.handleSendChatMessage)
		api.DELETE("/chats/:id", s.handleDeleteChat)
	}

	return r
}

// Run blocks serving HTTP until the listener fails.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Server.Port)
	logger.Infof("HTTP server listening on %s", addr)
	return s.engine.Run(addr)
}

// Engine exposes the router, for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
