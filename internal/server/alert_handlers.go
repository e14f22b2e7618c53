package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healthmateapp/healthmate-server/internal/adherence"
	"github.com/healthmateapp/healthmate-server/internal/utils"
)

// periodQuery parses the period query param, defaulting empty to daily.
func periodQuery(c *gin.Context) (adherence.Period, bool) {
	period, err := adherence.ParsePeriod(c.Query("period"))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return period, true
}

// startDateQuery parses the optional start_date query param.
func startDateQuery(c *gin.Context) (*time.Time, bool) {
	v := c.Query("start_date")
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(utils.DateLayout, v)
	if err != nil {
		respondBadRequest(c, "start_date must be YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

func (s *Server) handleGetAlerts(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	start, ok := startDateQuery(c)
	if !ok {
		return
	}
	if start == nil {
		now := utils.DateOnly(time.Now())
		start = &now
	}

	alerts, err := s.alerts.Generate(c.Request.Context(), currentUser(c).ID, period, *start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "alerts": alerts})
}

func (s *Server) handleGetAdherence(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	start, ok := startDateQuery(c)
	if !ok {
		return
	}

	summary, err := s.reports.AdherenceSummary(c.Request.Context(), currentUser(c).ID, period, start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"start_date":        summary.Start.Format(utils.DateLayout),
		"end_date":          summary.End.Format(utils.DateLayout),
		"total_scheduled":   summary.TotalScheduled,
		"total_completed":   summary.TotalCompleted,
		"adherence_percent": summary.Percent,
		"breakdown":         summary.Breakdown,
		"daily_adherence":   summary.Daily,
	})
}

func (s *Server) handleGetReportPDF(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	start, ok := startDateQuery(c)
	if !ok {
		return
	}

	user := currentUser(c)
	pdfBytes, summary, err := s.reports.RenderPDF(c.Request.Context(), user, period, start)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("healthmate-report-%s-%s.pdf", period, summary.End.Format(utils.DateLayout))
	c.Header("X-Adherence-Percent", strconv.FormatFloat(summary.Percent, 'f', 2, 64))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (s *Server) handleListInsights(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	insights, err := s.insights.List(c.Request.Context(), currentUser(c).ID, period, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "insights": insights})
}

func (s *Server) handleGenerateInsight(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	start, ok := startDateQuery(c)
	if !ok {
		return
	}
	if start == nil {
		now := utils.DateOnly(time.Now())
		start = &now
	}

	insight, err := s.insights.Generate(c.Request.Context(), currentUser(c).ID, period, *start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "insight": insight})
}
