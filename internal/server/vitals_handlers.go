package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthmateapp/healthmate-server/internal/domain"
)

func (s *Server) handleAddBPSchedule(c *gin.Context) {
	var input domain.CheckScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Time and start date are required")
		return
	}
	schedule, err := s.bp.AddSchedule(c.Request.Context(), currentUser(c).ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "schedule": schedule})
}

func (s *Server) handleListBPSchedules(c *gin.Context) {
	schedules, err := s.bp.ListSchedules(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "schedules": schedules})
}

func (s *Server) handleUpdateBPSchedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var update domain.CheckScheduleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "Invalid schedule payload")
		return
	}
	schedule, err := s.bp.UpdateSchedule(c.Request.Context(), currentUser(c).ID, id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "schedule": schedule})
}

func (s *Server) handleDeleteBPSchedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.bp.DeleteSchedule(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleAddBPLog(c *gin.Context) {
	var input domain.BPLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Systolic (1-299) and diastolic (1-199) are required")
		return
	}
	log, err := s.bp.AddLog(c.Request.Context(), currentUser(c).ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "log": log})
}

func (s *Server) handleListBPLogs(c *gin.Context) {
	from, to, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	logs, err := s.bp.ListLogs(c.Request.Context(), currentUser(c).ID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": logs})
}

func (s *Server) handleAddSugarSchedule(c *gin.Context) {
	var input domain.CheckScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Time and start date are required")
		return
	}
	schedule, err := s.sugar.AddSchedule(c.Request.Context(), currentUser(c).ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "schedule": schedule})
}

func (s *Server) handleListSugarSchedules(c *gin.Context) {
	schedules, err := s.sugar.ListSchedules(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "schedules": schedules})
}

func (s *Server) handleUpdateSugarSchedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var update domain.CheckScheduleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "Invalid schedule payload")
		return
	}
	schedule, err := s.sugar.UpdateSchedule(c.Request.Context(), currentUser(c).ID, id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "schedule": schedule})
}

func (s *Server) handleDeleteSugarSchedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.sugar.DeleteSchedule(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleAddSugarLog(c *gin.Context) {
	var input domain.SugarLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Value (1-999) and type (fasting or random) are required")
		return
	}
	log, err := s.sugar.AddLog(c.Request.Context(), currentUser(c).ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "log": log})
}

func (s *Server) handleListSugarLogs(c *gin.Context) {
	from, to, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	logs, err := s.sugar.ListLogs(c.Request.Context(), currentUser(c).ID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": logs})
}
