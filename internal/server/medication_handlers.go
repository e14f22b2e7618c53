package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healthmateapp/healthmate-server/internal/domain"
	"github.com/healthmateapp/healthmate-server/internal/utils"
)

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// dateRangeQuery reads the from/to query params, defaulting to the last
// 30 days ending today.
func dateRangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -29)
	to := now

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(utils.DateLayout, v)
		if err != nil {
			respondBadRequest(c, "from must be YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(utils.DateLayout, v)
		if err != nil {
			respondBadRequest(c, "to must be YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	if to.Before(from) {
		respondBadRequest(c, "to must not precede from")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (s *Server) handleAddMedication(c *gin.Context) {
	var input domain.MedicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Medicine name, strength, and a positive duration are required")
		return
	}

	medication, err := s.medications.AddMedication(c.Request.Context(), currentUser(c).ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "medication": medication})
}

func (s *Server) handleListMedications(c *gin.Context) {
	medications, err := s.medications.ListMedications(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "medications": medications})
}

func (s *Server) handleUpdateMedication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var update domain.MedicationUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "Invalid medication payload")
		return
	}

	medication, err := s.medications.UpdateMedication(c.Request.Context(), currentUser(c).ID, id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "medication": medication})
}

func (s *Server) handleDeleteMedication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.medications.DeleteMedication(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleAddMedicationSchedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input domain.MedicationScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Time is required")
		return
	}

	schedule, err := s.medications.AddSchedule(c.Request.Context(), currentUser(c).ID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "schedule": schedule})
}

func (s *Server) handleUpdateMedicationSchedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var update domain.MedicationScheduleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "Invalid schedule payload")
		return
	}

	schedule, err := s.medications.UpdateSchedule(c.Request.Context(), currentUser(c).ID, id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "schedule": schedule})
}

func (s *Server) handleDeleteMedicationSchedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.medications.DeleteSchedule(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleLogDose(c *gin.Context) {
	var input domain.DoseLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Schedule id and scheduled date are required")
		return
	}

	log, err := s.medications.LogDose(c.Request.Context(), currentUser(c).ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "log": log})
}

func (s *Server) handleListDoseLogs(c *gin.Context) {
	from, to, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	logs, err := s.medications.ListDoseLogs(c.Request.Context(), currentUser(c).ID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": logs})
}
