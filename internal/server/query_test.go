package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmateapp/healthmate-server/internal/adherence"
	apperrors "github.com/healthmateapp/healthmate-server/internal/errors"
)

func testContext(t *testing.T, rawQuery string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(http.MethodGet, "/api/alerts?"+rawQuery, nil)
	require.NoError(t, err)
	c.Request = req
	return c, rec
}

func TestPeriodQueryDefaultsToDaily(t *testing.T) {
	c, _ := testContext(t, "")
	period, ok := periodQuery(c)
	assert.True(t, ok)
	assert.Equal(t, adherence.PeriodDaily, period)
}

func TestPeriodQueryUnknownPeriodIsBadRequest(t *testing.T) {
	c, rec := testContext(t, "period=yearly")
	_, ok := periodQuery(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unknown period.", body["error"])
}

func TestStartDateQuery(t *testing.T) {
	c, _ := testContext(t, "start_date=2024-06-15")
	start, ok := startDateQuery(c)
	require.True(t, ok)
	require.NotNil(t, start)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), *start)
}

func TestStartDateQueryAbsent(t *testing.T) {
	c, _ := testContext(t, "")
	start, ok := startDateQuery(c)
	assert.True(t, ok)
	assert.Nil(t, start)
}

func TestStartDateQueryMalformed(t *testing.T) {
	c, rec := testContext(t, "start_date=06%2F15%2F2024")
	_, ok := startDateQuery(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondErrorMapsAppErrors(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{apperrors.ErrUnknownPeriod, http.StatusBadRequest},
		{apperrors.ErrScheduleNotFound, http.StatusNotFound},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperrors.NewConflictError("duplicate"), http.StatusConflict},
	}
	for _, tt := range tests {
		c, rec := testContext(t, "")
		respondError(c, tt.err)
		assert.Equal(t, tt.wantCode, rec.Code)
	}
}
