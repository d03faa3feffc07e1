package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportContextWithQuery(query string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/financial-summary?"+query, nil)
	return c, w
}

func TestParseDateRangeInclusiveEnd(t *testing.T) {
	c, _ := reportContextWithQuery("from=2026-06-01&to=2026-06-30")

	from, to, ok := parseDateRange(c)

	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), from)

	// A record paid during the final day of the range must not fall out.
	lastDayAfternoon := time.Date(2026, 6, 30, 15, 45, 0, 0, time.UTC)
	assert.False(t, to.Before(lastDayAfternoon), "to %s excludes %s", to, lastDayAfternoon)
	assert.True(t, to.Before(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)), "to %s leaks into the next day", to)
}

func TestParseDateRangeSingleDay(t *testing.T) {
	c, _ := reportContextWithQuery("from=2026-06-15&to=2026-06-15")

	from, to, ok := parseDateRange(c)

	require.True(t, ok)
	assert.True(t, from.Before(to), "a one-day range still spans the whole day")
	assert.Equal(t, from.Year(), to.Year())
	assert.Equal(t, from.YearDay(), to.YearDay())
}

func TestParseDateRangeRejectsInverted(t *testing.T) {
	c, w := reportContextWithQuery("from=2026-06-30&to=2026-06-01")

	_, _, ok := parseDateRange(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseDateRangeRejectsMissingParams(t *testing.T) {
	c, w := reportContextWithQuery("from=2026-06-01")

	_, _, ok := parseDateRange(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEndOfDayStaysOnDay(t *testing.T) {
	day := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	end := endOfDay(day)

	assert.Equal(t, day.Year(), end.Year())
	assert.Equal(t, day.YearDay(), end.YearDay())
	assert.True(t, end.Before(day.AddDate(0, 0, 1)))
}
