package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/config"
)

func TestBootstrap_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	boot := Bootstrap(&buf)
	boot.Error().Str("reason", "missing DATABASE_URL").Msg("invalid configuration")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "barber-booking", line["service"])
	assert.Equal(t, "invalid configuration", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_FallsBackToInfo(t *testing.T) {
	logger := New(&config.Config{LogLevel: "nope", LogFormat: "json"})
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(Bootstrap(&buf)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/missing", line["path"])
	assert.EqualValues(t, 404, line["status"])
}
