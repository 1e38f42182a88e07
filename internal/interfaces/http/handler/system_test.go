package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vereinhub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveSystem runs one SystemHandler method and decodes the envelope.
func serveSystem(t *testing.T, fn func(*SystemHandler, *gin.Context)) map[string]interface{} {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fn(NewSystemHandler(), c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	data := serveSystem(t, func(h *SystemHandler, c *gin.Context) {
		h.GetSystemInfo(c)
	})

	assert.Equal(t, "VereinHub API", data["name"])
	assert.Equal(t, version, data["version"])
	assert.Contains(t, data["go_version"], "go")
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	data := serveSystem(t, func(h *SystemHandler, c *gin.Context) {
		h.Ping(c)
	})

	assert.Equal(t, "pong", data["message"])

	_, err := time.Parse(time.RFC3339, data["timestamp"].(string))
	assert.NoError(t, err)
}
