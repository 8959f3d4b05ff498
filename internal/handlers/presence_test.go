package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/presence"
)

func TestOnlineUsers(t *testing.T) {
	registry := presence.NewRegistry()
	registry.AddSession("s1", "alice")
	registry.AddSession("s2", "bob")

	handler := NewPresenceHandler(registry)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/presence/online", handler.OnlineUsers)

	req := httptest.NewRequest(http.MethodGet, "/presence/online", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.ElementsMatch(t, []string{"alice", "bob"}, resp["online"])
}
