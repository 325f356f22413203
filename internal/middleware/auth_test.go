package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/guarded", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": Username(c)})
	})
	return r
}

func TestRequireAdmin(t *testing.T) {
	r := setupRouter()

	testCases := []struct {
		name     string
		role     string
		expected int
	}{
		{"NoRole", "", http.StatusForbidden},
		{"WrongRole", "sponsor", http.StatusForbidden},
		{"Admin", "admin", http.StatusOK},
		{"Manager", "manager", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
			if tc.role != "" {
				req.Header.Set(RoleHeader, tc.role)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestUsernameAttribution(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set(RoleHeader, "admin")
	req.Header.Set(UserHeader, "marta")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "marta")
}

func TestUsernameFallsBackToUnknown(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set(RoleHeader, "admin")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "unknown")
}
