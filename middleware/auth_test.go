package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAuthMiddlewareRejectsBadHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			c.Request.Header.Set("Authorization", tc.header)
		}

		AuthMiddleware()(c)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, http.StatusUnauthorized)
		}
		if !c.IsAborted() {
			t.Errorf("%s: request was not aborted", tc.name)
		}
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		roleID  interface{}
		allowed []int
		status  int
		aborted bool
	}{
		{"matching role", 3, []int{3}, http.StatusOK, false},
		{"one of several", 2, []int{1, 2}, http.StatusOK, false},
		{"wrong role", 1, []int{3}, http.StatusForbidden, true},
		{"role missing", nil, []int{3}, http.StatusForbidden, true},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.roleID != nil {
			c.Set("roleID", tc.roleID)
		}

		RequireRole(tc.allowed...)(c)

		if w.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, tc.status)
		}
		if c.IsAborted() != tc.aborted {
			t.Errorf("%s: aborted = %v, want %v", tc.name, c.IsAborted(), tc.aborted)
		}
	}
}
