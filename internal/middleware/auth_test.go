package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
}

func (s stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return s.claims, nil
}

func newAuthRouter(claims *types.TokenClaims) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(stubValidator{claims: claims}))
	r.GET("/me", func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	r.POST("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func authRequest(r *gin.Engine, method, path, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	r := newAuthRouter(&types.TokenClaims{UserID: userID, Username: "sam"})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "extra parts", header: "Bearer good extra", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := authRequest(r, http.MethodGet, "/me", tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	user := newAuthRouter(&types.TokenClaims{UserID: uuid.New(), Role: "user"})
	w := authRequest(user, http.MethodPost, "/admin", "Bearer good")
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := newAuthRouter(&types.TokenClaims{UserID: uuid.New(), Role: types.RoleAdmin})
	w = authRequest(admin, http.MethodPost, "/admin", "Bearer good")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireAdminWithoutAuth(t *testing.T) {
	r := gin.New()
	r.POST("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := authRequest(r, http.MethodPost, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
