package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	claims *TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(token string) (*TokenClaims, error) {
	return s.claims, s.err
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c)})
	})
	return r
}

func get(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	valid := &stubValidator{claims: &TokenClaims{UserID: 42, Username: "cook"}}
	invalid := &stubValidator{err: errors.New("bad token")}

	w := get(newAuthRouter(AuthMiddleware(valid)), "Bearer token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 42}`, w.Body.String())

	w = get(newAuthRouter(AuthMiddleware(valid)), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(newAuthRouter(AuthMiddleware(valid)), "NotBearer token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(newAuthRouter(AuthMiddleware(invalid)), "Bearer token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	valid := &stubValidator{claims: &TokenClaims{UserID: 42}}
	invalid := &stubValidator{err: errors.New("bad token")}

	// Anonymous requests pass through with viewer id 0.
	w := get(newAuthRouter(OptionalAuthMiddleware(valid)), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 0}`, w.Body.String())

	w = get(newAuthRouter(OptionalAuthMiddleware(valid)), "Bearer token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 42}`, w.Body.String())

	// A supplied but invalid token is still rejected.
	w = get(newAuthRouter(OptionalAuthMiddleware(invalid)), "Bearer token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
