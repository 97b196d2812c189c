package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"thrive/models"
	"thrive/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users map[uint]*models.User
	err   error
	calls int
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func newAuthRouter(tokens *TokenManager, policy TrustPolicy, users UserLookup, admin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := []gin.HandlerFunc{Authenticate(tokens, policy, users)}
	if admin {
		chain = append(chain, RequireAdmin(users))
	}
	chain = append(chain, func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		loaded := p.User != nil
		c.JSON(200, gin.H{"id": GetCurrentUserID(c), "email": p.Email, "loaded": loaded})
	})
	r.GET("/protected", chain...)
	return r
}

func get(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_ClaimsOnly(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	r := newAuthRouter(tokens, ClaimsOnly, nil, false)

	w := get(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"No token, authorization denied"}`, w.Body.String())

	for _, h := range []string{"Basic xyz", "Bearer ", "Bearer garbage"} {
		w = get(r, map[string]string{"Authorization": h})
		assert.Equal(t, http.StatusUnauthorized, w.Code, h)
	}
	w = get(r, map[string]string{"Authorization": "Bearer garbage"})
	assert.JSONEq(t, `{"msg":"Token is not valid"}`, w.Body.String())

	token, _ := tokens.Generate(42, "u42@thrive.app")
	w = get(r, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"id":42,"email":"u42@thrive.app","loaded":false}`, w.Body.String())

	// legacy header
	w = get(r, map[string]string{LegacyTokenHeader: token})
	assert.Equal(t, 200, w.Code)
}

func TestAuthenticate_StoreVerified(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	users := &fakeUsers{users: map[uint]*models.User{7: {ID: 7, Email: "current@thrive.app"}}}
	r := newAuthRouter(tokens, StoreVerified, users, false)

	token, _ := tokens.Generate(7, "old@thrive.app")
	w := get(r, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"id":7,"email":"current@thrive.app","loaded":true}`, w.Body.String())

	// deleted account
	gone, _ := tokens.Generate(8, "gone@thrive.app")
	w = get(r, map[string]string{"Authorization": "Bearer " + gone})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"Token is not valid"}`, w.Body.String())

	users.err = errors.New("db down")
	w = get(r, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestRequireAdmin(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	users := &fakeUsers{users: map[uint]*models.User{
		1: {ID: 1, Email: "admin@thrive.app", IsAdmin: true},
		2: {ID: 2, Email: "user@thrive.app"},
	}}
	r := newAuthRouter(tokens, ClaimsOnly, users, true)

	w := get(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	userToken, _ := tokens.Generate(2, "user@thrive.app")
	w = get(r, map[string]string{"Authorization": "Bearer " + userToken})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"msg":"Access denied. Admin privileges required."}`, w.Body.String())

	adminToken, _ := tokens.Generate(1, "admin@thrive.app")
	w = get(r, map[string]string{"Authorization": "Bearer " + adminToken})
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"id":1,"email":"admin@thrive.app","loaded":true}`, w.Body.String())

	// privilege revoked after the token was issued
	users.users[1].IsAdmin = false
	calls := users.calls
	w = get(r, map[string]string{"Authorization": "Bearer " + adminToken})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, calls+1, users.calls, "admin flag is reloaded on every request")

	// account deleted
	delete(users.users, 1)
	w = get(r, map[string]string{"Authorization": "Bearer " + adminToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetCurrentUserID(c))

	SetPrincipal(c, &Principal{ID: 99})
	assert.Equal(t, uint(99), GetCurrentUserID(c))
}
