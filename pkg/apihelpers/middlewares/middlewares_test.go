package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveAccount(ctx context.Context, token string, now time.Time) (*types.Account, error) {
	args := m.Called(token)
	var account *types.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*types.Account)
	}
	return account, args.Error(1)
}

func setupRouter(resolver AccountResolver, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequireAccount(resolver, nil))
	router.Use(handlers...)
	router.GET("/test", func(c *gin.Context) {
		account, _ := GetAccount(c)
		c.JSON(http.StatusOK, gin.H{"username": account.Username})
	})
	router.POST("/test", RequirePayload(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func doRequest(router *gin.Engine, method string, authHeader string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/test", strings.NewReader(body))
	if authHeader != "" {
		req.Header.Set(HeaderAuthorization, authHeader)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRequireAccount(t *testing.T) {
	alice := &types.Account{ID: primitive.NewObjectID(), Username: "alice", IsActive: true}

	t.Run("missing header", func(t *testing.T) {
		resolver := new(mockResolver)
		rr := doRequest(setupRouter(resolver), http.MethodGet, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		resolver.AssertNotCalled(t, "ResolveAccount", mock.Anything)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		resolver := new(mockResolver)
		rr := doRequest(setupRouter(resolver), http.MethodGet, "Basic abc", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("ResolveAccount", "bad").Return(nil, types.ErrUnauthorized)
		rr := doRequest(setupRouter(resolver), http.MethodGet, "Bearer bad", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		resolver.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("ResolveAccount", "tok").Return(nil, types.NewError(types.KindInternal, "internal error", errors.New("db down")))
		rr := doRequest(setupRouter(resolver), http.MethodGet, "Bearer tok", "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "db down")
	})

	t.Run("valid token", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("ResolveAccount", "tok").Return(alice, nil)
		rr := doRequest(setupRouter(resolver), http.MethodGet, "bearer tok", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"username":"alice"}`, rr.Body.String())
	})
}

type clockCheckingResolver struct {
	expiresAt time.Time
	seen      time.Time
}

func (r *clockCheckingResolver) ResolveAccount(ctx context.Context, token string, now time.Time) (*types.Account, error) {
	r.seen = now
	if !now.Before(r.expiresAt) {
		return nil, types.ErrUnauthorized
	}
	return &types.Account{ID: primitive.NewObjectID(), Username: "alice"}, nil
}

func TestRequireAccountUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	resolver := &clockCheckingResolver{expiresAt: fixed.Add(30 * time.Minute)}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequireAccount(resolver, func() time.Time { return fixed }))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := doRequest(router, http.MethodGet, "Bearer tok", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, resolver.seen.Equal(fixed))

	t.Run("nil clock falls back to wall time", func(t *testing.T) {
		router := gin.New()
		router.Use(RequireAccount(resolver, nil))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		rr := doRequest(router, http.MethodGet, "Bearer tok", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.True(t, resolver.seen.After(fixed))
	})
}

func TestIsAdminUser(t *testing.T) {
	resolver := new(mockResolver)
	resolver.On("ResolveAccount", "user").Return(&types.Account{ID: primitive.NewObjectID(), Username: "bob"}, nil)
	resolver.On("ResolveAccount", "admin").Return(&types.Account{ID: primitive.NewObjectID(), Username: "root", IsAdmin: true}, nil)
	router := setupRouter(resolver, IsAdminUser())

	rr := doRequest(router, http.MethodGet, "Bearer user", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(router, http.MethodGet, "Bearer admin", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequirePayload(t *testing.T) {
	resolver := new(mockResolver)
	resolver.On("ResolveAccount", "tok").Return(&types.Account{ID: primitive.NewObjectID(), Username: "alice"}, nil)
	router := setupRouter(resolver)

	rr := doRequest(router, http.MethodPost, "Bearer tok", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(router, http.MethodPost, "Bearer tok", `{"a":1}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
