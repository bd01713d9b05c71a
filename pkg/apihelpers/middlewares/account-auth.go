package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
)

const (
	HeaderAuthorization = "Authorization"

	ContextKeyToken   = "token"
	ContextKeyAccount = "account"
)

// AccountResolver turns a bearer token into the current account.
type AccountResolver interface {
	ResolveAccount(ctx context.Context, token string, now time.Time) (*types.Account, error)
}

// RequireAccount rejects requests without a valid bearer token and stores the
// resolved account in the context. Tokens are checked at the time returned by
// now, time.Now if nil.
func RequireAccount(resolver AccountResolver, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found", slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		account, err := resolver.ResolveAccount(c.Request.Context(), token, now())
		if err != nil {
			if types.KindOf(err) == types.KindUnauthorized {
				slog.Warn("token validation failed", slog.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			slog.Error("could not resolve account for token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(ContextKeyToken, token)
		c.Set(ContextKeyAccount, account)
		c.Next()
	}
}

// GetAccount returns the account stored by RequireAccount.
func GetAccount(c *gin.Context) (*types.Account, bool) {
	value, ok := c.Get(ContextKeyAccount)
	if !ok {
		return nil, false
	}
	account, ok := value.(*types.Account)
	return account, ok
}

func extractToken(c *gin.Context) (string, error) {
	header := c.GetHeader(HeaderAuthorization)
	if header == "" {
		return "", errors.New("no Authorization header found")
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("authorization header is not a bearer token")
	}
	token = strings.TrimSpace(token)
	if len(token) == 0 {
		return "", errors.New("no token found in Authorization header")
	}
	return token, nil
}
