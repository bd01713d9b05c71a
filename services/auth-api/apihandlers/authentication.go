package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	mw "github.com/legal-quotation/quotation-backend/pkg/apihelpers/middlewares"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
	umUtils "github.com/legal-quotation/quotation-backend/pkg/user-management/utils"
)

const (
	LOGIN_OUTCOME_SUCCESS = "success"
	LOGIN_OUTCOME_INVALID = "invalid_credentials"
	LOGIN_OUTCOME_LOCKED  = "locked"
	LOGIN_OUTCOME_ERROR   = "error"

	RESET_OUTCOME_REQUESTED       = "requested"
	RESET_OUTCOME_DELIVERY_FAILED = "delivery_failed"
	RESET_OUTCOME_ERROR           = "error"
)

func (h *HttpEndpoints) AddAuthAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", mw.RequirePayload(), h.login)
		authGroup.POST("/password-reset-request", mw.RequirePayload(), h.requestPasswordReset)
		authGroup.POST("/password-reset", mw.RequirePayload(), h.resetPasswordWithToken)
	}

	accountGroup := authGroup.Group("")
	accountGroup.Use(mw.RequireAccount(h.um.Sessions, h.currentTime))
	{
		accountGroup.GET("/me", h.getOwnAccount)
		accountGroup.POST("/change-password", mw.RequirePayload(), h.changePassword)
	}
}

type LoginReq struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

func (h *HttpEndpoints) login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Username == "" || req.Secret == "" {
		slog.Warn("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	now := h.now()
	account, err := h.um.Authenticator.Authenticate(c.Request.Context(), umUtils.SanitizeUsername(req.Username), req.Secret, now)
	if err != nil {
		switch types.KindOf(err) {
		case types.KindInvalidCredentials:
			h.metrics.ObserveLogin(LOGIN_OUTCOME_INVALID)
			slog.Warn("login attempt with invalid credentials", slog.String("username", req.Username))
		case types.KindAccountLocked:
			h.metrics.ObserveLogin(LOGIN_OUTCOME_LOCKED)
			slog.Warn("login attempt on locked account", slog.String("username", req.Username))
		default:
			h.metrics.ObserveLogin(LOGIN_OUTCOME_ERROR)
			respondWithError(c, err)
			return
		}
		h.randomWait()
		respondWithError(c, err)
		return
	}

	token, expiresAt, err := h.um.Sessions.Issue(account.ID.Hex(), now)
	if err != nil {
		h.metrics.ObserveLogin(LOGIN_OUTCOME_ERROR)
		respondWithError(c, err)
		return
	}

	h.metrics.ObserveLogin(LOGIN_OUTCOME_SUCCESS)
	slog.Info("login successful", slog.String("accountID", account.ID.Hex()))

	c.JSON(http.StatusOK, LoginResponse{
		Token:            token,
		TokenType:        "Bearer",
		ExpiresInSeconds: int64(expiresAt.Sub(now).Seconds()),
		Account:          h.accountResponse(account, now),
	})
}

func (h *HttpEndpoints) getOwnAccount(c *gin.Context) {
	account, ok := mw.GetAccount(c)
	if !ok {
		respondWithError(c, types.ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, h.accountResponse(account, h.now()))
}

type PasswordResetRequestReq struct {
	Email string `json:"email"`
}

// requestPasswordReset answers the same way whether or not the email is known.
func (h *HttpEndpoints) requestPasswordReset(c *gin.Context) {
	var req PasswordResetRequestReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	err := h.um.PasswordReset.RequestReset(c.Request.Context(), req.Email, h.now())
	switch {
	case err == nil:
		h.metrics.ObservePasswordResetRequest(RESET_OUTCOME_REQUESTED)
	case types.KindOf(err) == types.KindDeliveryFailed:
		h.metrics.ObservePasswordResetRequest(RESET_OUTCOME_DELIVERY_FAILED)
		slog.Error("password reset message not delivered", slog.String("email", umUtils.BlurEmailAddress(req.Email)), slog.String("error", err.Error()))
	default:
		h.metrics.ObservePasswordResetRequest(RESET_OUTCOME_ERROR)
		slog.Error("password reset request failed", slog.String("error", err.Error()))
	}

	h.randomWait()
	c.JSON(http.StatusOK, gin.H{"message": "if an account with this email exists, a temporary password has been sent"})
}

type PasswordResetReq struct {
	Token     string `json:"token"`
	NewSecret string `json:"newSecret"`
}

func (h *HttpEndpoints) resetPasswordWithToken(c *gin.Context) {
	var req PasswordResetReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" || req.NewSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and newSecret are required"})
		return
	}

	if err := h.um.PasswordReset.ResetWithToken(c.Request.Context(), req.Token, req.NewSecret, h.now()); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

type ChangePasswordReq struct {
	CurrentSecret string `json:"currentSecret"`
	NewSecret     string `json:"newSecret"`
}

func (h *HttpEndpoints) changePassword(c *gin.Context) {
	account, ok := mw.GetAccount(c)
	if !ok {
		respondWithError(c, types.ErrUnauthorized)
		return
	}

	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentSecret == "" || req.NewSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currentSecret and newSecret are required"})
		return
	}

	err := h.um.PasswordReset.ChangeCredential(c.Request.Context(), account.ID.Hex(), req.CurrentSecret, req.NewSecret, h.now())
	if err != nil {
		if types.KindOf(err) == types.KindInvalidCredentials {
			// reported as 400 on this endpoint
			c.JSON(http.StatusBadRequest, gin.H{"error": types.MessageOf(err)})
			return
		}
		respondWithError(c, err)
		return
	}
	slog.Info("password changed", slog.String("accountID", account.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
