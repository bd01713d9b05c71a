package apihandlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legal-quotation/quotation-backend/pkg/apihelpers"
	mw "github.com/legal-quotation/quotation-backend/pkg/apihelpers/middlewares"
	usermanagement "github.com/legal-quotation/quotation-backend/pkg/user-management"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
)

func (h *HttpEndpoints) AddUserManagementAPI(rg *gin.RouterGroup) {
	adminGroup := rg.Group("/auth")
	adminGroup.Use(mw.RequireAccount(h.um.Sessions, h.currentTime))
	adminGroup.Use(mw.IsAdminUser())
	{
		adminGroup.POST("/register", mw.RequirePayload(), h.registerAccount)
		adminGroup.GET("/users", h.listAccounts)
		adminGroup.GET("/users/:id", h.getAccount)
		adminGroup.PUT("/users/:id", mw.RequirePayload(), h.updateAccount)
		adminGroup.DELETE("/users/:id", h.deleteAccount)
		adminGroup.POST("/users/:id/password-reset-token", h.issuePasswordResetToken)
	}
}

type RegisterReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Secret   string `json:"secret"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (h *HttpEndpoints) registerAccount(c *gin.Context) {
	caller, _ := mw.GetAccount(c)

	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	now := h.now()
	account, err := h.um.Accounts.Register(c.Request.Context(), usermanagement.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Secret:   req.Secret,
		IsAdmin:  req.IsAdmin,
	}, now)
	if err != nil {
		slog.Warn("account registration failed", slog.String("username", req.Username), slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}

	slog.Info("account registered", slog.String("accountID", account.ID.Hex()), slog.String("by", caller.ID.Hex()))
	c.JSON(http.StatusOK, h.accountResponse(account, now))
}

func (h *HttpEndpoints) listAccounts(c *gin.Context) {
	query, err := apihelpers.ParsePaginatedQueryFromCtx(c, usermanagement.DEFAULT_PAGE_SIZE)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Limit > usermanagement.MAX_PAGE_SIZE {
		query.Limit = usermanagement.MAX_PAGE_SIZE
	}

	accounts, total, err := h.um.Accounts.List(c.Request.Context(), query.Page, query.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := h.now()
	resp := AccountListResponse{
		Accounts: make([]AccountResponse, 0, len(accounts)),
		Page:     query.Page,
		Limit:    query.Limit,
		Total:    total,
	}
	for i := range accounts {
		resp.Accounts = append(resp.Accounts, h.accountResponse(&accounts[i], now))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HttpEndpoints) getAccount(c *gin.Context) {
	account, err := h.um.Accounts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.accountResponse(account, h.now()))
}

func (h *HttpEndpoints) updateAccount(c *gin.Context) {
	var update types.ProfileUpdate
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&update); err != nil {
		slog.Warn("invalid profile update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: only email, isActive and isAdmin can be updated"})
		return
	}

	account, err := h.um.Accounts.UpdateProfile(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondWithError(c, err)
		return
	}
	slog.Info("account updated", slog.String("accountID", account.ID.Hex()))
	c.JSON(http.StatusOK, h.accountResponse(account, h.now()))
}

func (h *HttpEndpoints) deleteAccount(c *gin.Context) {
	caller, _ := mw.GetAccount(c)
	id := c.Param("id")

	if err := h.um.Accounts.Delete(c.Request.Context(), caller.ID.Hex(), id); err != nil {
		respondWithError(c, err)
		return
	}
	slog.Info("account deleted", slog.String("accountID", id), slog.String("by", caller.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

func (h *HttpEndpoints) issuePasswordResetToken(c *gin.Context) {
	if err := h.um.PasswordReset.IssueResetToken(c.Request.Context(), c.Param("id"), h.now()); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset token sent"})
}
