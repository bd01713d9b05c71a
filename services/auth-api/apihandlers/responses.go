package apihandlers

import (
	"time"

	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
)

type AccountResponse struct {
	types.Account
	NeedsReset bool `json:"needsReset"`
}

func (h *HttpEndpoints) accountResponse(account *types.Account, now time.Time) AccountResponse {
	return AccountResponse{
		Account:    *account,
		NeedsReset: h.um.NeedsReset(account, now),
	}
}

type LoginResponse struct {
	Token            string          `json:"token"`
	TokenType        string          `json:"tokenType"`
	ExpiresInSeconds int64           `json:"expiresInSeconds"`
	Account          AccountResponse `json:"account"`
}

type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Page     int64             `json:"page"`
	Limit    int64             `json:"limit"`
	Total    int64             `json:"total"`
}
