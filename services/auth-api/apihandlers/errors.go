package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
)

// login failures share one message so a locked account cannot be told apart
// from a wrong secret
const msgInvalidCredentials = "invalid username or password"

func statusForKind(kind types.ErrorKind) int {
	switch kind {
	case types.KindInvalidCredentials, types.KindAccountLocked, types.KindUnauthorized:
		return http.StatusUnauthorized
	case types.KindForbidden:
		return http.StatusForbidden
	case types.KindNotFound:
		return http.StatusNotFound
	case types.KindValidation:
		return http.StatusBadRequest
	case types.KindConflict:
		return http.StatusConflict
	case types.KindDeliveryFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageForError(err error) string {
	switch types.KindOf(err) {
	case types.KindInvalidCredentials, types.KindAccountLocked:
		return msgInvalidCredentials
	case types.KindInternal:
		return "internal server error"
	case types.KindDeliveryFailed:
		return "message could not be delivered"
	default:
		return types.MessageOf(err)
	}
}

func respondWithError(c *gin.Context, err error) {
	kind := types.KindOf(err)
	if kind == types.KindInternal || kind == types.KindDeliveryFailed {
		slog.Error("request failed", slog.String("path", c.FullPath()), slog.String("kind", string(kind)), slog.String("error", err.Error()))
	}
	c.JSON(statusForKind(kind), gin.H{"error": messageForError(err)})
}
