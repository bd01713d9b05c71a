package apihandlers

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	botTokens   []string
	messagesDir string
	lastID      atomic.Int64
}

func NewHTTPHandler(botTokens []string, messagesDir string) *HttpEndpoints {
	if messagesDir == "" {
		messagesDir = "messages"
	}
	return &HttpEndpoints{
		botTokens:   botTokens,
		messagesDir: messagesDir,
	}
}
