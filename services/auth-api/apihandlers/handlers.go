package apihandlers

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/legal-quotation/quotation-backend/pkg/metrics"
	usermanagement "github.com/legal-quotation/quotation-backend/pkg/user-management"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// FailureDelay slows down failed logins and reset requests by a random
// duration between Min and Max. A zero Max disables it.
type FailureDelay struct {
	Min time.Duration `json:"min" yaml:"min"`
	Max time.Duration `json:"max" yaml:"max"`
}

type HttpEndpoints struct {
	um           *usermanagement.UserManagement
	metrics      *metrics.Metrics
	failureDelay FailureDelay
	now          func() time.Time
}

func NewHTTPHandler(
	um *usermanagement.UserManagement,
	m *metrics.Metrics,
	failureDelay FailureDelay,
) *HttpEndpoints {
	return &HttpEndpoints{
		um:           um,
		metrics:      m,
		failureDelay: failureDelay,
		now:          time.Now,
	}
}

func (h *HttpEndpoints) currentTime() time.Time {
	return h.now()
}

// SetClock replaces the time source of the handlers.
func (h *HttpEndpoints) SetClock(now func() time.Time) {
	h.now = now
}

func (h *HttpEndpoints) randomWait() {
	minDelay, maxDelay := h.failureDelay.Min, h.failureDelay.Max
	if maxDelay <= 0 {
		return
	}
	if maxDelay <= minDelay {
		time.Sleep(minDelay)
		return
	}
	time.Sleep(minDelay + time.Duration(rand.Int63n(int64(maxDelay-minDelay))))
}
