package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-client/internal/response"
	"github.com/stemsi/exstem-client/internal/service"
)

// SystemHandler reports the agent's own health.
type SystemHandler struct {
	attemptService *service.AttemptService
	storeKind      string
	startTime      time.Time
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(attemptService *service.AttemptService, storeKind string) *SystemHandler {
	return &SystemHandler{
		attemptService: attemptService,
		storeKind:      storeKind,
		startTime:      time.Now(),
	}
}

type systemStatus struct {
	Uptime          string `json:"uptime"`
	GoVersion       string `json:"go_version"`
	Goroutines      int    `json:"goroutines"`
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
	HostedAttempts  int    `json:"hosted_attempts"`
	CredentialStore string `json:"credential_store"`
}

// Status godoc
// GET /api/v1/system/status
func (h *SystemHandler) Status(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	response.Success(c, http.StatusOK, systemStatus{
		Uptime:          time.Since(h.startTime).Truncate(time.Second).String(),
		GoVersion:       runtime.Version(),
		Goroutines:      runtime.NumGoroutine(),
		HeapAllocBytes:  mem.HeapAlloc,
		HostedAttempts:  h.attemptService.Count(),
		CredentialStore: h.storeKind,
	})
}
