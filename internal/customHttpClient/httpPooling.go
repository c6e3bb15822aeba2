package customHttpClient

import (
	"net/http"

	"github.com/akolanti/DocFlowAPI/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// NewPooledClient hands out a client on the shared pooled transport so the
// collaborator clients reuse connections instead of redialing per call.
// Timeouts are enforced per request via context, not here.
func NewPooledClient() *http.Client {
	return &http.Client{Transport: customTransport}
}
