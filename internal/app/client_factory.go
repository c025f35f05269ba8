package app

import (
	"log/slog"
	"time"

	"tfsettings/internal/adapters/http"
)

const (
	// defaultHTTPTimeout is the default timeout for requests to a running bridge.
	defaultHTTPTimeout = 30 * time.Second
)

// BridgeClientFactory creates clients for bridges running in other processes.
type BridgeClientFactory struct {
	logger  *slog.Logger
	timeout time.Duration
}

// NewBridgeClientFactory creates a new bridge client factory.
func NewBridgeClientFactory(logger *slog.Logger, timeout time.Duration) *BridgeClientFactory {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &BridgeClientFactory{
		logger:  logger,
		timeout: timeout,
	}
}

// Create returns a client for the bridge at baseURL.
func (f *BridgeClientFactory) Create(baseURL string) *http.Adapter {
	return http.NewAdapter(baseURL, f.timeout, f.logger)
}
