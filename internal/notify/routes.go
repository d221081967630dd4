package notify

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nexscholar/backend/pkg/logger"
)

// Named frontend routes reachable from notification action links.
var routePatterns = map[string]string{
	"workspaces.show":      "/workspaces/%d",
	"tasks.show":           "/workspaces/%d/tasks/%d",
	"connections.requests": "/connections/requests",
	"notifications.index":  "/notifications",
}

var (
	baseURLMu sync.RWMutex
	baseURL   = "https://app.nexscholar.com"
)

// SetBaseURL configures the frontend origin used for action links. Called
// once at startup.
func SetBaseURL(url string) {
	baseURLMu.Lock()
	defer baseURLMu.Unlock()
	baseURL = strings.TrimRight(url, "/")
}

// BaseURL returns the configured frontend origin.
func BaseURL() string {
	baseURLMu.RLock()
	defer baseURLMu.RUnlock()
	return baseURL
}

// route resolves a named route into an absolute URL.
func route(name string, args ...interface{}) (string, error) {
	pattern, ok := routePatterns[name]
	if !ok {
		return "", fmt.Errorf("unknown route %q", name)
	}
	path := fmt.Sprintf(pattern, args...)
	if strings.Contains(path, "%!") {
		return "", fmt.Errorf("route %q: bad arguments", name)
	}
	return BaseURL() + path, nil
}

// actionLink resolves a named route for a mail action button. Resolution
// failures downgrade to the app root so the mail still renders.
func actionLink(name string, args ...interface{}) (string, bool) {
	url, err := route(name, args...)
	if err != nil {
		logger.L.WithError(err).Warn("action link resolution failed, falling back to app root")
		return BaseURL(), false
	}
	return url, true
}
