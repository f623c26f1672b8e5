package netcheck

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const probeURL = "https://www.google.com"

// Online reports whether the host can reach the public internet. It is a
// lightweight HEAD probe, checked before extraction flows so the user gets
// a connectivity message instead of an opaque extraction failure.
func Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Warn("no internet connection detected", "error", err)
		return false
	}
	resp.Body.Close()
	return true
}
