// Package api exposes the service as a single function for platforms that
// route every request under /api to a Go handler.
package api

import (
	"net/http"
	"sync"

	"contact-api/config"
	"contact-api/internal/app"
	"contact-api/pkg/logger"
)

var (
	engineOnce sync.Once
	handler    http.Handler
)

// Handler builds the application on first use and serves r.
func Handler(w http.ResponseWriter, r *http.Request) {
	engineOnce.Do(func() {
		cfg, err := config.LoadConfig()
		if err != nil {
			logger.Log.Error("Failed to load config", "error", err)
			handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"Service misconfigured."}`, http.StatusInternalServerError)
			})
			return
		}
		handler = app.New(cfg).Engine
	})
	handler.ServeHTTP(w, r)
}
