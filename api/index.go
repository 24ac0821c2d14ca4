// Package api exposes the notice board as a single http.HandlerFunc for
// serverless hosts that import a handler instead of running a binary.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-notice-api/internal/app"
	"github.com/noah-isme/campus-notice-api/pkg/config"
	appErrors "github.com/noah-isme/campus-notice-api/pkg/errors"
	"github.com/noah-isme/campus-notice-api/pkg/logger"
)

var (
	once    sync.Once
	router  http.Handler
	initErr error
)

func build() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	logr, err := logger.New(cfg)
	if err != nil {
		logr = zap.NewNop()
	}
	a, err := app.New(context.Background(), cfg, logr)
	if err != nil {
		logr.Error("failed to wire application", zap.Error(err))
		initErr = err
		return
	}
	router = a.Router
}

// Handler serves one request, wiring the application on first use.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(build)
	if initErr != nil {
		body, _ := json.Marshal(appErrors.Clone(appErrors.ErrUnavailable, "service not configured"))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(appErrors.ErrUnavailable.Status)
		_, _ = w.Write(body)
		return
	}
	router.ServeHTTP(w, r)
}
