// Package server implements the HTTP API that calendar and diary clients
// query for per-date twilight times.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chrissnell/daybreak/internal/log"
	"github.com/chrissnell/daybreak/internal/storage"
	"github.com/chrissnell/daybreak/pkg/config"
	"github.com/chrissnell/daybreak/pkg/twilight"
)

// Controller represents the HTTP API controller
type Controller struct {
	ctx     context.Context
	wg      *sync.WaitGroup
	cfg     *config.ConfigData
	Server  http.Server
	calc    *twilight.Calculator
	store   *storage.Client
	logger  *zap.SugaredLogger
	handler *Handlers
}

// NewController creates a new HTTP API controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, store *storage.Client, logger *zap.SugaredLogger) (*Controller, error) {
	if len(cfg.Locations) == 0 {
		return nil, fmt.Errorf("no locations configured - at least one location must be configured for the API server")
	}

	ctrl := &Controller{
		ctx:    ctx,
		wg:     wg,
		cfg:    cfg,
		calc:   twilight.NewCalculator(nil, cfg.SolarErrorMinutes),
		store:  store,
		logger: logger,
	}

	listenAddr := cfg.Server.ListenAddr
	if listenAddr == "" {
		logger.Info("server.listen_addr not provided; defaulting to :8080")
		listenAddr = ":8080"
	}

	ctrl.handler = NewHandlers(ctrl)

	router := mux.NewRouter()
	router.HandleFunc("/health", ctrl.handler.GetHealth).Methods("GET")
	router.HandleFunc("/locations", ctrl.handler.GetLocations).Methods("GET")
	router.HandleFunc("/twilight", ctrl.handler.GetTwilight).Methods("GET")
	router.HandleFunc("/sunrise", ctrl.handler.GetSunrise).Methods("GET")
	router.HandleFunc("/almanac", ctrl.handler.GetAlmanac).Methods("GET")
	router.Use(requestLogger)

	ctrl.Server = http.Server{
		Addr:        listenAddr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
	}

	return ctrl, nil
}

// Start begins serving requests and arranges a graceful shutdown when the
// controller's context is cancelled
func (c *Controller) Start() error {
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		log.Infof("starting API server on %s", c.Server.Addr)
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("API server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("API server shutdown error: %v", err)
		}
	}()

	return nil
}

// requestLogger tags each request with an ID and logs method, path, and
// timing at debug level
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, req)

		log.Debugw("request handled",
			"request_id", requestID,
			"method", req.Method,
			"path", req.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", req.RemoteAddr,
		)
	})
}
