// Package api serves recommendations to the booking app over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"frequency-workers/internal/booking"
	"frequency-workers/internal/common/database"
	"frequency-workers/internal/common/logger"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxBodyBytes = 64 << 10
	readyTimeout = 3 * time.Second
)

type Server struct {
	svc      *booking.Service
	logger   logger.Logger
	checkers []database.Checker
}

// NewRouter builds the booking-app API. checkers are pinged by /ready.
func NewRouter(svc *booking.Service, log logger.Logger, checkers ...database.Checker) *mux.Router {
	s := &Server{
		svc:      svc,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
		checkers: checkers,
	}

	r := mux.NewRouter()
	r.Use(s.observe)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/recommendations", s.handleRecommend).Methods(http.MethodPost)
	v1.HandleFunc("/frequencies/{hz}", s.handleDescribe).Methods(http.MethodGet)
	v1.HandleFunc("/frequencies/{hz}/asset", s.handleAsset).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{bookingId}/recommendation", s.handleSession).Methods(http.MethodGet)

	return r
}

// NewHTTPServer wraps the router with the timeouts used in production.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	failures := database.CheckAll(ctx, s.checkers...)
	if len(failures) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	details := make(map[string]string, len(failures))
	for name, err := range failures {
		details[name] = err.Error()
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
		"status":   "not ready",
		"failures": details,
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
