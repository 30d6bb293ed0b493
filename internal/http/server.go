// Package http exposes the settlement service as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"jeongsan/internal/services"
)

type Server struct {
	http.Server
	svc         *services.SettlementService
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *services.SettlementService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:         svc,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/settlement", s.withMiddleware(s.handleSettlement))
	mux.HandleFunc("GET /api/ledger", s.withMiddleware(s.handleLedger))
	mux.HandleFunc("GET /api/balances", s.withMiddleware(s.handleBalances))
	mux.HandleFunc("GET /api/instructions", s.withMiddleware(s.handleInstructions))
	mux.HandleFunc("GET /api/fund", s.withMiddleware(s.handleFund))

	mux.HandleFunc("GET /api/members", s.withMiddleware(s.handleListMembers))
	mux.HandleFunc("GET /api/locations", s.withMiddleware(s.handleListLocations))
	mux.HandleFunc("POST /api/incomes", s.withMiddleware(s.handleAddIncome))

	mux.HandleFunc("GET /api/period-config", s.withMiddleware(s.handleGetPeriodConfig))
	mux.HandleFunc("PUT /api/period-config", s.withMiddleware(s.handlePutPeriodConfig))

	mux.HandleFunc("GET /api/transfers", s.withMiddleware(s.handleListTransfers))
	mux.HandleFunc("POST /api/transfers", s.withMiddleware(s.handleAddTransfer))
	mux.HandleFunc("PUT /api/transfers/{id}", s.withMiddleware(s.handleUpdateTransfer))
	mux.HandleFunc("DELETE /api/transfers/{id}", s.withMiddleware(s.handleDeleteTransfer))

	mux.HandleFunc("GET /api/fund-usage", s.withMiddleware(s.handleListFundUsage))
	mux.HandleFunc("POST /api/fund-usage", s.withMiddleware(s.handleAddFundUsage))
	mux.HandleFunc("PUT /api/fund-usage/{id}", s.withMiddleware(s.handleUpdateFundUsage))
	mux.HandleFunc("DELETE /api/fund-usage/{id}", s.withMiddleware(s.handleDeleteFundUsage))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting and request logging
// to a handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Rate limit mutations only; reads are cheap and cached.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, fmt.Errorf("rate limit exceeded"))
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
