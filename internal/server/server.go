package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/infra"
	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/service"
)

// Server is the thin HTTP layer over the monitor's query surface. It holds
// no domain logic: every handler reads from the monitor and encodes JSON.
type Server struct {
	monitor   *service.Monitor
	catalog   domain.SymbolCatalog // optional
	appName   string
	version   string
	priceHub  *Hub
	arbHub    *Hub
	logger    *slog.Logger
	startedAt time.Time
}

// NewServer creates the HTTP layer. catalog may be nil when the watchlist
// is config-only.
func NewServer(monitor *service.Monitor, catalog domain.SymbolCatalog, appName, version string) *Server {
	return &Server{
		monitor:   monitor,
		catalog:   catalog,
		appName:   appName,
		version:   version,
		priceHub:  NewHub("prices"),
		arbHub:    NewHub("arbitrage"),
		logger:    slog.Default().With("module", "http_server"),
		startedAt: time.Now(),
	}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/v1/prices", s.handleAllPrices)
	mux.HandleFunc("GET /api/v1/prices/{symbol}", s.handlePrices)
	mux.HandleFunc("GET /api/v1/arbitrage", s.handleAllArbitrage)
	mux.HandleFunc("GET /api/v1/arbitrage/{symbol}", s.handleArbitrage)
	mux.HandleFunc("GET /api/v1/compare/{symbol}", s.handleCompare)
	mux.HandleFunc("GET /api/v1/exchanges", s.handleExchanges)
	mux.HandleFunc("GET /api/v1/metrics", s.handleMetrics)
	mux.HandleFunc("POST /api/v1/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/v1/symbols/{symbol}/active", s.handleSymbolActive)

	mux.HandleFunc("GET /api/v1/ws/prices", s.priceHub.HandleWS)
	mux.HandleFunc("GET /api/v1/ws/arbitrage", s.arbHub.HandleWS)

	return mux
}

// BroadcastCycle pushes the latest cycle's prices and opportunities to all
// connected websocket consumers. Hung off the scheduler's cycle callback.
func (s *Server) BroadcastCycle() {
	symbols := s.monitor.Symbols()

	prices := make(map[string][]domain.Quote, len(symbols))
	for _, symbol := range symbols {
		prices[symbol] = s.monitor.GetPrice(symbol)
	}
	s.priceHub.Broadcast(map[string]any{
		"type":      "prices",
		"prices":    prices,
		"timestamp": time.Now().UTC(),
	})

	s.arbHub.Broadcast(map[string]any{
		"type":          "arbitrage",
		"opportunities": s.monitor.GetAllOpportunities(),
		"timestamp":     time.Now().UTC(),
	})
}

// Close disconnects all websocket consumers
func (s *Server) Close() {
	s.priceHub.Close()
	s.arbHub.Close()
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": s.appName + " API",
		"version": s.version,
		"status":  "online",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": s.appName,
		"version": s.version,
		"uptime":  time.Since(s.startedAt).String(),
	})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))
	writeJSON(w, http.StatusOK, map[string]any{
		"symbol": symbol,
		"prices": s.monitor.GetPrice(symbol),
	})
}

func (s *Server) handleAllPrices(w http.ResponseWriter, r *http.Request) {
	prices := make(map[string][]domain.Quote)
	for _, symbol := range s.monitor.Symbols() {
		prices[symbol] = s.monitor.GetPrice(symbol)
	}
	writeJSON(w, http.StatusOK, prices)
}

func (s *Server) handleArbitrage(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))
	writeJSON(w, http.StatusOK, s.monitor.GetOpportunities(symbol))
}

func (s *Server) handleAllArbitrage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.GetAllOpportunities())
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))
	cmp := s.monitor.GetComparison(symbol)
	if cmp == nil {
		writeError(w, http.StatusNotFound, "insufficient price data for "+symbol)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleExchanges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.GetHealth())
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infra.GlobalMetrics.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// Detached from the request: the refresh is shared through singleflight
	// with scheduled cycles, and a disconnecting trigger must not cancel the
	// fetches for everyone who joined the same flight.
	s.monitor.TriggerRefresh(context.WithoutCancel(r.Context()))
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func (s *Server) handleSymbolActive(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusNotImplemented, "watchlist storage not configured")
		return
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	symbol := strings.ToUpper(r.PathValue("symbol"))
	active, err := s.catalog.SetActive(symbol, body.Active)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown symbol "+symbol)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": symbol, "active": active})
}

// writeJSON sends a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
