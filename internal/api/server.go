package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/barkmint/market/internal/market"
	"github.com/barkmint/market/internal/report"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, engine *market.Engine, log EventLog, ledger CustodyLedger, reports *report.Service, adminAPIKey string) *http.Server {
	handler := NewHandler(engine, log, ledger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/assets", handler.Mint)
	mux.HandleFunc("POST /api/v1/assets/batch", handler.BatchMint)
	mux.HandleFunc("GET /api/v1/assets", handler.ListAssets)
	mux.HandleFunc("GET /api/v1/assets/{id}", handler.GetAsset)
	mux.HandleFunc("PUT /api/v1/assets/{id}/metadata", handler.UpdateMetadata)
	mux.HandleFunc("POST /api/v1/assets/{id}/transfer", handler.Transfer)
	mux.HandleFunc("POST /api/v1/assets/{id}/listing", handler.ListForSale)
	mux.HandleFunc("POST /api/v1/assets/{id}/purchase", handler.Purchase)
	mux.HandleFunc("DELETE /api/v1/assets/{id}", handler.Burn)
	mux.HandleFunc("GET /api/v1/assets/{id}/events", handler.AssetEvents)
	mux.HandleFunc("GET /api/v1/events", handler.RecentEvents)
	mux.HandleFunc("POST /api/v1/tokens/{id}/approve", handler.Approve)
	mux.HandleFunc("GET /api/v1/balance", handler.NativeBalance)

	if reports != nil {
		repHandler := NewReportHandler(reports)
		mux.HandleFunc("GET /api/v1/reports/latest", repHandler.GetLatest)
		mux.HandleFunc("GET /api/v1/reports/{date}", repHandler.GetByDate)
		mux.HandleFunc("GET /api/v1/reports", repHandler.List)

		generateHandler := http.HandlerFunc(repHandler.Generate)
		if adminAPIKey != "" {
			mux.Handle("POST /api/v1/reports/generate", requireAuth(adminAPIKey, generateHandler))
		} else {
			mux.Handle("POST /api/v1/reports/generate", generateHandler)
		}
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
