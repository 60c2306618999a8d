package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/barkmint/market/internal/custody"
	"github.com/barkmint/market/internal/domain"
	"github.com/barkmint/market/internal/events"
	"github.com/barkmint/market/internal/market"
	"github.com/barkmint/market/internal/report"
	"github.com/barkmint/market/internal/store"
)

// CustodyLedger serves the balance and allowance endpoints.
type CustodyLedger interface {
	Approve(ctx context.Context, tokenID string, owner domain.Identity, amount int64) error
	NativeBalance(ctx context.Context, account domain.Identity) (int64, error)
}

// EventLog serves the audit query endpoints.
type EventLog interface {
	ListByRecord(ctx context.Context, recordID string, limit int) ([]events.Event, error)
	ListRecent(ctx context.Context, limit int) ([]events.Event, error)
}

// Handler provides the marketplace HTTP endpoints. The caller identity
// arrives pre-authenticated in the X-Caller-Account header; handlers
// pass it to the engine, which does the authorization.
type Handler struct {
	engine *market.Engine
	log    EventLog
	ledger CustodyLedger
}

// NewHandler creates a new API handler.
func NewHandler(engine *market.Engine, log EventLog, ledger CustodyLedger) *Handler {
	return &Handler{engine: engine, log: log, ledger: ledger}
}

type mintRequest struct {
	URI string `json:"uri"`
}

type batchMintRequest struct {
	URIs []string `json:"uris"`
}

type metadataRequest struct {
	URI string `json:"uri"`
}

type transferRequest struct {
	NewOwner string `json:"newOwner"`
}

type listingRequest struct {
	Price int64 `json:"price"`
}

type purchaseRequest struct {
	Method  string `json:"method"`
	TokenID string `json:"tokenId,omitempty"`
	Amount  int64  `json:"amount,omitempty"`
}

// Mint handles POST /api/v1/assets.
func (h *Handler) Mint(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.engine.Mint(r.Context(), caller, req.URI)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// BatchMint handles POST /api/v1/assets/batch.
func (h *Handler) BatchMint(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req batchMintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recs, err := h.engine.BatchMint(r.Context(), caller, req.URIs)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recs)
}

// GetAsset handles GET /api/v1/assets/{id}.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	rec, err := h.engine.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ListAssets handles GET /api/v1/assets?owner=...
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}

	recs, err := h.engine.ListByOwner(r.Context(), domain.Identity(owner), queryLimit(r, 50, 200))
	if err != nil {
		slog.Error("failed to list assets", "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if recs == nil {
		recs = []domain.AssetRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// UpdateMetadata handles PUT /api/v1/assets/{id}/metadata.
func (h *Handler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req metadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.engine.UpdateMetadata(r.Context(), caller, r.PathValue("id"), req.URI)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Transfer handles POST /api/v1/assets/{id}/transfer.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewOwner == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.engine.Transfer(r.Context(), caller, r.PathValue("id"), domain.Identity(req.NewOwner))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ListForSale handles POST /api/v1/assets/{id}/listing.
func (h *Handler) ListForSale(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.engine.ListForSale(r.Context(), caller, r.PathValue("id"), req.Price)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Purchase handles POST /api/v1/assets/{id}/purchase.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	buyer, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var pm domain.PaymentMethod
	switch req.Method {
	case "native":
		pm = domain.NativePayment{}
	case "token":
		if req.TokenID == "" {
			writeError(w, http.StatusBadRequest, "tokenId is required for token payment")
			return
		}
		pm = domain.TokenPayment{TokenID: req.TokenID, Amount: req.Amount}
	default:
		writeError(w, http.StatusBadRequest, "method must be native or token")
		return
	}

	rec, err := h.engine.Purchase(r.Context(), buyer, r.PathValue("id"), pm)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Burn handles DELETE /api/v1/assets/{id}.
func (h *Handler) Burn(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	if err := h.engine.Burn(r.Context(), caller, r.PathValue("id")); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssetEvents handles GET /api/v1/assets/{id}/events.
func (h *Handler) AssetEvents(w http.ResponseWriter, r *http.Request) {
	evs, err := h.log.ListByRecord(r.Context(), r.PathValue("id"), queryLimit(r, 100, 500))
	if err != nil {
		slog.Error("failed to list asset events", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if evs == nil {
		evs = []events.Event{}
	}
	writeJSON(w, http.StatusOK, evs)
}

// RecentEvents handles GET /api/v1/events.
func (h *Handler) RecentEvents(w http.ResponseWriter, r *http.Request) {
	evs, err := h.log.ListRecent(r.Context(), queryLimit(r, 100, 500))
	if err != nil {
		slog.Error("failed to list events", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if evs == nil {
		evs = []events.Event{}
	}
	writeJSON(w, http.StatusOK, evs)
}

type approveRequest struct {
	Amount int64 `json:"amount"`
}

// Approve handles POST /api/v1/tokens/{id}/approve. The caller
// authorizes the marketplace to draw up to amount from their token
// account; a later token purchase consumes this allowance.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ledger.Approve(r.Context(), r.PathValue("id"), caller, req.Amount); err != nil {
		slog.Error("failed to approve allowance", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"remaining": req.Amount})
}

// NativeBalance handles GET /api/v1/balance.
func (h *Handler) NativeBalance(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	balance, err := h.ledger.NativeBalance(r.Context(), caller)
	if err != nil {
		slog.Error("failed to read native balance", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

// ReportHandler provides the activity-report endpoints.
type ReportHandler struct {
	reports *report.Service
}

// NewReportHandler creates a report handler.
func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetLatest handles GET /api/v1/reports/latest.
func (h *ReportHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.GetLatest(r.Context())
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no reports found")
			return
		}
		slog.Error("failed to get latest report", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// GetByDate handles GET /api/v1/reports/{date}.
func (h *ReportHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.PathValue("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	rep, err := h.reports.GetByDate(r.Context(), date)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found for date")
			return
		}
		slog.Error("failed to get report by date", "date", dateStr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// List handles GET /api/v1/reports.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.List(r.Context(), queryLimit(r, 30, 365))
	if err != nil {
		slog.Error("failed to list reports", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if reports == nil {
		reports = []report.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// Generate handles POST /api/v1/reports/generate.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Generate(r.Context(), time.Now().UTC())
	if err != nil {
		slog.Error("failed to generate report", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// callerIdentity extracts the pre-authenticated caller identity. The
// upstream environment verifies it; its absence is a client error.
func callerIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	caller := r.Header.Get("X-Caller-Account")
	if caller == "" {
		writeError(w, http.StatusUnauthorized, "missing X-Caller-Account header")
		return "", false
	}
	return domain.Identity(caller), true
}

func queryLimit(r *http.Request, def, max int) int {
	limit := def
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, max)
		}
	}
	return limit
}

// writeEngineError maps lifecycle errors to HTTP statuses. Unknown
// errors are logged and surface as 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidMetadataURI),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidBatchSize):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOwnership):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotForSale):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, custody.ErrInsufficientFunds),
		errors.Is(err, custody.ErrInsufficientAllowance):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
