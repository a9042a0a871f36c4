package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"wifimon/internal/adapter"
	"wifimon/internal/domain"
	"wifimon/internal/repository"
	"wifimon/internal/service"
)

// Scanner is the query API used by the handlers
type Scanner interface {
	StartScan(ctx context.Context) *service.PendingScan
	Latest() *domain.ScanResult
	ListNetworks() []domain.NetworkRecord
	GetNetwork(id domain.NetworkID) (domain.NetworkRecord, error)
}

// CredentialGetter reads stored passwords
type CredentialGetter interface {
	GetCredential(ctx context.Context, network string) (domain.Secret, error)
}

// History lists stored scans and credential accesses
type History interface {
	ListScans(ctx context.Context, limit int) ([]domain.ScanSummary, error)
	ListCredentialAccess(ctx context.Context, limit int) ([]repository.CredentialAccessEntry, error)
}

// RouterFunc returns the likely router addresses
type RouterFunc func(ctx context.Context) (adapter.RouterInfo, error)

// InterfaceFunc describes the WiFi interface
type InterfaceFunc func(ctx context.Context) (adapter.InterfaceReport, error)

const defaultHistoryLimit = 50

// ScanHandler handles the scan and network API
type ScanHandler struct {
	scans   Scanner
	creds   CredentialGetter
	history History
	router  RouterFunc
	iface   InterfaceFunc
	// baseCtx outlives requests; background scans run under it
	baseCtx context.Context
	logger  zerolog.Logger
}

// NewScanHandler creates a new scan handler. Scans started through the API run
// under baseCtx, not under the request context.
func NewScanHandler(baseCtx context.Context, scans Scanner, creds CredentialGetter, logger zerolog.Logger) *ScanHandler {
	return &ScanHandler{
		scans:   scans,
		creds:   creds,
		baseCtx: baseCtx,
		logger:  logger,
	}
}

// SetHistory enables the history endpoints
func (h *ScanHandler) SetHistory(history History) {
	h.history = history
}

// SetRouter enables the gateway endpoint
func (h *ScanHandler) SetRouter(fn RouterFunc) {
	h.router = fn
}

// SetInterfaceInfo enables the interface endpoint
func (h *ScanHandler) SetInterfaceInfo(fn InterfaceFunc) {
	h.iface = fn
}

// Register adds the API routes to mux. events serves /events when non-nil.
func (h *ScanHandler) Register(mux *http.ServeMux, events http.Handler) {
	mux.HandleFunc("GET /api/networks", h.ListNetworks)
	mux.HandleFunc("GET /api/network", h.GetNetwork)
	mux.HandleFunc("GET /api/credential", h.GetCredential)
	mux.HandleFunc("GET /api/networks/{id}", h.GetNetwork)
	mux.HandleFunc("GET /api/networks/{id}/credential", h.GetCredential)
	mux.HandleFunc("GET /api/scan", h.GetScan)
	mux.HandleFunc("POST /api/scan", h.StartScan)
	mux.HandleFunc("GET /api/gateway", h.GetGateway)
	mux.HandleFunc("GET /api/interface", h.GetInterface)
	mux.HandleFunc("GET /api/history", h.ListHistory)
	mux.HandleFunc("GET /api/history/credentials", h.ListCredentialAccess)
	if events != nil {
		mux.Handle("GET /events", events)
	}
}

// ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// networkParam returns the network name from the {id} path segment or, for
// names containing a slash, from the id query parameter
func networkParam(r *http.Request) string {
	if id := r.PathValue("id"); id != "" {
		return id
	}
	return r.URL.Query().Get("id")
}

// ListNetworks returns the networks of the latest scan
func (h *ScanHandler) ListNetworks(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.scans.ListNetworks(), http.StatusOK)
}

// GetNetwork returns a single network
func (h *ScanHandler) GetNetwork(w http.ResponseWriter, r *http.Request) {
	id, err := domain.NewNetworkID(networkParam(r))
	if err != nil {
		h.writeError(w, "Invalid network ID", err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.scans.GetNetwork(id)
	if err != nil {
		h.writeDomainError(w, "Failed to get network", err)
		return
	}

	h.writeJSON(w, rec, http.StatusOK)
}

// credentialResponse is the only place a password leaves the process
type credentialResponse struct {
	Network     domain.NetworkID `json:"network"`
	Password    string           `json:"password"`
	Fingerprint string           `json:"fingerprint"`
}

// GetCredential returns the stored password of a network
func (h *ScanHandler) GetCredential(w http.ResponseWriter, r *http.Request) {
	if h.creds == nil {
		h.writeError(w, "Credentials unavailable", "no credential store configured", http.StatusNotImplemented)
		return
	}

	secret, err := h.creds.GetCredential(r.Context(), networkParam(r))
	if err != nil {
		h.writeDomainError(w, "Failed to get credential", err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	h.writeJSON(w, credentialResponse{
		Network:     secret.Network(),
		Password:    secret.Reveal(),
		Fingerprint: secret.Fingerprint(),
	}, http.StatusOK)
}

// GetScan returns the latest scan
func (h *ScanHandler) GetScan(w http.ResponseWriter, r *http.Request) {
	latest := h.scans.Latest()
	if latest == nil {
		h.writeError(w, "Not found", "no scan has completed yet", http.StatusNotFound)
		return
	}
	h.writeJSON(w, latest, http.StatusOK)
}

// StartScan starts a scan. With ?wait=true it responds with the finished scan.
func (h *ScanHandler) StartScan(w http.ResponseWriter, r *http.Request) {
	pending := h.scans.StartScan(h.baseCtx)

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); !wait {
		h.writeJSON(w, map[string]string{"status": "started"}, http.StatusAccepted)
		return
	}

	select {
	case <-pending.Done():
	case <-r.Context().Done():
		return
	}

	result, err := pending.Wait()
	if err != nil {
		h.logger.Warn().Err(err).Msg("Scan did not complete")
		h.writeError(w, "Scan did not complete", err.Error(), http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, result, http.StatusOK)
}

// GetGateway returns the default gateway and the common router addresses
func (h *ScanHandler) GetGateway(w http.ResponseWriter, r *http.Request) {
	if h.router == nil {
		h.writeError(w, "Gateway lookup unavailable", "", http.StatusNotImplemented)
		return
	}

	info, err := h.router(r.Context())
	if err != nil {
		h.writeError(w, "Gateway lookup failed", err.Error(), http.StatusServiceUnavailable)
		return
	}
	if info.LookupError != "" {
		h.logger.Warn().Str("error", info.LookupError).Msg("Gateway lookup failed, using common router addresses")
	}
	h.writeJSON(w, info, http.StatusOK)
}

// GetInterface returns the WiFi hardware port and its IP configuration
func (h *ScanHandler) GetInterface(w http.ResponseWriter, r *http.Request) {
	if h.iface == nil {
		h.writeError(w, "Interface lookup unavailable", "", http.StatusNotImplemented)
		return
	}

	report, err := h.iface(r.Context())
	switch {
	case errors.Is(err, adapter.ErrNoWiFiInterface):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
		return
	case err != nil:
		h.logger.Warn().Err(err).Msg("Interface lookup failed")
		h.writeError(w, "Interface lookup failed", err.Error(), http.StatusBadGateway)
		return
	}
	h.writeJSON(w, report, http.StatusOK)
}

// ListHistory returns stored scan summaries, newest first
func (h *ScanHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.writeError(w, "History disabled", "set history.path to enable it", http.StatusNotImplemented)
		return
	}

	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	scans, err := h.history.ListScans(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list scans")
		h.writeError(w, "Failed to list scans", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, scans, http.StatusOK)
}

// ListCredentialAccess returns the credential audit trail, newest first
func (h *ScanHandler) ListCredentialAccess(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.writeError(w, "History disabled", "set history.path to enable it", http.StatusNotImplemented)
		return
	}

	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	entries, err := h.history.ListCredentialAccess(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list credential access")
		h.writeError(w, "Failed to list credential access", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, entries, http.StatusOK)
}

func (h *ScanHandler) parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultHistoryLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		h.writeError(w, "Invalid limit", "limit must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return limit, true
}

// writeDomainError maps domain errors to status codes
func (h *ScanHandler) writeDomainError(w http.ResponseWriter, msg string, err error) {
	switch {
	case domain.IsNotFound(err):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrEmptyNetworkID), errors.Is(err, domain.ErrInvalidNetworkID):
		h.writeError(w, "Invalid network ID", err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrCanceled):
		h.writeError(w, msg, err.Error(), http.StatusServiceUnavailable)
	default:
		h.logger.Error().Err(err).Msg(msg)
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ScanHandler) writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write response")
	}
}

func (h *ScanHandler) writeError(w http.ResponseWriter, message, details string, status int) {
	h.writeJSON(w, ErrorResponse{Error: message, Details: details}, status)
}
