package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"eventdesk/backend/internal/service"
	"eventdesk/backend/internal/store"
)

type API struct {
	service       *service.Service
	auth          *AuthManager
	allowedOrigin string
	loginLimiter  *attemptLimiter
	logger        *zap.Logger
}

func New(svc *service.Service, auth *AuthManager, allowedOrigin string, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		service:       svc,
		auth:          auth,
		allowedOrigin: allowedOrigin,
		loginLimiter:  newAttemptLimiter(5, time.Minute),
		logger:        logger.Named("http"),
	}
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

// Allow records an attempt for key and reports whether it stays within the
// limit for the sliding window.
func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.entries[key]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	l.entries[key] = append(kept, now)
	return true
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", a.handleHealth)
	mux.HandleFunc("POST /api/v1/auth/login", a.handleLogin)
	mux.HandleFunc("GET /api/v1/auth/me", a.requireAuth(a.handleMe))

	mux.HandleFunc("GET /api/v1/companies", a.requireAuth(a.handleListCompanies))
	mux.HandleFunc("POST /api/v1/companies", a.requireAuth(a.handleCreateCompany))
	mux.HandleFunc("GET /api/v1/companies/{id}", a.requireAuth(a.handleGetCompany))
	mux.HandleFunc("PATCH /api/v1/companies/{id}", a.requireAuth(a.handleUpdateCompany))
	mux.HandleFunc("DELETE /api/v1/companies/{id}", a.requireAuth(a.handleDeleteCompany))
	mux.HandleFunc("GET /api/v1/companies/{id}/timeline", a.requireAuth(a.handleCompanyTimeline))

	mux.HandleFunc("GET /api/v1/contacts", a.requireAuth(a.handleListContacts))
	mux.HandleFunc("POST /api/v1/contacts", a.requireAuth(a.handleCreateContact))
	mux.HandleFunc("GET /api/v1/contacts/{id}", a.requireAuth(a.handleGetContact))
	mux.HandleFunc("PATCH /api/v1/contacts/{id}", a.requireAuth(a.handleUpdateContact))
	mux.HandleFunc("DELETE /api/v1/contacts/{id}", a.requireAuth(a.handleDeleteContact))
	mux.HandleFunc("GET /api/v1/contacts/{id}/interactions", a.requireAuth(a.handleListInteractions))

	mux.HandleFunc("POST /api/v1/interactions", a.requireAuth(a.handleCreateInteraction))
	mux.HandleFunc("PATCH /api/v1/interactions/{id}", a.requireAuth(a.handleUpdateInteraction))
	mux.HandleFunc("DELETE /api/v1/interactions/{id}", a.requireAuth(a.handleDeleteInteraction))

	mux.HandleFunc("GET /api/v1/events", a.requireAuth(a.handleListEvents))
	mux.HandleFunc("POST /api/v1/events", a.requireAuth(a.handleCreateEvent))
	mux.HandleFunc("GET /api/v1/events/{id}", a.requireAuth(a.handleGetEvent))
	mux.HandleFunc("PATCH /api/v1/events/{id}", a.requireAuth(a.handleUpdateEvent))
	mux.HandleFunc("DELETE /api/v1/events/{id}", a.requireAuth(a.handleDeleteEvent))
	mux.HandleFunc("GET /api/v1/events/{id}/staff", a.requireAuth(a.handleListStaff))
	mux.HandleFunc("POST /api/v1/events/{id}/staff", a.requireAuth(a.handleAddStaff))
	mux.HandleFunc("GET /api/v1/events/{id}/inventory", a.requireAuth(a.handleListInventory))
	mux.HandleFunc("POST /api/v1/events/{id}/inventory", a.requireAuth(a.handleAddInventoryLine))
	mux.HandleFunc("GET /api/v1/events/{id}/economics", a.requireAuth(a.handleEventEconomics))
	mux.HandleFunc("GET /api/v1/events/{id}/economics.xlsx", a.requireAuth(a.handleEventEconomicsXLSX))

	mux.HandleFunc("PATCH /api/v1/staff/{id}", a.requireAuth(a.handleUpdateStaff))
	mux.HandleFunc("DELETE /api/v1/staff/{id}", a.requireAuth(a.handleRemoveStaff))
	mux.HandleFunc("PATCH /api/v1/inventory/{id}", a.requireAuth(a.handleUpdateInventoryLine))
	mux.HandleFunc("DELETE /api/v1/inventory/{id}", a.requireAuth(a.handleDeleteInventoryLine))

	mux.HandleFunc("GET /api/v1/barmans", a.requireAuth(a.handleListBarmans))
	mux.HandleFunc("POST /api/v1/barmans", a.requireAuth(a.handleCreateBarman))
	mux.HandleFunc("GET /api/v1/barmans/{id}", a.requireAuth(a.handleGetBarman))
	mux.HandleFunc("PATCH /api/v1/barmans/{id}", a.requireAuth(a.handleUpdateBarman))
	mux.HandleFunc("DELETE /api/v1/barmans/{id}", a.requireAuth(a.handleDeleteBarman))

	mux.HandleFunc("GET /api/v1/products", a.requireAuth(a.handleListProducts))
	mux.HandleFunc("POST /api/v1/products", a.requireAuth(a.handleCreateProduct))
	mux.HandleFunc("GET /api/v1/products/{id}", a.requireAuth(a.handleGetProduct))
	mux.HandleFunc("PATCH /api/v1/products/{id}", a.requireAuth(a.handleUpdateProduct))
	mux.HandleFunc("DELETE /api/v1/products/{id}", a.requireAuth(a.handleDeleteProduct))
	mux.HandleFunc("GET /api/v1/products/{id}/deliveries", a.requireAuth(a.handleListDeliveries))
	mux.HandleFunc("POST /api/v1/products/{id}/deliveries", a.requireAuth(a.handleCreateDelivery))
	mux.HandleFunc("PATCH /api/v1/deliveries/{id}", a.requireAuth(a.handleUpdateDelivery))
	mux.HandleFunc("DELETE /api/v1/deliveries/{id}", a.requireAuth(a.handleDeleteDelivery))

	mux.HandleFunc("GET /api/v1/tasks", a.requireAuth(a.handleListTasks))
	mux.HandleFunc("POST /api/v1/tasks", a.requireAuth(a.handleCreateTask))
	mux.HandleFunc("PATCH /api/v1/tasks/{id}", a.requireAuth(a.handleUpdateTask))
	mux.HandleFunc("DELETE /api/v1/tasks/{id}", a.requireAuth(a.handleDeleteTask))

	mux.HandleFunc("GET /api/v1/quick-links", a.requireAuth(a.handleListQuickLinks))
	mux.HandleFunc("POST /api/v1/quick-links", a.requireAuth(a.handleCreateQuickLink))
	mux.HandleFunc("PATCH /api/v1/quick-links/{id}", a.requireAuth(a.handleUpdateQuickLink))
	mux.HandleFunc("DELETE /api/v1/quick-links/{id}", a.requireAuth(a.handleDeleteQuickLink))

	mux.HandleFunc("GET /api/v1/expenses", a.requireAuth(a.handleListExpenses))
	mux.HandleFunc("POST /api/v1/expenses", a.requireAuth(a.handleCreateExpense))
	mux.HandleFunc("PATCH /api/v1/expenses/{id}", a.requireAuth(a.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/v1/expenses/{id}", a.requireAuth(a.handleDeleteExpense))

	mux.HandleFunc("GET /api/v1/users", a.requireAuth(a.handleListUsers, roleAdmin))
	mux.HandleFunc("POST /api/v1/users", a.requireAuth(a.handleCreateUser, roleAdmin))
	mux.HandleFunc("PATCH /api/v1/users/{email}", a.requireAuth(a.handleUpdateUser, roleAdmin))

	return a.withMiddleware(mux)
}

// writeServiceError maps store sentinel errors onto HTTP statuses. Anything
// unrecognised is a 500 and is logged with the request id.
func (a *API) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	}
	if status >= 500 {
		a.logger.Error("request failed",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	writeError(w, status, err)
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

// writeError hides the message of 5xx responses; 4xx messages are meant for
// the caller.
func writeError(w http.ResponseWriter, status int, err error) {
	msg := err.Error()
	if status >= 500 {
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
