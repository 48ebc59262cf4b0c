package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/economics"
	"eventdesk/backend/internal/export"
	"eventdesk/backend/internal/service"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := newTestUsers(t)
	svc := service.New(repo, nil, time.Minute, economics.DefaultRates(), nil)
	auth := NewAuthManager(testSecret, time.Hour, repo, nil)
	return New(svc, auth, "https://app.eventdesk.test", nil)
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func loginAsAdmin(t *testing.T, h http.Handler) string {
	return login(t, h, "admin@eventdesk.test", "admin-password")
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder, key string) T {
	t.Helper()
	var envelope map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	raw, ok := envelope[key]
	require.True(t, ok, "missing %q in response", key)

	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHandleHealth(t *testing.T) {
	h := newTestAPI(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
}

func TestHandleLogin(t *testing.T) {
	h := newTestAPI(t).Handler()

	token := loginAsAdmin(t, h)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeInto[domain.Actor](t, rec, "user")
	assert.Equal(t, "admin@eventdesk.test", me.Email)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{Email: "admin@eventdesk.test", Password: "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutesRequireBearerToken(t *testing.T) {
	h := newTestAPI(t).Handler()

	for _, path := range []string{"/api/v1/products", "/api/v1/events", "/api/v1/tasks", "/api/v1/users"} {
		rec := doJSON(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := doJSON(t, h, http.MethodGet, "/api/v1/products", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsersAreAdminOnly(t *testing.T) {
	h := newTestAPI(t).Handler()
	member := login(t, h, "member@eventdesk.test", "member-password")
	admin := loginAsAdmin(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/users", member, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/users", admin, domain.UserCreateRequest{
		Email: "chef.bar@eventdesk.test", Password: "long-enough-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/v1/users", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeInto[[]map[string]any](t, rec, "users")
	assert.Len(t, users, 3)
	for _, u := range users {
		assert.NotContains(t, u, "password_hash")
	}

	rec = doJSON(t, h, http.MethodPatch, "/api/v1/users/member@eventdesk.test", admin, map[string]any{"active": false})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, h, http.MethodGet, "/api/v1/products", member, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodPatch, "/api/v1/users/admin@eventdesk.test", admin, map[string]any{"active": false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventEconomicsEndToEnd(t *testing.T) {
	h := newTestAPI(t).Handler()
	token := loginAsAdmin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/events", token, map[string]any{
		"title": "Mariage Dupont",
		"date":  "2025-06-21",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	event := decodeInto[domain.Event](t, rec, "event")

	rec = doJSON(t, h, http.MethodPost, "/api/v1/barmans", token, map[string]any{"first_name": "Léa", "last_name": "Martin"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	barman := decodeInto[domain.Barman](t, rec, "barman")

	rec = doJSON(t, h, http.MethodPost, "/api/v1/events/"+event.ID+"/staff", token, map[string]any{
		"barman_id":  barman.ID,
		"start_time": "22:00",
		"end_time":   "02:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assignment := decodeInto[domain.ShiftAssignment](t, rec, "assignment")
	assert.True(t, assignment.CrossesMidnight)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/products", token, map[string]any{"name": "Fût Blonde 30L"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decodeInto[domain.Product](t, rec, "product")
	assert.Equal(t, domain.StockModeKeg, product.StockMode)

	line := map[string]any{
		"product_id":           product.ID,
		"sale_price_ht":        "150",
		"sale_price_ttc":       "180",
		"quantity":             "2",
		"inventory_start_full": 2,
		"inventory_end_empty":  2,
	}
	rec = doJSON(t, h, http.MethodPost, "/api/v1/events/"+event.ID+"/inventory", token, line)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/v1/events/"+event.ID+"/inventory", token, line)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/events/"+event.ID+"/economics", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	econ := decodeInto[domain.EventEconomics](t, rec, "economics")
	assert.Equal(t, "4", econ.TotalHoursWorked.String())
	assert.Equal(t, "58", econ.TotalLaborCost.String())
	assert.Equal(t, "300", econ.TotalRevenueHT.String())
	assert.Equal(t, "360", econ.TotalRevenueTTC.String())
	require.Len(t, econ.Lines, 1)
	assert.Equal(t, 0, econ.Lines[0].Delta)
}

func TestEventEconomicsXLSXDownload(t *testing.T) {
	h := newTestAPI(t).Handler()
	token := loginAsAdmin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/events", token, map[string]any{"title": "Salon", "date": "2025-09-12"})
	require.Equal(t, http.StatusCreated, rec.Code)
	event := decodeInto[domain.Event](t, rec, "event")

	rec = doJSON(t, h, http.MethodGet, "/api/v1/events/"+event.ID+"/economics.xlsx", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "economics-2025-09-12-")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{export.SheetSummary, export.SheetStaff, export.SheetInventory}, f.GetSheetList())
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	h := newTestAPI(t).Handler()
	token := loginAsAdmin(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/events/evt_missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/companies", token, map[string]any{"name": "Acme", "type": "ngo"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/companies", token, map[string]any{"name": "Acme", "unexpected": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/tasks/tsk_missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompanyContactFlow(t *testing.T) {
	h := newTestAPI(t).Handler()
	token := loginAsAdmin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/companies", token, map[string]any{"name": "Mairie de Roubaix", "type": "mairie"})
	require.Equal(t, http.StatusCreated, rec.Code)
	company := decodeInto[domain.Company](t, rec, "company")

	rec = doJSON(t, h, http.MethodPost, "/api/v1/contacts", token, map[string]any{
		"company_id": company.ID, "first_name": "Camille", "last_name": "Durand",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	contact := decodeInto[domain.Contact](t, rec, "contact")

	rec = doJSON(t, h, http.MethodPost, "/api/v1/interactions", token, map[string]any{
		"contact_id": contact.ID, "type": "appel", "content": "Devis envoyé",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/v1/contacts?q=durand", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeInto[[]domain.Contact](t, rec, "contacts"), 1)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/companies/"+company.ID+"/timeline", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeInto[[]domain.Interaction](t, rec, "interactions"), 1)

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/companies/"+company.ID, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/contacts/"+contact.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeInto[domain.Contact](t, rec, "contact").CompanyID)
}

func TestTaskAndDeliveryRoutes(t *testing.T) {
	h := newTestAPI(t).Handler()
	token := loginAsAdmin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/tasks", token, map[string]any{"title": "Commander les gobelets", "due_date": "2025-06-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decodeInto[domain.Task](t, rec, "task")

	rec = doJSON(t, h, http.MethodPatch, "/api/v1/tasks/"+task.ID, token, map[string]any{"is_done": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeInto[domain.Task](t, rec, "task").IsDone)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/products", token, map[string]any{"name": "Canette Cola 33cl", "initial_vat_rate": "5.5"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decodeInto[domain.Product](t, rec, "product")

	rec = doJSON(t, h, http.MethodPost, "/api/v1/products/"+product.ID+"/deliveries", token, map[string]any{
		"delivery_date": "2025-06-02", "quantity": 24, "purchase_price_ht": "0.45", "vat_rate": "5.5",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/v1/products/"+product.ID+"/deliveries", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deliveries := decodeInto[[]domain.ProductDelivery](t, rec, "deliveries")
	require.Len(t, deliveries, 1)
	assert.Equal(t, domain.Count(24), deliveries[0].Quantity)
}

func TestQuickLinkAndExpenseRoutes(t *testing.T) {
	h := newTestAPI(t).Handler()
	token := loginAsAdmin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/quick-links", token, map[string]any{"name": "Drive", "url": "drive.google.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	link := decodeInto[domain.QuickLink](t, rec, "quick_link")
	assert.Equal(t, "https://drive.google.com", link.URL)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/quick-links", token, map[string]any{"name": "FTP", "url": "ftp://files.example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/quick-links", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeInto[[]domain.QuickLink](t, rec, "quick_links"), 1)

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/quick-links/"+link.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/expenses", token, map[string]any{"title": "Glaçons", "date": "2025-06-21", "amount_ttc": "42.90"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	expense := decodeInto[domain.Expense](t, rec, "expense")

	rec = doJSON(t, h, http.MethodPatch, "/api/v1/expenses/"+expense.ID, token, map[string]any{"amount_ttc": "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/expenses", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	expenses := decodeInto[[]domain.Expense](t, rec, "expenses")
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].AmountTTC.Equal(decimal.RequireFromString("42.9")))
}
