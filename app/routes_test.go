package app_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-modular/app"
	"github.com/km-arc/go-modular/app/services"
	kernel "github.com/km-arc/go-modular/framework/app"
	"github.com/km-arc/go-modular/framework/config"
	"github.com/km-arc/go-modular/framework/container"
	"github.com/km-arc/go-modular/framework/modules"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func flagOf[T any]() string { return modules.FlagKey(container.Key[T]()) }

func boot(t *testing.T, values map[string]any) (*kernel.Application, http.Handler) {
	t.Helper()
	repo, err := config.FromMap(values)
	require.NoError(t, err)
	a, err := kernel.New(kernel.Options{
		Repository: repo,
		LogWriter:  io.Discard,
		Marker:     app.Marker(),
		Manifest:   app.Manifest(),
		Routes:     app.Routes,
	})
	require.NoError(t, err)
	require.NoError(t, a.Boot())
	router, err := a.Router()
	require.NoError(t, err)
	return a, router
}

func call(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return rr.Code, out
}

func ticketsEnabled() map[string]any {
	return map[string]any{flagOf[*services.TicketManager](): true}
}

// ── Activation ───────────────────────────────────────────────────────────────

func TestManifest_TicketManagerPullsInItsDependencies(t *testing.T) {
	a, _ := boot(t, ticketsEnabled())

	plan, err := a.Plan()
	require.NoError(t, err)
	assert.Equal(t, []string{
		container.Key[*services.MemoryEventBus](),
		container.Key[*services.ConfigService](),
		container.Key[*services.CacheTicketStore](),
		container.Key[*services.TicketManager](),
		container.Key[*services.AuditLog](),
	}, plan.Enabled.Names())
	assert.Empty(t, plan.Unsatisfied)
}

func TestManifest_NothingEnabled(t *testing.T) {
	a, router := boot(t, nil)

	plan, err := a.Plan()
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Enabled.Len())

	code, body := call(t, router, http.MethodGet, "/tickets", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "ticket service is not enabled", body["message"])
}

// ── Ticket API ───────────────────────────────────────────────────────────────

func TestTickets_Lifecycle(t *testing.T) {
	a, router := boot(t, ticketsEnabled())

	code, body := call(t, router, http.MethodPost, "/tickets", `{"title":"Broken build","type":"bug"}`)
	require.Equal(t, http.StatusCreated, code, body)
	created := body["data"].(map[string]any)
	id := created["id"].(string)
	assert.NotEmpty(t, id)
	assert.Equal(t, "open", created["status"])

	code, body = call(t, router, http.MethodGet, "/tickets/"+id, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Broken build", body["data"].(map[string]any)["title"])

	code, body = call(t, router, http.MethodPost, "/tickets/"+id+"/close", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "closed", body["data"].(map[string]any)["status"])

	code, _ = call(t, router, http.MethodPost, "/tickets/"+id+"/close", "")
	assert.Equal(t, http.StatusConflict, code)

	code, body = call(t, router, http.MethodGet, "/tickets", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)

	audit, err := container.Get[*services.AuditLog](a.Container)
	require.NoError(t, err)
	assert.Len(t, audit.Entries(), 2)
}

func TestTickets_Errors(t *testing.T) {
	_, router := boot(t, ticketsEnabled())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown ticket", http.MethodGet, "/tickets/nope", "", http.StatusNotFound},
		{"close unknown", http.MethodPost, "/tickets/nope/close", "", http.StatusNotFound},
		{"missing title", http.MethodPost, "/tickets", `{"title":""}`, http.StatusUnprocessableEntity},
		{"unknown type", http.MethodPost, "/tickets", `{"title":"x","type":"epic"}`, http.StatusUnprocessableEntity},
		{"bad json", http.MethodPost, "/tickets", `{bad`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/tickets", ``, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := call(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code, body)
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestTickets_ValidationErrorBag(t *testing.T) {
	_, router := boot(t, ticketsEnabled())

	code, body := call(t, router, http.MethodPost, "/tickets", `{"title":"","type":"epic"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	bag, ok := body["errors"].(map[string]any)
	require.True(t, ok, body)
	assert.Equal(t, []any{"The title field is required."}, bag["title"])
	assert.Equal(t, []any{"The selected type is invalid."}, bag["type"])
}

func TestTickets_DisabledRequirementFailsOnUse(t *testing.T) {
	values := ticketsEnabled()
	values[flagOf[*services.MemoryEventBus]()] = false
	a, router := boot(t, values)

	plan, err := a.Plan()
	require.NoError(t, err)
	require.Len(t, plan.Unsatisfied, 1)
	assert.Equal(t, container.Key[*services.TicketManager](), plan.Unsatisfied[0].Module)

	code, body := call(t, router, http.MethodGet, "/tickets", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body["message"], "no binding")
}
