package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

func TestAdminLogin(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "correct password", body: `{"password":"hunter2"}`, wantCode: http.StatusOK},
		{name: "wrong password", body: `{"password":"guess"}`, wantCode: http.StatusUnauthorized},
		{name: "missing password", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "malformed body", body: `{`, wantCode: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp()
			req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			app.AdminLogin(rr, req)

			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantCode)
			}
		})
	}
}

func TestAdminSubscribersListsActiveSorted(t *testing.T) {
	app := newTestApp()
	app.Subscribers = &fakeSubscribers{active: []domain.Subscriber{
		{ID: "id-2", Email: "b@b.com", Status: domain.SubscriptionActive, SubscribedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "id-1", Email: "a@b.com", Status: domain.SubscriptionActive, SubscribedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/subscribers", nil)
	rr := httptest.NewRecorder()
	app.AdminSubscribers(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var items []subscriberDTO
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].ID != "id-2" || items[1].ID != "id-1" {
		t.Fatalf("order = [%s %s], want repository order preserved", items[0].ID, items[1].ID)
	}
	if items[0].Status != "active" {
		t.Fatalf("status = %q, want active", items[0].Status)
	}
}

func TestAdminSubscribersEmptyListIsArray(t *testing.T) {
	app := newTestApp()
	app.Subscribers = &fakeSubscribers{}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/subscribers", nil)
	rr := httptest.NewRecorder()
	app.AdminSubscribers(rr, req)

	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("empty list rendered as %q, want []", got)
	}
}

func TestAdminSubscriberDelete(t *testing.T) {
	tests := []struct {
		name      string
		deleteErr error
		wantCode  int
	}{
		{name: "existing id", deleteErr: nil, wantCode: http.StatusOK},
		{name: "unknown id", deleteErr: domain.ErrNotFound, wantCode: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp()
			subs := &fakeSubscribers{deleteErr: tc.deleteErr}
			app.Subscribers = subs

			r := chi.NewRouter()
			r.Delete("/api/admin/subscribers/{id}", app.AdminSubscriberDelete)

			req := httptest.NewRequest(http.MethodDelete, "/api/admin/subscribers/id-9", nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			if len(subs.deleted) != 1 || subs.deleted[0] != "id-9" {
				t.Fatalf("deleted ids = %v, want [id-9]", subs.deleted)
			}
		})
	}
}
