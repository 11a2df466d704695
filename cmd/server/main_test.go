package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/together/internal/config"
	"github.com/mmynk/together/internal/storage/sqlite"
)

func TestNewHandler(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	cfg := &config.Config{
		Auth:  config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour},
		Admin: config.AdminConfig{PerPage: 10},
	}
	handler, err := newHandler(cfg, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("newHandler failed: %v", err)
	}

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantLoc    string
	}{
		{"root redirects to console", http.MethodGet, "/", http.StatusFound, "/admin/"},
		{"console requires login", http.MethodGet, "/admin/", http.StatusFound, "/admin/login/?next=%2Fadmin%2F"},
		{"login page", http.MethodGet, "/admin/login/", http.StatusOK, ""},
		{"connect preflight", http.MethodOptions, "/together.admin.v1.AdminService/ListModels", http.StatusOK, ""},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLoc != "" && rec.Header().Get("Location") != tt.wantLoc {
				t.Errorf("Location = %q, want %q", rec.Header().Get("Location"), tt.wantLoc)
			}
		})
	}

	t.Run("metrics record routes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if !strings.Contains(rec.Body.String(), `together_admin_http_requests_total{code="302",method="GET",route="GET /{$}"}`) {
			t.Error("expected request counter for the root route")
		}
	})
}
