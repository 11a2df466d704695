package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/together/internal/admin"
	"github.com/mmynk/together/internal/auth"
	"github.com/mmynk/together/internal/models"
	"github.com/mmynk/together/internal/storage/sqlite"
)

type consoleFixture struct {
	handler http.Handler
	console *Console
	store   *sqlite.SQLiteStore
	jwt     *auth.JWTManager
	staff   *models.User
}

func setupConsole(t *testing.T) *consoleFixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "console.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	site := admin.NewSite(store, 0)
	if err := admin.RegisterDefaults(site); err != nil {
		t.Fatalf("RegisterDefaults failed: %v", err)
	}

	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	staff, err := authenticator.CreateStaff(context.Background(), "admin", "", "correct horse")
	if err != nil {
		t.Fatalf("CreateStaff failed: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	console, err := NewConsole(site, authenticator, jwtManager, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewConsole failed: %v", err)
	}

	mux := http.NewServeMux()
	console.Register(mux)

	return &consoleFixture{handler: mux, console: console, store: store, jwt: jwtManager, staff: staff}
}

func (f *consoleFixture) get(t *testing.T, path string, signedIn bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if signedIn {
		token, err := f.jwt.Generate(f.staff)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRedirectsToLogin(t *testing.T) {
	f := setupConsole(t)

	rec := f.get(t, "/admin/user/", false)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	want := "/admin/login/?next=" + url.QueryEscape("/admin/user/")
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

func TestLoginFlow(t *testing.T) {
	f := setupConsole(t)

	rec := f.get(t, "/admin/login/?next=/admin/room/", false)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `value="/admin/room/"`) {
		t.Fatalf("login form: status %d body %s", rec.Code, rec.Body.String())
	}

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("wrong password", func(t *testing.T) {
		rec := post(url.Values{"username": {"admin"}, "password": {"nope nope"}})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Error("no cookie expected on failed login")
		}
	})

	t.Run("correct password", func(t *testing.T) {
		rec := post(url.Values{"username": {"admin"}, "password": {"correct horse"}, "next": {"/admin/room/"}})
		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != "/admin/room/" {
			t.Errorf("Location = %q", got)
		}
		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].Value == "" {
			t.Fatalf("unexpected cookies: %v", cookies)
		}
	})

	t.Run("offsite next is ignored", func(t *testing.T) {
		rec := post(url.Values{"username": {"admin"}, "password": {"correct horse"}, "next": {"https://evil.example/"}})
		if got := rec.Header().Get("Location"); got != "/admin/" {
			t.Errorf("Location = %q, want /admin/", got)
		}
	})
}

func TestSecureSessionCookie(t *testing.T) {
	for _, secure := range []bool{false, true} {
		f := setupConsole(t)
		f.console.WithSecureCookies(secure)

		for _, path := range []string{"/admin/login/", "/admin/logout/"} {
			form := url.Values{"username": {"admin"}, "password": {"correct horse"}}
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, req)

			cookies := rec.Result().Cookies()
			if len(cookies) != 1 {
				t.Fatalf("%s: expected one cookie, got %v", path, cookies)
			}
			if cookies[0].Secure != secure {
				t.Errorf("%s: Secure = %v, want %v", path, cookies[0].Secure, secure)
			}
		}
	}
}

func TestIndex(t *testing.T) {
	f := setupConsole(t)

	rec := f.get(t, "/admin/", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Users", "Relationship tips", "Rooms", "Lists", "List items", `href="/admin/list-item/"`, "admin"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestChangelistPage(t *testing.T) {
	f := setupConsole(t)
	ctx := context.Background()

	if err := f.store.CreateUser(ctx, &models.User{Username: "carol", FirstName: "Carol", LastName: "Jones"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	rec := f.get(t, "/admin/user/", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Select user to change", "<th scope=\"col\">Get room</th>", "<td>carol</td>", "<td>N/A</td>"} {
		if !strings.Contains(body, want) {
			t.Errorf("changelist missing %q", want)
		}
	}

	t.Run("unknown model", func(t *testing.T) {
		if rec := f.get(t, "/admin/group/", true); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("bad page", func(t *testing.T) {
		if rec := f.get(t, "/admin/user/?p=7", true); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if rec := f.get(t, "/admin/user/?p=x", true); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestLogout(t *testing.T) {
	f := setupConsole(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout/", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/login/" {
		t.Errorf("unexpected response: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expiring cookie, got %v", cookies)
	}
}
