// Package web serves the browser-based admin console.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmynk/together/internal/admin"
	"github.com/mmynk/together/internal/auth"
	"github.com/mmynk/together/internal/metrics"
	"github.com/mmynk/together/internal/middleware"
)

// SessionCookie holds the JWT of a signed-in staff user.
const SessionCookie = "together_admin_session"

const loginPath = "/admin/login/"

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"plural":   func(name string) string { return name + "s" },
	"capfirst": admin.Header,
	"inc":      func(n int) int { return n + 1 },
	"dec":      func(n int) int { return n - 1 },
}

// page is the data passed to every template.
type page struct {
	Username   string
	Error      string
	Next       string
	Form       string
	Models     []admin.ModelAdmin
	Changelist *admin.Changelist
}

// Console renders the admin site as HTML pages.
type Console struct {
	site          *admin.Site
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
	pages         map[string]*template.Template
	secure        bool
}

// NewConsole parses the templates and returns a console over site.
func NewConsole(site *admin.Site, authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) (*Console, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"login", "index", "changelist"} {
		t, err := template.New("layout").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = t
	}

	return &Console{
		site:          site,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
		pages:         pages,
	}, nil
}

// WithSecureCookies sets the Secure attribute on session cookies.
func (c *Console) WithSecureCookies(secure bool) *Console {
	c.secure = secure
	return c
}

// Register mounts the console routes on mux.
func (c *Console) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+loginPath, c.loginForm)
	mux.HandleFunc("POST "+loginPath, c.login)
	mux.HandleFunc("POST /admin/logout/", c.logout)
	mux.Handle("GET /admin/{$}", c.requireSession(http.HandlerFunc(c.index)))
	mux.Handle("GET /admin/{model}/", c.requireSession(http.HandlerFunc(c.changelist)))
}

func (c *Console) render(w http.ResponseWriter, status int, name string, data page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.pages[name].ExecuteTemplate(w, "layout", data); err != nil {
		c.logger.Error("Failed to render template", "template", name, "error", err)
	}
}

// requireSession redirects to the login page unless the request carries a
// valid session cookie.
func (c *Console) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err == nil {
			claims, verr := c.jwtManager.Validate(cookie.Value)
			if verr == nil {
				next.ServeHTTP(w, r.WithContext(middleware.WithClaims(r.Context(), claims)))
				return
			}
			c.logger.Debug("Rejected session cookie", "error", verr)
		}

		http.Redirect(w, r, loginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
	})
}

func (c *Console) loginForm(w http.ResponseWriter, r *http.Request) {
	c.render(w, http.StatusOK, "login", page{Next: r.URL.Query().Get("next")})
}

func (c *Console) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	next := safeNext(r.PostFormValue("next"))

	user, err := c.authenticator.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("denied").Inc()
		c.logger.Warn("Console login failed", "username", username, "error", err)
		c.render(w, http.StatusUnauthorized, "login", page{
			Error: "Please enter the correct username and password for a staff account.",
			Next:  next,
			Form:  username,
		})
		return
	}

	token, err := c.jwtManager.Generate(user)
	if err != nil {
		c.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/admin/",
		MaxAge:   int(c.jwtManager.TokenDuration().Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})

	metrics.LoginAttempts.WithLabelValues("ok").Inc()
	c.logger.Info("Console login", "user_id", user.ID, "username", user.Username)
	http.Redirect(w, r, next, http.StatusFound)
}

func (c *Console) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/admin/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, loginPath, http.StatusFound)
}

func (c *Console) index(w http.ResponseWriter, r *http.Request) {
	c.render(w, http.StatusOK, "index", page{
		Username: middleware.GetUsername(r.Context()),
		Models:   c.site.Models(),
	})
}

func (c *Console) changelist(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("model")

	pageNum, err := admin.ParsePage(r.URL.Query().Get("p"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	cl, err := c.site.Changelist(r.Context(), slug, pageNum)
	switch {
	case errors.Is(err, admin.ErrNotRegistered), errors.Is(err, admin.ErrInvalidPage):
		http.NotFound(w, r)
		return
	case err != nil:
		c.logger.Error("Changelist failed", "model", slug, "page", pageNum, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	c.render(w, http.StatusOK, "changelist", page{
		Username:   middleware.GetUsername(r.Context()),
		Changelist: cl,
	})
}

// safeNext keeps redirects on this site's admin pages.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/admin/") || strings.HasPrefix(next, "//") {
		return "/admin/"
	}
	return next
}
