package admin

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/acme/accountd/internal/domain"
	"github.com/acme/accountd/internal/repository"
	"github.com/acme/accountd/internal/service/account"
	"github.com/acme/accountd/internal/service/auth"
	"github.com/acme/accountd/pkg/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	basePath     = "/admin"
	loginPath    = basePath + "/login/"
	logoutPath   = basePath + "/logout/"
	accountsPath = basePath + "/accounts/"
)

type sessionContextKey string

const contextKeySession sessionContextKey = "accountd-admin-session"

// Console serves the operator UI over the account store. It is composed
// explicitly from a Config; nothing is registered globally.
type Console struct {
	cfg       Config
	accounts  account.Service
	auth      auth.Service
	templates *template.Template
	mux       *http.ServeMux
	logger    *slog.Logger
}

// New constructs a configured console ready to serve HTTP traffic.
func New(cfg Config, accounts account.Service, authSvc auth.Service, logger *slog.Logger) (*Console, error) {
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		return nil, errors.New("admin session secret must be configured")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "accountd_admin_session"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	c := &Console{
		cfg:       cfg,
		accounts:  accounts,
		auth:      authSvc,
		templates: templates,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	c.registerRoutes()
	return c, nil
}

// ServeHTTP conforms to http.Handler.
func (c *Console) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mux.ServeHTTP(w, r)
}

func (c *Console) registerRoutes() {
	c.mux.HandleFunc(loginPath, c.handleLogin)
	c.mux.HandleFunc(logoutPath, c.handleLogout)
	c.mux.HandleFunc(accountsPath, c.requireStaff(c.handleAccounts))
	c.mux.HandleFunc(basePath+"/", c.requireStaff(c.handleIndex))
}

// requireStaff gates a handler to authenticated staff accounts. Anonymous
// visitors are redirected to the login form; authenticated non-staff get 403.
func (c *Console) requireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := c.sessionFromRequest(r)
		if err != nil {
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		acct, err := c.accounts.Get(r.Context(), claims.AccountID)
		if err != nil {
			c.logger.Warn("admin session account lookup failed", "error", err, "account_id", claims.AccountID)
			http.Redirect(w, r, loginPath+"?flash=please+sign+in", http.StatusSeeOther)
			return
		}
		if !acct.IsActive || !acct.IsStaff {
			http.Error(w, "staff access required", http.StatusForbidden)
			return
		}
		ctx := context.WithValue(r.Context(), contextKeySession, claims)
		next(w, r.WithContext(ctx))
	}
}

func (c *Console) sessionFromRequest(r *http.Request) (*session.Claims, error) {
	cookie, err := r.Cookie(c.cfg.CookieName)
	if err != nil {
		return nil, err
	}
	return session.Parse(cookie.Value, c.cfg.SessionSecret)
}

func sessionFromContext(ctx context.Context) *session.Claims {
	claims, _ := ctx.Value(contextKeySession).(*session.Claims)
	return claims
}

func (c *Console) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, accountsPath, http.StatusSeeOther)
}

func (c *Console) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, err := c.sessionFromRequest(r); err == nil {
			http.Redirect(w, r, accountsPath, http.StatusSeeOther)
			return
		}
		c.render(w, "login", map[string]any{
			"Title": c.cfg.Title,
			"Flash": flashFromRequest(r),
			"Email": "",
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form payload", http.StatusBadRequest)
			return
		}
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")
		acct, err := c.auth.Verify(r.Context(), email, password)
		if err != nil || !acct.IsStaff {
			c.logger.Warn("admin login rejected", "email", domain.NormalizeEmail(email))
			c.render(w, "login", map[string]any{
				"Title": c.cfg.Title,
				"Flash": "invalid credentials or insufficient privileges",
				"Email": email,
			})
			return
		}
		signed, err := session.Sign(acct.ID, acct.IsSuperuser, c.cfg.SessionSecret, c.cfg.SessionTTL)
		if err != nil {
			c.logger.Error("admin session issuance failed", "error", err)
			http.Error(w, "session issuance failed", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     c.cfg.CookieName,
			Value:    signed,
			Path:     basePath,
			Expires:  time.Now().Add(c.cfg.SessionTTL),
			HttpOnly: true,
			Secure:   c.cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, accountsPath, http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (c *Console) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    "",
		Path:     basePath,
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, loginPath+"?flash=Signed+out", http.StatusSeeOther)
}

func (c *Console) handleAccounts(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.TrimPrefix(r.URL.Path, accountsPath)
	switch {
	case trimmed == "":
		c.handleList(w, r)
	case trimmed == "add/" || trimmed == "add":
		c.handleAdd(w, r)
	default:
		idText := strings.TrimSuffix(trimmed, "/")
		id, err := strconv.ParseInt(idText, 10, 64)
		if err != nil || strings.Contains(idText, "/") {
			http.NotFound(w, r)
			return
		}
		c.handleChange(w, r, id)
	}
}

func (c *Console) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	accounts, err := c.accounts.List(r.Context())
	if err != nil {
		c.logger.Error("account listing failed", "error", err)
		http.Error(w, "failed to load accounts", http.StatusInternalServerError)
		return
	}
	rows := make([]map[string]any, 0, len(accounts))
	for _, acct := range accounts {
		rows = append(rows, map[string]any{
			"ID":    acct.ID,
			"Cells": listCells(c.cfg.Accounts.ListColumns, &acct),
		})
	}
	c.render(w, "list", map[string]any{
		"Title":   c.cfg.Title,
		"Flash":   flashFromRequest(r),
		"Columns": c.cfg.Accounts.ListColumns,
		"Rows":    rows,
	})
}

func (c *Console) handleChange(w http.ResponseWriter, r *http.Request, id int64) {
	claims := sessionFromContext(r.Context())
	editPermissions := claims != nil && claims.IsSuperuser

	switch r.Method {
	case http.MethodGet:
		acct, err := c.accounts.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			c.logger.Error("account lookup failed", "error", err, "account_id", id)
			http.Error(w, "failed to load account", http.StatusInternalServerError)
			return
		}
		c.renderChange(w, r, acct, editPermissions, flashFromRequest(r))
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form payload", http.StatusBadRequest)
			return
		}
		upd := account.AdminUpdate{
			ID:          id,
			Email:       r.PostFormValue("email"),
			Name:        r.PostFormValue("name"),
			Password:    r.PostFormValue("password"),
			IsActive:    r.PostFormValue("is_active") != "",
			IsStaff:     r.PostFormValue("is_staff") != "",
			IsSuperuser: r.PostFormValue("is_superuser") != "",
		}
		if _, err := c.accounts.ApplyAdminUpdate(r.Context(), upd, editPermissions); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			acct, getErr := c.accounts.Get(r.Context(), id)
			if getErr != nil {
				http.Error(w, "failed to load account", http.StatusInternalServerError)
				return
			}
			c.renderChange(w, r, acct, editPermissions, editError(err))
			return
		}
		redirectWithFlash(w, r, accountsPath, "account updated")
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (c *Console) renderChange(w http.ResponseWriter, r *http.Request, acct *domain.Account, editPermissions bool, flash string) {
	fieldsets := make([]map[string]any, 0, len(c.cfg.Accounts.Fieldsets))
	for _, fs := range c.cfg.Accounts.Fieldsets {
		fields := make([]fieldView, 0, len(fs.Fields))
		for _, name := range fs.Fields {
			fields = append(fields, changeField(name, acct, editPermissions))
		}
		fieldsets = append(fieldsets, map[string]any{"Label": fs.Label, "Fields": fields})
	}
	c.render(w, "change", map[string]any{
		"Title":     c.cfg.Title,
		"Flash":     flash,
		"Account":   acct,
		"Fieldsets": fieldsets,
	})
}

func (c *Console) handleAdd(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.render(w, "add", map[string]any{
			"Title": c.cfg.Title,
			"Flash": flashFromRequest(r),
			"Email": "",
			"Name":  "",
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form payload", http.StatusBadRequest)
			return
		}
		password1 := r.PostFormValue("password1")
		password2 := r.PostFormValue("password2")
		if password1 != password2 {
			c.render(w, "add", map[string]any{
				"Title": c.cfg.Title,
				"Flash": "the two password fields do not match",
				"Email": r.PostFormValue("email"),
				"Name":  r.PostFormValue("name"),
			})
			return
		}
		active := r.PostFormValue("is_active") != ""
		_, err := c.accounts.Create(r.Context(), account.CreateInput{
			Email:       r.PostFormValue("email"),
			Password:    password1,
			Name:        r.PostFormValue("name"),
			IsActive:    &active,
			IsStaff:     r.PostFormValue("is_staff") != "",
			IsSuperuser: r.PostFormValue("is_superuser") != "",
		})
		if err != nil {
			c.render(w, "add", map[string]any{
				"Title": c.cfg.Title,
				"Flash": editError(err),
				"Email": r.PostFormValue("email"),
				"Name":  r.PostFormValue("name"),
			})
			return
		}
		redirectWithFlash(w, r, accountsPath, "account created")
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// fieldView is the rendered form state of one change-form field, produced by
// explicit per-field copy logic rather than reflection.
type fieldView struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Checked  bool
	ReadOnly bool
	Disabled bool
}

func changeField(name string, acct *domain.Account, editPermissions bool) fieldView {
	switch name {
	case "email":
		return fieldView{Name: name, Label: "Email", Type: "text", Value: acct.Email}
	case "password":
		return fieldView{Name: name, Label: "Password (leave blank to keep current)", Type: "password"}
	case "name":
		return fieldView{Name: name, Label: "Name", Type: "text", Value: acct.Name}
	case "is_active":
		return fieldView{Name: name, Label: "Active", Type: "checkbox", Checked: acct.IsActive, Disabled: !editPermissions}
	case "is_staff":
		return fieldView{Name: name, Label: "Staff", Type: "checkbox", Checked: acct.IsStaff, Disabled: !editPermissions}
	case "is_superuser":
		return fieldView{Name: name, Label: "Superuser", Type: "checkbox", Checked: acct.IsSuperuser, Disabled: !editPermissions}
	case "last_login":
		value := "never"
		if acct.LastLogin != nil {
			value = acct.LastLogin.UTC().Format(time.RFC3339)
		}
		return fieldView{Name: name, Label: "Last login", Type: "text", Value: value, ReadOnly: true}
	default:
		return fieldView{Name: name, Label: name, Type: "text"}
	}
}

func listCells(columns []string, acct *domain.Account) []string {
	cells := make([]string, 0, len(columns))
	for _, column := range columns {
		switch column {
		case "email":
			cells = append(cells, acct.Email)
		case "name":
			cells = append(cells, acct.Name)
		case "is_active":
			cells = append(cells, strconv.FormatBool(acct.IsActive))
		default:
			cells = append(cells, "")
		}
	}
	return cells
}

func editError(err error) string {
	var verr *account.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, repository.ErrDuplicateEmail):
		return "account with this email already exists"
	default:
		return "unable to save account"
	}
}

func (c *Console) render(w http.ResponseWriter, tpl string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.templates.ExecuteTemplate(w, tpl, data); err != nil {
		c.logger.Error("template render failed", "template", tpl, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func flashFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("flash"))
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	u, err := url.Parse(target)
	if err != nil {
		http.Redirect(w, r, accountsPath, http.StatusSeeOther)
		return
	}
	if message != "" {
		q := u.Query()
		q.Set("flash", message)
		u.RawQuery = q.Encode()
	}
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}
