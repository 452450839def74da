package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/recipebox/recipebox-go/internal/crypto"
)

const DefaultCookieName = "session"

// ErrNoSession means the request carries no cookie, a cookie that fails
// verification, or a cookie whose server-side session is gone.
var ErrNoSession = errors.New("no active session")

// Options configures the session cookie.
type Options struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	Secure     bool
}

// Manager ties the server-side Store to the signed cookie handed to clients.
type Manager struct {
	store Store
	opts  Options
}

// NewManager creates a Manager. Zero CookieName and TTL fall back to defaults.
func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Manager{store: store, opts: opts}
}

// Start creates a session for userID and sets its cookie on w. A session already
// attached to r is revoked first.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request, userID int64) error {
	if id, err := m.sessionID(r); err == nil {
		if err := m.store.Delete(r.Context(), id); err != nil {
			return err
		}
	}

	id, err := m.store.Create(r.Context(), userID)
	if err != nil {
		return err
	}

	token, err := crypto.GenerateSessionToken(id, m.opts.Secret, m.opts.TTL)
	if err != nil {
		_ = m.store.Delete(r.Context(), id)
		return err
	}

	http.SetCookie(w, m.cookie(token, int(m.opts.TTL.Seconds())))
	return nil
}

// Lookup returns the user id of the session attached to r, or ErrNoSession.
// Other errors come from the store.
func (m *Manager) Lookup(r *http.Request) (int64, error) {
	id, err := m.sessionID(r)
	if err != nil {
		return 0, err
	}

	userID, err := m.store.UserID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// End deletes the session attached to r and expires its cookie. A cookie whose
// session is already gone yields ErrNoSession.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	id, err := m.sessionID(r)
	if err != nil {
		return err
	}

	if _, err := m.store.UserID(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNoSession
		}
		return err
	}

	if err := m.store.Delete(r.Context(), id); err != nil {
		return err
	}

	http.SetCookie(w, m.cookie("", -1))
	return nil
}

func (m *Manager) sessionID(r *http.Request) (string, error) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return "", ErrNoSession
	}

	id, err := crypto.ValidateSessionToken(c.Value, m.opts.Secret)
	if err != nil {
		return "", ErrNoSession
	}
	return id, nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
