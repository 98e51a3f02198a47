// Package session keeps per-browser state: the theme preference in a signed
// cookie and one calculator controller per browser.
package session

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	cookieName    = "tradeflow"
	themeKey      = "theme"
	calculatorKey = "calc_id"
	maxAge        = 86400 * 30
)

// Theme is the page colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps anything other than "dark" to light.
func ParseTheme(raw string) Theme {
	if strings.EqualFold(strings.TrimSpace(raw), string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Store reads and writes the browser session cookie.
type Store struct {
	store  sessions.Store
	logger *zap.Logger
}

// NewStore creates a cookie store signed with secret. An empty secret gets a
// random key, so sessions are lost on restart.
func NewStore(secret string, secure bool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	key := []byte(secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}

	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{store: cs, logger: logger}
}

func (s *Store) get(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, cookieName)
	if err != nil {
		// A cookie signed with another key decodes as a fresh session.
		s.logger.Debug("discarding unreadable session cookie", zap.Error(err))
	}
	return sess
}

// Theme returns the stored theme, light when none is set.
func (s *Store) Theme(r *http.Request) Theme {
	raw, _ := s.get(r).Values[themeKey].(string)
	return ParseTheme(raw)
}

// ToggleTheme flips the stored theme and saves it.
func (s *Store) ToggleTheme(w http.ResponseWriter, r *http.Request) (Theme, error) {
	sess := s.get(r)
	raw, _ := sess.Values[themeKey].(string)
	next := ParseTheme(raw).Toggle()
	sess.Values[themeKey] = string(next)

	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save theme: %w", err)
	}
	return next, nil
}

// CalculatorID returns the calculator id of this browser, assigning and
// saving a new one when missing.
func (s *Store) CalculatorID(w http.ResponseWriter, r *http.Request) (string, error) {
	sess := s.get(r)
	if id, ok := sess.Values[calculatorKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	sess.Values[calculatorKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save calculator id: %w", err)
	}
	return id, nil
}
