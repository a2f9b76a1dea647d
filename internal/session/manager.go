package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "tech_ecolab.sid"

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, secure: secure}
}

// Load returns the session named by the request cookie, or a new unsaved session when the
// cookie is missing, forged, expired or points at nothing.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return New(), nil
	}

	id, err := m.parseToken(cookie.Value)
	if err != nil {
		return New(), nil
	}

	s, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return New(), nil
	}
	if err != nil {
		return New(), err
	}

	return s, nil
}

// Commit persists a modified session and sets the cookie, or removes a destroyed one.
// Unmodified sessions are left alone so anonymous browsing never creates a session.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s.destroyed {
		http.SetCookie(w, m.cookie("", -1))
		return m.store.Delete(ctx, s.ID)
	}

	if !s.modified {
		return nil
	}

	if s.previousID != "" {
		if err := m.store.Delete(ctx, s.previousID); err != nil {
			return err
		}
		s.previousID = ""
	}

	if err := m.store.Save(ctx, s); err != nil {
		return err
	}

	token, err := m.signToken(s.ID)
	if err != nil {
		return err
	}

	http.SetCookie(w, m.cookie(token, int(m.ttl.Seconds())))
	s.modified = false

	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) signToken(id string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing session cookie: %w", err)
	}

	return token, nil
}

func (m *Manager) parseToken(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session cookie")
	}

	return claims.Subject, nil
}
