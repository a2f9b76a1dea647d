// Package session keeps per-client state (admin login, cart) server side. The client only
// holds a signed cookie naming the session.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/Brooklss/Tech-EcoLab/internal/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string      `json:"id"`
	AdminID   *int64      `json:"adminId,omitempty"`
	Cart      models.Cart `json:"cart"`
	CreatedAt time.Time   `json:"created_at"`

	modified   bool
	destroyed  bool
	previousID string
}

func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists sessions keyed by id. Implementations expire entries after their TTL.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

func (s *Session) Admin() (int64, bool) {
	if s.AdminID == nil {
		return 0, false
	}

	return *s.AdminID, true
}

// MarkModified flags the session for saving at the end of the request.
func (s *Session) MarkModified() {
	s.modified = true
}

func (s *Session) Modified() bool {
	return s.modified
}

// Regenerate moves the session to a fresh id and sets the admin. The old id is deleted on commit.
func (s *Session) Regenerate(adminID int64) {
	if s.previousID == "" {
		s.previousID = s.ID
	}

	s.ID = uuid.NewString()
	s.AdminID = &adminID
	s.modified = true
}

// Destroy drops the session from the store and clears the cookie on commit.
func (s *Session) Destroy() {
	s.destroyed = true
	s.AdminID = nil
	s.Cart = models.Cart{}
}

func (s *Session) Destroyed() bool {
	return s.destroyed
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session. Outside the session middleware it returns a
// throwaway session so callers never see nil.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok {
		return s
	}

	return New()
}
