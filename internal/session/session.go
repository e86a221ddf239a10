// Package session holds the signed-in staff session. A Session is created on
// sign-in, looked up by the route guard on every request and deleted on
// sign-out.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"undergraduation-admin/internal/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

type Session struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staffId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	// RefreshID is the id of the only refresh token that may renew the session.
	RefreshID string `json:"refreshId,omitempty"`
}

// New starts a session for staff lasting ttl from now.
func New(staff *models.Staff, ttl time.Duration, now time.Time) *Session {
	return &Session{
		ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		StaffID:   staff.ID,
		Email:     staff.Email,
		Name:      staff.Name,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by NewContext.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
