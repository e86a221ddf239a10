package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"undergraduation-admin/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	SessionID string `json:"sid"`
	StaffID   string `json:"userId"`
	Email     string `json:"email"`
	TokenType string `json:"tokenType"` // "access" or "refresh"
	jwt.RegisteredClaims
}

type Tokens struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Manager signs staff in and out. Tokens are HS256 JWTs that only point at a
// session; a token whose session is gone is rejected.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	registry   Registry
	now        func() time.Time
}

func NewManager(secret string, accessTTL, refreshTTL time.Duration, registry Registry) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		registry:   registry,
		now:        time.Now,
	}
}

// SignIn creates and stores a session for staff.
func (m *Manager) SignIn(ctx context.Context, staff *models.Staff) (*Session, Tokens, error) {
	sess := New(staff, m.refreshTTL, m.now())
	tokens, err := m.issue(ctx, sess)
	if err != nil {
		return nil, Tokens{}, err
	}
	return sess, tokens, nil
}

// Authenticate resolves an access token to its live session.
func (m *Manager) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := m.parse(token, TokenAccess)
	if err != nil {
		return nil, err
	}
	sess, err := m.registry.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.StaffID != claims.StaffID {
		return nil, ErrInvalidToken
	}
	return sess, nil
}

// Refresh extends the session and rotates both tokens. A refresh token can
// be used once.
func (m *Manager) Refresh(ctx context.Context, token string) (*Session, Tokens, error) {
	claims, err := m.parse(token, TokenRefresh)
	if err != nil {
		return nil, Tokens{}, err
	}
	sess, err := m.registry.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, Tokens{}, err
	}
	if sess.StaffID != claims.StaffID || sess.RefreshID != claims.ID {
		return nil, Tokens{}, ErrInvalidToken
	}

	sess.ExpiresAt = m.now().Add(m.refreshTTL)
	tokens, err := m.issue(ctx, sess)
	if err != nil {
		return nil, Tokens{}, err
	}
	return sess, tokens, nil
}

// SignOut ends the session.
func (m *Manager) SignOut(ctx context.Context, sessionID string) error {
	return m.registry.Delete(ctx, sessionID)
}

func (m *Manager) issue(ctx context.Context, sess *Session) (Tokens, error) {
	now := m.now()
	sess.RefreshID = strings.ReplaceAll(uuid.NewString(), "-", "")

	accessExp := now.Add(m.accessTTL)
	if accessExp.After(sess.ExpiresAt) {
		accessExp = sess.ExpiresAt
	}
	access, err := m.sign(sess, TokenAccess, "", now, accessExp)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := m.sign(sess, TokenRefresh, sess.RefreshID, now, sess.ExpiresAt)
	if err != nil {
		return Tokens{}, err
	}

	if err := m.registry.Save(ctx, sess); err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh, ExpiresAt: accessExp}, nil
}

func (m *Manager) sign(sess *Session, tokenType, id string, now, exp time.Time) (string, error) {
	claims := &Claims{
		SessionID: sess.ID,
		StaffID:   sess.StaffID,
		Email:     sess.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   sess.StaffID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (m *Manager) parse(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
