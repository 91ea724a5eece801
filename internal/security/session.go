package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "schoolfit_session"

var (
	// ErrInvalidSession is returned for malformed, forged or expired tokens
	ErrInvalidSession = errors.New("invalid session")
	// ErrSessionRevoked is returned for tokens that were logged out
	ErrSessionRevoked = errors.New("session has been logged out")
)

// Claims identify the logged-in user. ID (jti) is the session ID.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the token's unique ID
func (c *Claims) SessionID() string {
	return c.ID
}

// SessionManager issues and checks signed session tokens
type SessionManager struct {
	signingKey []byte
	duration   time.Duration
	revoked    RevocationList
	now        func() time.Time
}

// NewSessionManager creates a manager signing with secret. Tokens live for duration.
func NewSessionManager(secret string, duration time.Duration, revoked RevocationList) *SessionManager {
	if revoked == nil {
		revoked = NewMemoryRevocationList()
	}
	return &SessionManager{
		signingKey: []byte(secret),
		duration:   duration,
		revoked:    revoked,
		now:        time.Now,
	}
}

// Duration returns how long issued sessions last
func (m *SessionManager) Duration() time.Duration {
	return m.duration
}

// Issue creates a session token for username
func (m *SessionManager) Issue(username, role string) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        GenerateSessionID(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, claims, nil
}

// Parse validates a token and returns its claims
func (m *SessionManager) Parse(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return m.signingKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Username == "" || claims.ID == "" {
		return nil, ErrInvalidSession
	}

	revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Revoke ends a session before its token expires
func (m *SessionManager) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(m.now())
	return m.revoked.Revoke(ctx, claims.ID, ttl)
}

// GenerateSessionID creates a new UUID for session identification
func GenerateSessionID() string {
	return uuid.New().String()
}

// IsSecureRequest determines if the request is over HTTPS
// Checks TLS connection, X-Forwarded-Proto header (for reverse proxies), and URL scheme
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	return r.URL.Scheme == "https"
}

// CreateSessionCookie creates a session cookie with proper security flags
func CreateSessionCookie(r *http.Request, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// CreateDeleteCookie creates a cookie that clears the session cookie
func CreateDeleteCookie(r *http.Request) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
	}
}
