package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/charting-service/internal/domain"
)

// DefaultTokenTTL applies when TokenConfig.TTL is not positive.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrInvalidToken wraps every verification failure. The underlying jwt
	// error (expired, malformed, bad signature) stays reachable via errors.Is.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked is the reason attached when a token ID is deny-listed.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrEmptySecret is returned by NewTokenManager.
	ErrEmptySecret = errors.New("token signing secret is empty")
)

// TokenConfig is fixed at construction. NewTokenManager copies the secret,
// so later changes to the caller's slice have no effect.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// Claims is the signed token payload. The subject carries the account email.
type Claims struct {
	UserID   int64       `json:"userId"`
	Role     domain.Role `json:"role"`
	FullName string      `json:"fullName"`
	jwt.RegisteredClaims
}

// Email returns the subject claim.
func (c *Claims) Email() string {
	return c.Subject
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// WithRevocationList enables the deny-list check inside Verify.
func WithRevocationList(list RevocationList) TokenOption {
	return func(tm *TokenManager) {
		tm.revoked = list
	}
}

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	revoked RevocationList
	parser  *jwt.Parser
}

// NewTokenManager builds a manager from an immutable config.
func NewTokenManager(cfg TokenConfig, opts ...TokenOption) (*TokenManager, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrEmptySecret
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	tm := &TokenManager{
		secret: append([]byte(nil), cfg.Secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}

	tm.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	return tm, nil
}

// TTL is the lifetime given to issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs a token for the account. It never touches storage.
func (tm *TokenManager) Issue(account *domain.Account) (string, time.Time, error) {
	if account == nil {
		return "", time.Time{}, errors.New("issue token: nil account")
	}

	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		UserID:   account.ID,
		Role:     account.Role,
		FullName: account.FullName(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.Email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiry, then the deny-list when one
// is attached. A deny-list lookup error is treated as revoked.
func (tm *TokenManager) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := tm.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	if tm.revoked != nil && claims.ID != "" {
		revoked, err := tm.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %w", ErrInvalidToken, ErrTokenRevoked, err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenRevoked)
		}
	}
	return claims, nil
}

// IsValid is Verify with the reason discarded.
func (tm *TokenManager) IsValid(ctx context.Context, token string) bool {
	_, err := tm.Verify(ctx, token)
	return err == nil
}

// Revoke deny-lists the token ID until the token would have expired anyway.
// It is a no-op without a deny-list or for an already expired token.
func (tm *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if tm.revoked == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	remaining := claims.ExpiresAt.Time.Sub(tm.now())
	if remaining <= 0 {
		return nil
	}
	return tm.revoked.Revoke(ctx, claims.ID, remaining)
}

// RevocationEnabled reports whether a deny-list is attached.
func (tm *TokenManager) RevocationEnabled() bool {
	return tm.revoked != nil
}
