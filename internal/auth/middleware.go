package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	resultKey    = "auth_result"
	bearerPrefix = "Bearer "
)

// Status is the outcome of the gate for one request.
type Status int

const (
	StatusNoToken Status = iota
	StatusInvalidToken
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusInvalidToken:
		return "invalid_token"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "no_token"
	}
}

// Identity is the verified caller. It carries no permissions.
type Identity struct {
	Email    string
	UserID   int64
	FullName string
}

// AuthResult is what the gate stores for downstream handlers.
type AuthResult struct {
	Status   Status
	Reason   error
	Identity *Identity
}

// Authenticated reports whether an identity is bound.
func (r AuthResult) Authenticated() bool {
	return r.Status == StatusAuthenticated && r.Identity != nil
}

// Verifier is satisfied by *TokenManager.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// OutcomeRecorder receives gate outcomes for metrics.
type OutcomeRecorder interface {
	RecordAuth(event, outcome string)
}

// Gate classifies every request by its bearer token. It never rejects a
// request; enforcement lives in RequireIdentity and RequireRole.
type Gate struct {
	verifier Verifier
	recorder OutcomeRecorder
	logger   *zap.Logger
}

// NewGate constructs the gate. recorder may be nil.
func NewGate(verifier Verifier, recorder OutcomeRecorder, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{verifier: verifier, recorder: recorder, logger: logger}
}

// Handle is the fiber middleware.
func (g *Gate) Handle(c *fiber.Ctx) error {
	if existing, ok := ResultFromContext(c); ok && existing.Authenticated() {
		return c.Next()
	}

	result := g.classify(c)
	c.Locals(resultKey, result)
	if g.recorder != nil {
		g.recorder.RecordAuth("gate", result.Status.String())
	}
	return c.Next()
}

func (g *Gate) classify(c *fiber.Ctx) AuthResult {
	token, ok := BearerToken(c)
	if !ok {
		return AuthResult{Status: StatusNoToken}
	}

	claims, err := g.verifier.Verify(c.UserContext(), token)
	if err != nil {
		g.logger.Debug("bearer token rejected",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return AuthResult{Status: StatusInvalidToken, Reason: err}
	}

	return AuthResult{
		Status: StatusAuthenticated,
		Identity: &Identity{
			Email:    claims.Email(),
			UserID:   claims.UserID,
			FullName: claims.FullName,
		},
	}
}

// BearerToken extracts the token after the exact "Bearer " prefix.
func BearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(header, bearerPrefix), true
}

// ResultFromContext returns the gate result, if the gate ran.
func ResultFromContext(c *fiber.Ctx) (AuthResult, bool) {
	result, ok := c.Locals(resultKey).(AuthResult)
	return result, ok
}

// IdentityFromContext returns the bound identity for authenticated requests.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	result, ok := ResultFromContext(c)
	if !ok || !result.Authenticated() {
		return nil, false
	}
	return result.Identity, true
}
