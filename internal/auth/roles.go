package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/charting-service/internal/domain"
	apperrors "github.com/spec-kit/charting-service/pkg/util/errorutil"
)

const accountKey = "auth_account"

// AccountLookup resolves the stored account for an identity. A missing
// account is reported as pgx.ErrNoRows.
type AccountLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// RequireIdentity rejects requests the gate did not authenticate.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole loads the caller's account and checks it is active and holds
// one of the allowed roles. An empty allow-list accepts any active account.
// It panics on an unknown role so a mistyped route fails at startup.
func RequireRole(accounts AccountLookup, allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		if !role.Valid() {
			panic(fmt.Sprintf("auth: unknown role %q", role))
		}
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}

		account, err := accounts.GetByEmail(c.UserContext(), identity.Email)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("account not found")
			}
			return err
		}
		if !account.Active {
			return apperrors.NewForbidden("account is deactivated")
		}
		if len(allowedSet) > 0 {
			if _, exists := allowedSet[account.Role]; !exists {
				return apperrors.NewForbidden("insufficient role")
			}
		}

		c.Locals(accountKey, account)
		return c.Next()
	}
}

// AccountFromContext returns the account loaded by RequireRole.
func AccountFromContext(c *fiber.Ctx) (*domain.Account, bool) {
	account, ok := c.Locals(accountKey).(*domain.Account)
	return account, ok
}
