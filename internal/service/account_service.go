package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/charting-service/internal/auth"
	"github.com/spec-kit/charting-service/internal/config"
	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/events"
	"github.com/spec-kit/charting-service/internal/repository"
)

// TokenIssuer is the subset of *auth.TokenManager used by AccountService.
type TokenIssuer interface {
	Issue(account *domain.Account) (string, time.Time, error)
	Verify(ctx context.Context, token string) (*auth.Claims, error)
	IsValid(ctx context.Context, token string) bool
	Revoke(ctx context.Context, claims *auth.Claims) error
	TTL() time.Duration
}

// AccountService coordinates registration and login flows.
type AccountService struct {
	accounts   repository.AccountRepository
	tokens     TokenIssuer
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AccountDependencies bundles collaborators for AccountService.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	Tokens      TokenIssuer
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(cfg config.AuthConfig, deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accounts:   deps.AccountRepo,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
	}
}

// RegistrationInput is a candidate account. Role is never chosen by the caller.
type RegistrationInput struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	Hospital      string
	Specialty     string
	LicenseNumber string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string
	User      domain.PublicAccount
	ExpiresIn int64
	ExpiresAt time.Time
}

// Register creates an active account with a role inferred from the specialty.
func (s *AccountService) Register(ctx context.Context, in RegistrationInput) (*domain.Account, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, required("email", "Email is required")
	}
	if in.Password == "" {
		return nil, required("password", "Password is required")
	}

	exists, err := s.accounts.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Email:         in.Email,
		PasswordHash:  hash,
		Role:          domain.InferRole(in.Specialty),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Hospital:      in.Hospital,
		Specialty:     in.Specialty,
		LicenseNumber: in.LicenseNumber,
		Active:        true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account registered",
		zap.Int64("account_id", account.ID),
		zap.String("role", string(account.Role)),
	)
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventAccountRegistered, nil,
		events.AccountPayload{Email: account.Email, Role: string(account.Role)}))
	return account, nil
}

// Login checks the password before the active flag, so a deactivated account
// is only disclosed to a caller who already knows its password.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !account.Active {
		return nil, ErrAccountDeactivated
	}

	token, expiresAt, err := s.tokens.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventAccountLoggedIn, nil,
		events.AccountPayload{Email: account.Email, Role: string(account.Role)}))
	return &LoginResult{
		Token:     token,
		User:      account.Public(),
		ExpiresIn: int64(s.tokens.TTL() / time.Second),
		ExpiresAt: expiresAt,
	}, nil
}

// GetCurrentUser resolves the account named by a verified token.
func (s *AccountService) GetCurrentUser(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.tokens.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.accountFor(ctx, claims.Email())
}

// ValidateToken is the lightweight IsValid check followed by the account lookup.
func (s *AccountService) ValidateToken(ctx context.Context, token string) (*domain.Account, error) {
	if !s.tokens.IsValid(ctx, token) {
		return nil, auth.ErrInvalidToken
	}
	return s.GetCurrentUser(ctx, token)
}

// Logout deny-lists the token when revocation is enabled.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(ctx, token)
	if err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info("token revoked", zap.String("jti", claims.ID))
	return nil
}

// SetActive flips the active flag. Tokens already issued stay valid until
// they expire or are logged out.
func (s *AccountService) SetActive(ctx context.Context, email string, active bool) (*domain.Account, error) {
	account, err := s.accountFor(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.Active == active {
		return account, nil
	}

	account.Active = active
	if err := s.accounts.Update(ctx, account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("update account: %w", err)
	}

	if !active {
		events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventAccountDeactivated, nil,
			events.AccountPayload{Email: account.Email, Role: string(account.Role)}))
	}
	return account, nil
}

func (s *AccountService) accountFor(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return account, nil
}
