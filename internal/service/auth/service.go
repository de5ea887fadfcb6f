package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/acme/accountd/internal/domain"
	"github.com/acme/accountd/internal/repository"
	"github.com/acme/accountd/pkg/crypto"
)

// ErrInvalidCredentials is returned for every authentication failure: unknown
// email, wrong password, blank password, or an inactive account. The uniform
// error prevents account enumeration.
var ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")

// ErrInvalidToken is returned when a presented token key resolves to no
// active account.
var ErrInvalidToken = errors.New("invalid token")

// Service verifies credentials and issues opaque tokens.
type Service struct {
	accounts repository.AccountRepository
	tokens   repository.TokenRepository
	logger   *slog.Logger
}

// New constructs a Service.
func New(accounts repository.AccountRepository, tokens repository.TokenRepository, logger *slog.Logger) Service {
	return Service{accounts: accounts, tokens: tokens, logger: logger}
}

// Authenticate checks an email/password pair and returns the account's token,
// reusing an existing one when present. last_login is updated on success.
func (s Service) Authenticate(ctx context.Context, email, password string) (*domain.AuthToken, error) {
	account, err := s.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GetTokenByAccount(ctx, account.ID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	key, err := crypto.NewTokenKey()
	if err != nil {
		return nil, err
	}
	token = &domain.AuthToken{
		Key:       key,
		AccountID: account.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tokens.CreateToken(ctx, token); err != nil {
		return nil, err
	}
	s.logger.Info("token issued", "account_id", account.ID)
	return token, nil
}

// Verify checks an email/password pair without issuing a token and updates
// last_login. Failures are indistinguishable from one another.
func (s Service) Verify(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := crypto.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	account.LastLogin = &now
	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("credentials verified", "account_id", account.ID)
	return account, nil
}

// Authorize resolves a token key to its active account.
func (s Service) Authorize(ctx context.Context, key string) (*domain.Account, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, ErrInvalidToken
	}
	token, err := s.tokens.GetTokenByKey(ctx, trimmed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	account, err := s.accounts.GetAccountByID(ctx, token.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrInvalidToken
	}
	return account, nil
}
