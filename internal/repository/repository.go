package repository

import (
	"context"

	"github.com/acme/accountd/internal/domain"
)

// AccountRepository persists accounts.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// TokenRepository persists issued auth tokens.
type TokenRepository interface {
	CreateToken(ctx context.Context, token *domain.AuthToken) error
	GetTokenByKey(ctx context.Context, key string) (*domain.AuthToken, error)
	GetTokenByAccount(ctx context.Context, accountID int64) (*domain.AuthToken, error)
}
