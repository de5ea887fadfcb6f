// Package inmem provides an in-memory repository used in tests and local
// development.
package inmem

import (
	"context"
	"sync"

	"github.com/acme/accountd/internal/domain"
	"github.com/acme/accountd/internal/repository"
)

// Repository keeps accounts and tokens in process memory. It enforces the
// same email uniqueness rule as the SQL schema.
type Repository struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]domain.Account
	tokens   map[string]domain.AuthToken
}

var (
	_ repository.AccountRepository = (*Repository)(nil)
	_ repository.TokenRepository   = (*Repository)(nil)
)

// New constructs an empty Repository.
func New() *Repository {
	return &Repository{
		nextID:   1,
		accounts: make(map[int64]domain.Account),
		tokens:   make(map[string]domain.AuthToken),
	}
}

func (r *Repository) CreateAccount(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
	}
	account.ID = r.nextID
	r.nextID++
	r.accounts[account.ID] = *account
	return nil
}

func (r *Repository) GetAccountByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			copied := account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Repository) GetAccountByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := account
	return &copied, nil
}

func (r *Repository) UpdateAccount(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.accounts {
		if id != account.ID && existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *Repository) ListAccounts(_ context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	accounts := make([]domain.Account, 0, len(r.accounts))
	for id := int64(1); id < r.nextID; id++ {
		if account, ok := r.accounts[id]; ok {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (r *Repository) CreateToken(_ context.Context, token *domain.AuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Key] = *token
	return nil
}

func (r *Repository) GetTokenByKey(_ context.Context, key string) (*domain.AuthToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := token
	return &copied, nil
}

func (r *Repository) GetTokenByAccount(_ context.Context, accountID int64) (*domain.AuthToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.AccountID == accountID {
			copied := token
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}
