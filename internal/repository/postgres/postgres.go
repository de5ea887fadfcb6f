package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acme/accountd/internal/domain"
	"github.com/acme/accountd/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.AccountRepository = (*Repository)(nil)
	_ repository.TokenRepository   = (*Repository)(nil)
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// CreateAccount inserts an account and assigns its surrogate id.
func (r *Repository) CreateAccount(ctx context.Context, account *domain.Account) error {
	const query = `INSERT INTO accounts (email, password_hash, name, is_active, is_staff, is_superuser, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	row := r.pool.QueryRow(ctx, query, account.Email, account.PasswordHash, account.Name,
		account.IsActive, account.IsStaff, account.IsSuperuser, account.CreatedAt)
	if err := row.Scan(&account.ID); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetAccountByEmail fetches an account by its normalized email.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `SELECT id, email, password_hash, name, is_active, is_staff, is_superuser, last_login, created_at
		FROM accounts WHERE email = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, email))
}

// GetAccountByID retrieves an account by identifier.
func (r *Repository) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	const query = `SELECT id, email, password_hash, name, is_active, is_staff, is_superuser, last_login, created_at
		FROM accounts WHERE id = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

// UpdateAccount persists mutable account fields.
func (r *Repository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	const query = `UPDATE accounts
		SET email = $2, password_hash = $3, name = $4, is_active = $5, is_staff = $6, is_superuser = $7, last_login = $8
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, account.ID, account.Email, account.PasswordHash, account.Name,
		account.IsActive, account.IsStaff, account.IsSuperuser, account.LastLogin)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListAccounts returns all accounts ordered by id.
func (r *Repository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	const query = `SELECT id, email, password_hash, name, is_active, is_staff, is_superuser, last_login, created_at
		FROM accounts ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.IsActive, &a.IsStaff,
			&a.IsSuperuser, &a.LastLogin, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CreateToken stores an issued token.
func (r *Repository) CreateToken(ctx context.Context, token *domain.AuthToken) error {
	const query = `INSERT INTO auth_tokens (key, account_id, created_at) VALUES ($1, $2, $3)`
	_, err := r.pool.Exec(ctx, query, token.Key, token.AccountID, token.CreatedAt)
	return err
}

// GetTokenByKey fetches a token by its opaque key.
func (r *Repository) GetTokenByKey(ctx context.Context, key string) (*domain.AuthToken, error) {
	const query = `SELECT key, account_id, created_at FROM auth_tokens WHERE key = $1`
	return r.scanToken(r.pool.QueryRow(ctx, query, key))
}

// GetTokenByAccount fetches the token issued to an account, if any.
func (r *Repository) GetTokenByAccount(ctx context.Context, accountID int64) (*domain.AuthToken, error) {
	const query = `SELECT key, account_id, created_at FROM auth_tokens WHERE account_id = $1`
	return r.scanToken(r.pool.QueryRow(ctx, query, accountID))
}

func (r *Repository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.IsActive, &a.IsStaff,
		&a.IsSuperuser, &a.LastLogin, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) scanToken(row pgx.Row) (*domain.AuthToken, error) {
	var t domain.AuthToken
	if err := row.Scan(&t.Key, &t.AccountID, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
