package account

import (
	"context"
	"net/mail"
	"sort"
	"strings"
	"time"

	"log/slog"

	"github.com/acme/accountd/internal/domain"
	"github.com/acme/accountd/internal/repository"
	"github.com/acme/accountd/pkg/crypto"
)

// MinPasswordLength is the shortest password accepted at creation.
const MinPasswordLength = 5

// Service creates and mutates accounts.
type Service struct {
	accounts repository.AccountRepository
	logger   *slog.Logger
}

// New constructs a Service.
func New(accounts repository.AccountRepository, logger *slog.Logger) Service {
	return Service{accounts: accounts, logger: logger}
}

// ValidationError reports malformed or missing input per field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// CreateInput carries the fields accepted at account creation. A nil
// IsActive means the default (active).
type CreateInput struct {
	Email       string
	Password    string
	Name        string
	IsActive    *bool
	IsStaff     bool
	IsSuperuser bool
}

// Create registers a new account. The email is required regardless of the
// permission flags, normalized before the uniqueness check, and the password
// is hashed before storage.
func (s Service) Create(ctx context.Context, in CreateInput) (*domain.Account, error) {
	verr := newValidationError()
	email := domain.NormalizeEmail(in.Email)
	if email == "" {
		verr.Fields["email"] = "email is required"
	} else if !validEmail(email) {
		verr.Fields["email"] = "enter a valid email address"
	}
	if len(in.Password) < MinPasswordLength {
		verr.Fields["password"] = "password must be at least 5 characters"
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		IsActive:     active,
		IsStaff:      in.IsStaff,
		IsSuperuser:  in.IsSuperuser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("account created", "account_id", account.ID)
	return account, nil
}

// CreateSuperuser registers a privileged account. Staff and superuser flags
// are forced on.
func (s Service) CreateSuperuser(ctx context.Context, email, password string) (*domain.Account, error) {
	return s.Create(ctx, CreateInput{
		Email:       email,
		Password:    password,
		IsStaff:     true,
		IsSuperuser: true,
	})
}

// ProfileUpdate carries the self-service mutable fields. Nil means "leave
// unchanged".
type ProfileUpdate struct {
	Name  *string
	Email *string
}

// UpdateProfile applies a partial profile update to the account's own
// mutable fields. The password hash is never touched here.
func (s Service) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (*domain.Account, error) {
	account, err := s.accounts.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Email != nil {
		email := domain.NormalizeEmail(*upd.Email)
		if email == "" || !validEmail(email) {
			verr := newValidationError()
			verr.Fields["email"] = "enter a valid email address"
			return nil, verr
		}
		account.Email = email
	}
	if upd.Name != nil {
		account.Name = strings.TrimSpace(*upd.Name)
	}
	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", "account_id", account.ID)
	return account, nil
}

// Get returns an account by id.
func (s Service) Get(ctx context.Context, id int64) (*domain.Account, error) {
	return s.accounts.GetAccountByID(ctx, id)
}

// List returns all accounts ordered by id.
func (s Service) List(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.ListAccounts(ctx)
}

// AdminUpdate carries the operator-facing full field set. An empty Password
// leaves the stored hash unchanged; LastLogin is never writable.
type AdminUpdate struct {
	ID          int64
	Email       string
	Name        string
	Password    string
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
}

// ApplyAdminUpdate persists an operator edit. When editPermissions is false
// the permission flags keep their stored values.
func (s Service) ApplyAdminUpdate(ctx context.Context, upd AdminUpdate, editPermissions bool) (*domain.Account, error) {
	account, err := s.accounts.GetAccountByID(ctx, upd.ID)
	if err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(upd.Email)
	if email == "" || !validEmail(email) {
		verr := newValidationError()
		verr.Fields["email"] = "enter a valid email address"
		return nil, verr
	}
	account.Email = email
	account.Name = strings.TrimSpace(upd.Name)
	if upd.Password != "" {
		if len(upd.Password) < MinPasswordLength {
			verr := newValidationError()
			verr.Fields["password"] = "password must be at least 5 characters"
			return nil, verr
		}
		hash, err := crypto.HashPassword(upd.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = hash
	}
	if editPermissions {
		account.IsActive = upd.IsActive
		account.IsStaff = upd.IsStaff
		account.IsSuperuser = upd.IsSuperuser
	}
	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("account updated by operator", "account_id", account.ID)
	return account, nil
}

func validEmail(email string) bool {
	parsed, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// reject display-name forms like "Alice <alice@example.com>"
	return parsed.Address == email
}
