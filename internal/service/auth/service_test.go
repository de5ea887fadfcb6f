package auth

import (
	"context"
	"io"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acme/accountd/internal/domain"
	"github.com/acme/accountd/internal/repository/inmem"
	"github.com/acme/accountd/internal/service/account"
)

func newTestServices() (Service, account.Service, *inmem.Repository) {
	repo := inmem.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, repo, logger), account.New(repo, logger), repo
}

func mustCreate(t *testing.T, accounts account.Service, email, password string) *domain.Account {
	t.Helper()
	created, err := accounts.Create(context.Background(), account.CreateInput{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return created
}

func TestAuthenticateIssuesTokenAndUpdatesLastLogin(t *testing.T) {
	svc, accounts, repo := newTestServices()
	ctx := context.Background()
	created := mustCreate(t, accounts, "alice@example.com", "testpass123")
	require.Nil(t, created.LastLogin)

	token, err := svc.Authenticate(ctx, "alice@example.com", "testpass123")
	require.NoError(t, err)
	assert.Len(t, token.Key, 40)
	assert.Equal(t, created.ID, token.AccountID)

	stored, err := repo.GetAccountByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestAuthenticateReusesExistingToken(t *testing.T) {
	svc, accounts, _ := newTestServices()
	ctx := context.Background()
	mustCreate(t, accounts, "bob@example.com", "testpass123")

	first, err := svc.Authenticate(ctx, "bob@example.com", "testpass123")
	require.NoError(t, err)
	second, err := svc.Authenticate(ctx, "bob@example.com", "testpass123")
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)
}

func TestAuthenticateNormalizesEmailDomain(t *testing.T) {
	svc, accounts, _ := newTestServices()
	mustCreate(t, accounts, "carol@EXAMPLE.com", "testpass123")

	_, err := svc.Authenticate(context.Background(), "carol@example.COM", "testpass123")
	assert.NoError(t, err)
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	svc, accounts, _ := newTestServices()
	ctx := context.Background()
	mustCreate(t, accounts, "dave@example.com", "testpass123")

	cases := map[string]struct {
		email    string
		password string
	}{
		"wrong password": {"dave@example.com", "wrongpass"},
		"unknown email":  {"nobody@example.com", "testpass123"},
		"blank password": {"dave@example.com", ""},
	}
	for name, tc := range cases {
		token, err := svc.Authenticate(ctx, tc.email, tc.password)
		assert.Nil(t, token, name)
		assert.ErrorIs(t, err, ErrInvalidCredentials, name)
	}
}

func TestAuthenticateRejectsInactiveAccount(t *testing.T) {
	svc, accounts, repo := newTestServices()
	ctx := context.Background()
	created := mustCreate(t, accounts, "eve@example.com", "testpass123")

	stored, err := repo.GetAccountByID(ctx, created.ID)
	require.NoError(t, err)
	stored.IsActive = false
	require.NoError(t, repo.UpdateAccount(ctx, stored))

	_, err = svc.Authenticate(ctx, "eve@example.com", "testpass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthorize(t *testing.T) {
	svc, accounts, repo := newTestServices()
	ctx := context.Background()
	created := mustCreate(t, accounts, "frank@example.com", "testpass123")

	token, err := svc.Authenticate(ctx, "frank@example.com", "testpass123")
	require.NoError(t, err)

	acct, err := svc.Authorize(ctx, token.Key)
	require.NoError(t, err)
	assert.Equal(t, created.ID, acct.ID)

	_, err = svc.Authorize(ctx, "bogus-key")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Authorize(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	stored, err := repo.GetAccountByID(ctx, created.ID)
	require.NoError(t, err)
	stored.IsActive = false
	require.NoError(t, repo.UpdateAccount(ctx, stored))

	_, err = svc.Authorize(ctx, token.Key)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
