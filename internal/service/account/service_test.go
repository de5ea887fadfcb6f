package account

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acme/accountd/internal/repository"
	"github.com/acme/accountd/internal/repository/inmem"
	"github.com/acme/accountd/pkg/crypto"
)

func newTestService() (Service, *inmem.Repository) {
	repo := inmem.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, logger), repo
}

func TestCreateNormalizesEmailAndHashesPassword(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), CreateInput{
		Email:    "Bob@EXAMPLE.com",
		Password: "testpass123",
		Name:     "Bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob@example.com", created.Email)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, []byte("testpass123"), created.PasswordHash)
	assert.NoError(t, crypto.ComparePassword(created.PasswordHash, "testpass123"))
	assert.Error(t, crypto.ComparePassword(created.PasswordHash, "otherpass"))
}

func TestCreateRequiresEmail(t *testing.T) {
	svc, _ := newTestService()

	for _, in := range []CreateInput{
		{Password: "testpass123"},
		{Password: "testpass123", IsStaff: true, IsSuperuser: true},
	} {
		_, err := svc.Create(context.Background(), in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "email")
	}

	_, err := svc.CreateSuperuser(context.Background(), "", "adminpass123")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestCreateRejectsMalformedEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{Email: "not-an-email", Password: "testpass123"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestCreatePasswordLengthBoundary(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{Email: "short@example.com", Password: "pw12"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")

	_, err = svc.Create(context.Background(), CreateInput{Email: "short@example.com", Password: "pw123"})
	assert.NoError(t, err)
}

func TestCreateEmptyPasswordRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{Email: "empty@example.com", Password: ""})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
}

func TestCreateDuplicateEmailDomainCase(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{Email: "dup@EXAMPLE.com", Password: "testpass123"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Email: "dup@example.COM", Password: "testpass123"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestCreateSuperuserForcesFlags(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateSuperuser(context.Background(), "admin@example.com", "adminpass123")
	require.NoError(t, err)
	assert.True(t, created.IsStaff)
	assert.True(t, created.IsSuperuser)
	assert.True(t, created.IsActive)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Email: "carol@example.com", Password: "testpass123", Name: "Carol"})
	require.NoError(t, err)
	originalHash := append([]byte(nil), created.PasswordHash...)

	name := "Caroline"
	updated, err := svc.UpdateProfile(ctx, created.ID, ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Caroline", updated.Name)
	assert.Equal(t, "carol@example.com", updated.Email)

	email := "Caroline@NEW-DOMAIN.example"
	updated, err = svc.UpdateProfile(ctx, created.ID, ProfileUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Caroline@new-domain.example", updated.Email)
	assert.Equal(t, "Caroline", updated.Name)

	// changing email must not change the password hash
	assert.Equal(t, originalHash, updated.PasswordHash)
	assert.NoError(t, crypto.ComparePassword(updated.PasswordHash, "testpass123"))
}

func TestUpdateProfileRejectsInvalidEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Email: "dave@example.com", Password: "testpass123"})
	require.NoError(t, err)

	bad := "not-an-email"
	_, err = svc.UpdateProfile(ctx, created.ID, ProfileUpdate{Email: &bad})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestUpdateProfileUnknownAccount(t *testing.T) {
	svc, _ := newTestService()

	name := "Nobody"
	_, err := svc.UpdateProfile(context.Background(), 9999, ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestApplyAdminUpdatePermissionGate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Email: "eve@example.com", Password: "testpass123", Name: "Eve"})
	require.NoError(t, err)

	upd := AdminUpdate{
		ID:          created.ID,
		Email:       "eve@example.com",
		Name:        "Eve Updated",
		IsActive:    false,
		IsStaff:     true,
		IsSuperuser: true,
	}

	// without permission editing rights the flags keep stored values
	updated, err := svc.ApplyAdminUpdate(ctx, upd, false)
	require.NoError(t, err)
	assert.Equal(t, "Eve Updated", updated.Name)
	assert.True(t, updated.IsActive)
	assert.False(t, updated.IsStaff)
	assert.False(t, updated.IsSuperuser)

	updated, err = svc.ApplyAdminUpdate(ctx, upd, true)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.IsStaff)
	assert.True(t, updated.IsSuperuser)
}

func TestApplyAdminUpdatePasswordReset(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Email: "frank@example.com", Password: "testpass123"})
	require.NoError(t, err)

	upd := AdminUpdate{ID: created.ID, Email: "frank@example.com", Password: "newpass456"}
	updated, err := svc.ApplyAdminUpdate(ctx, upd, false)
	require.NoError(t, err)
	assert.NoError(t, crypto.ComparePassword(updated.PasswordHash, "newpass456"))
	assert.Error(t, crypto.ComparePassword(updated.PasswordHash, "testpass123"))

	// empty password leaves the stored hash alone
	upd.Password = ""
	unchanged, err := svc.ApplyAdminUpdate(ctx, upd, false)
	require.NoError(t, err)
	assert.Equal(t, updated.PasswordHash, unchanged.PasswordHash)

	// short replacement rejected
	upd.Password = "pw"
	_, err = svc.ApplyAdminUpdate(ctx, upd, false)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestValidationErrorMessage(t *testing.T) {
	verr := &ValidationError{Fields: map[string]string{"email": "email is required"}}
	assert.Contains(t, verr.Error(), "email")
	assert.False(t, errors.Is(verr, repository.ErrDuplicateEmail))
}
