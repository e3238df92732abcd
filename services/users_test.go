package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eats-backend/models"
)

func TestCreateAccount(t *testing.T) {
	db := setupDB(t)
	users := NewUsers(db)

	user, err := users.CreateAccount(CreateAccountInput{
		Email:    "new@test.dev",
		Password: "secret123",
		Role:     models.RoleClient,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, user.Role)
	assert.False(t, user.Verified)
	assert.NotEqual(t, "secret123", user.PasswordHash, "password must be hashed")

	var verification models.Verification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&verification).Error)
	assert.NotEmpty(t, verification.Code)
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	users := NewUsers(db)
	seedUser(t, db, "taken@test.dev", models.RoleClient)

	_, err := users.CreateAccount(CreateAccountInput{
		Email:    "taken@test.dev",
		Password: "secret123",
		Role:     models.RoleOwner,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateAccountCheckFailureIsNotConflict(t *testing.T) {
	db := setupDB(t)
	users := NewUsers(db)
	require.NoError(t, db.Migrator().DropTable(&models.User{}))

	// A broken duplicate check must be a generic failure, never ErrEmailTaken
	// and never a silent pass into the insert.
	_, err := users.CreateAccount(CreateAccountInput{
		Email:    "unlucky@test.dev",
		Password: "secret123",
		Role:     models.RoleClient,
	})
	assert.ErrorIs(t, err, errCreateAccount)
}

func TestLogin(t *testing.T) {
	db := setupDB(t)
	users := NewUsers(db)
	seeded := seedUser(t, db, "login@test.dev", models.RoleDelivery)

	user, err := users.Login("login@test.dev", "secret123")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)

	_, err = users.Login("login@test.dev", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = users.Login("nobody@test.dev", "secret123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerifyEmail(t *testing.T) {
	db := setupDB(t)
	users := NewUsers(db)

	user, err := users.CreateAccount(CreateAccountInput{
		Email:    "verify@test.dev",
		Password: "secret123",
		Role:     models.RoleClient,
	})
	require.NoError(t, err)

	var verification models.Verification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&verification).Error)

	require.NoError(t, users.VerifyEmail(verification.Code))

	reloaded, err := users.Profile(user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Verified)

	// Codes are single use.
	assert.ErrorIs(t, users.VerifyEmail(verification.Code), ErrCodeNotFound)
	assert.ErrorIs(t, users.VerifyEmail("no-such-code"), ErrCodeNotFound)
}

func TestEditProfileEmailChangeResetsVerification(t *testing.T) {
	db := setupDB(t)
	users := NewUsers(db)

	user, err := users.CreateAccount(CreateAccountInput{
		Email:    "old@test.dev",
		Password: "secret123",
		Role:     models.RoleOwner,
	})
	require.NoError(t, err)

	var oldVerification models.Verification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&oldVerification).Error)
	require.NoError(t, users.VerifyEmail(oldVerification.Code))

	newEmail := "new@test.dev"
	updated, err := users.EditProfile(mustProfile(t, users, user.ID), EditProfileInput{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, newEmail, updated.Email)
	assert.False(t, updated.Verified)

	var verification models.Verification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&verification).Error)
	assert.NotEqual(t, oldVerification.Code, verification.Code)
}

func TestEditProfilePasswordChange(t *testing.T) {
	db := setupDB(t)
	users := NewUsers(db)
	user := seedUser(t, db, "pw@test.dev", models.RoleClient)

	newPassword := "evenmoresecret"
	_, err := users.EditProfile(user, EditProfileInput{Password: &newPassword})
	require.NoError(t, err)

	_, err = users.Login("pw@test.dev", "secret123")
	assert.ErrorIs(t, err, ErrWrongPassword)
	_, err = users.Login("pw@test.dev", newPassword)
	assert.NoError(t, err)
}

func mustProfile(t *testing.T, users *Users, id uint) models.User {
	t.Helper()
	user, err := users.Profile(id)
	require.NoError(t, err)
	return user
}
