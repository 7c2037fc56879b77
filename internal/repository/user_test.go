package repository

import (
	"context"
	"testing"

	"meetup/internal/database"
	"meetup/internal/models"
	"meetup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndVerify(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	key := "6f1c0d0e-verify"
	user := &models.User{
		Email:           "ada@example.com",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Password:        "hash",
		IsActive:        true,
		VerificationKey: &key,
	}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.Create(ctx, &models.User{Email: "ada@example.com", FirstName: "A", LastName: "L", Password: "x"})
	assert.True(t, database.IsUniqueViolation(err))

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byKey, err := repo.GetByVerificationKey(ctx, key)
	require.NoError(t, err)
	require.NoError(t, repo.MarkVerified(ctx, byKey))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Nil(t, got.VerificationKey)

	_, err = repo.GetByVerificationKey(ctx, key)
	assertCode(t, err, models.CodeNotFound)
	_, err = repo.GetByID(ctx, 12345)
	assertCode(t, err, models.CodeNotFound)
}
