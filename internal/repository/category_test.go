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

func TestCategoryRepository_Lifecycle(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	hiking := &models.Category{Title: "Hiking"}
	require.NoError(t, repo.Create(ctx, hiking))
	assert.NotZero(t, hiking.ID)
	require.NoError(t, repo.Create(ctx, &models.Category{Title: "Chess"}))

	err := repo.Create(ctx, &models.Category{Title: "Hiking"})
	assert.True(t, database.IsUniqueViolation(err), "duplicate title should violate the unique index: %v", err)

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.UpdateTitle(ctx, hiking, "Trail Running"))
	got, err := repo.GetActive(ctx, hiking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trail Running", got.Title)

	require.NoError(t, repo.SoftDelete(ctx, hiking.ID))

	_, err = repo.GetActive(ctx, hiking.ID)
	assertCode(t, err, models.CodeNotFound)

	list, err = repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Chess", list[0].Title)

	assertCode(t, repo.SoftDelete(ctx, hiking.ID), models.CodeNotFound)

	// The retired row still holds its title.
	err = repo.Create(ctx, &models.Category{Title: "Trail Running"})
	assert.True(t, database.IsUniqueViolation(err))
}
