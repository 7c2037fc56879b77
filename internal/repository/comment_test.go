package repository

import (
	"context"
	"testing"

	"meetup/internal/models"
	"meetup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateListUpdateDelete(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db)
	category := testutil.CreateCategory(t, db, "Books")
	first := testutil.CreatePost(t, db, author, category)
	second := testutil.CreatePost(t, db, author, category)

	top := &models.Comment{Content: "Count me in", PostID: first.ID, AuthorID: &author.ID}
	require.NoError(t, repo.Create(ctx, top))
	assert.True(t, top.IsActive)

	reply := &models.Comment{Content: "Me too", PostID: first.ID, ParentCommentID: &top.ID, AuthorID: &author.ID}
	require.NoError(t, repo.Create(ctx, reply))
	require.NoError(t, repo.Create(ctx, &models.Comment{Content: "Elsewhere", PostID: second.ID}))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onFirst, err := repo.List(ctx, &first.ID)
	require.NoError(t, err)
	require.Len(t, onFirst, 2)
	assert.Equal(t, top.ID, onFirst[0].ID)
	require.NotNil(t, onFirst[1].ParentCommentID)
	assert.Equal(t, top.ID, *onFirst[1].ParentCommentID)

	require.NoError(t, repo.UpdateContent(ctx, top, "Count me in, bringing snacks"))
	got, err := repo.GetActive(ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, "Count me in, bringing snacks", got.Content)

	require.NoError(t, repo.SoftDelete(ctx, reply))
	_, err = repo.GetActive(ctx, reply.ID)
	assertCode(t, err, models.CodeNotFound)

	onFirst, err = repo.List(ctx, &first.ID)
	require.NoError(t, err)
	assert.Len(t, onFirst, 1)

	var stored models.Comment
	require.NoError(t, db.First(&stored, reply.ID).Error)
	assert.False(t, stored.IsActive, "soft delete keeps the row")
}
