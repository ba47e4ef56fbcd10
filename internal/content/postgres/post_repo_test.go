// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/content"
	"github.com/inkpost/inkpost/internal/content/postgres"
	"github.com/inkpost/inkpost/pkg/errutil"
)

func newTestPost(t *testing.T) *content.Post {
	t.Helper()
	post, err := content.NewPost(ulid.Make(), "A test post", "Content long enough to pass")
	require.NoError(t, err)
	return post
}

func postRows(posts ...*content.Post) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "author_id", "title", "content", "published", "created_at", "updated_at",
	})
	for _, post := range posts {
		rows.AddRow(
			post.ID.String(),
			post.AuthorID.String(),
			post.Title,
			post.Content,
			post.Published,
			post.CreatedAt,
			post.UpdatedAt,
		)
	}
	return rows
}

func TestPostRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts post", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		post := newTestPost(t)
		mock.ExpectExec(`INSERT INTO posts`).
			WithArgs(
				post.ID.String(),
				post.AuthorID.String(),
				post.Title,
				post.Content,
				post.Published,
				post.CreatedAt,
				post.UpdatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := postgres.NewPostRepository(mock)
		require.NoError(t, repo.Create(ctx, post))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps database errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO posts`).
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewPostRepository(mock)
		err = repo.Create(ctx, newTestPost(t))
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "POST_CREATE_FAILED")
	})
}

func TestPostRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns post", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		post := newTestPost(t)
		mock.ExpectQuery(`SELECT .+ FROM posts\s+WHERE id =`).
			WithArgs(post.ID.String()).
			WillReturnRows(postRows(post))

		repo := postgres.NewPostRepository(mock)
		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
		assert.Equal(t, post.Title, got.Title)
	})

	t.Run("missing post wraps ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectQuery(`SELECT .+ FROM posts\s+WHERE id =`).
			WithArgs(id.String()).
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewPostRepository(mock)
		_, err = repo.GetByID(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestPostRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates post", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		post := newTestPost(t)
		mock.ExpectExec(`UPDATE posts`).
			WithArgs(
				post.ID.String(),
				post.Title,
				post.Content,
				post.Published,
				pgxmock.AnyArg(),
			).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := postgres.NewPostRepository(mock)
		require.NoError(t, repo.Update(ctx, post))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected means not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE posts`).
			WithArgs(
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(),
			).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := postgres.NewPostRepository(mock)
		err = repo.Update(ctx, newTestPost(t))
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestPostRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := ulid.Make()
	mock.ExpectExec(`DELETE FROM posts WHERE id =`).
		WithArgs(id.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := postgres.NewPostRepository(mock)
	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListPublished(t *testing.T) {
	ctx := context.Background()

	t.Run("returns published window", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		first := newTestPost(t)
		second := newTestPost(t)
		first.Published = true
		second.Published = true

		mock.ExpectQuery(`SELECT .+ FROM posts\s+WHERE published = TRUE`).
			WithArgs(10, 0).
			WillReturnRows(postRows(first, second))

		repo := postgres.NewPostRepository(mock)
		posts, err := repo.ListPublished(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, first.ID, posts[0].ID)
	})

	t.Run("empty window", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT .+ FROM posts\s+WHERE published = TRUE`).
			WithArgs(10, 100).
			WillReturnRows(postRows())

		repo := postgres.NewPostRepository(mock)
		posts, err := repo.ListPublished(ctx, 100, 10)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}

func TestPostRepository_CountPublished(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE published = TRUE`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	repo := postgres.NewPostRepository(mock)
	count, err := repo.CountPublished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}
