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

func newTestComment(t *testing.T) *content.Comment {
	t.Helper()
	comment, err := content.NewComment(ulid.Make(), ulid.Make(), "a comment body")
	require.NoError(t, err)
	return comment
}

func commentRows(comments ...*content.Comment) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "post_id", "author_id", "body", "created_at"})
	for _, comment := range comments {
		rows.AddRow(
			comment.ID.String(),
			comment.PostID.String(),
			comment.AuthorID.String(),
			comment.Content,
			comment.CreatedAt,
		)
	}
	return rows
}

func TestCommentRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts comment", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		comment := newTestComment(t)
		mock.ExpectExec(`INSERT INTO comments`).
			WithArgs(
				comment.ID.String(),
				comment.PostID.String(),
				comment.AuthorID.String(),
				comment.Content,
				comment.CreatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := postgres.NewCommentRepository(mock)
		require.NoError(t, repo.Create(ctx, comment))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps database errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO comments`).
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewCommentRepository(mock)
		err = repo.Create(ctx, newTestComment(t))
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "COMMENT_CREATE_FAILED")
	})
}

func TestCommentRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns comment", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		comment := newTestComment(t)
		mock.ExpectQuery(`SELECT .+ FROM comments\s+WHERE id =`).
			WithArgs(comment.ID.String()).
			WillReturnRows(commentRows(comment))

		repo := postgres.NewCommentRepository(mock)
		got, err := repo.GetByID(ctx, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, comment.ID, got.ID)
		assert.Equal(t, comment.Content, got.Content)
	})

	t.Run("missing comment wraps ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectQuery(`SELECT .+ FROM comments\s+WHERE id =`).
			WithArgs(id.String()).
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewCommentRepository(mock)
		_, err = repo.GetByID(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestCommentRepository_ListByPost(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	comment := newTestComment(t)
	mock.ExpectQuery(`SELECT .+ FROM comments\s+WHERE post_id =`).
		WithArgs(comment.PostID.String()).
		WillReturnRows(commentRows(comment))

	repo := postgres.NewCommentRepository(mock)
	comments, err := repo.ListByPost(context.Background(), comment.PostID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)
}

func TestCommentRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := ulid.Make()
	mock.ExpectExec(`DELETE FROM comments WHERE id =`).
		WithArgs(id.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := postgres.NewCommentRepository(mock)
	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
