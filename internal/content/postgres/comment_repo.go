// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/content"
)

// CommentRepository implements content.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db Querier
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db Querier) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `id, post_id, author_id, body, created_at`

// Create stores a new comment.
func (r *CommentRepository) Create(ctx context.Context, comment *content.Comment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO comments (id, post_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		comment.ID.String(),
		comment.PostID.String(),
		comment.AuthorID.String(),
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		return oops.Code("COMMENT_CREATE_FAILED").
			With("operation", "insert comment").
			With("comment_id", comment.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a comment by ID.
func (r *CommentRepository) GetByID(ctx context.Context, id ulid.ULID) (*content.Comment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE id = $1
	`, id.String())

	comment, err := scanComment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("COMMENT_NOT_FOUND").
			With("comment_id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("COMMENT_GET_FAILED").
			With("operation", "get comment by id").
			With("comment_id", id.String()).
			Wrap(err)
	}
	return comment, nil
}

// ListByPost returns a post's comments, newest first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID ulid.ULID) ([]*content.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at DESC
	`, postID.String())
	if err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").
			With("operation", "list comments").
			With("post_id", postID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var comments []*content.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, oops.Code("COMMENT_LIST_FAILED").
				With("operation", "scan comment").
				Wrap(err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").
			With("operation", "iterate comments").
			Wrap(err)
	}
	return comments, nil
}

// Delete removes a comment.
func (r *CommentRepository) Delete(ctx context.Context, id ulid.ULID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("COMMENT_DELETE_FAILED").
			With("operation", "delete comment").
			With("comment_id", id.String()).
			Wrap(err)
	}
	return nil
}

// scanComment scans a single row into a Comment.
// Callers are responsible for handling pgx.ErrNoRows.
func scanComment(row pgx.Row) (*content.Comment, error) {
	var (
		idStr     string
		postStr   string
		authorStr string
		body      string
		createdAt time.Time
	)
	if err := row.Scan(&idStr, &postStr, &authorStr, &body, &createdAt); err != nil {
		return nil, err
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.With("id", idStr).Wrapf(err, "parse comment id")
	}
	postID, err := ulid.Parse(postStr)
	if err != nil {
		return nil, oops.With("post_id", postStr).Wrapf(err, "parse comment post id")
	}
	authorID, err := ulid.Parse(authorStr)
	if err != nil {
		return nil, oops.With("author_id", authorStr).Wrapf(err, "parse comment author id")
	}

	return &content.Comment{
		ID:        id,
		PostID:    postID,
		AuthorID:  authorID,
		Content:   body,
		CreatedAt: createdAt,
	}, nil
}
