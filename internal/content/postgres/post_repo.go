// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package postgres implements the content repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/content"
)

// Querier is the subset of pgxpool.Pool the repositories need. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostRepository implements content.PostRepository using PostgreSQL.
type PostRepository struct {
	db Querier
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db Querier) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, author_id, title, content, published, created_at, updated_at`

// Create stores a new post.
func (r *PostRepository) Create(ctx context.Context, post *content.Post) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO posts (
			id, author_id, title, content, published, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		post.ID.String(),
		post.AuthorID.String(),
		post.Title,
		post.Content,
		post.Published,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return oops.Code("POST_CREATE_FAILED").
			With("operation", "insert post").
			With("post_id", post.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a post by ID.
func (r *PostRepository) GetByID(ctx context.Context, id ulid.ULID) (*content.Post, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE id = $1
	`, id.String())

	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("POST_NOT_FOUND").
			With("post_id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("POST_GET_FAILED").
			With("operation", "get post by id").
			With("post_id", id.String()).
			Wrap(err)
	}
	return post, nil
}

// Update rewrites a post's mutable fields.
func (r *PostRepository) Update(ctx context.Context, post *content.Post) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE posts
		SET title = $2, content = $3, published = $4, updated_at = $5
		WHERE id = $1
	`,
		post.ID.String(),
		post.Title,
		post.Content,
		post.Published,
		time.Now(),
	)
	if err != nil {
		return oops.Code("POST_UPDATE_FAILED").
			With("operation", "update post").
			With("post_id", post.ID.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("POST_NOT_FOUND").
			With("post_id", post.ID.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// Delete removes a post. Comments follow via ON DELETE CASCADE.
func (r *PostRepository) Delete(ctx context.Context, id ulid.ULID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("POST_DELETE_FAILED").
			With("operation", "delete post").
			With("post_id", id.String()).
			Wrap(err)
	}
	return nil
}

// ListPublished returns a window of published posts, newest first.
func (r *PostRepository) ListPublished(ctx context.Context, offset, limit int) ([]*content.Post, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE published = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "list published posts").
			Wrap(err)
	}
	defer rows.Close()

	var posts []*content.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, oops.Code("POST_LIST_FAILED").
				With("operation", "scan published post").
				Wrap(err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "iterate published posts").
			Wrap(err)
	}
	return posts, nil
}

// CountPublished returns the number of published posts.
func (r *PostRepository) CountPublished(ctx context.Context) (int, error) {
	var count int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE published = TRUE`)
	if err := row.Scan(&count); err != nil {
		return 0, oops.Code("POST_COUNT_FAILED").
			With("operation", "count published posts").
			Wrap(err)
	}
	return count, nil
}

// scanPost scans a single row into a Post.
// Callers are responsible for handling pgx.ErrNoRows.
func scanPost(row pgx.Row) (*content.Post, error) {
	var (
		idStr     string
		authorStr string
		title     string
		body      string
		published bool
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&idStr, &authorStr, &title, &body, &published, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.With("id", idStr).Wrapf(err, "parse post id")
	}
	authorID, err := ulid.Parse(authorStr)
	if err != nil {
		return nil, oops.With("author_id", authorStr).Wrapf(err, "parse post author id")
	}

	return &content.Post{
		ID:        id,
		AuthorID:  authorID,
		Title:     title,
		Content:   body,
		Published: published,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
