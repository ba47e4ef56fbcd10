// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package content provides the post and comment services. Every mutation is
// gated by the auth package's single authorization predicate: author or
// admin, nothing else.
package content

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/pkg/errutil"
)

// Post content constraints.
const (
	MinTitleLength   = 3
	MaxTitleLength   = 100
	MinContentLength = 10
)

// Post is an article authored by an identity. Unpublished posts are visible
// only to their author and admins.
type Post struct {
	ID        ulid.ULID `json:"id"`
	AuthorID  ulid.ULID `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostUpdate carries the optional fields of an edit; nil means unchanged.
type PostUpdate struct {
	Title   *string
	Content *string
}

// NewPost creates a validated, unpublished Post.
func NewPost(authorID ulid.ULID, title, content string) (*Post, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Post{
		ID:        ulid.Make(),
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateTitle checks the title length constraints.
func ValidateTitle(title string) error {
	if len(title) < MinTitleLength {
		return oops.Code(errutil.CodeValidation).
			With("field", "title").
			Errorf("title must be at least %d characters", MinTitleLength)
	}
	if len(title) > MaxTitleLength {
		return oops.Code(errutil.CodeValidation).
			With("field", "title").
			Errorf("title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

// ValidateContent checks the post body length constraint.
func ValidateContent(content string) error {
	if len(content) < MinContentLength {
		return oops.Code(errutil.CodeValidation).
			With("field", "content").
			Errorf("content must be at least %d characters", MinContentLength)
	}
	return nil
}

// PostPage is one page of published posts.
type PostPage struct {
	Posts      []*Post `json:"posts"`
	Page       int     `json:"page"`
	PerPage    int     `json:"perPage"`
	TotalCount int     `json:"totalCount"`
}

// PostRepository manages post persistence.
type PostRepository interface {
	// Create stores a new post.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Post, error)

	// Update rewrites title, content, published flag, and updated_at.
	Update(ctx context.Context, post *Post) error

	// Delete removes a post and its comments.
	Delete(ctx context.Context, id ulid.ULID) error

	// ListPublished returns published posts, newest first.
	ListPublished(ctx context.Context, offset, limit int) ([]*Post, error)

	// CountPublished returns the number of published posts.
	CountPublished(ctx context.Context) (int, error)
}
