// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package content

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/pkg/errutil"
)

// Comment is a reply attached to a post.
type Comment struct {
	ID        ulid.ULID `json:"id"`
	PostID    ulid.ULID `json:"postId"`
	AuthorID  ulid.ULID `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewComment creates a validated Comment.
func NewComment(postID, authorID ulid.ULID, body string) (*Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, oops.Code(errutil.CodeValidation).
			With("field", "content").
			Errorf("comment cannot be empty")
	}

	return &Comment{
		ID:        ulid.Make(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   body,
		CreatedAt: time.Now(),
	}, nil
}

// CommentRepository manages comment persistence.
type CommentRepository interface {
	// Create stores a new comment.
	Create(ctx context.Context, comment *Comment) error

	// GetByID retrieves a comment by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Comment, error)

	// ListByPost returns a post's comments, newest first.
	ListByPost(ctx context.Context, postID ulid.ULID) ([]*Comment, error)

	// Delete removes a comment.
	Delete(ctx context.Context, id ulid.ULID) error
}
