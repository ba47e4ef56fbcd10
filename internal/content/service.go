// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package content

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/pkg/errutil"
)

// DefaultPerPage is the page size when the caller does not specify one.
const DefaultPerPage = 10

// Service coordinates post and comment operations. It owns no authorization
// policy of its own: every mutation defers to auth.CanMutate.
type Service struct {
	posts    PostRepository
	comments CommentRepository
	logger   *slog.Logger
}

// NewService creates a content Service.
func NewService(posts PostRepository, comments CommentRepository, logger *slog.Logger) (*Service, error) {
	if posts == nil {
		return nil, oops.Errorf("post repository is required")
	}
	if comments == nil {
		return nil, oops.Errorf("comment repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{posts: posts, comments: comments, logger: logger}, nil
}

// CreatePost creates an unpublished post authored by the caller.
func (s *Service) CreatePost(ctx context.Context, identity *auth.PublicIdentity, title, body string) (*Post, error) {
	if identity == nil {
		return nil, errUnauthenticated()
	}

	post, err := NewPost(identity.ID, title, body)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, s.internal(ctx, "create post failed", err)
	}

	s.logger.InfoContext(ctx, "post created", "post_id", post.ID.String(), "author_id", identity.ID.String())
	return post, nil
}

// GetPost returns a post. Unpublished posts are visible only to callers who
// could mutate them.
func (s *Service) GetPost(ctx context.Context, identity *auth.PublicIdentity, id ulid.ULID) (*Post, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.Published && !auth.CanMutate(identity, post.AuthorID) {
		return nil, errPostNotFound(id)
	}
	return post, nil
}

// UpdatePost applies an edit after the caller passes the mutation predicate.
func (s *Service) UpdatePost(ctx context.Context, identity *auth.PublicIdentity, id ulid.ULID, update PostUpdate) (*Post, error) {
	post, err := s.authorizeMutation(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if err := ValidateTitle(*update.Title); err != nil {
			return nil, err
		}
		post.Title = *update.Title
	}
	if update.Content != nil {
		if err := ValidateContent(*update.Content); err != nil {
			return nil, err
		}
		post.Content = *update.Content
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, s.internal(ctx, "update post failed", err)
	}
	return post, nil
}

// SetPublished publishes or unpublishes a post.
func (s *Service) SetPublished(ctx context.Context, identity *auth.PublicIdentity, id ulid.ULID, published bool) (*Post, error) {
	post, err := s.authorizeMutation(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	post.Published = published
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, s.internal(ctx, "publish post failed", err)
	}

	s.logger.InfoContext(ctx, "post publish state changed",
		"post_id", post.ID.String(), "published", published)
	return post, nil
}

// DeletePost removes a post and its comments.
func (s *Service) DeletePost(ctx context.Context, identity *auth.PublicIdentity, id ulid.ULID) error {
	if _, err := s.authorizeMutation(ctx, identity, id); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return s.internal(ctx, "delete post failed", err)
	}

	s.logger.InfoContext(ctx, "post deleted", "post_id", id.String())
	return nil
}

// ListPublished returns one page of published posts, newest first.
func (s *Service) ListPublished(ctx context.Context, page, perPage int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	posts, err := s.posts.ListPublished(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, s.internal(ctx, "list posts failed", err)
	}
	total, err := s.posts.CountPublished(ctx)
	if err != nil {
		return nil, s.internal(ctx, "count posts failed", err)
	}

	return &PostPage{Posts: posts, Page: page, PerPage: perPage, TotalCount: total}, nil
}

// AddComment attaches a comment to a post. Any authenticated identity may
// comment on a visible post.
func (s *Service) AddComment(ctx context.Context, identity *auth.PublicIdentity, postID ulid.ULID, body string) (*Comment, error) {
	if identity == nil {
		return nil, errUnauthenticated()
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.Published && !auth.CanMutate(identity, post.AuthorID) {
		return nil, errPostNotFound(postID)
	}

	comment, err := NewComment(postID, identity.ID, body)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, s.internal(ctx, "create comment failed", err)
	}
	return comment, nil
}

// ListComments returns a post's comments, newest first.
func (s *Service) ListComments(ctx context.Context, postID ulid.ULID) ([]*Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, s.internal(ctx, "list comments failed", err)
	}
	return comments, nil
}

// DeleteComment removes a comment. The predicate runs against the comment's
// author, exactly as it does for posts.
func (s *Service) DeleteComment(ctx context.Context, identity *auth.PublicIdentity, id ulid.ULID) error {
	if identity == nil {
		return errUnauthenticated()
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return oops.Code(errutil.CodeNotFound).
				With("comment_id", id.String()).
				Errorf("comment not found")
		}
		return s.internal(ctx, "get comment failed", err)
	}

	if !auth.CanMutate(identity, comment.AuthorID) {
		return errForbidden()
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return s.internal(ctx, "delete comment failed", err)
	}
	return nil
}

// authorizeMutation loads a post and runs the predicate against its author.
func (s *Service) authorizeMutation(ctx context.Context, identity *auth.PublicIdentity, id ulid.ULID) (*Post, error) {
	if identity == nil {
		return nil, errUnauthenticated()
	}

	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.CanMutate(identity, post.AuthorID) {
		return nil, errForbidden()
	}
	return post, nil
}

func (s *Service) getPost(ctx context.Context, id ulid.ULID) (*Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, errPostNotFound(id)
		}
		return nil, s.internal(ctx, "get post failed", err)
	}
	return post, nil
}

func (s *Service) internal(_ context.Context, msg string, err error) error {
	errutil.LogError(s.logger, msg, err)
	return oops.Code(errutil.CodeInternal).With("cause", msg).Wrap(err)
}

func errUnauthenticated() error {
	return oops.Code(errutil.CodeUnauthorized).Errorf("you must be signed in")
}

func errForbidden() error {
	return oops.Code(errutil.CodeForbidden).Errorf("you do not have permission to modify this resource")
}

func errPostNotFound(id ulid.ULID) error {
	return oops.Code(errutil.CodeNotFound).
		With("post_id", id.String()).
		Errorf("post not found")
}
