// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/content"
	"github.com/inkpost/inkpost/pkg/errutil"
)

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type commentRequest struct {
	Body string `json:"body"`
}

// urlID parses a ULID path parameter. Malformed IDs map to NOT_FOUND so
// probing the ID space looks no different from missing rows.
func urlID(r *http.Request, param string) (ulid.ULID, error) {
	raw := chi.URLParam(r, param)
	id, err := ulid.Parse(raw)
	if err != nil {
		return ulid.ULID{}, oops.Code(errutil.CodeNotFound).
			With(param, raw).
			Errorf("not found")
	}
	return id, nil
}

func (api *API) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := api.content.CreatePost(r.Context(), IdentityFromContext(r.Context()), req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (api *API) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "postID")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := api.content.GetPost(r.Context(), IdentityFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (api *API) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "postID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := api.content.UpdatePost(r.Context(), IdentityFromContext(r.Context()), id,
		content.PostUpdate{Title: req.Title, Content: req.Content})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (api *API) handleSetPublished(published bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "postID")
		if err != nil {
			writeError(w, err)
			return
		}

		post, err := api.content.SetPublished(r.Context(), IdentityFromContext(r.Context()), id, published)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func (api *API) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "postID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := api.content.DeletePost(r.Context(), IdentityFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *API) handleListPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	result, err := api.content.ListPublished(r.Context(), page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (api *API) handleAddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := api.content.AddComment(r.Context(), IdentityFromContext(r.Context()), postID, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (api *API) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := api.content.ListComments(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (api *API) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "commentID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := api.content.DeleteComment(r.Context(), IdentityFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
