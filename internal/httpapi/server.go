// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package httpapi exposes the auth and content services over HTTP.
//
// Sessions ride in HttpOnly cookies rather than Authorization headers, so
// every route passes through the session middleware and handlers read the
// caller's identity from the request context.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/content"
	"github.com/inkpost/inkpost/internal/observability"
)

// API holds the handler dependencies.
type API struct {
	auth       *auth.Service
	content    *content.Service
	cookies    *auth.CookieStore
	accessTTL  time.Duration
	refreshTTL time.Duration
	metrics    *observability.Metrics
}

// NewAPI creates the HTTP API. metrics may be nil when the observability
// server is disabled.
func NewAPI(authSvc *auth.Service, contentSvc *content.Service, cookies *auth.CookieStore,
	accessTTL, refreshTTL time.Duration, metrics *observability.Metrics,
) (*API, error) {
	if authSvc == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if contentSvc == nil {
		return nil, oops.Errorf("content service is required")
	}
	if cookies == nil {
		return nil, oops.Errorf("cookie store is required")
	}
	if accessTTL <= 0 {
		accessTTL = auth.DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = auth.DefaultRefreshTokenTTL
	}
	return &API{
		auth:       authSvc,
		content:    contentSvc,
		cookies:    cookies,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		metrics:    metrics,
	}, nil
}

// Router builds the route tree.
func (api *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if api.metrics != nil {
		r.Use(metricsMiddleware(api.metrics))
	}
	r.Use(api.sessionMiddleware)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", api.handleSignUp)
		r.Post("/signin", api.handleSignIn)
		r.Post("/refresh", api.handleRefresh)
		r.Post("/signout", api.handleSignOut)
		r.Get("/me", api.handleMe)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", api.handleListPosts)
		r.Post("/", api.handleCreatePost)
		r.Route("/{postID}", func(r chi.Router) {
			r.Get("/", api.handleGetPost)
			r.Patch("/", api.handleUpdatePost)
			r.Delete("/", api.handleDeletePost)
			r.Post("/publish", api.handleSetPublished(true))
			r.Post("/unpublish", api.handleSetPublished(false))
			r.Get("/comments", api.handleListComments)
			r.Post("/comments", api.handleAddComment)
		})
	})

	r.Delete("/comments/{commentID}", api.handleDeleteComment)

	return r
}

// Server runs the API over HTTP with graceful shutdown.
type Server struct {
	addr       string
	handler    http.Handler
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates an HTTP server for the given API.
func NewServer(addr string, api *API) *Server {
	return &Server{
		addr:    addr,
		handler: api.Router(),
	}
}

// Start begins serving. It returns an error channel that receives any
// error from the HTTP server after it starts; the channel is closed when
// the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("http server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("http server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("http server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown http server").Wrap(err)
		}
	}

	slog.Info("http server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
