// Package server assembles the HTTP service: it wires persistence, the
// tunas.Service backend, and the api.API handlers onto a chi router behind
// the auth and panic-recovery middleware.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hannesm/xml/server/api"
	"github.com/hannesm/xml/server/dao"
	"github.com/hannesm/xml/server/middle"
	"github.com/hannesm/xml/server/tunas"
)

// Server is a fully-wired HTTP service ready to be handed to http.Server or
// used directly as an http.Handler.
type Server struct {
	Router http.Handler

	db dao.Store
}

// New connects to the database configured in cfg and returns a Server ready
// to handle requests. The caller is responsible for calling Close when the
// server is shut down.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	a := api.API{
		Backend:     tunas.Service{DB: db},
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	r := chi.NewRouter()
	r.Use(middle.DontPanic())

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.Get("/info", a.HTTPGetInfo())

		r.Group(func(r chi.Router) {
			r.Use(middle.OptionalAuth(db.Users(), a.Secret, a.UnauthDelay, dao.User{}))
			r.Post("/login", a.HTTPCreateLogin())
		})

		r.Group(func(r chi.Router) {
			r.Use(middle.RequireAuth(db.Users(), a.Secret, a.UnauthDelay, dao.User{}))

			r.Delete("/login/{id}", a.HTTPDeleteLogin())
			r.Post("/tokens", a.HTTPCreateToken())

			r.Get("/users", a.HTTPGetAllUsers())
			r.Post("/users", a.HTTPCreateUser())
			r.Get("/users/{id}", a.HTTPGetUser())
			r.Patch("/users/{id}", a.HTTPUpdateUser())
			r.Put("/users/{id}", a.HTTPReplaceUser())
			r.Delete("/users/{id}", a.HTTPDeleteUser())

			r.Get("/sessions", a.HTTPGetAllSessions())
			r.Post("/sessions", a.HTTPCreateSession())
			r.Get("/sessions/{id}", a.HTTPGetSession())
			r.Delete("/sessions/{id}", a.HTTPDeleteSession())
			r.Post("/sessions/{id}/chunks", a.HTTPFeedSession())
			r.Get("/sessions/{id}/audit", a.HTTPGetAudit())
		})
	})

	return &Server{Router: r, db: db}, nil
}

// DB returns the persistence store backing the server, for callers that
// need direct access (e.g. to bootstrap an initial admin user).
func (s *Server) DB() dao.Store {
	return s.db
}

// ServeHTTP implements http.Handler by delegating to the assembled router.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.Router.ServeHTTP(w, req)
}

// ListenAndServe starts serving requests on addr until ctx is cancelled or
// an unrecoverable error occurs.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Close releases the persistence layer backing the server.
func (s *Server) Close() error {
	return s.db.Close()
}
