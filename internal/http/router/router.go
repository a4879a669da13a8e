// Package router wires the HTTP surface: the JSON API under /api, the
// two static entry points, and the middleware stack around them.
//
// The router is built with chi so the public and privileged routes can
// live in separate groups with different middleware, and so unmatched
// API routes get a JSON 404 instead of the default text one.
package router

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/karanjoshi/friends-map-api/internal/config"
	"github.com/karanjoshi/friends-map-api/internal/http/handlers/friend"
	"github.com/karanjoshi/friends-map-api/internal/storage"
	"github.com/karanjoshi/friends-map-api/internal/utils/response"
)

// New builds the full application handler.
//
// Route table:
//
//	GET    /api/friends         → list all friends (privileged)
//	GET    /api/friends/public  → list friends, public projection
//	POST   /api/friends         → create a friend (privileged)
//	DELETE /api/friends/{id}    → delete one friend (privileged)
//	DELETE /api/friends         → delete all friends (privileged)
//	GET    /api/stats           → aggregate counts (privileged)
//	GET    /                    → public map page
//	GET    /admin               → admin panel page
//	GET    /static/*            → assets (js, css)
func New(log *slog.Logger, cfg *config.Config, store storage.Storage) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(chimiddleware.RealIP) // client IP from X-Forwarded-For, for logs and rate keys
	r.Use(requestLogger(log))   // one slog line per request
	r.Use(recoverer(log))       // a panicking handler becomes a JSON 500, not a dead process
	r.Use(cors.Handler(cors.Options{
		// The map page may be hosted separately from the API.
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(300, time.Minute))

		// Unmatched /api paths answer in JSON like everything else.
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(errors.New("route not found")))
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			response.WriteJSON(w, http.StatusMethodNotAllowed,
				response.GeneralError(errors.New("method not allowed")))
		})

		// The public map only ever reads the public projection.
		r.Get("/friends/public", friend.GetPublicList(store))

		// Everything else is the admin panel's capability. The check
		// is a no-op until an admin token is configured.
		r.Group(func(r chi.Router) {
			r.Use(requireAdminToken(cfg.AdminToken))

			r.Get("/friends", friend.GetList(store))
			r.Post("/friends", friend.New(store))
			r.Delete("/friends/{id}", friend.Delete(store))
			r.Delete("/friends", friend.DeleteAll(store))
			r.Get("/stats", friend.Stats(store))
		})
	})

	// Static entry points. The two HTML pages get fixed routes; the
	// rest of the assets are served from the static directory.
	r.Get("/", servePage(cfg.StaticDir, "index.html"))
	r.Get("/admin", servePage(cfg.StaticDir, "admin.html"))
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(cfg.StaticDir))))

	return r
}

// requireAdminToken gates a route group behind a shared bearer token.
// With no token configured the group is open, matching a deployment on
// a trusted network where the admin panel needs no separate login.
func requireAdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get("Authorization")
			want := "Bearer " + token
			if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
				response.WriteJSON(w, http.StatusUnauthorized,
					response.GeneralError(errors.New("admin token required")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// recoverer turns an uncaught handler panic into the same JSON error
// envelope every other failure uses. chi's stock Recoverer writes only
// a bare status line, which would break the all-JSON contract of the
// /api routes. The panic value and stack stay in the server log; the
// client sees a generic message.
func recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					// http.ErrAbortHandler is the sentinel for
					// deliberately dropping the connection.
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}

					log.Error("panic recovered",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.Any("panic", rvr),
						slog.String("stack", string(debug.Stack())),
					)

					response.WriteJSON(w, http.StatusInternalServerError,
						response.GeneralError(errors.New("internal server error")))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger emits one structured log line per completed request.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// WrapResponseWriter records the status code the handler
			// writes; a plain http.ResponseWriter can't report it.
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.String("remote", r.RemoteAddr),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// servePage serves one fixed HTML file from the static directory.
func servePage(staticDir, name string) http.HandlerFunc {
	page := filepath.Join(staticDir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, page)
	}
}
