// Command sample demonstrates the github.com/bjaus/lens package with a small
// chi-based API that reads every message location through lenses.
//
// Run:
//
//	go run ./cmd/sample
//
// Then explore:
//
//	GET  http://localhost:8080/v1/users?role=admin&limit=10   # query lenses
//	GET  http://localhost:8080/v1/users/{id}                  # path + header lenses
//	PUT  http://localhost:8080/v1/users/{id}                  # JSON body lens
//	POST http://localhost:8080/v1/users/{id}/avatar           # multipart parts
//	GET  http://localhost:8080/v1/prefs                       # cookie lenses
//
// Multipart storage is configured with LENS_MULTIPART_MAX_MEMORY,
// LENS_MULTIPART_MAX_PARTS and LENS_MULTIPART_TEMP_DIR.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bjaus/lens"
	"github.com/bjaus/lens/format"
	"github.com/bjaus/lens/part"
	"github.com/bjaus/lens/pathbind"
)

type user struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
	Avatar int64     `json:"avatar_bytes,omitempty"`
}

// Lenses are built once and shared by every request.
var (
	userID    = lens.Parse(pathbind.Chi, lens.UUID).Required("id", lens.WithDescription("user id"))
	roleQuery = lens.Query.Optional("role")
	limit     = lens.Convert(lens.Query, lens.Int).Optional("limit")
	verbose   = lens.Convert(lens.Header, lens.Bool).Optional("X-Verbose")
	userBody  = format.Typed[user](lens.Body, format.JSONCodec).Required("user")
	theme     = lens.CookieValue.Optional("theme")
	visits    = lens.Convert(lens.CookieValue, lens.Int).Optional("visits")
	avatar    = part.Field.Required("avatar")
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg, err := part.LoadConfig()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newRouter(logger, part.NewDecoder(cfg, part.WithLogger(logger))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		//nolint:errcheck // best-effort on exit
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("starting server", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
	}
	slog.Info("server stopped")
}

type store struct {
	mu    sync.Mutex
	users map[uuid.UUID]user
}

func newRouter(logger *slog.Logger, decoder *part.Decoder) http.Handler {
	s := &store{users: map[uuid.UUID]user{}}
	seed := user{ID: uuid.New(), Name: "Ada", Role: "admin"}
	s.users[seed.ID] = seed
	logger.Info("seeded user", "id", seed.ID)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Get("/users", s.list)
		r.Route("/users/{id}", func(r chi.Router) {
			// {id} is only bound inside the route.
			r.Use(lens.Require(logger, userID))
			r.Get("/", s.get)
			r.With(lens.Require(logger, userBody)).Put("/", s.put)
			r.Post("/avatar", s.uploadAvatar(decoder))
		})
		r.Get("/prefs", prefs)
	})
	return r
}

func (s *store) list(w http.ResponseWriter, r *http.Request) {
	if err := lens.Validate(r, lens.Checker[*http.Request](roleQuery), limit); err != nil {
		lens.WriteError(w, err)
		return
	}
	role, _ := roleQuery.Get(r)
	n, _ := limit.Get(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []user{}
	for _, u := range s.users {
		if role != nil && u.Role != *role {
			continue
		}
		if n != nil && len(out) >= *n {
			break
		}
		out = append(out, u)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *store) get(w http.ResponseWriter, r *http.Request) {
	id, _ := userID.Get(r)
	s.mu.Lock()
	u, ok := s.users[id]
	s.mu.Unlock()
	if !ok {
		lens.WriteError(w, &lens.ProblemDetail{Status: http.StatusNotFound, Title: "Not Found", Detail: "no such user"})
		return
	}
	if v, err := verbose.Get(r); err == nil && v != nil && *v {
		w.Header().Set("X-User-Role", u.Role)
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *store) put(w http.ResponseWriter, r *http.Request) {
	id, _ := userID.Get(r)
	u, _ := userBody.Get(r)
	u.ID = id

	s.mu.Lock()
	s.users[id] = u
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *store) uploadAvatar(decoder *part.Decoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := userID.Get(r)
		parts, err := decoder.DecodeRequest(r)
		if err != nil {
			lens.WriteError(w, &lens.ProblemDetail{Status: http.StatusBadRequest, Title: "Bad Request", Detail: err.Error()})
			return
		}
		defer func() {
			if err := part.CloseAll(parts); err != nil {
				slog.Warn("release parts", "err", err)
			}
		}()

		p, err := avatar.Get(parts)
		if err != nil {
			lens.WriteError(w, err)
			return
		}

		s.mu.Lock()
		u, ok := s.users[id]
		if ok {
			u.Avatar = p.Len()
			s.users[id] = u
		}
		s.mu.Unlock()
		if !ok {
			lens.WriteError(w, &lens.ProblemDetail{Status: http.StatusNotFound, Title: "Not Found", Detail: "no such user"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func prefs(w http.ResponseWriter, r *http.Request) {
	if err := lens.Validate(r, lens.Checker[*http.Request](theme), visits); err != nil {
		lens.WriteError(w, err)
		return
	}
	t, _ := theme.Get(r)
	n, _ := visits.Get(r)

	count := 1
	if n != nil {
		count = *n + 1
	}
	http.SetCookie(w, &http.Cookie{Name: "visits", Value: lens.Int.Format(count), Path: "/"})

	body := map[string]any{"visits": count}
	if t != nil {
		body["theme"] = *t
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson // best-effort after WriteHeader
	json.NewEncoder(w).Encode(v)
}
