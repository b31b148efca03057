package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/monitoring"
	"github.com/sells-group/profile-cli/internal/store"
)

var servePort int

// profileBuilder is the build entry point the HTTP API depends on.
type profileBuilder interface {
	BuildProfile(ctx context.Context, subject model.Subject, names []string) (*model.Profile, error)
}

type profileRequest struct {
	Kind         string   `json:"kind"`
	Name         string   `json:"name"`
	Jurisdiction string   `json:"jurisdiction"`
	Auxiliary    string   `json:"auxiliary"`
	Providers    []string `json:"providers"`
}

type profileSummary struct {
	ID           string            `json:"id"`
	Kind         model.SubjectKind `json:"kind"`
	Name         string            `json:"name"`
	Jurisdiction string            `json:"jurisdiction,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// buildRouter wires the HTTP API. st may be nil, in which case built
// profiles are returned without being saved and the read routes answer 503.
func buildRouter(b profileBuilder, st store.Store, metrics http.Handler, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/v1/profiles", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var body profileRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			kind, err := model.ParseSubjectKind(body.Kind)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			subject := model.Subject{
				Kind:         kind,
				Name:         body.Name,
				Jurisdiction: body.Jurisdiction,
				Auxiliary:    body.Auxiliary,
			}

			p, err := b.BuildProfile(req.Context(), subject, body.Providers)
			if err != nil {
				if model.IsConfigError(err) {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
				zap.L().Error("build profile failed", zap.String("subject", subject.Name), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "build failed")
				return
			}
			if err := model.ValidateProfile(p); err != nil {
				zap.L().Error("profile failed schema validation", zap.String("subject", subject.Name), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "profile failed schema validation")
				return
			}

			if st == nil {
				writeJSON(w, http.StatusOK, map[string]any{"profile": p})
				return
			}
			snap, err := st.SaveProfile(req.Context(), p)
			if err != nil {
				zap.L().Error("save profile failed", zap.String("subject", subject.Name), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "save failed")
				return
			}
			w.Header().Set("Location", "/v1/profiles/"+snap.ID)
			writeJSON(w, http.StatusCreated, snap)
		})

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			if st == nil {
				writeError(w, http.StatusServiceUnavailable, "no store configured")
				return
			}
			filter, err := parseProfileFilter(req)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			snaps, err := st.ListProfiles(req.Context(), filter)
			if err != nil {
				zap.L().Error("list profiles failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "list failed")
				return
			}
			out := make([]profileSummary, 0, len(snaps))
			for _, s := range snaps {
				out = append(out, profileSummary{
					ID: s.ID, Kind: s.Kind, Name: s.Name, Jurisdiction: s.Jurisdiction, CreatedAt: s.CreatedAt,
				})
			}
			writeJSON(w, http.StatusOK, map[string]any{"profiles": out})
		})

		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			if st == nil {
				writeError(w, http.StatusServiceUnavailable, "no store configured")
				return
			}
			snap, err := st.GetProfile(req.Context(), chi.URLParam(req, "id"))
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "profile not found")
				return
			}
			if err != nil {
				zap.L().Error("get profile failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "get failed")
				return
			}
			writeJSON(w, http.StatusOK, snap)
		})
	})

	return r
}

func parseProfileFilter(req *http.Request) (store.ProfileFilter, error) {
	q := req.URL.Query()
	filter := store.ProfileFilter{Name: q.Get("name")}
	if k := q.Get("kind"); k != "" {
		kind, err := model.ParseSubjectKind(k)
		if err != nil {
			return filter, err
		}
		filter.Kind = kind
	}
	for key, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return filter, eris.Errorf("%s must be a non-negative integer", key)
			}
			*dst = n
		}
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the profile API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer env.Close()

		checker := monitoring.NewChecker(
			monitoring.NewCollector(env.Store),
			monitoring.NewAlerter(cfg.Monitoring),
			cfg.Monitoring,
		)
		go checker.Run(ctx)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(env, env.Store, env.Metrics.Handler(), cfg.Server.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
