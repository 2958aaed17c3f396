// Package httpapi exposes the published snapshot to the host platform's
// presentation entities. Thin read-only glue over the service layer.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/welkom-home/welkom-presence/internal/service"
)

// RefreshTrigger requests an immediate poll outside the fixed interval.
type RefreshTrigger interface {
	TriggerRefresh()
}

type API struct {
	service *service.Service
	poller  RefreshTrigger
	logger  *slog.Logger
}

func New(svc *service.Service, p RefreshTrigger, logger *slog.Logger) *API {
	return &API{service: svc, poller: p, logger: logger}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(20 * time.Second))
	r.Use(stripIngressPrefix)

	r.Get("/healthz", a.health)
	r.Route("/api", func(api chi.Router) {
		api.Get("/snapshot", a.getSnapshot)
		api.Get("/homes/{id}", a.getHome)
		api.Get("/rooms/{id}", a.getRoom)
		api.Get("/people", a.listPeople)
		api.Get("/people/{id}", a.getPerson)
		api.Get("/unknown/{index}", a.getUnknown)
		api.Post("/refresh", a.refresh)
	})
	return r
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	status := a.service.Status()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "data": status})
}

func (a *API) getSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot": a.service.Snapshot(),
		"status":   a.service.Status(),
	})
}

// Area lookups never 404: a missing key means zero occupancy.
func (a *API) getHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.Snapshot().Home(chi.URLParam(r, "id")))
}

func (a *API) getRoom(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.Snapshot().Room(chi.URLParam(r, "id")))
}

func (a *API) listPeople(w http.ResponseWriter, _ *http.Request) {
	snap := a.service.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusOK, map[string]any{"people": map[string]any{}, "unknown_people": []any{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"people":         snap.People,
		"unknown_people": snap.UnknownPeople,
	})
}

func (a *API) getPerson(w http.ResponseWriter, r *http.Request) {
	data, ok := a.service.Snapshot().Person(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "Person not currently connected")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (a *API) getUnknown(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_index", "index must be an integer")
		return
	}
	data, ok := a.service.Snapshot().Unknown(index)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "No unknown person in that slot")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (a *API) refresh(w http.ResponseWriter, _ *http.Request) {
	a.poller.TriggerRefresh()
	writeJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

func stripIngressPrefix(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := strings.TrimSpace(r.Header.Get("X-Ingress-Path"))
		if prefix != "" && strings.HasPrefix(r.URL.Path, prefix) {
			r.URL.Path = strings.TrimPrefix(r.URL.Path, prefix)
			if r.URL.Path == "" {
				r.URL.Path = "/"
			}
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

// RunServer starts the server and shuts it down gracefully when ctx is
// cancelled.
func RunServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "err", err)
			return err
		}
		return nil
	}
}
