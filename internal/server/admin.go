package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chrisdamba/couriermatch/internal/admin"
	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) registerAdmin(r chi.Router) {
	r.Get("/drivers", s.driverListHandler())
	r.Post("/drivers", s.driverCreateHandler())
	r.Post("/drivers/seed", s.driverSeedHandler())
	r.Get("/drivers/{id}", s.driverDetailHandler())
	r.Patch("/drivers/{id}", s.driverUpdateHandler())
	r.Delete("/drivers/{id}", s.driverDeleteHandler())
	r.Post("/drivers/{id}/toggle", s.driverToggleHandler())
}

func (s *Server) driverListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		records, err := s.admin.List(ctx)
		if err != nil {
			writeServiceError(s.logger, w, err)
			return
		}
		if records == nil {
			records = []*models.DriverPhotoRecord{}
		}
		writeJSON(s.logger, w, http.StatusOK, map[string]any{"items": records})
	}
}

func (s *Server) driverDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		record, err := s.admin.Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(s.logger, w, err)
			return
		}
		writeJSON(s.logger, w, http.StatusOK, record)
	}
}

func (s *Server) driverCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cmd admin.CreateCommand
		if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&cmd); err != nil {
			writeError(s.logger, w, http.StatusBadRequest, "malformed request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		record, err := s.admin.Create(ctx, cmd)
		if err != nil {
			writeServiceError(s.logger, w, err)
			return
		}
		s.logger.Info("admin created driver photo", "id", record.ID, "admin", adminSubject(r.Context()))
		writeJSON(s.logger, w, http.StatusCreated, record)
	}
}

func (s *Server) driverUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd models.DriverPhotoUpdate
		if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&upd); err != nil {
			writeError(s.logger, w, http.StatusBadRequest, "malformed request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		record, err := s.admin.Update(ctx, chi.URLParam(r, "id"), upd)
		if err != nil {
			writeServiceError(s.logger, w, err)
			return
		}
		writeJSON(s.logger, w, http.StatusOK, record)
	}
}

func (s *Server) driverToggleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		record, err := s.admin.ToggleActive(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(s.logger, w, err)
			return
		}
		writeJSON(s.logger, w, http.StatusOK, record)
	}
}

func (s *Server) driverDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.admin.Delete(ctx, chi.URLParam(r, "id")); err != nil {
			writeServiceError(s.logger, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// driverSeedHandler accepts ?count=n&seed=s&reset=true.
func (s *Server) driverSeedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		count, err := strconv.Atoi(strings.TrimSpace(q.Get("count")))
		if err != nil || count <= 0 {
			writeError(s.logger, w, http.StatusBadRequest, "count must be a positive integer")
			return
		}
		var seed int64
		if raw := strings.TrimSpace(q.Get("seed")); raw != "" {
			if seed, err = strconv.ParseInt(raw, 10, 64); err != nil {
				writeError(s.logger, w, http.StatusBadRequest, "seed must be an integer")
				return
			}
		}
		reset, _ := strconv.ParseBool(q.Get("reset"))

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		records, err := s.admin.Seed(ctx, count, seed, reset)
		if err != nil {
			writeServiceError(s.logger, w, err)
			return
		}
		writeJSON(s.logger, w, http.StatusCreated, map[string]any{"items": records})
	}
}
