package store

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tablekit/quicklinks/internal/adventure"
)

// saveResponse is the JSON response for save endpoints.
type saveResponse struct {
	SaveResult
	Warning string `json:"warning,omitempty"`
}

// RegisterRoutes mounts the adventure API under /api/adventures.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/adventures", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Post("/", handleSave(store))
		r.Get("/{id}", handleGet(store))
		r.Put("/{id}", handleSaveAs(store))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := store.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, ids)
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adv, err := store.Load(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, StatusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, adv)
	}
}

func handleSave(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var adv adventure.Adventure
		if err := json.NewDecoder(r.Body).Decode(&adv); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		res, err := store.Save(r.Context(), &adv)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, saveResponse{SaveResult: res, Warning: res.Warning()})
	}
}

func handleSaveAs(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !ValidID(id) {
			writeError(w, http.StatusBadRequest, "invalid adventure identifier")
			return
		}
		var adv adventure.Adventure
		if err := json.NewDecoder(r.Body).Decode(&adv); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		res, err := store.SaveAs(r.Context(), id, &adv)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, saveResponse{SaveResult: res, Warning: res.Warning()})
	}
}

// StatusFor maps store errors to HTTP status codes.
func StatusFor(err error) int {
	var fe *FormatError
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &fe):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
