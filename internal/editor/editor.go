package editor

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tablekit/quicklinks/internal/adventure"
	"github.com/tablekit/quicklinks/internal/store"
	"github.com/tablekit/quicklinks/internal/viewer"
)

//go:embed editor.html
var editorHTML []byte

// Editor serves the form editor and its session API.
type Editor struct {
	store    *store.Store
	renderer *viewer.Renderer
	pdfs     *viewer.PDFSource
	sessions *Sessions
}

// New creates an Editor.
func New(st *store.Store, renderer *viewer.Renderer, pdfs *viewer.PDFSource) *Editor {
	return &Editor{store: st, renderer: renderer, pdfs: pdfs, sessions: NewSessions()}
}

// Sessions returns the session registry.
func (e *Editor) Sessions() *Sessions { return e.sessions }

// RegisterRoutes mounts the editor page and the session API.
func (e *Editor) RegisterRoutes(r chi.Router) {
	r.Get("/editor", e.ServeEditor)
	r.Route("/api/editor/sessions", func(r chi.Router) {
		r.Get("/", e.handleList)
		r.Post("/", e.handleCreate)
		r.Get("/{sid}", e.handleGet)
		r.Delete("/{sid}", e.handleDelete)
		r.Post("/{sid}/commands", e.handleCommand)
		r.Post("/{sid}/save", e.handleSave)
		r.Get("/{sid}/preview", e.handlePreview)
		r.Get("/{sid}/export", e.handleExport)
	})
}

// ServeEditor serves the embedded editor page.
func (e *Editor) ServeEditor(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(editorHTML)
}

type createRequest struct {
	// Load names a stored adventure to edit.
	Load string `json:"load,omitempty"`
	// Adventure seeds the session from an uploaded record.
	Adventure *adventure.Adventure `json:"adventure,omitempty"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	State     *State `json:"state"`
}

type saveRequest struct {
	// As saves under an explicit identifier instead of the title slug.
	As string `json:"as,omitempty"`
}

type saveResponse struct {
	store.SaveResult
	Warning string `json:"warning,omitempty"`
}

func (e *Editor) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	state := NewState()
	switch {
	case req.Load != "":
		adv, err := e.store.Load(r.Context(), req.Load)
		if err != nil {
			writeError(w, store.StatusFor(err), err.Error())
			return
		}
		state = FromAdventure(req.Load, adv)
	case req.Adventure != nil:
		state = FromAdventure("", req.Adventure)
	}

	s := e.sessions.Create(state)
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: s.ID, State: s.Snapshot()})
}

func (e *Editor) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": e.sessions.IDs()})
}

func (e *Editor) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, ok := e.sessions.Get(chi.URLParam(r, "sid"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
	}
	return s, ok
}

func (e *Editor) handleGet(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: s.ID, State: s.Snapshot()})
}

func (e *Editor) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !e.sessions.Delete(chi.URLParam(r, "sid")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *Editor) handleCommand(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	var cmd Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid command: "+err.Error())
		return
	}
	state, err := s.Apply(cmd)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNoSection) || errors.Is(err, ErrNoKeyword) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: s.ID, State: state})
}

func (e *Editor) handleSave(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	var req saveRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.As != "" && !store.ValidID(req.As) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid file name %q", req.As))
		return
	}

	var res store.SaveResult
	err := s.Update(func(st *State) error {
		var err error
		if req.As != "" {
			res, err = e.store.SaveAs(r.Context(), req.As, st.Adventure())
		} else {
			res, err = e.store.Save(r.Context(), st.Adventure())
		}
		if err == nil {
			st.ID = res.ID
		}
		return err
	})
	if err != nil {
		log.Printf("editor: saving session %s: %v", s.ID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{SaveResult: res, Warning: res.Warning()})
}

func (e *Editor) handlePreview(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	adv := adventure.Normalize(s.Snapshot().Adventure())
	pdf, err := e.pdfs.For(adv)
	if err != nil {
		writeError(w, viewer.StatusFor(err), err.Error())
		return
	}
	var buf bytes.Buffer
	if err := e.renderer.RenderTo(&buf, adv, pdf.Data, pdf.Name, ""); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (e *Editor) handleExport(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	adv := adventure.Normalize(s.Snapshot().Adventure())
	data, err := store.Encode(adv)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", adventure.Identifier(adv.Title)+store.Ext))
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
