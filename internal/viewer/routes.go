package viewer

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tablekit/quicklinks/internal/store"
)

// Handler serves rendered adventures.
type Handler struct {
	Store    *store.Store
	Renderer *Renderer
	PDFs     *PDFSource
	// LiveReload adds the reload client to served documents.
	LiveReload bool
}

// RegisterRoutes mounts the index, viewer and PDF download routes.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.handleIndex)
	r.Get("/view/{id}", h.handleView)
	r.Get("/pdf", h.handlePDF)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Store.List(r.Context())
	msg := ""
	if err != nil {
		log.Printf("viewer: listing adventures: %v", err)
		msg = "Could not list adventures: " + err.Error()
		ids = nil
	}
	var buf bytes.Buffer
	if err := h.Renderer.RenderIndex(&buf, ids, h.PDFs.Default().Name, msg); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	adv, err := h.Store.Load(r.Context(), id)
	if err != nil {
		h.writeMessage(w, r, store.StatusFor(err), err)
		return
	}
	pdf, err := h.PDFs.For(adv)
	if err != nil {
		h.writeMessage(w, r, StatusFor(err), err)
		return
	}

	reloadID := ""
	if h.LiveReload {
		reloadID = id
	}
	var buf bytes.Buffer
	if err := h.Renderer.RenderTo(&buf, adv, pdf.Data, pdf.Name, reloadID); err != nil {
		log.Printf("viewer: rendering %s: %v", id, err)
		h.writeMessage(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	pdf := h.PDFs.Default()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", pdf.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf.Data)))
	w.Write(pdf.Data)
}

// writeMessage renders an error inline on the index page.
func (h *Handler) writeMessage(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()
	var fe *store.FormatError
	switch {
	case errors.Is(err, store.ErrNotFound):
		msg = "Adventure not found."
	case errors.As(err, &fe):
		msg = fmt.Sprintf("Adventure %q could not be read: %v", fe.ID, fe.Err)
	}
	ids, _ := h.Store.List(r.Context())
	var buf bytes.Buffer
	if rerr := h.Renderer.RenderIndex(&buf, ids, h.PDFs.Default().Name, msg); rerr != nil {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
