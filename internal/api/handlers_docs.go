package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/docoutline/internal/chunker"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/store"
	"github.com/go-chi/chi/v5"
)

type selectionRequest struct {
	Selected *bool `json:"selected"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"documents": s.docs.List()})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Get(chi.URLParam(r, "docID"))
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document": doc,
		"counts":   doctree.CountSelected(doc.Sections),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.docs.Delete(docID); err != nil {
		storeError(w, err)
		return
	}
	s.log.Info("document deleted", "doc_id", docID)
	writeJSON(w, http.StatusOK, map[string]any{"doc_id": docID, "deleted": true})
}

// handleSelectSection flips one section without touching its relatives.
func (s *Server) handleSelectSection(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSelection(w, r)
	if !ok {
		return
	}
	docID := chi.URLParam(r, "docID")
	sectionID := chi.URLParam(r, "sectionID")
	if err := s.docs.SetSelected(docID, sectionID, *req.Selected); err != nil {
		storeError(w, err)
		return
	}
	ctx, err := s.docs.Context(docID)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":     docID,
		"section_id": sectionID,
		"selected":   *req.Selected,
		"counts":     ctx.Counts,
	})
}

func (s *Server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSelection(w, r)
	if !ok {
		return
	}
	docID := chi.URLParam(r, "docID")
	counts, err := s.docs.SetAllSelected(docID, *req.Selected)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":   docID,
		"selected": *req.Selected,
		"counts":   counts,
	})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	ctx, err := s.docs.Context(chi.URLParam(r, "docID"))
	if err != nil {
		storeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(ctx.Text))
		return
	}
	writeJSON(w, http.StatusOK, ctx)
}

// handleChunks splits the selected sections into token-bounded chunks.
// Query parameters size and overlap override the configured defaults.
func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Get(chi.URLParam(r, "docID"))
	if err != nil {
		storeError(w, err)
		return
	}
	cfg := s.cfg.ChunkerConfig()
	q := r.URL.Query()
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "size must be a positive integer", http.StatusBadRequest)
			return
		}
		cfg.ChunkSize = n
	}
	if v := q.Get("overlap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "overlap must be a non-negative integer", http.StatusBadRequest)
			return
		}
		cfg.ChunkOverlap = n
	}

	chunks := chunker.ChunkTree(doc.Sections, cfg)
	if chunks == nil {
		chunks = []chunker.Chunk{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id": doc.ID,
		"chunks": chunks,
	})
}

func decodeSelection(w http.ResponseWriter, r *http.Request) (selectionRequest, bool) {
	var req selectionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.Selected == nil {
		jsonError(w, "selected is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrSectionNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}
