// Package store keeps extracted document outlines in memory and applies
// selection changes to them.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrSectionNotFound = errors.New("section not found")
)

// Document is one uploaded file and its outline.
type Document struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Filename    string        `json:"filename"`
	Format      string        `json:"format"`
	Strategy    string        `json:"strategy"`
	ContentHash string        `json:"content_hash,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Sections    *doctree.Tree `json:"sections"`
}

// Summary is the list view of a document.
type Summary struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Filename  string         `json:"filename"`
	Format    string         `json:"format"`
	Strategy  string         `json:"strategy"`
	Counts    doctree.Counts `json:"sections"`
	CreatedAt time.Time      `json:"created_at"`
}

// Context is the assembled text of a document's selected sections.
type Context struct {
	DocID  string         `json:"doc_id"`
	Title  string         `json:"title"`
	Text   string         `json:"context"`
	Counts doctree.Counts `json:"counts"`
	Stats  doctree.Stats  `json:"stats"`
}

// Store is a thread-safe in-memory document registry.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func New() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Put stores doc, replacing any previous document with the same id.
func (s *Store) Put(doc Document) {
	if doc.Sections == nil {
		doc.Sections = doctree.Build(nil)
	} else {
		doc.Sections = doc.Sections.Clone()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = &doc
}

// Get returns a copy of the document; changes to it do not affect the store.
func (s *Store) Get(id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	cp := *doc
	cp.Sections = doc.Sections.Clone()
	return cp, nil
}

// List returns document summaries, newest first.
func (s *Store) List() []Summary {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, Summary{
			ID:        d.ID,
			Title:     d.Title,
			Filename:  d.Filename,
			Format:    d.Format,
			Strategy:  d.Strategy,
			Counts:    doctree.CountSelected(d.Sections),
			CreatedAt: d.CreatedAt,
		})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Delete removes a document.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

// FindByHash returns the id of a stored document with the given content hash.
func (s *Store) FindByHash(hash string) (string, bool) {
	if hash == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, d := range s.docs {
		if d.ContentHash == hash {
			return id, true
		}
	}
	return "", false
}

// SetSelected toggles one section. Other sections, including the section's
// parent and children, keep their flags.
func (s *Store) SetSelected(docID, sectionID string, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docID]
	if !ok {
		return ErrNotFound
	}
	if !doc.Sections.SetSelected(sectionID, selected) {
		return ErrSectionNotFound
	}
	return nil
}

// SetAllSelected sets every section of a document and returns the new counts.
func (s *Store) SetAllSelected(docID string, selected bool) (doctree.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docID]
	if !ok {
		return doctree.Counts{}, ErrNotFound
	}
	doc.Sections.SetAllSelected(selected)
	return doctree.CountSelected(doc.Sections), nil
}

// Context assembles the selected sections of a document.
func (s *Store) Context(docID string) (Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[docID]
	if !ok {
		return Context{}, ErrNotFound
	}
	return Context{
		DocID:  doc.ID,
		Title:  doc.Title,
		Text:   doctree.Collect(doc.Sections),
		Counts: doctree.CountSelected(doc.Sections),
		Stats:  doctree.ContentStats(doc.Sections, true),
	}, nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
