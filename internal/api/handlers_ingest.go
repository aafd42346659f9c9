package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

var errTooLarge = errors.New("file exceeds max size")

// formOverhead is the allowance above MaxUploadBytes for multipart framing.
const formOverhead = 1 << 20

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+formOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := s.readUpload(file)
	if err != nil {
		uploadError(w, err, s.cfg.MaxUploadBytes)
		return
	}

	job := s.newJob(filename, data, r.FormValue("doc_id"))
	job.Title = r.FormValue("title")
	job.Force = r.FormValue("force") == "true"

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, jobAccepted(job))
}

func (s *Server) handleIngestStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleBatchIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*formOverhead)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	force := r.FormValue("force") == "true"

	results := make([]map[string]any, 0, len(files))
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		fail := func(msg string) {
			results = append(results, map[string]any{"filename": filename, "error": msg})
		}

		if !parser.IsSupportedExtension(filename) {
			fail(fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)))
			continue
		}
		data, err := s.readFileHeader(fh)
		if err != nil {
			fail(err.Error())
			continue
		}

		job := s.newJob(filename, data, "")
		job.Force = force
		if err := s.orchestrator.Submit(job); err != nil {
			fail(err.Error())
			continue
		}

		res := jobAccepted(job)
		res["filename"] = filename
		results = append(results, res)
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"jobs": results})
}

// handleOutline extracts an outline synchronously without storing it.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+formOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	data, err := s.readUpload(file)
	if err != nil {
		uploadError(w, err, s.cfg.MaxUploadBytes)
		return
	}

	opts := s.cfg.OutlineOptions(s.log.With("filename", filename))
	if v := r.FormValue("selected"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.DefaultSelected = b
		}
	}

	start := time.Now()
	out, err := pipeline.Outline(bytes.NewReader(data), filename, s.cfg.ParserOptions(), opts)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.orchestrator.Stats().Record(time.Since(start), string(out.Result.Strategy))

	title := out.Source.Title
	if t := r.FormValue("title"); t != "" {
		title = t
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"title":    title,
		"filename": filename,
		"format":   out.Source.Format,
		"strategy": out.Result.Strategy,
		"counts":   doctree.CountSelected(out.Result.Tree),
		"sections": out.Result.Tree,
	})
}

func (s *Server) newJob(filename string, data []byte, docID string) *pipeline.Job {
	if docID == "" {
		docID = pipeline.NewDocumentID()
	}
	now := time.Now()
	job := &pipeline.Job{
		ID:        pipeline.ContentHashHex(fmt.Appendf(nil, "%s-%s-%d", docID, filename, now.UnixNano()))[:20],
		DocID:     docID,
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)
	return job
}

func jobAccepted(job *pipeline.Job) map[string]any {
	snap := job.Snapshot()
	return map[string]any{
		"job_id":   snap.ID,
		"doc_id":   snap.DocID,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/ingest/%s/status", snap.ID),
	}
}

func (s *Server) readUpload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, errTooLarge
	}
	return data, nil
}

func (s *Server) readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return s.readUpload(f)
}

func uploadError(w http.ResponseWriter, err error, limit int64) {
	if errors.Is(err, errTooLarge) {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", limit), http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, "failed to read file", http.StatusInternalServerError)
}

// sanitizeFilename keeps only the base name of an uploaded file.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
