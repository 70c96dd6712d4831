// Package server exposes the detector over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"typoguard/internal/detector"
	"typoguard/internal/document"
	"typoguard/pkg/options"
)

// RuleStore persists custom rules. *customrules.Store satisfies it.
type RuleStore interface {
	Add(ctx context.Context, r detector.Rule) error
	Remove(ctx context.Context, original string) error
	All(ctx context.Context) ([]detector.Rule, error)
}

type Server struct {
	mu  sync.RWMutex
	det *detector.Detector

	// reloadMu orders reloads so a stale snapshot of the store never
	// replaces a newer one.
	reloadMu sync.Mutex

	store     RuleStore
	maxUpload int64
}

// New creates a server scanning the built-in catalog. store may be nil, in
// which case the custom rule endpoints answer 503.
func New(store RuleStore, maxUpload int64) *Server {
	return &Server{det: detector.New(), store: store, maxUpload: maxUpload}
}

// Reload rebuilds the detector from the built-in catalog plus the stored rules.
func (s *Server) Reload(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	rules, err := s.store.All(ctx)
	if err != nil {
		return fmt.Errorf("load custom rules: %w", err)
	}
	d := detector.New(options.WithExtraRules(detector.Specs(rules)...))
	s.mu.Lock()
	s.det = d
	s.mu.Unlock()
	log.Printf("loaded %d custom rules", len(rules))
	return nil
}

func (s *Server) current() *detector.Detector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.det
}

// Handler returns the API routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/check", s.handleCheck)
	mux.HandleFunc("/api/v1/upload", s.handleUpload)
	mux.HandleFunc("/api/v1/rules", s.handleRules)
	mux.HandleFunc("/api/v1/custom-rule", s.handleAddRule)
	mux.HandleFunc("/api/v1/custom-rule/", s.handleRemoveRule)
	return logRequests(mux)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"errors": s.current().Scan(req.Text),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if r.ContentLength > s.maxUpload {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "没有文件上传"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("upload %s: %v", hdr.Filename, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	doc, err := document.Parse(hdr.Filename, data)
	switch {
	case errors.Is(err, document.ErrUnsupported):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "不支持的文件类型"})
		return
	case errors.Is(err, document.ErrInvalidText):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case err != nil:
		log.Printf("upload %s: %v", hdr.Filename, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"fileName":    hdr.Filename,
		"content":     doc.Content,
		"format":      doc.Format,
		"textContent": doc.TextContent,
		"errors":      s.current().Scan(doc.TextContent),
	})
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.current().Rules())
}

func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "custom rules are not configured"})
		return
	}
	var req struct {
		Original  string `json:"original"`
		Corrected string `json:"corrected"`
		Type      string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		strings.TrimSpace(req.Original) == "" || strings.TrimSpace(req.Corrected) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}
	cat, err := detector.ParseCategory(req.Type)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rule := detector.Rule{Original: req.Original, Corrected: req.Corrected, Category: cat}
	if err := s.store.Add(r.Context(), rule); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := s.Reload(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *Server) handleRemoveRule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "custom rules are not configured"})
		return
	}
	original := strings.TrimPrefix(r.URL.Path, "/api/v1/custom-rule/")
	if original == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "original is required"})
		return
	}
	if err := s.store.Remove(r.Context(), original); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := s.Reload(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from := r.Header.Get("X-Forwarded-For")
		if from == "" {
			from = r.RemoteAddr
		}
		log.Printf("%s %s from %s", r.Method, r.URL.Path, from)
		next.ServeHTTP(w, r)
	})
}
