// Package server implements the upload/session HTTP API serving PLY scenes
// to the browser viewer. Sessions are held in memory for the life of the
// process; the model-inference backend producing PLY files from images is
// an external collaborator reached over HTTP when configured.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splatworks/splatview/diag"
	"github.com/splatworks/splatview/ply"
)

type session struct {
	data     []byte
	vertices int
	created  time.Time
}

type Server struct {
	cfg Config
	lg  diag.Logger

	client *http.Client

	mu       sync.Mutex
	sessions map[string]*session
}

func New(cfg Config, lg diag.Logger) *Server {
	if lg == nil {
		lg = diag.Discard
	}
	return &Server{
		cfg:      cfg,
		lg:       lg,
		client:   &http.Client{Timeout: 5 * time.Minute},
		sessions: make(map[string]*session),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/check", s.handleCheck)
	mux.HandleFunc("/api/upload", s.handleUpload)
	mux.HandleFunc("/api/ply/", s.handlePLY)
	mux.Handle("/", &noCache{Handler: http.FileServer(http.Dir(s.cfg.StaticDir))})
	return mux
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := len(s.sessions)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"predictor_available": s.cfg.PredictorURL != "",
		"sessions":            n,
	})
}

// handleUpload accepts a PLY payload directly, or forwards any other
// payload to the configured predictor and stores the PLY it returns. The
// stored bytes are header-validated so a broken upload fails here rather
// than in every viewer that fetches it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	body, err := readUpload(r, s.cfg.MaxUploadBytes)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !isPLY(body) {
		if s.cfg.PredictorURL == "" {
			httpError(w, http.StatusUnprocessableEntity, "not a PLY file and no predictor configured")
			return
		}
		body, err = s.predict(body)
		if err != nil {
			s.lg.Errorf("predictor: %v", err)
			httpError(w, http.StatusBadGateway, "prediction failed")
			return
		}
	}

	h, err := ply.ParseHeader(body, s.lg)
	if err != nil {
		httpError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid PLY: %v", err))
		return
	}

	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = &session{data: body, vertices: h.VertexCount, created: time.Now()}
	s.mu.Unlock()
	s.lg.Infof("session %s: %d declared vertices, %d bytes", id, h.VertexCount, len(body))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"vertices":   h.VertexCount,
		"ply_path":   "/api/ply/" + id,
	})
}

func (s *Server) handlePLY(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/ply/")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		httpError(w, http.StatusNotFound, "session not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "gaussians_"+id+".ply"))
	w.Write(sess.data)
}

func (s *Server) predict(image []byte) ([]byte, error) {
	resp, err := s.client.Post(s.cfg.PredictorURL, "application/octet-stream", bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predictor returned %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<30))
}

func readUpload(r *http.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(limit); err != nil {
			return nil, fmt.Errorf("bad multipart form: %w", err)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing file field: %w", err)
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, limit))
	}
	return io.ReadAll(io.LimitReader(r.Body, limit))
}

func isPLY(b []byte) bool {
	return bytes.HasPrefix(b, []byte("ply\n")) || bytes.HasPrefix(b, []byte("ply\r\n"))
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]interface{}{"detail": msg})
}

type noCache struct {
	http.Handler
}

func (h *noCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	h.Handler.ServeHTTP(w, r)
}
