package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	pool "github.com/libp2p/go-buffer-pool"
	"go.uber.org/zap"

	"mesozoic/internal/diag"
	"mesozoic/internal/diagfmt"
	"mesozoic/internal/driver"
)

// defaultSpecifier names raw-body requests that do not pass ?specifier=.
const defaultSpecifier = "input.ts"

// TranspileResponse is the JSON body of a successful POST /transpile.
type TranspileResponse struct {
	Specifier   string                   `json:"specifier"`
	Code        string                   `json:"code"`
	Map         json.RawMessage          `json:"map,omitempty"`
	Cached      bool                     `json:"cached,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error       string                   `json:"error"`
	Specifier   string                   `json:"specifier,omitempty"`
	State       string                   `json:"state,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	UptimeMS int64  `json:"uptime_ms"`
	Memo     struct {
		Entries int   `json:"entries"`
		Hits    int64 `json:"hits"`
		Misses  int64 `json:"misses"`
	} `json:"memo"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	var resp healthResponse
	resp.Status = "ok"
	resp.Version = s.cfg.Version
	resp.UptimeMS = time.Since(s.started).Milliseconds()
	resp.Memo.Entries = s.memo.Len()
	resp.Memo.Hits, resp.Memo.Misses = s.memo.Stats()
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTranspile(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := applyQuery(s.cfg.Options, q)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	body := pool.NewBuffer(nil)
	defer body.Reset()
	specifier, status, err := s.readSource(w, r, body)
	if err != nil {
		s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
		return
	}
	if specifier == "" {
		specifier = q.Get("specifier")
	}
	if specifier == "" {
		specifier = defaultSpecifier
	}

	began := time.Now()
	out, err := s.memo.Transpile(specifier, body.Bytes(), opts)
	if err != nil {
		s.metrics.observeTranspile(outcomeError, body.Len(), time.Since(began))
		s.log.Error("transpile failed", zap.String("specifier", specifier), zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Specifier: specifier})
		return
	}
	diags := diagfmt.BuildDiagnosticsOutput(out.Diagnostics, out.FileSet, diagfmt.JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
	}).Diagnostics

	s.metrics.observeTranspile(outcomeOf(out), body.Len(), time.Since(began))

	if !out.OK() {
		status := http.StatusUnprocessableEntity
		if out.Err.Kind() == diag.KindConfiguration {
			status = http.StatusBadRequest
		}
		s.writeJSON(w, status, ErrorResponse{
			Error:       out.Err.Kind().String(),
			Specifier:   specifier,
			State:       out.Err.State.String(),
			Diagnostics: diags,
		})
		return
	}

	if q.Get("format") == "js" {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, out.Code)
		return
	}
	s.writeJSON(w, http.StatusOK, TranspileResponse{
		Specifier:   specifier,
		Code:        out.Code,
		Map:         out.Map,
		Cached:      out.Cached,
		Diagnostics: diags,
	})
}

// readSource fills body from a raw request body or from the "file" part of a
// multipart form. It returns the upload's file name when there is one.
func (s *Server) readSource(w http.ResponseWriter, r *http.Request, body *pool.Buffer) (string, int, error) {
	limited := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if _, err := body.ReadFrom(limited); err != nil {
			return "", readStatus(err), fmt.Errorf("failed to read body: %w", err)
		}
		return "", 0, nil
	}

	r.Body = limited
	form, err := r.MultipartReader()
	if err != nil {
		return "", http.StatusBadRequest, errors.New("request is not multipart")
	}
	for {
		part, err := form.NextPart()
		if errors.Is(err, io.EOF) {
			return "", http.StatusBadRequest, errors.New(`expecting "file" field in request`)
		}
		if err != nil {
			return "", readStatus(err), err
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}
		_, err = body.ReadFrom(part)
		_ = part.Close()
		if err != nil {
			return "", readStatus(err), fmt.Errorf("failed to read file from body: %w", err)
		}
		return part.FileName(), 0, nil
	}
}

func outcomeOf(out *driver.FileOutput) string {
	if !out.OK() {
		return outcomeFailed
	}
	return outcomeOK
}

func readStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// writeJSON кодирует v в буфер из пула, чтобы статус не ушёл раньше ошибки кодирования.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	buf := pool.NewBuffer(nil)
	defer buf.Reset()
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Debug("write response", zap.Error(err))
	}
}
