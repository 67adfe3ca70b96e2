package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kamusis/shellsage/internal/fixes"
	"github.com/kamusis/shellsage/internal/index"
	"github.com/kamusis/shellsage/internal/suggest"
)

type errorResponse struct {
	Success bool             `json:"success"`
	Error   *suggest.Failure `json:"error"`
}

type fixRequest struct {
	ErrorMessage string `json:"error_message"`
	LastCommand  string `json:"last_command,omitempty"`
}

type fixResponse struct {
	Success      bool          `json:"success"`
	Fixes        []fixes.Match `json:"fixes"`
	QuickFix     *string       `json:"quick_fix"`
	ErrorMessage string        `json:"error_message"`
}

type commandsRequest struct {
	Commands []string `json:"commands"`
}

type indexResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Stats   index.Stats `json:"stats"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": serviceName,
		"version": s.version,
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"stats":  s.svc.Engine.Stats(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Engine.Stats())
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggest.Request
	if !s.decode(w, r, &req) {
		return
	}
	if req.Query == "" {
		s.fail(w, r, &suggest.Failure{Kind: suggest.KindInput, Message: "query is required"})
		return
	}
	resp := s.svc.Engine.Suggest(r.Context(), req)
	if !resp.Success {
		s.logFailure(r, resp.Error)
		writeJSON(w, statusFor(resp.Error.Kind), resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFixError(w http.ResponseWriter, r *http.Request) {
	var req fixRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ErrorMessage == "" {
		s.fail(w, r, &suggest.Failure{Kind: suggest.KindInput, Message: "error_message is required"})
		return
	}
	matches := s.svc.Fixer.FindFixes(req.ErrorMessage, req.LastCommand)
	resp := fixResponse{
		Success:      true,
		Fixes:        matches,
		ErrorMessage: req.ErrorMessage,
	}
	if qf, ok := fixes.QuickFixFrom(matches); ok {
		resp.QuickFix = &qf
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRebuildIndex(w http.ResponseWriter, r *http.Request) {
	var req commandsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.svc.Index.Build(r.Context(), req.Commands); err != nil {
		s.fail(w, r, suggest.NewFailure(err))
		return
	}
	if err := s.svc.Index.Save(); err != nil {
		s.fail(w, r, suggest.NewFailure(err))
		return
	}
	writeJSON(w, http.StatusOK, indexResponse{
		Success: true,
		Message: "Index rebuilt successfully",
		Stats:   s.svc.Index.Stats(),
	})
}

func (s *Server) handleAddCommands(w http.ResponseWriter, r *http.Request) {
	var req commandsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.svc.Index.Add(r.Context(), req.Commands); err != nil {
		s.fail(w, r, suggest.NewFailure(err))
		return
	}
	if len(req.Commands) > 0 {
		if err := s.svc.Index.Save(); err != nil {
			s.fail(w, r, suggest.NewFailure(err))
			return
		}
	}
	writeJSON(w, http.StatusOK, indexResponse{Success: true, Stats: s.svc.Index.Stats()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		msg := "invalid JSON body: " + err.Error()
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			msg = "request body too large"
		}
		s.fail(w, r, &suggest.Failure{Kind: suggest.KindInput, Message: msg})
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, f *suggest.Failure) {
	s.logFailure(r, f)
	writeJSON(w, statusFor(f.Kind), errorResponse{Success: false, Error: f})
}

// logFailure records the full cause of server-side failures. Only the
// failure's public message reaches the client.
func (s *Server) logFailure(r *http.Request, f *suggest.Failure) {
	if statusFor(f.Kind) < http.StatusInternalServerError {
		return
	}
	s.log.Error("request failed",
		zap.String("request_id", requestID(r.Context())),
		zap.String("kind", string(f.Kind)),
		zap.String("message", f.Message),
		zap.Error(f.Unwrap()))
}

func statusFor(k suggest.Kind) int {
	switch k {
	case suggest.KindInput:
		return http.StatusBadRequest
	case suggest.KindState:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
