// Package handler exposes the assistant over HTTP: multipart voice uploads,
// explicit cancellation, persona introspection, and liveness.
package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/alinavoice/alina/internal/assistant/pipeline"
	"github.com/alinavoice/alina/internal/session"
	"github.com/alinavoice/alina/pkg/conversation"
	"github.com/alinavoice/alina/pkg/persona"
)

// VoiceHandler serves the assistant's HTTP surface.
type VoiceHandler struct {
	orc            *pipeline.Orchestrator
	store          *session.Store
	personas       *persona.Set
	maxUploadBytes int64
}

// NewVoiceHandler creates the handler. maxUploadBytes bounds the multipart
// body size; zero applies a 25MB default.
func NewVoiceHandler(orc *pipeline.Orchestrator, store *session.Store, personas *persona.Set, maxUploadBytes int64) *VoiceHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 25_000_000
	}
	return &VoiceHandler{
		orc:            orc,
		store:          store,
		personas:       personas,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register installs the routes on mux.
func (h *VoiceHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /voice", h.handleVoice)
	mux.HandleFunc("POST /cancel", h.handleCancel)
	mux.HandleFunc("GET /personas", h.handlePersonas)
	mux.HandleFunc("GET /health", h.handleHealth)
}

type voiceResponse struct {
	Transcript  string              `json:"transcript"`
	Answer      string              `json:"answer"`
	AudioBase64 string              `json:"audio_base64"`
	AudioMime   string              `json:"audio_mime,omitempty"`
	History     []conversation.Turn `json:"history"`
	Timings     pipeline.Timings    `json:"timings"`
	SessionID   string              `json:"session_id"`
	Cancelled   bool                `json:"cancelled,omitempty"`
}

type cancelResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

func (h *VoiceHandler) handleVoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	file, fh, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "audio field is required"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reading audio upload"})
		return
	}
	// Rejected before any session or handle work happens.
	if len(audio) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "empty audio"})
		return
	}

	lang := r.FormValue("lang")
	if lang == "" {
		lang = h.personas.DefaultMode()
	}
	sessionID := r.FormValue("session_id")
	mimeType := guessAudioMime(fh.Filename, fh.Header.Get("Content-Type"))

	res, err := h.orc.Run(r.Context(), sessionID, audio, lang, mimeType)
	if err != nil {
		var se *pipeline.StageError
		if errors.As(err, &se) {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "pipeline stage failed", Stage: se.Stage})
			return
		}
		slog.ErrorContext(r.Context(), "voice request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, voiceResponse{
		Transcript:  res.Transcript,
		Answer:      res.Reply,
		AudioBase64: base64.StdEncoding.EncodeToString(res.Audio),
		AudioMime:   res.AudioMime,
		History:     res.History,
		Timings:     res.Timings,
		SessionID:   res.SessionID,
		Cancelled:   res.Cancelled,
	})
}

func (h *VoiceHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form"})
		return
	}
	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "session_id is required"})
		return
	}

	status := "not_found"
	if h.store.Cancel(sessionID) {
		status = "cancelled"
	}
	writeJSON(w, http.StatusOK, cancelResponse{Status: status, SessionID: sessionID})
}

func (h *VoiceHandler) handlePersonas(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default":  h.personas.DefaultMode(),
		"personas": h.personas.All(),
	})
}

func (h *VoiceHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encoding response", slog.String("error", err.Error()))
	}
}

// guessAudioMime picks the best MIME hint for the STT backend: the part's
// own Content-Type when present, otherwise the filename extension.
func guessAudioMime(filename, provided string) string {
	if provided != "" && strings.Contains(provided, "/") && provided != "application/octet-stream" {
		if mt, _, err := mime.ParseMediaType(provided); err == nil {
			return mt
		}
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".webm":
		return "audio/webm"
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	}
	if mt := mime.TypeByExtension(filepath.Ext(filename)); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
