package events

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of event flowing through the system.
type EventType string

const (
	RunStarted         EventType = "run.started"
	TranscriptFinal    EventType = "transcript.final"
	ReplyGenerated     EventType = "reply.generated"
	SynthesisCompleted EventType = "synthesis.completed"
	RunCancelled       EventType = "run.cancelled"
	RunFailed          EventType = "run.failed"
)

// Envelope is the standard event wrapper published to the event bus.
type Envelope struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Source    string          `json:"source"`
	SessionID string          `json:"session_id"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// RunStartedData is the payload for run.started events.
type RunStartedData struct {
	Lang       string `json:"lang"`
	AudioBytes int    `json:"audio_bytes"`
}

// TranscriptData is the payload for transcript.final events.
type TranscriptData struct {
	Transcript string `json:"transcript"`
	DurationMs int64  `json:"duration_ms"`
}

// ReplyData is the payload for reply.generated events.
type ReplyData struct {
	Reply      string `json:"reply"`
	DurationMs int64  `json:"duration_ms"`
}

// SynthesisData is the payload for synthesis.completed events.
type SynthesisData struct {
	AudioBytes int    `json:"audio_bytes"`
	MimeType   string `json:"mime_type"`
	DurationMs int64  `json:"duration_ms"`
}

// RunCancelledData is the payload for run.cancelled events.
type RunCancelledData struct {
	Stage string `json:"stage"`
}

// RunFailedData is the payload for run.failed events.
type RunFailedData struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}
