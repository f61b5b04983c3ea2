package pipeline

import "github.com/alinavoice/alina/pkg/conversation"

// Timings records per-stage wall-clock durations in milliseconds.
type Timings struct {
	TranscribeMs int64 `json:"stt_ms"`
	GenerateMs   int64 `json:"llm_ms"`
	SynthesizeMs int64 `json:"tts_ms"`
	TotalMs      int64 `json:"total_ms"`
}

// Result is the outcome of one pipeline run. Produced exactly once per run
// and never mutated afterwards. A cancelled run is a valid result with
// Cancelled set and whatever fields the run produced before the boundary
// where cancellation was observed.
type Result struct {
	SessionID  string
	Transcript string
	Reply      string
	Audio      []byte
	AudioMime  string
	Cancelled  bool
	History    []conversation.Turn
	Timings    Timings
}
