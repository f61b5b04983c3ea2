// Package pipeline drives the transcribe → generate → synthesize sequence
// for one utterance within a session, with cooperative cancellation checked
// at each stage boundary.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alinavoice/alina/internal/assistant/engine"
	"github.com/alinavoice/alina/internal/session"
	"github.com/alinavoice/alina/pkg/conversation"
	"github.com/alinavoice/alina/pkg/events"
	"github.com/alinavoice/alina/pkg/persona"
)

// Orchestrator runs the three-stage pipeline per session. Adapters are
// opaque black boxes: cancellation is only observed between them, which
// bounds the reaction latency to at most one in-flight adapter call and
// never leaves an adapter in a half-finished state.
type Orchestrator struct {
	stt      engine.Transcriber
	llm      engine.Replier
	tts      engine.Synthesizer
	store    *session.Store
	personas *persona.Set
	maxTurns int
	pub      *events.Publisher
}

// New creates an orchestrator. pub may be nil to disable event emission.
func New(stt engine.Transcriber, llm engine.Replier, tts engine.Synthesizer,
	store *session.Store, personas *persona.Set, maxTurns int, pub *events.Publisher) *Orchestrator {
	if maxTurns <= 0 {
		maxTurns = 6
	}
	return &Orchestrator{
		stt:      stt,
		llm:      llm,
		tts:      tts,
		store:    store,
		personas: personas,
		maxTurns: maxTurns,
		pub:      pub,
	}
}

// Run executes one pipeline run for the given session. audio must be
// non-empty; the boundary layer rejects empty uploads before any session
// work. A cancelled run returns a Result with Cancelled set, not an error.
//
// History is committed as one user/assistant pair after reply generation
// and before synthesis, so a failed synthesis keeps the pair. When
// cancellation is observed after generation the reply is still returned for
// observability but nothing is committed. Once the pair is committed the
// audio is synthesized even if a cancel lands during synthesis; the reply
// is already part of the conversation at that point.
func (o *Orchestrator) Run(ctx context.Context, sessionID string, audio []byte, lang, mimeType string) (*Result, error) {
	p := o.personas.Get(lang)
	sess, id := o.store.Resolve(sessionID)
	handle := sess.BeginRun()
	defer sess.EndRun(handle)

	res := &Result{SessionID: id}
	start := time.Now()
	o.emit(ctx, events.RunStarted, id, events.RunStartedData{Lang: p.Mode, AudioBytes: len(audio)})

	// Transcribe.
	transcript, err := o.stt.Transcribe(ctx, audio, p.Mode, mimeType)
	if err != nil {
		o.fail(ctx, id, StageTranscribe, err)
		return nil, &StageError{Stage: StageTranscribe, Err: err}
	}
	transcript = strings.TrimSpace(transcript)
	res.Transcript = transcript
	res.Timings.TranscribeMs = time.Since(start).Milliseconds()
	o.emit(ctx, events.TranscriptFinal, id, events.TranscriptData{
		Transcript: transcript, DurationMs: res.Timings.TranscribeMs,
	})

	// Silence short-circuits: nothing to ask the model about.
	if transcript == "" {
		res.History = sess.History()
		res.Timings.TotalMs = time.Since(start).Milliseconds()
		return res, nil
	}

	if handle.Signalled() {
		return o.cancelled(ctx, sess, res, StageTranscribe, start), nil
	}

	// Generate. The user turn stays provisional until the reply arrives:
	// committing it alone would break role alternation if the run dies here.
	genStart := time.Now()
	prompt := conversation.BuildPrompt(p.SystemPrompt, sess.History(), transcript, o.maxTurns)
	reply, err := o.llm.Reply(ctx, prompt)
	if err != nil {
		o.fail(ctx, id, StageGenerate, err)
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}
	reply = strings.TrimSpace(reply)
	res.Reply = reply
	res.Timings.GenerateMs = time.Since(genStart).Milliseconds()
	o.emit(ctx, events.ReplyGenerated, id, events.ReplyData{
		Reply: reply, DurationMs: res.Timings.GenerateMs,
	})

	if handle.Signalled() {
		res.History = sess.History()
		return o.cancelled(ctx, sess, res, StageGenerate, start), nil
	}

	// Commit both turns before synthesis: a TTS failure must not lose the
	// exchange the user already paid for.
	sess.AppendPair(transcript, reply, o.maxTurns)
	res.History = sess.History()

	// Synthesize.
	ttsStart := time.Now()
	audioOut, mime, err := o.tts.Synthesize(ctx, reply)
	if err != nil {
		o.fail(ctx, id, StageSynthesize, err)
		return nil, &StageError{Stage: StageSynthesize, Err: err}
	}
	res.Audio = audioOut
	res.AudioMime = mime
	res.Timings.SynthesizeMs = time.Since(ttsStart).Milliseconds()
	res.Timings.TotalMs = time.Since(start).Milliseconds()
	o.emit(ctx, events.SynthesisCompleted, id, events.SynthesisData{
		AudioBytes: len(audioOut), MimeType: mime, DurationMs: res.Timings.SynthesizeMs,
	})

	slog.DebugContext(ctx, "pipeline run complete",
		slog.String("session_id", id),
		slog.Int64("total_ms", res.Timings.TotalMs),
	)
	return res, nil
}

// cancelled finalizes a result at a cancellation boundary. Nothing is
// committed to history; the partial fields already on res are returned for
// observability.
func (o *Orchestrator) cancelled(ctx context.Context, sess *session.Session, res *Result, stage string, start time.Time) *Result {
	res.Cancelled = true
	if res.History == nil {
		res.History = sess.History()
	}
	res.Timings.TotalMs = time.Since(start).Milliseconds()
	o.emit(ctx, events.RunCancelled, res.SessionID, events.RunCancelledData{Stage: stage})
	slog.InfoContext(ctx, "pipeline run cancelled",
		slog.String("session_id", res.SessionID),
		slog.String("stage", stage),
	)
	return res
}

func (o *Orchestrator) fail(ctx context.Context, sessionID, stage string, err error) {
	o.emit(ctx, events.RunFailed, sessionID, events.RunFailedData{Stage: stage, Error: err.Error()})
	slog.ErrorContext(ctx, "pipeline stage failed",
		slog.String("session_id", sessionID),
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	)
}

func (o *Orchestrator) emit(ctx context.Context, t events.EventType, sessionID string, data any) {
	if o.pub == nil {
		return
	}
	if err := o.pub.Emit(ctx, t, sessionID, data); err != nil {
		slog.WarnContext(ctx, "event emit failed",
			slog.String("event_type", string(t)),
			slog.String("error", err.Error()),
		)
	}
}
