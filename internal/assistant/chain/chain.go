// Package chain assembles registered backends into ordered fallback chains,
// one per capability. The pipeline sees a single Transcriber, Replier, and
// Synthesizer; provider selection, fallback, and circuit breaking live here,
// configured once at startup instead of scattered across call sites.
package chain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alinavoice/alina/internal/assistant/engine"
	"github.com/alinavoice/alina/internal/assistant/registry"
	"github.com/alinavoice/alina/pkg/conversation"
)

// link pairs a named backend with its breaker.
type link[T any] struct {
	name    string
	backend T
	breaker *breaker
}

func buildLinks[T any](reg *registry.Registry[T], names []string, config map[string]string, bcfg BreakerConfig) ([]link[T], error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no backends configured")
	}
	links := make([]link[T], 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		backend, err := reg.Create(name, config)
		if err != nil {
			return nil, fmt.Errorf("create backend %q: %w", name, err)
		}
		links = append(links, link[T]{name: name, backend: backend, breaker: newBreaker(bcfg)})
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("no backends configured")
	}
	return links, nil
}

// run walks the chain in order, skipping open breakers, returning the first
// success. Every attempted failure is recorded against its breaker.
func run[T, R any](ctx context.Context, links []link[T], call func(context.Context, T) (R, error)) (R, error) {
	var zero R
	var lastErr error
	skipped := 0

	for _, l := range links {
		if !l.breaker.allow() {
			skipped++
			continue
		}
		res, err := call(ctx, l.backend)
		if err == nil {
			l.breaker.success()
			return res, nil
		}
		l.breaker.failure()
		lastErr = fmt.Errorf("%s: %w", l.name, err)
		slog.WarnContext(ctx, "backend failed, trying next in chain",
			slog.String("backend", l.name),
			slog.String("error", err.Error()),
		)

		// A cancelled or timed-out request fails the same way on every
		// backend; stop instead of burning the rest of the chain.
		if ctx.Err() != nil {
			break
		}
	}

	if lastErr == nil {
		return zero, fmt.Errorf("all %d backends unavailable (circuit open)", skipped)
	}
	return zero, lastErr
}

// Transcriber is an ordered fallback chain of STT backends.
type Transcriber struct {
	links []link[engine.Transcriber]
}

// NewTranscriber builds an STT chain from backend names (in priority order).
func NewTranscriber(names []string, config map[string]string, bcfg BreakerConfig) (*Transcriber, error) {
	links, err := buildLinks(registry.STT, names, config, bcfg)
	if err != nil {
		return nil, fmt.Errorf("STT chain: %w", err)
	}
	return &Transcriber{links: links}, nil
}

func (c *Transcriber) Transcribe(ctx context.Context, audio []byte, language, mimeType string) (string, error) {
	return run(ctx, c.links, func(ctx context.Context, t engine.Transcriber) (string, error) {
		return t.Transcribe(ctx, audio, language, mimeType)
	})
}

func (c *Transcriber) Close() error {
	return closeAll(c.links)
}

// Replier is an ordered fallback chain of LLM backends.
type Replier struct {
	links []link[engine.Replier]
}

// NewReplier builds an LLM chain from backend names (in priority order).
func NewReplier(names []string, config map[string]string, bcfg BreakerConfig) (*Replier, error) {
	links, err := buildLinks(registry.LLM, names, config, bcfg)
	if err != nil {
		return nil, fmt.Errorf("LLM chain: %w", err)
	}
	return &Replier{links: links}, nil
}

func (c *Replier) Reply(ctx context.Context, turns []conversation.Turn) (string, error) {
	return run(ctx, c.links, func(ctx context.Context, r engine.Replier) (string, error) {
		return r.Reply(ctx, turns)
	})
}

func (c *Replier) Close() error {
	return closeAll(c.links)
}

// Synthesizer is an ordered fallback chain of TTS backends.
type Synthesizer struct {
	links []link[engine.Synthesizer]
}

// NewSynthesizer builds a TTS chain from backend names (in priority order).
func NewSynthesizer(names []string, config map[string]string, bcfg BreakerConfig) (*Synthesizer, error) {
	links, err := buildLinks(registry.TTS, names, config, bcfg)
	if err != nil {
		return nil, fmt.Errorf("TTS chain: %w", err)
	}
	return &Synthesizer{links: links}, nil
}

type synthResult struct {
	audio []byte
	mime  string
}

func (c *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	res, err := run(ctx, c.links, func(ctx context.Context, s engine.Synthesizer) (synthResult, error) {
		audio, mime, err := s.Synthesize(ctx, text)
		return synthResult{audio: audio, mime: mime}, err
	})
	if err != nil {
		return nil, "", err
	}
	return res.audio, res.mime, nil
}

func (c *Synthesizer) Close() error {
	return closeAll(c.links)
}

type closer interface {
	Close() error
}

func closeAll[T any](links []link[T]) error {
	var firstErr error
	for _, l := range links {
		if c, ok := any(l.backend).(closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
