// Package openai provides three backends over the OpenAI API: chat-based
// reply generation, Whisper transcription, and speech synthesis. The latter
// two serve as fallbacks behind the primary Deepgram/ElevenLabs chain.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alinavoice/alina/internal/assistant/engine"
	"github.com/alinavoice/alina/internal/assistant/registry"
	"github.com/alinavoice/alina/pkg/conversation"
)

const (
	defaultChatModel = "gpt-4o-mini"

	// Voice replies should stay short and steady; these mirror the tuning
	// the assistant ships with.
	defaultTemperature = 0.3
	defaultMaxTokens   = 220

	defaultTimeout = 30 * time.Second
)

func newClient(config map[string]string) (*openai.Client, error) {
	apiKey := config["openai_api_key"]
	if apiKey == "" {
		apiKey = config["api_key"]
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key required (set openai_api_key in config)")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := config["openai_base_url"]; baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg), nil
}

func timeoutFrom(config map[string]string, key string) time.Duration {
	if v := config[key]; v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultTimeout
}

func init() {
	registry.LLM.Register("openai", func(config map[string]string) (engine.Replier, error) {
		client, err := newClient(config)
		if err != nil {
			return nil, err
		}
		model := config["openai_model"]
		if model == "" {
			model = defaultChatModel
		}
		return &Replier{
			client:      client,
			model:       model,
			temperature: defaultTemperature,
			maxTokens:   defaultMaxTokens,
			timeout:     timeoutFrom(config, "llm_timeout_sec"),
		}, nil
	})

	registry.STT.Register("openai", func(config map[string]string) (engine.Transcriber, error) {
		client, err := newClient(config)
		if err != nil {
			return nil, err
		}
		model := config["whisper_model"]
		if model == "" {
			model = openai.Whisper1
		}
		return &Transcriber{
			client:  client,
			model:   model,
			timeout: timeoutFrom(config, "stt_timeout_sec"),
		}, nil
	})

	registry.TTS.Register("openai", func(config map[string]string) (engine.Synthesizer, error) {
		client, err := newClient(config)
		if err != nil {
			return nil, err
		}
		voice := config["openai_voice"]
		if voice == "" {
			voice = string(openai.VoiceAlloy)
		}
		return &Synthesizer{
			client:  client,
			model:   openai.TTSModel1,
			voice:   voice,
			timeout: timeoutFrom(config, "tts_timeout_sec"),
		}, nil
	})
}

// --- LLM ---

// Replier implements engine.Replier via OpenAI chat completions.
type Replier struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

func (r *Replier) Reply(ctx context.Context, turns []conversation.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		messages[i] = openai.ChatCompletionMessage{
			Role:    string(t.Role),
			Content: t.Text,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Messages:    messages,
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (r *Replier) Close() error {
	return nil
}

// --- STT ---

// Transcriber implements engine.Transcriber via Whisper.
type Transcriber struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, language, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		Language: language,
		Format:   openai.AudioResponseFormatJSON,
		Reader:   bytes.NewReader(audio),
		// The API infers the container from the filename extension.
		FilePath: filenameFor(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}
	return resp.Text, nil
}

func (t *Transcriber) Close() error {
	return nil
}

func filenameFor(mimeType string) string {
	switch mimeType {
	case "audio/webm":
		return "audio.webm"
	case "audio/mpeg", "audio/mp3":
		return "audio.mp3"
	case "audio/mp4", "audio/m4a":
		return "audio.m4a"
	case "audio/ogg":
		return "audio.ogg"
	default:
		return "audio.wav"
	}
}

// --- TTS ---

// Synthesizer implements engine.Synthesizer via the OpenAI speech API.
type Synthesizer struct {
	client  *openai.Client
	model   openai.SpeechModel
	voice   string
	timeout time.Duration
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, "", fmt.Errorf("openai TTS: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, "", fmt.Errorf("openai TTS read: %w", err)
	}
	return audio, "audio/mpeg", nil
}

func (s *Synthesizer) Close() error {
	return nil
}
