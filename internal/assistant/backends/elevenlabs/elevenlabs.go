// Package elevenlabs implements text-to-speech against the ElevenLabs REST
// API. Output is MP3, which browsers play directly from a base64 data URL.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alinavoice/alina/internal/assistant/backends/restutil"
	"github.com/alinavoice/alina/internal/assistant/engine"
	"github.com/alinavoice/alina/internal/assistant/registry"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	defaultModel   = "eleven_multilingual_v2"
	defaultVoice   = "21m00Tcm4TlvDq8ikWAM" // Rachel
	defaultTimeout = 45 * time.Second
)

func init() {
	registry.TTS.Register("elevenlabs", func(config map[string]string) (engine.Synthesizer, error) {
		apiKey := config["elevenlabs_api_key"]
		if apiKey == "" {
			apiKey = config["api_key"]
		}
		if apiKey == "" {
			return nil, fmt.Errorf("elevenlabs API key required (set elevenlabs_api_key in config)")
		}
		model := config["elevenlabs_model"]
		if model == "" {
			model = defaultModel
		}
		voice := config["elevenlabs_voice"]
		if voice == "" {
			voice = defaultVoice
		}
		baseURL := config["elevenlabs_base_url"]
		if baseURL == "" {
			baseURL = defaultBaseURL
		}
		s := &Synthesizer{apiKey: apiKey, model: model, voice: voice, baseURL: baseURL, timeout: defaultTimeout}
		if v := config["tts_timeout_sec"]; v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				s.timeout = time.Duration(secs) * time.Second
			}
		}
		return s, nil
	})
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesizer implements engine.Synthesizer using the ElevenLabs REST API.
type Synthesizer struct {
	apiKey  string
	model   string
	voice   string
	baseURL string
	timeout time.Duration
}

func (e *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	apiURL := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128", e.baseURL, e.voice)

	headers := map[string]string{
		"xi-api-key":   e.apiKey,
		"Accept":       "audio/mpeg",
		"Content-Type": "application/json",
	}

	req := speechRequest{
		Text:    text,
		ModelID: e.model,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body, err := restutil.DoRaw(ctx, "POST", apiURL, headers, marshalJSON(req))
	if err != nil {
		return nil, "", fmt.Errorf("elevenlabs TTS: %w", err)
	}
	defer body.Close()

	audio, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("elevenlabs TTS read: %w", err)
	}
	return audio, "audio/mpeg", nil
}

func (e *Synthesizer) Close() error {
	return nil
}

func marshalJSON(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}
