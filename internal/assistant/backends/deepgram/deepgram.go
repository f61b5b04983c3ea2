// Package deepgram implements speech-to-text against the Deepgram
// prerecorded REST API.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alinavoice/alina/internal/assistant/backends/restutil"
	"github.com/alinavoice/alina/internal/assistant/engine"
	"github.com/alinavoice/alina/internal/assistant/registry"
)

const (
	defaultBaseURL  = "https://api.deepgram.com"
	defaultModel    = "nova-2"
	defaultTimeout  = 45 * time.Second
	defaultMaxBytes = 25_000_000
)

func init() {
	registry.STT.Register("deepgram", func(config map[string]string) (engine.Transcriber, error) {
		apiKey := config["deepgram_api_key"]
		if apiKey == "" {
			apiKey = config["api_key"]
		}
		if apiKey == "" {
			return nil, fmt.Errorf("deepgram API key required (set deepgram_api_key in config)")
		}
		model := config["deepgram_model"]
		if model == "" {
			model = defaultModel
		}
		baseURL := config["deepgram_base_url"]
		if baseURL == "" {
			baseURL = defaultBaseURL
		}
		t := &Transcriber{
			apiKey:   apiKey,
			model:    model,
			baseURL:  baseURL,
			timeout:  defaultTimeout,
			maxBytes: defaultMaxBytes,
		}
		if v := config["stt_timeout_sec"]; v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				t.timeout = time.Duration(secs) * time.Second
			}
		}
		if v := config["stt_max_bytes"]; v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				t.maxBytes = n
			}
		}
		return t, nil
	})
}

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float32 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcriber implements engine.Transcriber using the Deepgram REST API.
type Transcriber struct {
	apiKey   string
	model    string
	baseURL  string
	timeout  time.Duration
	maxBytes int
}

func (d *Transcriber) Transcribe(ctx context.Context, audio []byte, language, mimeType string) (string, error) {
	if len(audio) > d.maxBytes {
		return "", fmt.Errorf("audio too large: %d bytes > %d", len(audio), d.maxBytes)
	}

	params := url.Values{}
	params.Set("model", d.model)
	params.Set("language", normalizeLanguage(language))
	params.Set("smart_format", "true")
	params.Set("punctuate", "true")
	apiURL := d.baseURL + "/v1/listen?" + params.Encode()

	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	headers := map[string]string{
		"Authorization": "Token " + d.apiKey,
		"Content-Type":  mimeType,
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	body, err := restutil.DoRaw(ctx, "POST", apiURL, headers, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("deepgram API: %w", err)
	}
	defer body.Close()

	var resp listenResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return "", fmt.Errorf("deepgram decode: %w", err)
	}

	// An empty transcript is a valid result (silence), not an error.
	if len(resp.Results.Channels) > 0 && len(resp.Results.Channels[0].Alternatives) > 0 {
		return resp.Results.Channels[0].Alternatives[0].Transcript, nil
	}
	return "", nil
}

func (d *Transcriber) Close() error {
	return nil
}

// normalizeLanguage maps assistant modes and regional variants to the
// language codes Deepgram expects.
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "", "ru", "ru-ru":
		return "ru"
	case "en", "en-us", "en-gb":
		return "en"
	case "th", "th-th":
		return "th"
	}
	return lang
}
