package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alinavoice/alina/internal/assistant/registry"
)

func TestSynthesize(t *testing.T) {
	var gotPath, gotKey string
	var gotReq speechRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	s, err := registry.TTS.Create("elevenlabs", map[string]string{
		"elevenlabs_api_key":  "el-test-key",
		"elevenlabs_base_url": server.URL,
		"elevenlabs_voice":    "voice-1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	audio, mime, err := s.Synthesize(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q", audio)
	}
	if mime != "audio/mpeg" {
		t.Errorf("mime = %q, want audio/mpeg", mime)
	}
	if !strings.HasSuffix(gotPath, "/v1/text-to-speech/voice-1") {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "el-test-key" {
		t.Errorf("xi-api-key = %q", gotKey)
	}
	if gotReq.Text != "hello there" {
		t.Errorf("request text = %q", gotReq.Text)
	}
	if gotReq.ModelID != defaultModel {
		t.Errorf("model = %q, want %q", gotReq.ModelID, defaultModel)
	}
}

func TestSynthesizeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	s, err := registry.TTS.Create("elevenlabs", map[string]string{
		"elevenlabs_api_key":  "k",
		"elevenlabs_base_url": server.URL,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := s.Synthesize(context.Background(), "x"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	if _, err := registry.TTS.Create("elevenlabs", map[string]string{}); err == nil {
		t.Fatal("expected error without an API key")
	}
}

func TestFactoryDefaults(t *testing.T) {
	s, err := registry.TTS.Create("elevenlabs", map[string]string{"elevenlabs_api_key": "k"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	syn := s.(*Synthesizer)
	if syn.model != defaultModel || syn.voice != defaultVoice || syn.baseURL != defaultBaseURL {
		t.Errorf("defaults = %q/%q/%q", syn.model, syn.voice, syn.baseURL)
	}
	if syn.timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", syn.timeout, defaultTimeout)
	}
}

func TestFactoryTimeoutFromConfig(t *testing.T) {
	s, err := registry.TTS.Create("elevenlabs", map[string]string{
		"elevenlabs_api_key": "k",
		"tts_timeout_sec":    "7",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := s.(*Synthesizer).timeout; got != 7*time.Second {
		t.Errorf("timeout = %v, want 7s", got)
	}
}
