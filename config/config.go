package config

import (
	"strconv"
	"strings"

	"github.com/pitabwire/frame/config"
)

// AssistantConfig holds configuration for the voice assistant service.
type AssistantConfig struct {
	config.ConfigurationDefault

	DefaultLang     string `envDefault:"ru" env:"DEFAULT_LANG"`
	MaxHistoryTurns int    `envDefault:"6"  env:"MAX_HISTORY_TURNS"`

	STTBackends string `envDefault:"deepgram,openai"   env:"STT_BACKENDS"`
	LLMBackends string `envDefault:"openai"            env:"LLM_BACKENDS"`
	TTSBackends string `envDefault:"elevenlabs,openai" env:"TTS_BACKENDS"`

	DeepgramAPIKey   string `envDefault:""                          env:"DEEPGRAM_API_KEY"`
	DeepgramModel    string `envDefault:"nova-2"                    env:"DEEPGRAM_MODEL"`
	ElevenLabsAPIKey string `envDefault:""                          env:"ELEVENLABS_API_KEY"`
	ElevenLabsModel  string `envDefault:"eleven_multilingual_v2"    env:"ELEVENLABS_MODEL"`
	ElevenLabsVoice  string `envDefault:""                          env:"ELEVENLABS_VOICE"`
	OpenAIAPIKey     string `envDefault:""                          env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `envDefault:""                          env:"OPENAI_BASE_URL"`
	OpenAIModel      string `envDefault:"gpt-4o-mini"               env:"OPENAI_MODEL"`

	STTMaxBytes   int `envDefault:"25000000" env:"STT_MAX_BYTES"`
	STTTimeoutSec int `envDefault:"45"       env:"STT_TIMEOUT_SEC"`
	LLMTimeoutSec int `envDefault:"30"       env:"LLM_TIMEOUT_SEC"`
	TTSTimeoutSec int `envDefault:"45"       env:"TTS_TIMEOUT_SEC"`

	SessionIdleTTLSec int `envDefault:"0" env:"SESSION_IDLE_TTL_SEC"`

	PersonaDir string `envDefault:"" env:"PERSONA_DIR"`

	BreakerFailureThreshold int `envDefault:"3"  env:"BREAKER_FAILURE_THRESHOLD"`
	BreakerResetSec         int `envDefault:"30" env:"BREAKER_RESET_SEC"`

	EventsQueueName string `envDefault:"assistant.events"       env:"EVENTS_QUEUE_NAME"`
	EventsQueueURL  string `envDefault:"mem://assistant_events" env:"EVENTS_QUEUE_URL"`
}

// STTBackendList returns the configured STT backend names in priority order.
func (c *AssistantConfig) STTBackendList() []string { return splitList(c.STTBackends) }

// LLMBackendList returns the configured LLM backend names in priority order.
func (c *AssistantConfig) LLMBackendList() []string { return splitList(c.LLMBackends) }

// TTSBackendList returns the configured TTS backend names in priority order.
func (c *AssistantConfig) TTSBackendList() []string { return splitList(c.TTSBackends) }

// BackendConfig flattens the settings into the key/value map backend
// factories consume.
func (c *AssistantConfig) BackendConfig() map[string]string {
	return map[string]string{
		"deepgram_api_key":   c.DeepgramAPIKey,
		"deepgram_model":     c.DeepgramModel,
		"elevenlabs_api_key": c.ElevenLabsAPIKey,
		"elevenlabs_model":   c.ElevenLabsModel,
		"elevenlabs_voice":   c.ElevenLabsVoice,
		"openai_api_key":     c.OpenAIAPIKey,
		"openai_base_url":    c.OpenAIBaseURL,
		"openai_model":       c.OpenAIModel,
		"stt_max_bytes":      strconv.Itoa(c.STTMaxBytes),
		"stt_timeout_sec":    strconv.Itoa(c.STTTimeoutSec),
		"llm_timeout_sec":    strconv.Itoa(c.LLMTimeoutSec),
		"tts_timeout_sec":    strconv.Itoa(c.TTSTimeoutSec),
	}
}

// GetEventsQueueName returns the reference name for the events publisher.
func (c *AssistantConfig) GetEventsQueueName() string { return c.EventsQueueName }

// GetEventsQueueURL returns the queue URL for the events publisher.
func (c *AssistantConfig) GetEventsQueueURL() string { return c.EventsQueueURL }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
