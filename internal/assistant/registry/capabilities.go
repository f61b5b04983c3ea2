package registry

import "github.com/alinavoice/alina/internal/assistant/engine"

// STT is the global speech-to-text backend registry.
var STT = New[engine.Transcriber]()

// LLM is the global reply-generation backend registry.
var LLM = New[engine.Replier]()

// TTS is the global text-to-speech backend registry.
var TTS = New[engine.Synthesizer]()
