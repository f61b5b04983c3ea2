// Package engine defines the three capability interfaces the assistant
// pipeline drives: speech-to-text, reply generation, and text-to-speech.
// Each backend is an opaque blocking operation with a single success or
// failure outcome; backends own their timeouts, the pipeline owns
// cancellation between them.
package engine

import "context"

// Transcriber converts one complete utterance to text. An empty transcript
// is a valid success outcome (silence or unintelligible audio), not an
// error. language is the assistant mode hint (e.g. "ru", "en", "th");
// mimeType describes the uploaded container and may be empty.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language, mimeType string) (string, error)
	Close() error
}
