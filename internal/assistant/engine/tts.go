package engine

import "context"

// Synthesizer renders reply text to audio. It returns the encoded audio
// bytes together with their MIME type.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, string, error)
	Close() error
}
