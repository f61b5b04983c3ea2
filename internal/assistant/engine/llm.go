package engine

import (
	"context"

	"github.com/alinavoice/alina/pkg/conversation"
)

// Replier produces the assistant's next utterance from an ordered message
// sequence (system prompt, trimmed history, new user turn).
type Replier interface {
	Reply(ctx context.Context, turns []conversation.Turn) (string, error)
	Close() error
}
