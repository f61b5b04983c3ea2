package events

import (
	"context"
	"encoding/json"

	"github.com/pitabwire/util"
)

// Subscriber implements queue.SubscribeWorker to route bus events back into
// a publisher's local in-process subscriptions. Running one alongside the
// publisher lets code on any node observe events emitted anywhere.
type Subscriber struct {
	Pub *Publisher
}

// Handle is called by frame's pub/sub for each event message.
func (s *Subscriber) Handle(ctx context.Context, _ map[string]string, message []byte) error {
	var env Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		util.Log(ctx).WithError(err).Error("event subscriber: unmarshal envelope")
		return err
	}

	// Envelopes from this node already reached local subscribers at Emit
	// time; fanning them out again would deliver duplicates.
	if env.Source == s.Pub.source {
		return nil
	}
	s.Pub.fanOut(env)

	util.Log(ctx).
		With("event_type", string(env.Type)).
		With("session_id", env.SessionID).
		Debug("event received from bus")
	return nil
}
