package session

import "sync/atomic"

// CancelHandle is a one-way cancellation flag for a single pipeline run.
// Signal is idempotent and irreversible: once signalled, a handle stays
// signalled. The run that owns the handle only ever reads it; signalling is
// reserved for the store's cancel path and for a superseding run (barge-in).
type CancelHandle struct {
	signalled atomic.Bool
}

// NewCancelHandle returns an unsignalled handle.
func NewCancelHandle() *CancelHandle {
	return &CancelHandle{}
}

// Signal marks the handle as cancelled.
func (h *CancelHandle) Signal() {
	h.signalled.Store(true)
}

// Signalled reports whether Signal has been called.
func (h *CancelHandle) Signalled() bool {
	return h.signalled.Load()
}
