package headstart

import (
	"sync"

	"github.com/esitarz/headstart/commerce"
)

// TokenHolder is the single process-wide holder for the current token
// pair. Dependent SDK client handles register once and have every
// token change mirrored into them, instead of being enumerated at each
// propagation site.
type TokenHolder struct {
	mu        sync.RWMutex
	current   commerce.TokenPair
	receivers []TokenReceiver
	onChange  []func(commerce.TokenPair)
}

// NewTokenHolder returns a holder with the given dependent clients
// already registered.
func NewTokenHolder(receivers ...TokenReceiver) *TokenHolder {
	h := &TokenHolder{}
	h.Register(receivers...)
	return h
}

// Register adds dependent clients. New receivers immediately get the
// current token so late registration does not miss a session.
func (h *TokenHolder) Register(receivers ...TokenReceiver) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, r := range receivers {
		if r == nil {
			continue
		}
		h.receivers = append(h.receivers, r)
		r.SetToken(h.current.AccessToken)
	}
}

// OnChange subscribes a callback invoked after every token change.
func (h *TokenHolder) OnChange(fn func(commerce.TokenPair)) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// Set stores the pair and fans the access token out to every
// registered receiver before notifying change subscribers.
func (h *TokenHolder) Set(pair commerce.TokenPair) {
	h.mu.Lock()
	h.current = pair
	receivers := make([]TokenReceiver, len(h.receivers))
	copy(receivers, h.receivers)
	callbacks := make([]func(commerce.TokenPair), len(h.onChange))
	copy(callbacks, h.onChange)
	h.mu.Unlock()

	for _, r := range receivers {
		r.SetToken(pair.AccessToken)
	}

	for _, fn := range callbacks {
		fn(pair)
	}
}

// Clear drops the current pair and propagates the empty token.
func (h *TokenHolder) Clear() {
	h.Set(commerce.TokenPair{})
}

// Current returns the token pair as last set.
func (h *TokenHolder) Current() commerce.TokenPair {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}
