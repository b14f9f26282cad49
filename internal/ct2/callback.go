package ct2

import "sync"

// StepResult carries the data for a single decoding step, forwarded from the
// native decoding loop to a caller-supplied callback.
type StepResult struct {
	// Decoding step index.
	Step int
	// Batch item index.
	Batch int
	// Hypothesis index within the batch item.
	Hypothesis int
	// ID of the generated token.
	TokenID int32
	// String value of the generated token.
	Token string
	// True when LogProb is populated.
	HasLogProb bool
	// Log probability of the token.
	LogProb float32
	// True on the last decoding step for this batch item.
	IsLast bool
}

// StepCallback is invoked synchronously for every decoding step, on whatever
// native worker thread runs the decoding loop. Return true to continue
// decoding, false to stop the hypothesis. Callbacks may be invoked
// concurrently for different batch items; the bridge serializes delivery, but
// any state the callback shares with the submitting goroutine is the caller's
// to synchronize.
type StepCallback func(StepResult) bool

// stepFunc is the shape handed to the native layer. A nil stepFunc is the
// "no callback" sentinel: the native fast path must not see a trivial
// always-true closure.
type stepFunc func(StepResult) bool

// callbackBridge adapts one StepCallback for one batch call. It is allocated
// once per call, never per step. Concurrent invocations from native worker
// threads are serialized, and a panic inside the callback is caught here so
// it never unwinds across the native frame; decoding is stopped and the
// panic is re-surfaced to the submitting caller as a callback error.
type callbackBridge struct {
	mu  sync.Mutex
	cb  StepCallback
	err error
}

// newCallbackBridge returns a nil bridge for a nil callback so the native
// layer receives the sentinel instead of a closure.
func newCallbackBridge(cb StepCallback) *callbackBridge {
	if cb == nil {
		return nil
	}
	return &callbackBridge{cb: cb}
}

// step returns the stepFunc to hand to the native layer, or nil.
func (b *callbackBridge) step() stepFunc {
	if b == nil {
		return nil
	}
	return b.forward
}

func (b *callbackBridge) forward(r StepResult) (cont bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return false
	}
	defer func() {
		if p := recover(); p != nil {
			b.err = callbackError{cause: p}
			cont = false
		}
	}()
	return b.cb(r)
}

// firstError reports the first failure raised inside the callback, if any.
func (b *callbackBridge) firstError() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}
