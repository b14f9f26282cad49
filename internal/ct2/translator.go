package ct2

import "sync/atomic"

// TranslationResult holds the hypotheses for one batch item. Err is set when
// the engine failed this item; sibling items are unaffected.
type TranslationResult struct {
	// One token sequence per hypothesis, best first.
	Hypotheses [][]string
	// One score per hypothesis; empty unless ReturnScores was set.
	Scores []float32
	Err    error
}

// Output returns the best hypothesis, or nil when there is none.
func (r TranslationResult) Output() []string {
	if len(r.Hypotheses) == 0 {
		return nil
	}
	return r.Hypotheses[0]
}

// Score returns the best hypothesis score and whether scores are present.
func (r TranslationResult) Score() (float32, bool) {
	if len(r.Scores) == 0 {
		return 0, false
	}
	return r.Scores[0], true
}

// NumHypotheses returns the hypothesis count.
func (r TranslationResult) NumHypotheses() int { return len(r.Hypotheses) }

// Translator owns one native translation engine instance. It is safe for
// concurrent use; the engine queues batches on its internal replica pool.
// The zero value is not usable; construct with LoadTranslator.
type Translator struct {
	nt     nativeTranslator
	closed atomic.Bool
}

// LoadTranslator loads a converted translation model from src and constructs
// an engine handle. On failure no handle is produced.
func LoadTranslator(src ModelSource, cfg Config) (*Translator, error) {
	if err := validateSource(src); err != nil {
		return nil, err
	}
	nc, err := cfg.toNative()
	if err != nil {
		return nil, err
	}
	nt, err := openTranslator(src, nc)
	if err != nil {
		return nil, err
	}
	return &Translator{nt: nt}, nil
}

// TranslateBatch translates a batch of tokenized source sequences.
// result[i] corresponds to source[i] regardless of engine completion order.
// cb may be nil; when set, it is forwarded every decoding step and
// opts.BeamSize must be 1.
func (t *Translator) TranslateBatch(source [][]string, opts TranslationOptions, cb StepCallback) ([]TranslationResult, error) {
	return t.translate(source, nil, opts, cb)
}

// TranslateBatchWithTargetPrefix seeds each item's decoding with a target
// prefix. len(targetPrefix) must equal len(source); an empty inner prefix
// means unconstrained decoding for that item.
func (t *Translator) TranslateBatchWithTargetPrefix(source, targetPrefix [][]string, opts TranslationOptions, cb StepCallback) ([]TranslationResult, error) {
	if len(targetPrefix) != len(source) {
		return nil, invalidArgumentError{msg: "target prefix count does not match batch size"}
	}
	return t.translate(source, targetPrefix, opts, cb)
}

func (t *Translator) translate(source, targetPrefix [][]string, opts TranslationOptions, cb StepCallback) ([]TranslationResult, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	if err := opts.validate(cb != nil); err != nil {
		return nil, err
	}
	no, err := opts.toNative()
	if err != nil {
		return nil, err
	}
	bridge := newCallbackBridge(cb)
	futures, err := t.nt.translateBatch(flattenTokens(source), flattenTokens(targetPrefix), no, bridge.step())
	if err != nil {
		return nil, ErrNativeRuntime(err.Error())
	}
	results := awaitTranslations(futures)
	if cberr := bridge.firstError(); cberr != nil {
		return results, cberr
	}
	return results, nil
}

// ScoreBatch computes token-level log likelihoods for tokenized sequences.
func (t *Translator) ScoreBatch(batch [][]string, opts ScoringOptions) ([]ScoringResult, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	no, err := opts.toNative()
	if err != nil {
		return nil, err
	}
	futures, err := t.nt.scoreBatch(flattenTokens(batch), no)
	if err != nil {
		return nil, ErrNativeRuntime(err.Error())
	}
	return awaitScores(futures), nil
}

// QueuedBatches returns the number of batches waiting in the engine queue.
func (t *Translator) QueuedBatches() (int, error) {
	if t.closed.Load() {
		return 0, ErrClosed
	}
	return t.nt.queuedBatches(), nil
}

// ActiveBatches returns the number of batches queued or being processed.
func (t *Translator) ActiveBatches() (int, error) {
	if t.closed.Load() {
		return 0, ErrClosed
	}
	return t.nt.activeBatches(), nil
}

// Replicas returns the number of model replicas in the pool.
func (t *Translator) Replicas() (int, error) {
	if t.closed.Load() {
		return 0, ErrClosed
	}
	return t.nt.replicas(), nil
}

// Close releases the native engine instance. Further operations on the
// handle, including a second Close, return ErrClosed.
func (t *Translator) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	t.nt.release()
	return nil
}

// awaitTranslations resolves item futures strictly in submission order.
func awaitTranslations(futures []itemFuture) []TranslationResult {
	out := make([]TranslationResult, len(futures))
	for i, f := range futures {
		raw, err := f.await()
		if err != nil {
			out[i] = TranslationResult{Err: nativeRuntimeError{item: i, msg: err.Error()}}
			continue
		}
		out[i] = TranslationResult{
			Hypotheses: raw.hypotheses.rows(),
			Scores:     raw.scores,
		}
	}
	return out
}
