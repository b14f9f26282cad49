package ct2

import "sync/atomic"

// GenerationResult holds the generated sequences for one batch item. Err is
// set when the engine failed this item; sibling items are unaffected.
type GenerationResult struct {
	// One token sequence per hypothesis, best first.
	Sequences [][]string
	// Token ids parallel to Sequences.
	SequenceIDs [][]int32
	// One score per hypothesis; empty unless ReturnScores was set.
	Scores []float32
	Err    error
}

// NumSequences returns the hypothesis count.
func (r GenerationResult) NumSequences() int { return len(r.Sequences) }

// HasScores reports whether scores were returned.
func (r GenerationResult) HasScores() bool { return len(r.Scores) > 0 }

// Generator owns one native generation engine instance. Safe for concurrent
// use. Construct with LoadGenerator.
type Generator struct {
	ng     nativeGenerator
	closed atomic.Bool
}

// LoadGenerator loads a converted language model from src and constructs an
// engine handle. On failure no handle is produced.
func LoadGenerator(src ModelSource, cfg Config) (*Generator, error) {
	if err := validateSource(src); err != nil {
		return nil, err
	}
	nc, err := cfg.toNative()
	if err != nil {
		return nil, err
	}
	ng, err := openGenerator(src, nc)
	if err != nil {
		return nil, err
	}
	return &Generator{ng: ng}, nil
}

// GenerateBatch continues each item's start tokens. Decoding starts from the
// given tokens, so a leading BOS token must be included when the model
// expects one. result[i] corresponds to startTokens[i] regardless of engine
// completion order. cb may be nil; when set, opts.BeamSize must be 1.
func (g *Generator) GenerateBatch(startTokens [][]string, opts GenerationOptions, cb StepCallback) ([]GenerationResult, error) {
	if g.closed.Load() {
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
	futures, err := g.ng.generateBatch(flattenTokens(startTokens), no, bridge.step())
	if err != nil {
		return nil, ErrNativeRuntime(err.Error())
	}
	results := awaitGenerations(futures)
	if cberr := bridge.firstError(); cberr != nil {
		return results, cberr
	}
	return results, nil
}

// ScoreBatch computes token-level log likelihoods for tokenized sequences.
func (g *Generator) ScoreBatch(batch [][]string, opts ScoringOptions) ([]ScoringResult, error) {
	if g.closed.Load() {
		return nil, ErrClosed
	}
	no, err := opts.toNative()
	if err != nil {
		return nil, err
	}
	futures, err := g.ng.scoreBatch(flattenTokens(batch), no)
	if err != nil {
		return nil, ErrNativeRuntime(err.Error())
	}
	return awaitScores(futures), nil
}

// QueuedBatches returns the number of batches waiting in the engine queue.
func (g *Generator) QueuedBatches() (int, error) {
	if g.closed.Load() {
		return 0, ErrClosed
	}
	return g.ng.queuedBatches(), nil
}

// ActiveBatches returns the number of batches queued or being processed.
func (g *Generator) ActiveBatches() (int, error) {
	if g.closed.Load() {
		return 0, ErrClosed
	}
	return g.ng.activeBatches(), nil
}

// Replicas returns the number of model replicas in the pool.
func (g *Generator) Replicas() (int, error) {
	if g.closed.Load() {
		return 0, ErrClosed
	}
	return g.ng.replicas(), nil
}

// Close releases the native engine instance. Further operations on the
// handle, including a second Close, return ErrClosed.
func (g *Generator) Close() error {
	if !g.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	g.ng.release()
	return nil
}

func awaitGenerations(futures []itemFuture) []GenerationResult {
	out := make([]GenerationResult, len(futures))
	for i, f := range futures {
		raw, err := f.await()
		if err != nil {
			out[i] = GenerationResult{Err: nativeRuntimeError{item: i, msg: err.Error()}}
			continue
		}
		out[i] = GenerationResult{
			Sequences:   raw.hypotheses.rows(),
			SequenceIDs: raw.ids.rows(),
			Scores:      raw.scores,
		}
	}
	return out
}
