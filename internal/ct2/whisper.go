package ct2

import "sync/atomic"

// WhisperResult holds the transcription hypotheses for one batch item. Err is
// set when the engine failed this item; sibling items are unaffected.
type WhisperResult struct {
	// One token sequence per hypothesis, best first.
	Sequences [][]string
	// Token ids parallel to Sequences.
	SequenceIDs [][]int32
	// One score per hypothesis; empty unless ReturnScores was set.
	Scores []float32
	// Probability of the no-speech token; 0 unless ReturnNoSpeechProb was set.
	NoSpeechProb float32
	Err          error
}

// NumSequences returns the hypothesis count.
func (r WhisperResult) NumSequences() int { return len(r.Sequences) }

// HasScores reports whether scores were returned.
func (r WhisperResult) HasScores() bool { return len(r.Scores) > 0 }

// LanguageDetection is one detected language candidate.
type LanguageDetection struct {
	// Language token, e.g. "<|en|>".
	Language string
	// Probability of the language.
	Probability float32
}

// Whisper owns one native Whisper speech recognition engine instance. Safe
// for concurrent use. Construct with LoadWhisper.
type Whisper struct {
	nw     nativeWhisper
	closed atomic.Bool
}

// LoadWhisper loads a converted Whisper model from src and constructs an
// engine handle. On failure no handle is produced.
func LoadWhisper(src ModelSource, cfg Config) (*Whisper, error) {
	if err := validateSource(src); err != nil {
		return nil, err
	}
	nc, err := cfg.toNative()
	if err != nil {
		return nil, err
	}
	nw, err := openWhisper(src, nc)
	if err != nil {
		return nil, err
	}
	return &Whisper{nw: nw}, nil
}

// Generate transcribes or translates a batch of mel spectrograms. One prompt
// token sequence per batch item is required; len(prompts) must equal the
// features batch size. result[i] corresponds to batch item i regardless of
// engine completion order.
func (w *Whisper) Generate(features *Features, prompts [][]string, opts WhisperOptions) ([]WhisperResult, error) {
	if w.closed.Load() {
		return nil, ErrClosed
	}
	if features == nil {
		return nil, invalidArgumentError{msg: "features is nil"}
	}
	if len(prompts) != features.BatchSize() {
		return nil, invalidArgumentError{msg: "prompt count does not match features batch size"}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	futures, err := w.nw.generate(features, flattenTokens(prompts), opts.toNative())
	if err != nil {
		return nil, ErrNativeRuntime(err.Error())
	}
	out := make([]WhisperResult, len(futures))
	for i, f := range futures {
		raw, err := f.await()
		if err != nil {
			out[i] = WhisperResult{Err: nativeRuntimeError{item: i, msg: err.Error()}}
			continue
		}
		out[i] = WhisperResult{
			Sequences:    raw.hypotheses.rows(),
			SequenceIDs:  raw.ids.rows(),
			Scores:       raw.scores,
			NoSpeechProb: raw.noSpeechProb,
		}
	}
	return out, nil
}

// DetectLanguage returns the language candidates for each batch item,
// ordered from most to least probable.
func (w *Whisper) DetectLanguage(features *Features) ([][]LanguageDetection, error) {
	if w.closed.Load() {
		return nil, ErrClosed
	}
	if features == nil {
		return nil, invalidArgumentError{msg: "features is nil"}
	}
	raw, err := w.nw.detectLanguage(features)
	if err != nil {
		return nil, ErrNativeRuntime(err.Error())
	}
	out := make([][]LanguageDetection, len(raw))
	for i, cands := range raw {
		row := make([]LanguageDetection, len(cands))
		for j, c := range cands {
			row[j] = LanguageDetection{Language: c.language, Probability: c.probability}
		}
		out[i] = row
	}
	return out, nil
}

// IsMultilingual reports whether the loaded model is multilingual.
func (w *Whisper) IsMultilingual() (bool, error) {
	if w.closed.Load() {
		return false, ErrClosed
	}
	return w.nw.isMultilingual(), nil
}

// NMels returns the number of mel bands the model expects.
func (w *Whisper) NMels() (int, error) {
	if w.closed.Load() {
		return 0, ErrClosed
	}
	return w.nw.nMels(), nil
}

// NumLanguages returns the number of languages the model supports.
func (w *Whisper) NumLanguages() (int, error) {
	if w.closed.Load() {
		return 0, ErrClosed
	}
	return w.nw.numLanguages(), nil
}

// QueuedBatches returns the number of batches waiting in the engine queue.
func (w *Whisper) QueuedBatches() (int, error) {
	if w.closed.Load() {
		return 0, ErrClosed
	}
	return w.nw.queuedBatches(), nil
}

// ActiveBatches returns the number of batches queued or being processed.
func (w *Whisper) ActiveBatches() (int, error) {
	if w.closed.Load() {
		return 0, ErrClosed
	}
	return w.nw.activeBatches(), nil
}

// Replicas returns the number of model replicas in the pool.
func (w *Whisper) Replicas() (int, error) {
	if w.closed.Load() {
		return 0, ErrClosed
	}
	return w.nw.replicas(), nil
}

// Close releases the native engine instance. Further operations on the
// handle, including a second Close, return ErrClosed.
func (w *Whisper) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	w.nw.release()
	return nil
}
