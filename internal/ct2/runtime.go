package ct2

// The native boundary. The engine schedules batches on its own replica pool
// and hands back one future per batch item; completion order is not the
// submission order, so the pipeline always awaits by submission index.
//
// Two providers exist behind build tags: the cgo implementation (ct2 tag) and
// a stub whose constructors fail with a dependency error. Tests substitute
// in-memory fakes directly.

// rawResult is one batch item's result in the flattened boundary form.
type rawResult struct {
	hypotheses   tokenMatrix
	ids          idMatrix
	scores       []float32
	noSpeechProb float32
}

// rawScore is one batch item's token-level scoring result.
type rawScore struct {
	tokens      []string
	tokenScores []float32
}

// itemFuture resolves one batch item. await blocks until the engine finishes
// the item and may be called exactly once.
type itemFuture interface {
	await() (rawResult, error)
}

// scoreFuture resolves one scoring item.
type scoreFuture interface {
	await() (rawScore, error)
}

// counters exposes the engine's live internal gauges. Non-blocking,
// eventually-consistent snapshots.
type counters interface {
	queuedBatches() int
	activeBatches() int
	replicas() int
}

type nativeTranslator interface {
	counters
	translateBatch(source, targetPrefix tokenMatrix, opts *nativeTranslationOptions, step stepFunc) ([]itemFuture, error)
	scoreBatch(batch tokenMatrix, opts *nativeScoringOptions) ([]scoreFuture, error)
	release()
}

type nativeGenerator interface {
	counters
	generateBatch(startTokens tokenMatrix, opts *nativeGenerationOptions, step stepFunc) ([]itemFuture, error)
	scoreBatch(batch tokenMatrix, opts *nativeScoringOptions) ([]scoreFuture, error)
	release()
}

// langDetection is one (language token, probability) candidate.
type langDetection struct {
	language    string
	probability float32
}

type nativeWhisper interface {
	counters
	generate(features *Features, prompts tokenMatrix, opts *nativeWhisperOptions) ([]itemFuture, error)
	detectLanguage(features *Features) ([][]langDetection, error)
	isMultilingual() bool
	nMels() int
	numLanguages() int
	release()
}
