package ct2

// ScoringOptions parameterizes a score_batch call.
type ScoringOptions struct {
	// Truncate inputs after this many tokens (0 disables truncation).
	MaxInputLength int
	// Ignore the first Offset tokens when accumulating scores.
	Offset int64
	MaxBatchSize int
	BatchType    BatchType
}

// DefaultScoringOptions mirrors the native engine defaults.
func DefaultScoringOptions() ScoringOptions {
	return ScoringOptions{MaxInputLength: 1024}
}

type nativeScoringOptions struct {
	maxInputLength int
	offset         int64
	maxBatchSize   int
	batchType      int32
}

func (o ScoringOptions) toNative() (*nativeScoringOptions, error) {
	bt, err := o.BatchType.toNative()
	if err != nil {
		return nil, err
	}
	return &nativeScoringOptions{
		maxInputLength: o.MaxInputLength,
		offset:         o.Offset,
		maxBatchSize:   o.MaxBatchSize,
		batchType:      bt,
	}, nil
}

// ScoringResult holds the token-level log likelihoods for one batch item.
// Err is set when the engine failed this item; the other fields are then zero.
type ScoringResult struct {
	Tokens      []string
	TokenScores []float32
	Err         error
}

// CumulatedScore sums the token scores.
func (r ScoringResult) CumulatedScore() float32 {
	var sum float32
	for _, s := range r.TokenScores {
		sum += s
	}
	return sum
}

// NormalizedScore is the cumulated score divided by the token count.
func (r ScoringResult) NormalizedScore() float32 {
	if len(r.TokenScores) == 0 {
		return 0
	}
	return r.CumulatedScore() / float32(len(r.TokenScores))
}

// awaitScores resolves scoring futures in submission order so that
// result[i] always matches input[i].
func awaitScores(futures []scoreFuture) []ScoringResult {
	out := make([]ScoringResult, len(futures))
	for i, f := range futures {
		raw, err := f.await()
		if err != nil {
			out[i] = ScoringResult{Err: nativeRuntimeError{item: i, msg: err.Error()}}
			continue
		}
		out[i] = ScoringResult{
			Tokens:      raw.tokens,
			TokenScores: raw.tokenScores,
		}
	}
	return out
}
