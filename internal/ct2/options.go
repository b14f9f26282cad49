package ct2

// EndToken overrides the token(s) that stop decoding. The zero value (nil)
// keeps the model's EOS token. Exactly one representation is active at a time;
// the sealed interface rules out populating two variants simultaneously.
type EndToken interface{ endToken() }

// EndTokenText stops decoding on a single token.
type EndTokenText string

// EndTokenAnyOf stops decoding on any of the listed tokens.
type EndTokenAnyOf []string

// EndTokenIDs stops decoding on any of the listed token ids.
type EndTokenIDs []int32

func (EndTokenText) endToken()  {}
func (EndTokenAnyOf) endToken() {}
func (EndTokenIDs) endToken()   {}

const (
	endTokenKindDefault = iota
	endTokenKindText
	endTokenKindAnyOf
	endTokenKindIDs
)

// nativeEndToken is the tagged form handed to the shim. Exactly one payload
// field is populated, matching kind.
type nativeEndToken struct {
	kind  int32
	texts []string
	ids   []int32
}

func adaptEndToken(t EndToken) (nativeEndToken, error) {
	switch v := t.(type) {
	case nil:
		return nativeEndToken{kind: endTokenKindDefault}, nil
	case EndTokenText:
		if v == "" {
			return nativeEndToken{}, invalidArgumentError{msg: "end token text is empty"}
		}
		return nativeEndToken{kind: endTokenKindText, texts: []string{string(v)}}, nil
	case EndTokenAnyOf:
		if len(v) == 0 {
			return nativeEndToken{}, invalidArgumentError{msg: "end token list is empty"}
		}
		return nativeEndToken{kind: endTokenKindAnyOf, texts: append([]string(nil), v...)}, nil
	case EndTokenIDs:
		if len(v) == 0 {
			return nativeEndToken{}, invalidArgumentError{msg: "end token id list is empty"}
		}
		return nativeEndToken{kind: endTokenKindIDs, ids: append([]int32(nil), v...)}, nil
	default:
		return nativeEndToken{}, invalidArgumentError{msg: "unknown end token variant"}
	}
}

// TranslationOptions parameterizes one translate_batch call. The zero value
// is not useful; start from DefaultTranslationOptions.
type TranslationOptions struct {
	BeamSize            int
	Patience            float32
	LengthPenalty       float32
	CoveragePenalty     float32
	RepetitionPenalty   float32
	NoRepeatNgramSize   int
	DisableUnk          bool
	SuppressSequences   [][]string
	PrefixBiasBeta      float32
	EndToken            EndToken
	ReturnEndToken      bool
	MaxInputLength      int
	MaxDecodingLength   int
	MinDecodingLength   int
	SamplingTopK        int
	SamplingTopP        float32
	SamplingTemperature float32
	UseVMap             bool
	NumHypotheses       int
	ReturnScores        bool
	ReturnAlternatives  bool
	MinAlternativeExpansionProb float32
	ReplaceUnknowns     bool
	MaxBatchSize        int
	BatchType           BatchType
}

// DefaultTranslationOptions mirrors the native engine defaults.
func DefaultTranslationOptions() TranslationOptions {
	return TranslationOptions{
		BeamSize:            2,
		Patience:            1,
		LengthPenalty:       1,
		RepetitionPenalty:   1,
		MaxInputLength:      1024,
		MaxDecodingLength:   256,
		SamplingTopK:        1,
		SamplingTopP:        1,
		SamplingTemperature: 1,
		NumHypotheses:       1,
	}
}

func (o TranslationOptions) validate(hasCallback bool) error {
	if o.BeamSize < 1 {
		return invalidArgumentError{msg: "beam size must be at least 1"}
	}
	if hasCallback && o.BeamSize != 1 {
		return invalidArgumentError{msg: "step callback requires beam size 1"}
	}
	if o.NumHypotheses < 1 {
		return invalidArgumentError{msg: "num hypotheses must be at least 1"}
	}
	return nil
}

// GenerationOptions parameterizes one generate_batch call.
type GenerationOptions struct {
	BeamSize            int
	Patience            float32
	LengthPenalty       float32
	RepetitionPenalty   float32
	NoRepeatNgramSize   int
	DisableUnk          bool
	SuppressSequences   [][]string
	EndToken            EndToken
	ReturnEndToken      bool
	MaxLength           int
	MinLength           int
	SamplingTopK        int
	SamplingTopP        float32
	SamplingTemperature float32
	NumHypotheses       int
	ReturnScores        bool
	ReturnAlternatives  bool
	MinAlternativeExpansionProb float32
	StaticPrompt        []string
	CacheStaticPrompt   bool
	IncludePromptInResult bool
	MaxBatchSize        int
	BatchType           BatchType
}

// DefaultGenerationOptions mirrors the native engine defaults.
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		BeamSize:              1,
		Patience:              1,
		LengthPenalty:         1,
		RepetitionPenalty:     1,
		MaxLength:             512,
		SamplingTopK:          1,
		SamplingTopP:          1,
		SamplingTemperature:   1,
		NumHypotheses:         1,
		CacheStaticPrompt:     true,
		IncludePromptInResult: true,
	}
}

func (o GenerationOptions) validate(hasCallback bool) error {
	if o.BeamSize < 1 {
		return invalidArgumentError{msg: "beam size must be at least 1"}
	}
	if hasCallback && o.BeamSize != 1 {
		return invalidArgumentError{msg: "step callback requires beam size 1"}
	}
	if o.NumHypotheses < 1 {
		return invalidArgumentError{msg: "num hypotheses must be at least 1"}
	}
	return nil
}

// WhisperOptions parameterizes one Whisper generate call.
type WhisperOptions struct {
	BeamSize                 int
	Patience                 float32
	LengthPenalty            float32
	RepetitionPenalty        float32
	NoRepeatNgramSize        int
	MaxLength                int
	SamplingTopK             int
	SamplingTemperature      float32
	NumHypotheses            int
	ReturnScores             bool
	ReturnNoSpeechProb       bool
	MaxInitialTimestampIndex int
	SuppressBlank            bool
	SuppressTokens           []int32
}

// DefaultWhisperOptions mirrors the native engine defaults. SuppressTokens
// {-1} suppresses the default symbol set from the model config.
func DefaultWhisperOptions() WhisperOptions {
	return WhisperOptions{
		BeamSize:                 5,
		Patience:                 1,
		LengthPenalty:            1,
		RepetitionPenalty:        1,
		MaxLength:                448,
		SamplingTopK:             1,
		SamplingTemperature:      1,
		NumHypotheses:            1,
		MaxInitialTimestampIndex: 50,
		SuppressBlank:            true,
		SuppressTokens:           []int32{-1},
	}
}

func (o WhisperOptions) validate() error {
	if o.BeamSize < 1 {
		return invalidArgumentError{msg: "beam size must be at least 1"}
	}
	if o.NumHypotheses < 1 {
		return invalidArgumentError{msg: "num hypotheses must be at least 1"}
	}
	return nil
}

// nativeTranslationOptions is the adapted per-call options record for
// translation. Suppress sequences travel flattened like every other nested
// string sequence.
type nativeTranslationOptions struct {
	beamSize            int
	patience            float32
	lengthPenalty       float32
	coveragePenalty     float32
	repetitionPenalty   float32
	noRepeatNgramSize   int
	disableUnk          bool
	suppressSequences   tokenMatrix
	prefixBiasBeta      float32
	endToken            nativeEndToken
	returnEndToken      bool
	maxInputLength      int
	maxDecodingLength   int
	minDecodingLength   int
	samplingTopK        int
	samplingTopP        float32
	samplingTemperature float32
	useVMap             bool
	numHypotheses       int
	returnScores        bool
	returnAlternatives  bool
	minAlternativeExpansionProb float32
	replaceUnknowns     bool
	maxBatchSize        int
	batchType           int32
}

func (o TranslationOptions) toNative() (*nativeTranslationOptions, error) {
	et, err := adaptEndToken(o.EndToken)
	if err != nil {
		return nil, err
	}
	bt, err := o.BatchType.toNative()
	if err != nil {
		return nil, err
	}
	return &nativeTranslationOptions{
		beamSize:            o.BeamSize,
		patience:            o.Patience,
		lengthPenalty:       o.LengthPenalty,
		coveragePenalty:     o.CoveragePenalty,
		repetitionPenalty:   o.RepetitionPenalty,
		noRepeatNgramSize:   o.NoRepeatNgramSize,
		disableUnk:          o.DisableUnk,
		suppressSequences:   flattenTokens(o.SuppressSequences),
		prefixBiasBeta:      o.PrefixBiasBeta,
		endToken:            et,
		returnEndToken:      o.ReturnEndToken,
		maxInputLength:      o.MaxInputLength,
		maxDecodingLength:   o.MaxDecodingLength,
		minDecodingLength:   o.MinDecodingLength,
		samplingTopK:        o.SamplingTopK,
		samplingTopP:        o.SamplingTopP,
		samplingTemperature: o.SamplingTemperature,
		useVMap:             o.UseVMap,
		numHypotheses:       o.NumHypotheses,
		returnScores:        o.ReturnScores,
		returnAlternatives:  o.ReturnAlternatives,
		minAlternativeExpansionProb: o.MinAlternativeExpansionProb,
		replaceUnknowns:     o.ReplaceUnknowns,
		maxBatchSize:        o.MaxBatchSize,
		batchType:           bt,
	}, nil
}

// nativeGenerationOptions is the adapted per-call options record for
// generation.
type nativeGenerationOptions struct {
	beamSize            int
	patience            float32
	lengthPenalty       float32
	repetitionPenalty   float32
	noRepeatNgramSize   int
	disableUnk          bool
	suppressSequences   tokenMatrix
	endToken            nativeEndToken
	returnEndToken      bool
	maxLength           int
	minLength           int
	samplingTopK        int
	samplingTopP        float32
	samplingTemperature float32
	numHypotheses       int
	returnScores        bool
	returnAlternatives  bool
	minAlternativeExpansionProb float32
	staticPrompt        []string
	cacheStaticPrompt   bool
	includePromptInResult bool
	maxBatchSize        int
	batchType           int32
}

func (o GenerationOptions) toNative() (*nativeGenerationOptions, error) {
	et, err := adaptEndToken(o.EndToken)
	if err != nil {
		return nil, err
	}
	bt, err := o.BatchType.toNative()
	if err != nil {
		return nil, err
	}
	return &nativeGenerationOptions{
		beamSize:            o.BeamSize,
		patience:            o.Patience,
		lengthPenalty:       o.LengthPenalty,
		repetitionPenalty:   o.RepetitionPenalty,
		noRepeatNgramSize:   o.NoRepeatNgramSize,
		disableUnk:          o.DisableUnk,
		suppressSequences:   flattenTokens(o.SuppressSequences),
		endToken:            et,
		returnEndToken:      o.ReturnEndToken,
		maxLength:           o.MaxLength,
		minLength:           o.MinLength,
		samplingTopK:        o.SamplingTopK,
		samplingTopP:        o.SamplingTopP,
		samplingTemperature: o.SamplingTemperature,
		numHypotheses:       o.NumHypotheses,
		returnScores:        o.ReturnScores,
		returnAlternatives:  o.ReturnAlternatives,
		minAlternativeExpansionProb: o.MinAlternativeExpansionProb,
		staticPrompt:        append([]string(nil), o.StaticPrompt...),
		cacheStaticPrompt:   o.CacheStaticPrompt,
		includePromptInResult: o.IncludePromptInResult,
		maxBatchSize:        o.MaxBatchSize,
		batchType:           bt,
	}, nil
}

// nativeWhisperOptions is the adapted per-call options record for Whisper.
type nativeWhisperOptions struct {
	beamSize                 int
	patience                 float32
	lengthPenalty            float32
	repetitionPenalty        float32
	noRepeatNgramSize        int
	maxLength                int
	samplingTopK             int
	samplingTemperature      float32
	numHypotheses            int
	returnScores             bool
	returnNoSpeechProb       bool
	maxInitialTimestampIndex int
	suppressBlank            bool
	suppressTokens           []int32
}

func (o WhisperOptions) toNative() *nativeWhisperOptions {
	return &nativeWhisperOptions{
		beamSize:                 o.BeamSize,
		patience:                 o.Patience,
		lengthPenalty:            o.LengthPenalty,
		repetitionPenalty:        o.RepetitionPenalty,
		noRepeatNgramSize:        o.NoRepeatNgramSize,
		maxLength:                o.MaxLength,
		samplingTopK:             o.SamplingTopK,
		samplingTemperature:      o.SamplingTemperature,
		numHypotheses:            o.NumHypotheses,
		returnScores:             o.ReturnScores,
		returnNoSpeechProb:       o.ReturnNoSpeechProb,
		maxInitialTimestampIndex: o.MaxInitialTimestampIndex,
		suppressBlank:            o.SuppressBlank,
		suppressTokens:           append([]int32(nil), o.SuppressTokens...),
	}
}
