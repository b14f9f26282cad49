package types

// DecodingOptions carries the per-request decoding knobs shared by the
// translate and generate endpoints. Zero values defer to the engine defaults.
type DecodingOptions struct {
	// Beam width; 1 selects greedy search. Required to be 1 when streaming.
	// example: 2
	BeamSize int `json:"beam_size,omitempty" example:"2"`
	// Number of hypotheses to return per item.
	// example: 1
	NumHypotheses int `json:"num_hypotheses,omitempty" example:"1"`
	// Return one score per hypothesis.
	// example: true
	ReturnScores bool `json:"return_scores,omitempty" example:"true"`
	// Exponential length penalty applied during beam search.
	// example: 1.0
	LengthPenalty float64 `json:"length_penalty,omitempty" example:"1.0"`
	// Penalty applied to previously generated tokens (>1 discourages repeats).
	// example: 1.1
	RepetitionPenalty float64 `json:"repetition_penalty,omitempty" example:"1.1"`
	// Forbid repeating ngrams of this size.
	// example: 3
	NoRepeatNgramSize int `json:"no_repeat_ngram_size,omitempty" example:"3"`
	// Maximum generated length in tokens.
	// example: 256
	MaxLength int `json:"max_length,omitempty" example:"256"`
	// Minimum generated length in tokens.
	// example: 1
	MinLength int `json:"min_length,omitempty" example:"1"`
	// Top-K sampling: sample among the K most likely tokens (1 = greedy).
	// example: 40
	SamplingTopK int `json:"sampling_topk,omitempty" example:"40"`
	// Nucleus sampling probability mass.
	// example: 0.9
	SamplingTopP float64 `json:"sampling_topp,omitempty" example:"0.9"`
	// Sampling temperature (higher = more random).
	// example: 0.7
	SamplingTemperature float64 `json:"sampling_temperature,omitempty" example:"0.7"`
	// Token sequences the decoder must never produce.
	Suppress [][]string `json:"suppress_sequences,omitempty"`
	// Stop decoding on any of these tokens instead of the model's EOS.
	// example: ["</s>"]
	EndTokens []string `json:"end_tokens,omitempty" example:"[\"</s>\"]"`
	// Maximum examples per native batch (0 = whole request in one batch).
	// example: 32
	MaxBatchSize int `json:"max_batch_size,omitempty" example:"32"`
	// How MaxBatchSize counts: examples or tokens.
	// example: examples
	BatchType string `json:"batch_type,omitempty" example:"examples"`
}

// TranslateRequest is the payload for POST /translate. Inputs are tokenized:
// one token sequence per batch item.
type TranslateRequest struct {
	// Model identifier. If empty, the server's default translator is used.
	// example: en-de-base
	Model string `json:"model,omitempty" example:"en-de-base"`
	// Tokenized source sequences, one per batch item.
	Source [][]string `json:"source"`
	// Optional target prefixes; when present, must have one entry per
	// source item (empty inner lists mean unconstrained decoding).
	TargetPrefix [][]string `json:"target_prefix,omitempty"`
	// Decoding options.
	Options DecodingOptions `json:"options"`
}

// TranslationItem is one batch item's result within a TranslateResponse.
type TranslationItem struct {
	// Token sequences, best hypothesis first.
	Hypotheses [][]string `json:"hypotheses"`
	// One score per hypothesis; present when return_scores was set.
	Scores []float32 `json:"scores,omitempty"`
	// Per-item failure; sibling items are unaffected.
	Error string `json:"error,omitempty"`
}

// TranslateResponse is returned by POST /translate. Results align with the
// request's source order.
type TranslateResponse struct {
	Model   string            `json:"model"`
	Results []TranslationItem `json:"results"`
}

// GenerateRequest is the payload for POST /generate.
type GenerateRequest struct {
	// Model identifier. If empty, the server's default generator is used.
	// example: tiny-gpt2
	Model string `json:"model,omitempty" example:"tiny-gpt2"`
	// Tokenized start sequences, one per batch item. Include the leading
	// BOS token when the model expects one.
	StartTokens [][]string `json:"start_tokens"`
	// If true, stream decoding steps as NDJSON token events. Streaming
	// requires beam_size 1 and a single batch item.
	// example: true
	Stream bool `json:"stream,omitempty" example:"true"`
	// System prompt prepended (and optionally cached) across requests.
	StaticPrompt []string `json:"static_prompt,omitempty"`
	// Include the start tokens in the returned sequences.
	// example: true
	IncludePromptInResult *bool `json:"include_prompt_in_result,omitempty" example:"true"`
	// Decoding options.
	Options DecodingOptions `json:"options"`
}

// GenerationItem is one batch item's result within a GenerateResponse.
type GenerationItem struct {
	// Token sequences, best hypothesis first.
	Sequences [][]string `json:"sequences"`
	// Token ids parallel to Sequences.
	SequenceIDs [][]int32 `json:"sequence_ids,omitempty"`
	// One score per hypothesis; present when return_scores was set.
	Scores []float32 `json:"scores,omitempty"`
	// Per-item failure; sibling items are unaffected.
	Error string `json:"error,omitempty"`
}

// GenerateResponse is returned by POST /generate when stream is false.
type GenerateResponse struct {
	Model   string           `json:"model"`
	Results []GenerationItem `json:"results"`
}

// TokenEvent is one NDJSON line of a streamed generation.
type TokenEvent struct {
	// Decoding step index.
	// example: 3
	Step int `json:"step" example:"3"`
	// Batch item index.
	// example: 0
	Item int `json:"item" example:"0"`
	// Generated token.
	// example: ▁world
	Token string `json:"token" example:"▁world"`
	// Generated token id.
	// example: 1017
	TokenID int32 `json:"token_id" example:"1017"`
	// Log probability of the token, when available.
	LogProb *float32 `json:"log_prob,omitempty"`
	// True on the final step of the item.
	// example: false
	Done bool `json:"done,omitempty" example:"false"`
	// Set instead of a token when the stream ends with an error.
	Error string `json:"error,omitempty"`
}

// FeaturesPayload is a dense mel spectrogram batch: shape [batch, mels,
// frames] and the row-major values.
type FeaturesPayload struct {
	// example: [1,80,3000]
	Shape []int     `json:"shape" example:"[1,80,3000]"`
	Data  []float32 `json:"data"`
}

// TranscribeRequest is the payload for POST /transcribe.
type TranscribeRequest struct {
	// Model identifier. If empty, the server's default whisper model is used.
	// example: whisper-tiny
	Model string `json:"model,omitempty" example:"whisper-tiny"`
	// Mel spectrogram batch.
	Features FeaturesPayload `json:"features"`
	// Decoder prompts, one per batch item, e.g.
	// ["<|startoftranscript|>", "<|en|>", "<|transcribe|>"].
	Prompts [][]string `json:"prompts"`
	// Run language detection before decoding and report the candidates.
	// example: false
	DetectLanguage bool `json:"detect_language,omitempty" example:"false"`
	// Return the no-speech probability per item.
	// example: true
	ReturnNoSpeechProb bool `json:"return_no_speech_prob,omitempty" example:"true"`
	// Decoding options (beam_size, max_length, sampling, ...).
	Options DecodingOptions `json:"options"`
}

// LanguageCandidate is one detected language with its probability.
type LanguageCandidate struct {
	// example: <|en|>
	Language string `json:"language" example:"<|en|>"`
	// example: 0.93
	Probability float32 `json:"probability" example:"0.93"`
}

// TranscriptionItem is one batch item's result within a TranscribeResponse.
type TranscriptionItem struct {
	// Token sequences, best hypothesis first.
	Sequences [][]string `json:"sequences"`
	// One score per hypothesis; present when return_scores was set.
	Scores []float32 `json:"scores,omitempty"`
	// Probability that the segment contains no speech.
	NoSpeechProb float32 `json:"no_speech_prob,omitempty"`
	// Language candidates, most probable first; present when
	// detect_language was set.
	DetectedLanguages []LanguageCandidate `json:"detected_languages,omitempty"`
	// Per-item failure; sibling items are unaffected.
	Error string `json:"error,omitempty"`
}

// TranscribeResponse is returned by POST /transcribe.
type TranscribeResponse struct {
	Model   string              `json:"model"`
	Results []TranscriptionItem `json:"results"`
}

// ScoreRequest is the payload for POST /score.
type ScoreRequest struct {
	// Model identifier of a translator or generator.
	// example: en-de-base
	Model string `json:"model,omitempty" example:"en-de-base"`
	// Tokenized sequences to score, one per batch item.
	Tokens [][]string `json:"tokens"`
	// Truncate inputs to this length (0 = engine default).
	// example: 1024
	MaxInputLength int `json:"max_input_length,omitempty" example:"1024"`
	// Start scoring at this token offset.
	// example: 0
	Offset int64 `json:"offset,omitempty" example:"0"`
}

// ScoreItem is one batch item's result within a ScoreResponse.
type ScoreItem struct {
	Tokens      []string  `json:"tokens"`
	TokenScores []float32 `json:"token_scores"`
	// Sum of the token scores.
	// example: -12.4
	CumulatedScore float32 `json:"cumulated_score" example:"-12.4"`
	// Cumulated score divided by the token count.
	// example: -1.55
	NormalizedScore float32 `json:"normalized_score" example:"-1.55"`
	// Per-item failure; sibling items are unaffected.
	Error string `json:"error,omitempty"`
}

// ScoreResponse is returned by POST /score.
type ScoreResponse struct {
	Model   string      `json:"model"`
	Results []ScoreItem `json:"results"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// EngineStatus summarizes one loaded engine for /status.
type EngineStatus struct {
	// ID of the model this engine serves.
	// example: en-de-base
	ModelID string `json:"model_id" example:"en-de-base"`
	// Engine kind: translator, generator or whisper.
	// example: translator
	Kind string `json:"kind" example:"translator"`
	// Lifecycle state (loading, ready, error, closed).
	// example: ready
	State string `json:"state" example:"ready"`
	// Device the engine runs on.
	// example: cpu
	Device string `json:"device" example:"cpu"`
	// Compute type the engine runs with.
	// example: int8
	ComputeType string `json:"compute_type" example:"int8"`
	// Batches waiting in the native queue.
	// example: 0
	QueuedBatches int `json:"queued_batches" example:"0"`
	// Batches queued or being processed.
	// example: 1
	ActiveBatches int `json:"active_batches" example:"1"`
	// Model replicas in the native pool.
	// example: 1
	Replicas int `json:"replicas" example:"1"`
	// Last time this engine served a request (unix seconds).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
	// Last load or run error observed for this engine, if any.
	LastError string `json:"last_error,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Loaded engines.
	Engines []EngineStatus `json:"engines"`
	// True when the binary carries the native runtime.
	// example: true
	NativeAvailable bool `json:"native_available" example:"true"`
	// Overall daemon state (loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Optional top-level error message.
	Error string `json:"error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total number of engine loads since start.
	// example: 3
	LoadsTotal uint64 `json:"loads_total" example:"3"`
}
