package service

import (
	"ct2d/internal/ct2"
	"ct2d/pkg/types"
)

// The wire options use zero values for "engine default", so every mapped
// field is guarded; unset knobs keep the ct2 defaults.

func endTokenFromWire(tokens []string) ct2.EndToken {
	switch len(tokens) {
	case 0:
		return nil
	case 1:
		return ct2.EndTokenText(tokens[0])
	default:
		return ct2.EndTokenAnyOf(tokens)
	}
}

func translationOptions(o types.DecodingOptions) (ct2.TranslationOptions, error) {
	opts := ct2.DefaultTranslationOptions()
	if o.BeamSize > 0 {
		opts.BeamSize = o.BeamSize
	}
	if o.NumHypotheses > 0 {
		opts.NumHypotheses = o.NumHypotheses
	}
	opts.ReturnScores = o.ReturnScores
	if o.LengthPenalty != 0 {
		opts.LengthPenalty = float32(o.LengthPenalty)
	}
	if o.RepetitionPenalty != 0 {
		opts.RepetitionPenalty = float32(o.RepetitionPenalty)
	}
	if o.NoRepeatNgramSize > 0 {
		opts.NoRepeatNgramSize = o.NoRepeatNgramSize
	}
	if o.MaxLength > 0 {
		opts.MaxDecodingLength = o.MaxLength
	}
	if o.MinLength > 0 {
		opts.MinDecodingLength = o.MinLength
	}
	if o.SamplingTopK > 0 {
		opts.SamplingTopK = o.SamplingTopK
	}
	if o.SamplingTopP != 0 {
		opts.SamplingTopP = float32(o.SamplingTopP)
	}
	if o.SamplingTemperature != 0 {
		opts.SamplingTemperature = float32(o.SamplingTemperature)
	}
	opts.SuppressSequences = o.Suppress
	opts.EndToken = endTokenFromWire(o.EndTokens)
	if o.MaxBatchSize > 0 {
		opts.MaxBatchSize = o.MaxBatchSize
	}
	bt, err := ct2.ParseBatchType(o.BatchType)
	if err != nil {
		return opts, err
	}
	opts.BatchType = bt
	return opts, nil
}

func generationOptions(o types.DecodingOptions) (ct2.GenerationOptions, error) {
	opts := ct2.DefaultGenerationOptions()
	if o.BeamSize > 0 {
		opts.BeamSize = o.BeamSize
	}
	if o.NumHypotheses > 0 {
		opts.NumHypotheses = o.NumHypotheses
	}
	opts.ReturnScores = o.ReturnScores
	if o.LengthPenalty != 0 {
		opts.LengthPenalty = float32(o.LengthPenalty)
	}
	if o.RepetitionPenalty != 0 {
		opts.RepetitionPenalty = float32(o.RepetitionPenalty)
	}
	if o.NoRepeatNgramSize > 0 {
		opts.NoRepeatNgramSize = o.NoRepeatNgramSize
	}
	if o.MaxLength > 0 {
		opts.MaxLength = o.MaxLength
	}
	if o.MinLength > 0 {
		opts.MinLength = o.MinLength
	}
	if o.SamplingTopK > 0 {
		opts.SamplingTopK = o.SamplingTopK
	}
	if o.SamplingTopP != 0 {
		opts.SamplingTopP = float32(o.SamplingTopP)
	}
	if o.SamplingTemperature != 0 {
		opts.SamplingTemperature = float32(o.SamplingTemperature)
	}
	opts.SuppressSequences = o.Suppress
	opts.EndToken = endTokenFromWire(o.EndTokens)
	if o.MaxBatchSize > 0 {
		opts.MaxBatchSize = o.MaxBatchSize
	}
	bt, err := ct2.ParseBatchType(o.BatchType)
	if err != nil {
		return opts, err
	}
	opts.BatchType = bt
	return opts, nil
}

func whisperOptions(o types.DecodingOptions) ct2.WhisperOptions {
	opts := ct2.DefaultWhisperOptions()
	if o.BeamSize > 0 {
		opts.BeamSize = o.BeamSize
	}
	if o.NumHypotheses > 0 {
		opts.NumHypotheses = o.NumHypotheses
	}
	opts.ReturnScores = o.ReturnScores
	if o.LengthPenalty != 0 {
		opts.LengthPenalty = float32(o.LengthPenalty)
	}
	if o.RepetitionPenalty != 0 {
		opts.RepetitionPenalty = float32(o.RepetitionPenalty)
	}
	if o.NoRepeatNgramSize > 0 {
		opts.NoRepeatNgramSize = o.NoRepeatNgramSize
	}
	if o.MaxLength > 0 {
		opts.MaxLength = o.MaxLength
	}
	if o.SamplingTopK > 0 {
		opts.SamplingTopK = o.SamplingTopK
	}
	if o.SamplingTemperature != 0 {
		opts.SamplingTemperature = float32(o.SamplingTemperature)
	}
	return opts
}

func scoringOptions(maxInputLength int, offset int64) ct2.ScoringOptions {
	opts := ct2.DefaultScoringOptions()
	if maxInputLength > 0 {
		opts.MaxInputLength = maxInputLength
	}
	opts.Offset = offset
	return opts
}
