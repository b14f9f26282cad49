package service

import (
	"context"

	"ct2d/internal/ct2"
	"ct2d/pkg/types"
)

// Score computes token-level log likelihoods on a translator or generator.
// The model's kind decides which engine scores the batch.
func (s *Service) Score(ctx context.Context, req types.ScoreRequest) (types.ScoreResponse, error) {
	var resp types.ScoreResponse
	mdl, err := s.resolveScoringModel(req.Model)
	if err != nil {
		return resp, err
	}
	if len(req.Tokens) == 0 {
		return resp, ct2.ErrInvalidArgument("tokens batch is empty")
	}
	opts := scoringOptions(req.MaxInputLength, req.Offset)
	e, err := s.ensureEngine(ctx, mdl)
	if err != nil {
		return resp, err
	}
	release, err := s.beginWork(ctx, e)
	if err != nil {
		return resp, err
	}
	defer release()

	var results []ct2.ScoringResult
	switch mdl.Kind {
	case types.KindTranslator:
		results, err = e.translator.ScoreBatch(req.Tokens, opts)
	case types.KindGenerator:
		results, err = e.generator.ScoreBatch(req.Tokens, opts)
	}
	if err != nil {
		s.recordEngineError(e, err)
		return resp, err
	}

	resp.Model = mdl.ID
	resp.Results = make([]types.ScoreItem, len(results))
	for i, r := range results {
		if r.Err != nil {
			resp.Results[i] = types.ScoreItem{Error: r.Err.Error()}
			continue
		}
		resp.Results[i] = types.ScoreItem{
			Tokens:          r.Tokens,
			TokenScores:     r.TokenScores,
			CumulatedScore:  r.CumulatedScore(),
			NormalizedScore: r.NormalizedScore(),
		}
	}
	return resp, nil
}

// resolveScoringModel accepts translator and generator models; whisper
// engines do not score.
func (s *Service) resolveScoringModel(requested string) (types.Model, error) {
	id := requested
	if id == "" {
		id = s.defaultTranslator
		if id == "" {
			id = s.defaultGenerator
		}
		if id == "" {
			return types.Model{}, modelNotFoundError{id: "(unspecified)"}
		}
	}
	mdl, ok := s.getModelByID(id)
	if !ok {
		return types.Model{}, modelNotFoundError{id: id}
	}
	if mdl.Kind != types.KindTranslator && mdl.Kind != types.KindGenerator {
		return types.Model{}, wrongKindError{id: id, want: "translator or generator", got: mdl.Kind}
	}
	return mdl, nil
}
