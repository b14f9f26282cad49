package service

import (
	"context"

	"ct2d/internal/ct2"
	"ct2d/pkg/types"
)

// Translate runs one tokenized batch through a translation engine and
// returns the results in request order.
func (s *Service) Translate(ctx context.Context, req types.TranslateRequest) (types.TranslateResponse, error) {
	var resp types.TranslateResponse
	mdl, err := s.resolveModel(req.Model, types.KindTranslator)
	if err != nil {
		return resp, err
	}
	if len(req.Source) == 0 {
		return resp, ct2.ErrInvalidArgument("source batch is empty")
	}
	opts, err := translationOptions(req.Options)
	if err != nil {
		return resp, err
	}
	e, err := s.ensureEngine(ctx, mdl)
	if err != nil {
		return resp, err
	}
	release, err := s.beginWork(ctx, e)
	if err != nil {
		return resp, err
	}
	defer release()

	var results []ct2.TranslationResult
	if req.TargetPrefix != nil {
		results, err = e.translator.TranslateBatchWithTargetPrefix(req.Source, req.TargetPrefix, opts, nil)
	} else {
		results, err = e.translator.TranslateBatch(req.Source, opts, nil)
	}
	if err != nil {
		s.recordEngineError(e, err)
		return resp, err
	}

	resp.Model = mdl.ID
	resp.Results = make([]types.TranslationItem, len(results))
	for i, r := range results {
		if r.Err != nil {
			resp.Results[i] = types.TranslationItem{Error: r.Err.Error()}
			continue
		}
		resp.Results[i] = types.TranslationItem{
			Hypotheses: r.Hypotheses,
			Scores:     r.Scores,
		}
	}
	return resp, nil
}

// recordEngineError keeps the last run error visible in /status without
// tearing the engine down; per-call failures do not poison the handle.
func (s *Service) recordEngineError(e *engine, err error) {
	s.mu.Lock()
	e.lastErr = err.Error()
	s.mu.Unlock()
}
