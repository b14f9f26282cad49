package service

import (
	"context"
	"encoding/json"
	"io"

	"ct2d/internal/ct2"
	"ct2d/pkg/types"
)

func applyGenerateRequest(req types.GenerateRequest, opts *ct2.GenerationOptions) {
	opts.StaticPrompt = req.StaticPrompt
	if req.IncludePromptInResult != nil {
		opts.IncludePromptInResult = *req.IncludePromptInResult
	}
}

// Generate runs one tokenized batch through a generation engine and returns
// the results in request order.
func (s *Service) Generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error) {
	var resp types.GenerateResponse
	mdl, err := s.resolveModel(req.Model, types.KindGenerator)
	if err != nil {
		return resp, err
	}
	if len(req.StartTokens) == 0 {
		return resp, ct2.ErrInvalidArgument("start_tokens batch is empty")
	}
	opts, err := generationOptions(req.Options)
	if err != nil {
		return resp, err
	}
	applyGenerateRequest(req, &opts)
	e, err := s.ensureEngine(ctx, mdl)
	if err != nil {
		return resp, err
	}
	release, err := s.beginWork(ctx, e)
	if err != nil {
		return resp, err
	}
	defer release()

	results, err := e.generator.GenerateBatch(req.StartTokens, opts, nil)
	if err != nil {
		s.recordEngineError(e, err)
		return resp, err
	}

	resp.Model = mdl.ID
	resp.Results = make([]types.GenerationItem, len(results))
	for i, r := range results {
		if r.Err != nil {
			resp.Results[i] = types.GenerationItem{Error: r.Err.Error()}
			continue
		}
		resp.Results[i] = types.GenerationItem{
			Sequences:   r.Sequences,
			SequenceIDs: r.SequenceIDs,
			Scores:      r.Scores,
		}
	}
	return resp, nil
}

// GenerateStream runs a single-item greedy generation and writes one NDJSON
// token event per decoding step to w. Streaming requires beam_size 1 and
// exactly one batch item; the final line carries done=true or an error.
func (s *Service) GenerateStream(ctx context.Context, req types.GenerateRequest, w io.Writer, flusher func()) error {
	mdl, err := s.resolveModel(req.Model, types.KindGenerator)
	if err != nil {
		return err
	}
	if len(req.StartTokens) != 1 {
		return ct2.ErrInvalidArgument("streaming requires exactly one batch item")
	}
	opts, err := generationOptions(req.Options)
	if err != nil {
		return err
	}
	if req.Options.BeamSize == 0 {
		opts.BeamSize = 1
	}
	applyGenerateRequest(req, &opts)
	e, err := s.ensureEngine(ctx, mdl)
	if err != nil {
		return err
	}
	release, err := s.beginWork(ctx, e)
	if err != nil {
		return err
	}
	defer release()

	// The callback runs on a native worker thread while this goroutine
	// blocks inside GenerateBatch, so the write error is handed back
	// through the channel, not a shared variable.
	type lineErr struct{ err error }
	writeFailed := make(chan lineErr, 1)
	cb := func(r ct2.StepResult) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		ev := types.TokenEvent{
			Step:    r.Step,
			Item:    r.Batch,
			Token:   r.Token,
			TokenID: r.TokenID,
			Done:    r.IsLast,
		}
		if r.HasLogProb {
			lp := r.LogProb
			ev.LogProb = &lp
		}
		if err := writeEvent(w, flusher, ev); err != nil {
			select {
			case writeFailed <- lineErr{err: err}:
			default:
			}
			return false
		}
		return true
	}

	_, err = e.generator.GenerateBatch(req.StartTokens, opts, cb)
	select {
	case le := <-writeFailed:
		return le.err
	default:
	}
	if err != nil {
		s.recordEngineError(e, err)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return writeEvent(w, flusher, types.TokenEvent{Done: true})
}

func writeEvent(w io.Writer, flusher func(), ev types.TokenEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return err
	}
	if flusher != nil {
		flusher()
	}
	return nil
}
