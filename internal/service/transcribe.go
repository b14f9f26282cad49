package service

import (
	"context"

	"ct2d/internal/ct2"
	"ct2d/pkg/types"
)

// Transcribe runs one mel spectrogram batch through a Whisper engine and
// returns the results in request order, optionally with per-item language
// candidates.
func (s *Service) Transcribe(ctx context.Context, req types.TranscribeRequest) (types.TranscribeResponse, error) {
	var resp types.TranscribeResponse
	mdl, err := s.resolveModel(req.Model, types.KindWhisper)
	if err != nil {
		return resp, err
	}
	features, err := ct2.NewFeatures(req.Features.Shape, req.Features.Data)
	if err != nil {
		return resp, err
	}
	opts := whisperOptions(req.Options)
	opts.ReturnNoSpeechProb = req.ReturnNoSpeechProb
	e, err := s.ensureEngine(ctx, mdl)
	if err != nil {
		return resp, err
	}
	release, err := s.beginWork(ctx, e)
	if err != nil {
		return resp, err
	}
	defer release()

	var detections [][]ct2.LanguageDetection
	if req.DetectLanguage {
		detections, err = e.whisper.DetectLanguage(features)
		if err != nil {
			s.recordEngineError(e, err)
			return resp, err
		}
	}

	results, err := e.whisper.Generate(features, req.Prompts, opts)
	if err != nil {
		s.recordEngineError(e, err)
		return resp, err
	}

	resp.Model = mdl.ID
	resp.Results = make([]types.TranscriptionItem, len(results))
	for i, r := range results {
		if r.Err != nil {
			resp.Results[i] = types.TranscriptionItem{Error: r.Err.Error()}
			continue
		}
		item := types.TranscriptionItem{
			Sequences:    r.Sequences,
			Scores:       r.Scores,
			NoSpeechProb: r.NoSpeechProb,
		}
		if i < len(detections) {
			item.DetectedLanguages = make([]types.LanguageCandidate, len(detections[i]))
			for j, d := range detections[i] {
				item.DetectedLanguages[j] = types.LanguageCandidate{
					Language:    d.Language,
					Probability: d.Probability,
				}
			}
		}
		resp.Results[i] = item
	}
	return resp, nil
}
