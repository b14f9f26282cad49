package service

import (
	"context"
	"testing"

	"ct2d/internal/ct2"
	"ct2d/pkg/types"
)

func TestScoreViaTranslator(t *testing.T) {
	s := newTestService(&fakeRuntime{})
	resp, err := s.Score(context.Background(), types.ScoreRequest{
		Model:  "en-de",
		Tokens: [][]string{{"▁a", "▁b"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	item := resp.Results[0]
	if len(item.TokenScores) != 2 {
		t.Fatalf("scores=%v", item.TokenScores)
	}
	if item.CumulatedScore != -2 {
		t.Fatalf("cumulated=%v", item.CumulatedScore)
	}
	if item.NormalizedScore != -1 {
		t.Fatalf("normalized=%v", item.NormalizedScore)
	}
}

func TestScoreViaGenerator(t *testing.T) {
	s := newTestService(&fakeRuntime{})
	resp, err := s.Score(context.Background(), types.ScoreRequest{
		Model:  "gpt2",
		Tokens: [][]string{{"<s>", "a", "b"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Model != "gpt2" || len(resp.Results) != 1 {
		t.Fatalf("resp=%+v", resp)
	}
}

func TestScoreDefaultsToTranslator(t *testing.T) {
	s := newTestService(&fakeRuntime{})
	resp, err := s.Score(context.Background(), types.ScoreRequest{Tokens: [][]string{{"a"}}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Model != "en-de" {
		t.Fatalf("model=%q", resp.Model)
	}
}

func TestScoreFallsBackToGeneratorDefault(t *testing.T) {
	s := NewWithConfig(Config{
		Registry:         testRegistry(),
		DefaultGenerator: "gpt2",
		Runtime:          &fakeRuntime{},
	})
	resp, err := s.Score(context.Background(), types.ScoreRequest{Tokens: [][]string{{"a"}}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Model != "gpt2" {
		t.Fatalf("model=%q", resp.Model)
	}
}

func TestScoreRejectsWhisper(t *testing.T) {
	s := newTestService(&fakeRuntime{})
	_, err := s.Score(context.Background(), types.ScoreRequest{
		Model:  "whisper-base",
		Tokens: [][]string{{"a"}},
	})
	if !IsWrongKind(err) {
		t.Fatalf("err=%v", err)
	}
}

func TestScoreEmptyBatchInvalid(t *testing.T) {
	s := newTestService(&fakeRuntime{})
	_, err := s.Score(context.Background(), types.ScoreRequest{Model: "en-de"})
	if !ct2.IsInvalidArgument(err) {
		t.Fatalf("err=%v", err)
	}
}
