package ct2

import (
	"reflect"
	"testing"
)

func TestAdaptEndToken(t *testing.T) {
	cases := []struct {
		name    string
		in      EndToken
		want    nativeEndToken
		wantErr bool
	}{
		{name: "nil keeps model default", in: nil, want: nativeEndToken{kind: endTokenKindDefault}},
		{name: "single token", in: EndTokenText("</s>"), want: nativeEndToken{kind: endTokenKindText, texts: []string{"</s>"}}},
		{name: "any of tokens", in: EndTokenAnyOf{"</s>", "<|end|>"}, want: nativeEndToken{kind: endTokenKindAnyOf, texts: []string{"</s>", "<|end|>"}}},
		{name: "token ids", in: EndTokenIDs{2, 50256}, want: nativeEndToken{kind: endTokenKindIDs, ids: []int32{2, 50256}}},
		{name: "empty text rejected", in: EndTokenText(""), wantErr: true},
		{name: "empty list rejected", in: EndTokenAnyOf{}, wantErr: true},
		{name: "empty id list rejected", in: EndTokenIDs{}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := adaptEndToken(tc.in)
			if tc.wantErr {
				if !IsInvalidArgument(err) {
					t.Fatalf("want invalid argument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestAdaptEndTokenCopiesInput(t *testing.T) {
	list := EndTokenAnyOf{"</s>"}
	got, err := adaptEndToken(list)
	if err != nil {
		t.Fatal(err)
	}
	list[0] = "mutated"
	if got.texts[0] != "</s>" {
		t.Fatal("adapted end token aliases the caller's slice")
	}
}

func TestTranslationOptionsValidate(t *testing.T) {
	opts := DefaultTranslationOptions()
	if err := opts.validate(false); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	// Beam search and per-step callbacks are mutually exclusive.
	if err := opts.validate(true); !IsInvalidArgument(err) {
		t.Fatalf("beam size 2 with callback: want invalid argument, got %v", err)
	}
	opts.BeamSize = 1
	if err := opts.validate(true); err != nil {
		t.Fatalf("beam size 1 with callback: %v", err)
	}
	opts.BeamSize = 0
	if err := opts.validate(false); !IsInvalidArgument(err) {
		t.Fatalf("beam size 0: want invalid argument, got %v", err)
	}
	opts = DefaultTranslationOptions()
	opts.NumHypotheses = 0
	if err := opts.validate(false); !IsInvalidArgument(err) {
		t.Fatalf("zero hypotheses: want invalid argument, got %v", err)
	}
}

func TestGenerationOptionsDefaults(t *testing.T) {
	opts := DefaultGenerationOptions()
	if opts.BeamSize != 1 || opts.MaxLength != 512 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if !opts.CacheStaticPrompt || !opts.IncludePromptInResult {
		t.Fatalf("prompt defaults flipped: %+v", opts)
	}
	if err := opts.validate(true); err != nil {
		t.Fatalf("greedy defaults must allow a callback: %v", err)
	}
}

func TestWhisperOptionsDefaults(t *testing.T) {
	opts := DefaultWhisperOptions()
	if opts.BeamSize != 5 || opts.MaxLength != 448 || opts.MaxInitialTimestampIndex != 50 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if !opts.SuppressBlank {
		t.Fatal("SuppressBlank must default on")
	}
	if len(opts.SuppressTokens) != 1 || opts.SuppressTokens[0] != -1 {
		t.Fatalf("SuppressTokens must default to {-1}, got %v", opts.SuppressTokens)
	}
	if err := opts.validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestTranslationOptionsToNative(t *testing.T) {
	opts := DefaultTranslationOptions()
	opts.SuppressSequences = [][]string{{"bad", "words"}, {"worse"}}
	opts.EndToken = EndTokenText("<stop>")
	opts.BatchType = BatchByTokens
	no, err := opts.toNative()
	if err != nil {
		t.Fatal(err)
	}
	if no.batchType != 1 {
		t.Errorf("batchType = %d, want 1", no.batchType)
	}
	if no.endToken.kind != endTokenKindText {
		t.Errorf("endToken.kind = %d, want text", no.endToken.kind)
	}
	if got := no.suppressSequences.rows(); !reflect.DeepEqual(got, opts.SuppressSequences) {
		t.Errorf("suppress sequences round trip mismatch: %v", got)
	}
}

func TestOptionsToNativeRejectsBadEnums(t *testing.T) {
	opts := DefaultTranslationOptions()
	opts.BatchType = BatchType(7)
	if _, err := opts.toNative(); !IsInvalidArgument(err) {
		t.Fatalf("bad batch type: want invalid argument, got %v", err)
	}
	gopts := DefaultGenerationOptions()
	gopts.EndToken = EndTokenAnyOf{}
	if _, err := gopts.toNative(); !IsInvalidArgument(err) {
		t.Fatalf("empty end token list: want invalid argument, got %v", err)
	}
}
