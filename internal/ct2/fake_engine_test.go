package ct2

// In-memory stand-ins for the native engine. Futures resolve on a background
// goroutine in reverse submission order, so any test passing more than one
// batch item also checks that results are mapped back by submission index.

type outcome struct {
	res rawResult
	err error
}

type fakeFuture struct{ ch chan outcome }

func (f *fakeFuture) await() (rawResult, error) {
	o := <-f.ch
	return o.res, o.err
}

type fakeScoreFuture struct{ ch chan scoreOutcome }

type scoreOutcome struct {
	res rawScore
	err error
}

func (f *fakeScoreFuture) await() (rawScore, error) {
	o := <-f.ch
	return o.res, o.err
}

// scrambledFutures resolves items last-to-first.
func scrambledFutures(results []rawResult, itemErrs map[int]error) []itemFuture {
	fs := make([]*fakeFuture, len(results))
	for i := range fs {
		fs[i] = &fakeFuture{ch: make(chan outcome, 1)}
	}
	go func() {
		for i := len(fs) - 1; i >= 0; i-- {
			if err, ok := itemErrs[i]; ok {
				fs[i].ch <- outcome{err: err}
				continue
			}
			fs[i].ch <- outcome{res: results[i]}
		}
	}()
	out := make([]itemFuture, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

func scrambledScoreFutures(results []rawScore, itemErrs map[int]error) []scoreFuture {
	fs := make([]*fakeScoreFuture, len(results))
	for i := range fs {
		fs[i] = &fakeScoreFuture{ch: make(chan scoreOutcome, 1)}
	}
	go func() {
		for i := len(fs) - 1; i >= 0; i-- {
			if err, ok := itemErrs[i]; ok {
				fs[i].ch <- scoreOutcome{err: err}
				continue
			}
			fs[i].ch <- scoreOutcome{res: results[i]}
		}
	}()
	out := make([]scoreFuture, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

type fakeCounters struct {
	queued, active, reps int
}

func (f fakeCounters) queuedBatches() int { return f.queued }
func (f fakeCounters) activeBatches() int { return f.active }
func (f fakeCounters) replicas() int      { return f.reps }

// deliverSteps feeds the scripted steps through the bridge, dropping the rest
// of a batch item's steps once the callback asks to stop it. Returns the
// steps that were actually delivered.
func deliverSteps(step stepFunc, script []StepResult) []StepResult {
	if step == nil {
		return nil
	}
	stopped := make(map[int]bool)
	var delivered []StepResult
	for _, s := range script {
		if stopped[s.Batch] {
			continue
		}
		delivered = append(delivered, s)
		if !step(s) {
			stopped[s.Batch] = true
		}
	}
	return delivered
}

type fakeTranslator struct {
	fakeCounters
	results   []rawResult
	scores    []rawScore
	itemErrs  map[int]error
	submitErr error
	steps     []StepResult

	lastSource tokenMatrix
	lastPrefix tokenMatrix
	lastOpts   *nativeTranslationOptions
	sawNilStep bool
	delivered  []StepResult
	released   bool
}

func (f *fakeTranslator) translateBatch(source, targetPrefix tokenMatrix, opts *nativeTranslationOptions, step stepFunc) ([]itemFuture, error) {
	f.lastSource, f.lastPrefix, f.lastOpts = source, targetPrefix, opts
	if step == nil {
		f.sawNilStep = true
	}
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.delivered = deliverSteps(step, f.steps)
	return scrambledFutures(f.results, f.itemErrs), nil
}

func (f *fakeTranslator) scoreBatch(batch tokenMatrix, opts *nativeScoringOptions) ([]scoreFuture, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return scrambledScoreFutures(f.scores, f.itemErrs), nil
}

func (f *fakeTranslator) release() { f.released = true }

type fakeGenerator struct {
	fakeCounters
	results   []rawResult
	scores    []rawScore
	itemErrs  map[int]error
	submitErr error
	steps     []StepResult

	lastStart  tokenMatrix
	lastOpts   *nativeGenerationOptions
	sawNilStep bool
	delivered  []StepResult
	released   bool
}

func (f *fakeGenerator) generateBatch(startTokens tokenMatrix, opts *nativeGenerationOptions, step stepFunc) ([]itemFuture, error) {
	f.lastStart, f.lastOpts = startTokens, opts
	if step == nil {
		f.sawNilStep = true
	}
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.delivered = deliverSteps(step, f.steps)
	return scrambledFutures(f.results, f.itemErrs), nil
}

func (f *fakeGenerator) scoreBatch(batch tokenMatrix, opts *nativeScoringOptions) ([]scoreFuture, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return scrambledScoreFutures(f.scores, f.itemErrs), nil
}

func (f *fakeGenerator) release() { f.released = true }

type fakeWhisper struct {
	fakeCounters
	results    []rawResult
	itemErrs   map[int]error
	submitErr  error
	detections [][]langDetection
	multi      bool
	mels       int
	langs      int

	lastFeatures *Features
	lastPrompts  tokenMatrix
	lastOpts     *nativeWhisperOptions
	released     bool
}

func (f *fakeWhisper) generate(features *Features, prompts tokenMatrix, opts *nativeWhisperOptions) ([]itemFuture, error) {
	f.lastFeatures, f.lastPrompts, f.lastOpts = features, prompts, opts
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return scrambledFutures(f.results, f.itemErrs), nil
}

func (f *fakeWhisper) detectLanguage(features *Features) ([][]langDetection, error) {
	f.lastFeatures = features
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.detections, nil
}

func (f *fakeWhisper) isMultilingual() bool { return f.multi }
func (f *fakeWhisper) nMels() int           { return f.mels }
func (f *fakeWhisper) numLanguages() int    { return f.langs }
func (f *fakeWhisper) release()             { f.released = true }
