//go:build ct2

package ct2

/*
#cgo CFLAGS: -I${SRCDIR}
#cgo LDFLAGS: -L${SRCDIR}/../../third_party/ctranslate2/build -Wl,-rpath,${SRCDIR}/../../third_party/ctranslate2/build -lct2shim -lctranslate2 -lstdc++ -lm

#include <stdlib.h>
#include "ct2shim.h"

bool ct2goStep(const ct2_step_result* step, void* user_data);
*/
import "C"

import (
	"runtime/cgo"
	"sync/atomic"
	"unsafe"
)

// The shim copies every input buffer before its submission functions return,
// so all C allocations made here are freed as soon as the call comes back.
// The only state that must outlive submission is the step-callback handle,
// which is dropped once every future of the batch has been awaited.

const nativeBuilt = true

// Available reports whether this binary was built with the native engine.
func Available() bool { return true }

// GetDeviceCount returns the number of devices of the given kind visible to
// the engine.
func GetDeviceCount(d Device) int {
	code, err := d.toNative()
	if err != nil {
		return 0
	}
	return int(C.ct2_get_device_count(C.int32_t(code)))
}

func takeError(cerr *C.char) string {
	if cerr == nil {
		return "unknown native error"
	}
	msg := C.GoString(cerr)
	C.ct2_string_free(cerr)
	return msg
}

// cStrMatrix owns the C copies of a flattened string matrix.
type cStrMatrix struct {
	m     C.ct2_str_matrix
	cells []*C.char
	flat  unsafe.Pointer
	lens  unsafe.Pointer
}

func newCStrMatrix(m tokenMatrix) *cStrMatrix {
	cm := &cStrMatrix{}
	cm.cells = make([]*C.char, len(m.flat))
	if len(m.flat) > 0 {
		cm.flat = C.malloc(C.size_t(len(m.flat)) * C.size_t(unsafe.Sizeof(uintptr(0))))
		arr := (*[1 << 30]*C.char)(cm.flat)
		for i, s := range m.flat {
			cm.cells[i] = C.CString(s)
			arr[i] = cm.cells[i]
		}
		cm.m.flat = (**C.char)(cm.flat)
	}
	if len(m.lens) > 0 {
		cm.lens = C.malloc(C.size_t(len(m.lens)) * C.size_t(unsafe.Sizeof(C.size_t(0))))
		arr := (*[1 << 30]C.size_t)(cm.lens)
		for i, n := range m.lens {
			arr[i] = C.size_t(n)
		}
		cm.m.lens = (*C.size_t)(cm.lens)
	}
	cm.m.rows = C.size_t(len(m.lens))
	return cm
}

func (cm *cStrMatrix) free() {
	for _, c := range cm.cells {
		C.free(unsafe.Pointer(c))
	}
	if cm.flat != nil {
		C.free(cm.flat)
	}
	if cm.lens != nil {
		C.free(cm.lens)
	}
}

// cStrList owns a C copy of a flat string list.
type cStrList struct {
	ptr   unsafe.Pointer
	cells []*C.char
	n     C.size_t
}

func newCStrList(ss []string) *cStrList {
	cl := &cStrList{n: C.size_t(len(ss))}
	if len(ss) == 0 {
		return cl
	}
	cl.cells = make([]*C.char, len(ss))
	cl.ptr = C.malloc(C.size_t(len(ss)) * C.size_t(unsafe.Sizeof(uintptr(0))))
	arr := (*[1 << 30]*C.char)(cl.ptr)
	for i, s := range ss {
		cl.cells[i] = C.CString(s)
		arr[i] = cl.cells[i]
	}
	return cl
}

func (cl *cStrList) free() {
	for _, c := range cl.cells {
		C.free(unsafe.Pointer(c))
	}
	if cl.ptr != nil {
		C.free(cl.ptr)
	}
}

func newCInt32s(vs []int32) (unsafe.Pointer, C.size_t) {
	if len(vs) == 0 {
		return nil, 0
	}
	p := C.malloc(C.size_t(len(vs)) * C.size_t(unsafe.Sizeof(C.int32_t(0))))
	arr := (*[1 << 30]C.int32_t)(p)
	for i, v := range vs {
		arr[i] = C.int32_t(v)
	}
	return p, C.size_t(len(vs))
}

func newCConfig(cfg *nativeConfig) (*C.ct2_config, func()) {
	idx, nidx := newCInt32s(cfg.deviceIndices)
	cc := &C.ct2_config{
		device:                  C.int32_t(cfg.device),
		compute_type:            C.int32_t(cfg.computeType),
		device_indices:          (*C.int32_t)(idx),
		num_device_indices:      nidx,
		tensor_parallel:         C.bool(cfg.tensorParallel),
		num_threads_per_replica: C.size_t(cfg.threadsPerReplica),
		max_queued_batches:      C.int32_t(cfg.maxQueuedBatches),
		cpu_core_offset:         C.int32_t(cfg.cpuCoreOffset),
	}
	return cc, func() {
		if idx != nil {
			C.free(idx)
		}
	}
}

func newCModelSource(src ModelSource) (cdir *C.char, creader *C.ct2_model_reader, free func()) {
	switch s := src.(type) {
	case Dir:
		cdir = C.CString(string(s))
		return cdir, nil, func() { C.free(unsafe.Pointer(cdir)) }
	case *MemoryReader:
		cid := C.CString(s.modelID)
		creader = C.ct2_model_reader_new(cid)
		C.free(unsafe.Pointer(cid))
		for _, f := range s.files {
			cname := C.CString(f.name)
			var p *C.uint8_t
			if len(f.data) > 0 {
				p = (*C.uint8_t)(unsafe.Pointer(&f.data[0]))
			}
			C.ct2_model_reader_register_file(creader, cname, p, C.size_t(len(f.data)))
			C.free(unsafe.Pointer(cname))
		}
		return nil, creader, func() { C.ct2_model_reader_free(creader) }
	}
	return nil, nil, func() {}
}

// batchState keeps the callback handle alive until every item future of a
// batch has been awaited.
type batchState struct {
	handle    cgo.Handle
	hasHandle bool
	remaining atomic.Int32
}

func newBatchState(step stepFunc, n int) *batchState {
	bs := &batchState{}
	bs.remaining.Store(int32(n))
	if step != nil {
		bs.handle = cgo.NewHandle(step)
		bs.hasHandle = true
	}
	return bs
}

func (bs *batchState) itemDone() {
	if bs.remaining.Add(-1) == 0 && bs.hasHandle {
		bs.handle.Delete()
	}
}

//export ct2goStep
func ct2goStep(step *C.ct2_step_result, userData unsafe.Pointer) C.bool {
	fn := cgo.Handle(uintptr(userData)).Value().(stepFunc)
	r := StepResult{
		Step:       int(step.step),
		Batch:      int(step.batch_id),
		Hypothesis: int(step.hypothesis_id),
		TokenID:    int32(step.token_id),
		Token:      C.GoString(step.token),
		HasLogProb: bool(step.has_log_prob),
		LogProb:    float32(step.log_prob),
		IsLast:     bool(step.is_last),
	}
	return C.bool(fn(r))
}

// cgoFuture resolves one batch item from the native engine.
type cgoFuture struct {
	ptr   *C.ct2_future
	state *batchState
}

func (f *cgoFuture) await() (rawResult, error) {
	defer f.state.itemDone()
	var out *C.ct2_result
	var cerr *C.char
	if rc := C.ct2_future_await(f.ptr, &out, &cerr); rc != 0 {
		return rawResult{}, ErrNativeRuntime(takeError(cerr))
	}
	defer C.ct2_result_free(out)
	return goResult(out), nil
}

func (f *cgoFuture) awaitScore() (rawScore, error) {
	defer f.state.itemDone()
	var out *C.ct2_score_result
	var cerr *C.char
	if rc := C.ct2_future_await_score(f.ptr, &out, &cerr); rc != 0 {
		return rawScore{}, ErrNativeRuntime(takeError(cerr))
	}
	defer C.ct2_score_result_free(out)
	return goScore(out), nil
}

// cgoScoreFuture adapts a cgoFuture to the scoring result shape.
type cgoScoreFuture struct{ f *cgoFuture }

func (s *cgoScoreFuture) await() (rawScore, error) { return s.f.awaitScore() }

func goResult(r *C.ct2_result) rawResult {
	out := rawResult{noSpeechProb: float32(r.no_speech_prob)}
	nh := int(r.num_hypotheses)
	if nh > 0 {
		lens := (*[1 << 30]C.size_t)(unsafe.Pointer(r.hyp_lens))[:nh:nh]
		var total int
		out.hypotheses.lens = make([]int, nh)
		for i, n := range lens {
			out.hypotheses.lens[i] = int(n)
			total += int(n)
		}
		cells := (*[1 << 30]*C.char)(unsafe.Pointer(r.hyp_flat))[:total:total]
		out.hypotheses.flat = make([]string, total)
		for i, c := range cells {
			out.hypotheses.flat[i] = C.GoString(c)
		}
	}
	ni := int(r.num_id_rows)
	if ni > 0 {
		lens := (*[1 << 30]C.size_t)(unsafe.Pointer(r.id_lens))[:ni:ni]
		var total int
		out.ids.lens = make([]int, ni)
		for i, n := range lens {
			out.ids.lens[i] = int(n)
			total += int(n)
		}
		ids := (*[1 << 30]C.int32_t)(unsafe.Pointer(r.id_flat))[:total:total]
		out.ids.flat = make([]int32, total)
		for i, v := range ids {
			out.ids.flat[i] = int32(v)
		}
	}
	ns := int(r.num_scores)
	if ns > 0 {
		scores := (*[1 << 30]C.float)(unsafe.Pointer(r.scores))[:ns:ns]
		out.scores = make([]float32, ns)
		for i, v := range scores {
			out.scores[i] = float32(v)
		}
	}
	return out
}

func goScore(r *C.ct2_score_result) rawScore {
	n := int(r.num_tokens)
	out := rawScore{}
	if n == 0 {
		return out
	}
	tokens := (*[1 << 30]*C.char)(unsafe.Pointer(r.tokens))[:n:n]
	scores := (*[1 << 30]C.float)(unsafe.Pointer(r.token_scores))[:n:n]
	out.tokens = make([]string, n)
	out.tokenScores = make([]float32, n)
	for i := range tokens {
		out.tokens[i] = C.GoString(tokens[i])
		out.tokenScores[i] = float32(scores[i])
	}
	return out
}

func wrapScoreFutures(futures **C.ct2_future, n C.size_t) []scoreFuture {
	count := int(n)
	state := newBatchState(nil, count)
	out := make([]scoreFuture, count)
	if count > 0 {
		arr := (*[1 << 30]*C.ct2_future)(unsafe.Pointer(futures))[:count:count]
		for i, p := range arr {
			out[i] = &cgoScoreFuture{f: &cgoFuture{ptr: p, state: state}}
		}
		C.ct2_futures_free(futures, n)
	}
	return out
}

func stepCallbackArgs(step stepFunc, state *batchState) (C.ct2_step_callback, unsafe.Pointer) {
	if step == nil {
		return nil, nil
	}
	return C.ct2_step_callback(C.ct2goStep), unsafe.Pointer(uintptr(state.handle))
}

// cgoTranslator wraps one native translator replica pool.
type cgoTranslator struct{ ptr *C.ct2_translator }

func openTranslator(src ModelSource, cfg *nativeConfig) (nativeTranslator, error) {
	cdir, creader, freeSrc := newCModelSource(src)
	defer freeSrc()
	cc, freeCfg := newCConfig(cfg)
	defer freeCfg()
	var out *C.ct2_translator
	var cerr *C.char
	if rc := C.ct2_translator_open(cdir, creader, cc, &out, &cerr); rc != 0 {
		return nil, ErrModelLoad(takeError(cerr))
	}
	return &cgoTranslator{ptr: out}, nil
}

func (t *cgoTranslator) translateBatch(source, targetPrefix tokenMatrix, opts *nativeTranslationOptions, step stepFunc) ([]itemFuture, error) {
	csrc := newCStrMatrix(source)
	defer csrc.free()
	cpre := newCStrMatrix(targetPrefix)
	defer cpre.free()
	copts, freeOpts := newCTranslationOptions(opts)
	defer freeOpts()

	// The handle must exist before submission; wrapFutures re-binds the
	// per-item accounting afterwards.
	pre := newBatchState(step, len(source.lens))
	cb, ud := stepCallbackArgs(step, pre)

	var futures **C.ct2_future
	var n C.size_t
	var cerr *C.char
	if rc := C.ct2_translator_translate_batch(t.ptr, &csrc.m, &cpre.m, copts, cb, ud, &futures, &n, &cerr); rc != 0 {
		if pre.hasHandle {
			pre.handle.Delete()
		}
		return nil, ErrNativeRuntime(takeError(cerr))
	}
	return adoptFutures(futures, n, pre), nil
}

func (t *cgoTranslator) scoreBatch(batch tokenMatrix, opts *nativeScoringOptions) ([]scoreFuture, error) {
	cb := newCStrMatrix(batch)
	defer cb.free()
	copts := &C.ct2_scoring_options{
		max_input_length: C.size_t(opts.maxInputLength),
		offset:           C.int64_t(opts.offset),
		max_batch_size:   C.size_t(opts.maxBatchSize),
		batch_type:       C.int32_t(opts.batchType),
	}
	var futures **C.ct2_future
	var n C.size_t
	var cerr *C.char
	if rc := C.ct2_translator_score_batch(t.ptr, &cb.m, copts, &futures, &n, &cerr); rc != 0 {
		return nil, ErrNativeRuntime(takeError(cerr))
	}
	return wrapScoreFutures(futures, n), nil
}

func (t *cgoTranslator) queuedBatches() int { return int(C.ct2_translator_num_queued_batches(t.ptr)) }
func (t *cgoTranslator) activeBatches() int { return int(C.ct2_translator_num_active_batches(t.ptr)) }
func (t *cgoTranslator) replicas() int      { return int(C.ct2_translator_num_replicas(t.ptr)) }
func (t *cgoTranslator) release()           { C.ct2_translator_release(t.ptr) }

// cgoGenerator wraps one native generator replica pool.
type cgoGenerator struct{ ptr *C.ct2_generator }

func openGenerator(src ModelSource, cfg *nativeConfig) (nativeGenerator, error) {
	cdir, creader, freeSrc := newCModelSource(src)
	defer freeSrc()
	cc, freeCfg := newCConfig(cfg)
	defer freeCfg()
	var out *C.ct2_generator
	var cerr *C.char
	if rc := C.ct2_generator_open(cdir, creader, cc, &out, &cerr); rc != 0 {
		return nil, ErrModelLoad(takeError(cerr))
	}
	return &cgoGenerator{ptr: out}, nil
}

func (g *cgoGenerator) generateBatch(startTokens tokenMatrix, opts *nativeGenerationOptions, step stepFunc) ([]itemFuture, error) {
	cst := newCStrMatrix(startTokens)
	defer cst.free()
	copts, freeOpts := newCGenerationOptions(opts)
	defer freeOpts()

	pre := newBatchState(step, len(startTokens.lens))
	cb, ud := stepCallbackArgs(step, pre)

	var futures **C.ct2_future
	var n C.size_t
	var cerr *C.char
	if rc := C.ct2_generator_generate_batch(g.ptr, &cst.m, copts, cb, ud, &futures, &n, &cerr); rc != 0 {
		if pre.hasHandle {
			pre.handle.Delete()
		}
		return nil, ErrNativeRuntime(takeError(cerr))
	}
	return adoptFutures(futures, n, pre), nil
}

func (g *cgoGenerator) scoreBatch(batch tokenMatrix, opts *nativeScoringOptions) ([]scoreFuture, error) {
	cb := newCStrMatrix(batch)
	defer cb.free()
	copts := &C.ct2_scoring_options{
		max_input_length: C.size_t(opts.maxInputLength),
		offset:           C.int64_t(opts.offset),
		max_batch_size:   C.size_t(opts.maxBatchSize),
		batch_type:       C.int32_t(opts.batchType),
	}
	var futures **C.ct2_future
	var n C.size_t
	var cerr *C.char
	if rc := C.ct2_generator_score_batch(g.ptr, &cb.m, copts, &futures, &n, &cerr); rc != 0 {
		return nil, ErrNativeRuntime(takeError(cerr))
	}
	return wrapScoreFutures(futures, n), nil
}

func (g *cgoGenerator) queuedBatches() int { return int(C.ct2_generator_num_queued_batches(g.ptr)) }
func (g *cgoGenerator) activeBatches() int { return int(C.ct2_generator_num_active_batches(g.ptr)) }
func (g *cgoGenerator) replicas() int      { return int(C.ct2_generator_num_replicas(g.ptr)) }
func (g *cgoGenerator) release()           { C.ct2_generator_release(g.ptr) }

// cgoWhisper wraps one native Whisper replica pool.
type cgoWhisper struct{ ptr *C.ct2_whisper }

func openWhisper(src ModelSource, cfg *nativeConfig) (nativeWhisper, error) {
	cdir, creader, freeSrc := newCModelSource(src)
	defer freeSrc()
	cc, freeCfg := newCConfig(cfg)
	defer freeCfg()
	var out *C.ct2_whisper
	var cerr *C.char
	if rc := C.ct2_whisper_open(cdir, creader, cc, &out, &cerr); rc != 0 {
		return nil, ErrModelLoad(takeError(cerr))
	}
	return &cgoWhisper{ptr: out}, nil
}

func cFeatures(f *Features) (*C.size_t, *C.float, func()) {
	shape := C.malloc(3 * C.size_t(unsafe.Sizeof(C.size_t(0))))
	sarr := (*[3]C.size_t)(shape)
	for i, d := range f.shape {
		sarr[i] = C.size_t(d)
	}
	data := C.malloc(C.size_t(len(f.data)) * C.size_t(unsafe.Sizeof(C.float(0))))
	darr := (*[1 << 30]C.float)(data)
	for i, v := range f.data {
		darr[i] = C.float(v)
	}
	return (*C.size_t)(shape), (*C.float)(data), func() {
		C.free(shape)
		C.free(data)
	}
}

func (w *cgoWhisper) generate(features *Features, prompts tokenMatrix, opts *nativeWhisperOptions) ([]itemFuture, error) {
	shape, data, freeFeat := cFeatures(features)
	defer freeFeat()
	cp := newCStrMatrix(prompts)
	defer cp.free()
	copts, freeOpts := newCWhisperOptions(opts)
	defer freeOpts()

	var futures **C.ct2_future
	var n C.size_t
	var cerr *C.char
	if rc := C.ct2_whisper_generate(w.ptr, shape, data, &cp.m, copts, &futures, &n, &cerr); rc != 0 {
		return nil, ErrNativeRuntime(takeError(cerr))
	}
	return adoptFutures(futures, n, newBatchState(nil, int(n))), nil
}

func (w *cgoWhisper) detectLanguage(features *Features) ([][]langDetection, error) {
	shape, data, freeFeat := cFeatures(features)
	defer freeFeat()

	var dets *C.ct2_lang_detection
	var items, perItem C.size_t
	var cerr *C.char
	if rc := C.ct2_whisper_detect_language(w.ptr, shape, data, &dets, &items, &perItem, &cerr); rc != 0 {
		return nil, ErrNativeRuntime(takeError(cerr))
	}
	total := int(items) * int(perItem)
	defer C.ct2_lang_detections_free(dets, C.size_t(total))
	flat := (*[1 << 28]C.ct2_lang_detection)(unsafe.Pointer(dets))[:total:total]
	out := make([][]langDetection, int(items))
	for i := range out {
		row := make([]langDetection, int(perItem))
		for j := range row {
			d := flat[i*int(perItem)+j]
			row[j] = langDetection{
				language:    C.GoString(d.language),
				probability: float32(d.probability),
			}
		}
		out[i] = row
	}
	return out, nil
}

func (w *cgoWhisper) isMultilingual() bool { return bool(C.ct2_whisper_is_multilingual(w.ptr)) }
func (w *cgoWhisper) nMels() int           { return int(C.ct2_whisper_n_mels(w.ptr)) }
func (w *cgoWhisper) numLanguages() int    { return int(C.ct2_whisper_num_languages(w.ptr)) }
func (w *cgoWhisper) queuedBatches() int   { return int(C.ct2_whisper_num_queued_batches(w.ptr)) }
func (w *cgoWhisper) activeBatches() int   { return int(C.ct2_whisper_num_active_batches(w.ptr)) }
func (w *cgoWhisper) replicas() int        { return int(C.ct2_whisper_num_replicas(w.ptr)) }
func (w *cgoWhisper) release()             { C.ct2_whisper_release(w.ptr) }

// adoptFutures wraps the shim's future array, transferring the per-item
// accounting of state to the wrapped futures.
func adoptFutures(futures **C.ct2_future, n C.size_t, state *batchState) []itemFuture {
	count := int(n)
	state.remaining.Store(int32(count))
	out := make([]itemFuture, count)
	if count > 0 {
		arr := (*[1 << 30]*C.ct2_future)(unsafe.Pointer(futures))[:count:count]
		for i, p := range arr {
			out[i] = &cgoFuture{ptr: p, state: state}
		}
		C.ct2_futures_free(futures, n)
	}
	return out
}

func newCEndToken(t nativeEndToken) (C.ct2_end_token, func()) {
	texts := newCStrList(t.texts)
	ids, nids := newCInt32s(t.ids)
	et := C.ct2_end_token{
		kind:      C.int32_t(t.kind),
		texts:     (**C.char)(texts.ptr),
		num_texts: texts.n,
		ids:       (*C.int32_t)(ids),
		num_ids:   nids,
	}
	return et, func() {
		texts.free()
		if ids != nil {
			C.free(ids)
		}
	}
}

func newCTranslationOptions(o *nativeTranslationOptions) (*C.ct2_translation_options, func()) {
	suppress := newCStrMatrix(o.suppressSequences)
	et, freeET := newCEndToken(o.endToken)
	copts := &C.ct2_translation_options{
		beam_size:             C.size_t(o.beamSize),
		patience:              C.float(o.patience),
		length_penalty:        C.float(o.lengthPenalty),
		coverage_penalty:      C.float(o.coveragePenalty),
		repetition_penalty:    C.float(o.repetitionPenalty),
		no_repeat_ngram_size:  C.size_t(o.noRepeatNgramSize),
		disable_unk:           C.bool(o.disableUnk),
		suppress_sequences:    suppress.m,
		prefix_bias_beta:      C.float(o.prefixBiasBeta),
		end_token:             et,
		return_end_token:      C.bool(o.returnEndToken),
		max_input_length:      C.size_t(o.maxInputLength),
		max_decoding_length:   C.size_t(o.maxDecodingLength),
		min_decoding_length:   C.size_t(o.minDecodingLength),
		sampling_topk:         C.size_t(o.samplingTopK),
		sampling_topp:         C.float(o.samplingTopP),
		sampling_temperature:  C.float(o.samplingTemperature),
		use_vmap:              C.bool(o.useVMap),
		num_hypotheses:        C.size_t(o.numHypotheses),
		return_scores:         C.bool(o.returnScores),
		return_alternatives:   C.bool(o.returnAlternatives),
		min_alternative_expansion_prob: C.float(o.minAlternativeExpansionProb),
		replace_unknowns:      C.bool(o.replaceUnknowns),
		max_batch_size:        C.size_t(o.maxBatchSize),
		batch_type:            C.int32_t(o.batchType),
	}
	return copts, func() {
		suppress.free()
		freeET()
	}
}

func newCGenerationOptions(o *nativeGenerationOptions) (*C.ct2_generation_options, func()) {
	suppress := newCStrMatrix(o.suppressSequences)
	et, freeET := newCEndToken(o.endToken)
	prompt := newCStrList(o.staticPrompt)
	copts := &C.ct2_generation_options{
		beam_size:            C.size_t(o.beamSize),
		patience:             C.float(o.patience),
		length_penalty:       C.float(o.lengthPenalty),
		repetition_penalty:   C.float(o.repetitionPenalty),
		no_repeat_ngram_size: C.size_t(o.noRepeatNgramSize),
		disable_unk:          C.bool(o.disableUnk),
		suppress_sequences:   suppress.m,
		end_token:            et,
		return_end_token:     C.bool(o.returnEndToken),
		max_length:           C.size_t(o.maxLength),
		min_length:           C.size_t(o.minLength),
		sampling_topk:        C.size_t(o.samplingTopK),
		sampling_topp:        C.float(o.samplingTopP),
		sampling_temperature: C.float(o.samplingTemperature),
		num_hypotheses:       C.size_t(o.numHypotheses),
		return_scores:        C.bool(o.returnScores),
		return_alternatives:  C.bool(o.returnAlternatives),
		min_alternative_expansion_prob: C.float(o.minAlternativeExpansionProb),
		static_prompt:        (**C.char)(prompt.ptr),
		static_prompt_len:    prompt.n,
		cache_static_prompt:  C.bool(o.cacheStaticPrompt),
		include_prompt_in_result: C.bool(o.includePromptInResult),
		max_batch_size:       C.size_t(o.maxBatchSize),
		batch_type:           C.int32_t(o.batchType),
	}
	return copts, func() {
		suppress.free()
		freeET()
		prompt.free()
	}
}

func newCWhisperOptions(o *nativeWhisperOptions) (*C.ct2_whisper_options, func()) {
	suppress, nsuppress := newCInt32s(o.suppressTokens)
	copts := &C.ct2_whisper_options{
		beam_size:            C.size_t(o.beamSize),
		patience:             C.float(o.patience),
		length_penalty:       C.float(o.lengthPenalty),
		repetition_penalty:   C.float(o.repetitionPenalty),
		no_repeat_ngram_size: C.size_t(o.noRepeatNgramSize),
		max_length:           C.size_t(o.maxLength),
		sampling_topk:        C.size_t(o.samplingTopK),
		sampling_temperature: C.float(o.samplingTemperature),
		num_hypotheses:       C.size_t(o.numHypotheses),
		return_scores:        C.bool(o.returnScores),
		return_no_speech_prob: C.bool(o.returnNoSpeechProb),
		max_initial_timestamp_index: C.size_t(o.maxInitialTimestampIndex),
		suppress_blank:       C.bool(o.suppressBlank),
		suppress_tokens:      (*C.int32_t)(suppress),
		num_suppress_tokens:  nsuppress,
	}
	return copts, func() {
		if suppress != nil {
			C.free(suppress)
		}
	}
}
