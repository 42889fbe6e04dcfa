package lstm

import (
	"github.com/akavalar/onnxruntime/pkg/lstm/activation"
	"github.com/akavalar/onnxruntime/pkg/lstm/allocator"
	"github.com/akavalar/onnxruntime/pkg/lstm/gemm"
	"github.com/akavalar/onnxruntime/pkg/lstm/threadpool"
	"github.com/akavalar/onnxruntime/pkg/logger"
)

// StepOutputs is what UniDirectionalLstm.Compute writes to: the caller
// supplies the destination slices it wants populated, already positioned
// at this direction's offset within a larger [S,D,B,H]/[D,B,H] buffer when
// run as one half of a bidirectional pair (spec §4.9/§4.10).
type StepOutputs struct {
	// Y, if non-nil, receives the full per-step sequence. It must have
	// length S*TimeStride with this direction's [B,H] block starting at
	// DirOffset within each step (see UniDirectionalLstm fields below).
	Y []T
	// YH and YC, if non-nil, each have length B*H.
	YH []T
	YC []T
}

// UniDirectionalLstm is the C9 orchestrator. One instance computes a
// single forward or reverse pass over a batch of variable-length
// sequences, using fused weights transposed once at construction and the
// injected allocator/thread-pool/GEMM/activation collaborators for every
// subsequent compute() call. Construction binds one set of per-direction
// weights; invoke compute() once per input batch.
type UniDirectionalLstm struct {
	sizes       Sizes
	reverseTime bool
	attrs       Attributes

	pool  *threadpool.Pool
	alloc allocator.Allocator
	gemm  gemm.GEMM
	log   logger.Logger
	plan  ThreadingPlan

	wFused  allocator.Buffer // [I,4H]
	rFused  allocator.Buffer // [H,4H]
	biasWR  allocator.Buffer // [4H], fused order
	useBias bool
	peep    peepholeSlices

	fAct activation.GateActivation
	gAct activation.GateActivation
	hAct activation.OutputActivation

	// TimeStride is the total per-step stride of the caller's Y buffer
	// (B*H standalone, D*B*H as one half of a bidirectional pair).
	// DirOffset is this direction's base offset within that stride.
	TimeStride int
	DirOffset  int

	outputIFOG allocator.Buffer // [S,B,4H], gate pre-activations
	yBuf       allocator.Buffer // [S,B,H], local (possibly reversed) time order
	yOut       allocator.Buffer // [S,B,H], original time order, Y output scratch
	cPrev      allocator.Buffer // [B,H], rolling cell state
	initialHid allocator.Buffer // [B,H], t=-1 hidden source
	ycSnap     allocator.Buffer // [B,H], final cell state per row
	xRev       allocator.Buffer // [S,B,I], only when reverseTime
	gateTmp    allocator.Buffer // [B,H], per-row scratch for the output activation

	released bool
}

// NewUniDirectionalLstm constructs an orchestrator bound to one
// direction's weights. w/r/bias/peep/initialH/initialC are already sliced
// to this single direction (the caller — the bidirectional wrapper or the
// top-level operator — owns slicing the [D,...] tensors).
func NewUniDirectionalLstm(sizes Sizes, reverseTime bool, attrs Attributes, w, r, bias, peep, initialH, initialC []T, opts ...Option) (*UniDirectionalLstm, error) {
	const op = "NewUniDirectionalLstm"
	cfg := newConfig(opts...)
	attrs = attrs.withDefaults()

	S, B, I, H := sizes.SeqLength, sizes.BatchSize, sizes.InputSize, sizes.HiddenSize

	fAct, err := activation.ResolveGate(attrs.ActivationF)
	if err != nil {
		return nil, invalidArgf(op, "activation_f: %v", err)
	}
	gAct, err := activation.ResolveGate(attrs.ActivationG)
	if err != nil {
		return nil, invalidArgf(op, "activation_g: %v", err)
	}
	hAct, err := activation.ResolveOutput(attrs.ActivationH)
	if err != nil {
		return nil, invalidArgf(op, "activation_h: %v", err)
	}

	u := &UniDirectionalLstm{
		sizes:       sizes,
		reverseTime: reverseTime,
		attrs:       attrs,
		pool:        cfg.Pool,
		alloc:       cfg.Allocator,
		gemm:        cfg.GEMM,
		log:         cfg.Logger.With("lstm.unidirectional"),
		plan:        chooseThreadingPlan(cfg.HWThreads, H, B),
		fAct:        fAct,
		gAct:        gAct,
		hAct:        hAct,
		TimeStride:  B * H,
		DirOffset:   0,
	}

	alloc := func(n int) (allocator.Buffer, error) {
		buf, aerr := u.alloc.ZeroAlloc(n)
		if aerr != nil {
			return allocator.Buffer{}, outOfMemoryf(op, aerr, "allocating %d elements", n)
		}
		return buf, nil
	}

	var aerr error
	if u.wFused, aerr = alloc(I * 4 * H); aerr != nil {
		return nil, aerr
	}
	transposeGateWeights(w, I, H, u.wFused.Data)

	if u.rFused, aerr = alloc(H * 4 * H); aerr != nil {
		return nil, aerr
	}
	transposeGateWeights(r, H, H, u.rFused.Data)

	if bias != nil {
		if u.biasWR, aerr = alloc(4 * H); aerr != nil {
			return nil, aerr
		}
		fuseBias(bias, H, u.biasWR.Data)
		u.useBias = true
	}

	u.peep = peepholes(peep, H)

	if u.outputIFOG, aerr = alloc(S * B * 4 * H); aerr != nil {
		return nil, aerr
	}
	if u.yBuf, aerr = alloc(S * B * H); aerr != nil {
		return nil, aerr
	}
	if u.yOut, aerr = alloc(S * B * H); aerr != nil {
		return nil, aerr
	}
	if u.cPrev, aerr = alloc(B * H); aerr != nil {
		return nil, aerr
	}
	if initialC != nil {
		copy(u.cPrev.Data, initialC)
	}
	if u.initialHid, aerr = alloc(B * H); aerr != nil {
		return nil, aerr
	}
	if initialH != nil {
		copy(u.initialHid.Data, initialH)
	}
	if u.ycSnap, aerr = alloc(B * H); aerr != nil {
		return nil, aerr
	}
	copy(u.ycSnap.Data, u.cPrev.Data)
	if u.gateTmp, aerr = alloc(B * H); aerr != nil {
		return nil, aerr
	}
	if reverseTime {
		if u.xRev, aerr = alloc(S * B * I); aerr != nil {
			return nil, aerr
		}
	}

	u.log.Debug().Int("hidden_size", H).Int("batch_size", B).Msg("unidirectional lstm constructed")

	return u, nil
}

// Close releases every scratch buffer owned by this orchestrator. One
// orchestrator serves exactly one invocation's worth of compute() calls;
// Close should be called once the caller is done reading its outputs.
func (u *UniDirectionalLstm) Close() {
	if u.released {
		return
	}
	u.released = true
	for _, b := range []*allocator.Buffer{
		&u.wFused, &u.rFused, &u.biasWR, &u.outputIFOG, &u.yBuf, &u.yOut,
		&u.cPrev, &u.initialHid, &u.ycSnap, &u.xRev, &u.gateTmp,
	} {
		b.Release()
	}
}

// Reset clears the rolling state buffers (cell state, snapshots, hidden
// sequence) so the same constructed orchestrator can be reused for a new,
// unrelated input batch without reallocating its scratch buffers. Fused
// weights, bias, and peepholes are untouched since they don't depend on
// the input. This is additive: a single Compute call already behaves as
// one self-contained invocation without calling Reset first.
func (u *UniDirectionalLstm) Reset(initialH, initialC []T) {
	for i := range u.cPrev.Data {
		u.cPrev.Data[i] = 0
	}
	if initialC != nil {
		copy(u.cPrev.Data, initialC)
	}
	for i := range u.initialHid.Data {
		u.initialHid.Data[i] = 0
	}
	if initialH != nil {
		copy(u.initialHid.Data, initialH)
	}
	copy(u.ycSnap.Data, u.cPrev.Data)
	for i := range u.yBuf.Data {
		u.yBuf.Data[i] = 0
	}
}

// Compute runs the per-step pipeline (spec §4.9): synthesizes seqLens if
// absent, reverses the input if this orchestrator runs reverse time,
// drives the one-shot input GEMM and the sequential per-step hidden
// GEMM + gate kernel, snapshots Y_h/Y_c, and — for reverse orchestrators —
// re-reverses the sequence output back into the caller's original time
// order.
func (u *UniDirectionalLstm) Compute(x []T, seqLensIn []int32, out StepOutputs) *Error {
	const op = "UniDirectionalLstm.compute"
	S, B, I, H := u.sizes.SeqLength, u.sizes.BatchSize, u.sizes.InputSize, u.sizes.HiddenSize

	seqLens := seqLensIn
	if seqLens == nil {
		seqLens = make([]int32, B)
		for i := range seqLens {
			seqLens[i] = int32(S)
		}
	}

	maxLen, minLen := 0, S
	for _, v := range seqLens {
		if int(v) > maxLen {
			maxLen = int(v)
		}
		if int(v) < minLen {
			minLen = int(v)
		}
	}

	xin := x
	if u.reverseTime {
		reverseSequence(x, u.xRev.Data, seqLens, S, B, I, 1)
		xin = u.xRev.Data
	}

	if maxLen > 0 {
		if err := u.inputGemm(xin, maxLen); err != nil {
			return internalf(op, err, "input gemm failed")
		}
	}

	for t := 0; t < maxLen; t++ {
		var hiddenSrc []T
		if t == 0 {
			hiddenSrc = u.initialHid.Data
		} else {
			hiddenSrc = u.yBuf.Data[(t-1)*B*H : t*B*H]
		}
		if err := u.hiddenGemm(t, hiddenSrc); err != nil {
			return internalf(op, err, "hidden gemm failed at step %d", t)
		}
		if err := u.gateStep(t, hiddenSrc, seqLens, minLen); err != nil {
			return internalf(op, err, "gate kernel failed at step %d", t)
		}
	}

	for b := 0; b < B; b++ {
		sl := int(seqLens[b])
		var src []T
		if sl == 0 {
			src = u.initialHid.Data[b*H : b*H+H]
		} else {
			src = u.yBuf.Data[(sl-1)*B*H+b*H : (sl-1)*B*H+b*H+H]
		}
		if out.YH != nil {
			copy(out.YH[b*H:b*H+H], src)
		}
	}

	if out.YC != nil {
		copy(out.YC, u.ycSnap.Data)
	}

	if out.Y != nil {
		source := u.yBuf.Data
		if u.reverseTime {
			reverseSequence(u.yBuf.Data, u.yOut.Data, seqLens, S, B, H, 1)
			source = u.yOut.Data
		}
		for t := 0; t < S; t++ {
			base := t*u.TimeStride + u.DirOffset
			copy(out.Y[base:base+B*H], source[t*B*H:(t+1)*B*H])
		}
	}

	return nil
}

func (u *UniDirectionalLstm) inputGemm(xin []T, maxLen int) error {
	B, I, H := u.sizes.BatchSize, u.sizes.InputSize, u.sizes.HiddenSize
	fourH := 4 * H
	total := maxLen * B
	stripe := stripeSize(total, u.plan.InputNumThreads)
	return u.pool.Run(total, stripe, func(start, end int) error {
		rows := end - start
		a := xin[start*I : end*I]
		c := u.outputIFOG.Data[start*fourH : end*fourH]
		u.gemm.Gemm(rows, fourH, I, 1, a, I, u.wFused.Data, fourH, 0, c, fourH)
		return nil
	})
}

func (u *UniDirectionalLstm) hiddenGemm(t int, hiddenSrc []T) error {
	B, H := u.sizes.BatchSize, u.sizes.HiddenSize
	fourH := 4 * H
	target := u.outputIFOG.Data[t*B*fourH : (t+1)*B*fourH]

	if u.plan.BatchParallel {
		stripe := stripeSize(B, u.plan.HiddenNumThreads)
		return u.pool.Run(B, stripe, func(start, end int) error {
			rows := end - start
			a := hiddenSrc[start*H : end*H]
			c := target[start*fourH : end*fourH]
			u.gemm.Gemm(rows, fourH, H, 1, a, H, u.rFused.Data, fourH, 1, c, fourH)
			return nil
		})
	}

	stripe := stripeSize(fourH, u.plan.HiddenNumThreads)
	return u.pool.Run(fourH, stripe, func(start, end int) error {
		width := end - start
		b := u.rFused.Data[start:]
		c := target[start:]
		u.gemm.Gemm(B, width, H, 1, hiddenSrc, H, b, fourH, 1, c, fourH)
		return nil
	})
}

func (u *UniDirectionalLstm) gateStep(t int, hiddenSrc []T, seqLens []int32, minLen int) error {
	B := u.sizes.BatchSize
	stripe := stripeSize(B, u.pool.Workers())
	return u.pool.Run(B, stripe, func(start, end int) error {
		for b := start; b < end; b++ {
			active := t < minLen || t < int(seqLens[b])
			if !active {
				continue
			}
			u.applyGate(t, b)
			if t+1 == int(seqLens[b]) {
				H := u.sizes.HiddenSize
				copy(u.ycSnap.Data[b*H:b*H+H], u.cPrev.Data[b*H:b*H+H])
			}
		}
		return nil
	})
}

// applyGate implements C8's per-row pseudocode for step t, row b. Gate
// pre-activations live in outputIFOG in the internal fused order
// [i,f,o,c]; peephole terms use the CURRENT cell state for the output
// gate (after the merge) and the PREVIOUS cell state for the input and
// forget gates (before the merge), per spec §4.8.
func (u *UniDirectionalLstm) applyGate(t, b int) {
	B, H := u.sizes.BatchSize, u.sizes.HiddenSize
	fourH := 4 * H
	row := u.outputIFOG.Data[t*B*fourH+b*fourH : t*B*fourH+b*fourH+fourH]

	iRaw := row[gateI*H : gateI*H+H]
	fRaw := row[gateF*H : gateF*H+H]
	oRaw := row[gateO*H : gateO*H+H]
	cRaw := row[gateC*H : gateC*H+H]
	cPrevRow := u.cPrev.Data[b*H : b*H+H]

	if u.peep.enabled() {
		activation.ElementwiseProductAdd(iRaw, u.peep.I, cPrevRow, H)
	}
	u.clipBias(gateI, iRaw)
	u.fAct(iRaw, H, u.attrs.AlphaF, u.attrs.BetaF) // i_t

	fGate := fRaw
	if u.attrs.InputForget {
		for k := 0; k < H; k++ {
			fRaw[k] = 1 - iRaw[k]
		}
	} else {
		if u.peep.enabled() {
			activation.ElementwiseProductAdd(fRaw, u.peep.F, cPrevRow, H)
		}
		u.clipBias(gateF, fRaw)
		u.fAct(fRaw, H, u.attrs.AlphaF, u.attrs.BetaF) // f_t
	}

	u.clipBias(gateC, cRaw)
	u.gAct(cRaw, H, u.attrs.AlphaG, u.attrs.BetaG) // c_bar

	activation.MergeLSTMGatesToMemory(cPrevRow, iRaw, fGate, cRaw, cPrevRow, H) // c_cur, in place

	if u.peep.enabled() {
		activation.ElementwiseProductAdd(oRaw, u.peep.O, cPrevRow, H) // current cell
	}
	u.clipBias(gateO, oRaw)
	u.fAct(oRaw, H, u.attrs.AlphaF, u.attrs.BetaF) // o_t

	dst := u.yBuf.Data[t*B*H+b*H : t*B*H+b*H+H]
	tmp := u.gateTmp.Data[b*H : b*H+H]
	u.hAct(cPrevRow, tmp, oRaw, dst, H, u.attrs.AlphaH, u.attrs.BetaH)
}

func (u *UniDirectionalLstm) clipBias(gate int, raw []T) {
	H := u.sizes.HiddenSize
	if u.useBias {
		activation.ClipAddBias(u.attrs.Clip, u.biasWR.Data[gate*H:gate*H+H], raw, H)
	} else {
		activation.ClipIgnoreBias(u.attrs.Clip, nil, raw, H)
	}
}

func stripeSize(total, threads int) int {
	if total <= 0 {
		return 1
	}
	if threads <= 0 {
		threads = 1
	}
	stripe := (total + threads - 1) / threads
	if stripe <= 0 {
		stripe = total
	}
	return stripe
}
