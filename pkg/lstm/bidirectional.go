package lstm

// BidirectionalLstm implements C10: it slices the [D,...] weight/state
// tensors into their forward and reverse halves, builds one
// UniDirectionalLstm per direction sharing the same thread pool, and runs
// both against the same input, interleaving their outputs into the
// [S,2,B,H] / [2,B,H] layout spec §3 defines for Y/Y_h/Y_c.
type BidirectionalLstm struct {
	sizes Sizes
	fwd   *UniDirectionalLstm
	rev   *UniDirectionalLstm
}

// NewBidirectionalLstm constructs the forward/reverse pair. in holds the
// full [D,...] tensors (D=2); attrs.Direction is expected to be
// Bidirectional.
func NewBidirectionalLstm(sizes Sizes, attrs Attributes, in Inputs, opts ...Option) (*BidirectionalLstm, error) {
	const op = "NewBidirectionalLstm"
	cfg := newConfig(opts...)
	// Share one thread pool and allocator across both directions so their
	// stripes (and scratch reuse) interleave on the same worker set,
	// matching spec §4.10's "sharing thread pool" requirement.
	sharedOpts := append(append([]Option(nil), opts...), WithThreadPool(cfg.Pool), WithAllocator(cfg.Allocator), WithGEMM(cfg.GEMM), WithLogger(cfg.Logger))

	H, I := sizes.HiddenSize, sizes.InputSize
	wSlice := func(w []T, dir int) []T { return w[dir*4*H*I : (dir+1)*4*H*I] }
	rSlice := func(r []T, dir int) []T { return r[dir*4*H*H : (dir+1)*4*H*H] }
	biasSlice := func(b []T, dir int) []T {
		if b == nil {
			return nil
		}
		return b[dir*8*H : (dir+1)*8*H]
	}
	peepSlice := func(p []T, dir int) []T {
		if p == nil {
			return nil
		}
		return p[dir*3*H : (dir+1)*3*H]
	}
	stateSlice := func(s []T, dir int) []T {
		if s == nil {
			return nil
		}
		B := sizes.BatchSize
		return s[dir*B*H : (dir+1)*B*H]
	}

	fwd, err := NewUniDirectionalLstm(sizes, false, attrs, wSlice(in.W, 0), rSlice(in.R, 0), biasSlice(in.Bias, 0), peepSlice(in.Peepholes, 0), stateSlice(in.InitialH, 0), stateSlice(in.InitialC, 0), sharedOpts...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	fwd.TimeStride = 2 * sizes.BatchSize * H
	fwd.DirOffset = 0

	rev, err := NewUniDirectionalLstm(sizes, true, attrs, wSlice(in.W, 1), rSlice(in.R, 1), biasSlice(in.Bias, 1), peepSlice(in.Peepholes, 1), stateSlice(in.InitialH, 1), stateSlice(in.InitialC, 1), sharedOpts...)
	if err != nil {
		fwd.Close()
		return nil, wrapErr(op, err)
	}
	rev.TimeStride = 2 * sizes.BatchSize * H
	rev.DirOffset = sizes.BatchSize * H

	return &BidirectionalLstm{sizes: sizes, fwd: fwd, rev: rev}, nil
}

// Reset clears both directions' rolling state for reuse against a new
// input batch; see UniDirectionalLstm.Reset.
func (bi *BidirectionalLstm) Reset(initialH, initialC []T) {
	B, H := bi.sizes.BatchSize, bi.sizes.HiddenSize
	var fh, fc, rh, rc []T
	if initialH != nil {
		fh, rh = initialH[0:B*H], initialH[B*H:2*B*H]
	}
	if initialC != nil {
		fc, rc = initialC[0:B*H], initialC[B*H:2*B*H]
	}
	bi.fwd.Reset(fh, fc)
	bi.rev.Reset(rh, rc)
}

// Close releases both directions' scratch buffers.
func (bi *BidirectionalLstm) Close() {
	bi.fwd.Close()
	bi.rev.Close()
}

// Compute runs both directions against the same input and sequence
// lengths. out.Y/YH/YC, if non-nil, must be sized for the full [D,...]
// tensors; each direction writes its own slot.
func (bi *BidirectionalLstm) Compute(x []T, seqLens []int32, out Outputs) *Error {
	B, H := bi.sizes.BatchSize, bi.sizes.HiddenSize

	fwdOut := StepOutputs{Y: out.Y}
	revOut := StepOutputs{Y: out.Y}
	if out.YH != nil {
		fwdOut.YH = out.YH[0*B*H : 1*B*H]
		revOut.YH = out.YH[1*B*H : 2*B*H]
	}
	if out.YC != nil {
		fwdOut.YC = out.YC[0*B*H : 1*B*H]
		revOut.YC = out.YC[1*B*H : 2*B*H]
	}

	if err := bi.fwd.Compute(x, seqLens, fwdOut); err != nil {
		return err
	}
	if err := bi.rev.Compute(x, seqLens, revOut); err != nil {
		return err
	}
	return nil
}
