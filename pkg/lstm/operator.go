package lstm

// Compute is the single entry point the operator exposes (spec §6): given
// the shape parameters, ONNX attributes, input tensors, and destination
// output slices, it validates the inputs, builds the direction-appropriate
// orchestrator(s), runs them, and releases their scratch buffers before
// returning. Each call is a complete, self-contained invocation — no state
// is retained between calls.
func Compute(sizes Sizes, attrs Attributes, in Inputs, out Outputs, opts ...Option) *Error {
	const op = "Compute"

	if err := validate(sizes, attrs.Direction, in); err != nil {
		return err
	}

	switch attrs.Direction {
	case Bidirectional:
		bi, err := NewBidirectionalLstm(sizes, attrs, in, opts...)
		if err != nil {
			return wrapErr(op, err)
		}
		defer bi.Close()
		return bi.Compute(in.X, in.SequenceLens, out)

	case Forward, Reverse:
		u, err := NewUniDirectionalLstm(sizes, attrs.Direction == Reverse, attrs, in.W, in.R, in.Bias, in.Peepholes, in.InitialH, in.InitialC, opts...)
		if err != nil {
			return wrapErr(op, err)
		}
		defer u.Close()
		return u.Compute(in.X, in.SequenceLens, StepOutputs{Y: out.Y, YH: out.YH, YC: out.YC})

	default:
		return invalidArgf(op, "unknown direction %v", attrs.Direction)
	}
}
