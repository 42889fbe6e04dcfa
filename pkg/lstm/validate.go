package lstm

// validate implements C1: checks every tensor's element count against the
// shape the declared sizes and direction imply, and that sequence_lens
// values fall in [0,S]. Ranks are fixed by the flat-slice representation
// (§3's per-tensor rank checks collapse to a single length check once the
// logical rank is baked into the Sizes/Direction contract), but the
// reported errors still name the offending tensor and both the expected
// and actual element counts, per spec §4.1.
func validate(sizes Sizes, dir Direction, in Inputs) *Error {
	const op = "validate"
	d := dir.NumDirections()
	s, b, i, h := sizes.SeqLength, sizes.BatchSize, sizes.InputSize, sizes.HiddenSize

	if s <= 0 || b <= 0 || i <= 0 || h <= 0 {
		return invalidArgf(op, "sizes must be positive, got S=%d B=%d I=%d H=%d", s, b, i, h)
	}

	if err := checkLen(op, "X", in.X, s*b*i); err != nil {
		return err
	}
	if err := checkLen(op, "W", in.W, d*4*h*i); err != nil {
		return err
	}
	if err := checkLen(op, "R", in.R, d*4*h*h); err != nil {
		return err
	}
	if in.Bias != nil {
		if err := checkLen(op, "B", in.Bias, d*8*h); err != nil {
			return err
		}
	}
	if in.SequenceLens != nil {
		if err := checkLen(op, "sequence_lens", in.SequenceLens, b); err != nil {
			return err
		}
		for row, v := range in.SequenceLens {
			if v < 0 || int(v) > s {
				return invalidArgf(op, "sequence_lens[%d]=%d out of range [0,%d]", row, v, s)
			}
		}
	}
	if in.InitialH != nil {
		if err := checkLen(op, "initial_h", in.InitialH, d*b*h); err != nil {
			return err
		}
	}
	if in.InitialC != nil {
		if err := checkLen(op, "initial_c", in.InitialC, d*b*h); err != nil {
			return err
		}
	}
	if in.Peepholes != nil {
		if err := checkLen(op, "P", in.Peepholes, d*3*h); err != nil {
			return err
		}
	}

	return nil
}

func checkLen[S ~[]E, E any](op, name string, slice S, want int) *Error {
	if len(slice) != want {
		return invalidArgf(op, "%s: expected %d elements, got %d", name, want, len(slice))
	}
	return nil
}
