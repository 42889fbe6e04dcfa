package lstm

// Inputs bundles the tensors the operator consumes, in ONNX source gate
// order [i,o,f,c] for W/R/B and [P_i,P_o,P_f] for P, per spec §3. All
// slices are flat, row-major, and packed/padded time-major for X.
type Inputs struct {
	X []T // [S,B,I]
	W []T // [D,4H,I]
	R []T // [D,4H,H]

	// Bias is optional; nil means use_bias=false (no bias term applied).
	Bias []T // [D,8H]: [Wb_i,Wb_o,Wb_f,Wb_c, Rb_i,Rb_o,Rb_f,Rb_c]

	// SequenceLens is optional; nil means every row runs the full S steps.
	SequenceLens []int32 // [B], values in [0,S]

	// InitialH/InitialC are optional; nil means zero initial state.
	InitialH []T // [D,B,H]
	InitialC []T // [D,B,H]

	// Peepholes is optional; nil means use_peepholes=false.
	Peepholes []T // [D,3H]: [P_i,P_o,P_f]
}

// Outputs holds the destination slices the caller wants populated. A nil
// field means that output was not requested; Y/YH/YC are mutually
// independent per spec §3.
type Outputs struct {
	Y  []T // [S,D,B,H], optional
	YH []T // [D,B,H], optional
	YC []T // [D,B,H], optional
}

// Attributes mirrors the ONNX LSTM operator's attribute set (spec §3/§4.8).
type Attributes struct {
	Direction Direction

	ActivationF, ActivationG, ActivationH string // default Sigmoid, Tanh, Tanh
	AlphaF, BetaF                         float32
	AlphaG, BetaG                          float32
	AlphaH, BetaH                          float32

	Clip        float32 // <= 0 means unset/no clipping
	InputForget bool
}

// withDefaults fills activation names left blank with the ONNX defaults.
func (a Attributes) withDefaults() Attributes {
	if a.ActivationF == "" {
		a.ActivationF = "Sigmoid"
	}
	if a.ActivationG == "" {
		a.ActivationG = "Tanh"
	}
	if a.ActivationH == "" {
		a.ActivationH = "Tanh"
	}
	return a
}
