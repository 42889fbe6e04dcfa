package lstm

// ThreadingPlan is the result of C11's thread-count heuristic: how many
// threads to use for the one-shot input GEMM, whether the per-step hidden
// GEMM stripes over batch rows or over the 4H gate columns, and how many
// threads that per-step stripe gets.
type ThreadingPlan struct {
	InputNumThreads  int
	HiddenNumThreads int
	BatchParallel    bool
}

// chooseThreadingPlan implements spec §4.11 exactly: hwThreads is the
// available hardware concurrency (runtime.NumCPU() by default), hiddenSize
// and batchSize are H and B.
func chooseThreadingPlan(hwThreads, hiddenSize, batchSize int) ThreadingPlan {
	threads := max(1, hwThreads-1)

	inputThreads := min(threads, 24)
	if inputThreads > 16 && hiddenSize <= 256 {
		inputThreads = 16
	}

	plan := ThreadingPlan{InputNumThreads: inputThreads}

	if batchSize > 4 || (batchSize >= 2 && hiddenSize <= 256) {
		plan.BatchParallel = true
		plan.HiddenNumThreads = threads
		return plan
	}

	plan.BatchParallel = false
	switch {
	case hiddenSize <= 128:
		plan.HiddenNumThreads = 2
	case hiddenSize <= 256:
		plan.HiddenNumThreads = 5
	case hiddenSize <= 512:
		plan.HiddenNumThreads = 7
	case hiddenSize <= 1024:
		plan.HiddenNumThreads = 11
	default:
		plan.HiddenNumThreads = threads
	}
	return plan
}
