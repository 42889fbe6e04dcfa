package lstm

import (
	"runtime"

	"github.com/akavalar/onnxruntime/pkg/lstm/allocator"
	"github.com/akavalar/onnxruntime/pkg/lstm/gemm"
	"github.com/akavalar/onnxruntime/pkg/lstm/threadpool"
	"github.com/akavalar/onnxruntime/pkg/logger"
)

// Config bundles the external collaborators an orchestrator is constructed
// with (spec §6/§5: allocator, thread pool, GEMM primitive, logger), plus
// the hardware thread count the threading heuristic (C11) sizes itself
// against. The zero value is not meant to be used directly; build one with
// newConfig.
type Config struct {
	Logger    logger.Logger
	Pool      *threadpool.Pool
	Allocator allocator.Allocator
	GEMM      gemm.GEMM
	HWThreads int
}

// Option configures a Config, following the functional-options pattern the
// teacher uses for its layer constructors (itohio-EasyRobot
// pkg/core/math/nn/layers.Option).
type Option func(*Config)

// WithLogger overrides the default package logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithThreadPool injects a shared thread pool. Constructing a
// bidirectional pair of orchestrators with the same pool lets both
// directions' stripes interleave on the same worker set (spec §4.10).
func WithThreadPool(p *threadpool.Pool) Option {
	return func(c *Config) { c.Pool = p }
}

// WithAllocator overrides the default tiered scratch allocator.
func WithAllocator(a allocator.Allocator) Option {
	return func(c *Config) { c.Allocator = a }
}

// WithGEMM overrides the default BLAS32-backed GEMM primitive, e.g. with
// gemm.Reference for environments without a BLAS backend.
func WithGEMM(g gemm.GEMM) Option {
	return func(c *Config) { c.GEMM = g }
}

// WithHardwareThreads overrides the hardware thread count the C11
// heuristic uses to size batch-parallel vs column-parallel thread counts.
// Defaults to runtime.NumCPU().
func WithHardwareThreads(n int) Option {
	return func(c *Config) { c.HWThreads = n }
}

func newConfig(opts ...Option) Config {
	cfg := Config{
		Logger:    defaultLogger(),
		Allocator: allocator.NewPool(),
		GEMM:      gemm.BLAS32{},
		HWThreads: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Pool == nil {
		cfg.Pool = threadpool.New(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = defaultLogger()
	}
	return cfg
}
