// Package gemm implements the GEMM primitive collaborator from spec §6/§4.7:
// gemm(rowsA, colsB, colsA, alpha, A, lda, B, ldb, beta, C, ldc), row-major,
// no transpose — the fused weight layout (C2) is pre-transposed specifically
// so every per-step matrix multiply can be expressed this way.
//
// The default implementation wires gonum.org/v1/gonum/blas/blas32 (present
// indirectly in the retrieval pack's inference-sim-inference-sim go.mod and
// promoted to a direct dependency here). A pure-Go Reference implementation
// is also provided, adapted from the teacher's hand-rolled
// pkg/core/math/primitive/fp32.Gemm_NN/Gemm_NT (itohio-EasyRobot): the
// teacher itself computes GEMM by hand rather than depending on a BLAS
// library, so Reference exists for environments without a BLAS backend and
// as a correctness cross-check in gemm_test.go, not as an avoided
// dependency.
package gemm

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// GEMM computes C = alpha*A*B + beta*C for row-major, untransposed
// A [rowsA x colsA], B [colsA x colsB], C [rowsA x colsB], with leading
// dimensions lda/ldb/ldc as the row stride of each matrix. set_intraop_threads
// is not modeled: the interface has no thread-count control, so the only
// lever this package offers over oversubscription is how many concurrent
// Gemm calls the caller's thread pool stripes issue. BLAS32 delegates to
// gonum's Sgemm, which may itself split large products across goroutines.
type GEMM interface {
	Gemm(rowsA, colsB, colsA int, alpha float32, a []float32, lda int, b []float32, ldb int, beta float32, c []float32, ldc int)
}

// BLAS32 is the default GEMM backed by gonum's blas32.
type BLAS32 struct{}

var _ GEMM = BLAS32{}

func (BLAS32) Gemm(rowsA, colsB, colsA int, alpha float32, a []float32, lda int, b []float32, ldb int, beta float32, c []float32, ldc int) {
	if rowsA == 0 || colsB == 0 {
		return
	}
	ga := blas32.General{Rows: rowsA, Cols: colsA, Stride: lda, Data: a}
	gb := blas32.General{Rows: colsA, Cols: colsB, Stride: ldb, Data: b}
	gc := blas32.General{Rows: rowsA, Cols: colsB, Stride: ldc, Data: c}
	blas32.Gemm(blas.NoTrans, blas.NoTrans, alpha, ga, gb, beta, gc)
}

// Reference is a pure-Go, unoptimized row-major GEMM matching the teacher's
// fp32.Gemm_NN algorithm exactly (triple nested loop, beta-scale then
// accumulate). It has no external dependency and is useful for testing or
// as a fallback when linking a BLAS implementation is undesirable.
type Reference struct{}

var _ GEMM = Reference{}

func (Reference) Gemm(rowsA, colsB, colsA int, alpha float32, a []float32, lda int, b []float32, ldb int, beta float32, c []float32, ldc int) {
	if rowsA == 0 || colsB == 0 || colsA == 0 {
		if rowsA > 0 && colsB > 0 && beta != 1 {
			scaleC(c, rowsA, colsB, ldc, beta)
		}
		return
	}

	scaleC(c, rowsA, colsB, ldc, beta)
	if alpha == 0 {
		return
	}

	for i := 0; i < rowsA; i++ {
		pa := i * lda
		pc := i * ldc
		for k := 0; k < colsA; k++ {
			aik := alpha * a[pa+k]
			if aik == 0 {
				continue
			}
			pb := k * ldb
			for j := 0; j < colsB; j++ {
				c[pc+j] += aik * b[pb+j]
			}
		}
	}
}

func scaleC(c []float32, rows, cols, ld int, beta float32) {
	if beta == 1 {
		return
	}
	for i := 0; i < rows; i++ {
		pc := i * ld
		if beta == 0 {
			for j := 0; j < cols; j++ {
				c[pc+j] = 0
			}
		} else {
			for j := 0; j < cols; j++ {
				c[pc+j] *= beta
			}
		}
	}
}
