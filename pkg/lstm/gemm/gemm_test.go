package gemm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func denseRandom(rng *rand.Rand, rows, cols int) []float32 {
	out := make([]float32, rows*cols)
	for i := range out {
		out[i] = rng.Float32()*2 - 1
	}
	return out
}

func naiveGemm(rowsA, colsB, colsA int, alpha float32, a []float32, lda int, b []float32, ldb int, beta float32, c []float32, ldc int) {
	for i := 0; i < rowsA; i++ {
		for j := 0; j < colsB; j++ {
			var sum float32
			for k := 0; k < colsA; k++ {
				sum += a[i*lda+k] * b[k*ldb+j]
			}
			c[i*ldc+j] = alpha*sum + beta*c[i*ldc+j]
		}
	}
}

func TestBLAS32MatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const M, K, N = 5, 7, 3

	a := denseRandom(rng, M, K)
	b := denseRandom(rng, K, N)
	cWant := denseRandom(rng, M, N)
	cGot := append([]float32(nil), cWant...)

	naiveGemm(M, N, K, 1, a, K, b, N, 0.5, cWant, N)
	BLAS32{}.Gemm(M, N, K, 1, a, K, b, N, 0.5, cGot, N)

	require.Len(t, cGot, len(cWant))
	for i := range cWant {
		assert.InDelta(t, cWant[i], cGot[i], 1e-4)
	}
}

func TestReferenceMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	const M, K, N = 4, 6, 8

	a := denseRandom(rng, M, K)
	b := denseRandom(rng, K, N)
	cWant := denseRandom(rng, M, N)
	cGot := append([]float32(nil), cWant...)

	naiveGemm(M, N, K, 1, a, K, b, N, 1, cWant, N)
	Reference{}.Gemm(M, N, K, 1, a, K, b, N, 1, cGot, N)

	for i := range cWant {
		assert.InDelta(t, cWant[i], cGot[i], 1e-4)
	}
}

func TestGemmBetaZeroOverwrites(t *testing.T) {
	a := []float32{1, 0, 0, 1} // 2x2 identity
	b := []float32{2, 3, 4, 5}
	c := []float32{100, 100, 100, 100}

	Reference{}.Gemm(2, 2, 2, 1, a, 2, b, 2, 0, c, 2)
	assert.Equal(t, []float32{2, 3, 4, 5}, c)
}

func TestGemmBetaOneAccumulates(t *testing.T) {
	a := []float32{1, 0, 0, 1}
	b := []float32{2, 3, 4, 5}
	c := []float32{10, 10, 10, 10}

	Reference{}.Gemm(2, 2, 2, 1, a, 2, b, 2, 1, c, 2)
	assert.Equal(t, []float32{12, 13, 14, 15}, c)
}

func TestGemmEmptyDimsIsNoop(t *testing.T) {
	c := []float32{1, 2, 3}
	Reference{}.Gemm(0, 3, 2, 1, nil, 2, nil, 3, 1, c, 3)
	assert.Equal(t, []float32{1, 2, 3}, c)
}
