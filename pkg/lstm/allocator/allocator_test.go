package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_AllocLength(t *testing.T) {
	p := NewPool()

	buf, err := p.Alloc(12)
	require.NoError(t, err)
	assert.Len(t, buf.Data, 12)
	assert.GreaterOrEqual(t, cap(buf.Data), 12)

	buf.Release()
}

func TestPool_TierReuse(t *testing.T) {
	p := NewPool(64, 128)

	buf, err := p.Alloc(48)
	require.NoError(t, err)
	require.Len(t, buf.Data, 48)
	assert.Equal(t, 64, cap(buf.Data))

	firstPtr := &buf.Data[:cap(buf.Data)][0]
	buf.Release()

	buf2, err := p.Alloc(32)
	require.NoError(t, err)
	secondPtr := &buf2.Data[0]
	assert.Same(t, firstPtr, secondPtr, "expected buffer reuse within the same tier")
	buf2.Release()
}

func TestPool_ZeroAllocIsZeroed(t *testing.T) {
	p := NewPool()

	buf, err := p.Alloc(8)
	require.NoError(t, err)
	for i := range buf.Data {
		buf.Data[i] = 7
	}
	buf.Release()

	buf2, err := p.ZeroAlloc(8)
	require.NoError(t, err)
	for _, v := range buf2.Data {
		assert.Zero(t, v)
	}
	buf2.Release()
}

func TestPool_ReleaseIsIdempotent(t *testing.T) {
	p := NewPool()
	buf, err := p.Alloc(4)
	require.NoError(t, err)
	buf.Release()
	assert.NotPanics(t, func() { buf.Release() })
}

func TestPool_AllocRejectsNegativeAndOversized(t *testing.T) {
	p := NewPool()

	_, err := p.Alloc(-1)
	assert.Error(t, err)

	_, err = p.Alloc(maxBufferLen + 1)
	assert.Error(t, err)
}

func TestPool_ZeroLengthAlloc(t *testing.T) {
	p := NewPool()
	buf, err := p.Alloc(0)
	require.NoError(t, err)
	assert.Len(t, buf.Data, 0)
	buf.Release()
}
