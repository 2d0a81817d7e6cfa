package mask

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
)

func TestBits(t *testing.T) {
	m := NewBits(1, 3)

	assert.False(t, m.Empty())
	assert.True(t, m.Test(1))
	assert.True(t, m.Test(3))
	assert.False(t, m.Test(0))
	assert.False(t, m.Test(2))
	assert.False(t, m.Test(-1))
	assert.False(t, m.Test(1<<40)) // beyond any set bit
}

func TestBitsEmpty(t *testing.T) {
	assert.True(t, NewBits().Empty())
	assert.True(t, FromBitSet(bitset.New(64)).Empty())
	assert.False(t, NewBits(0).Empty())
}

func TestRoaring(t *testing.T) {
	m := NewRoaring(2, 100000)

	assert.False(t, m.Empty())
	assert.True(t, m.Test(2))
	assert.True(t, m.Test(100000))
	assert.False(t, m.Test(3))
	assert.False(t, m.Test(-5))
}

func TestRoaringEmpty(t *testing.T) {
	assert.True(t, NewRoaring().Empty())
	assert.True(t, FromRoaring(roaring.New()).Empty())
	assert.False(t, NewRoaring(7).Empty())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(NewBits()))
	assert.False(t, IsEmpty(NewRoaring(1)))
}

func TestTypedNilMasks(t *testing.T) {
	// A typed nil passes the interface nil check, so the methods must hold
	// up on a nil receiver.
	var b *Bits
	var r *Roaring

	assert.True(t, IsEmpty(b))
	assert.True(t, IsEmpty(r))
	assert.False(t, b.Test(0))
	assert.False(t, r.Test(0))
	assert.False(t, FromBitSet(nil).Test(1))
	assert.False(t, FromRoaring(nil).Test(1))
}
