// Package mask provides read-only exclusion masks over database rows.
//
// A mask marks rows that must not appear in search results. Masks are
// consulted during a search but never mutated by it, so one mask can be
// shared across concurrent calls. A nil mask excludes nothing.
package mask

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
)

// Mask reports which database rows are excluded from search results.
type Mask interface {
	// Test reports whether row id is excluded.
	Test(id int64) bool

	// Empty reports whether no row is excluded. Drivers use it to skip
	// the per-row check on the hot path.
	Empty() bool
}

// IsEmpty reports whether m excludes nothing. It treats nil as empty.
func IsEmpty(m Mask) bool {
	return m == nil || m.Empty()
}

// Bits is a dense Mask backed by a bits-and-blooms bitset. Suited to masks
// covering a large share of the database.
type Bits struct {
	bs *bitset.BitSet
}

// FromBitSet wraps an existing bitset. The caller must not mutate it while
// searches are in flight.
func FromBitSet(bs *bitset.BitSet) *Bits {
	return &Bits{bs: bs}
}

// NewBits creates a dense mask with the given excluded rows set.
func NewBits(ids ...int64) *Bits {
	bs := bitset.New(0)
	for _, id := range ids {
		if id >= 0 {
			bs.Set(uint(id))
		}
	}

	return &Bits{bs: bs}
}

// Test reports whether row id is excluded. A nil mask excludes nothing.
func (b *Bits) Test(id int64) bool {
	return b != nil && b.bs != nil && id >= 0 && b.bs.Test(uint(id))
}

// Empty reports whether no row is excluded.
func (b *Bits) Empty() bool {
	return b == nil || b.bs == nil || b.bs.None()
}

// Roaring is a compressed Mask backed by a 32-bit roaring bitmap. Suited to
// sparse or clustered exclusion sets. Rows beyond the uint32 range are never
// excluded.
type Roaring struct {
	rb *roaring.Bitmap
}

// FromRoaring wraps an existing roaring bitmap. The caller must not mutate
// it while searches are in flight.
func FromRoaring(rb *roaring.Bitmap) *Roaring {
	return &Roaring{rb: rb}
}

// NewRoaring creates a compressed mask with the given excluded rows set.
func NewRoaring(ids ...int64) *Roaring {
	rb := roaring.New()
	for _, id := range ids {
		if id >= 0 && id <= int64(^uint32(0)) {
			rb.Add(uint32(id))
		}
	}

	return &Roaring{rb: rb}
}

// Test reports whether row id is excluded. A nil mask excludes nothing.
func (r *Roaring) Test(id int64) bool {
	return r != nil && r.rb != nil && id >= 0 && id <= int64(^uint32(0)) && r.rb.Contains(uint32(id))
}

// Empty reports whether no row is excluded.
func (r *Roaring) Empty() bool {
	return r == nil || r.rb == nil || r.rb.IsEmpty()
}
