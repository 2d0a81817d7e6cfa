package dataset

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecscan/testutil"
)

func TestFvecsRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(110)

	const (
		d = 16
		n = 100
	)

	data := rng.UniformSet(n, d)

	for _, ext := range []string{".fvecs", ".fvecs.zst", ".fvecs.lz4"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "vectors"+ext)

			require.NoError(t, WriteFvecs(path, data, d))

			got, gotD, err := ReadFvecs(path)
			require.NoError(t, err)

			assert.Equal(t, d, gotD)
			assert.Equal(t, data, got)
		})
	}
}

func TestIvecsRoundTrip(t *testing.T) {
	const d = 5

	data := []int32{0, 1, 2, 3, 4, 9, 8, 7, 6, 5}

	path := filepath.Join(t.TempDir(), "truth.ivecs.zst")
	require.NoError(t, WriteIvecs(path, data, d))

	got, gotD, err := ReadIvecs(path)
	require.NoError(t, err)

	assert.Equal(t, d, gotD)
	assert.Equal(t, data, got)
}

func TestReadBvecs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.bvecs")

	// Two 3-byte records, written by hand.
	raw := make([]byte, 0, 14)
	for _, rec := range [][]byte{{1, 2, 3}, {255, 0, 128}} {
		var header [4]byte
		binary.LittleEndian.PutUint32(header[:], 3)
		raw = append(raw, header[:]...)
		raw = append(raw, rec...)
	}
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	got, d, err := ReadBvecs(path)
	require.NoError(t, err)

	assert.Equal(t, 3, d)
	assert.Equal(t, []float32{1, 2, 3, 255, 0, 128}, got)
}

func TestReadFvecsTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.fvecs")

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], 8)
	// Header promises 8 floats, body has only 2.
	require.NoError(t, os.WriteFile(path, append(header[:], make([]byte, 8)...), 0o644))

	_, _, err := ReadFvecs(path)
	require.Error(t, err)
}

func TestReadFvecsInconsistentDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.fvecs")

	raw := make([]byte, 0, 32)
	for _, dim := range []uint32{2, 3} {
		var header [4]byte
		binary.LittleEndian.PutUint32(header[:], dim)
		raw = append(raw, header[:]...)
		raw = append(raw, make([]byte, int(dim)*4)...)
	}
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, _, err := ReadFvecs(path)
	require.ErrorIs(t, err, ErrInconsistentDimension)
}

func TestReadFvecsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.fvecs")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	data, d, err := ReadFvecs(path)
	require.NoError(t, err)

	assert.Nil(t, data)
	assert.Zero(t, d)
}

func TestWriteFvecsValidation(t *testing.T) {
	dir := t.TempDir()

	require.Error(t, WriteFvecs(filepath.Join(dir, "bad.fvecs"), make([]float32, 5), 0))
	require.Error(t, WriteFvecs(filepath.Join(dir, "bad.fvecs"), make([]float32, 5), 2))
}
