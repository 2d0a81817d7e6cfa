// Package dataset reads and writes the classic vector benchmark formats
// (fvecs, ivecs, bvecs): each record is a little-endian int32 dimension
// followed by that many float32 / int32 / uint8 elements. All records in a
// file must share one dimension.
//
// Files with a .zst or .lz4 extension are transparently (de)compressed;
// anything else is read as-is. Vector sets are returned flat row-major, the
// layout the search drivers consume directly.
package dataset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrInconsistentDimension is returned when a record's dimension header
// disagrees with the first record of the file.
var ErrInconsistentDimension = errors.New("inconsistent record dimension")

// ReadFvecs reads a set of float32 vectors, returning the flat row-major
// data and the dimension. An empty file yields (nil, 0, nil).
func ReadFvecs(path string) ([]float32, int, error) {
	var data []float32

	d, err := readRecords(path, 4, func(dim int, rec []byte) {
		for off := 0; off < len(rec); off += 4 {
			data = append(data, math.Float32frombits(binary.LittleEndian.Uint32(rec[off:])))
		}
	})
	if err != nil {
		return nil, 0, err
	}

	return data, d, nil
}

// ReadIvecs reads a set of int32 vectors (ground-truth neighbor lists in
// the common benchmarks).
func ReadIvecs(path string) ([]int32, int, error) {
	var data []int32

	d, err := readRecords(path, 4, func(dim int, rec []byte) {
		for off := 0; off < len(rec); off += 4 {
			data = append(data, int32(binary.LittleEndian.Uint32(rec[off:])))
		}
	})
	if err != nil {
		return nil, 0, err
	}

	return data, d, nil
}

// ReadBvecs reads a set of uint8 vectors, widened to float32 so they can be
// searched directly.
func ReadBvecs(path string) ([]float32, int, error) {
	var data []float32

	d, err := readRecords(path, 1, func(dim int, rec []byte) {
		for _, b := range rec {
			data = append(data, float32(b))
		}
	})
	if err != nil {
		return nil, 0, err
	}

	return data, d, nil
}

// WriteFvecs writes flat row-major float32 vectors of dimension d.
func WriteFvecs(path string, data []float32, d int) error {
	return writeRecords(path, len(data), d, func(w *bufio.Writer, begin int) error {
		var buf [4]byte

		for _, v := range data[begin : begin+d] {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			if _, err := w.Write(buf[:]); err != nil {
				return err
			}
		}

		return nil
	})
}

// WriteIvecs writes flat row-major int32 vectors of dimension d.
func WriteIvecs(path string, data []int32, d int) error {
	return writeRecords(path, len(data), d, func(w *bufio.Writer, begin int) error {
		var buf [4]byte

		for _, v := range data[begin : begin+d] {
			binary.LittleEndian.PutUint32(buf[:], uint32(v))
			if _, err := w.Write(buf[:]); err != nil {
				return err
			}
		}

		return nil
	})
}

// readRecords streams all records of a file, calling emit with each raw
// record payload (dim*elemSize bytes). It returns the shared dimension.
func readRecords(path string, elemSize int, emit func(dim int, rec []byte)) (int, error) {
	rc, err := openReader(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, 1<<20)

	var (
		header [4]byte
		rec    []byte
		d      int
	)

	for {
		if _, err := io.ReadFull(br, header[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return d, nil
			}

			return 0, fmt.Errorf("%s: read record header: %w", path, err)
		}

		dim := int(int32(binary.LittleEndian.Uint32(header[:])))
		if dim <= 0 {
			return 0, fmt.Errorf("%s: invalid record dimension %d", path, dim)
		}

		if d == 0 {
			d = dim
			rec = make([]byte, dim*elemSize)
		} else if dim != d {
			return 0, fmt.Errorf("%s: %w: first %d, then %d", path, ErrInconsistentDimension, d, dim)
		}

		if _, err := io.ReadFull(br, rec); err != nil {
			return 0, fmt.Errorf("%s: read record body: %w", path, err)
		}

		emit(dim, rec)
	}
}

func writeRecords(path string, total, d int, emit func(w *bufio.Writer, begin int) error) error {
	if d <= 0 {
		return fmt.Errorf("%s: invalid dimension %d", path, d)
	}

	if total%d != 0 {
		return fmt.Errorf("%s: data length %d not divisible by dimension %d", path, total, d)
	}

	wc, err := openWriter(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(wc, 1<<20)

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(d))

	for begin := 0; begin < total; begin += d {
		if _, err := bw.Write(header[:]); err != nil {
			_ = wc.Close()
			return fmt.Errorf("%s: write record header: %w", path, err)
		}

		if err := emit(bw, begin); err != nil {
			_ = wc.Close()
			return fmt.Errorf("%s: write record body: %w", path, err)
		}
	}

	if err := bw.Flush(); err != nil {
		_ = wc.Close()
		return fmt.Errorf("%s: flush: %w", path, err)
	}

	return wc.Close()
}

// openReader opens path, wrapping it in a decompressor when the extension
// asks for one.
func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(path) {
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%s: zstd: %w", path, err)
		}

		return &zstdReadCloser{dec: dec, f: f}, nil
	case ".lz4":
		return &wrappedReadCloser{r: lz4.NewReader(f), c: f}, nil
	default:
		return f, nil
	}
}

func openWriter(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(path) {
	case ".zst":
		enc, err := zstd.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%s: zstd: %w", path, err)
		}

		return &stackedWriteCloser{w: enc, f: f}, nil
	case ".lz4":
		return &stackedWriteCloser{w: lz4.NewWriter(f), f: f}, nil
	default:
		return f, nil
	}
}

type zstdReadCloser struct {
	dec *zstd.Decoder
	f   *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return z.f.Close()
}

type wrappedReadCloser struct {
	r io.Reader
	c io.Closer
}

func (w *wrappedReadCloser) Read(p []byte) (int, error) { return w.r.Read(p) }
func (w *wrappedReadCloser) Close() error               { return w.c.Close() }

// stackedWriteCloser closes the compressor (flushing its frame) before the
// underlying file.
type stackedWriteCloser struct {
	w io.WriteCloser
	f *os.File
}

func (s *stackedWriteCloser) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *stackedWriteCloser) Close() error {
	if err := s.w.Close(); err != nil {
		_ = s.f.Close()
		return err
	}

	return s.f.Close()
}
