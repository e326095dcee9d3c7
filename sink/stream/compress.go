package stream

import (
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm selects a stream compression codec, adapted from a one-shot
// HTTP response compressor onto the entry stream boundary.
type Algorithm string

const (
	AlgorithmNone   Algorithm = "none"
	AlgorithmGzip   Algorithm = "gzip"
	AlgorithmZlib   Algorithm = "zlib"
	AlgorithmZstd   Algorithm = "zstd"
	AlgorithmLZ4    Algorithm = "lz4"
	AlgorithmSnappy Algorithm = "snappy"
)

var (
	gzipPool = sync.Pool{New: func() interface{} { w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression); return w }}
	zlibPool = sync.Pool{New: func() interface{} { w, _ := zlib.NewWriterLevel(io.Discard, zlib.DefaultCompression); return w }}
	lz4Pool  = sync.Pool{New: func() interface{} { return lz4.NewWriter(io.Discard) }}
)

// NewCompressingWriter wraps w so every byte written is compressed under
// algorithm before reaching w. The returned writer must be closed to flush
// any trailing compressed bytes; closing does not close w.
func NewCompressingWriter(w io.Writer, algorithm Algorithm) (io.WriteCloser, error) {
	switch algorithm {
	case "", AlgorithmNone:
		return nopCloser{w}, nil
	case AlgorithmGzip:
		gw := gzipPool.Get().(*gzip.Writer)
		gw.Reset(w)
		return &pooledWriter{WriteCloser: gw, put: func() { gzipPool.Put(gw) }}, nil
	case AlgorithmZlib:
		zw := zlibPool.Get().(*zlib.Writer)
		zw.Reset(w)
		return &pooledWriter{WriteCloser: zw, put: func() { zlibPool.Put(zw) }}, nil
	case AlgorithmZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, err
		}
		return enc, nil
	case AlgorithmLZ4:
		lw := lz4Pool.Get().(*lz4.Writer)
		lw.Reset(w)
		return &pooledWriter{WriteCloser: lw, put: func() { lz4Pool.Put(lw) }}, nil
	case AlgorithmSnappy:
		return snappy.NewBufferedWriter(w), nil
	default:
		return nil, fmt.Errorf("stream: unsupported compression algorithm %q", algorithm)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// pooledWriter closes the underlying codec writer (flushing it) and then
// returns it to its sync.Pool for reuse, scoped to a single long-lived
// stream rather than one-shot HTTP responses.
type pooledWriter struct {
	io.WriteCloser
	put func()
}

func (p *pooledWriter) Close() error {
	err := p.WriteCloser.Close()
	p.put()
	return err
}
