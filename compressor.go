package exrdeep

import (
	"github.com/rasterforge/exrdeep/compression"
	"github.com/rasterforge/exrdeep/internal/predictor"
	"github.com/rasterforge/exrdeep/internal/xdr"
)

// This file is the seam to the external compression layer, treated as an
// opaque collaborator: the core never inspects compressed bytes or knows
// compression algorithms, it only calls these four entry points.
// Compressor is expressed as an interface so tests can supply a fake that
// never touches real zlib/RLE when exercising malformed-input paths, and
// DefaultCompressor supplies the real, production implementation.
type Compressor interface {
	CompressSampleTable(c Compression, table []int32) ([]byte, error)
	DecompressSampleTable(c Compression, data []byte, width, height int, pedantic bool) ([]int32, error)
	CompressSampleData(c Compression, raw []byte) ([]byte, error)
	DecompressSampleData(c Compression, data []byte, expectedSize int, pedantic bool) ([]byte, error)
}

// DefaultCompressor wires the four entry points to the real compression
// package (RLE, ZIP/ZIPS via klauspost/compress/zlib, predictor,
// interleave). CompressionPIZ is accepted by IsSupportedForDeepData
// (OpenEXR itself allows it for deep data) but this implementation
// returns ErrUnsupported for it, since this build does not carry a
// deep-data PIZ codec.
type DefaultCompressor struct {
	// ZIPLevel is the zlib compression level used for CompressionZIP and
	// CompressionZIPS. Zero means CompressionLevelDefault.
	ZIPLevel compression.CompressionLevel
}

func (d DefaultCompressor) zipLevel() compression.CompressionLevel {
	if d.ZIPLevel == 0 {
		return compression.CompressionLevelDefault
	}
	return d.ZIPLevel
}

// CompressSampleTable encodes the on-disk per-line cumulative int32
// table.
func (d DefaultCompressor) CompressSampleTable(c Compression, table []int32) ([]byte, error) {
	raw := encodeInt32TableLE(table)
	return d.compressBytes(c, raw)
}

// DecompressSampleTable decodes the on-disk per-line cumulative int32
// table; the returned slice always has length width*height.
func (d DefaultCompressor) DecompressSampleTable(c Compression, data []byte, width, height int, pedantic bool) ([]int32, error) {
	expected := width * height * 4
	raw, err := d.decompressBytes(c, data, expected, pedantic)
	if err != nil {
		return nil, err
	}
	return decodeInt32TableLE(raw, width*height)
}

// CompressSampleData compresses the packed, pixel-major/sample-major/
// channel-minor little-endian sample byte stream.
func (d DefaultCompressor) CompressSampleData(c Compression, raw []byte) ([]byte, error) {
	return d.compressBytes(c, raw)
}

// DecompressSampleData decompresses the sample-data section, applying
// the lenient trailing-zero-padding tolerance when pedantic is false.
func (d DefaultCompressor) DecompressSampleData(c Compression, data []byte, expectedSize int, pedantic bool) ([]byte, error) {
	return d.decompressBytes(c, data, expectedSize, pedantic)
}

// maxLenientPad is the largest trailing all-zero run lenient mode will
// silently discard from a decompressed buffer.
const maxLenientPad = 7

func (d DefaultCompressor) compressBytes(c Compression, raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	switch c {
	case CompressionNone:
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil

	case CompressionRLE:
		encoded := make([]byte, len(raw))
		copy(encoded, raw)
		predictor.EncodeSIMD(encoded)
		return compression.RLECompress(encoded), nil

	case CompressionZIPS, CompressionZIP:
		encoded := make([]byte, len(raw))
		copy(encoded, raw)
		predictor.EncodeSIMD(encoded)
		interleaved := interleaveBytes(encoded)
		return compression.ZIPCompressLevel(interleaved, d.zipLevel())

	case CompressionPIZ:
		return nil, ErrUnsupported

	default:
		return nil, ErrUnsupported
	}
}

func (d DefaultCompressor) decompressBytes(c Compression, data []byte, expectedSize int, pedantic bool) ([]byte, error) {
	if expectedSize == 0 {
		return nil, nil
	}
	if len(data) == 0 {
		return nil, ErrSizeMismatch
	}

	switch c {
	case CompressionNone:
		return exactOrLenient(data, expectedSize, pedantic)

	case CompressionRLE:
		decoded, err := rleDecompressLenient(data, expectedSize, pedantic)
		if err != nil {
			return nil, err
		}
		predictor.DecodeSIMD(decoded)
		return decoded, nil

	case CompressionZIPS, CompressionZIP:
		decoded, err := zipDecompressLenient(data, expectedSize, pedantic)
		if err != nil {
			return nil, err
		}
		deinterleaved := deinterleaveBytes(decoded)
		predictor.DecodeSIMD(deinterleaved)
		return deinterleaved, nil

	case CompressionPIZ:
		return nil, ErrUnsupported

	default:
		return nil, ErrUnsupported
	}
}

// exactOrLenient trims a trailing all-zero pad of at most maxLenientPad
// bytes when pedantic is false; otherwise it requires an exact match. A
// buffer shorter than expectedSize is never recoverable.
func exactOrLenient(data []byte, expectedSize int, pedantic bool) ([]byte, error) {
	if len(data) == expectedSize {
		out := make([]byte, expectedSize)
		copy(out, data)
		return out, nil
	}
	if pedantic || len(data) < expectedSize {
		return nil, ErrSizeMismatch
	}
	pad := len(data) - expectedSize
	if pad > maxLenientPad {
		return nil, ErrSizeMismatch
	}
	for _, b := range data[expectedSize:] {
		if b != 0 {
			return nil, ErrSizeMismatch
		}
	}
	out := make([]byte, expectedSize)
	copy(out, data[:expectedSize])
	return out, nil
}

// rleDecompressLenient decodes RLE data, first at the exact expected
// size, then, in lenient mode only, retrying at larger target sizes to
// discover whether the extra bytes are a zero pad.
func rleDecompressLenient(data []byte, expectedSize int, pedantic bool) ([]byte, error) {
	if decoded, err := compression.RLEDecompress(data, expectedSize); err == nil {
		return decoded, nil
	}
	if pedantic {
		return nil, ErrSizeMismatch
	}
	for pad := 1; pad <= maxLenientPad; pad++ {
		decoded, err := compression.RLEDecompress(data, expectedSize+pad)
		if err != nil {
			continue
		}
		if allZero(decoded[expectedSize:]) {
			return decoded[:expectedSize], nil
		}
	}
	return nil, ErrSizeMismatch
}

// zipDecompressLenient is rleDecompressLenient's ZIP/ZIPS counterpart.
func zipDecompressLenient(data []byte, expectedSize int, pedantic bool) ([]byte, error) {
	if decoded, err := compression.ZIPDecompress(data, expectedSize); err == nil {
		return decoded, nil
	}
	if pedantic {
		return nil, ErrSizeMismatch
	}
	for pad := 1; pad <= maxLenientPad; pad++ {
		decoded, err := compression.ZIPDecompress(data, expectedSize+pad)
		if err != nil {
			continue
		}
		if allZero(decoded[expectedSize:]) {
			return decoded[:expectedSize], nil
		}
	}
	return nil, ErrSizeMismatch
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// interleaveBytes/deinterleaveBytes pick the SIMD-accelerated byte-plane
// interleave for blocks large enough to benefit.
func interleaveBytes(data []byte) []byte {
	if len(data) >= 32 {
		return compression.InterleaveFast(data)
	}
	return compression.Interleave(data)
}

func deinterleaveBytes(data []byte) []byte {
	if len(data) >= 32 {
		return compression.DeinterleaveFast(data)
	}
	return compression.Deinterleave(data)
}

func encodeInt32TableLE(table []int32) []byte {
	w := xdr.NewBufferWriter(len(table) * 4)
	for _, v := range table {
		w.WriteInt32(v)
	}
	return w.Bytes()
}

func decodeInt32TableLE(raw []byte, count int) ([]int32, error) {
	if len(raw) != count*4 {
		return nil, ErrMalformed
	}
	r := xdr.NewReader(raw)
	table := make([]int32, count)
	for i := range table {
		v, err := r.ReadInt32()
		if err != nil {
			return nil, ErrMalformed
		}
		table[i] = v
	}
	return table, nil
}
