package exrdeep

import (
	"bytes"
	"testing"
)

func TestDefaultCompressorNoneRoundTrip(t *testing.T) {
	d := DefaultCompressor{}
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	compressed, err := d.CompressSampleData(CompressionNone, raw)
	if err != nil {
		t.Fatalf("CompressSampleData: %v", err)
	}
	decompressed, err := d.DecompressSampleData(CompressionNone, compressed, len(raw), true)
	if err != nil {
		t.Fatalf("DecompressSampleData: %v", err)
	}
	if !bytes.Equal(decompressed, raw) {
		t.Errorf("got %v, want %v", decompressed, raw)
	}
}

func TestDefaultCompressorRLERoundTrip(t *testing.T) {
	d := DefaultCompressor{}
	raw := bytes.Repeat([]byte{0x42}, 64)

	compressed, err := d.CompressSampleData(CompressionRLE, raw)
	if err != nil {
		t.Fatalf("CompressSampleData: %v", err)
	}
	decompressed, err := d.DecompressSampleData(CompressionRLE, compressed, len(raw), true)
	if err != nil {
		t.Fatalf("DecompressSampleData: %v", err)
	}
	if !bytes.Equal(decompressed, raw) {
		t.Errorf("got %v, want %v", decompressed, raw)
	}
}

func TestDefaultCompressorZIPRoundTrip(t *testing.T) {
	d := DefaultCompressor{}
	raw := make([]byte, 256)
	for i := range raw {
		raw[i] = byte(i * 7)
	}

	for _, c := range []Compression{CompressionZIP, CompressionZIPS} {
		compressed, err := d.CompressSampleData(c, raw)
		if err != nil {
			t.Fatalf("CompressSampleData(%v): %v", c, err)
		}
		decompressed, err := d.DecompressSampleData(c, compressed, len(raw), true)
		if err != nil {
			t.Fatalf("DecompressSampleData(%v): %v", c, err)
		}
		if !bytes.Equal(decompressed, raw) {
			t.Errorf("%v: got %v, want %v", c, decompressed, raw)
		}
	}
}

func TestDefaultCompressorSampleTableRoundTrip(t *testing.T) {
	d := DefaultCompressor{}
	table := []int32{0, 3, 3, 6, 9, 9}

	compressed, err := d.CompressSampleTable(CompressionZIP, table)
	if err != nil {
		t.Fatalf("CompressSampleTable: %v", err)
	}
	decoded, err := d.DecompressSampleTable(CompressionZIP, compressed, 2, 3, true)
	if err != nil {
		t.Fatalf("DecompressSampleTable: %v", err)
	}
	for i, v := range table {
		if decoded[i] != v {
			t.Errorf("entry %d = %d, want %d", i, decoded[i], v)
		}
	}
}

func TestDefaultCompressorPIZUnsupported(t *testing.T) {
	d := DefaultCompressor{}
	if _, err := d.CompressSampleData(CompressionPIZ, []byte{1}); err != ErrUnsupported {
		t.Errorf("compress: got %v, want ErrUnsupported", err)
	}
	if _, err := d.DecompressSampleData(CompressionPIZ, []byte{1}, 1, true); err != ErrUnsupported {
		t.Errorf("decompress: got %v, want ErrUnsupported", err)
	}
}

// TestDefaultCompressorLenientPadding checks that a decompressed buffer
// padded with up to 7 trailing zero bytes is accepted only when pedantic
// is false.
func TestDefaultCompressorLenientPadding(t *testing.T) {
	d := DefaultCompressor{}
	raw := []byte{10, 20, 30, 40}

	for pad := 0; pad <= maxLenientPad; pad++ {
		padded := append(append([]byte{}, raw...), make([]byte, pad)...)

		decompressed, err := d.DecompressSampleData(CompressionNone, padded, len(raw), false)
		if err != nil {
			t.Fatalf("pad=%d lenient: unexpected error: %v", pad, err)
		}
		if !bytes.Equal(decompressed, raw) {
			t.Errorf("pad=%d lenient: got %v, want %v", pad, decompressed, raw)
		}

		if pad == 0 {
			continue
		}
		if _, err := d.DecompressSampleData(CompressionNone, padded, len(raw), true); err != ErrSizeMismatch {
			t.Errorf("pad=%d pedantic: got %v, want ErrSizeMismatch", pad, err)
		}
	}
}

func TestDefaultCompressorLenientPaddingRejectsNonZeroTail(t *testing.T) {
	d := DefaultCompressor{}
	padded := []byte{10, 20, 30, 40, 0, 1}
	if _, err := d.DecompressSampleData(CompressionNone, padded, 4, false); err != ErrSizeMismatch {
		t.Errorf("got %v, want ErrSizeMismatch", err)
	}
}

func TestDefaultCompressorLenientPaddingRejectsTooLong(t *testing.T) {
	d := DefaultCompressor{}
	padded := append([]byte{10, 20, 30, 40}, make([]byte, maxLenientPad+1)...)
	if _, err := d.DecompressSampleData(CompressionNone, padded, 4, false); err != ErrSizeMismatch {
		t.Errorf("got %v, want ErrSizeMismatch", err)
	}
}

// TestDefaultCompressorShortBufferAlwaysFails checks that a buffer
// shorter than expected fails even in lenient mode.
func TestDefaultCompressorShortBufferAlwaysFails(t *testing.T) {
	d := DefaultCompressor{}
	short := []byte{1, 2, 3}
	for _, pedantic := range []bool{true, false} {
		if _, err := d.DecompressSampleData(CompressionNone, short, 4, pedantic); err != ErrSizeMismatch {
			t.Errorf("pedantic=%v: got %v, want ErrSizeMismatch", pedantic, err)
		}
	}
}

func TestDefaultCompressorZeroExpectedSize(t *testing.T) {
	d := DefaultCompressor{}
	out, err := d.DecompressSampleData(CompressionNone, nil, 0, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Errorf("got %v, want nil", out)
	}
}
