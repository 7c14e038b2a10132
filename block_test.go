package exrdeep

import (
	"bytes"
	"testing"

	"github.com/rasterforge/exrdeep/half"
)

// fakeCompressor is a pass-through Compressor used to exercise BlockCodec's
// orchestration independent of the real compression algorithms.
type fakeCompressor struct {
	failTable bool
	failData  bool
}

func (f fakeCompressor) CompressSampleTable(c Compression, table []int32) ([]byte, error) {
	return encodeInt32TableLE(table), nil
}

func (f fakeCompressor) DecompressSampleTable(c Compression, data []byte, width, height int, pedantic bool) ([]int32, error) {
	if f.failTable {
		return nil, ErrMalformed
	}
	return decodeInt32TableLE(data, width*height)
}

func (f fakeCompressor) CompressSampleData(c Compression, raw []byte) ([]byte, error) {
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (f fakeCompressor) DecompressSampleData(c Compression, data []byte, expectedSize int, pedantic bool) ([]byte, error) {
	if f.failData {
		return nil, ErrSizeMismatch
	}
	if len(data) != expectedSize {
		return nil, ErrSizeMismatch
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func threeByTwoChannels() *ChannelList {
	return NewChannelList(
		NewChannelDescription("R", SampleTypeF32, true),
		NewChannelDescription("G", SampleTypeF32, true),
		NewChannelDescription("B", SampleTypeF32, true),
	)
}

// TestScanlineBlockRoundTrip exercises a 3x2 block with counts per pixel
// [2,1,3,0,2,1] (row 0 [2,1,3], row 1 [0,2,1]), total_samples=9,
// tri-channel F32 (R = 0..8, G = 0,10..80, B = 0,100..800). It checks the
// expected disk offset table [2,3,6,0,2,3], the expected pixel offsets
// [0,2,3,6,6,8,9], and the expected byte stream length 9*12=108, round
// tripping under both uncompressed and RLE storage.
func TestScanlineBlockRoundTrip(t *testing.T) {
	width, height := 3, 2
	channels := threeByTwoChannels()

	samples := NewDeepSamples(width, height)
	if err := samples.SetCumulativeCounts([]uint32{2, 1, 3, 0, 2, 1}); err != nil {
		t.Fatalf("SetCumulativeCounts: %v", err)
	}

	wantPixelOffsets := []uint32{0, 2, 3, 6, 6, 8, 9}
	if got := samples.SampleOffsets(); !equalUint32(got, wantPixelOffsets) {
		t.Fatalf("pixel offsets = %v, want %v", got, wantPixelOffsets)
	}

	if err := samples.AllocateChannels(channels); err != nil {
		t.Fatalf("AllocateChannels: %v", err)
	}
	total := samples.TotalSamples()
	if total != 9 {
		t.Fatalf("TotalSamples = %d, want 9", total)
	}
	for i := 0; i < total; i++ {
		samples.channels[0].F32[i] = float32(i)
		samples.channels[1].F32[i] = float32(i) * 10
		samples.channels[2].F32[i] = float32(i) * 100
	}

	wantDiskTable := []int32{2, 3, 6, 0, 2, 3}
	diskTable, err := PixelOffsetsToDiskTable(samples.SampleOffsets(), width, height)
	if err != nil {
		t.Fatalf("PixelOffsetsToDiskTable: %v", err)
	}
	if !equalInt32(diskTable, wantDiskTable) {
		t.Fatalf("disk offset table = %v, want %v", diskTable, wantDiskTable)
	}

	for _, comp := range []Compression{CompressionNone, CompressionRLE} {
		bc := NewBlockCodec()

		block, err := bc.CompressScanlineBlock(samples, comp, channels, 17)
		if err != nil {
			t.Fatalf("CompressScanlineBlock(%v): %v", comp, err)
		}
		if block.YCoordinate != 17 {
			t.Errorf("YCoordinate = %d, want 17", block.YCoordinate)
		}
		wantDataLen := 9 * 12
		if int(block.DecompressedSampleDataSize) != wantDataLen {
			t.Errorf("%v: DecompressedSampleDataSize = %d, want %d", comp, block.DecompressedSampleDataSize, wantDataLen)
		}

		decoded, err := bc.DecompressScanlineBlock(block, comp, channels, width, height, true)
		if err != nil {
			t.Fatalf("DecompressScanlineBlock(%v): %v", comp, err)
		}
		if decoded.TotalSamples() != total {
			t.Fatalf("%v: decoded TotalSamples = %d, want %d", comp, decoded.TotalSamples(), total)
		}
		for i := 0; i < total; i++ {
			if decoded.channels[0].F32[i] != float32(i) ||
				decoded.channels[1].F32[i] != float32(i)*10 ||
				decoded.channels[2].F32[i] != float32(i)*100 {
				t.Errorf("%v: sample %d = (%v,%v,%v), want (%v,%v,%v)", comp, i,
					decoded.channels[0].F32[i], decoded.channels[1].F32[i], decoded.channels[2].F32[i],
					float32(i), float32(i)*10, float32(i)*100)
			}
		}
	}
}

func equalUint32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInt32(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestScanlineBlockZeroSamples exercises a 1x1 block with zero samples.
func TestScanlineBlockZeroSamples(t *testing.T) {
	channels := threeByTwoChannels()
	samples := NewDeepSamples(1, 1)
	if err := samples.SetCumulativeCounts([]uint32{0, 0}); err != nil {
		t.Fatalf("SetCumulativeCounts: %v", err)
	}

	bc := &BlockCodec{Compressor: fakeCompressor{}}
	block, err := bc.CompressScanlineBlock(samples, CompressionNone, channels, 0)
	if err != nil {
		t.Fatalf("CompressScanlineBlock: %v", err)
	}
	if block.DecompressedSampleDataSize != 0 {
		t.Errorf("DecompressedSampleDataSize = %d, want 0", block.DecompressedSampleDataSize)
	}

	decoded, err := bc.DecompressScanlineBlock(block, CompressionNone, channels, 1, 1, true)
	if err != nil {
		t.Fatalf("DecompressScanlineBlock: %v", err)
	}
	if decoded.TotalSamples() != 0 {
		t.Errorf("TotalSamples = %d, want 0", decoded.TotalSamples())
	}
}

// TestScanlineBlockMixedTypeEndianness exercises a 2x1 block with counts
// [2,3] and channels [Z: F32, ZBack: F32, id: U32]. Each sample occupies
// 4+4+4=12 bytes in channel order; id[0] = 0x01020304 must land as bytes
// 04 03 02 01 at the id slot.
func TestScanlineBlockMixedTypeEndianness(t *testing.T) {
	channels := NewChannelList(
		NewChannelDescription("Z", SampleTypeF32, true),
		NewChannelDescription("ZBack", SampleTypeF32, true),
		NewChannelDescription("id", SampleTypeU32, false),
	)

	samples := NewDeepSamples(2, 1)
	if err := samples.SetCumulativeCounts([]uint32{2, 3}); err != nil {
		t.Fatalf("SetCumulativeCounts: %v", err)
	}
	if err := samples.AllocateChannels(channels); err != nil {
		t.Fatalf("AllocateChannels: %v", err)
	}
	samples.channels[2].U32[0] = 0x01020304

	packed, err := Pack(samples, channels)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	wantLen := 5 * 12
	if len(packed) != wantLen {
		t.Fatalf("packed length = %d, want %d", len(packed), wantLen)
	}
	idSlot := packed[8:12]
	want := []byte{0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(idSlot, want) {
		t.Errorf("id[0] bytes = % X, want % X", idSlot, want)
	}
}

// TestScanlineBlockMalformedMonotonicity checks that a non-monotonic
// on-disk sample table is rejected.
func TestScanlineBlockMalformedMonotonicity(t *testing.T) {
	channels := threeByTwoChannels()
	bc := &BlockCodec{Compressor: fakeCompressor{}}

	badTable := []int32{2, 1}
	block := &CompressedDeepScanLineBlock{
		CompressedPixelOffsetTable: encodeInt32TableLE(badTable),
		CompressedSampleDataLE:     nil,
		DecompressedSampleDataSize: 0,
	}
	_, err := bc.DecompressScanlineBlock(block, CompressionNone, channels, 2, 1, true)
	if err != ErrMalformed {
		t.Errorf("got %v, want ErrMalformed", err)
	}
}

// TestScanlineBlockMalformedSize checks that a sample-data section which
// does not match its claimed decompressed size fails regardless of
// pedantic mode.
func TestScanlineBlockMalformedSize(t *testing.T) {
	channels := threeByTwoChannels()
	bc := &BlockCodec{Compressor: fakeCompressor{failData: true}}

	table := []int32{1, 1}
	block := &CompressedDeepScanLineBlock{
		CompressedPixelOffsetTable: encodeInt32TableLE(table),
		CompressedSampleDataLE:     make([]byte, 4),
		DecompressedSampleDataSize: 24,
	}
	for _, pedantic := range []bool{true, false} {
		_, err := bc.DecompressScanlineBlock(block, CompressionNone, channels, 2, 1, pedantic)
		if err != ErrSizeMismatch {
			t.Errorf("pedantic=%v: got %v, want ErrSizeMismatch", pedantic, err)
		}
	}
}

// TestLargeScanlineBlockUnderZIPS round-trips a realistically large
// single-sample-per-pixel block through the real ZIPS compressor.
func TestLargeScanlineBlockUnderZIPS(t *testing.T) {
	width, height := 1920, 1080
	channels := NewChannelList(NewChannelDescription("Z", SampleTypeF16, false))

	samples := NewDeepSamples(width, height)
	offsets := make([]uint32, width*height+1)
	for i := range offsets {
		offsets[i] = uint32(i)
	}
	if err := samples.SetCumulativeCounts(offsets); err != nil {
		t.Fatalf("SetCumulativeCounts: %v", err)
	}
	if err := samples.AllocateChannels(channels); err != nil {
		t.Fatalf("AllocateChannels: %v", err)
	}
	for i := range samples.channels[0].F16 {
		samples.channels[0].F16[i] = half.FromBits(0x3C00)
	}

	bc := NewBlockCodec()
	block, err := bc.CompressScanlineBlock(samples, CompressionZIPS, channels, 0)
	if err != nil {
		t.Fatalf("CompressScanlineBlock: %v", err)
	}

	decoded, err := bc.DecompressScanlineBlock(block, CompressionZIPS, channels, width, height, true)
	if err != nil {
		t.Fatalf("DecompressScanlineBlock: %v", err)
	}
	if decoded.TotalSamples() != width*height {
		t.Fatalf("TotalSamples = %d, want %d", decoded.TotalSamples(), width*height)
	}
	for i, v := range decoded.channels[0].F16 {
		if v.Bits() != 0x3C00 {
			t.Fatalf("sample %d = 0x%04X, want 0x3C00", i, v.Bits())
		}
	}
}

func TestUnsupportedCompressionRejected(t *testing.T) {
	channels := threeByTwoChannels()
	bc := &BlockCodec{Compressor: fakeCompressor{}}
	samples := NewDeepSamples(1, 1)
	if err := samples.SetCumulativeCounts([]uint32{0}); err != nil {
		t.Fatalf("SetCumulativeCounts: %v", err)
	}
	if _, err := bc.CompressScanlineBlock(samples, CompressionPXR24, channels, 0); err != ErrUnsupported {
		t.Errorf("got %v, want ErrUnsupported", err)
	}
}

func TestTileBlockRoundTrip(t *testing.T) {
	width, height := 4, 4
	channels := NewChannelList(NewChannelDescription("Z", SampleTypeF32, false))

	samples := NewDeepSamples(width, height)
	offsets := make([]uint32, width*height+1)
	for i := range offsets {
		offsets[i] = uint32(i)
	}
	if err := samples.SetCumulativeCounts(offsets); err != nil {
		t.Fatalf("SetCumulativeCounts: %v", err)
	}
	if err := samples.AllocateChannels(channels); err != nil {
		t.Fatalf("AllocateChannels: %v", err)
	}
	for i := range samples.channels[0].F32 {
		samples.channels[0].F32[i] = float32(i)
	}

	bc := &BlockCodec{Compressor: fakeCompressor{}}
	coords := TileCoordinates{TileX: 1, TileY: 2, LevelX: 0, LevelY: 0}
	block, err := bc.CompressTileBlock(samples, CompressionNone, channels, coords)
	if err != nil {
		t.Fatalf("CompressTileBlock: %v", err)
	}
	if block.Coordinates != coords {
		t.Errorf("Coordinates = %+v, want %+v", block.Coordinates, coords)
	}

	decoded, err := bc.DecompressTileBlock(block, CompressionNone, channels, width, height, true)
	if err != nil {
		t.Fatalf("DecompressTileBlock: %v", err)
	}
	for i, v := range decoded.channels[0].F32 {
		if v != float32(i) {
			t.Errorf("sample %d = %v, want %v", i, v, float32(i))
		}
	}
}

func TestCheckBudgetRejectsOversizedBlock(t *testing.T) {
	bc := &BlockCodec{Compressor: fakeCompressor{}, Limits: Limits{MaxBytesPerBlock: 16}}
	block := &CompressedDeepScanLineBlock{DecompressedSampleDataSize: 17}
	channels := threeByTwoChannels()
	_, err := bc.DecompressScanlineBlock(block, CompressionNone, channels, 1, 1, true)
	if err != ErrMalformed {
		t.Errorf("got %v, want ErrMalformed", err)
	}
}

func BenchmarkDecompressScanlineBlock(b *testing.B) {
	width, height := 1920, 1080
	channels := NewChannelList(NewChannelDescription("Z", SampleTypeF16, false))

	samples := NewDeepSamples(width, height)
	offsets := make([]uint32, width*height+1)
	for i := range offsets {
		offsets[i] = uint32(i)
	}
	if err := samples.SetCumulativeCounts(offsets); err != nil {
		b.Fatalf("SetCumulativeCounts: %v", err)
	}
	if err := samples.AllocateChannels(channels); err != nil {
		b.Fatalf("AllocateChannels: %v", err)
	}
	for i := range samples.channels[0].F16 {
		samples.channels[0].F16[i] = half.FromBits(0x3C00)
	}

	bc := NewBlockCodec()
	block, err := bc.CompressScanlineBlock(samples, CompressionZIPS, channels, 0)
	if err != nil {
		b.Fatalf("CompressScanlineBlock: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := bc.DecompressScanlineBlock(block, CompressionZIPS, channels, width, height, true); err != nil {
			b.Fatalf("DecompressScanlineBlock: %v", err)
		}
	}
}
