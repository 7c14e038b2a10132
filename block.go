package exrdeep

// Compression identifies an OpenEXR compression method. It is opaque to
// this package beyond the IsSupportedForDeepData table below: the actual
// compress/decompress algorithms live behind the Compressor interface
// (compressor.go).
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionRLE
	CompressionZIPS
	CompressionZIP
	CompressionPIZ
	CompressionPXR24
	CompressionB44
	CompressionB44A
	CompressionDWAA
	CompressionDWAB
)

// IsSupportedForDeepData reports whether c may be used to compress deep
// data. Only lossless compressions qualify; OpenEXR forbids the lossy
// ones (PXR24, B44, B44A, DWAA, DWAB) for deep data since they would
// corrupt sample values that downstream compositing depends on being
// exact.
func IsSupportedForDeepData(c Compression) bool {
	switch c {
	case CompressionNone, CompressionRLE, CompressionZIPS, CompressionZIP, CompressionPIZ:
		return true
	default:
		return false
	}
}

// Limits bounds the allocations a block decode will perform, computed
// from untrusted on-disk sizes (decompressed_sample_data_size, offset
// table sums). Zero fields fall back to the Default* constants. A caller
// decoding blocks from an untrusted source configures this on the
// BlockCodec it constructs.
type Limits struct {
	MaxSamplesPerBlock uint64
	MaxBytesPerBlock   uint64
}

const (
	// DefaultMaxSamplesPerBlock bounds total_samples for one block.
	DefaultMaxSamplesPerBlock uint64 = 1 << 31
	// DefaultMaxBytesPerBlock bounds decompressed_sample_data_size.
	DefaultMaxBytesPerBlock uint64 = 1 << 33
)

func (l Limits) maxSamples() uint64 {
	if l.MaxSamplesPerBlock == 0 {
		return DefaultMaxSamplesPerBlock
	}
	return l.MaxSamplesPerBlock
}

func (l Limits) maxBytes() uint64 {
	if l.MaxBytesPerBlock == 0 {
		return DefaultMaxBytesPerBlock
	}
	return l.MaxBytesPerBlock
}

// CompressedDeepScanLineBlock is the on-disk record for one deep
// scanline chunk.
type CompressedDeepScanLineBlock struct {
	YCoordinate                int32
	DecompressedSampleDataSize uint64
	CompressedPixelOffsetTable []byte
	CompressedSampleDataLE     []byte
}

// TileCoordinates identifies a deep tile's position and mip/rip level.
type TileCoordinates struct {
	TileX, TileY   int32
	LevelX, LevelY int32
}

// CompressedDeepTileBlock is the on-disk record for one deep tile chunk.
// Identical to CompressedDeepScanLineBlock except the coordinate: a
// TileCoordinates replaces the scanline's y_coordinate.
type CompressedDeepTileBlock struct {
	Coordinates                TileCoordinates
	DecompressedSampleDataSize uint64
	CompressedPixelOffsetTable []byte
	CompressedSampleDataLE     []byte
}

// BlockCodec orchestrates the sample-table transcoder (offsettable.go)
// and channel packer (pack.go) against a Compressor to produce and
// consume compressed deep block records. It holds no mutable state beyond
// its Compressor and Limits, both read-only after construction, so one
// BlockCodec may be shared across goroutines each decoding a different
// block.
type BlockCodec struct {
	Compressor Compressor
	Limits     Limits
}

// NewBlockCodec builds a BlockCodec using DefaultCompressor and default
// Limits.
func NewBlockCodec() *BlockCodec {
	return &BlockCodec{Compressor: DefaultCompressor{}}
}

// checkBudget rejects blocks whose claimed sizes exceed policy before any
// allocation is attempted.
func (bc *BlockCodec) checkBudget(decompressedSampleDataSize uint64) error {
	if decompressedSampleDataSize > bc.Limits.maxBytes() {
		return ErrMalformed
	}
	return nil
}

// DecompressScanlineBlock decodes a compressed scanline block: decompress
// the offset table, validate and convert it to per-pixel offsets,
// allocate a DeepSamples, decompress the sample data, unpack it into
// typed channel arrays, and run a final structural self-check.
func (bc *BlockCodec) DecompressScanlineBlock(
	block *CompressedDeepScanLineBlock,
	compression Compression,
	channels *ChannelList,
	width, height int,
	pedantic bool,
) (*DeepSamples, error) {
	if !IsSupportedForDeepData(compression) {
		return nil, ErrUnsupported
	}
	if err := bc.checkBudget(block.DecompressedSampleDataSize); err != nil {
		return nil, err
	}

	diskTable, err := bc.Compressor.DecompressSampleTable(
		compression, block.CompressedPixelOffsetTable, width, height, pedantic)
	if err != nil {
		return nil, err
	}

	if err := ValidateSampleTable(diskTable, width, height); err != nil {
		return nil, err
	}

	pixelOffsets, err := DiskTableToPixelOffsets(diskTable, width, height)
	if err != nil {
		return nil, err
	}

	samples := NewDeepSamples(width, height)
	if err := samples.SetCumulativeCounts(pixelOffsets); err != nil {
		return nil, err
	}

	if uint64(samples.TotalSamples()) > bc.Limits.maxSamples() {
		return nil, ErrMalformed
	}

	raw, err := bc.Compressor.DecompressSampleData(
		compression, block.CompressedSampleDataLE, int(block.DecompressedSampleDataSize), pedantic)
	if err != nil {
		return nil, err
	}

	if err := Unpack(raw, samples, channels); err != nil {
		return nil, err
	}

	if err := samples.Validate(); err != nil {
		return nil, err
	}

	return samples, nil
}

// CompressScanlineBlock encodes a scanline block: assert DeepSamples
// invariants, convert per-pixel offsets to a per-line disk table, pack
// typed channel arrays into the on-disk byte layout, and compress both
// sections.
func (bc *BlockCodec) CompressScanlineBlock(
	samples *DeepSamples,
	compression Compression,
	channels *ChannelList,
	yCoordinate int32,
) (*CompressedDeepScanLineBlock, error) {
	if !IsSupportedForDeepData(compression) {
		return nil, ErrUnsupported
	}
	if err := samples.Validate(); err != nil {
		return nil, err
	}

	diskTable, err := PixelOffsetsToDiskTable(samples.SampleOffsets(), samples.Width(), samples.Height())
	if err != nil {
		return nil, err
	}

	compressedTable, err := bc.Compressor.CompressSampleTable(compression, diskTable)
	if err != nil {
		return nil, err
	}

	packed, err := Pack(samples, channels)
	if err != nil {
		return nil, err
	}

	compressedData, err := bc.Compressor.CompressSampleData(compression, packed)
	if err != nil {
		return nil, err
	}

	return &CompressedDeepScanLineBlock{
		YCoordinate:                yCoordinate,
		DecompressedSampleDataSize: uint64(len(packed)),
		CompressedPixelOffsetTable: compressedTable,
		CompressedSampleDataLE:     compressedData,
	}, nil
}

// DecompressTileBlock is DecompressScanlineBlock's tile-shaped twin: the
// coordinate is opaque to the codec, so the only difference is which
// extents (tileWidth, tileHeight) govern the offset table.
func (bc *BlockCodec) DecompressTileBlock(
	block *CompressedDeepTileBlock,
	compression Compression,
	channels *ChannelList,
	tileWidth, tileHeight int,
	pedantic bool,
) (*DeepSamples, error) {
	scanlineView := &CompressedDeepScanLineBlock{
		YCoordinate:                block.Coordinates.TileY,
		DecompressedSampleDataSize: block.DecompressedSampleDataSize,
		CompressedPixelOffsetTable: block.CompressedPixelOffsetTable,
		CompressedSampleDataLE:     block.CompressedSampleDataLE,
	}
	return bc.DecompressScanlineBlock(scanlineView, compression, channels, tileWidth, tileHeight, pedantic)
}

// CompressTileBlock is CompressScanlineBlock's tile-shaped twin.
func (bc *BlockCodec) CompressTileBlock(
	samples *DeepSamples,
	compression Compression,
	channels *ChannelList,
	coordinates TileCoordinates,
) (*CompressedDeepTileBlock, error) {
	scanline, err := bc.CompressScanlineBlock(samples, compression, channels, coordinates.TileY)
	if err != nil {
		return nil, err
	}
	return &CompressedDeepTileBlock{
		Coordinates:                coordinates,
		DecompressedSampleDataSize: scanline.DecompressedSampleDataSize,
		CompressedPixelOffsetTable: scanline.CompressedPixelOffsetTable,
		CompressedSampleDataLE:     scanline.CompressedSampleDataLE,
	}, nil
}
