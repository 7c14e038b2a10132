// Package exrdeep implements the deep pixel block codec of an OpenEXR
// reader/writer: the bidirectional transform between compressed on-disk
// deep scanline/tile blocks and an in-memory, typed, structure-of-arrays
// representation of deep samples.
//
// The package is split along the same lines the format itself draws:
//
//   - offsettable.go bridges the on-disk per-scanline cumulative
//     sample-count table and the in-memory per-pixel cumulative table.
//   - pack.go converts between the pixel-major/sample-major/
//     channel-minor little-endian byte stream and per-channel typed
//     arrays.
//   - block.go orchestrates the two above against an external
//     compression collaborator to produce and consume compressed block
//     records.
//   - deepsample.go (this file) owns the DeepSamples container: its
//     offset table and per-channel arrays, plus the invariants that make
//     the other pieces safe to call.
package exrdeep

import (
	"math"

	"github.com/rasterforge/exrdeep/half"
)

// SampleType is the tagged variant over a deep channel's element type.
type SampleType uint8

const (
	// SampleTypeF16 stores samples as IEEE 754 binary16 values (2 bytes).
	SampleTypeF16 SampleType = iota
	// SampleTypeF32 stores samples as IEEE 754 binary32 values (4 bytes).
	SampleTypeF32
	// SampleTypeU32 stores samples as unsigned 32-bit integers (4 bytes).
	SampleTypeU32
)

// BytesPerSample returns the on-disk width of one sample of this type.
func (t SampleType) BytesPerSample() int {
	switch t {
	case SampleTypeF16:
		return 2
	case SampleTypeF32, SampleTypeU32:
		return 4
	default:
		return 0
	}
}

// String implements fmt.Stringer for diagnostics.
func (t SampleType) String() string {
	switch t {
	case SampleTypeF16:
		return "F16"
	case SampleTypeF32:
		return "F32"
	case SampleTypeU32:
		return "U32"
	default:
		return "Unknown"
	}
}

// ChannelDescription describes one channel of a deep image: its name, its
// on-disk/in-memory sample type, and whether it participates in linear
// (as opposed to logarithmic) light transforms.
type ChannelDescription struct {
	Name       string
	SampleType SampleType
	IsLinear   bool
}

// NewChannelDescription is a convenience constructor for ChannelDescription.
func NewChannelDescription(name string, sampleType SampleType, isLinear bool) ChannelDescription {
	return ChannelDescription{Name: name, SampleType: sampleType, IsLinear: isLinear}
}

// ChannelList is an ordered sequence of ChannelDescription. Order is
// significant: it is the canonical iteration order used when packing and
// unpacking sample data.
type ChannelList struct {
	list []ChannelDescription
}

// NewChannelList builds a ChannelList from the given channels, preserving
// order.
func NewChannelList(channels ...ChannelDescription) *ChannelList {
	cl := &ChannelList{list: make([]ChannelDescription, len(channels))}
	copy(cl.list, channels)
	return cl
}

// Len returns the number of channels.
func (cl *ChannelList) Len() int {
	if cl == nil {
		return 0
	}
	return len(cl.list)
}

// At returns the channel at the given index in canonical order.
func (cl *ChannelList) At(i int) ChannelDescription {
	return cl.list[i]
}

// BytesPerSample returns the sum of each channel's BytesPerSample, i.e.
// the number of bytes one deep sample occupies across all channels.
func (cl *ChannelList) BytesPerSample() int {
	total := 0
	for _, ch := range cl.list {
		total += ch.SampleType.BytesPerSample()
	}
	return total
}

// DeepChannelData is the tagged variant carrying one channel's dense
// sample array. Exactly one of F16, F32, U32 is non-nil, matching the
// channel's SampleType.
type DeepChannelData struct {
	Type SampleType
	F16  []half.Half
	F32  []float32
	U32  []uint32
}

// Len returns the number of samples stored, regardless of variant.
func (d DeepChannelData) Len() int {
	switch d.Type {
	case SampleTypeF16:
		return len(d.F16)
	case SampleTypeF32:
		return len(d.F32)
	case SampleTypeU32:
		return len(d.U32)
	default:
		return 0
	}
}

func newDeepChannelData(t SampleType, n int) DeepChannelData {
	switch t {
	case SampleTypeF16:
		return DeepChannelData{Type: t, F16: make([]half.Half, n)}
	case SampleTypeF32:
		return DeepChannelData{Type: t, F32: make([]float32, n)}
	case SampleTypeU32:
		return DeepChannelData{Type: t, U32: make([]uint32, n)}
	default:
		return DeepChannelData{Type: t}
	}
}

// deepSamplesState tracks where a DeepSamples is in its lifecycle: created
// empty, then cumulative counts are set (which fixes total_samples), then
// channel storage is allocated (which fixes array lengths and type tags).
// Operations called out of order fail with ErrInternalConsistency instead
// of silently corrupting state.
type deepSamplesState uint8

const (
	stateEmpty deepSamplesState = iota
	stateCountsSet
	stateAllocated
)

// DeepSamples is the in-memory block: a per-pixel cumulative offset table
// plus one typed, dense array per channel, indexed by global sample
// index.
type DeepSamples struct {
	width, height int
	sampleOffsets []uint32
	channels      []DeepChannelData
	state         deepSamplesState
}

// NewDeepSamples creates an empty DeepSamples for the given pixel
// extents. It is not yet usable for SampleRange/TotalSamples until
// SetCumulativeCounts has been called.
func NewDeepSamples(width, height int) *DeepSamples {
	return &DeepSamples{width: width, height: height}
}

// Width returns the block's pixel width.
func (d *DeepSamples) Width() int { return d.width }

// Height returns the block's pixel height.
func (d *DeepSamples) Height() int { return d.height }

// PixelCount returns width * height.
func (d *DeepSamples) PixelCount() int { return d.width * d.height }

// SetCumulativeCounts installs the in-memory per-pixel cumulative offset
// table. offsets may have length PixelCount() (in which case each entry is
// taken as that pixel's own sample count, and the cumulative table is
// built from their running sum) or PixelCount()+1 (in which case offsets
// is already the cumulative table, and offsets[0] must be 0). On success,
// total_samples is fixed and the DeepSamples moves to stateCountsSet.
func (d *DeepSamples) SetCumulativeCounts(offsets []uint32) error {
	pixelCount := d.PixelCount()

	var table []uint32
	switch len(offsets) {
	case pixelCount:
		table = make([]uint32, pixelCount+1)
		var running uint64
		for i, count := range offsets {
			running += uint64(count)
			if running > math.MaxUint32 {
				return ErrOverflow
			}
			table[i+1] = uint32(running)
		}
	case pixelCount + 1:
		if offsets[0] != 0 {
			return ErrMalformed
		}
		table = make([]uint32, pixelCount+1)
		copy(table, offsets)
	default:
		return ErrMalformed
	}

	for i := 1; i < len(table); i++ {
		if table[i] < table[i-1] {
			return ErrMalformed
		}
	}

	d.sampleOffsets = table
	d.channels = nil
	d.state = stateCountsSet
	return nil
}

// AllocateChannels allocates one typed array per channel in the given
// list, each of length TotalSamples(). Calling it again with a channel
// list of identical shape (same count, same types, same order) is a
// no-op; calling it with a different shape re-allocates. It requires
// SetCumulativeCounts to have run first.
func (d *DeepSamples) AllocateChannels(channels *ChannelList) error {
	if d.state == stateEmpty {
		return ErrInternalConsistency
	}

	if d.state == stateAllocated && sameChannelShape(d.channels, channels) {
		return nil
	}

	out := make([]DeepChannelData, channels.Len())
	total := d.TotalSamples()
	for i := 0; i < channels.Len(); i++ {
		out[i] = newDeepChannelData(channels.At(i).SampleType, total)
	}
	d.channels = out
	d.state = stateAllocated
	return nil
}

func sameChannelShape(existing []DeepChannelData, channels *ChannelList) bool {
	if len(existing) != channels.Len() {
		return false
	}
	for i, ch := range existing {
		if ch.Type != channels.At(i).SampleType {
			return false
		}
	}
	return true
}

// Channels returns the per-channel typed arrays, in ChannelList order.
// The returned slice aliases the DeepSamples' own storage.
func (d *DeepSamples) Channels() []DeepChannelData {
	return d.channels
}

// Channel returns the i'th channel's typed array.
func (d *DeepSamples) Channel(i int) DeepChannelData {
	return d.channels[i]
}

// SampleOffsets returns the per-pixel cumulative offset table (length
// PixelCount()+1, starting at 0). The returned slice aliases the
// DeepSamples' own storage.
func (d *DeepSamples) SampleOffsets() []uint32 {
	return d.sampleOffsets
}

// TotalSamples returns sample_offsets[pixel_count], i.e. the sum of
// sample counts across all pixels of the block. It is 0 until
// SetCumulativeCounts has run.
func (d *DeepSamples) TotalSamples() int {
	if len(d.sampleOffsets) == 0 {
		return 0
	}
	return int(d.sampleOffsets[len(d.sampleOffsets)-1])
}

// SampleRange returns the half-open [start, end) range of global sample
// indices belonging to the pixel at the given row-major index. O(1).
func (d *DeepSamples) SampleRange(pixelIndex int) (start, end int) {
	return int(d.sampleOffsets[pixelIndex]), int(d.sampleOffsets[pixelIndex+1])
}

// Validate rechecks the container's structural invariants: the offset
// table starts at 0, is monotonically non-decreasing, and has the right
// length, and every channel array has length exactly TotalSamples().
// It does not compare channel variant tags with a ChannelDescription. It
// is used by the block codec after unpack, and is safe to call at any
// point after SetCumulativeCounts.
func (d *DeepSamples) Validate() error {
	if len(d.sampleOffsets) != d.PixelCount()+1 {
		return ErrMalformed
	}
	if d.sampleOffsets[0] != 0 {
		return ErrMalformed
	}
	for i := 1; i < len(d.sampleOffsets); i++ {
		if d.sampleOffsets[i] < d.sampleOffsets[i-1] {
			return ErrMalformed
		}
	}

	total := d.TotalSamples()
	for _, ch := range d.channels {
		if ch.Len() != total {
			return ErrInternalConsistency
		}
	}
	return nil
}
