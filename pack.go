package exrdeep

import (
	"github.com/rasterforge/exrdeep/half"
	"github.com/rasterforge/exrdeep/internal/xdr"
)

// This file is the channel packer/unpacker: the bridge between the
// on-disk pixel-major/sample-major/channel-minor little-endian byte
// stream and the in-memory structure-of-arrays channel storage.
//
// On-disk layout, samples outer and channels inner within a single pixel:
//
//	for each pixel p in row-major order:
//	  for each sample s in [0, count_of(p)):
//	    for each channel c in channel_list order:
//	      write little-endian bytes of sample_type(c)
//
// Every scalar read/write goes through internal/xdr, never a host-order
// reinterpret cast, so this is correct on big-endian hosts too.

// Unpack reads a pixel-major/sample-major/channel-minor little-endian
// byte stream into samples' per-channel typed arrays. samples must
// already have its cumulative counts set (AllocateChannels is called by
// Unpack itself). Returns ErrSizeMismatch if len(data) does not equal
// total_samples * channels.BytesPerSample().
func Unpack(data []byte, samples *DeepSamples, channels *ChannelList) error {
	if samples.state == stateEmpty {
		return ErrInternalConsistency
	}

	if err := samples.AllocateChannels(channels); err != nil {
		return err
	}

	total := samples.TotalSamples()
	bytesPerSample := channels.BytesPerSample()
	expected := total * bytesPerSample

	if total == 0 {
		if len(data) != 0 {
			return ErrSizeMismatch
		}
		return nil
	}

	if len(data) != expected {
		return ErrSizeMismatch
	}

	r := xdr.NewReader(data)
	pixelCount := samples.PixelCount()

	for p := 0; p < pixelCount; p++ {
		start, end := samples.SampleRange(p)
		for s := start; s < end; s++ {
			for ci := 0; ci < channels.Len(); ci++ {
				ch := channels.At(ci)
				dest := &samples.channels[ci]
				if dest.Type != ch.SampleType {
					return ErrInternalConsistency
				}

				switch ch.SampleType {
				case SampleTypeF16:
					v, err := r.ReadUint16()
					if err != nil {
						return ErrSizeMismatch
					}
					dest.F16[s] = half.FromBits(v)
				case SampleTypeF32:
					v, err := r.ReadFloat32()
					if err != nil {
						return ErrSizeMismatch
					}
					dest.F32[s] = v
				case SampleTypeU32:
					v, err := r.ReadUint32()
					if err != nil {
						return ErrSizeMismatch
					}
					dest.U32[s] = v
				default:
					return ErrInternalConsistency
				}
			}
		}
	}

	if r.Pos() != len(data) {
		return ErrSizeMismatch
	}
	return nil
}

// Pack writes samples' per-channel typed arrays into a pixel-major/
// sample-major/channel-minor little-endian byte stream, in the order
// defined by channels. The returned slice has exact length
// total_samples * channels.BytesPerSample(); it never has trailing
// bytes.
func Pack(samples *DeepSamples, channels *ChannelList) ([]byte, error) {
	total := samples.TotalSamples()
	if total == 0 {
		return nil, nil
	}

	bytesPerSample := channels.BytesPerSample()
	w := xdr.NewBufferWriter(total * bytesPerSample)

	pixelCount := samples.PixelCount()
	for p := 0; p < pixelCount; p++ {
		start, end := samples.SampleRange(p)
		for s := start; s < end; s++ {
			for ci := 0; ci < channels.Len(); ci++ {
				ch := channels.At(ci)
				src := samples.channels[ci]
				if src.Type != ch.SampleType {
					return nil, ErrInternalConsistency
				}

				switch ch.SampleType {
				case SampleTypeF16:
					w.WriteUint16(src.F16[s].Bits())
				case SampleTypeF32:
					w.WriteFloat32(src.F32[s])
				case SampleTypeU32:
					w.WriteUint32(src.U32[s])
				default:
					return nil, ErrInternalConsistency
				}
			}
		}
	}

	return w.Bytes(), nil
}
