package exrdeep

import "math"

// This file transcodes between the two cumulative-offset conventions a
// deep sample table can be expressed in. On disk, OpenEXR stores
// width*height signed int32 entries, one per pixel, cumulative *within
// each scanline* (each line resets to a running sum that starts over at
// 0). In memory, DeepSamples keeps pixel_count+1 unsigned entries,
// cumulative *across the whole block*, starting at 0.

// maxTotalSamples is the hard cap on a line's (or a pixel's running)
// cumulative sample count, guarding against resource exhaustion from
// untrusted input.
const maxTotalSamples = math.MaxInt32

// DiskTableToPixelOffsets converts the on-disk per-line cumulative table
// into the in-memory per-pixel global cumulative offset table (length
// width*height+1, starting at 0). table must have length width*height;
// each scanline's run of width entries must be non-negative and
// monotonically non-decreasing.
func DiskTableToPixelOffsets(table []int32, width, height int) ([]uint32, error) {
	if len(table) != width*height {
		return nil, ErrMalformed
	}

	offsets := make([]uint32, width*height+1)
	var running uint64

	for y := 0; y < height; y++ {
		rowStart := y * width
		var prev int32
		for x := 0; x < width; x++ {
			v := table[rowStart+x]
			if v < 0 {
				return nil, ErrMalformed
			}
			if x > 0 && v < prev {
				return nil, ErrMalformed
			}

			perPixel := v
			if x > 0 {
				perPixel = v - prev
			}
			running += uint64(perPixel)
			if running > maxTotalSamples {
				return nil, ErrMalformed
			}
			offsets[rowStart+x+1] = uint32(running)
			prev = v
		}
	}

	return offsets, nil
}

// PixelOffsetsToDiskTable converts the in-memory per-pixel global
// cumulative offsets (length width*height+1) back into the on-disk
// per-line cumulative int32 table (length width*height). Returns
// ErrOverflow if any scanline's cumulative total exceeds math.MaxInt32.
func PixelOffsetsToDiskTable(offsets []uint32, width, height int) ([]int32, error) {
	if len(offsets) != width*height+1 {
		return nil, ErrMalformed
	}

	table := make([]int32, width*height)

	for y := 0; y < height; y++ {
		rowStart := y * width
		var cumulative uint64
		for x := 0; x < width; x++ {
			perPixel := offsets[rowStart+x+1] - offsets[rowStart+x]
			cumulative += uint64(perPixel)
			if cumulative > math.MaxInt32 {
				return nil, ErrOverflow
			}
			table[rowStart+x] = int32(cumulative)
		}
	}

	return table, nil
}

// ValidateSampleTable checks a decompressed on-disk per-line cumulative
// table for structural soundness without converting it: length
// width*height, every entry non-negative, and each scanline's run
// monotonically non-decreasing. Each line's terminal value is within the
// signed 32-bit range by construction, since the entries are int32, so no
// separate range check is made; a decrease within a line followed by a
// larger jump is rejected by the monotonic check.
func ValidateSampleTable(table []int32, width, height int) error {
	if len(table) != width*height {
		return ErrMalformed
	}

	for y := 0; y < height; y++ {
		rowStart := y * width
		var prev int32
		for x := 0; x < width; x++ {
			v := table[rowStart+x]
			if v < 0 {
				return ErrMalformed
			}
			if x > 0 && v < prev {
				return ErrMalformed
			}
			prev = v
		}
	}
	return nil
}
