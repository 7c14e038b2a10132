package exrdeep

import "errors"

// Deep block codec errors. Structural problems are Malformed, numeric
// range problems are Overflow, a decompressed-size mismatch gets its own
// sentinel so callers can distinguish it from other malformed-table
// errors, an unsupported compression tag is Unsupported, and a violated
// programmer-owned invariant (channel list vs. channel array disagreement)
// is InternalConsistency and is never recovered from.
var (
	// ErrMalformed indicates a structural violation in the offset table or
	// sample stream: wrong length, non-monotone counts, a negative count.
	ErrMalformed = errors.New("exrdeep: malformed deep sample table")

	// ErrOverflow indicates a computed quantity exceeds its representable
	// range, e.g. a scanline's cumulative sample count exceeds int32, or
	// total_samples * bytesPerSample overflows int.
	ErrOverflow = errors.New("exrdeep: deep sample count overflow")

	// ErrSizeMismatch indicates the decompressed sample-data buffer length
	// does not match total_samples * bytesPerSample.
	ErrSizeMismatch = errors.New("exrdeep: deep sample data size mismatch")

	// ErrUnsupported indicates the compression tag cannot be applied to
	// deep data, or (for CompressionPIZ) that this build does not carry a
	// deep-data PIZ implementation.
	ErrUnsupported = errors.New("exrdeep: compression not supported for deep data")

	// ErrInternalConsistency indicates a programmer-owned invariant was
	// violated, such as a channel array's type tag disagreeing with its
	// ChannelDescription. The codec does not attempt recovery.
	ErrInternalConsistency = errors.New("exrdeep: internal consistency violation")
)
