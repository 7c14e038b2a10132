//go:build amd64

package predictor

// decodeASM performs predictor decode with the pure Go running sum in Decode.
// There is no assembly implementation for this platform.
// The data slice is modified in place.
func decodeASM(data []byte) {
	Decode(data)
}
