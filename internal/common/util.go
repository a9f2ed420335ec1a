package common

// WipeByteArray overwrites b with zeros. It is used on password buffers read
// from the terminal once they have been handed to the auth layer.
//
// A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
