package domain

// Zero overwrites the given byte slice with zeros to clear sensitive key
// material from memory. Safe to call with nil or empty slices.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
