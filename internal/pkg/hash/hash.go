package hash

// Hash produces and checks one-way digests of short secrets.
type Hash interface {
	// Hash returns the digest of str.
	Hash(str string) ([]byte, error)
	// Verify reports whether str hashes to hashed. Implementations compare in
	// constant time.
	Verify(hashed, str string) bool
}
