// Package hash provides content digests for blob and snapshot comparison.
//
// Digests are OCI-style "algorithm:hex" strings from go-digest, so they can
// be stored in state snapshots and validated when read back. The package
// provides a real SHA-256 implementation and a fake for tests.
package hash

import (
	_ "crypto/sha256"
	"fmt"
	"os"

	"github.com/opencontainers/go-digest"
)

// Hasher provides an abstraction for content digest operations.
type Hasher interface {
	// DigestFile computes the digest of the file at the given path.
	DigestFile(path string) (digest.Digest, error)

	// DigestBytes computes the digest of an in-memory payload.
	DigestBytes(data []byte) digest.Digest
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// DigestFile computes the SHA-256 digest of the file at the given path.
func (h *SHA256Hasher) DigestFile(path string) (digest.Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	d, err := digest.SHA256.FromReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return d, nil
}

// DigestBytes computes the SHA-256 digest of data.
func (h *SHA256Hasher) DigestBytes(data []byte) digest.Digest {
	return digest.SHA256.FromBytes(data)
}

// Verify checks data against an expected digest.
func Verify(expected digest.Digest, data []byte) error {
	if err := expected.Validate(); err != nil {
		return fmt.Errorf("invalid digest %q: %w", expected, err)
	}

	verifier := expected.Verifier()
	if _, err := verifier.Write(data); err != nil {
		return fmt.Errorf("failed to verify digest: %w", err)
	}
	if !verifier.Verified() {
		return fmt.Errorf("digest mismatch: expected %s", expected)
	}
	return nil
}

// FakeHasher implements Hasher with deterministic digests for testing.
type FakeHasher struct {
	digests map[string]digest.Digest
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		digests: make(map[string]digest.Digest),
	}
}

// SetDigest sets the digest for a specific path (for testing).
func (h *FakeHasher) SetDigest(path string, d digest.Digest) {
	h.digests[path] = d
}

// DigestFile returns the predetermined digest for the given path.
func (h *FakeHasher) DigestFile(path string) (digest.Digest, error) {
	if d, ok := h.digests[path]; ok {
		return d, nil
	}
	return digest.FromString(path), nil
}

// DigestBytes digests data for real; snapshots must round-trip.
func (h *FakeHasher) DigestBytes(data []byte) digest.Digest {
	return digest.FromBytes(data)
}
