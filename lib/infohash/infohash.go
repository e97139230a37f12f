// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package infohash

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Algorithm selects the digest function.
type Algorithm uint8

const (
	// SHA1 is the BitTorrent v1 info hash (BEP 3).
	SHA1 Algorithm = iota
	// SHA256 is the BitTorrent v2 info hash (BEP 52).
	SHA256
	// BLAKE3 is unkeyed 256-bit BLAKE3.
	BLAKE3
	// BLAKE2b is BLAKE2b-256.
	BLAKE2b
)

// String returns the name accepted by [ParseAlgorithm].
func (algorithm Algorithm) String() string {
	switch algorithm {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	case BLAKE3:
		return "blake3"
	case BLAKE2b:
		return "blake2b"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(algorithm))
	}
}

// ParseAlgorithm parses an algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	case "blake3":
		return BLAKE3, nil
	case "blake2b":
		return BLAKE2b, nil
	default:
		return 0, fmt.Errorf("unknown hash algorithm %q (want sha1, sha256, blake3 or blake2b)", name)
	}
}

// Size returns the digest length in bytes.
func (algorithm Algorithm) Size() int {
	if algorithm == SHA1 {
		return sha1.Size
	}
	return 32
}

// New returns a fresh hash.Hash for the algorithm.
func New(algorithm Algorithm) (hash.Hash, error) {
	switch algorithm {
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case BLAKE3:
		return blake3.New(), nil
	case BLAKE2b:
		hasher, err := blake2b.New256(nil)
		if err != nil {
			return nil, fmt.Errorf("initializing blake2b: %w", err)
		}
		return hasher, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %s", algorithm)
	}
}

// Sum digests data.
func Sum(algorithm Algorithm, data []byte) ([]byte, error) {
	switch algorithm {
	case SHA1:
		digest := sha1.Sum(data)
		return digest[:], nil
	case SHA256:
		digest := sha256.Sum256(data)
		return digest[:], nil
	case BLAKE3:
		digest := blake3.Sum256(data)
		return digest[:], nil
	case BLAKE2b:
		digest := blake2b.Sum256(data)
		return digest[:], nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %s", algorithm)
	}
}

// HashReader streams reader through the hash function in chunks (via
// io.Copy) to keep memory usage constant regardless of input size.
func HashReader(algorithm Algorithm, reader io.Reader) ([]byte, error) {
	hasher, err := New(algorithm)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(hasher, reader); err != nil {
		return nil, fmt.Errorf("hashing: %w", err)
	}
	return hasher.Sum(nil), nil
}

// HashFile computes the digest of the file at path.
func HashFile(algorithm Algorithm, path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	digest, err := HashReader(algorithm, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return digest, nil
}

// Format returns the lowercase hex encoding of digest. This is the
// form magnet links and tracker logs use for v1 info hashes.
func Format(digest []byte) string {
	return hex.EncodeToString(digest)
}

// Parse parses a hex digest and checks its length against algorithm.
func Parse(algorithm Algorithm, hexString string) ([]byte, error) {
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, fmt.Errorf("parsing %s digest: %w", algorithm, err)
	}
	if len(decoded) != algorithm.Size() {
		return nil, fmt.Errorf("%s digest is %d bytes, want %d", algorithm, len(decoded), algorithm.Size())
	}
	return decoded, nil
}
