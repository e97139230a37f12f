// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package infohash

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

func TestSumMatchesReference(t *testing.T) {
	content := []byte("d4:name4:spam12:piece lengthi16384ee")
	sha1Digest := sha1.Sum(content)
	sha256Digest := sha256.Sum256(content)
	blake3Digest := blake3.Sum256(content)
	blake2bDigest := blake2b.Sum256(content)

	tests := []struct {
		algorithm Algorithm
		want      []byte
	}{
		{SHA1, sha1Digest[:]},
		{SHA256, sha256Digest[:]},
		{BLAKE3, blake3Digest[:]},
		{BLAKE2b, blake2bDigest[:]},
	}
	for _, test := range tests {
		got, err := Sum(test.algorithm, content)
		if err != nil {
			t.Fatalf("Sum(%s): %v", test.algorithm, err)
		}
		if !bytes.Equal(got, test.want) {
			t.Errorf("Sum(%s) = %x, want %x", test.algorithm, got, test.want)
		}
		if len(got) != test.algorithm.Size() {
			t.Errorf("%s digest is %d bytes, Size() = %d", test.algorithm, len(got), test.algorithm.Size())
		}

		streamed, err := HashReader(test.algorithm, bytes.NewReader(content))
		if err != nil {
			t.Fatalf("HashReader(%s): %v", test.algorithm, err)
		}
		if !bytes.Equal(streamed, test.want) {
			t.Errorf("HashReader(%s) = %x, want %x", test.algorithm, streamed, test.want)
		}
	}
}

func TestKnownSHA1(t *testing.T) {
	got, err := Sum(SHA1, []byte("abc"))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if want := "a9993e364706816aba3e25717850c26c9cd0d89d"; Format(got) != want {
		t.Errorf("Format(Sum(abc)) = %s, want %s", Format(got), want)
	}
}

func TestHashFile(t *testing.T) {
	content := make([]byte, 256*1024)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "payload.torrent")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := HashFile(SHA256, path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	want := sha256.Sum256(content)
	if !bytes.Equal(got, want[:]) {
		t.Errorf("HashFile = %x, want %x", got, want)
	}

	if _, err := HashFile(SHA256, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("HashFile should fail for nonexistent file")
	}
}

func TestParseRoundtrip(t *testing.T) {
	for _, algorithm := range []Algorithm{SHA1, SHA256, BLAKE3, BLAKE2b} {
		digest, err := Sum(algorithm, []byte("roundtrip"))
		if err != nil {
			t.Fatalf("Sum(%s): %v", algorithm, err)
		}
		parsed, err := Parse(algorithm, Format(digest))
		if err != nil {
			t.Fatalf("Parse(%s): %v", algorithm, err)
		}
		if !bytes.Equal(parsed, digest) {
			t.Errorf("Parse(Format(%x)) = %x", digest, parsed)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name      string
		algorithm Algorithm
		input     string
	}{
		{"not hex", SHA1, "zz"},
		{"sha256 length for sha1", SHA1, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"sha1 length for blake3", BLAKE3, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"empty", SHA256, ""},
	}
	for _, test := range tests {
		if _, err := Parse(test.algorithm, test.input); err == nil {
			t.Errorf("%s: Parse(%q) should fail", test.name, test.input)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, algorithm := range []Algorithm{SHA1, SHA256, BLAKE3, BLAKE2b} {
		parsed, err := ParseAlgorithm(algorithm.String())
		if err != nil {
			t.Fatalf("ParseAlgorithm(%q): %v", algorithm.String(), err)
		}
		if parsed != algorithm {
			t.Errorf("ParseAlgorithm(%q) = %s", algorithm.String(), parsed)
		}
	}
	if _, err := ParseAlgorithm("md5"); err == nil {
		t.Error("ParseAlgorithm(md5) should fail")
	}
	if _, err := Sum(Algorithm(99), nil); err == nil {
		t.Error("Sum with unknown algorithm should fail")
	}
}
