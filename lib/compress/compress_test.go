// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"strings"
	"testing"
)

func TestAlgorithmString(t *testing.T) {
	tests := []struct {
		algorithm Algorithm
		want      string
	}{
		{None, "none"},
		{Zstd, "zstd"},
		{LZ4, "lz4"},
		{Algorithm(99), "unknown(99)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.algorithm.String(); got != tt.want {
				t.Errorf("Algorithm(%d).String() = %q, want %q", tt.algorithm, got, tt.want)
			}
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, name := range []string{"none", "zstd", "lz4"} {
		algorithm, err := ParseAlgorithm(name)
		if err != nil {
			t.Fatalf("ParseAlgorithm(%q) failed: %v", name, err)
		}
		if algorithm.String() != name {
			t.Errorf("roundtrip: ParseAlgorithm(%q).String() = %q", name, algorithm.String())
		}
	}
	if _, err := ParseAlgorithm("gzip"); err == nil {
		t.Error("ParseAlgorithm(\"gzip\") should fail")
	}
}

// sample is a metainfo-shaped payload with enough repetition to
// compress well.
func sample() []byte {
	return []byte("d8:announce" + "35:http://tracker.example/announce.php" +
		"4:infod5:filesl" + strings.Repeat("d6:lengthi1024e4:pathl8:file.txteee", 64) + "e4:name4:demoee")
}

func TestRoundtrip(t *testing.T) {
	data := sample()
	for _, algorithm := range []Algorithm{None, Zstd, LZ4} {
		t.Run(algorithm.String(), func(t *testing.T) {
			compressed, err := Compress(data, algorithm)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if algorithm != None && len(compressed) >= len(data) {
				t.Errorf("compressed size %d not smaller than input %d", len(compressed), len(data))
			}
			if detected := Detect(compressed); detected != algorithm {
				t.Errorf("Detect = %s, want %s", detected, algorithm)
			}
			decompressed, found, err := Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if found != algorithm {
				t.Errorf("Decompress reported %s, want %s", found, algorithm)
			}
			if !bytes.Equal(decompressed, data) {
				t.Error("roundtrip changed the data")
			}
		})
	}
}

func TestNewWriter(t *testing.T) {
	data := sample()
	for _, algorithm := range []Algorithm{None, Zstd, LZ4} {
		t.Run(algorithm.String(), func(t *testing.T) {
			var buffer bytes.Buffer
			writer, err := NewWriter(&buffer, algorithm)
			if err != nil {
				t.Fatalf("NewWriter: %v", err)
			}
			if _, err := writer.Write(data); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if err := writer.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			decompressed, _, err := Decompress(buffer.Bytes())
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(decompressed, data) {
				t.Error("streamed roundtrip changed the data")
			}
		})
	}
}

func TestDetectBencode(t *testing.T) {
	for _, input := range []string{"i1e", "le", "de", "4:spam", ""} {
		if got := Detect([]byte(input)); got != None {
			t.Errorf("Detect(%q) = %s, want none", input, got)
		}
	}
}

func TestDecompressCorrupt(t *testing.T) {
	for name, input := range map[string][]byte{
		"zstd": {0x28, 0xb5, 0x2f, 0xfd, 0xff, 0xff, 0xff},
		"lz4":  {0x04, 0x22, 0x4d, 0x18, 0xff, 0xff, 0xff},
	} {
		if _, _, err := Decompress(input); err == nil {
			t.Errorf("%s: Decompress of a corrupt frame succeeded", name)
		}
	}
}
