// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress detects and removes the compression that wraps
// bencode files in transit, and applies it on output.
//
// Two frame formats are recognized by their magic numbers: zstd
// (28 B5 2F FD) and the LZ4 frame format (04 22 4D 18). Anything else
// is treated as uncompressed. Bencode itself can never start with
// either magic, since every value begins with 'i', 'l', 'd' or an
// ASCII digit.
package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm identifies a compression frame format.
type Algorithm uint8

const (
	None Algorithm = iota
	Zstd
	LZ4
)

// MaxDecompressedSize bounds the output of [Decompress]. A small
// compressed file can expand without limit; metainfo files and codec
// fixtures are far below this.
const MaxDecompressedSize = 1 << 30

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the name accepted by [ParseAlgorithm].
func (algorithm Algorithm) String() string {
	switch algorithm {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(algorithm))
	}
}

// ParseAlgorithm parses a compression name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "none", "":
		return None, nil
	case "zstd":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, zstd or lz4)", name)
	}
}

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. zstd.Encoder and zstd.Decoder
// are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderMaxMemory(MaxDecompressedSize),
	)
	if err != nil {
		panic("compress: zstd decoder initialization failed: " + err.Error())
	}
}

// Detect identifies the frame format of data from its first bytes.
func Detect(data []byte) Algorithm {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return Zstd
	case bytes.HasPrefix(data, lz4Magic):
		return LZ4
	default:
		return None
	}
}

// Decompress removes a zstd or LZ4 frame if data has one and reports
// which it found. Uncompressed input is returned unchanged (no copy).
func Decompress(data []byte) ([]byte, Algorithm, error) {
	algorithm := Detect(data)
	switch algorithm {
	case Zstd:
		result, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, algorithm, fmt.Errorf("zstd decompress: %w", err)
		}
		return result, algorithm, nil
	case LZ4:
		result, err := readLimited(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, algorithm, fmt.Errorf("lz4 decompress: %w", err)
		}
		return result, algorithm, nil
	default:
		return data, None, nil
	}
}

func readLimited(reader io.Reader) ([]byte, error) {
	result, err := io.ReadAll(io.LimitReader(reader, MaxDecompressedSize+1))
	if err != nil {
		return nil, err
	}
	if len(result) > MaxDecompressedSize {
		return nil, fmt.Errorf("output exceeds %d bytes", MaxDecompressedSize)
	}
	return result, nil
}

// Compress wraps data in a frame of the given format. For None it
// returns the input unchanged (no copy).
func Compress(data []byte, algorithm Algorithm) ([]byte, error) {
	switch algorithm {
	case None:
		return data, nil
	case Zstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	case LZ4:
		var buffer bytes.Buffer
		writer := lz4.NewWriter(&buffer)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buffer.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported compression %s", algorithm)
	}
}

// NewWriter returns a writer that frames everything written to it.
// Close flushes the frame but does not close w. For None the returned
// writer passes bytes straight through.
func NewWriter(w io.Writer, algorithm Algorithm) (io.WriteCloser, error) {
	switch algorithm {
	case None:
		return nopCloser{w}, nil
	case Zstd:
		writer, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return writer, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported compression %s", algorithm)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
