// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/bencode/lib/infohash"
)

// ComputeSelfHash returns the hex digest and absolute filesystem path
// of the currently running binary. Uses os.Executable() to resolve
// the binary path, which on Linux reads /proc/self/exe.
func ComputeSelfHash(algorithm infohash.Algorithm) (hash string, binaryPath string, err error) {
	executable, err := os.Executable()
	if err != nil {
		return "", "", fmt.Errorf("resolving own executable path: %w", err)
	}
	digest, err := infohash.HashFile(algorithm, executable)
	if err != nil {
		return "", "", fmt.Errorf("hashing own binary at %s: %w", executable, err)
	}
	return infohash.Format(digest), executable, nil
}
