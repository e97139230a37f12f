// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"os"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/bureau-foundation/bencode/lib/infohash"
)

// withBuild overrides the injected variables and the build info for
// the duration of a test.
func withBuild(t *testing.T, gitCommit, gitDirty string, settings []debug.BuildSetting) {
	t.Helper()
	savedCommit, savedDirty, savedRead := GitCommit, GitDirty, readBuildInfo
	t.Cleanup(func() {
		GitCommit, GitDirty, readBuildInfo = savedCommit, savedDirty, savedRead
	})
	GitCommit, GitDirty = gitCommit, gitDirty
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		if settings == nil {
			return nil, false
		}
		return &debug.BuildInfo{Settings: settings}, true
	}
}

func TestInfoInjected(t *testing.T) {
	withBuild(t, "abc1234", "true", nil)
	info := Info()
	if !strings.HasPrefix(info, Version+" (abc1234-dirty, ") {
		t.Errorf("Info() = %q", info)
	}
	if Commit() != "abc1234" {
		t.Errorf("Commit() = %q, want abc1234", Commit())
	}
}

func TestInfoFromBuildSettings(t *testing.T) {
	withBuild(t, "unknown", "false", []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "false"},
	})
	if Commit() != "0123456" {
		t.Errorf("Commit() = %q, want 0123456", Commit())
	}
	if strings.Contains(Info(), "-dirty") {
		t.Errorf("Info() = %q, want a clean build", Info())
	}
}

func TestInfoWithoutBuildInfo(t *testing.T) {
	withBuild(t, "unknown", "false", nil)
	if Commit() != "unknown" {
		t.Errorf("Commit() = %q, want unknown", Commit())
	}
}

func TestFull(t *testing.T) {
	full := Full()
	for _, want := range []string{Info(), "Go: ", "Platform: "} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() = %q, missing %q", full, want)
		}
	}
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}

func TestComputeSelfHash(t *testing.T) {
	hash, path, err := ComputeSelfHash(infohash.SHA256)
	if err != nil {
		t.Fatalf("ComputeSelfHash: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("hash %q is not a hex SHA-256 digest", hash)
	}
	executable, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	if path != executable {
		t.Errorf("path = %q, want %q", path, executable)
	}
}
