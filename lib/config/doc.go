// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the bencode
// tool.
//
// Configuration is loaded from a single file specified by either the
// BENCODE_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. Without a file the tool runs on
// [Default].
//
// The file may carry a strict section that overrides base values when
// [Config].Profile is "strict". The strict profile has stricter
// defaults of its own: strict integer grammar on decode and absent
// values as encode errors.
//
// Variable expansion is performed on tool paths after loading:
// ${HOME} and ${VAR:-default} patterns are expanded.
//
// Key exports:
//
//   - [Config] -- master struct with Encode, Decode, Output, Tools
//   - [Default] -- returns a Config with the codec's package defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.EncOptions] and [Config.DecOptions] -- codec options
package config
