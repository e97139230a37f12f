// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package metainfo reads BitTorrent metainfo (.torrent) files.
//
// A metainfo file is a bencoded dictionary whose "info" entry
// describes the content: its name, the piece length, the concatenated
// SHA-1 piece hashes, and either a single length (single file mode)
// or a list of files (multiple file mode). The info hash identifies
// the torrent and is computed over the info dictionary's bytes as
// they appear in the file, so [MetaInfo] keeps them in [MetaInfo.RawInfo].
package metainfo

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/bencode/lib/bencode"
	"github.com/bureau-foundation/bencode/lib/infohash"
)

// PieceHashSize is the length of one SHA-1 piece hash.
const PieceHashSize = 20

// File is one entry of a multiple file torrent.
type File struct {
	Length uint64           `bencode:"length"`
	MD5Sum bencode.Borrowed `bencode:"md5sum,omitempty"`
	Path   []string         `bencode:"path"`
}

// Info is the info dictionary. Exactly one of Length and Files is
// set.
type Info struct {
	PieceLength uint64           `bencode:"piece length"`
	Pieces      bencode.Borrowed `bencode:"pieces"`
	Private     *int64           `bencode:"private"`
	Name        string           `bencode:"name"`

	// Single file mode.
	Length *uint64          `bencode:"length"`
	MD5Sum bencode.Borrowed `bencode:"md5sum,omitempty"`

	// Multiple file mode.
	Files []File `bencode:"files,omitempty"`
}

// MetaInfo is a decoded .torrent file. Byte-valued fields borrow from
// the input passed to [Parse], which must outlive the MetaInfo.
type MetaInfo struct {
	Info         Info               `bencode:"-"`
	RawInfo      bencode.RawMessage `bencode:"info"`
	Announce     string             `bencode:"announce"`
	AnnounceList [][]string         `bencode:"announce-list,omitempty"`
	CreationDate *uint64            `bencode:"creation date"`
	Comment      *string            `bencode:"comment"`
	CreatedBy    *string            `bencode:"created by"`
	Encoding     *string            `bencode:"encoding"`
}

// Parse decodes a metainfo file and its info dictionary. Byte strings
// in the result alias data.
func Parse(data []byte) (*MetaInfo, error) {
	var metaInfo MetaInfo
	if err := bencode.Unmarshal(data, &metaInfo); err != nil {
		return nil, fmt.Errorf("decoding metainfo: %w", err)
	}
	if len(metaInfo.RawInfo) == 0 {
		return nil, errors.New("metainfo has no info dictionary")
	}
	if err := bencode.Unmarshal(metaInfo.RawInfo, &metaInfo.Info); err != nil {
		return nil, fmt.Errorf("decoding info dictionary: %w", err)
	}
	if err := metaInfo.Info.Validate(); err != nil {
		return nil, err
	}
	return &metaInfo, nil
}

// Validate checks the structural rules the decoder cannot express:
// exactly one file mode and a whole number of piece hashes.
func (info *Info) Validate() error {
	switch {
	case info.Length != nil && len(info.Files) > 0:
		return errors.New("info dictionary has both length and files")
	case info.Length == nil && len(info.Files) == 0:
		return errors.New("info dictionary has neither length nor files")
	}
	if info.PieceLength == 0 {
		return errors.New("info dictionary has zero piece length")
	}
	if len(info.Pieces)%PieceHashSize != 0 {
		return fmt.Errorf("pieces is %d bytes, not a multiple of %d", len(info.Pieces), PieceHashSize)
	}
	for index, file := range info.Files {
		if len(file.Path) == 0 {
			return fmt.Errorf("file %d has an empty path", index)
		}
	}
	return nil
}

// MultiFile reports whether the torrent uses multiple file mode.
func (info *Info) MultiFile() bool { return len(info.Files) > 0 }

// PieceCount returns the number of piece hashes.
func (info *Info) PieceCount() int { return len(info.Pieces) / PieceHashSize }

// Piece returns the SHA-1 hash of piece index.
func (info *Info) Piece(index int) []byte {
	return info.Pieces[index*PieceHashSize : (index+1)*PieceHashSize]
}

// TotalLength returns the content size in bytes.
func (info *Info) TotalLength() uint64 {
	if info.Length != nil {
		return *info.Length
	}
	var total uint64
	for _, file := range info.Files {
		total += file.Length
	}
	return total
}

// InfoHash digests the info dictionary as it appeared in the file.
// SHA1 gives the v1 info hash.
func (metaInfo *MetaInfo) InfoHash(algorithm infohash.Algorithm) ([]byte, error) {
	return infohash.Sum(algorithm, metaInfo.RawInfo)
}

// Trackers returns the announce URLs in tier order, falling back to
// Announce when there is no announce-list (BEP 12).
func (metaInfo *MetaInfo) Trackers() []string {
	var trackers []string
	seen := make(map[string]bool)
	for _, tier := range metaInfo.AnnounceList {
		for _, tracker := range tier {
			if tracker != "" && !seen[tracker] {
				seen[tracker] = true
				trackers = append(trackers, tracker)
			}
		}
	}
	if len(trackers) == 0 && metaInfo.Announce != "" {
		trackers = append(trackers, metaInfo.Announce)
	}
	return trackers
}

// Marshal encodes metaInfo canonically. The info dictionary is
// re-encoded from Info, so the info hash of the result may differ
// from the original file's unless that was canonical.
func Marshal(metaInfo *MetaInfo) ([]byte, error) {
	rawInfo, err := bencode.Marshal(&metaInfo.Info)
	if err != nil {
		return nil, fmt.Errorf("encoding info dictionary: %w", err)
	}
	copied := *metaInfo
	copied.RawInfo = rawInfo
	return bencode.Marshal(&copied)
}
