// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"text/tabwriter"
	"time"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/bureau-foundation/bencode/lib/infohash"
	"github.com/bureau-foundation/bencode/lib/metainfo"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
)

// torrentParams holds the parameters for the "bencode torrent" command.
type torrentParams struct {
	SourceFlags
	Files bool `flag:"files" desc:"list every file of a multiple file torrent"`
}

func torrentCommand() *cli.Command {
	var params torrentParams

	return &cli.Command{
		Name:    "torrent",
		Summary: "Summarize a .torrent metainfo file",
		Description: `Decode a BitTorrent metainfo file and print its name, info hash,
trackers, piece layout and content size.

The file is checked for the structural rules of the format: exactly
one of a single length or a file list, a non-zero piece length, and a
whole number of 20-byte piece hashes.`,
		Usage: "bencode torrent [flags] <file>",
		Examples: []cli.Example{
			{
				Description: "Summarize a torrent",
				Command:     "bencode torrent ubuntu.torrent",
			},
			{
				Description: "List the files of a multiple file torrent",
				Command:     "bencode torrent --files dataset.torrent",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("torrent", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			data, remainingArgs, err := params.Read(args, logger)
			if err != nil {
				return err
			}
			if err := noPositional("torrent", remainingArgs); err != nil {
				return err
			}
			metaInfo, err := metainfo.Parse(data)
			if err != nil {
				return cli.Validation("%w", err)
			}
			return describeTorrent(stdout, metaInfo, params.Files)
		},
	}
}

// describeTorrent writes a human-readable summary of metaInfo.
func describeTorrent(w io.Writer, metaInfo *metainfo.MetaInfo, listFiles bool) error {
	digest, err := metaInfo.InfoHash(infohash.SHA1)
	if err != nil {
		return cli.Internal("%w", err)
	}
	info := &metaInfo.Info

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", info.Name)
	fmt.Fprintf(tw, "Info hash:\t%s\n", infohash.Format(digest))

	trackers := metaInfo.Trackers()
	switch len(trackers) {
	case 0:
		fmt.Fprintf(tw, "Trackers:\tnone (trackerless)\n")
	default:
		fmt.Fprintf(tw, "Trackers:\t%s\n", trackers[0])
		for _, tracker := range trackers[1:] {
			fmt.Fprintf(tw, "\t%s\n", tracker)
		}
	}

	if metaInfo.CreationDate != nil {
		created := time.Unix(int64(*metaInfo.CreationDate), 0).UTC()
		fmt.Fprintf(tw, "Created:\t%s\n", created.Format(time.RFC3339))
	}
	if metaInfo.CreatedBy != nil {
		fmt.Fprintf(tw, "Created by:\t%s\n", *metaInfo.CreatedBy)
	}
	if metaInfo.Comment != nil {
		fmt.Fprintf(tw, "Comment:\t%s\n", *metaInfo.Comment)
	}
	private := "no"
	if info.Private != nil && *info.Private == 1 {
		private = "yes"
	}
	fmt.Fprintf(tw, "Private:\t%s\n", private)

	fmt.Fprintf(tw, "Pieces:\t%s x %s\n", humanize.Comma(int64(info.PieceCount())), humanize.IBytes(info.PieceLength))
	total := info.TotalLength()
	fmt.Fprintf(tw, "Size:\t%s (%s bytes)\n", humanize.IBytes(total), humanize.Comma(int64(total)))

	if info.MultiFile() {
		fmt.Fprintf(tw, "Files:\t%s\n", humanize.Comma(int64(len(info.Files))))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if listFiles && info.MultiFile() {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, file := range info.Files {
			fmt.Fprintf(tw, "%s\t%s\n", humanize.IBytes(file.Length), path.Join(append([]string{info.Name}, file.Path...)...))
		}
		return tw.Flush()
	}
	return nil
}
