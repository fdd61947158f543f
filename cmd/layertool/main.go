// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// layertool introspects snapshot layer files: listing the layers of a
// timeline directory and dumping the contents of individual layer files.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/pagestore"
	"github.com/cockroachdb/pagestore/internal/histenc"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "layertool",
		Short: "introspection tool for snapshot layer files",
	}
	root.AddCommand(lsCmd(), dumpCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <timeline-dir>",
		Short: "list the snapshot layers in a timeline directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(args[0])
			if err != nil {
				return err
			}
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			sort.Strings(names)

			tw := tablewriter.NewWriter(cmd.OutOrStdout())
			tw.SetHeader([]string{"SPC", "DB", "REL", "FORK", "START", "END"})
			for _, name := range names {
				tag, start, end, ok := pagestore.ParseFilename(name)
				if !ok {
					continue
				}
				tw.Append([]string{
					fmt.Sprint(tag.SpcNode), fmt.Sprint(tag.DbNode),
					fmt.Sprint(tag.RelNode), fmt.Sprint(tag.ForkNum),
					start.String(), end.String(),
				})
			}
			tw.Render()
			return nil
		},
	}
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <layer-file>",
		Short: "dump the entries of a layer file or its relsizes companion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if strings.HasSuffix(args[0], pagestore.RelSizesSuffix) {
				h, err := histenc.DecodeRelSizes(buf)
				if err != nil {
					return err
				}
				h.Ascend(func(e pagestore.RelSizeEntry) bool {
					fmt.Fprintf(out, "%s: %d pages\n", e.Lsn, e.Size)
					return true
				})
				return nil
			}
			h, err := histenc.DecodePageVersions(buf)
			if err != nil {
				return err
			}
			h.Ascend(func(e pagestore.PageVersionEntry) bool {
				switch {
				case e.Image != nil:
					fmt.Fprintf(out, "blk %d at %s: image, %d bytes\n", e.BlkNo, e.Lsn, len(e.Image))
				case e.Record != nil:
					fmt.Fprintf(out, "blk %d at %s: record, %d bytes, will_init=%t\n",
						e.BlkNo, e.Lsn, len(e.Record.Rec), e.Record.WillInit)
				}
				return true
			})
			return nil
		},
	}
}
