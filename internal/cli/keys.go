// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristanetworks/py27dict"
)

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	docOpts := &documentOptions{}
	var buckets bool
	cmd := &cobra.Command{
		Use:   "keys [file]",
		Short: "Print the top-level keys of a document in Python 2.7 dict order",
		Long: `Print the keys of the document's top-level mapping, one per line, in
the order a Python 2.7 dict holding them iterates in. With --format json
the keys are printed as one JSON array. --buckets prefixes each key with
the index of the table slot it occupies.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			canon, err := docOpts.load(rootOpts, cmd, args)
			if err != nil {
				return err
			}
			m, ok := canon.(*py27dict.Map[any, any])
			if !ok {
				return fmt.Errorf("%s: top-level value is %T, not a mapping", pathArg(args), canon)
			}
			if buckets {
				for b, k := range m.Buckets() {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", b, py27dict.Repr(k)); err != nil {
						return err
					}
				}
				return nil
			}
			keys := make([]any, 0, m.Len())
			for k := range m.Keys() {
				keys = append(keys, k)
			}
			if rootOpts.Format == "json" {
				return writeValue(cmd.OutOrStdout(), "json", keys)
			}
			for _, k := range keys {
				if err := writeValue(cmd.OutOrStdout(), "text", k); err != nil {
					return err
				}
			}
			return nil
		},
	}
	docOpts.bind(cmd)
	cmd.Flags().BoolVar(&buckets, "buckets", false, "print the table slot of each key")
	return cmd
}
