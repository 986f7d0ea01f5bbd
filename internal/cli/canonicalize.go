// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aristanetworks/py27dict"
	"github.com/aristanetworks/py27dict/document"
)

// documentOptions are the flags of commands that read a document. Unset
// flags fall back to the configuration.
type documentOptions struct {
	InputFormat string
	TagStrings  bool
	MaxDepth    int
}

func (d *documentOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&d.InputFormat, "input-format", "i", "",
		"input syntax (auto|json|yaml), default from config")
	cmd.Flags().BoolVar(&d.TagStrings, "tag-strings", true,
		"read mapping keys and string values as unicode strings")
	cmd.Flags().IntVar(&d.MaxDepth, "max-depth", 0,
		"maximum nesting depth, default from config")
}

// load reads the document named by args, or stdin when there is none or
// it is "-", and canonicalizes it.
func (d *documentOptions) load(opts *RootOptions, cmd *cobra.Command, args []string) (any, error) {
	cfg := opts.config()
	format, err := document.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	if d.InputFormat != "" {
		if format, err = document.ParseFormat(d.InputFormat); err != nil {
			return nil, err
		}
	}
	tag := cfg.TagStrings
	if cmd.Flags().Changed("tag-strings") {
		tag = d.TagStrings
	}
	depth := cfg.MaxDepth
	if d.MaxDepth > 0 {
		depth = d.MaxDepth
	}

	dec := document.Decoder{MaxDepth: depth}
	if tag {
		dec.Hook = document.TagPairs
	}
	var doc any
	switch {
	case len(args) == 0 || args[0] == "-":
		doc, err = dec.Decode(cmd.InOrStdin(), format)
	case format == document.Auto:
		doc, err = dec.Load(args[0])
	default:
		doc, err = decodeFile(&dec, args[0], format)
	}
	if err != nil {
		return nil, err
	}
	opts.logger().Debug("document loaded", "path", pathArg(args), "tagStrings", tag)

	c := document.Canonicalizer{MaxDepth: depth, Logger: opts.logger()}
	return c.Canonicalize(doc)
}

func decodeFile(d *document.Decoder, path string, f document.Format) (any, error) {
	rc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	doc, err := d.Decode(rc, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// NewCanonicalizeCommand creates the canonicalize command.
func NewCanonicalizeCommand(rootOpts *RootOptions) *cobra.Command {
	docOpts := &documentOptions{}
	cmd := &cobra.Command{
		Use:   "canonicalize [file]",
		Short: "Print a document with Python 2.7 dict ordering",
		Long: `Read a JSON or YAML document and print it with every mapping in the
order a Python 2.7 dict holding the same keys iterates in.

The text format is the Python 2.7 repr of the document. The json format
is JSON with object members in that order. Files ending in .gz or .zst
are decompressed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			canon, err := docOpts.load(rootOpts, cmd, args)
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), rootOpts.Format, canon)
		},
	}
	docOpts.bind(cmd)
	return cmd
}

// writeValue prints v as its Python 2.7 repr or as JSON.
func writeValue(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, py27dict.Repr(v))
	return err
}
