// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package document

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format names a document syntax.
type Format string

const (
	// Auto picks JSON when the document starts with '{' or '[' and YAML
	// otherwise.
	Auto Format = "auto"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates s as a Format. The empty string is Auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return Auto, nil
	case Auto, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("document: unknown format %q (expected auto, json or yaml)", s)
}

// FormatOf guesses the format of the file at path from its extension,
// ignoring a trailing .gz or .zst.
func FormatOf(path string) Format {
	switch filepath.Ext(trimCompression(path)) {
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	}
	return Auto
}

func trimCompression(path string) string {
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error {
	return r.close()
}

// Open opens the file at path, decompressing it if it is named *.gz or
// *.zst.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return Decompress(f, path)
}

// Decompress wraps rc with a decompressor chosen by name's extension.
// Closing the result closes rc.
func Decompress(rc io.ReadCloser, name string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("document: %s: %w", name, err)
		}
		return readCloser{Reader: zr, close: func() error {
			zr.Close()
			return rc.Close()
		}}, nil
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(rc, zstd.WithDecoderConcurrency(1))
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("document: %s: %w", name, err)
		}
		return readCloser{Reader: zr, close: func() error {
			zr.Close()
			return rc.Close()
		}}, nil
	}
	return rc, nil
}

// Decode reads one document in format f from r.
func (d *Decoder) Decode(r io.Reader, f Format) (any, error) {
	if f == Auto || f == "" {
		br := bufio.NewReader(r)
		f = sniff(br)
		r = br
	}
	if f == JSON {
		return d.JSON(r)
	}
	return d.YAML(r)
}

func sniff(br *bufio.Reader) Format {
	for n := 1; ; n++ {
		b, err := br.Peek(n)
		if len(b) < n {
			return YAML
		}
		switch c := b[n-1]; {
		case c == '{' || c == '[':
			return JSON
		case bytes.IndexByte([]byte(" \t\r\n"), c) < 0:
			return YAML
		}
		if err != nil {
			return YAML
		}
	}
}

// Load reads the document in the file at path. The format comes from
// the file name, or from its content when the name does not tell.
func (d *Decoder) Load(path string) (any, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	doc, err := d.Decode(rc, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
