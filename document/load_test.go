// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package document

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristanetworks/py27dict"
)

func TestParseFormat(t *testing.T) {
	for in, exp := range map[string]Format{"": Auto, "auto": Auto, "JSON": JSON, "yaml": YAML} {
		f, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, exp, f)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	for path, exp := range map[string]Format{
		"a.json":        JSON,
		"a.json.gz":     JSON,
		"dir/a.yaml":    YAML,
		"a.yml.zst":     YAML,
		"template":      Auto,
		"a.template.gz": Auto,
	} {
		assert.Equal(t, exp, FormatOf(path), path)
	}
}

func TestDecodeSniff(t *testing.T) {
	var d Decoder
	for _, tc := range []struct {
		in  string
		exp any
	}{
		{in: "  \n{\"a\": 1}", exp: Pairs{{"a", int64(1)}}},
		{in: "[1]", exp: []any{int64(1)}},
		{in: "a: 1", exp: Pairs{{"a", 1}}},
		{in: "   ", exp: nil},
	} {
		got, err := d.Decode(strings.NewReader(tc.in), Auto)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.exp, got, tc.in)
	}
}

func writeCompressed(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	var w io.WriteCloser
	switch filepath.Ext(name) {
	case ".gz":
		w = gzip.NewWriter(f)
	case ".zst":
		w, err = zstd.NewWriter(f)
		require.NoError(t, err)
	}
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}

func TestLoadCompressed(t *testing.T) {
	raw, err := os.ReadFile("testdata/api.json")
	require.NoError(t, err)
	d := Decoder{Hook: TagPairs}
	want, err := d.Load("testdata/api.json")
	require.NoError(t, err)
	wantCanon, err := Canonicalize(want)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"api.json.gz", "api.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := writeCompressed(t, dir, name, raw)
			got, err := d.Load(path)
			require.NoError(t, err)
			gotCanon, err := Canonicalize(got)
			require.NoError(t, err)
			assert.Equal(t, py27dict.Repr(wantCanon), py27dict.Repr(gotCanon))
		})
	}
}

func TestLoadErrors(t *testing.T) {
	var d Decoder
	_, err := d.Load("testdata/missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0o644))
	_, err = d.Load(bad)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"a": [}`), 0o644))
	_, err = d.Load(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}
