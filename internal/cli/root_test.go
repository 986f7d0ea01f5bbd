// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristanetworks/py27dict/internal/config"
)

// execute runs the root command with args and returns stdout and
// stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config-dir", t.TempDir()}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "", "--format", "xml", "keys", "testdata/addresses.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("maxDepth: -1\n"), 0o644))

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config-dir", dir, "keys", "testdata/addresses.json"})
	err := cmd.Execute()
	var cerr *config.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "maxDepth", cerr.Field)
}

func TestCanonicalizeCommand(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
		exp  string
	}{
		{
			name: "tagged",
			args: []string{"canonicalize", "testdata/addresses.json"},
			exp: "{u'Avenue': u'AVE', u'Street': u'ST', u'Court': u'CT', " +
				"u'nested': {u'a': None, u'b': [1, 2.5, '<x>']}}\n",
		},
		{
			name: "plain",
			args: []string{"canonicalize", "--tag-strings=false", "testdata/addresses.json"},
			exp: "{'Avenue': 'AVE', 'Street': 'ST', 'Court': 'CT', " +
				"'nested': {'a': None, 'b': [1, 2.5, '<x>']}}\n",
		},
		{
			name: "json",
			args: []string{"--format", "json", "canonicalize", "testdata/addresses.json"},
			exp:  `{"Avenue":"AVE","Street":"ST","Court":"CT","nested":{"a":null,"b":[1,2.5,"<x>"]}}` + "\n",
		},
		{
			name: "forced format",
			args: []string{"canonicalize", "-i", "yaml", "testdata/addresses.json"},
			exp: "{u'Avenue': u'AVE', u'Street': u'ST', u'Court': u'CT', " +
				"u'nested': {u'a': None, u'b': [1, 2.5, '<x>']}}\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := execute(t, "", tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.exp, out)
		})
	}
}

func TestCanonicalizeStdin(t *testing.T) {
	out, _, err := execute(t, "b: 1\na: [x]\n", "canonicalize")
	require.NoError(t, err)
	assert.Equal(t, "{u'a': ['x'], u'b': 1}\n", out)

	out, _, err = execute(t, `"just a string"`, "canonicalize", "-")
	require.NoError(t, err)
	assert.Equal(t, "'just a string'\n", out)
}

func TestCanonicalizeErrors(t *testing.T) {
	_, _, err := execute(t, "", "canonicalize", "testdata/missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, "", "canonicalize", "--max-depth", "1", "testdata/addresses.json")
	assert.Error(t, err)

	_, _, err = execute(t, "", "canonicalize", "-i", "xml", "testdata/addresses.json")
	assert.Error(t, err)
}

func TestCanonicalizeVerbose(t *testing.T) {
	_, stderr, err := execute(t, "", "-v", "canonicalize", "testdata/addresses.json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "canonicalized document")
}

func TestKeysCommand(t *testing.T) {
	out, _, err := execute(t, "", "keys", "testdata/addresses.json")
	require.NoError(t, err)
	assert.Equal(t, "u'Avenue'\nu'Street'\nu'Court'\nu'nested'\n", out)

	out, _, err = execute(t, "", "--format", "json", "keys", "testdata/addresses.json")
	require.NoError(t, err)
	var keys []string
	require.NoError(t, json.Unmarshal([]byte(out), &keys))
	assert.Equal(t, []string{"Avenue", "Street", "Court", "nested"}, keys)

	out, _, err = execute(t, "", "keys", "--buckets", "testdata/addresses.json")
	require.NoError(t, err)
	assert.Equal(t, "1 u'Avenue'\n3 u'Street'\n4 u'Court'\n7 u'nested'\n", out)

	_, _, err = execute(t, "[1, 2]", "keys")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a mapping")
}

func TestFeatureCommand(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
		exp  string
	}{
		{name: "stage region", args: []string{"--stage", "beta", "--region", "us-west-2"},
			exp: "feature-1: enabled\n"},
		{name: "other region", args: []string{"--stage", "beta", "--region", "eu-west-1"},
			exp: "feature-1: disabled\n"},
		{name: "account percentage", args: []string{"--stage", "beta", "--region", "us-east-1",
			"--account-id", "123456789109"}, exp: "feature-1: enabled\n"},
		{name: "account override", args: []string{"--stage", "beta", "--region", "us-east-1",
			"--account-id", "123456789123"}, exp: "feature-1: disabled\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"feature", "feature-1", "--config-path", "testdata/toggles.yaml"}, tc.args...)
			out, _, err := execute(t, "", args...)
			require.NoError(t, err)
			assert.Equal(t, tc.exp, out)
		})
	}
}

func TestFeatureCommandJSON(t *testing.T) {
	out, _, err := execute(t, "", "--format", "json", "feature", "feature-1",
		"--config-path", "testdata/toggles.yaml", "--stage", "beta", "--region", "us-west-2")
	require.NoError(t, err)
	var res FeatureResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, FeatureResult{Feature: "feature-1", Stage: "beta", Region: "us-west-2", Enabled: true}, res)
}

func TestFeatureCommandSources(t *testing.T) {
	out, _, err := execute(t, "", "feature", "feature-1", "--stage", "beta", "--region", "us-west-2")
	require.NoError(t, err)
	assert.Equal(t, "feature-1: disabled\n", out)

	_, _, err = execute(t, "", "feature", "feature-1", "--config-path", "testdata/missing.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, "", "feature")
	assert.Error(t, err)
}

func TestFeatureCommandAppConfig(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /configurationsessions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"InitialConfigurationToken": "t"}`))
	})
	mux.HandleFunc("GET /configuration", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"feature-1": {"beta": {"us-west-2": {"enabled": true}}}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	missing := filepath.Join(t.TempDir(), "missing")
	t.Setenv("AWS_CONFIG_FILE", missing)
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", missing)
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	t.Setenv("PY27DICT_FEATURETOGGLE_APPLICATION", "app")
	t.Setenv("PY27DICT_FEATURETOGGLE_ENVIRONMENT", "env")
	t.Setenv("PY27DICT_FEATURETOGGLE_PROFILE", "profile")
	t.Setenv("PY27DICT_FEATURETOGGLE_ENDPOINT", srv.URL)

	out, _, err := execute(t, "", "feature", "feature-1", "--stage", "beta", "--region", "us-west-2")
	require.NoError(t, err)
	assert.Equal(t, "feature-1: enabled\n", out)
}
