// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package featuretoggle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Provider supplies the feature toggle configuration.
type Provider interface {
	Config() map[string]any
}

// DefaultProvider supplies an empty configuration, which disables every
// feature.
type DefaultProvider struct{}

// Config returns an empty configuration.
func (DefaultProvider) Config() map[string]any {
	return map[string]any{}
}

// LocalProvider supplies a configuration read from a file.
type LocalProvider struct {
	Path   string
	config map[string]any
}

// NewLocalProvider reads the configuration in the file at path. The
// syntax follows the extension: .yaml/.yml, .toml, anything else JSON.
func NewLocalProvider(path string) (*LocalProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("featuretoggle: %w", err)
	}
	config, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("featuretoggle: %s: %w", path, err)
	}
	return &LocalProvider{Path: path, config: config}, nil
}

// Config returns the configuration read from the file.
func (p *LocalProvider) Config() map[string]any {
	return p.config
}

// ParseConfig parses a configuration in the syntax named by ext
// (".json", ".yaml", ".yml" or ".toml"). An empty document is an empty
// configuration.
func ParseConfig(data []byte, ext string) (map[string]any, error) {
	config := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return config, nil
	}
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	case ".toml":
		err = toml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = map[string]any{}
	}
	return config, nil
}
