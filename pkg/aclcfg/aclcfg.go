// Copyright 2026 The aclgo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package aclcfg is the one process-wide configuration structure: the
// resource-id separator and the default dir/file masks a brand new
// terminal seeds from when it has no ACL yet.
package aclcfg

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Config is the engine-wide configuration. Construct it with Decode or
// LoadTOML so defaults and validation run; a zero-value Config is only
// valid after ApplyDefaults has been called.
type Config struct {
	NodeSeparator    string `mapstructure:"node_separator" toml:"node_separator"`
	DefaultDirMask   uint8  `mapstructure:"default_dir_mask" validate:"min=0,max=7" toml:"default_dir_mask"`
	DefaultFileMask  uint8  `mapstructure:"default_file_mask" validate:"min=0,max=7" toml:"default_file_mask"`
	TestCacheEnabled bool   `mapstructure:"test_cache_enabled" toml:"test_cache_enabled"`
}

// ApplyDefaults fills in the documented defaults for any field left at
// its zero value.
func (c *Config) ApplyDefaults() {
	if c.NodeSeparator == "" {
		c.NodeSeparator = "."
	}
	if c.DefaultDirMask == 0 {
		c.DefaultDirMask = 7
	}
	if c.DefaultFileMask == 0 {
		c.DefaultFileMask = 6
	}
}

var validate = validator.New()

// Decode builds a Config from a generic map (e.g. the "acl" section of a
// reva-style YAML/TOML config tree), applying defaults and validating
// required/bounded fields. Mirrors pkg/utils/cfg.Decode's
// mapstructure-then-validate-then-ApplyDefaults order, except aclcfg runs
// ApplyDefaults before validation since the defaults themselves must
// satisfy the bounds.
func Decode(m map[string]any) (*Config, error) {
	c := &Config{}
	if err := mapstructure.Decode(m, c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := validate.Struct(c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadTOML reads a TOML file into a Config, applying the same
// defaults-then-validate discipline as Decode.
func LoadTOML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := &Config{}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := validate.Struct(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns a Config with every field at its default.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}
