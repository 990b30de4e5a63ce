// Copyright 2025 walteh LLC
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

package config

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultsFile is the defaults file looked for when none is given.
const DefaultsFile = ".imgconvrc.yaml"

// 🔌 Parser is the interface for defaults-file parsers.
type Parser interface {
	// 📝 Parse parses defaults from bytes
	Parse(ctx context.Context, data []byte) (*Defaults, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📋 Defaults are optional per-user defaults for the tunable flags.
// Pointer fields distinguish "absent" from a zero value; explicit CLI
// flags always win over the file.
type Defaults struct {
	Workers     *int  `yaml:"workers,omitempty"`
	Quality     *int  `yaml:"quality,omitempty"`
	Optimize    *bool `yaml:"optimize,omitempty"`
	Progressive *bool `yaml:"progressive,omitempty"`
	Recursive   *bool `yaml:"recursive,omitempty"`
}

// 🎯 LoadDefaults loads the defaults file at path. A missing file is not
// an error; the zero Defaults applies nothing.
func LoadDefaults(ctx context.Context, path string) (*Defaults, error) {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debug().Str("path", path).Msg("no defaults file")
		return nil, nil
	}
	if err != nil {
		return nil, errors.Errorf("reading defaults file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	d, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing defaults file %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("loaded defaults file")
	return d, nil
}

// 🔧 Apply copies each present default into cfg unless changed reports
// that the corresponding flag was set explicitly.
func (d *Defaults) Apply(cfg *Config, changed func(flag string) bool) {
	if d == nil {
		return
	}
	if d.Workers != nil && !changed("nb-workers") {
		cfg.Workers = *d.Workers
	}
	if d.Quality != nil && !changed("quality") {
		cfg.Quality = *d.Quality
	}
	if d.Optimize != nil && !changed("optimize") {
		cfg.Optimize = *d.Optimize
	}
	if d.Progressive != nil && !changed("progressive") {
		cfg.Progressive = *d.Progressive
	}
	if d.Recursive != nil && !changed("recursive") {
		cfg.Recursive = *d.Recursive
	}
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

// 📝 Parse parses the defaults from YAML bytes
func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Errorf("unmarshaling yaml: %w", err)
	}
	return &d, nil
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func init() {
	Register(&YAMLParser{})
}
