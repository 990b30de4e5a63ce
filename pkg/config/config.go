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

// Package config holds the run configuration: where to read, where to
// write, which formats, and how hard to push the worker pool.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/imgconv/pkg/codec"
	"gitlab.com/tozd/go/errors"
)

// maxDefaultWorkers caps the derived worker default on large machines.
const maxDefaultWorkers = 32

// 📚 Config is the complete, statically-typed run configuration. It is
// built once from parsed CLI fields, validated, and read-only afterwards;
// every conversion task shares the same value.
type Config struct {
	SourceDir   string // directory to read from
	DestDir     string // directory to write into
	SourceExt   string // extension of files to convert, leading dot
	DestExt     string // extension of the target format, leading dot
	Workers     int    // concurrency bound for the dispatcher
	Quality     int    // encode quality 0-100
	Optimize    bool   // spend extra effort on smaller output
	Progressive bool   // progressive encoding where the format has it
	Recursive   bool   // descend into subdirectories during discovery
}

// 🧮 DefaultWorkers derives the worker-count default from host
// parallelism, computed once at configuration-build time.
func DefaultWorkers() int {
	n := runtime.NumCPU() + 4
	if n > maxDefaultWorkers {
		n = maxDefaultWorkers
	}
	return n
}

// 🔧 NormalizeExt gives ext a leading dot. Idempotent: an extension that
// already has one is returned unchanged.
func NormalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// 🔍 Validate normalizes the extensions, cleans the paths, and checks
// every precondition a run depends on. After a nil return the config is
// treated as immutable.
func (cfg *Config) Validate(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	cfg.SourceExt = NormalizeExt(cfg.SourceExt)
	cfg.DestExt = NormalizeExt(cfg.DestExt)
	cfg.SourceDir = filepath.Clean(cfg.SourceDir)
	cfg.DestDir = filepath.Clean(cfg.DestDir)

	if err := requireDirectory(cfg.SourceDir, "source"); err != nil {
		return err
	}
	if err := requireDirectory(cfg.DestDir, "destination"); err != nil {
		return err
	}

	if !codec.Decodable(cfg.SourceExt) {
		return errors.Errorf("source image format %q is not supported", cfg.SourceExt)
	}
	if !codec.Encodable(cfg.DestExt) {
		return errors.Errorf("desired conversion format %q is not supported", cfg.DestExt)
	}

	if cfg.Workers < 1 {
		return errors.Errorf("nb-workers must be positive, got %d", cfg.Workers)
	}
	if cfg.Quality < 0 || cfg.Quality > 100 {
		return errors.Errorf("quality must be in range 0-100, got %d", cfg.Quality)
	}

	logger.Debug().
		Str("source", cfg.SourceDir).
		Str("dest", cfg.DestDir).
		Str("source_ext", cfg.SourceExt).
		Str("dest_ext", cfg.DestExt).
		Int("workers", cfg.Workers).
		Msg("configuration validated")

	return nil
}

// requireDirectory checks that path exists and is a directory.
func requireDirectory(path, role string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return errors.Errorf("%s folder does not exist: %s", role, path)
	}
	if err != nil {
		return errors.Errorf("checking %s folder: %w", role, err)
	}
	if !info.IsDir() {
		return errors.Errorf("%s path does not lead to a directory: %s", role, path)
	}
	return nil
}

// 📝 String returns a one-line description of the run.
func (cfg *Config) String() string {
	return fmt.Sprintf("%s/*%s -> %s/*%s (workers=%d quality=%d)",
		cfg.SourceDir, cfg.SourceExt, cfg.DestDir, cfg.DestExt, cfg.Workers, cfg.Quality)
}
