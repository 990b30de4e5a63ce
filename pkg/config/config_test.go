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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"adds_dot", "gif", ".gif"},
		{"keeps_existing_dot", ".gif", ".gif"},
		{"idempotent", NormalizeExt("png"), ".png"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeExt(tt.in), "NormalizeExt(%q)", tt.in)
		})
	}
}

func TestDefaultWorkers(t *testing.T) {
	n := DefaultWorkers()
	assert.GreaterOrEqual(t, n, 1, "default should be positive")
	assert.LessOrEqual(t, n, maxDefaultWorkers, "default should respect the cap")
}

// validConfig builds a config over temp dirs with one matching source file.
func validConfig(t *testing.T) *Config {
	t.Helper()

	src := t.TempDir()
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.png"), []byte("x"), 0o644))

	return &Config{
		SourceDir: src,
		DestDir:   dest,
		SourceExt: "png",
		DestExt:   "jpg",
		Workers:   4,
		Quality:   80,
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		cfg := validConfig(t)
		require.NoError(t, cfg.Validate(ctx), "valid config should pass")
		assert.Equal(t, ".png", cfg.SourceExt, "source ext should be normalized")
		assert.Equal(t, ".jpg", cfg.DestExt, "dest ext should be normalized")
	})

	t.Run("normalization_idempotent", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.SourceExt = ".png"
		require.NoError(t, cfg.Validate(ctx))
		assert.Equal(t, ".png", cfg.SourceExt, "no second dot should be added")
	})

	t.Run("missing_source_dir", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.SourceDir = filepath.Join(cfg.SourceDir, "missing")
		err := cfg.Validate(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source folder does not exist")
	})

	t.Run("source_not_a_directory", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.SourceDir = filepath.Join(cfg.SourceDir, "a.png")
		err := cfg.Validate(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not lead to a directory")
	})

	t.Run("missing_dest_dir", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.DestDir = filepath.Join(cfg.DestDir, "missing")
		err := cfg.Validate(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "destination folder does not exist")
	})

	t.Run("unsupported_dest_format", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.DestExt = "xyz"
		err := cfg.Validate(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not supported")
	})

	t.Run("unsupported_source_format", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.SourceExt = "doc"
		err := cfg.Validate(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not supported")
	})

	t.Run("webp_is_decode_only", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.SourceExt = "webp"
		require.NoError(t, cfg.Validate(ctx), "webp source should be accepted")

		cfg = validConfig(t)
		cfg.DestExt = "webp"
		require.Error(t, cfg.Validate(ctx), "webp destination should be rejected")
	})

	t.Run("invalid_workers", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Workers = 0
		require.Error(t, cfg.Validate(ctx))
	})

	t.Run("invalid_quality", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Quality = 101
		require.Error(t, cfg.Validate(ctx))
	})
}

func TestLoadDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("missing_file_is_silent", func(t *testing.T) {
		d, err := LoadDefaults(ctx, filepath.Join(t.TempDir(), DefaultsFile))
		require.NoError(t, err, "missing defaults file should not error")
		assert.Nil(t, d, "missing file should yield nil defaults")
	})

	t.Run("loads_yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultsFile)
		require.NoError(t, os.WriteFile(path, []byte("quality: 60\nrecursive: false\n"), 0o644))

		d, err := LoadDefaults(ctx, path)
		require.NoError(t, err)
		require.NotNil(t, d)
		require.NotNil(t, d.Quality, "quality should be present")
		assert.Equal(t, 60, *d.Quality)
		require.NotNil(t, d.Recursive, "recursive should be present")
		assert.False(t, *d.Recursive)
		assert.Nil(t, d.Workers, "unset fields should stay nil")
	})

	t.Run("rejects_bad_yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultsFile)
		require.NoError(t, os.WriteFile(path, []byte("quality: [oops\n"), 0o644))
		_, err := LoadDefaults(ctx, path)
		require.Error(t, err)
	})

	t.Run("unknown_extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "defaults.toml")
		require.NoError(t, os.WriteFile(path, []byte("quality = 60"), 0o644))
		_, err := LoadDefaults(ctx, path)
		require.Error(t, err, "no parser should match a toml file")
	})
}

func TestDefaultsApply(t *testing.T) {
	quality := 55
	workers := 2
	d := &Defaults{Quality: &quality, Workers: &workers}

	t.Run("fills_unset_flags", func(t *testing.T) {
		cfg := &Config{Quality: 80, Workers: 8}
		d.Apply(cfg, func(string) bool { return false })
		assert.Equal(t, 55, cfg.Quality, "defaults file should win over built-ins")
		assert.Equal(t, 2, cfg.Workers)
	})

	t.Run("explicit_flags_win", func(t *testing.T) {
		cfg := &Config{Quality: 90, Workers: 8}
		d.Apply(cfg, func(flag string) bool { return flag == "quality" })
		assert.Equal(t, 90, cfg.Quality, "explicit flag should win over the file")
		assert.Equal(t, 2, cfg.Workers, "unset flag should take the file value")
	})

	t.Run("nil_defaults", func(t *testing.T) {
		cfg := &Config{Quality: 80}
		(*Defaults)(nil).Apply(cfg, func(string) bool { return false })
		assert.Equal(t, 80, cfg.Quality, "nil defaults should be a no-op")
	})
}
