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

package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/imgconv/pkg/codec"
)

// writePNG writes a small PNG fixture into dir.
func writePNG(t *testing.T, dir, name string, alpha uint8) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: alpha})
		}
	}

	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err, "creating fixture")
	defer f.Close()
	require.NoError(t, png.Encode(f, img), "encoding fixture")
}

// execute runs the command with args and returns its output and error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	t.Run("converts_directory", func(t *testing.T) {
		src := t.TempDir()
		dest := t.TempDir()
		writePNG(t, src, "a.png", 0xff)
		writePNG(t, src, "b.png", 0xff)

		_, err := execute(t, src, dest, "png", "jpg")
		require.NoError(t, err, "run should succeed")

		for _, name := range []string{"a.jpg", "b.jpg"} {
			img, err := codec.Open(filepath.Join(dest, name))
			require.NoError(t, err, "%s should exist and decode", name)
			assert.Equal(t, "jpeg", img.Format())
		}
	})

	t.Run("extension_without_dot_is_normalized", func(t *testing.T) {
		src := t.TempDir()
		dest := t.TempDir()
		writePNG(t, src, "a.png", 0xff)

		_, err := execute(t, src, dest, "png", ".jpg")
		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Join(dest, "a.jpg"))
		assert.NoError(t, statErr, "a.jpg should have been written")
	})

	t.Run("transparency_fallback_end_to_end", func(t *testing.T) {
		src := t.TempDir()
		dest := t.TempDir()
		writePNG(t, src, "c.png", 0x80)

		out, err := execute(t, src, dest, "png", "jpg")
		require.NoError(t, err, "run should succeed despite the fallback")
		assert.Contains(t, out, "transparency layer", "warning should be rendered")

		img, err := codec.Open(filepath.Join(dest, "c.jpg"))
		require.NoError(t, err)
		assert.False(t, img.HasAlpha(), "written jpeg should be opaque")
	})

	t.Run("per_file_failure_does_not_fail_run", func(t *testing.T) {
		src := t.TempDir()
		dest := t.TempDir()
		writePNG(t, src, "a.png", 0xff)
		require.NoError(t, os.WriteFile(filepath.Join(src, "broken.png"), []byte("junk"), 0o644))

		out, err := execute(t, src, dest, "png", "jpg")
		require.NoError(t, err, "a broken file must not fail the run")
		assert.Contains(t, out, "broken.png", "failure should be reported")

		_, statErr := os.Stat(filepath.Join(dest, "a.jpg"))
		assert.NoError(t, statErr, "the good file should still convert")
	})

	t.Run("unsupported_destination_is_fatal", func(t *testing.T) {
		src := t.TempDir()
		writePNG(t, src, "a.png", 0xff)

		_, err := execute(t, src, t.TempDir(), "png", "xyz")
		require.Error(t, err, "unsupported destination format should abort")
		assert.Contains(t, err.Error(), "not supported")
	})

	t.Run("no_matching_files_is_fatal", func(t *testing.T) {
		_, err := execute(t, t.TempDir(), t.TempDir(), "png", "jpg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not contain any file")
	})

	t.Run("missing_source_dir_is_fatal", func(t *testing.T) {
		_, err := execute(t, filepath.Join(t.TempDir(), "missing"), t.TempDir(), "png", "jpg")
		require.Error(t, err)
	})

	t.Run("defaults_file_fills_flags", func(t *testing.T) {
		src := t.TempDir()
		dest := t.TempDir()
		writePNG(t, src, "a.png", 0xff)

		rc := filepath.Join(t.TempDir(), ".imgconvrc.yaml")
		require.NoError(t, os.WriteFile(rc, []byte("workers: 1\nquality: 10\n"), 0o644))

		_, err := execute(t, src, dest, "png", "jpg", "--config", rc)
		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Join(dest, "a.jpg"))
		assert.NoError(t, statErr)
	})

	t.Run("invalid_worker_flag_is_fatal", func(t *testing.T) {
		src := t.TempDir()
		writePNG(t, src, "a.png", 0xff)

		_, err := execute(t, src, t.TempDir(), "png", "jpg", "--nb-workers", "0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nb-workers")
	})
}
