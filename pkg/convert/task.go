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

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/imgconv/pkg/codec"
	"github.com/walteh/imgconv/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🎯 DestinationPath derives where the converted file is written: the
// source stem plus the configured destination extension, flat in the
// destination directory. A pure function of its inputs.
func DestinationPath(source string, cfg *config.Config) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(cfg.DestDir, stem+cfg.DestExt)
}

// 🔄 Convert converts one source file under cfg and returns exactly one
// Outcome. Every failure path, panics included, is converted into an
// Outcome; nothing escapes the task boundary.
//
// When the target format rejects the image's alpha channel, the task
// warns, flattens the image to an opaque representation, and retries the
// save exactly once. Any other error is terminal for this file only.
func Convert(ctx context.Context, source string, cfg *config.Config) (out Outcome) {
	logger := zerolog.Ctx(ctx)

	out = Outcome{Source: source, Dest: DestinationPath(source, cfg)}

	defer func() {
		if r := recover(); r != nil {
			out.Err = errors.Errorf("converting %s: panic: %v", source, r)
		}
	}()

	img, err := codec.Open(source)
	if err != nil {
		out.Err = errors.Errorf("converting %s: %w", source, err)
		return out
	}

	if _, err := os.Stat(out.Dest); err == nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf("file %s already exists", out.Dest))
	}

	opts := codec.EncodeOptions{
		Quality:     cfg.Quality,
		Optimize:    cfg.Optimize,
		Progressive: cfg.Progressive,
	}

	if err := img.Save(out.Dest, opts); err != nil {
		if !errors.Is(err, codec.ErrUnsupportedAlpha) {
			out.Err = errors.Errorf("converting %s: %w", source, err)
			return out
		}

		out.Warnings = append(out.Warnings,
			fmt.Sprintf("file %s has a transparency layer, message: %v", source, err))
		logger.Debug().Str("source", source).Msg("flattening alpha channel and retrying save")

		if err := img.Flatten().Save(out.Dest, opts); err != nil {
			out.Err = errors.Errorf("converting %s after flattening: %w", source, err)
			return out
		}
	}

	return out
}
