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

// Package discover locates the source files a run will convert.
package discover

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Find returns every file under dir whose name ends in ext, sorted.
// With recursive set the search descends into subdirectories (`**`
// matches zero or more path segments, so files directly under dir are
// included either way).
func Find(ctx context.Context, dir, ext string, recursive bool) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	pattern := filepath.Join(dir, "*"+ext)
	if recursive {
		pattern = filepath.Join(dir, "**", "*"+ext)
	}

	files, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %s: %w", pattern, err)
	}

	sort.Strings(files)

	logger.Debug().
		Str("pattern", pattern).
		Int("count", len(files)).
		Msg("discovered source files")

	return files, nil
}
