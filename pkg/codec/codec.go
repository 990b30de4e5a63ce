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

// Package codec wraps image decoding and encoding behind a small surface:
// open a file, inspect its alpha channel, flatten it to an opaque
// representation, and save it under a different format.
package codec

import (
	"image"
	"image/color"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"

	// Decoders registered for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// 🚫 ErrUnsupportedAlpha is reported when the target format cannot
// represent an alpha channel. Callers detect it with errors.Is and decide
// whether to flatten and retry.
var ErrUnsupportedAlpha = errors.New("target format does not support an alpha channel")

// 🖼️ Image is a fully decoded image plus the name of the format it was
// decoded from. The underlying file handle is released before Open returns.
type Image struct {
	pixels image.Image
	format string
}

// 🔧 EncodeOptions carries the encode parameters shared by every format.
// Encoders ignore the fields that have no equivalent in their format.
type EncodeOptions struct {
	Quality     int  // 0-100, higher is better (jpeg, avif)
	Optimize    bool // spend more time for smaller output (png, tiff)
	Progressive bool // progressive/interlaced stream where supported
}

// 📂 Open reads and decodes the image at path.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pixels, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Errorf("decoding %s: %w", path, err)
	}

	return &Image{pixels: pixels, format: format}, nil
}

// Format returns the name of the format the image was decoded from.
func (i *Image) Format() string {
	return i.format
}

// Bounds returns the pixel bounds of the decoded image.
func (i *Image) Bounds() image.Rectangle {
	return i.pixels.Bounds()
}

// 🔍 HasAlpha reports whether the image carries any non-opaque pixel.
// Every stdlib image type implements Opaque; the pixel scan only runs for
// foreign implementations.
func (i *Image) HasAlpha() bool {
	if o, ok := i.pixels.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}

	b := i.pixels.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := i.pixels.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// 🎨 Flatten returns a copy of the image with the alpha channel discarded.
// Color values are kept as-is (non-premultiplied), not composited against
// a background.
func (i *Image) Flatten() *Image {
	b := i.pixels.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(i.pixels.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return &Image{pixels: dst, format: i.format}
}

// 💾 Save encodes the image to path, choosing the encoder from the path's
// extension. Formats that cannot represent an alpha channel fail with
// ErrUnsupportedAlpha before anything is written to disk.
func (i *Image) Save(path string, opts EncodeOptions) (err error) {
	ext := filepath.Ext(path)

	enc, ok := encoders[ext]
	if !ok {
		return errors.Errorf("no encoder registered for %q", ext)
	}

	if opaqueOnly[ext] && i.HasAlpha() {
		return errors.Errorf("encoding %s: %w", path, ErrUnsupportedAlpha)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := enc(f, i.pixels, opts); err != nil {
		return errors.Errorf("encoding %s: %w", path, err)
	}

	return nil
}
