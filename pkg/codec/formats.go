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

package codec

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/gen2brain/avif"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// avifSpeed trades encode time against quality, 0 (slowest) to 10.
const avifSpeed = 6

type encodeFunc func(w io.Writer, m image.Image, opts EncodeOptions) error

// 🗺️ encoders maps a destination extension to its encoder.
var encoders = map[string]encodeFunc{
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
	".png":  encodePNG,
	".gif":  encodeGIF,
	".bmp":  encodeBMP,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
	".avif": encodeAVIF,
}

// opaqueOnly lists extensions whose format has no alpha channel.
var opaqueOnly = map[string]bool{
	".jpg":  true,
	".jpeg": true,
}

// decodeOnly lists extensions we can read but not write. WebP decoding
// comes from golang.org/x/image/webp, which carries no encoder.
var decodeOnly = map[string]bool{
	".webp": true,
}

// 🔍 Encodable reports whether ext (leading dot included) names a format
// this package can write.
func Encodable(ext string) bool {
	_, ok := encoders[ext]
	return ok
}

// 🔍 Decodable reports whether ext (leading dot included) names a format
// this package can read.
func Decodable(ext string) bool {
	return Encodable(ext) || decodeOnly[ext]
}

func encodeJPEG(w io.Writer, m image.Image, opts EncodeOptions) error {
	return jpeg.Encode(w, m, &jpeg.Options{Quality: opts.Quality})
}

func encodePNG(w io.Writer, m image.Image, opts EncodeOptions) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if opts.Optimize {
		enc.CompressionLevel = png.BestCompression
	}
	return enc.Encode(w, m)
}

func encodeGIF(w io.Writer, m image.Image, _ EncodeOptions) error {
	return gif.Encode(w, m, &gif.Options{NumColors: 256})
}

func encodeBMP(w io.Writer, m image.Image, _ EncodeOptions) error {
	return bmp.Encode(w, m)
}

func encodeTIFF(w io.Writer, m image.Image, opts EncodeOptions) error {
	topts := &tiff.Options{}
	if opts.Optimize {
		topts.Compression = tiff.Deflate
		topts.Predictor = true
	}
	return tiff.Encode(w, m, topts)
}

func encodeAVIF(w io.Writer, m image.Image, opts EncodeOptions) error {
	return avif.Encode(w, m, avif.Options{
		Quality:           opts.Quality,
		QualityAlpha:      opts.Quality,
		Speed:             avifSpeed,
		ChromaSubsampling: image.YCbCrSubsampleRatio420,
	})
}
