// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging validates and prepares article images before they are
// sent to the content service.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/kemujan/hubcms/internal/apperr"
)

// Upload limits
const (
	MaxUploadBytes  = 5 << 20 // 5MB
	DefaultMaxWidth = 1600
	jpegQuality     = 88
)

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

var extensions = map[string]string{
	MimeTypeJPEG: ".jpg",
	MimeTypePNG:  ".png",
	MimeTypeGIF:  ".gif",
	MimeTypeWebP: ".webp",
}

// Prepared is an image ready for upload.
type Prepared struct {
	Data     []byte
	MimeType string
	Ext      string
	Width    int
	Height   int
	Resized  bool
}

// Processor checks uploads and normalizes JPEG and PNG images: EXIF
// orientation is applied and images wider than MaxWidth are scaled down.
// GIF and WebP pass through unchanged.
type Processor struct {
	MaxBytes int64
	MaxWidth int
}

// NewProcessor creates a Processor. A non-positive maxWidth disables
// downscaling.
func NewProcessor(maxWidth int) *Processor {
	return &Processor{
		MaxBytes: MaxUploadBytes,
		MaxWidth: maxWidth,
	}
}

// Prepare reads an upload and returns the bytes to send. Oversized and
// unsupported files are rejected with validation errors.
func (p *Processor) Prepare(r io.Reader) (*Prepared, error) {
	data, err := io.ReadAll(io.LimitReader(r, p.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if int64(len(data)) > p.MaxBytes {
		return nil, apperr.Invalid("image", apperr.CodeTooLarge,
			"image must be at most %d MB", p.MaxBytes>>20)
	}

	mimeType := DetectMimeType(data)
	ext, ok := extensions[mimeType]
	if !ok {
		return nil, apperr.Invalid("image", apperr.CodeUnsupportedType,
			"unsupported image type %q, use PNG, JPEG, GIF or WebP", mimeType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Invalid("image", apperr.CodeUnsupportedType, "image cannot be decoded")
	}
	out := &Prepared{Data: data, MimeType: mimeType, Ext: ext, Width: cfg.Width, Height: cfg.Height}

	if mimeType != MimeTypeJPEG && mimeType != MimeTypePNG {
		return out, nil
	}

	orientation := 1
	if mimeType == MimeTypeJPEG {
		orientation = readExifOrientation(bytes.NewReader(data))
	}
	tooWide := p.MaxWidth > 0 && cfg.Width > p.MaxWidth
	if orientation == 1 && !tooWide {
		return out, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Invalid("image", apperr.CodeUnsupportedType, "image cannot be decoded")
	}
	img = applyOrientation(img, orientation)
	if p.MaxWidth > 0 && img.Bounds().Dx() > p.MaxWidth {
		img = imaging.Resize(img, p.MaxWidth, 0, imaging.Lanczos)
	}

	encoded, err := encodeImage(img, mimeType)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	out.Data = encoded
	out.Width = img.Bounds().Dx()
	out.Height = img.Bounds().Dy()
	out.Resized = true
	return out, nil
}

// DetectMimeType sniffs the MIME type of data.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// readExifOrientation returns the EXIF orientation tag, or 1 if absent.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes the camera rotation recorded in EXIF orientation
// values 2 through 8.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, mimeType string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if mimeType == MimeTypePNG {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
