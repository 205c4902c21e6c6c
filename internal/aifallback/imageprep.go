package aifallback

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

const (
	maxLongestSide = 4096
	maxBytes       = 20 * 1024 * 1024
	jpegQuality    = 85
	jpegQualityMin = 40
)

// PrepareImage enforces the AI Fallback's image constraints (spec §4.13):
// PNG or JPEG only, longest side capped at 4096px, final size capped at
// 20MB with JPEG re-encoding and quality reduction if needed.
func PrepareImage(data []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode page image: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, "", fmt.Errorf("unsupported image format %q: must be png or jpeg", format)
	}

	img = resizeToBound(img, maxLongestSide)

	if format == "png" && len(data) <= maxBytes {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err == nil && buf.Len() <= maxBytes {
			return buf.Bytes(), "image/png", nil
		}
	}

	out, err := encodeJPEGUnderLimit(img, maxBytes)
	if err != nil {
		return nil, "", err
	}
	return out, "image/jpeg", nil
}

func resizeToBound(img image.Image, longestSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= longestSide && h <= longestSide {
		return img
	}
	if w >= h {
		return imaging.Resize(img, longestSide, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, longestSide, imaging.Lanczos)
}

func encodeJPEGUnderLimit(img image.Image, limit int) ([]byte, error) {
	quality := jpegQuality
	for quality >= jpegQualityMin {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		if buf.Len() <= limit {
			return buf.Bytes(), nil
		}
		quality -= 15
	}
	return nil, fmt.Errorf("could not encode image under %d bytes even at minimum quality", limit)
}
