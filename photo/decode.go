// Package photo prepares travel-document images: decoding, pre-recognition
// enhancement, and the size-targeted recompression that forces an output
// JPEG into a prescribed byte band.
package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"pault.ag/go/cbeff/jpeg2000"
)

// Decode attempts to decode an image from bytes, trying multiple formats.
// Document scanners deliver JPEG most of the time, chip photos JPEG 2000.
func Decode(data []byte) (image.Image, error) {
	if img, err := jpeg.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	if img, err := jpeg2000.Parse(data); err == nil {
		return img, nil
	}

	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	return nil, fmt.Errorf("unsupported or invalid image format")
}
