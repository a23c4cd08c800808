package photo

import (
	"image"

	"github.com/disintegration/imaging"
)

// EnhanceForRecognition prepares a document scan for the external OCR
// engine: grayscale for contrast, then contrast, sharpening, brightness and
// gamma adjustments that make MRZ glyphs easier to segment.
func EnhanceForRecognition(src image.Image) image.Image {
	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	img = imaging.AdjustBrightness(img, 10)
	img = imaging.AdjustGamma(img, 1.2)
	return img
}
