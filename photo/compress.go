package photo

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
)

// Target is the byte-size band and optional fixed output dimensions for one
// compression run.
type Target struct {
	MinBytes int
	MaxBytes int
	// Width/Height, when both positive, force a resize before the search.
	Width  int
	Height int
}

// SearchMode selects the quality-search discipline.
type SearchMode int

const (
	// SearchDescent walks quality down from the top in fixed steps and
	// stops at the first encode inside the band.
	SearchDescent SearchMode = iota
	// SearchBisect narrows a low/high quality bracket; better for tight
	// bands.
	SearchBisect
)

// Options bound the quality search. Zero values take the defaults.
type Options struct {
	Mode       SearchMode
	MaxQuality int     // default 95
	MinQuality int     // default 10
	Step       int     // descent step, default 5
	Upscale    float64 // linear upscale factor per retry, default 1.25
	// MaxUpscales bounds the retry loop when even maximum quality cannot
	// reach the byte floor. Guarantees termination.
	MaxUpscales int // default 3
}

func DefaultOptions() Options {
	return Options{
		MaxQuality:  95,
		MinQuality:  10,
		Step:        5,
		Upscale:     1.25,
		MaxUpscales: 3,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxQuality <= 0 {
		o.MaxQuality = d.MaxQuality
	}
	if o.MinQuality <= 0 {
		o.MinQuality = d.MinQuality
	}
	if o.Step <= 0 {
		o.Step = d.Step
	}
	if o.Upscale <= 1 {
		o.Upscale = d.Upscale
	}
	if o.MaxUpscales <= 0 {
		o.MaxUpscales = d.MaxUpscales
	}
	return o
}

// Result is the outcome of one compression run. A result is always
// produced; InBand tells the caller whether the band was actually met, and
// "outside band" is a soft failure for the caller to judge.
type Result struct {
	Data    []byte
	Size    int
	Quality int
	Width   int
	Height  int
	InBand  bool
}

// Compress encodes img as JPEG with a byte size inside [t.MinBytes,
// t.MaxBytes] when achievable. If the lowest allowed quality still
// overshoots the ceiling, that encode is returned best-effort. If the
// highest quality cannot reach the floor, the image is upscaled by a small
// factor and the search restarts, at most opts.MaxUpscales times.
func Compress(img image.Image, t Target, opts Options) (Result, error) {
	if t.MinBytes < 0 || t.MaxBytes <= 0 || t.MinBytes > t.MaxBytes {
		return Result{}, fmt.Errorf("invalid byte band [%d, %d]", t.MinBytes, t.MaxBytes)
	}
	opts = opts.withDefaults()

	if t.Width > 0 && t.Height > 0 {
		img = imaging.Resize(img, t.Width, t.Height, imaging.Lanczos)
	}

	for attempt := 0; ; attempt++ {
		res, err := searchQuality(img, t, opts)
		if err != nil {
			return Result{}, err
		}
		if res.InBand {
			return res, nil
		}
		// Only a floor miss warrants another round: the image is too
		// simple to ever reach MinBytes, so grow it and retry.
		if res.Size >= t.MinBytes || attempt >= opts.MaxUpscales {
			slog.Debug("Compression finished outside band",
				"size", res.Size, "min", t.MinBytes, "max", t.MaxBytes, "upscales", attempt)
			return res, nil
		}
		b := img.Bounds()
		w := int(math.Round(float64(b.Dx()) * opts.Upscale))
		h := int(math.Round(float64(b.Dy()) * opts.Upscale))
		slog.Debug("Upscaling to reach byte floor",
			"attempt", attempt+1, "width", w, "height", h)
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}
}

// searchQuality runs one pass of the configured search discipline over the
// quality scale and returns the best encode it saw.
func searchQuality(img image.Image, t Target, opts Options) (Result, error) {
	if opts.Mode == SearchBisect {
		return bisectQuality(img, t, opts)
	}
	return descendQuality(img, t, opts)
}

func descendQuality(img image.Image, t Target, opts Options) (Result, error) {
	var best Result
	for q := opts.MaxQuality; q >= opts.MinQuality; q -= opts.Step {
		res, err := encodeAt(img, q)
		if err != nil {
			return Result{}, err
		}
		if res.Size >= t.MinBytes && res.Size <= t.MaxBytes {
			res.InBand = true
			return res, nil
		}
		if best.Data == nil || bandDistance(res.Size, t) < bandDistance(best.Size, t) {
			best = res
		}
		// Sizes only shrink as quality drops; once below the floor
		// there is nothing further down the scale worth encoding.
		if res.Size < t.MinBytes {
			break
		}
	}
	return best, nil
}

func bisectQuality(img image.Image, t Target, opts Options) (Result, error) {
	var best Result
	lo, hi := opts.MinQuality, opts.MaxQuality
	for lo <= hi {
		mid := (lo + hi) / 2
		res, err := encodeAt(img, mid)
		if err != nil {
			return Result{}, err
		}
		if res.Size >= t.MinBytes && res.Size <= t.MaxBytes {
			res.InBand = true
			return res, nil
		}
		if best.Data == nil || bandDistance(res.Size, t) < bandDistance(best.Size, t) {
			best = res
		}
		if res.Size < t.MinBytes {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best, nil
}

// EncodeJPEG encodes img as a JPEG at the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("jpeg encode at quality %d: %w", quality, err)
	}
	return buf.Bytes(), nil
}

func encodeAt(img image.Image, quality int) (Result, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return Result{}, fmt.Errorf("jpeg encode at quality %d: %w", quality, err)
	}
	b := img.Bounds()
	return Result{
		Data:    buf.Bytes(),
		Size:    buf.Len(),
		Quality: quality,
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}

// bandDistance measures how far a size sits outside the band; zero inside.
func bandDistance(size int, t Target) int {
	switch {
	case size < t.MinBytes:
		return t.MinBytes - size
	case size > t.MaxBytes:
		return size - t.MaxBytes
	default:
		return 0
	}
}
