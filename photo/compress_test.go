package photo

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// noiseImage is deliberately incompressible so JPEG sizes stay large and
// move visibly with quality.
func noiseImage(w, h int) image.Image {
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

// flatImage compresses to almost nothing regardless of quality.
func flatImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	return img
}

func TestCompress(t *testing.T) {
	t.Run("descent lands inside a wide band", func(t *testing.T) {
		res, err := Compress(noiseImage(200, 200), Target{MinBytes: 1_000, MaxBytes: 200_000}, DefaultOptions())
		require.NoError(t, err)
		require.True(t, res.InBand)
		require.GreaterOrEqual(t, res.Size, 1_000)
		require.LessOrEqual(t, res.Size, 200_000)
		require.Len(t, res.Data, res.Size)

		decoded, err := jpeg.Decode(bytes.NewReader(res.Data))
		require.NoError(t, err)
		require.Equal(t, 200, decoded.Bounds().Dx())
	})

	t.Run("bisect lands inside a wide band", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Mode = SearchBisect
		res, err := Compress(noiseImage(200, 200), Target{MinBytes: 1_000, MaxBytes: 200_000}, opts)
		require.NoError(t, err)
		require.True(t, res.InBand)
	})

	t.Run("target dimensions are applied before the search", func(t *testing.T) {
		res, err := Compress(noiseImage(200, 200),
			Target{MinBytes: 1, MaxBytes: 1_000_000, Width: 100, Height: 120}, DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, 100, res.Width)
		require.Equal(t, 120, res.Height)
	})

	t.Run("unreachable floor terminates after bounded upscales", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxUpscales = 2
		res, err := Compress(flatImage(8, 8), Target{MinBytes: 5_000_000, MaxBytes: 6_000_000}, opts)
		require.NoError(t, err)
		require.False(t, res.InBand)
		require.Less(t, res.Size, 5_000_000)
		// Two upscale rounds at 1.25 on top of the original 8px.
		require.LessOrEqual(t, res.Width, 13)
	})

	t.Run("unreachable ceiling returns the smallest encode best effort", func(t *testing.T) {
		res, err := Compress(noiseImage(400, 400), Target{MinBytes: 0, MaxBytes: 10}, DefaultOptions())
		require.NoError(t, err)
		require.False(t, res.InBand)
		require.Equal(t, 10, res.Quality)
	})

	t.Run("invalid band is rejected", func(t *testing.T) {
		_, err := Compress(flatImage(8, 8), Target{MinBytes: 100, MaxBytes: 50}, DefaultOptions())
		require.Error(t, err)
		_, err = Compress(flatImage(8, 8), Target{MinBytes: 0, MaxBytes: 0}, DefaultOptions())
		require.Error(t, err)
	})
}

func TestEncodeJPEG(t *testing.T) {
	data, err := EncodeJPEG(flatImage(16, 16), 80)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 16, img.Bounds().Dx())
}

func TestDecodeFallbackChain(t *testing.T) {
	t.Run("plain jpeg", func(t *testing.T) {
		data, err := EncodeJPEG(flatImage(16, 16), 80)
		require.NoError(t, err)
		img, err := Decode(data)
		require.NoError(t, err)
		require.Equal(t, 16, img.Bounds().Dx())
	})

	t.Run("garbage input fails", func(t *testing.T) {
		_, err := Decode([]byte("not an image"))
		require.Error(t, err)
	})
}

func TestEnhanceForRecognition(t *testing.T) {
	out := EnhanceForRecognition(noiseImage(32, 32))
	require.Equal(t, 32, out.Bounds().Dx())
	require.Equal(t, 32, out.Bounds().Dy())

	// Grayscale output: channels agree everywhere.
	r, g, b, _ := out.At(10, 10).RGBA()
	require.Equal(t, r, g)
	require.Equal(t, g, b)
}
