package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"io"

	"gif-viewer/internal/filesystem"
	"gif-viewer/internal/logging"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

const (
	// PosterSize bounds both poster dimensions.
	PosterSize = 200

	// MaxCanvasPixels rejects GIFs whose logical screen would need more than
	// ~80MB as RGBA.
	MaxCanvasPixels = 20_000_000

	jpegQuality = 80
)

// ErrTooLarge is returned for GIFs whose canvas exceeds MaxCanvasPixels.
var ErrTooLarge = errors.New("gif canvas too large")

// DecodeError wraps a failure to read a GIF's first frame.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// firstFrame reads path and returns its first frame drawn on a canvas the
// size of the GIF's logical screen.
func firstFrame(path string, retry filesystem.RetryConfig) (image.Image, error) {
	f, err := filesystem.OpenWithRetry(path, retry)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("failed to close %s: %v", path, err)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := gif.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if cfg.Width*cfg.Height > MaxCanvasPixels {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, ErrTooLarge)}
	}

	frame, err := gif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	return compose(frame, cfg.Width, cfg.Height), nil
}

// compose draws frame over a white canvas of w x h. Frames may be smaller
// than the logical screen and offset within it.
func compose(frame image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		b := frame.Bounds()
		w, h = b.Max.X, b.Max.Y
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	return canvas
}

// renderPoster scales img to fit PosterSize and encodes it as JPEG.
func renderPoster(img image.Image) ([]byte, error) {
	thumb := imaging.Fit(img, PosterSize, PosterSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode poster: %w", err)
	}
	return buf.Bytes(), nil
}
