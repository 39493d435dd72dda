package transform

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"math"

	_ "image/gif"

	"github.com/disintegration/imaging"
	_ "github.com/gen2brain/avif"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/jhrphoto/media-pipeline-go/internal/port"
)

// ErrInvalidImage marks input that cannot be decoded or fails the dimension
// sanity checks. Never retried.
var ErrInvalidImage = errors.New("transform: invalid image")

const (
	// MaxImageDimension rejects absurd inputs outright to bound worst-case
	// memory and CPU.
	MaxImageDimension = 10000

	DefaultQuality = 80
	qualityStep    = 10
	qualityFloor   = 40

	// maxResizePasses bounds the dimension-reduction loop of the size search.
	maxResizePasses = 5
	// shrinkMargin keeps the re-encoded result from bouncing back over the
	// byte target after a dimension reduction.
	shrinkMargin = 0.9
)

type Engine struct {
	webpEnc WebPEncoder
	pdfOpt  PDFOptimiser
}

// compile-time check: *Engine must satisfy port.Transformer
var _ port.Transformer = (*Engine)(nil)

func NewEngine(webpEnc WebPEncoder, pdfOpt PDFOptimiser) *Engine {
	log.Println("initialising transform engine...")
	return &Engine{webpEnc: webpEnc, pdfOpt: pdfOpt}
}

// Optimise re-encodes the image within opts. GIFs are passed through untouched
// to preserve animation. When MaxBytes cannot be met even at the quality floor,
// dimensions are reduced by sqrt(MaxBytes/size)*shrinkMargin and the quality
// walk restarts, up to maxResizePasses; the best achievable result is returned
// rather than an error.
func (e *Engine) Optimise(data []byte, opts port.TransformOptions) (*port.TransformResult, error) {
	cfg, srcFormat, err := decodeConfig(data)
	if err != nil {
		return nil, err
	}

	if srcFormat == port.FormatGIF {
		// pass-through, animation frames stay intact
		return &port.TransformResult{
			Data:      data,
			Width:     cfg.Width,
			Height:    cfg.Height,
			Format:    port.FormatGIF,
			SizeBytes: int64(len(data)),
		}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	format := resolveFormat(opts, srcFormat, img)
	img = resize(img, opts)

	quality := opts.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}

	encoded, err := e.encode(img, format, quality)
	if err != nil {
		return nil, err
	}

	lossy := format == port.FormatWebP || format == port.FormatJPEG
	for pass := 0; opts.MaxBytes > 0 && int64(len(encoded)) > opts.MaxBytes && pass < maxResizePasses; pass++ {
		if lossy {
			for q := quality - qualityStep; int64(len(encoded)) > opts.MaxBytes && q >= qualityFloor; q -= qualityStep {
				encoded, err = e.encode(img, format, q)
				if err != nil {
					return nil, err
				}
			}
		}
		if int64(len(encoded)) <= opts.MaxBytes {
			break
		}

		factor := math.Sqrt(float64(opts.MaxBytes)/float64(len(encoded))) * shrinkMargin
		newWidth := int(float64(img.Bounds().Dx()) * factor)
		if newWidth >= img.Bounds().Dx() || newWidth < 1 {
			break
		}
		img = imaging.Resize(img, newWidth, 0, imaging.Lanczos)

		// quality resets after every dimension reduction
		encoded, err = e.encode(img, format, quality)
		if err != nil {
			return nil, err
		}
	}

	bounds := img.Bounds()
	return &port.TransformResult{
		Data:      encoded,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Format:    format,
		SizeBytes: int64(len(encoded)),
	}, nil
}

// Probe decodes dimensions and format, then enriches the result with EXIF
// camera data when present. EXIF failures are ignored.
func (e *Engine) Probe(data []byte) (*port.ImageInfo, error) {
	cfg, format, err := decodeConfig(data)
	if err != nil {
		return nil, err
	}

	info := &port.ImageInfo{Width: cfg.Width, Height: cfg.Height, Format: format}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return info, nil
	}
	if tag, err := x.Get(exif.Make); err == nil {
		if v, err := tag.StringVal(); err == nil {
			info.CameraMake = v
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if v, err := tag.StringVal(); err == nil {
			info.CameraModel = v
		}
	}
	if taken, err := x.DateTime(); err == nil {
		info.TakenAt = &taken
	}

	return info, nil
}

func (e *Engine) encode(img image.Image, format string, quality int) ([]byte, error) {
	buf := &bytes.Buffer{}
	switch format {
	case port.FormatWebP:
		if err := e.webpEnc.Encode(buf, img, float32(quality)); err != nil {
			return nil, fmt.Errorf("transform: failed to encode WebP: %w", err)
		}
	case port.FormatJPEG:
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("transform: failed to encode JPEG: %w", err)
		}
	case port.FormatPNG:
		if err := png.Encode(buf, img); err != nil {
			return nil, fmt.Errorf("transform: failed to encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("transform: unsupported target format %q", format)
	}
	return buf.Bytes(), nil
}

func decodeConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", fmt.Errorf("%w: zero dimensions", ErrInvalidImage)
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return image.Config{}, "", fmt.Errorf("%w: %dx%d exceeds %dpx ceiling", ErrInvalidImage, cfg.Width, cfg.Height, MaxImageDimension)
	}
	return cfg, format, nil
}

func resolveFormat(opts port.TransformOptions, srcFormat string, img image.Image) string {
	if opts.TargetFormat != "" && opts.TargetFormat != port.FormatAuto {
		return opts.TargetFormat
	}
	// keep PNG only when transparency would be lost
	if srcFormat == port.FormatPNG && hasAlpha(img) {
		return port.FormatPNG
	}
	if opts.PreferWebP {
		return port.FormatWebP
	}
	return port.FormatJPEG
}

// resize fits the image inside MaxWidth×MaxHeight (or crops to cover when
// opts.Cover), never upscaling beyond the source resolution.
func resize(img image.Image, opts port.TransformOptions) image.Image {
	if opts.MaxWidth <= 0 && opts.MaxHeight <= 0 {
		return img
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	if opts.Cover && opts.MaxWidth > 0 && opts.MaxHeight > 0 {
		tw, th := opts.MaxWidth, opts.MaxHeight
		// clamp the crop target so a small source is never enlarged
		f := math.Min(float64(w)/float64(tw), float64(h)/float64(th))
		if f < 1 {
			tw = int(float64(tw) * f)
			th = int(float64(th) * f)
		}
		if tw < 1 {
			tw = 1
		}
		if th < 1 {
			th = 1
		}
		return imaging.Fill(img, tw, th, imaging.Center, imaging.Lanczos)
	}

	bw, bh := opts.MaxWidth, opts.MaxHeight
	if bw <= 0 {
		bw = w
	}
	if bh <= 0 {
		bh = h
	}
	if w <= bw && h <= bh {
		return img
	}
	return imaging.Fit(img, bw, bh, imaging.Lanczos)
}

func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return false
}
