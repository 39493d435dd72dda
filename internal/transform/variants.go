package transform

import (
	"bytes"
	"image"

	"github.com/jhrphoto/media-pipeline-go/internal/model"
	"github.com/jhrphoto/media-pipeline-go/internal/port"
)

// Variant presets. The thumbnail is a square cover crop, medium fits a fixed
// width, full keeps the original dimensions but normalises the delivery
// format and bounds the encoded size.
const (
	ThumbnailEdge    = 300
	ThumbnailQuality = 75
	MediumWidth      = 800
	MediumQuality    = 80
	FullQuality      = 82
)

type variantPreset struct {
	name string
	opts port.TransformOptions
}

func variantPresets(maxBytes int64) []variantPreset {
	return []variantPreset{
		{model.VariantThumbnail, port.TransformOptions{
			MaxWidth:     ThumbnailEdge,
			MaxHeight:    ThumbnailEdge,
			Quality:      ThumbnailQuality,
			TargetFormat: port.FormatWebP,
			Cover:        true,
		}},
		{model.VariantMedium, port.TransformOptions{
			MaxWidth:     MediumWidth,
			Quality:      MediumQuality,
			TargetFormat: port.FormatWebP,
		}},
		{model.VariantFull, port.TransformOptions{
			Quality:      FullQuality,
			TargetFormat: port.FormatWebP,
			MaxBytes:     maxBytes,
		}},
	}
}

// GenerateVariants runs the engine once per preset against the same source
// buffer. Variants fail independently; callers decide what a partial result
// means. Animated GIFs only get a pass-through full variant so frames are
// never flattened.
func (e *Engine) GenerateVariants(data []byte, maxBytes int64) (map[string]*port.TransformResult, map[string]error) {
	results := make(map[string]*port.TransformResult)
	errs := make(map[string]error)

	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil && format == port.FormatGIF {
		res, err := e.Optimise(data, port.TransformOptions{TargetFormat: port.FormatGIF})
		if err != nil {
			errs[model.VariantFull] = err
		} else {
			results[model.VariantFull] = res
		}
		return results, errs
	}

	for _, p := range variantPresets(maxBytes) {
		res, err := e.Optimise(data, p.opts)
		if err != nil {
			errs[p.name] = err
			continue
		}
		results[p.name] = res
	}
	return results, errs
}
