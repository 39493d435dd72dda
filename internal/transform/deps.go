package transform

import (
	"image"
	"io"

	"github.com/chai2010/webp"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

type WebPEncoder interface {
	Encode(w io.Writer, img image.Image, quality float32) error
}

type PDFOptimiser interface {
	OptimiseFile(inPath, outPath string) error
}

type chaiWebPEncoder struct{}

func NewWebPEncoder() WebPEncoder { return chaiWebPEncoder{} }

func (chaiWebPEncoder) Encode(w io.Writer, img image.Image, quality float32) error {
	return webp.Encode(w, img, &webp.Options{Quality: quality})
}

type pdfcpuOptimiser struct{}

func NewPDFOptimiser() PDFOptimiser { return pdfcpuOptimiser{} }

func (pdfcpuOptimiser) OptimiseFile(inPath, outPath string) error {
	return api.OptimizeFile(inPath, outPath, nil)
}
