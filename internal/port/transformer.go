package port

import "time"

// Image formats understood by the transform engine.
const (
	FormatAuto = "auto"
	FormatWebP = "webp"
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
)

// TransformOptions constrains one optimisation pass.
type TransformOptions struct {
	// MaxWidth/MaxHeight bound the output dimensions; 0 means unbounded.
	MaxWidth  int
	MaxHeight int
	// Quality is the starting lossy quality (1-100); 0 selects the default.
	Quality int
	// TargetFormat is a concrete format or FormatAuto.
	TargetFormat string
	// MaxBytes bounds the encoded output size; 0 disables the size search.
	MaxBytes int64
	// Cover crops to fill MaxWidth×MaxHeight instead of fitting inside it.
	Cover bool
	// PreferWebP is the caller's capability signal, consulted by FormatAuto.
	PreferWebP bool
}

// TransformResult is one encoded output of the transform engine.
type TransformResult struct {
	Data      []byte
	Width     int
	Height    int
	Format    string
	SizeBytes int64
}

// ImageInfo describes a decodable original. EXIF fields are best-effort and
// may be empty.
type ImageInfo struct {
	Width       int
	Height      int
	Format      string
	CameraMake  string
	CameraModel string
	TakenAt     *time.Time
}

// Transformer turns raw bytes into optimised renditions. Implementations are
// pure buffer-in/buffer-out and perform no I/O.
type Transformer interface {
	// Optimise re-encodes the image within the given constraints. It returns
	// the best achievable result rather than failing when the constraints
	// cannot be met exactly.
	Optimise(data []byte, opts TransformOptions) (*TransformResult, error)
	// GenerateVariants produces the named variant set. Variants fail
	// independently; the second map carries per-variant errors.
	GenerateVariants(data []byte, maxBytes int64) (map[string]*TransformResult, map[string]error)
	// Probe decodes dimensions and best-effort EXIF data without re-encoding.
	Probe(data []byte) (*ImageInfo, error)
	// OptimisePDF losslessly rewrites a PDF and reports its page count.
	OptimisePDF(data []byte) ([]byte, int, error)
}
