package recognize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractConfig configures the tesseract-backed recognizer.
type TesseractConfig struct {
	// TessdataDir overrides the tessdata prefix; empty uses the system default.
	TessdataDir string
	// Languages passed to tesseract, e.g. ["chi_tra", "eng"].
	Languages []string
}

// Tesseract recognizes text via the tesseract engine. A fresh engine client
// is created per call, so the value is safe for sequential reuse and a
// cancelled call cannot poison the next one.
type Tesseract struct {
	cfg    TesseractConfig
	logger *slog.Logger
}

// NewTesseract builds a tesseract-backed Recognizer.
func NewTesseract(cfg TesseractConfig, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"chi_tra", "eng"}
	}
	return &Tesseract{cfg: cfg, logger: logger}
}

// Recognize runs OCR on img under the given rotation hypothesis.
// Tesseract yields a single candidate per line, so Alternates stays empty
// regardless of opts.MaxCandidates; confidence arrives per line in [0,100]
// and is normalized to [0,1].
func (t *Tesseract) Recognize(ctx context.Context, img []byte, rotation Rotation, opts Options) ([]Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rotated, err := rotateImage(img, rotation)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(t.cfg.TessdataDir); err != nil {
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.cfg.Languages...); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("set page segmentation: %w", err)
	}
	if err := client.SetImageFromBytes(rotated); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize text lines: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		lines = append(lines, Line{
			Text:       text,
			Confidence: box.Confidence / 100,
		})
	}
	t.logger.Debug("recognize.tesseract.ok",
		"rotation", int(rotation),
		"lines", len(lines),
		"max_candidates", opts.MaxCandidates,
	)
	return lines, nil
}
