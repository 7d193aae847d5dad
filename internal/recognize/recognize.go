// Package recognize defines the boundary to the on-device text-recognition
// primitive. The pipeline consumes this interface only; the tesseract-backed
// implementation lives alongside it.
package recognize

import "context"

// Rotation is a page rotation hypothesis in degrees, clockwise.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Rotations lists the four canonical hypotheses tried by the selector.
var Rotations = [4]Rotation{Rotate0, Rotate90, Rotate180, Rotate270}

// Line is one recognized text line, top-to-bottom page order.
type Line struct {
	// Text is the top-ranked candidate for the line.
	Text string
	// Confidence is the recognizer's certainty in Text, in [0,1].
	Confidence float64
	// Alternates are lower-ranked candidates, best first. Empty unless the
	// caller requested more than one candidate per line.
	Alternates []string
}

// Candidates returns Text followed by the alternates, ranked best first.
func (l Line) Candidates() []string {
	out := make([]string, 0, 1+len(l.Alternates))
	out = append(out, l.Text)
	out = append(out, l.Alternates...)
	return out
}

// Options tunes a single recognition call.
type Options struct {
	// MaxCandidates caps ranked candidates per line. 1 for the cheap
	// scoring pass, up to 3 for the refinement pass.
	MaxCandidates int
}

// Recognizer is the adapter over the OCR primitive. Implementations must be
// safe for sequential reuse and must honor ctx cancellation between calls;
// a cancelled call must not corrupt subsequent ones.
type Recognizer interface {
	Recognize(ctx context.Context, img []byte, rotation Rotation, opts Options) ([]Line, error)
}
