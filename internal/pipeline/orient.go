package pipeline

import (
	"context"
	"log/slog"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/common"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/keywords"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/recognize"
)

// carrierBoost multiplies an attempt's base confidence when a known carrier
// name shows up in its text. A rotation that reads a carrier correctly is
// almost certainly the upright one, even if the raw confidence is lower.
const carrierBoost = 1.5

// Selector picks the best of the four rotation hypotheses.
//
// It runs a cheap single-candidate pass per rotation, scores each attempt,
// then runs one expensive multi-candidate pass on the winner only, so cost
// is bounded at roughly 4 cheap + 1 accurate recognition call per photo.
type Selector struct {
	rec    recognize.Recognizer
	dict   *keywords.Dictionary
	logger *slog.Logger
}

func NewSelector(rec recognize.Recognizer, dict *keywords.Dictionary, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	if dict == nil {
		dict = keywords.NewDictionary()
	}
	return &Selector{rec: rec, dict: dict, logger: logger}
}

// SelectText returns the document text of the best rotation, as an ordered
// line sequence, plus the winning rotation. It fails with common.ErrNoText
// when no rotation yields any text at all. Recognition errors on individual
// scoring passes are swallowed (that rotation simply cannot win); an error
// on the refinement pass is surfaced — no partial result.
func (s *Selector) SelectText(ctx context.Context, img []byte) ([]string, recognize.Rotation, error) {
	var (
		bestRot   recognize.Rotation
		bestScore float64
		found     bool
	)

	for _, rot := range recognize.Rotations {
		lines, err := s.rec.Recognize(ctx, img, rot, recognize.Options{MaxCandidates: 1})
		if err != nil {
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}
			s.logger.Debug("pipeline.orient.attempt_failed", "rotation", int(rot), "err", err)
			continue
		}
		if len(lines) == 0 {
			continue
		}

		score := scoreAttempt(lines, s.dict)
		s.logger.Debug("pipeline.orient.attempt",
			"rotation", int(rot), "lines", len(lines), "score", score)

		// Strictly greater: ties keep the first rotation encountered.
		if !found || score > bestScore {
			found = true
			bestRot = rot
			bestScore = score
		}
	}

	if !found {
		return nil, 0, common.WrapError(common.ErrNoText, "orientation selection")
	}

	// Refinement pass on the winner: up to three candidates per line,
	// preferring the first candidate that reads like policy vocabulary.
	lines, err := s.rec.Recognize(ctx, img, bestRot, recognize.Options{MaxCandidates: 3})
	if err != nil {
		return nil, 0, common.WrapError(err, "refinement recognition")
	}

	text := make([]string, 0, len(lines))
	for _, line := range lines {
		chosen := line.Text
		for _, cand := range line.Candidates() {
			if s.dict.HasVocabulary(cand) {
				chosen = cand
				break
			}
		}
		text = append(text, chosen)
	}

	s.logger.Info("pipeline.orient.ok",
		"rotation", int(bestRot), "score", bestScore, "lines", len(text))
	return text, bestRot, nil
}

// scoreAttempt computes mean top-candidate confidence, boosted when any
// line contains a known carrier keyword.
func scoreAttempt(lines []recognize.Line, dict *keywords.Dictionary) float64 {
	var sum float64
	carrier := false
	for _, l := range lines {
		sum += l.Confidence
		if !carrier && dict.HasCarrier(l.Text) {
			carrier = true
		}
	}
	score := sum / float64(len(lines))
	if carrier {
		score *= carrierBoost
	}
	return score
}
