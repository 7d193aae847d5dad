// Package pipeline turns a photographed insurance document into structured
// draft records: orientation selection over four rotation hypotheses,
// single-record vs. table detection, then keyword-anchored field extraction.
// Every invocation is independent and side-effect-free; records are drafts
// for human review, not an authoritative source of truth.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/entity"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/keywords"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/recognize"
)

// Result is one pipeline invocation's output.
type Result struct {
	Rotation recognize.Rotation    `json:"rotation"`
	Lines    []string              `json:"lines"`
	Tabular  bool                  `json:"tabular"`
	Records  []entity.PolicyRecord `json:"records"`
}

// Extractor wires the pipeline stages together.
type Extractor struct {
	selector *Selector
	detector *TableDetector
	fields   *FieldExtractor
	table    *TableExtractor
	logger   *slog.Logger
}

// NewExtractor builds the full pipeline over a recognizer. A nil dictionary
// gets the default keyword set.
func NewExtractor(rec recognize.Recognizer, dict *keywords.Dictionary, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if dict == nil {
		dict = keywords.NewDictionary()
	}
	return &Extractor{
		selector: NewSelector(rec, dict, logger),
		detector: NewTableDetector(dict, logger),
		fields:   NewFieldExtractor(dict, logger),
		table:    NewTableExtractor(dict, logger),
		logger:   logger,
	}
}

// ExtractImage runs the whole pipeline on one photograph. It fails hard only
// when recognition fails or yields no text; extraction itself is best-effort
// and may return records with many empty fields.
func (e *Extractor) ExtractImage(ctx context.Context, img []byte) (*Result, error) {
	lines, rotation, err := e.selector.SelectText(ctx, img)
	if err != nil {
		return nil, err
	}

	records, tabular := e.ExtractLines(lines)
	e.logger.Info("pipeline.extract.ok",
		"rotation", int(rotation),
		"lines", len(lines),
		"tabular", tabular,
		"records", len(records),
	)
	return &Result{
		Rotation: rotation,
		Lines:    lines,
		Tabular:  tabular,
		Records:  records,
	}, nil
}

// ExtractLines runs mode detection and extraction over already-recognized
// text. The second return reports whether the document was parsed as a
// table. Column-major parsing is not implemented; such documents fall back
// to single-record extraction.
func (e *Extractor) ExtractLines(lines []string) ([]entity.PolicyRecord, bool) {
	verdict := e.detector.Detect(lines)
	if verdict.Tabular && verdict.Orientation != OrientationColumnMajor {
		// Undetermined defaults to row-major; these documents almost
		// always are, and a wrong guess still yields an editable draft.
		return e.table.ExtractRows(lines, verdict.HeaderIndex), true
	}
	return []entity.PolicyRecord{e.fields.Extract(lines)}, false
}
