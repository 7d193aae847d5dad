package pipeline

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/keywords"
)

// TableOrientation describes the shape of a multi-record document.
type TableOrientation int

const (
	// OrientationUndetermined means the header gave no decisive signal;
	// callers treat it as row-major, which is what these documents
	// overwhelmingly are in practice.
	OrientationUndetermined TableOrientation = iota
	OrientationRowMajor
	OrientationColumnMajor
)

func (o TableOrientation) String() string {
	switch o {
	case OrientationRowMajor:
		return "row-major"
	case OrientationColumnMajor:
		return "column-major"
	default:
		return "undetermined"
	}
}

// TableVerdict is the detector's output: whether the document is a
// multi-record table at all and, if so, its shape and header line.
type TableVerdict struct {
	Tabular     bool
	Orientation TableOrientation
	HeaderIndex int
}

// TableDetector decides single-record vs. multi-record documents.
type TableDetector struct {
	dict   *keywords.Dictionary
	logger *slog.Logger
}

func NewTableDetector(dict *keywords.Dictionary, logger *slog.Logger) *TableDetector {
	if logger == nil {
		logger = slog.Default()
	}
	if dict == nil {
		dict = keywords.NewDictionary()
	}
	return &TableDetector{dict: dict, logger: logger}
}

// Detect looks for a header line carrying the carrier-column keyword plus at
// least two header keywords; one keyword alone misclassifies ordinary body
// lines too often. Without a header the document is not tabular and the
// caller falls back to single-record extraction.
func (d *TableDetector) Detect(lines []string) TableVerdict {
	headerIdx := -1
	for i, line := range lines {
		if strings.Contains(line, d.dict.CarrierColumnKeyword) &&
			d.dict.HeaderKeywordCount(line) >= 2 {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return TableVerdict{Tabular: false, HeaderIndex: -1}
	}

	orientation := d.classify(lines, headerIdx)
	d.logger.Debug("pipeline.table.detected",
		"header_index", headerIdx, "orientation", orientation.String())
	return TableVerdict{Tabular: true, Orientation: orientation, HeaderIndex: headerIdx}
}

// classify applies the orientation signals in order of preference. Every
// rule that fires means row-major; nothing here ever proves column-major,
// so an undetermined verdict is returned when no signal fires and the
// caller applies the row-major default.
func (d *TableDetector) classify(lines []string, headerIdx int) TableOrientation {
	header := lines[headerIdx]

	// (a) A header naming three or more columns is a row of column titles.
	if d.dict.HeaderKeywordCount(header) >= 3 {
		return OrientationRowMajor
	}

	// (b) Several carrier mentions in the following lines: one record per line.
	count := 0
	for i := headerIdx + 1; i < len(lines) && i <= headerIdx+10; i++ {
		if containsAbbreviation(d.dict, lines[i]) {
			count++
		}
	}
	if count >= 2 {
		return OrientationRowMajor
	}

	// (c) At least one header keyword plus a full carrier name below.
	if d.dict.HeaderKeywordCount(header) >= 1 {
		for _, line := range lines[headerIdx+1:] {
			if _, ok := d.dict.FindCarrier(line); ok {
				return OrientationRowMajor
			}
		}
	}

	// (d) A long header with several structural separators.
	if utf8.RuneCountInString(header) > 20 && countSeparators(header) > 2 {
		return OrientationRowMajor
	}

	return OrientationUndetermined
}

func containsAbbreviation(dict *keywords.Dictionary, line string) bool {
	for _, a := range dict.Abbreviations {
		if strings.Contains(line, a) {
			return true
		}
	}
	return false
}

// countSeparators counts structural delimiters in a header line: tabs,
// vertical bars, enumeration commas and runs of two or more spaces.
func countSeparators(line string) int {
	n := strings.Count(line, "\t") + strings.Count(line, "|") + strings.Count(line, "、")
	spaces := 0
	run := 0
	for _, r := range line {
		if r == ' ' {
			run++
			continue
		}
		if run >= 2 {
			spaces++
		}
		run = 0
	}
	if run >= 2 {
		spaces++
	}
	return n + spaces
}
