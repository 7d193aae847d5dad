package pipeline

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/constants"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/entity"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/keywords"
)

// coverageFloor separates coverage amounts from premiums when a row carries
// two numbers: the first amount above this threshold is coverage, the rest
// fall through to the premium slot.
const coverageFloor = 100000

var rePaymentToken = regexp.MustCompile(`^([0-9]{1,2})年`)

// HeaderField is a (canonical field name, rune offset) pair parsed from a
// row-major table header. The ordering is informational only: OCR column
// alignment is too unreliable for positional matching, so row parsing below
// is driven by token content, not offsets.
type HeaderField struct {
	Name   string
	Offset int
}

// TableExtractor parses row-major tables into one PolicyRecord per data row.
type TableExtractor struct {
	dict   *keywords.Dictionary
	logger *slog.Logger
}

func NewTableExtractor(dict *keywords.Dictionary, logger *slog.Logger) *TableExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if dict == nil {
		dict = keywords.NewDictionary()
	}
	return &TableExtractor{dict: dict, logger: logger}
}

// ParseHeader maps each canonical field to the rune offset of its first
// matching keyword variant in the header line, sorted by offset.
func (t *TableExtractor) ParseHeader(header string) []HeaderField {
	d := t.dict
	canonical := []struct {
		name     string
		variants []string
	}{
		{"carrier", []string{d.CarrierColumnKeyword, "公司"}},
		{"policy_number", d.PolicyNumberLabels},
		{"insured", append([]string{"要保人"}, d.InsuredLabels...)},
		{"name", []string{"商品名稱", "險種", "保單名稱"}},
		{"start_date", append([]string{"投保日"}, d.StartDateLabels...)},
		{"coverage_amount", d.CoverageLabels},
		{"annual_premium", d.PremiumLabels},
		{"payment_years", d.PaymentLabels},
	}

	var fields []HeaderField
	for _, c := range canonical {
		for _, v := range c.variants {
			if idx := strings.Index(header, v); idx >= 0 {
				fields = append(fields, HeaderField{
					Name:   c.name,
					Offset: utf8.RuneCountInString(header[:idx]),
				})
				break
			}
		}
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Offset < fields[j].Offset })
	return fields
}

// ExtractRows parses every line after the header into a record. Lines
// without any recognized carrier substring are noise (separators, footers,
// partial reads) and are skipped, never emitted.
func (t *TableExtractor) ExtractRows(lines []string, headerIdx int) []entity.PolicyRecord {
	header := t.ParseHeader(lines[headerIdx])
	t.logger.Debug("pipeline.table.header", "fields", len(header))

	var records []entity.PolicyRecord
	for _, line := range lines[headerIdx+1:] {
		if !t.dict.HasCarrier(line) {
			continue
		}
		rec := t.parseRow(line)
		records = append(records, rec)
	}
	t.logger.Info("pipeline.table.ok", "rows", len(records))
	return records
}

// parseRow tokenizes one data line and assigns each token to the first
// still-empty field whose content-shape rule it satisfies. A token fills at
// most one field; tokens matching nothing are discarded.
func (t *TableExtractor) parseRow(line string) entity.PolicyRecord {
	var rec entity.PolicyRecord
	for _, tok := range tokenizeRow(line) {
		t.assignToken(&rec, tok)
	}
	return rec
}

func (t *TableExtractor) assignToken(rec *entity.PolicyRecord, tok string) {
	d := t.dict

	if rec.Carrier == "" {
		if c, ok := d.FindCarrier(tok); ok {
			rec.Carrier = c
			return
		}
		for _, a := range d.Abbreviations {
			if strings.Contains(tok, a) {
				rec.Carrier = a
				return
			}
		}
	}
	if rec.PolicyNumber == "" {
		if m := rePolicyNoAlpha.FindString(tok); m != "" {
			rec.PolicyNumber = m
			return
		}
		if m := rePolicyNoDigits.FindString(tok); m != "" {
			rec.PolicyNumber = m
			return
		}
	}
	if rec.Category == "" {
		switch {
		case keywords.ContainsAny(tok, d.LifeKeywords):
			rec.Category = string(constants.Life)
			return
		case keywords.ContainsAny(tok, d.MedicalKeywords):
			rec.Category = string(constants.Medical)
			return
		case keywords.ContainsAny(tok, d.AccidentKeywords):
			rec.Category = string(constants.Accident)
			return
		case keywords.ContainsAny(tok, d.InvestmentKeywords):
			rec.Category = string(constants.Investment)
			return
		}
	}
	if rec.Insured == "" && isPersonName(tok) {
		rec.Insured = tok
		return
	}
	if rec.StartDate == "" {
		if m := findDate(tok); m != "" {
			rec.StartDate = m
			return
		}
	}
	if v, ok := NormalizeAmount(tok); ok {
		if n := amountValue(v); n > coverageFloor && rec.CoverageAmount == "" {
			rec.CoverageAmount = v
			return
		}
		if rec.AnnualPremium == "" {
			rec.AnnualPremium = v
			return
		}
	}
	if rec.PaymentYears == "" {
		if m := rePaymentToken.FindStringSubmatch(tok); m != nil {
			rec.PaymentYears = m[1]
			return
		}
	}
	if rec.Name == "" && strings.ContainsAny(tok, "險壽") {
		rec.Name = tok
	}
}

// tokenizeRow splits a data line by a delimiter cascade: tabs first, then
// runs of two or more spaces, then single spaces as a last resort. The
// cascade stops at the first strategy producing at least two tokens.
func tokenizeRow(line string) []string {
	if toks := nonEmpty(strings.Split(line, "\t")); len(toks) >= 2 {
		return toks
	}
	if toks := splitMultiSpace(line); len(toks) >= 2 {
		return toks
	}
	return strings.Fields(line)
}

// splitMultiSpace scans the line manually, breaking tokens on runs of two
// or more spaces while keeping single spaces inside a token.
func splitMultiSpace(line string) []string {
	var (
		toks []string
		cur  strings.Builder
		run  int
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			toks = append(toks, s)
		}
		cur.Reset()
	}
	for _, r := range line {
		if r == ' ' {
			run++
			if run >= 2 {
				flush()
				continue
			}
			cur.WriteRune(r)
			continue
		}
		run = 0
		cur.WriteRune(r)
	}
	flush()
	return toks
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// isPersonName matches a run of two to four Han characters, the shape of
// names on these documents.
func isPersonName(tok string) bool {
	n := 0
	for _, r := range tok {
		if !unicode.Is(unicode.Han, r) {
			return false
		}
		n++
	}
	return n >= 2 && n <= 4
}

func amountValue(s string) int64 {
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int64(r-'0')
	}
	return n
}
