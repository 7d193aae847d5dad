package pipeline

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/constants"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/entity"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/keywords"
)

var (
	rePolicyNoAlpha  = regexp.MustCompile(`[A-Z]{1,4}[0-9]{6,12}`)
	rePolicyNoDigits = regexp.MustCompile(`[0-9]{10,}`)
	reDateYear4      = regexp.MustCompile(`(?:19|20)[0-9]{2}[/\-年][0-9]{1,2}[/\-月][0-9]{1,2}日?`)
	reDateROC        = regexp.MustCompile(`[0-9]{3}[/\-年][0-9]{1,2}[/\-月][0-9]{1,2}日?`)
	// The leading guard keeps the short capture from matching inside a
	// four-digit calendar year ("2024年" is a date, not a 24-year term).
	rePaymentYears = regexp.MustCompile(`(?:^|[^0-9])([0-9]{1,2})年`)
	rePercentRate  = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*%`)
	reDecimalRate  = regexp.MustCompile(`[0-9]+\.[0-9]+`)

	// Separators used when pulling a value out of a labelled line. The
	// half-width comma is deliberately absent: it is a thousands separator
	// in amounts, not a field delimiter.
	reSeparators = regexp.MustCompile(`[：:、，/\t ]+`)
)

// FieldExtractor populates a PolicyRecord from an ordered line sequence.
//
// Extraction is a single forward pass anchored at the carrier line: each
// still-empty field is evaluated against each line with its own rule, first
// match wins, and a later line can never clobber an earlier fill. The whole
// thing is a pure function of its input — no state survives a call.
type FieldExtractor struct {
	dict   *keywords.Dictionary
	logger *slog.Logger
	rules  []fieldRule
}

// fieldRule pairs a target-field emptiness check with an extractor that
// fills the field on match. Rules are evaluated in declaration order.
type fieldRule struct {
	name   string
	filled func(*entity.PolicyRecord) bool
	apply  func(*entity.PolicyRecord, string) bool
}

func NewFieldExtractor(dict *keywords.Dictionary, logger *slog.Logger) *FieldExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if dict == nil {
		dict = keywords.NewDictionary()
	}
	e := &FieldExtractor{dict: dict, logger: logger}
	e.rules = e.buildRules()
	return e
}

// Extract never fails: fields that no heuristic matches stay empty and a
// partial record is a valid result.
func (e *FieldExtractor) Extract(lines []string) entity.PolicyRecord {
	var rec entity.PolicyRecord

	carrier, anchor := e.findAnchor(lines)
	rec.Carrier = carrier

	// The carrier line is the top of the semantically useful region;
	// nothing above it is scanned.
	for _, line := range lines[anchor:] {
		for _, rule := range e.rules {
			if rule.filled(&rec) {
				continue
			}
			if rule.apply(&rec, line) {
				e.logger.Debug("pipeline.fields.filled", "field", rule.name)
			}
		}
	}

	// An empty product name is worse for review than a generic one.
	if rec.Name == "" && rec.Category != "" {
		rec.Name = rec.Category
	}
	return rec
}

// findAnchor locates the carrier line: full names first, then an
// abbreviation co-occurring with an insurer suffix. Without a carrier the
// anchor defaults to line 0 so extraction degrades instead of failing.
func (e *FieldExtractor) findAnchor(lines []string) (string, int) {
	for i, line := range lines {
		if c, ok := e.dict.FindCarrier(line); ok {
			return c, i
		}
	}
	for i, line := range lines {
		if a, ok := e.dict.FindAbbreviation(line); ok {
			return a, i
		}
	}
	return "", 0
}

func (e *FieldExtractor) buildRules() []fieldRule {
	d := e.dict
	return []fieldRule{
		{
			name:   "category",
			filled: func(r *entity.PolicyRecord) bool { return r.Category != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				switch {
				case keywords.ContainsAny(line, d.LifeKeywords):
					r.Category = string(constants.Life)
				case keywords.ContainsAny(line, d.MedicalKeywords):
					r.Category = string(constants.Medical)
				case keywords.ContainsAny(line, d.AccidentKeywords):
					r.Category = string(constants.Accident)
				case keywords.ContainsAny(line, d.InvestmentKeywords):
					r.Category = string(constants.Investment)
				default:
					return false
				}
				return true
			},
		},
		{
			name:   "policy_number",
			filled: func(r *entity.PolicyRecord) bool { return r.PolicyNumber != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				if keywords.ContainsAny(line, d.PolicyNumberLabels) {
					if v := e.valueAfterLabel(line, d.PolicyNumberLabels); v != "" {
						r.PolicyNumber = v
						return true
					}
				}
				if m := rePolicyNoAlpha.FindString(line); m != "" {
					r.PolicyNumber = m
					return true
				}
				if m := rePolicyNoDigits.FindString(line); m != "" {
					r.PolicyNumber = m
					return true
				}
				return false
			},
		},
		{
			name:   "name",
			filled: func(r *entity.PolicyRecord) bool { return r.Name != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				if !strings.ContainsAny(line, "險壽") {
					return false
				}
				if keywords.ContainsAny(line, d.InsuredLabels) ||
					keywords.ContainsAny(line, d.CoverageLabels) ||
					strings.Contains(line, d.CarrierColumnKeyword) {
					return false
				}
				if _, isCarrier := d.FindCarrier(line); isCarrier {
					return false
				}
				trimmed := strings.TrimSpace(line)
				if n := utf8.RuneCountInString(trimmed); n < 4 || n > 49 {
					return false
				}
				r.Name = trimmed
				return true
			},
		},
		{
			name:   "insured",
			filled: func(r *entity.PolicyRecord) bool { return r.Insured != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				if !keywords.ContainsAny(line, d.InsuredLabels) {
					return false
				}
				if v := e.valueAfterLabel(line, d.InsuredLabels); v != "" {
					r.Insured = v
					return true
				}
				return false
			},
		},
		{
			name:   "start_date",
			filled: func(r *entity.PolicyRecord) bool { return r.StartDate != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				if !keywords.ContainsAny(line, d.StartDateLabels) {
					return false
				}
				if m := findDate(line); m != "" {
					r.StartDate = m
					return true
				}
				return false
			},
		},
		{
			name:   "coverage_amount",
			filled: func(r *entity.PolicyRecord) bool { return r.CoverageAmount != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				if !keywords.ContainsAny(line, d.CoverageLabels) {
					return false
				}
				if v, ok := NormalizeAmount(line); ok {
					r.CoverageAmount = v
					return true
				}
				return false
			},
		},
		{
			name:   "annual_premium",
			filled: func(r *entity.PolicyRecord) bool { return r.AnnualPremium != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				// Lines with term/period words carry payment-period years,
				// not a currency amount.
				if !keywords.ContainsAny(line, d.PremiumLabels) ||
					keywords.ContainsAny(line, d.PeriodKeywords) {
					return false
				}
				if v, ok := NormalizeAmount(line); ok {
					r.AnnualPremium = v
					return true
				}
				return false
			},
		},
		{
			name:   "payment_years",
			filled: func(r *entity.PolicyRecord) bool { return r.PaymentYears != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				if !keywords.ContainsAny(line, d.PaymentLabels) {
					return false
				}
				if m := rePaymentYears.FindStringSubmatch(line); m != nil {
					r.PaymentYears = m[1]
					return true
				}
				return false
			},
		},
		{
			name:   "beneficiary",
			filled: func(r *entity.PolicyRecord) bool { return r.Beneficiary != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				if !keywords.ContainsAny(line, d.BeneficiaryLabels) {
					return false
				}
				if v := e.valueAfterLabel(line, d.BeneficiaryLabels); v != "" {
					r.Beneficiary = v
					return true
				}
				return false
			},
		},
		{
			name:   "interest_rate",
			filled: func(r *entity.PolicyRecord) bool { return r.InterestRate != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				if !keywords.ContainsAny(line, d.InterestLabels) {
					return false
				}
				if m := rePercentRate.FindStringSubmatch(line); m != nil {
					r.InterestRate = m[1]
					return true
				}
				if m := reDecimalRate.FindString(line); m != "" {
					r.InterestRate = m
					return true
				}
				return false
			},
		},
		{
			name:   "currency",
			filled: func(r *entity.PolicyRecord) bool { return r.Currency != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				if keywords.ContainsAny(line, d.CurrencyLabels) {
					if v := e.valueAfterLabel(line, d.CurrencyLabels); v != "" {
						r.Currency = v
						return true
					}
				}
				switch {
				case strings.Contains(line, "美元"), strings.Contains(line, "USD"):
					r.Currency = "USD"
				case strings.Contains(line, "新台幣"), strings.Contains(line, "台幣"), strings.Contains(line, "NTD"):
					r.Currency = "TWD"
				case strings.Contains(line, "人民幣"):
					r.Currency = "CNY"
				default:
					return false
				}
				return true
			},
		},
		{
			name:   "exchange_rate",
			filled: func(r *entity.PolicyRecord) bool { return r.ExchangeRate != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				if !keywords.ContainsAny(line, d.ExchangeLabels) {
					return false
				}
				if m := reDecimalRate.FindString(line); m != "" {
					r.ExchangeRate = m
					return true
				}
				return false
			},
		},
		{
			name:   "converted_amount",
			filled: func(r *entity.PolicyRecord) bool { return r.ConvertedAmount != "" },
			apply: func(r *entity.PolicyRecord, line string) bool {
				if !keywords.ContainsAny(line, d.ConvertedLabels) {
					return false
				}
				if v, ok := NormalizeAmount(line); ok {
					r.ConvertedAmount = v
					return true
				}
				return false
			},
		},
	}
}

// valueAfterLabel splits a labelled line on common separators and returns
// the first token after the label that is not itself a label word.
func (e *FieldExtractor) valueAfterLabel(line string, labels []string) string {
	tokens := splitTokens(line)
	labelIdx := -1
	for i, tok := range tokens {
		if keywords.ContainsAny(tok, labels) {
			labelIdx = i
			break
		}
	}
	if labelIdx < 0 {
		return ""
	}
	for _, tok := range tokens[labelIdx+1:] {
		if tok == "" || e.dict.IsLabelWord(tok) {
			continue
		}
		return tok
	}
	return ""
}

func splitTokens(line string) []string {
	parts := reSeparators.Split(line, -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func findDate(line string) string {
	if m := reDateYear4.FindString(line); m != "" {
		return m
	}
	return reDateROC.FindString(line)
}
