// Package keywords holds the closed vocabulary the extraction heuristics
// anchor on: known insurance carriers, category markers, and field labels.
// The lists are domain-specific to Taiwanese policy documents and are
// injected as immutable data — nothing here mutates after construction.
package keywords

import "strings"

// Dictionary bundles the keyword lists used by the pipeline. Construct one
// with NewDictionary and share it freely; all methods are read-only.
type Dictionary struct {
	// Carriers are full registered carrier names, most specific first.
	Carriers []string
	// Abbreviations are short carrier forms that only count as a carrier
	// when they co-occur with an insurer suffix on the same line.
	Abbreviations []string
	// InsurerSuffixes are generic insurer words (人壽, 產險, ...).
	InsurerSuffixes []string

	// Category keyword sets, mapped to canonical labels by the extractor.
	LifeKeywords       []string
	MedicalKeywords    []string
	AccidentKeywords   []string
	InvestmentKeywords []string

	// Field labels.
	PolicyNumberLabels []string
	InsuredLabels      []string
	StartDateLabels    []string
	CoverageLabels     []string
	PremiumLabels      []string
	PeriodKeywords     []string
	PaymentLabels      []string
	BeneficiaryLabels  []string
	InterestLabels     []string
	CurrencyLabels     []string
	ExchangeLabels     []string
	ConvertedLabels    []string

	// Table header vocabulary.
	CarrierColumnKeyword string
	HeaderKeywords       []string
}

// NewDictionary returns the default dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		Carriers: []string{
			"國泰人壽", "富邦人壽", "南山人壽", "新光人壽", "台灣人壽",
			"中國人壽", "全球人壽", "三商美邦人壽", "遠雄人壽", "宏泰人壽",
			"安聯人壽", "保誠人壽", "法國巴黎人壽", "元大人壽", "台新人壽",
			"第一金人壽", "合作金庫人壽", "中華郵政", "國泰產險", "富邦產險",
			"新安東京海上產險", "明台產險", "華南產險", "兆豐產險",
			"泰安產險", "和泰產險", "旺旺友聯產險",
		},
		Abbreviations: []string{
			"國泰", "富邦", "南山", "新光", "台壽", "中壽", "全球",
			"三商", "遠雄", "宏泰", "安聯", "保誠", "元大", "台新",
		},
		InsurerSuffixes: []string{"人壽", "壽險", "產險", "保險"},

		LifeKeywords:       []string{"壽險", "終身壽", "定期壽", "人壽保險", "終身保險"},
		MedicalKeywords:    []string{"醫療", "住院", "手術", "實支實付", "健康險"},
		AccidentKeywords:   []string{"意外", "傷害", "失能"},
		InvestmentKeywords: []string{"投資型", "變額", "萬能壽險", "投資連結"},

		PolicyNumberLabels: []string{"保單號碼", "保單編號", "保單號", "契約號碼"},
		InsuredLabels:      []string{"被保險人", "被保人"},
		StartDateLabels:    []string{"生效日", "投保日", "契約日", "始期", "保單日期"},
		CoverageLabels:     []string{"保險金額", "保額"},
		PremiumLabels:      []string{"年繳保費", "保險費", "保費"},
		PeriodKeywords:     []string{"年期", "期間", "期繳"},
		PaymentLabels:      []string{"繳費年期", "繳費期間", "年期"},
		BeneficiaryLabels:  []string{"受益人"},
		InterestLabels:     []string{"宣告利率", "預定利率", "利率"},
		CurrencyLabels:     []string{"幣別", "計價幣別"},
		ExchangeLabels:     []string{"匯率"},
		ConvertedLabels:    []string{"折合", "換算", "折台幣"},

		CarrierColumnKeyword: "保險公司",
		HeaderKeywords: []string{
			"保單號碼", "被保險人", "保險金額", "保費", "投保日",
			"繳費年期", "商品名稱", "險種", "要保人",
		},
	}
}

// FindCarrier returns the first full carrier name contained in s.
func (d *Dictionary) FindCarrier(s string) (string, bool) {
	for _, c := range d.Carriers {
		if strings.Contains(s, c) {
			return c, true
		}
	}
	return "", false
}

// FindAbbreviation returns the first carrier abbreviation contained in s,
// but only when an insurer suffix also appears on the same line.
func (d *Dictionary) FindAbbreviation(s string) (string, bool) {
	suffix := false
	for _, suf := range d.InsurerSuffixes {
		if strings.Contains(s, suf) {
			suffix = true
			break
		}
	}
	if !suffix {
		return "", false
	}
	for _, a := range d.Abbreviations {
		if strings.Contains(s, a) {
			return a, true
		}
	}
	return "", false
}

// HasCarrier reports whether s contains any full or abbreviated carrier name.
// Abbreviations match here without the suffix requirement; table rows list
// carriers in short form without a suffix nearby.
func (d *Dictionary) HasCarrier(s string) bool {
	if _, ok := d.FindCarrier(s); ok {
		return true
	}
	for _, a := range d.Abbreviations {
		if strings.Contains(s, a) {
			return true
		}
	}
	return false
}

// HasVocabulary reports whether s contains any domain vocabulary keyword.
// Used by the refinement pass to prefer candidates that read like policy text.
func (d *Dictionary) HasVocabulary(s string) bool {
	if d.HasCarrier(s) {
		return true
	}
	groups := [][]string{
		d.LifeKeywords, d.MedicalKeywords, d.AccidentKeywords, d.InvestmentKeywords,
		d.PolicyNumberLabels, d.InsuredLabels, d.StartDateLabels,
		d.CoverageLabels, d.PremiumLabels, d.PaymentLabels,
		d.BeneficiaryLabels, d.InterestLabels, d.CurrencyLabels,
	}
	for _, g := range groups {
		if containsAny(s, g) {
			return true
		}
	}
	return false
}

// IsLabelWord reports whether token looks like a field label rather than a
// value; used when splitting labelled lines into tokens.
func (d *Dictionary) IsLabelWord(token string) bool {
	groups := [][]string{
		d.PolicyNumberLabels, d.InsuredLabels, d.StartDateLabels,
		d.CoverageLabels, d.PremiumLabels, d.PaymentLabels,
		d.BeneficiaryLabels, d.InterestLabels, d.CurrencyLabels,
		d.ExchangeLabels,
	}
	for _, g := range groups {
		if containsAny(token, g) {
			return true
		}
	}
	return false
}

// HeaderKeywordCount counts distinct header keywords present in s.
func (d *Dictionary) HeaderKeywordCount(s string) int {
	n := 0
	for _, k := range d.HeaderKeywords {
		if strings.Contains(s, k) {
			n++
		}
	}
	return n
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether s contains any of the given keywords.
func ContainsAny(s string, keywords []string) bool {
	return containsAny(s, keywords)
}
