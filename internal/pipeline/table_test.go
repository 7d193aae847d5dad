package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRowMajorHeader(t *testing.T) {
	d := NewTableDetector(nil, nil)

	lines := []string{
		"保險公司 保單號碼 被保險人 保險金額",
		"國泰人壽 A123456789 王小明 1,000,000",
	}
	verdict := d.Detect(lines)

	require.True(t, verdict.Tabular)
	assert.Equal(t, OrientationRowMajor, verdict.Orientation)
	assert.Equal(t, 0, verdict.HeaderIndex)
}

func TestDetectNotTabular(t *testing.T) {
	d := NewTableDetector(nil, nil)

	lines := []string{
		"保險公司資料",
		"這是一份普通文件",
	}
	verdict := d.Detect(lines)

	assert.False(t, verdict.Tabular)
	assert.Equal(t, -1, verdict.HeaderIndex)
}

func TestDetectRowMajorByCarrierRows(t *testing.T) {
	d := NewTableDetector(nil, nil)

	// Header carries only two keywords, so rule (a) cannot fire; the
	// carrier mentions in the following lines decide.
	lines := []string{
		"保險公司 保單號碼 要保人",
		"國泰 第一張",
		"富邦 第二張",
	}
	verdict := d.Detect(lines)

	require.True(t, verdict.Tabular)
	assert.Equal(t, OrientationRowMajor, verdict.Orientation)
}

func TestParseHeaderFieldOrder(t *testing.T) {
	e := NewTableExtractor(nil, nil)

	fields := e.ParseHeader("保險公司 保單號碼 被保險人 投保日 保險金額")

	require.Len(t, fields, 5)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"carrier", "policy_number", "insured", "start_date", "coverage_amount"}, names)
	// Offsets are rune positions and must be ascending.
	for i := 1; i < len(fields); i++ {
		assert.Greater(t, fields[i].Offset, fields[i-1].Offset)
	}
}

func TestExtractRowsSkipsNoiseRows(t *testing.T) {
	e := NewTableExtractor(nil, nil)

	lines := []string{
		"保險公司 保單號碼 被保險人 投保日 保險金額",
		"國泰人壽 A123456789 王小明 2024/01/01 1,000,000",
		"富邦人壽 B234567890 李大華 2023/05/10 2,000,000",
		"南山人壽 C345678901 陳美麗 2022/12/31 1,500,000",
		"合計 4,500,000",
	}
	records := e.ExtractRows(lines, 0)

	require.Len(t, records, 3)
	for _, rec := range records {
		assert.NotEmpty(t, rec.Carrier)
		assert.NotEmpty(t, rec.PolicyNumber)
	}
	assert.Equal(t, "國泰人壽", records[0].Carrier)
	assert.Equal(t, "A123456789", records[0].PolicyNumber)
	assert.Equal(t, "王小明", records[0].Insured)
	assert.Equal(t, "2024/01/01", records[0].StartDate)
	assert.Equal(t, "1000000", records[0].CoverageAmount)
}

func TestExtractRowsAmountThreshold(t *testing.T) {
	e := NewTableExtractor(nil, nil)

	// First large amount is coverage, the second smaller one is premium.
	lines := []string{
		"保險公司 保單號碼 保險金額 保費",
		"全球人壽 D456789012 2,000,000 36,000",
	}
	records := e.ExtractRows(lines, 0)

	require.Len(t, records, 1)
	assert.Equal(t, "2000000", records[0].CoverageAmount)
	assert.Equal(t, "36000", records[0].AnnualPremium)
}

func TestTokenizeRowCascade(t *testing.T) {
	assert.Equal(t,
		[]string{"國泰人壽", "A123456789"},
		tokenizeRow("國泰人壽\tA123456789"))

	assert.Equal(t,
		[]string{"國泰人壽", "終身 壽險"},
		tokenizeRow("國泰人壽   終身 壽險"))

	assert.Equal(t,
		[]string{"國泰人壽", "A123456789", "王小明"},
		tokenizeRow("國泰人壽 A123456789 王小明"))
}

func TestExtractorFallsBackToSingleRecord(t *testing.T) {
	e := NewExtractor(nil, nil, nil)

	records, tabular := e.ExtractLines([]string{
		"國泰人壽終身壽險 被保險人：王小明 保險金額：1,000,000元",
	})

	assert.False(t, tabular)
	require.Len(t, records, 1)
	assert.Equal(t, "國泰人壽", records[0].Carrier)
}

func TestExtractorTableMode(t *testing.T) {
	e := NewExtractor(nil, nil, nil)

	records, tabular := e.ExtractLines([]string{
		"保險公司 保單號碼 被保險人 保險金額",
		"國泰人壽 A123456789 王小明 1,000,000",
		"富邦人壽 B234567890 李大華 2,000,000",
	})

	assert.True(t, tabular)
	assert.Len(t, records, 2)
}
