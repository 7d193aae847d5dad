package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindCarrier(t *testing.T) {
	d := NewDictionary()

	c, ok := d.FindCarrier("國泰人壽終身壽險保單")
	assert.True(t, ok)
	assert.Equal(t, "國泰人壽", c)

	_, ok = d.FindCarrier("某某銀行對帳單")
	assert.False(t, ok)
}

func TestFindAbbreviationNeedsSuffix(t *testing.T) {
	d := NewDictionary()

	// Abbreviation alone is too ambiguous ("國泰" is also a bank).
	_, ok := d.FindAbbreviation("國泰世華銀行")
	assert.False(t, ok)

	a, ok := d.FindAbbreviation("國泰 人壽保險")
	assert.True(t, ok)
	assert.Equal(t, "國泰", a)
}

func TestHasVocabulary(t *testing.T) {
	d := NewDictionary()

	assert.True(t, d.HasVocabulary("保單號碼：A123"))
	assert.True(t, d.HasVocabulary("富邦人壽"))
	assert.False(t, d.HasVocabulary("今天天氣很好"))
}

func TestHeaderKeywordCount(t *testing.T) {
	d := NewDictionary()

	assert.Equal(t, 3, d.HeaderKeywordCount("保單號碼 被保險人 保險金額"))
	assert.Equal(t, 0, d.HeaderKeywordCount("普通文字"))
}

func TestIsLabelWord(t *testing.T) {
	d := NewDictionary()

	assert.True(t, d.IsLabelWord("被保險人"))
	assert.False(t, d.IsLabelWord("王小明"))
}
