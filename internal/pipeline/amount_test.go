package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
		ok       bool
	}{
		{"currency prefixed", "NT$1,234,567", "1234567", true},
		{"wan unit", "50萬", "500000", true},
		{"plain unit", "3,000元", "3000", true},
		{"no digits", "abc", "", false},
		{"largest wins", "第100頁 保險金額 1,000,000", "1000000", true},
		{"grouped", "2,500,000", "2500000", true},
		{"bare digits", "保額500000", "500000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeAmount(tt.fragment)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAmountPrefersLarger(t *testing.T) {
	got, ok := NormalizeAmount("100 1,000,000")
	assert.True(t, ok)
	assert.Equal(t, "1000000", got)
}
