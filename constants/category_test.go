package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		input string
		want  PolicyCategory
		ok    bool
	}{
		{"壽險", Life, true},
		{"終身壽險", Life, true},
		{"住院醫療", Medical, true},
		{"傷害保險", Accident, true},
		{"變額年金", Investment, true},
		{"不知道", Uncategorized, false},
		{"", Uncategorized, false},
	}
	for _, tt := range tests {
		got, ok := Canonicalize(tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
	}
}

func TestIsAllowedExt(t *testing.T) {
	assert.True(t, IsAllowedExt(".jpg"))
	assert.True(t, IsAllowedExt(".JPEG"))
	assert.True(t, IsAllowedExt("png"))
	assert.False(t, IsAllowedExt(".pdf"))
	assert.False(t, IsAllowedExt(""))
}
