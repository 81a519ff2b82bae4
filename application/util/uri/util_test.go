package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsCTL(t *testing.T) {
	assert.False(t, containsCTL("/docs/my notes.txt"))
	assert.True(t, containsCTL("/docs/\x00"))
	assert.True(t, containsCTL("/docs/\t"))
	assert.True(t, containsCTL("/docs/\x7f"))
}

func TestIsPercentEncoded(t *testing.T) {
	testcases := []struct {
		input    string
		expected bool
	}{
		{"%20", true},
		{"%aF", true},
		{"%2", false},
		{"%2G", false},
		{"a20", false},
		{"%200", false},
	}
	for _, tc := range testcases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, isPercentEncoded(tc.input))
		})
	}
}
