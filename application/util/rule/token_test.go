package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidToken(t *testing.T) {
	testcases := []struct {
		input    string
		expected bool
	}{
		{input: "GET", expected: true},
		{input: "M-SEARCH", expected: true},
		{input: "x~y|z", expected: true},
		{input: "", expected: false},
		{input: "GE T", expected: false},
		{input: "GET/", expected: false},
		{input: "(GET)", expected: false},
		{input: "GËT", expected: false},
	}
	for _, tc := range testcases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidToken(tc.input))
		})
	}
}

func TestIsWhitespace(t *testing.T) {
	for _, c := range Whitespaces {
		assert.True(t, IsWhitespace(c))
	}
	assert.False(t, IsWhitespace(LF))
	assert.False(t, IsWhitespace('a'))
}

func TestIsHex(t *testing.T) {
	for _, c := range "0123456789abcdefABCDEF" {
		assert.True(t, IsHex(c), string(c))
	}
	for _, c := range "gG%/ " {
		assert.False(t, IsHex(c), string(c))
	}
}
