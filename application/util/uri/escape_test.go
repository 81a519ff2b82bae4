package uri

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHex(t *testing.T) {
	assert.Equal(t, [2]byte{'F', 'F'}, hex(0xFF))
	assert.Equal(t, [2]byte{'2', '0'}, hex(' '))
}

func TestUnhex(t *testing.T) {
	assert.Equal(t, byte(0xFF), unhex([2]byte{'F', 'F'}))
	assert.Equal(t, byte(0xFF), unhex([2]byte{'f', 'f'}))
	assert.Equal(t, byte('.'), unhex([2]byte{'2', 'e'}))
}

func TestShouldEscape(t *testing.T) {
	testcases := []struct {
		input    byte
		mode     encodeMode
		expected bool
	}{
		// unreserved
		{input: 'a', mode: encodePath, expected: false},
		{input: '~', mode: encodePath, expected: false},
		{input: ' ', mode: encodePath, expected: true},
		{input: '%', mode: encodePath, expected: true},
		{input: 0xED, mode: encodePath, expected: true},

		{input: ';', mode: encodePath, expected: false}, // subdelim
		{input: ':', mode: encodePath, expected: false},
		{input: '@', mode: encodePath, expected: false},
		{input: '/', mode: encodePath, expected: false},
		{input: '?', mode: encodePath, expected: true},
		{input: '#', mode: encodePath, expected: true},

		{input: '/', mode: encodeQuery, expected: false},
		{input: '?', mode: encodeQuery, expected: false},
		{input: '#', mode: encodeQuery, expected: true},

		{input: '?', mode: encodeFragment, expected: false},
		{input: '#', mode: encodeFragment, expected: true},
	}
	for _, tc := range testcases {
		t.Run(fmt.Sprintf("%d %c", tc.mode, tc.input), func(t *testing.T) {
			assert.Equal(t, tc.expected, shouldEscape(tc.input, tc.mode))
		})
	}
}

func TestEscape(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		mode     encodeMode
		expected string
	}{
		{
			desc:     "path",
			input:    "/path/to/#1",
			mode:     encodePath,
			expected: "/path/to/%231",
		},
		{
			desc:     "path with space and percent",
			input:    "/docs/my notes 100%.txt",
			mode:     encodePath,
			expected: "/docs/my%20notes%20100%25.txt",
		},
		{
			desc:     "path with query delimiter",
			input:    "/a?b.txt",
			mode:     encodePath,
			expected: "/a%3Fb.txt",
		},
		{
			desc:     "non-ascii path",
			input:    "/한글.txt",
			mode:     encodePath,
			expected: "/%ED%95%9C%EA%B8%80.txt",
		},
		{
			desc:     "query",
			input:    "thisis[query]",
			mode:     encodeQuery,
			expected: "thisis%5Bquery%5D",
		},
		{
			desc:     "fragment",
			input:    "thisis[fragment]",
			mode:     encodeFragment,
			expected: "thisis%5Bfragment%5D",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, escape(tc.input, tc.mode))
		})
	}
}

func TestUnescape(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			desc:     "nothing escaped",
			input:    "/docs/a.txt",
			expected: "/docs/a.txt",
		},
		{
			desc:     "normal escaped",
			input:    "hey %5Bthere%5D",
			expected: "hey [there]",
		},
		{
			desc:     "normal escaped (lowercase)",
			input:    "hey %5bthere%5d",
			expected: "hey [there]",
		},
		{
			desc:     "escaped percent is not unescaped twice",
			input:    "/100%2541.txt",
			expected: "/100%41.txt",
		},
		{
			desc:     "dot segments",
			input:    "/%2e%2E/secret.txt",
			expected: "/../secret.txt",
		},
		{
			desc:    "malformed (not enough length)",
			input:   "hey %5bthere%5",
			wantErr: true,
		},
		{
			desc:    "malformed (trailing percent)",
			input:   "/a%",
			wantErr: true,
		},
		{
			desc:    "malformed (non-hex)",
			input:   "hey %5bthere%5Z",
			wantErr: true,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			s, err := unescape(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBadEscape)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.expected, s)
		})
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, input := range []string{
		"/my notes.txt",
		"/100%.txt",
		"/a?b#c.txt",
		"/한글/",
		"/semi;colon@x:y",
	} {
		t.Run(input, func(t *testing.T) {
			got, err := unescape(escape(input, encodePath))
			assert.NoError(t, err)
			assert.Equal(t, input, got)
		})
	}
}
