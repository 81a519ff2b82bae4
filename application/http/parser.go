package http

import (
	"bytes"
	"unicode/utf8"

	"static-server/application/util/rule"

	"github.com/pkg/errors"
)

var (
	ErrIncomplete          = errors.New("request is incomplete")
	ErrMalformedRequest    = errors.New("request line is malformed")
	ErrRequestLineTooLong  = errors.New("request line length exceeds limit")
	ErrHeaderBlockTooLarge = errors.New("header block size exceeds limit")
	ErrNoRequest           = errors.New("no request was received")
)

// ParseRequest parses the bytes received on a connection so far.
// It returns [ErrIncomplete] until a complete request has been buffered,
// so it can be called again every time more bytes arrive.
//
// A request line carrying a version is complete once the empty line ending its
// header block arrived. A request line without one is complete at its own end.
// Header fields are not interpreted.
func ParseRequest(buf []byte) (Request, error) {
	return parseRequest(buf, false)
}

func parseRequest(buf []byte, atEOF bool) (Request, error) {
	line, rest, found := requestLine(buf)
	if !found {
		if !atEOF {
			return Request{}, ErrIncomplete
		}
		// Nothing more will arrive. Take what we have as the request line.
		line = bytes.TrimSuffix(line, []byte{rule.CR})
	}

	if len(line) == 0 {
		return Request{}, ErrNoRequest
	}

	req, hasVersion, err := parseRequestLine(line)
	if err != nil {
		return Request{}, err
	}

	if hasVersion && !atEOF && !headerBlockEnded(rest) {
		return Request{}, ErrIncomplete
	}

	return req, nil
}

func parseRequestLine(line []byte) (req Request, hasVersion bool, err error) {
	// Be lenient about whitespace between the tokens.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3-3
	parts := bytes.FieldsFunc(line, isWhitespace)
	if len(parts) < 2 {
		return Request{}, false, errors.Wrapf(ErrMalformedRequest, "expected method and target: %q", line)
	}

	method := string(parts[0])
	if !rule.IsValidToken(method) {
		return Request{}, false, errors.Wrapf(ErrMalformedRequest, "method is not a valid token: %q", method)
	}

	req = Request{Method: method, Path: string(parts[1])}

	if len(parts) > 2 {
		// Only decides how the message is framed. An unknown version is not an error here.
		req.Version, _ = ParseVersion(parts[len(parts)-1])
		hasVersion = true
	}

	return req, hasVersion, nil
}

func isWhitespace(r rune) bool {
	return r < utf8.RuneSelf && rule.IsWhitespace(byte(r))
}

// requestLine returns the first non-empty line of buf.
// If the line is not terminated yet, found is false and line holds the partial line.
func requestLine(buf []byte) (line, rest []byte, found bool) {
	rest = buf
	for {
		line, rest, found = cutLine(rest)
		// An empty line can be received before message.
		// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-6
		if !found || len(line) > 0 {
			return line, rest, found
		}
	}
}

func headerBlockEnded(b []byte) bool {
	for {
		line, rest, found := cutLine(b)
		if !found {
			return false
		}
		if len(line) == 0 {
			return true
		}
		b = rest
	}
}

// cutLine cuts b around the first LF and drops a CR right before it.
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-3
func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte{rule.LF})
	if !found {
		return b, nil, false
	}
	return bytes.TrimSuffix(line, []byte{rule.CR}), rest, true
}

type ParseOptions struct {
	// MaxSize limits the bytes buffered while waiting for a complete request.
	// Zero means no limit.
	MaxSize uint
}

var DefaultParseOptions = ParseOptions{
	MaxSize: 8192,
}

// RequestParser accumulates the bytes of one connection until they hold a request.
type RequestParser struct {
	buf  []byte
	opts ParseOptions
}

func NewRequestParser(opts ParseOptions) *RequestParser {
	return &RequestParser{opts: opts}
}

// Feed appends chunk to the buffered bytes and tries to parse them.
// It returns (nil, nil) while more bytes are needed.
func (p *RequestParser) Feed(chunk []byte) (*Request, error) {
	p.buf = append(p.buf, chunk...)

	req, err := ParseRequest(p.buf)
	if err == nil {
		return &req, nil
	}
	if !errors.Is(err, ErrIncomplete) {
		return nil, err
	}

	if limit := p.opts.MaxSize; limit > 0 && uint(len(p.buf)) > limit {
		if _, _, found := requestLine(p.buf); !found {
			return nil, ErrRequestLineTooLong
		}
		return nil, ErrHeaderBlockTooLarge
	}

	return nil, nil
}

// Finish parses the buffered bytes knowing no more will arrive.
// An unterminated request line or header block is accepted as is.
func (p *RequestParser) Finish() (*Request, error) {
	req, err := parseRequest(p.buf, true)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Buffered returns the number of bytes received so far.
func (p *RequestParser) Buffered() int { return len(p.buf) }
