package http

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"static-server/application/http/status"

	"github.com/pkg/errors"
)

const (
	MethodGet  = "GET"
	MethodHead = "HEAD"
)

// [Major, Minor]
type Version [2]uint

var Version11 = Version{1, 1}

// ParseVersion parses http version text(e.g. "HTTP/1.1") into [Version].
func ParseVersion(b []byte) (Version, error) {
	prefix := []byte("HTTP/")
	if !bytes.HasPrefix(b, prefix) {
		return Version{}, errors.Errorf("http version prefix not found: %s", b)
	}

	// Get major and minor version.
	first, second, found := bytes.Cut(b[len(prefix):], []byte{'.'})
	if !found {
		return Version{}, errors.Errorf("dot separator not found on version: %s", b)
	}

	major, err1 := strconv.ParseUint(string(first), 10, 64)
	minor, err2 := strconv.ParseUint(string(second), 10, 64)
	if err1 != nil || err2 != nil {
		return Version{}, errors.Errorf("http version is not convertible to int: %s", b)
	}

	return Version{uint(major), uint(minor)}, nil
}

func (ver Version) Text() []byte {
	buf := bytes.NewBuffer(nil)
	buf.Write([]byte("HTTP/"))
	buf.Write([]byte(strconv.FormatUint(uint64(ver[0]), 10)))
	buf.Write([]byte{'.'})
	buf.Write([]byte(strconv.FormatUint(uint64(ver[1]), 10)))
	return buf.Bytes()
}

func (ver Version) String() string { return string(ver.Text()) }

type Field struct{ Name, Value string }

// Headers is an ordered list of fields.
// Names are matched case-insensitively and keep the case they were last set with.
type Headers struct{ fields []Field }

func NewHeaders(fields ...Field) Headers {
	var h Headers
	for _, f := range fields {
		h.Set(f.Name, f.Value)
	}
	return h
}

// Set overwrites the field in place if it exists, otherwise appends it.
func (h *Headers) Set(name, value string) {
	for i, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			h.fields[i] = Field{Name: name, Value: value}
			return
		}
	}
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

func (h *Headers) Get(name string) (value string, ok bool) {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

func (h *Headers) Fields() []Field {
	out := make([]Field, len(h.fields))
	copy(out, h.fields)
	return out
}

type Request struct {
	Method string
	Path   string
	// Zero when the request line carries no version.
	Version Version
}

type Response struct {
	Status  status.Status
	Headers Headers

	// nil means no body.
	Body io.ReadCloser
	// nil means the body is delimited by closing the connection.
	ContentLength *uint
}

func NewResponse(st status.Status) *Response {
	return &Response{Status: st}
}

func (r *Response) SetBody(body io.ReadCloser, length uint) {
	r.Body = body
	r.ContentLength = &length
}

func (r *Response) SetBodyBytes(b []byte) {
	r.SetBody(io.NopCloser(bytes.NewReader(b)), uint(len(b)))
}

const DefaultContentType = "text/html"

// EnsureHeadersSet fills in the headers every response carries on the wire.
func (r *Response) EnsureHeadersSet() {
	if _, ok := r.Headers.Get("Content-Type"); !ok {
		r.Headers.Set("Content-Type", DefaultContentType)
	}

	switch {
	case r.ContentLength != nil:
		r.Headers.Set("Content-Length", strconv.FormatUint(uint64(*r.ContentLength), 10))
	case r.Body == nil:
		r.Headers.Set("Content-Length", "0")
	}

	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-9.6
	r.Headers.Set("Connection", "close")
}
