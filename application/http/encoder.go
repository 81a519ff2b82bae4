package http

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"static-server/application/util/rule"
	iolib "static-server/lib/io"

	"github.com/pkg/errors"
)

var ErrShortBody = errors.New("body is shorter than its content length")

type ResponseEncoder struct {
	bw *bufio.Writer
}

func NewResponseEncoder(w io.Writer) *ResponseEncoder {
	return &ResponseEncoder{bw: bufio.NewWriter(w)}
}

// Encode writes response on the underlying writer, followed by its body unless skipBody is set.
// The body is closed in any case.
func (re *ResponseEncoder) Encode(response *Response, skipBody bool) error {
	if response.Body != nil {
		defer response.Body.Close()
	}

	response.EnsureHeadersSet()

	if err := re.encodeStatusLine(Version11, response.Status.Code, response.Status.ReasonPhrase); err != nil {
		return errors.Wrap(err, "encoding status line")
	}

	if err := re.encodeHeaders(response.Headers.Fields()); err != nil {
		return errors.Wrap(err, "encoding headers")
	}

	if !skipBody && response.Body != nil {
		if err := re.encodeBody(response.Body, response.ContentLength); err != nil {
			return errors.Wrap(err, "writing response body")
		}
	}

	// Blocks until the transport took every byte.
	if err := re.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing response")
	}

	return nil
}

func (re *ResponseEncoder) encodeBody(body io.Reader, length *uint) error {
	if length == nil {
		_, err := re.bw.ReadFrom(body)
		return err
	}

	lr := iolib.LimitReader(body, *length)
	if _, err := re.bw.ReadFrom(lr); err != nil {
		return err
	}
	if !lr.Exhausted() {
		return ErrShortBody
	}

	return nil
}

func (re *ResponseEncoder) writeLine(line []byte) error {
	if _, err := re.bw.Write(line); err != nil {
		return errors.Wrap(err, "writing line")
	}

	if _, err := re.bw.Write(rule.CRLF); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}

	return nil
}

func (re *ResponseEncoder) encodeStatusLine(ver Version, code uint, reason string) error {
	buf := bytes.NewBuffer(nil)

	buf.Write(ver.Text())
	buf.WriteByte(rule.SP)
	buf.WriteString(strconv.FormatUint(uint64(code), 10))
	buf.WriteByte(rule.SP)
	buf.WriteString(reason)

	return re.writeLine(buf.Bytes())
}

func (re *ResponseEncoder) encodeHeaders(fields []Field) error {
	for _, field := range fields {
		if err := re.writeLine([]byte(field.Name + ": " + field.Value)); err != nil {
			return errors.Wrap(err, "writing field")
		}
	}

	// Write a empty line as all the headers are written.
	if err := re.writeLine(nil); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}

	return nil
}
