package server

import (
	"context"
	"io"
	"log/slog"
	"time"

	"static-server/application/http"
	"static-server/application/http/status"
	iolib "static-server/lib/io"
	"static-server/transport"

	"github.com/benbjohnson/clock"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// conn serves exactly one request: it buffers bytes until a request is parsed,
// routes it through the handler, writes a single response and closes.
type conn struct {
	con transport.Conn

	handle HandleFunc
	clock  clock.Clock

	logger *slog.Logger

	opts Options
}

func (c *conn) start(ctx context.Context) {
	// Canceling the server tears down the connection whatever it is blocked on.
	stop := context.AfterFunc(ctx, func() { c.con.Close() })
	defer stop()

	defer func() {
		c.logger.Debug("closing connection")
		if err := c.con.Close(); err != nil && !errors.Is(err, transport.ErrConnClosed) {
			c.logger.Error("error when closing connection", "error", err)
		}
	}()

	request, err := c.readRequest()

	var response *http.Response
	switch {
	case err == nil:
		response = c.handleRequest(ctx, request)
	case errors.Is(err, http.ErrNoRequest):
		c.logger.Debug("connection closed before any request")
		return
	case errors.Is(err, transport.ErrConnClosed):
		c.logger.Debug("connection closed while reading request")
		return
	default:
		statusErr := toStatusError(err)
		c.logger.Info("rejecting request", "status", statusErr.Status.Code, "error", err.Error())
		response = http.NewPageResponse(statusErr.Status, "")
	}

	// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-9.3.2
	skipBody := request != nil && request.Method == http.MethodHead

	if err := c.writeResponse(response, skipBody); err != nil {
		if errors.Is(err, transport.ErrConnClosed) {
			c.logger.Debug("connection closed while writing response")
			return
		}
		c.logger.Error("failed to write response", "error", err)
		return
	}

	c.linger()

	if request != nil {
		c.logger.Info("served request",
			"method", request.Method,
			"path", request.Path,
			"status", response.Status.Code,
			"size", bodySize(response),
		)
	}
}

func (c *conn) readRequest() (*http.Request, error) {
	// A single deadline for the whole request, so trickling bytes does not extend it.
	if timeout := c.opts.Timeout.RequestTimeout; timeout > 0 {
		c.con.SetReadDeadLine(c.clock.Now().Add(timeout))
	}

	bufSize := c.opts.ReadBufferSize
	if bufSize == 0 {
		bufSize = DefaultOptions.ReadBufferSize
	}

	parser := http.NewRequestParser(c.opts.Parse)
	buf := make([]byte, bufSize)

	for {
		n, err := c.con.Read(buf)
		if n > 0 {
			request, perr := parser.Feed(buf[:n])
			if perr != nil {
				return nil, errors.Wrap(perr, "parsing request")
			}
			if request != nil {
				return request, nil
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				// The client won't send more. Make do with what arrived.
				return parser.Finish()
			}
			return nil, errors.Wrap(err, "reading request")
		}
	}
}

func (c *conn) handleRequest(ctx context.Context, request *http.Request) *http.Response {
	hctx := NewHandleContext(ctx, c.con.RemoteAddr(), c.logger, request)

	response, err := hctx.doHandle(c.handle)
	if err != nil {
		c.logger.Error("unexpected error while handling request", "error", err)
		return http.NewPageResponse(status.InternalServerError, "")
	}

	return response
}

func (c *conn) writeResponse(response *http.Response, skipBody bool) error {
	if timeout := c.opts.Timeout.WriteTimeout; timeout > 0 {
		c.con.SetWriteDeadLine(c.clock.Now().Add(timeout))
	}

	return http.NewResponseEncoder(c.con).Encode(response, skipBody)
}

const (
	lingerTimeout  = 250 * time.Millisecond
	maxLingerBytes = 256 << 10
)

// linger half-closes the connection and discards what the client still sends for a moment.
// Closing with unread bytes resets the connection, which can destroy the response
// before the client read it.
func (c *conn) linger() {
	hc, ok := c.con.(transport.HalfCloser)
	if !ok {
		return
	}
	if err := hc.CloseWrite(); err != nil {
		return
	}

	c.con.SetReadDeadLine(c.clock.Now().Add(lingerTimeout))
	io.Copy(io.Discard, iolib.LimitReader(c.con, maxLingerBytes))
}

// toStatusError converts error into [status.Error].
// It assumes that error is returned when reading request,
// so if it isn't any specific error, it will return error with [status.BadRequest].
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-9
func toStatusError(err error) status.Error {
	switch {
	case errors.Is(err, transport.ErrDeadLineExceeded):
		return status.NewError(err, status.RequestTimeout)
	case errors.Is(err, http.ErrRequestLineTooLong):
		// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3-4
		return status.NewError(err, status.RequestURITooLong)
	case errors.Is(err, http.ErrHeaderBlockTooLarge):
		return status.NewError(err, status.RequestHeaderFieldsTooLarge)
	}

	return status.NewError(err, status.BadRequest)
}

func bodySize(response *http.Response) string {
	if response.ContentLength == nil {
		return "-"
	}
	return humanize.Bytes(uint64(*response.ContentLength))
}
