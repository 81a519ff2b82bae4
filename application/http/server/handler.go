package server

import (
	"context"
	"log/slog"
	"net"

	"static-server/application/http"
	"static-server/application/http/status"

	"github.com/pkg/errors"
)

type HandleFunc func(c *HandleContext, request *http.Request) *http.Response

type HandleContext struct {
	ctx context.Context

	remoteAddr net.Addr
	logger     *slog.Logger

	request *http.Request
}

func NewHandleContext(ctx context.Context, remoteAddr net.Addr, logger *slog.Logger, request *http.Request) *HandleContext {
	return &HandleContext{
		ctx:        ctx,
		remoteAddr: remoteAddr,
		logger:     logger,
		request:    request,
	}
}

func (c *HandleContext) doHandle(handle HandleFunc) (res *http.Response, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("handler panicked: %v", e)
		}
	}()

	response := handle(c, c.request)
	if response == nil {
		return nil, errors.New("nil response is forbidden")
	}

	return response, nil
}

func (c *HandleContext) Context() context.Context { return c.ctx }
func (c *HandleContext) RemoteAddr() net.Addr     { return c.remoteAddr }
func (c *HandleContext) Logger() *slog.Logger     { return c.logger }

// Error converts err into an error page.
// A [status.Error] decides the status, anything else is answered with 500.
// Server errors are logged since their cause never reaches the client.
func (c *HandleContext) Error(err error) *http.Response {
	st := status.InternalServerError
	if statusErr := new(status.Error); errors.As(err, statusErr) {
		st = statusErr.Status
	}

	if st.IsServerError() {
		c.logger.Error("failed to handle request", "path", c.request.Path, "error", err)
		return http.NewPageResponse(st, "")
	}

	return http.NewPageResponse(st, c.request.Path)
}
