// Package fileserver serves files below a root directory.
//
// Requests are routed in a fixed order: redirect table, method check, path decoding,
// path guard, then the resolved path decides between a directory listing and file content.
package fileserver

import (
	"io/fs"
	"os"
	"syscall"

	"static-server/application/http"
	"static-server/application/http/server"
	"static-server/application/http/status"
	"static-server/application/util/uri"
	"static-server/config"

	"github.com/pkg/errors"
)

type FileServer struct {
	guard     *Guard
	redirects Redirects
}

func New(cfg config.ServerConfig) (*FileServer, error) {
	guard, err := NewGuard(cfg.RootDirectory)
	if err != nil {
		return nil, err
	}

	return &FileServer{
		guard:     guard,
		redirects: Redirects(cfg.RedirectMap),
	}, nil
}

var _ server.HandleFunc = (*FileServer)(nil).Handle

// Handle is a [server.HandleFunc] answering every request from the filesystem.
func (fsrv *FileServer) Handle(c *server.HandleContext, request *http.Request) *http.Response {
	// Redirects answer any method.
	if target, ok := fsrv.redirects.Lookup(request.Path); ok {
		c.Logger().Debug("redirecting", "path", request.Path, "location", target)
		return NewRedirectResponse(target)
	}

	if request.Method != http.MethodGet && request.Method != http.MethodHead {
		res := c.Error(status.NewError(
			errors.Errorf("method %q is not allowed", request.Method),
			status.MethodNotAllowed,
		))
		res.Headers.Set("Allow", http.MethodGet+", "+http.MethodHead)
		return res
	}

	res, err := fsrv.serve(request.Path)
	if err != nil {
		return c.Error(err)
	}
	return res
}

func (fsrv *FileServer) serve(rawPath string) (*http.Response, error) {
	// The query is parsed only to be dropped.
	target, err := uri.Parse(rawPath)
	if err != nil {
		return nil, status.NewError(errors.Wrap(err, "decoding request path"), status.BadRequest)
	}
	requestPath := target.Path

	name, err := fsrv.guard.Resolve(requestPath)
	if err != nil {
		if errors.Is(err, ErrPathEscape) {
			return nil, status.NewError(err, status.Forbidden)
		}
		return nil, status.NewError(err, status.BadRequest)
	}

	info, err := os.Stat(name)
	if err != nil {
		if isNotFound(err) {
			return nil, status.NewError(err, status.NotFound)
		}
		return nil, newIOError("stat", name, err)
	}

	switch {
	case info.IsDir():
		return serveDirectory(name, requestPath)
	case info.Mode().IsRegular():
		return serveFile(name)
	}

	// Devices, sockets and pipes are not served.
	return nil, status.NewError(errors.Errorf("not a regular file: %s", info.Mode().Type()), status.NotFound)
}

// isNotFound also covers a path running through a regular file, like "/about.html/x".
func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
