package fileserver

import (
	"fmt"
	"os"

	"static-server/application/http"
	"static-server/application/http/status"

	"rsc.io/markdown"
)

// IOError is a filesystem failure on a path known to exist.
// Path is never exposed to clients.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

func newIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// serveFile responds with the content of the regular file at name.
func serveFile(name string) (*http.Response, error) {
	if Extension(name) == markdownExtension {
		return serveMarkdown(name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, newIOError("open", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, newIOError("stat", name, err)
	}

	res := http.NewResponse(status.OK)
	res.Headers.Set("Content-Type", ContentType(name))
	// The encoder closes the file once the body is written.
	res.SetBody(f, uint(info.Size()))
	return res, nil
}

func serveMarkdown(name string) (*http.Response, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, newIOError("read", name, err)
	}

	res := http.NewResponse(status.OK)
	res.Headers.Set("Content-Type", "text/html")
	res.SetBodyBytes([]byte(RenderMarkdown(string(data))))
	return res, nil
}

// RenderMarkdown renders text into an HTML fragment. Raw HTML passes through.
func RenderMarkdown(text string) string {
	p := &markdown.Parser{
		Strikethrough: true,
		TaskListItems: true,
		AutoLinkText:  true,
		Table:         true,
	}
	return markdown.ToHTML(p.Parse(text))
}
