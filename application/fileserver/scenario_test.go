package fileserver

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"static-server/application/http/server"
	"static-server/config"
	"static-server/transport/pipe"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

// ScenarioTestSuite serves a fixture tree through a real server over the pipe transport.
type ScenarioTestSuite struct {
	suite.Suite

	transport *pipe.PipeTransport
	addr      pipe.Addr
	server    *server.Server
}

func TestScenarioTestSuite(t *testing.T) {
	suite.Run(t, new(ScenarioTestSuite))
}

func (s *ScenarioTestSuite) SetupTest() {
	parent := s.T().TempDir()
	writeTree(s.T(), parent, map[string]string{
		"secret.txt":               "top secret",
		"public/about.html":        "<h1>About</h1>",
		"public/notes.md":          "# Hi",
		"public/docs/a.txt":        "a",
		"public/docs/b.txt":        "b",
		"public/docs/my notes.txt": "spaced",
	})

	fs, err := New(config.ServerConfig{
		RootDirectory: filepath.Join(parent, "public"),
		RedirectMap:   map[string]string{"/old": "/new"},
	})
	s.Require().NoError(err)

	clk := clock.NewMock()
	s.transport = pipe.NewPipeTransport(clk)
	s.addr = pipe.Addr{Name: "static-server"}

	lis, err := s.transport.Listen(s.addr)
	s.Require().NoError(err)

	opts := server.DefaultOptions
	opts.Timeout.WriteTimeout = 0

	s.server = server.New(lis, slog.New(slog.DiscardHandler), clk, fs.Handle, opts)
	s.server.Start()
}

func (s *ScenarioTestSuite) TearDownTest() {
	defer goleak.VerifyNone(s.T())
	s.NoError(s.server.Close())
}

type rawResponse struct {
	statusLine string
	headers    []string
	body       string
}

func (r rawResponse) header(name string) string {
	prefix := strings.ToLower(name) + ": "
	for _, h := range r.headers {
		if strings.HasPrefix(strings.ToLower(h), prefix) {
			return h[len(prefix):]
		}
	}
	return ""
}

func (s *ScenarioTestSuite) get(request string) rawResponse {
	raw := s.do(request)

	head, body, found := strings.Cut(raw, "\r\n\r\n")
	s.Require().True(found, "no header block in %q", raw)

	lines := strings.Split(head, "\r\n")
	return rawResponse{statusLine: lines[0], headers: lines[1:], body: body}
}

func (s *ScenarioTestSuite) do(request string) string {
	conn, err := s.transport.Dial(context.Background(), s.addr)
	s.Require().NoError(err)
	defer conn.Close()

	var wg sync.WaitGroup
	defer wg.Wait()

	wg.Add(1)
	go func() {
		defer wg.Done()
		conn.Write([]byte(request))
	}()

	b, err := io.ReadAll(conn)
	s.Require().NoError(err)
	return string(b)
}

func (s *ScenarioTestSuite) TestServeFile() {
	res := s.get("GET /about.html HTTP/1.1\r\nHost: localhost\r\n\r\n")

	s.Equal("HTTP/1.1 200 OK", res.statusLine)
	s.Equal("text/html", res.header("Content-Type"))
	s.Equal("14", res.header("Content-Length"))
	s.Equal("close", res.header("Connection"))
	s.Equal("<h1>About</h1>", res.body)
}

func (s *ScenarioTestSuite) TestRedirect() {
	res := s.get("GET /old HTTP/1.1\r\n\r\n")

	s.Equal("HTTP/1.1 308 Permanent Redirect", res.statusLine)
	s.Equal("/new", res.header("Location"))
}

func (s *ScenarioTestSuite) TestPathEscape() {
	res := s.get("GET /../secret.txt HTTP/1.1\r\n\r\n")

	s.Equal("HTTP/1.1 403 Forbidden", res.statusLine)
	s.NotContains(res.body, "top secret")
}

func (s *ScenarioTestSuite) TestDirectoryListing() {
	res := s.get("GET /docs/ HTTP/1.1\r\n\r\n")

	s.Equal("HTTP/1.1 200 OK", res.statusLine)
	s.Contains(res.body, `href="/docs/a.txt"`)
	s.Contains(res.body, `href="/docs/b.txt"`)
}

func (s *ScenarioTestSuite) TestEscapedPath() {
	listing := s.get("GET /docs/ HTTP/1.1\r\n\r\n")
	s.Contains(listing.body, `href="/docs/my%20notes.txt"`)

	res := s.get("GET /docs/my%20notes.txt HTTP/1.1\r\n\r\n")
	s.Equal("HTTP/1.1 200 OK", res.statusLine)
	s.Equal("spaced", res.body)

	res = s.get("GET /docs/my%2 HTTP/1.1\r\n\r\n")
	s.Equal("HTTP/1.1 400 Bad Request", res.statusLine)

	res = s.get("GET /%2e%2e/secret.txt HTTP/1.1\r\n\r\n")
	s.Equal("HTTP/1.1 403 Forbidden", res.statusLine)
	s.NotContains(res.body, "top secret")
}

func (s *ScenarioTestSuite) TestMarkdown() {
	res := s.get("GET /notes.md HTTP/1.1\r\n\r\n")

	s.Equal("HTTP/1.1 200 OK", res.statusLine)
	s.Equal("text/html", res.header("Content-Type"))
	s.Contains(res.body, "<h1>Hi</h1>")
}

func (s *ScenarioTestSuite) TestNotFound() {
	res := s.get("GET /missing.png HTTP/1.1\r\n\r\n")

	s.Equal("HTTP/1.1 404 Not Found", res.statusLine)
	s.Equal("text/html", res.header("Content-Type"))
	s.Contains(res.body, "/missing.png")
}

func (s *ScenarioTestSuite) TestHead() {
	res := s.get("HEAD /about.html HTTP/1.1\r\n\r\n")

	s.Equal("HTTP/1.1 200 OK", res.statusLine)
	s.Equal("14", res.header("Content-Length"))
	s.Empty(res.body)
}

func (s *ScenarioTestSuite) TestMethodNotAllowed() {
	res := s.get("DELETE /about.html HTTP/1.1\r\n\r\n")

	s.Equal("HTTP/1.1 405 Method Not Allowed", res.statusLine)
	s.Equal("GET, HEAD", res.header("Allow"))
}

func (s *ScenarioTestSuite) TestRedirectBeforeMethodCheck() {
	res := s.get("POST /old HTTP/1.1\r\n\r\n")

	s.Equal("HTTP/1.1 308 Permanent Redirect", res.statusLine)
	s.Equal("/new", res.header("Location"))
}

func (s *ScenarioTestSuite) TestMalformed() {
	res := s.get("nonsense\r\n\r\n")
	s.Equal("HTTP/1.1 400 Bad Request", res.statusLine)
}

func (s *ScenarioTestSuite) TestIdempotent() {
	for _, request := range []string{
		"GET /about.html HTTP/1.1\r\n\r\n",
		"GET /docs/ HTTP/1.1\r\n\r\n",
		"GET /notes.md HTTP/1.1\r\n\r\n",
		"GET /missing HTTP/1.1\r\n\r\n",
	} {
		s.Equal(s.do(request), s.do(request), request)
	}
}

func (s *ScenarioTestSuite) TestConcurrentClients() {
	var wg sync.WaitGroup
	defer wg.Wait()

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := s.do("GET /about.html HTTP/1.1\r\n\r\n")
			s.True(strings.HasSuffix(got, "\r\n\r\n<h1>About</h1>"), got)
		}()
	}
}
