package fileserver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrPathEscape  = errors.New("path escapes root directory")
	ErrInvalidPath = errors.New("invalid request path")
)

// Guard maps request paths onto the filesystem below a root directory.
// It never touches the filesystem itself, so symbolic links below the root are followed
// by whoever opens the resolved path.
type Guard struct {
	root string
}

func NewGuard(root string) (*Guard, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving root %q", root)
	}
	return &Guard{root: filepath.Clean(abs)}, nil
}

func (g *Guard) Root() string { return g.root }

// Resolve joins requestPath onto the root and normalizes the result lexically.
// The result is either the root itself or a path below it.
func (g *Guard) Resolve(requestPath string) (string, error) {
	if !strings.HasPrefix(requestPath, "/") {
		return "", errors.Wrapf(ErrInvalidPath, "path must be absolute: %q", requestPath)
	}
	if strings.IndexByte(requestPath, 0) >= 0 {
		return "", errors.Wrap(ErrInvalidPath, "path contains NUL byte")
	}

	// Join cleans the result, collapsing repeated slashes and resolving dot segments.
	resolved := filepath.Join(g.root, filepath.FromSlash(requestPath))

	prefix := g.root
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}

	if resolved != g.root && !strings.HasPrefix(resolved, prefix) {
		return "", errors.Wrapf(ErrPathEscape, "%q", requestPath)
	}

	return resolved, nil
}
