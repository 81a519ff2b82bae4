package fileserver

import (
	"fmt"
	"html"
	"os"
	"path"
	"path/filepath"
	"strings"

	"static-server/application/http"
	"static-server/application/http/status"
	"static-server/application/util/uri"
	sliceutil "static-server/lib/slice"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

const indexFile = "index.html"

type DirectoryEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// serveDirectory serves the index file of dir if there is one, a listing of dir otherwise.
// requestPath is the decoded path dir was requested with, used to build the links.
func serveDirectory(dir, requestPath string) (*http.Response, error) {
	index := filepath.Join(dir, indexFile)
	info, err := os.Stat(index)
	switch {
	case err == nil && info.Mode().IsRegular():
		return serveFile(index)
	case err != nil && !isNotFound(err):
		return nil, newIOError("stat", index, err)
	}

	entries, err := readDirectory(dir)
	if err != nil {
		return nil, err
	}

	res := http.NewResponse(status.OK)
	res.Headers.Set("Content-Type", "text/html")
	res.SetBodyBytes([]byte(renderListing(requestPath, entries)))
	return res, nil
}

// readDirectory returns the immediate children of dir sorted by name.
func readDirectory(dir string) ([]DirectoryEntry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, newIOError("readdir", dir, err)
	}

	entries := make([]DirectoryEntry, 0, len(des))
	for _, de := range des {
		entry := DirectoryEntry{Name: de.Name(), IsDir: de.IsDir()}
		if !entry.IsDir {
			info, err := de.Info()
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					// Removed while listing.
					continue
				}
				return nil, newIOError("stat", filepath.Join(dir, de.Name()), err)
			}
			entry.Size = info.Size()
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func renderListing(requestPath string, entries []DirectoryEntry) string {
	title := html.EscapeString("Index of " + requestPath)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n")
	fmt.Fprintf(&b, "<head><title>%s</title></head>\n", title)
	fmt.Fprintf(&b, "<body>\n<h1>%s</h1>\n<ul>\n", title)

	items := sliceutil.Map(entries, func(entry DirectoryEntry) string {
		return listItem(requestPath, entry)
	})
	b.WriteString(strings.Join(items, ""))

	b.WriteString("</ul>\n</body>\n</html>\n")
	return b.String()
}

// listItem links entry by the request path joined with its name.
func listItem(requestPath string, entry DirectoryEntry) string {
	label := entry.Name
	target := path.Join(requestPath, entry.Name)
	if entry.IsDir {
		label += "/"
		target += "/"
	}

	href := (&uri.URI{Path: target}).String()
	item := fmt.Sprintf("<li><a href=\"%s\">%s</a>", html.EscapeString(href), html.EscapeString(label))
	if !entry.IsDir {
		item += " " + humanize.Bytes(uint64(entry.Size))
	}
	return item + "</li>\n"
}
