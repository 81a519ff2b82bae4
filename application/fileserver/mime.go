package fileserver

import (
	"path/filepath"
	"strings"
)

const defaultContentType = "application/octet-stream"

// Markdown files never reach the table. They are rendered into text/html instead.
const markdownExtension = "md"

var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"webp": "image/webp",
	"html": "text/html",
	"htm":  "text/html",
	"css":  "text/css",
	"txt":  "text/plain",
	"js":   "text/javascript",
	"json": "application/json",
	"pdf":  "application/pdf",
	"xml":  "application/xml",
}

// Extension returns the lowercased extension of name without its dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ContentType looks up the content type of name by its extension.
func ContentType(name string) string {
	if ct, ok := mimeTypes[Extension(name)]; ok {
		return ct
	}
	return defaultContentType
}
