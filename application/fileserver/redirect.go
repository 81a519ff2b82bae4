package fileserver

import (
	"fmt"
	"html"
	"strings"

	"static-server/application/http"
	"static-server/application/http/status"
)

// Redirects maps exact request paths to the location they moved to.
type Redirects map[string]string

// Lookup matches rawPath as is. No normalization takes place.
func (r Redirects) Lookup(rawPath string) (target string, ok bool) {
	target, ok = r[rawPath]
	return target, ok
}

// NewRedirectResponse responds with 308 pointing at target.
func NewRedirectResponse(target string) *http.Response {
	st := status.PermanentRedirect
	title := html.EscapeString(fmt.Sprintf("%d %s", st.Code, st.ReasonPhrase))
	escaped := html.EscapeString(target)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n")
	fmt.Fprintf(&b, "<head><title>%s</title></head>\n", title)
	fmt.Fprintf(&b, "<body>\n<h1>%s</h1>\n", title)
	fmt.Fprintf(&b, "<p><a href=\"%s\">%s</a></p>\n", escaped, escaped)
	b.WriteString("</body>\n</html>\n")

	res := http.NewResponse(st)
	res.Headers.Set("Location", target)
	res.Headers.Set("Content-Type", "text/html")
	res.SetBodyBytes([]byte(b.String()))
	return res
}
