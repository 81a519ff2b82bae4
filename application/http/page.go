package http

import (
	"fmt"
	"html"
	"strings"

	"static-server/application/http/status"
)

// NewPageResponse responds with a minimal HTML page naming st.
// requestPath is echoed back escaped unless it is empty. Nothing else about the failure is exposed.
func NewPageResponse(st status.Status, requestPath string) *Response {
	title := fmt.Sprintf("%d %s", st.Code, st.ReasonPhrase)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n")
	fmt.Fprintf(&b, "<head><title>%s</title></head>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<body>\n<h1>%s</h1>\n", html.EscapeString(title))
	if requestPath != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(requestPath))
	}
	b.WriteString("</body>\n</html>\n")

	res := NewResponse(st)
	res.Headers.Set("Content-Type", "text/html")
	res.SetBodyBytes([]byte(b.String()))
	return res
}
