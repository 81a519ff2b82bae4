package uri

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrContainsCTL = errors.New("URI should not contain CTL bytes")

// URI holds the unescaped components of a request target.
// NOTE: Manually created URI should not have escaped characters.
type URI struct {
	Path     string
	Query    *string
	Fragment *string
}

// String escapes every component back.
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.3
func (u *URI) String() string {
	b := new(strings.Builder)
	b.WriteString(escape(u.Path, encodePath))

	if u.Query != nil {
		b.WriteByte('?')
		b.WriteString(escape(*u.Query, encodeQuery))
	}
	if u.Fragment != nil {
		b.WriteByte('#')
		b.WriteString(escape(*u.Fragment, encodeFragment))
	}

	return b.String()
}

// Parse splits rawURI into path, query and fragment and unescapes each of them.
// A malformed percent encoding yields [ErrBadEscape].
func Parse(rawURI string) (URI, error) {
	if containsCTL(rawURI) {
		return URI{}, ErrContainsCTL
	}

	path, query, frag := splitPathQueryFrag(rawURI)

	var (
		uri URI
		err error
	)

	uri.Path, err = unescape(path)
	if err != nil {
		return URI{}, errors.Wrap(err, "unescaping path")
	}

	if len(query) > 0 {
		// Strip '?' from query.
		query, err = unescape(query[1:])
		if err != nil {
			return URI{}, errors.Wrap(err, "unescaping query")
		}
		uri.Query = &query
	}

	if len(frag) > 0 {
		// Strip '#' from fragment.
		frag, err = unescape(frag[1:])
		if err != nil {
			return URI{}, errors.Wrap(err, "unescaping fragment")
		}
		uri.Fragment = &frag
	}

	return uri, nil
}

func splitPathQueryFrag(raw string) (path, query, frag string) {
	if idx := strings.IndexByte(raw, '#'); idx >= 0 {
		frag = raw[idx:]
		raw = raw[:idx]
	}

	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		query = raw[idx:]
		raw = raw[:idx]
	}

	path = raw
	return
}
