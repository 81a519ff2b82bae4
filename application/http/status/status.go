package status

import "strconv"

type Status struct {
	Code         uint
	ReasonPhrase string
}

// Successful 2XX
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15.3
var (
	OK = add(Status{200, "OK"})
)

// Redirection 3xx
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15.4
var (
	PermanentRedirect = add(Status{308, "Permanent Redirect"})
)

// Client Error 4xx
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15.5
var (
	BadRequest        = add(Status{400, "Bad Request"})
	Forbidden         = add(Status{403, "Forbidden"})
	NotFound          = add(Status{404, "Not Found"})
	MethodNotAllowed  = add(Status{405, "Method Not Allowed"})
	RequestTimeout    = add(Status{408, "Request Timeout"})
	RequestURITooLong = add(Status{414, "URI Too Long"})

	// Reference: https://datatracker.ietf.org/doc/html/rfc6585#section-5
	RequestHeaderFieldsTooLarge = add(Status{431, "Request Header Fields Too Large"})
)

// Server Error 5xx
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15.6
var (
	InternalServerError = add(Status{500, "Internal Server Error"})
)

var sm = make(map[uint]*Status)

func add(status Status) Status {
	sm[status.Code] = &status
	return status
}

func FromCode(code uint) (status Status, ok bool) {
	s, ok := sm[code]
	if !ok {
		return Status{Code: code, ReasonPhrase: ""}, false
	}

	return *s, true
}

func (s Status) IsClientError() bool { return 400 <= s.Code && s.Code < 500 }
func (s Status) IsServerError() bool { return 500 <= s.Code && s.Code < 600 }

// String returns the code and reason phrase as they appear on a status line.
func (s Status) String() string { return strconv.FormatUint(uint64(s.Code), 10) + " " + s.ReasonPhrase }
