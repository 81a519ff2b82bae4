// Package http implements the reduced HTTP/1.1 wire format the server speaks:
// a request line (and an ignored header block) in, one response out.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package http
