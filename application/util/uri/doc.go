// Package uri parses request targets and escapes them back.
// Only the path, query and fragment components of a URI are handled.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc3986
package uri
