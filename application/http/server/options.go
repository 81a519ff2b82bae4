package server

import (
	"time"

	"static-server/application/http"
)

type Options struct {
	Parse   http.ParseOptions
	Timeout TimeoutOptions

	// ReadBufferSize is the size of a single read from the connection.
	ReadBufferSize uint
}

type TimeoutOptions struct {
	// RequestTimeout bounds the time between accepting a connection
	// and receiving a complete request on it.
	RequestTimeout time.Duration
	WriteTimeout   time.Duration
}

var DefaultOptions = Options{
	Parse: http.DefaultParseOptions,
	Timeout: TimeoutOptions{
		RequestTimeout: 10 * time.Second,
		WriteTimeout:   30 * time.Second,
	},
	ReadBufferSize: 1024,
}
