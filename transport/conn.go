// Package transport defines the byte-stream connections the server reads
// requests from and writes responses to.
package transport

import (
	"context"
	"errors"
	"net"
	"time"
)

var (
	ErrConnClosed         = errors.New("connection is closed")
	ErrConnListenerClosed = errors.New("conn listener is closed")
	ErrDeadLineExceeded   = errors.New("deadline exceeded")

	ErrAddrAlreadyInUse = errors.New("address already in use")
	ErrConnRefused      = errors.New("connection refused")
	ErrNetUnreachable   = errors.New("network is unreachable")
)

// Conn is a bidirectional byte stream.
//
// Read returns io.EOF once the remote side closed the stream,
// and ErrConnClosed once the local side did.
type Conn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error

	LocalAddr() net.Addr
	RemoteAddr() net.Addr

	SetReadDeadLine(t time.Time)
	SetWriteDeadLine(t time.Time)
}

// HalfCloser is implemented by connections able to shut down their writing side alone.
type HalfCloser interface {
	CloseWrite() error
}

type ConnListener interface {
	Accept(ctx context.Context) (Conn, error)
	Addr() net.Addr
	Close() error
}

type ConnDialer interface {
	Dial(ctx context.Context, addr net.Addr) (Conn, error)
}
