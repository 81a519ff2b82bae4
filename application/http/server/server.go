package server

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"static-server/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// Delay before accepting again after an unexpected accept error.
const acceptRetryDelay = 50 * time.Millisecond

type Server struct {
	l transport.ConnListener

	closeListener func()
	wg            sync.WaitGroup

	logger *slog.Logger
	opts   Options

	handle HandleFunc
	clock  clock.Clock
}

func New(
	l transport.ConnListener,
	logger *slog.Logger,
	clock clock.Clock,
	handle HandleFunc,
	opts Options,
) *Server {
	return &Server{
		l:      l,
		logger: logger,
		opts:   opts,
		handle: handle,
		clock:  clock,
	}
}

func (s *Server) Addr() net.Addr { return s.l.Addr() }

// Start accepts connections in the background until [Server.Close] is called.
// Every connection is served by its own goroutine.
func (s *Server) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.closeListener = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.acceptConn(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, transport.ErrConnListenerClosed) {
					return
				}

				s.logger.Error(
					"unexpected error when accepting connection",
					"error", err.Error(),
				)
				select {
				case <-ctx.Done():
					return
				case <-s.clock.After(acceptRetryDelay):
				}
				continue
			}

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				conn.start(ctx)
			}()
		}
	}()
}

func (s *Server) acceptConn(ctx context.Context) (*conn, error) {
	con, err := s.l.Accept(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listening for connection")
	}

	conn := &conn{
		con:    con,
		handle: s.handle,
		opts:   s.opts,
		logger: s.logger.With("conn", con.RemoteAddr().String()),
		clock:  s.clock,
	}

	return conn, nil
}

// Close stops accepting, closes every open connection and waits for their goroutines.
func (s *Server) Close() error {
	if s.closeListener != nil {
		s.closeListener()
	}

	err := s.l.Close()
	s.wg.Wait()

	if errors.Is(err, transport.ErrConnListenerClosed) {
		return nil
	}
	return err
}
