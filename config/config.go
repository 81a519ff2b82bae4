// Package config loads the server configuration from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"static-server/application/http"
	"static-server/application/http/server"

	"github.com/pkg/errors"
)

// Error is returned for any configuration the server cannot start with.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("config %s: %v", e.Path, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Duration reads a Go duration string such as "10s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "duration must be a string")
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "parsing duration %q", s)
	}
	if v < 0 {
		return errors.Errorf("duration must not be negative: %q", s)
	}

	*d = Duration(v)
	return nil
}

type ServerConfig struct {
	// Absolute after Load.
	RootDirectory string            `json:"root_directory"`
	RedirectMap   map[string]string `json:"redirect_map"`

	Host string `json:"host"`
	Port uint16 `json:"port"`

	RequestTimeout Duration `json:"request_timeout"`
	WriteTimeout   Duration `json:"write_timeout"`
	MaxRequestSize uint     `json:"max_request_size"`
}

var Default = ServerConfig{
	Host:           "127.0.0.1",
	Port:           3000,
	RequestTimeout: Duration(server.DefaultOptions.Timeout.RequestTimeout),
	WriteTimeout:   Duration(server.DefaultOptions.Timeout.WriteTimeout),
	MaxRequestSize: http.DefaultParseOptions.MaxSize,
}

// Load reads the configuration at path and fills in defaults.
// A relative root directory is taken relative to the directory holding the file.
func Load(path string) (ServerConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ServerConfig{}, &Error{Path: path, Err: errors.Wrap(err, "reading file")}
	}

	cfg, err := parse(b, filepath.Dir(path))
	if err != nil {
		return ServerConfig{}, &Error{Path: path, Err: err}
	}

	return cfg, nil
}

func parse(b []byte, baseDir string) (ServerConfig, error) {
	cfg := Default
	if err := json.Unmarshal(b, &cfg); err != nil {
		return ServerConfig{}, errors.Wrap(err, "decoding json")
	}

	if cfg.RootDirectory == "" {
		return ServerConfig{}, errors.New("root_directory is required")
	}

	root := cfg.RootDirectory
	if !filepath.IsAbs(root) {
		root = filepath.Join(baseDir, root)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return ServerConfig{}, errors.Wrap(err, "resolving root_directory")
	}

	info, err := os.Stat(root)
	if err != nil {
		return ServerConfig{}, errors.Wrap(err, "root_directory")
	}
	if !info.IsDir() {
		return ServerConfig{}, errors.Errorf("root_directory is not a directory: %s", root)
	}
	cfg.RootDirectory = root

	for from, to := range cfg.RedirectMap {
		if !strings.HasPrefix(from, "/") {
			return ServerConfig{}, errors.Errorf("redirect source must start with '/': %q", from)
		}
		// Targets are sent as a header value.
		if to == "" || strings.ContainsAny(to, "\r\n") {
			return ServerConfig{}, errors.Errorf("invalid redirect target for %q: %q", from, to)
		}
	}

	if cfg.Port == 0 {
		return ServerConfig{}, errors.New("port must not be zero")
	}

	return cfg, nil
}

// Addr is the address the listener binds to.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.FormatUint(uint64(c.Port), 10))
}

// ServerOptions converts c into options of the connection handler.
func (c ServerConfig) ServerOptions() server.Options {
	opts := server.DefaultOptions
	opts.Parse.MaxSize = c.MaxRequestSize
	opts.Timeout.RequestTimeout = time.Duration(c.RequestTimeout)
	opts.Timeout.WriteTimeout = time.Duration(c.WriteTimeout)
	return opts
}
