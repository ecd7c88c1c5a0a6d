package fluentd

import (
	"fmt"
	"net"
	"strconv"

	"github.com/fluent/fluent-logger-golang/fluent"
)

type FluentdOptions struct {
	Addr     string
	MaxRetry uint
	// Async keeps a slow or unreachable collector from blocking the caller.
	Async bool
}

// ParseAddr splits a host:port collector address.
func ParseAddr(addr string) (string, int, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid fluentd address %q: %w", addr, err)
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		return "", 0, fmt.Errorf("invalid fluentd port %q: %w", port, err)
	}
	return host, portInt, nil
}

func GetFluentdClient(opt FluentdOptions) (*fluent.Fluent, error) {
	host, port, err := ParseAddr(opt.Addr)
	if err != nil {
		return nil, err
	}
	return fluent.New(fluent.Config{
		FluentHost:    host,
		FluentPort:    port,
		FluentNetwork: "tcp",
		MaxRetry:      int(opt.MaxRetry),
		Async:         opt.Async,
	})
}
