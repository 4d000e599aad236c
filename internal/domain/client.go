package domain

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ClientIdentity identifies one remote client reachable through the backend.
type ClientIdentity struct {
	Host string
	Port int
}

func NewClientIdentity(host string, port int) (ClientIdentity, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return ClientIdentity{}, fmt.Errorf("%w: host is empty", ErrInvalidClient)
	}
	if port < 1 || port > 65535 {
		return ClientIdentity{}, fmt.Errorf("%w: port %d out of range", ErrInvalidClient, port)
	}

	return ClientIdentity{Host: host, Port: port}, nil
}

// ParseClientIdentity parses the "host:port" form produced by String.
func ParseClientIdentity(raw string) (ClientIdentity, error) {
	host, portText, err := net.SplitHostPort(strings.TrimSpace(raw))
	if err != nil {
		return ClientIdentity{}, fmt.Errorf("%w: %q: %v", ErrInvalidClient, raw, err)
	}

	port, err := strconv.Atoi(portText)
	if err != nil {
		return ClientIdentity{}, fmt.Errorf("%w: invalid port %q", ErrInvalidClient, portText)
	}

	return NewClientIdentity(host, port)
}

func (c ClientIdentity) String() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c ClientIdentity) IsZero() bool {
	return c == ClientIdentity{}
}
