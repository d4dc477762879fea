package models

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeAddress is a parsed daemon connection string.
type NodeAddress struct {
	Host string
	Port int
	SSL  bool
}

// ParseNode splits "host:port[:ssl]". A missing ssl part means false.
func ParseNode(s string) (NodeAddress, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return NodeAddress{}, fmt.Errorf("invalid node %q: want host:port[:ssl]", s)
	}
	port, err := strconv.Atoi(parts[1])
	if err != nil || port <= 0 || port > 65535 {
		return NodeAddress{}, fmt.Errorf("invalid node %q: bad port", s)
	}
	n := NodeAddress{Host: parts[0], Port: port}
	if len(parts) == 3 {
		n.SSL = parts[2] == "true"
	}
	return n, nil
}

func (n NodeAddress) String() string {
	return fmt.Sprintf("%s:%d:%t", n.Host, n.Port, n.SSL)
}
