package util

import (
	"fmt"
	"net"
)

// FindAvailablePort binds a listener to 127.0.0.1:0, reads the ephemeral
// port the kernel assigned, and closes the listener. There is a TOCTOU
// race between close and the caller's subsequent container bind; callers
// treat a later bind failure as a deploy error the user retries (§4.8).
func FindAvailablePort() (uint16, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("no available ports: %w", err)
	}
	defer listener.Close()
	addr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("unexpected listener address type %T", listener.Addr())
	}
	return uint16(addr.Port), nil
}
