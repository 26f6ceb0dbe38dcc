// Package vim abstracts the virtualization management endpoint: connecting,
// enumerating hosts, and reading per-host inventory attributes.
package vim

import (
	"context"
	"fmt"
)

// Credentials authenticate one session against one endpoint.
type Credentials struct {
	Username string
	Password string
}

// NicInfo describes one physical network adapter as reported by the endpoint.
type NicInfo struct {
	Name      string
	IP        string
	Netmask   string
	MAC       string
	PortGroup string
	VMotion   bool
	MTU       int
	Duplex    string
	SpeedMb   int
}

// Host is a handle to one managed host within an open session. Attribute
// lookups are best-effort: a missing attribute reports ok=false, never an
// error.
type Host interface {
	// Name returns the host's inventory name (hostname or FQDN).
	Name() string
	// Attr reads a scalar attribute by dotted path.
	Attr(path string) (value string, ok bool)
	// Sensors returns the raw firmware/sensor inventory strings, which may
	// legitimately be empty on older hardware generations.
	Sensors() []string
	// Nics enumerates the host's physical network adapters.
	Nics() []NicInfo
}

// Session is an authenticated connection to one endpoint. Close must be
// called on every exit path; it is safe to call once per session.
type Session interface {
	ListHosts(ctx context.Context) ([]Host, error)
	Close() error
}

// Client opens sessions against management endpoints.
type Client interface {
	Connect(ctx context.Context, endpoint string, creds Credentials) (Session, error)
}

// ConnectError marks a session-establishment failure. It is the only error
// class that fails an entire endpoint task; everything downstream of a
// working session degrades to empty fields instead.
type ConnectError struct {
	Endpoint string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }
