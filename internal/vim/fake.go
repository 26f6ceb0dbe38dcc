package vim

import (
	"context"
	"sync"
)

// FakeHost is an in-memory Host for tests.
type FakeHost struct {
	HostName   string
	Attrs      map[string]string
	SensorList []string
	NicList    []NicInfo
}

func (h *FakeHost) Name() string { return h.HostName }

func (h *FakeHost) Attr(path string) (string, bool) {
	v, ok := h.Attrs[path]
	return v, ok
}

func (h *FakeHost) Sensors() []string { return h.SensorList }

func (h *FakeHost) Nics() []NicInfo { return h.NicList }

// FakeSession is an in-memory Session for tests. Close calls are counted so
// tests can assert guaranteed cleanup.
type FakeSession struct {
	Hosts   []Host
	ListErr error

	mu     sync.Mutex
	closed int
}

func (s *FakeSession) ListHosts(context.Context) ([]Host, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.Hosts, nil
}

func (s *FakeSession) Close() error {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	return nil
}

// Closed reports how many times the session was closed.
func (s *FakeSession) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// FakeClient is an in-memory Client for tests, keyed by endpoint.
type FakeClient struct {
	Sessions   map[string]*FakeSession
	ConnectErr map[string]error

	mu        sync.Mutex
	connects  map[string]int
	lastCreds map[string]Credentials
}

func (c *FakeClient) Connect(_ context.Context, endpoint string, creds Credentials) (Session, error) {
	c.mu.Lock()
	if c.connects == nil {
		c.connects = make(map[string]int)
	}
	if c.lastCreds == nil {
		c.lastCreds = make(map[string]Credentials)
	}
	c.connects[endpoint]++
	c.lastCreds[endpoint] = creds
	c.mu.Unlock()

	if err := c.ConnectErr[endpoint]; err != nil {
		return nil, &ConnectError{Endpoint: endpoint, Err: err}
	}
	sess, ok := c.Sessions[endpoint]
	if !ok {
		sess = &FakeSession{}
	}
	return sess, nil
}

// Connects reports how many sessions were opened against the endpoint.
func (c *FakeClient) Connects(endpoint string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects[endpoint]
}

// LastCredentials reports the credentials used for the most recent connect.
func (c *FakeClient) LastCredentials(endpoint string) Credentials {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastCreds[endpoint]
}
