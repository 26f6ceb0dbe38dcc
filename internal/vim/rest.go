package vim

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const sessionHeader = "vmware-api-session-id"

// RESTClientConfig tunes the REST adapter for the management endpoint API.
type RESTClientConfig struct {
	// Timeout bounds each HTTP request, not the session lifetime.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate verification; management
	// endpoints commonly run self-signed certificates.
	InsecureSkipVerify bool
}

// RESTClient implements Client over the endpoint's REST/JSON API. One
// Connect call yields one session token, released by Session.Close.
type RESTClient struct {
	httpc *http.Client
}

// NewRESTClient builds the REST adapter.
func NewRESTClient(cfg RESTClientConfig) *RESTClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RESTClient{
		httpc: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
			},
		},
	}
}

// Connect authenticates against the endpoint and returns an open session.
// All failures here are ConnectError.
func (c *RESTClient) Connect(ctx context.Context, endpoint string, creds Credentials) (Session, error) {
	url := fmt.Sprintf("https://%s/api/session", endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, &ConnectError{Endpoint: endpoint, Err: err}
	}
	req.SetBasicAuth(creds.Username, creds.Password)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &ConnectError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectError{Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &ConnectError{Endpoint: endpoint, Err: fmt.Errorf("session rejected: status %d", resp.StatusCode)}
	}

	token := gjson.ParseBytes(body).Get("value").String()
	if token == "" {
		// Some API versions return the bare token string.
		token = gjson.ParseBytes(body).String()
	}
	if token == "" {
		return nil, &ConnectError{Endpoint: endpoint, Err: fmt.Errorf("no session token in response")}
	}

	return &restSession{client: c, endpoint: endpoint, token: token}, nil
}

type restSession struct {
	client   *RESTClient
	endpoint string
	token    string
	closed   bool
}

func (s *restSession) get(ctx context.Context, path string) ([]byte, error) {
	url := fmt.Sprintf("https://%s%s", s.endpoint, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(sessionHeader, s.token)

	resp, err := s.client.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ListHosts fetches the full host inventory documents for the endpoint. Each
// host's attributes are served from its cached document afterwards, so field
// reads never touch the network again within the session.
func (s *restSession) ListHosts(ctx context.Context) ([]Host, error) {
	body, err := s.get(ctx, "/api/fleet/hosts")
	if err != nil {
		return nil, fmt.Errorf("list hosts on %s: %w", s.endpoint, err)
	}

	docs := gjson.ParseBytes(body)
	if !docs.IsArray() {
		docs = docs.Get("value")
	}

	var hosts []Host
	docs.ForEach(func(_, doc gjson.Result) bool {
		hosts = append(hosts, &restHost{doc: doc})
		return true
	})
	return hosts, nil
}

func (s *restSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	// Close carries no caller context; the client timeout still bounds it.
	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete,
		fmt.Sprintf("https://%s/api/session", s.endpoint), nil)
	if err != nil {
		return err
	}
	req.Header.Set(sessionHeader, s.token)

	resp, err := s.client.httpc.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

type restHost struct {
	doc gjson.Result
}

func (h *restHost) Name() string {
	return h.doc.Get("name").String()
}

func (h *restHost) Attr(path string) (string, bool) {
	v := h.doc.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return "", false
	}
	return v.String(), true
}

func (h *restHost) Sensors() []string {
	var out []string
	h.doc.Get("sensors").ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}

func (h *restHost) Nics() []NicInfo {
	var out []NicInfo
	h.doc.Get("network.adapters").ForEach(func(_, v gjson.Result) bool {
		out = append(out, NicInfo{
			Name:      v.Get("name").String(),
			IP:        v.Get("ip").String(),
			Netmask:   v.Get("netmask").String(),
			MAC:       v.Get("mac").String(),
			PortGroup: v.Get("portGroup").String(),
			VMotion:   v.Get("vmotion").Bool(),
			MTU:       int(v.Get("mtu").Int()),
			Duplex:    v.Get("duplex").String(),
			SpeedMb:   int(v.Get("speedMb").Int()),
		})
		return true
	})
	return out
}
