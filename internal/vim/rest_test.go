package vim

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hostsPayload = `[
  {
    "name": "esx01.example.com",
    "product": {"version": "8.0.2", "build": "22380479"},
    "hardware": {"vendor": "Dell Inc.", "memoryGB": 512},
    "sensors": ["Integrated Dell Remote Access Controller 9 Firmware 6.10.30.00"],
    "network": {
      "adapters": [
        {"name": "vmnic0", "ip": "10.0.0.11", "mac": "aa:bb:cc:00:00:01", "portGroup": "Management", "vmotion": false, "mtu": 1500, "duplex": "full", "speedMb": 10000}
      ]
    }
  },
  {"name": "esx02.example.com"}
]`

func newTestEndpoint(t *testing.T) (endpoint string, client *RESTClient, sawDelete *bool) {
	t.Helper()

	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			user, pass, ok := r.BasicAuth()
			if !ok || user != "svc" || pass != "pw" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"value": "token-123"}`))
		case http.MethodDelete:
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("/api/fleet/hosts", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(sessionHeader) != "token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(hostsPayload))
	})

	ts := httptest.NewTLSServer(mux)
	t.Cleanup(ts.Close)

	return strings.TrimPrefix(ts.URL, "https://"),
		NewRESTClient(RESTClientConfig{InsecureSkipVerify: true}),
		&deleted
}

func TestRESTClientSessionLifecycle(t *testing.T) {
	endpoint, client, deleted := newTestEndpoint(t)

	sess, err := client.Connect(context.Background(), endpoint, Credentials{Username: "svc", Password: "pw"})
	require.NoError(t, err)

	hosts, err := sess.ListHosts(context.Background())
	require.NoError(t, err)
	require.Len(t, hosts, 2)

	h := hosts[0]
	assert.Equal(t, "esx01.example.com", h.Name())

	v, ok := h.Attr("product.version")
	assert.True(t, ok)
	assert.Equal(t, "8.0.2", v)

	v, ok = h.Attr("hardware.memoryGB")
	assert.True(t, ok)
	assert.Equal(t, "512", v)

	_, ok = h.Attr("config.licenseKey")
	assert.False(t, ok)

	assert.Equal(t, []string{"Integrated Dell Remote Access Controller 9 Firmware 6.10.30.00"}, h.Sensors())

	nics := h.Nics()
	require.Len(t, nics, 1)
	assert.Equal(t, "vmnic0", nics[0].Name)
	assert.Equal(t, 1500, nics[0].MTU)
	assert.Equal(t, 10000, nics[0].SpeedMb)
	assert.False(t, nics[0].VMotion)

	// Bare host document: every lookup absent, never an error.
	_, ok = hosts[1].Attr("product.version")
	assert.False(t, ok)
	assert.Empty(t, hosts[1].Sensors())
	assert.Empty(t, hosts[1].Nics())

	require.NoError(t, sess.Close())
	assert.True(t, *deleted)

	// Close is idempotent.
	require.NoError(t, sess.Close())
}

func TestRESTClientRejectedSessionIsConnectError(t *testing.T) {
	endpoint, client, _ := newTestEndpoint(t)

	_, err := client.Connect(context.Background(), endpoint, Credentials{Username: "svc", Password: "wrong"})
	require.Error(t, err)

	var ce *ConnectError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, endpoint, ce.Endpoint)
}

func TestRESTClientUnreachableEndpointIsConnectError(t *testing.T) {
	client := NewRESTClient(RESTClientConfig{InsecureSkipVerify: true})

	_, err := client.Connect(context.Background(), "127.0.0.1:1", Credentials{Username: "svc", Password: "pw"})
	require.Error(t, err)

	var ce *ConnectError
	assert.True(t, errors.As(err, &ce))
}
