package nessus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-ApiKeys") != "accessKey=ak; secretKey=sk" {
			http.Error(w, `{"error":"Invalid Credentials"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/server/properties":
			_, _ = w.Write([]byte(`{"nessus_type":"Nessus Manager"}`))
		case "/agents":
			_, _ = w.Write([]byte(`{"agents":[{"id":1,"name":"srv-01"},{"id":2,"name":"srv-02"}]}`))
		case "/agents/1":
			_, _ = w.Write([]byte(`{"id":1,"name":"srv-01","ip":"10.0.0.5"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_RequiresKeys(t *testing.T) {
	_, err := NewClient(Config{URL: "https://nessus:8834"})
	assert.Error(t, err)
}

func TestClient(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(Config{URL: srv.URL, AccessKey: "ak", SecretKey: "sk"})
	require.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, c.Ping(ctx))

	agents, err := c.ListAgents(ctx)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.JSONEq(t, `{"id":1,"name":"srv-01"}`, string(agents[0]))

	details, err := c.GetAgent(ctx, "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"srv-01","ip":"10.0.0.5"}`, string(details))

	_, err = c.GetAgent(ctx, "2")
	assert.Error(t, err)
}

func TestClient_BadCredentials(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(Config{URL: srv.URL, AccessKey: "ak", SecretKey: "wrong"})
	require.NoError(t, err)

	err = c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
