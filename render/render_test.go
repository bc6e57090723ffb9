package render

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteRender(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "# Release", payload.Text)

		fmt.Fprint(w, "<h1>Release</h1>")
	}))
	defer server.Close()

	remote := NewRemote(server.URL)
	html, err := remote.Render(context.Background(), "# Release")

	require.NoError(t, err)
	assert.Equal(t, "<h1>Release</h1>", html)
}

func TestRemoteRenderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewRemote(server.URL).Render(context.Background(), "doc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestRemoteDefaultEndpoint(t *testing.T) {
	assert.Equal(t, DefaultEndpoint, NewRemote("").endpoint)
}

func TestLocalRender(t *testing.T) {
	local := NewLocal()
	html, err := local.Render(context.Background(), "# Release\n\nA *good* one.\n")

	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Release</h1>")
	assert.Contains(t, html, "<em>good</em>")
}

func TestLocalRenderKeepsRawHTML(t *testing.T) {
	local := NewLocal()
	html, err := local.Render(context.Background(), "# H <img src='icon' alt='Bug'>\n")

	require.NoError(t, err)
	assert.Contains(t, html, "<img src='icon' alt='Bug'>")
}
