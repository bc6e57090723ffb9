// Package render converts release notes markdown to HTML, either through a
// remote rendering service or locally with goldmark.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// DefaultEndpoint is the markdown rendering service used when no custom
// host is configured.
const DefaultEndpoint = "https://api.github.com/markdown"

// Renderer converts a markdown document to HTML.
type Renderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// Remote renders markdown by posting the document to an external service.
type Remote struct {
	httpClient *http.Client
	endpoint   string
}

// NewRemote creates a renderer backed by the given service endpoint.
// An empty endpoint falls back to DefaultEndpoint.
func NewRemote(endpoint string) *Remote {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Remote{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   endpoint,
	}
}

func (r *Remote) Render(ctx context.Context, markdown string) (string, error) {
	payload, err := json.Marshal(map[string]string{"text": markdown})
	if err != nil {
		return "", errors.Wrap(err, "encoding render request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "posting document to render service")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading rendered document")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("render service returned %s", resp.Status)
	}
	return string(body), nil
}

// Local renders markdown in-process. Raw HTML is kept because the notes
// embed <img> tags for work item type icons.
type Local struct {
	md goldmark.Markdown
}

func NewLocal() *Local {
	return &Local{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

func (l *Local) Render(_ context.Context, markdown string) (string, error) {
	var buf bytes.Buffer
	if err := l.md.Convert([]byte(markdown), &buf); err != nil {
		return "", errors.Wrap(err, "converting markdown")
	}
	return buf.String(), nil
}
