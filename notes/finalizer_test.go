package notes

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSummarizer struct {
	text    string
	err     error
	prompts []string
}

func (s *stubSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

type stubRenderer struct {
	html string
	err  error
}

func (s *stubRenderer) Render(context.Context, string) (string, error) {
	return s.html, s.err
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFinalizeSplicesSummary(t *testing.T) {
	path := writeDoc(t, "# Notes\n\n"+SummaryMarker+"\n\n- item\n")
	summarizer := &stubSummarizer{text: "A focused stability release."}
	finalizer := NewFinalizer(summarizer, nil, "Project X is a service.")

	require.NoError(t, finalizer.Finalize(context.Background(), path, "- Fix crash\n", false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Notes\n\nA focused stability release.\n\n- item\n", string(content))

	// The prompt carries the software blurb, the raw notes and the
	// conciseness instruction.
	require.Len(t, summarizer.prompts, 1)
	assert.Contains(t, summarizer.prompts[0], "Project X is a service.")
	assert.Contains(t, summarizer.prompts[0], "- Fix crash\n")
	assert.Contains(t, summarizer.prompts[0], "concise")
}

func TestFinalizeFailedSummaryStillWritesDocument(t *testing.T) {
	path := writeDoc(t, "before "+SummaryMarker+" after")
	summarizer := &stubSummarizer{err: assert.AnError}
	finalizer := NewFinalizer(summarizer, nil, "")

	require.NoError(t, finalizer.Finalize(context.Background(), path, "notes", false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "before  after", string(content))
}

func TestFinalizeTidiesEmptyBullets(t *testing.T) {
	path := writeDoc(t, SummaryMarker+"\n- Fix crash - .\n")
	finalizer := NewFinalizer(&stubSummarizer{text: "s"}, nil, "")

	require.NoError(t, finalizer.Finalize(context.Background(), path, "", false))

	content, _ := os.ReadFile(path)
	assert.Contains(t, string(content), "- Fix crash - Addressed.\n")
}

func TestFinalizeWritesHTMLSibling(t *testing.T) {
	path := writeDoc(t, SummaryMarker)
	finalizer := NewFinalizer(&stubSummarizer{text: "summary"}, &stubRenderer{html: "<p>summary</p>"}, "")

	require.NoError(t, finalizer.Finalize(context.Background(), path, "", true))

	htmlPath := path[:len(path)-len(".md")] + ".html"
	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Equal(t, "<p>summary</p>", string(html))
}

func TestFinalizeRenderFailureKeepsMarkdown(t *testing.T) {
	path := writeDoc(t, SummaryMarker)
	finalizer := NewFinalizer(&stubSummarizer{text: "summary"}, &stubRenderer{err: assert.AnError}, "")

	require.NoError(t, finalizer.Finalize(context.Background(), path, "", true))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "summary", string(content))
	assert.NoFileExists(t, path[:len(path)-len(".md")]+".html")
}

func TestFinalizeMissingDocument(t *testing.T) {
	finalizer := NewFinalizer(&stubSummarizer{text: "s"}, nil, "")
	err := finalizer.Finalize(context.Background(), filepath.Join(t.TempDir(), "absent.md"), "", false)
	require.Error(t, err)
}
