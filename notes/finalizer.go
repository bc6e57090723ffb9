package notes

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/autonotes/autonotes/render"
)

// summaryPreamble is the fixed instruction prefix of the summarization
// prompt.
const summaryPreamble = "You are a technical writer. Write a short prose summary of a software release for its users, based on the completed work items below. Do not list the items, describe the overall shape of the release.\n"

// Summarizer produces a prose summary for a prompt. Implemented by the
// llm completion client.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Finalizer splices the generated release summary into a notes document
// and optionally renders it to HTML.
type Finalizer struct {
	summarizer      Summarizer
	renderer        render.Renderer
	softwareSummary string
}

// NewFinalizer creates a finalizer. renderer may be nil when HTML output
// is never requested; softwareSummary is a blurb describing the software,
// included in the prompt for context.
func NewFinalizer(summarizer Summarizer, renderer render.Renderer, softwareSummary string) *Finalizer {
	return &Finalizer{
		summarizer:      summarizer,
		renderer:        renderer,
		softwareSummary: softwareSummary,
	}
}

// Finalize asks for a release summary, replaces the SummaryMarker in the
// document at docPath with it, and writes the document back. A failed
// summarization is logged and the marker is replaced with an empty string,
// the document is always written. With wantHTML the rendered document is
// persisted next to the markdown file with an .html extension.
func (f *Finalizer) Finalize(ctx context.Context, docPath string, rawSummaryNotes string, wantHTML bool) error {
	slog.Info("writing final summary and table of contents", "doc", docPath)

	prompt := fmt.Sprintf("%s%s\nThe following is a summary of the work items completed in this release:\n%s\nYour response should be as concise as possible",
		summaryPreamble, f.softwareSummary, rawSummaryNotes)

	summary, err := f.summarizer.Summarize(ctx, prompt)
	if err != nil {
		slog.Warn("release summary unavailable, continuing without it", "error", err)
		summary = ""
	}

	content, err := os.ReadFile(docPath)
	if err != nil {
		return errors.Wrapf(err, "reading notes document %s", docPath)
	}

	doc := strings.ReplaceAll(string(content), SummaryMarker, summary)
	// Empty bullet artifacts left by items without descriptions.
	doc = strings.ReplaceAll(doc, " - .", " - Addressed.")

	if wantHTML && f.renderer != nil {
		if html, err := f.renderer.Render(ctx, doc); err != nil {
			slog.Warn("failed to render notes to HTML, markdown is still written", "error", err)
		} else {
			htmlPath := strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".html"
			if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
				return errors.Wrapf(err, "writing rendered document %s", htmlPath)
			}
		}
	}

	if err := os.WriteFile(docPath, []byte(doc), 0o644); err != nil {
		return errors.Wrapf(err, "writing notes document %s", docPath)
	}
	return nil
}
