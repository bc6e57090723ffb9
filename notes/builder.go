package notes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/autonotes/autonotes/devops"
)

// SummaryMarker is the placeholder the finalizer replaces with the
// generated release summary.
const SummaryMarker = "<NOTESSUMMARY>"

const (
	iconSize     = 20
	minDescChars = 10
)

var anchorPattern = regexp.MustCompile(`[^\w-]`)

// Contents converts a list of section headers into a markdown table of
// contents with GitHub-style anchors.
func Contents(headers []string) string {
	var b strings.Builder
	for _, header := range headers {
		anchor := strings.ReplaceAll(header, " ", "-")
		anchor = strings.ToLower(anchorPattern.ReplaceAllString(anchor, ""))
		fmt.Fprintf(&b, "- [%s](#%s)\n", header, anchor)
	}
	return b.String()
}

// TypeHeader renders the section header for a group of same-typed items.
func TypeHeader(group *devops.WorkItemChildren, level int) string {
	return fmt.Sprintf("%s <img src='%s' alt='%s' width='%d' height='%d'> %ss\n\n",
		strings.Repeat("#", level), group.Icon, group.Type, iconSize, iconSize, group.Type)
}

// ParentHeader renders the header line for an item that has children.
func ParentHeader(item *devops.WorkItem, level int) string {
	return fmt.Sprintf("%s <img src='%s' alt='%s' width='%d' height='%d' parent='%d'> [#%d](%s) %s\n\n",
		strings.Repeat("#", level), item.Icon, item.Type, iconSize, iconSize, item.Parent, item.ID, item.URL, item.Title)
}

// ChildItem renders one leaf work item as a bullet line.
func ChildItem(item *devops.WorkItem) string {
	return fmt.Sprintf("- [#%d](%s) **%s** %s %d\n",
		item.ID, item.URL, item.Title, CleanString(item.Description, minDescChars), item.CommentCount)
}

// WriteNotes renders the grouped work item tree as markdown sections.
func WriteNotes(b *strings.Builder, groups []*devops.WorkItemChildren, level int) {
	for _, group := range groups {
		b.WriteString(TypeHeader(group, level))
		for _, item := range group.Items {
			if len(item.ChildrenByType) > 0 {
				b.WriteString(ParentHeader(item, level))
				WriteNotes(b, item.ChildrenByType, level+1)
			} else {
				b.WriteString(ChildItem(item))
			}
		}
		b.WriteString("\n")
	}
}

// Document assembles the full release notes markdown, with the summary
// placeholder at the top, and returns it together with the raw one-line
// summaries the finalizer feeds to the summarization prompt.
func Document(title string, groups []*devops.WorkItemChildren) (doc string, rawSummary string) {
	var body strings.Builder
	WriteNotes(&body, groups, 1)

	headers := make([]string, 0, len(groups))
	for _, group := range groups {
		headers = append(headers, group.Type+"s")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Release Notes for %s\n\n", title)
	b.WriteString("## Summary\n\n")
	b.WriteString(SummaryMarker)
	b.WriteString("\n\n## Contents\n\n")
	b.WriteString(Contents(headers))
	b.WriteString("\n")
	b.WriteString(body.String())

	return b.String(), rawSummaryLines(groups)
}

func rawSummaryLines(groups []*devops.WorkItemChildren) string {
	var b strings.Builder
	var walk func(groups []*devops.WorkItemChildren)
	walk = func(groups []*devops.WorkItemChildren) {
		for _, group := range groups {
			for _, item := range group.Items {
				desc := CleanString(item.Description, minDescChars)
				if desc == "" {
					fmt.Fprintf(&b, "- %s\n", item.Title)
				} else {
					fmt.Fprintf(&b, "- %s: %s\n", item.Title, desc)
				}
				walk(item.ChildrenByType)
			}
		}
	}
	walk(groups)
	return b.String()
}
