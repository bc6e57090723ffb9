package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autonotes/autonotes/devops"
)

func TestContents(t *testing.T) {
	got := Contents([]string{"Bugs", "User Stories", "Q&A Items"})
	want := "- [Bugs](#bugs)\n" +
		"- [User Stories](#user-stories)\n" +
		"- [Q&A Items](#qa-items)\n"
	assert.Equal(t, want, got)
}

func TestTypeHeader(t *testing.T) {
	group := &devops.WorkItemChildren{Type: "Bug", Icon: "icon_url"}
	assert.Equal(t,
		"# <img src='icon_url' alt='Bug' width='20' height='20'> Bugs\n\n",
		TypeHeader(group, 1))
	assert.True(t, strings.HasPrefix(TypeHeader(group, 3), "### "))
}

func TestParentHeader(t *testing.T) {
	item := &devops.WorkItem{
		ID:    1,
		Type:  "Bug",
		Title: "Test Bug",
		URL:   "url",
		Icon:  "icon_url",
	}
	assert.Equal(t,
		"# <img src='icon_url' alt='Bug' width='20' height='20' parent='0'> [#1](url) Test Bug\n\n",
		ParentHeader(item, 1))
}

func TestChildItem(t *testing.T) {
	item := &devops.WorkItem{
		ID:          1,
		Type:        "Bug",
		Title:       "Test Bug",
		URL:         "url",
		Description: "Test description",
	}
	assert.Equal(t, "- [#1](url) **Test Bug** Test description 0\n", ChildItem(item))
}

func TestDocument(t *testing.T) {
	child := &devops.WorkItem{
		ID: 2, Type: "Bug", Title: "Fix crash", URL: "u2",
		Description: "The app no longer crashes on resume",
	}
	parent := &devops.WorkItem{
		ID: 1, Type: "Epic", Title: "Stability", URL: "u1",
		Children:       []*devops.WorkItem{child},
		ChildrenByType: []*devops.WorkItemChildren{{Type: "Bug", Items: []*devops.WorkItem{child}}},
	}
	groups := []*devops.WorkItemChildren{{Type: "Epic", Items: []*devops.WorkItem{parent}}}

	doc, raw := Document("Project X", groups)

	assert.Contains(t, doc, "# Release Notes for Project X")
	assert.Contains(t, doc, SummaryMarker)
	assert.Contains(t, doc, "- [Epics](#epics)")
	assert.Contains(t, doc, "[#1](u1) Stability")
	assert.Contains(t, doc, "- [#2](u2) **Fix crash**")

	require.NotEmpty(t, raw)
	assert.Contains(t, raw, "- Stability\n")
	assert.Contains(t, raw, "- Fix crash: The app no longer crashes on resume\n")
}
