package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotesFileName(t *testing.T) {
	name := notesFileName("  Project X ")
	assert.True(t, strings.HasPrefix(name, "project-x-"))
	assert.True(t, strings.HasSuffix(name, ".md"))
}
