package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRelease(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.0"
	assert.True(t, IsRelease())

	Version = "0.0.0-dev"
	assert.False(t, IsRelease())

	Version = "not-a-version"
	assert.False(t, IsRelease())
}

func TestString(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "1.2.0"
	GitCommit = "unknown"
	assert.Equal(t, "1.2.0", String())

	GitCommit = "abc1234"
	assert.Equal(t, "1.2.0 (abc1234)", String())
}
