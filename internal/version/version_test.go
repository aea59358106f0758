package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	orig := [3]string{Version, CommitHash, BuildDate}
	t.Cleanup(func() { Version, CommitHash, BuildDate = orig[0], orig[1], orig[2] })

	Version, CommitHash, BuildDate = "v0.3.1", "a1b2c3d", "2026-10-19T08:00:00Z"
	assert.Equal(t, "v0.3.1 (commit a1b2c3d, built 2026-10-19T08:00:00Z)", String())
}
