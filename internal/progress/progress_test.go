package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoardTracksRuns(t *testing.T) {
	b := NewBoard()

	_, ok := b.Get("missing")
	assert.False(t, ok)

	b.Set("run", 5)
	b.Set("run", 50)
	v, ok := b.Get("run")
	assert.True(t, ok)
	assert.Equal(t, 50, v)

	b.Set("run", Failed)
	v, _ = b.Get("run")
	assert.Equal(t, -1, v)

	b.Delete("run")
	_, ok = b.Get("run")
	assert.False(t, ok)
}

func TestBoardIgnoresEmptyID(t *testing.T) {
	b := NewBoard()
	b.Set("", 10)
	_, ok := b.Get("")
	assert.False(t, ok)
}
