package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepClock(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	clock := NewStepClock(start, time.Second)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(time.Second), clock.Now())
	assert.Equal(t, 2, clock.Calls())
}

func TestNewTestFSIsIsolated(t *testing.T) {
	a := NewTestFS()
	b := NewTestFS()

	assert.NoError(t, a.WriteFile("/x", []byte("1"), 0644))
	_, err := b.Stat("/x")
	assert.Error(t, err)
}
