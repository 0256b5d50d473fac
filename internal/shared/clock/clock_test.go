package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManual(t0)

	assert.Equal(t, t0, c.Now())
	c.Advance(time.Second)
	assert.Equal(t, t0.Add(time.Second), c.Now())
	c.Set(t0)
	assert.Equal(t, t0, c.Now())
}

func TestOrSystem(t *testing.T) {
	assert.IsType(t, System{}, OrSystem(nil))

	now := OrSystem(nil).Now()
	assert.Equal(t, time.UTC, now.Location())
}
