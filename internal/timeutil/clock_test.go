package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	assert.Equal(t, start, c.Now())
	assert.Equal(t, start, c.Now(), "no step: clock stands still")

	c.Advance(90 * time.Second)
	assert.Equal(t, 90*time.Second, c.Since(start))

	c.WithStep(time.Millisecond)
	t0 := c.Now()
	assert.Equal(t, time.Millisecond, c.Since(t0))
}

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}
	t0 := c.Now()
	assert.GreaterOrEqual(t, c.Since(t0), time.Duration(0))
}
