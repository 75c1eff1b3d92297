package dedup

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestShouldProcess_DropsRepeatsWithinTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := NewWithClock(clock, time.Minute, 10)

	assert.True(t, d.ShouldProcess("evt-1"))
	assert.False(t, d.ShouldProcess("evt-1"))

	clock.Advance(59 * time.Second)
	assert.False(t, d.ShouldProcess("evt-1"))

	clock.Advance(time.Second)
	assert.True(t, d.ShouldProcess("evt-1"), "accepted again once the TTL has elapsed")
}

func TestShouldProcess_EmptyIDAlwaysPasses(t *testing.T) {
	d := NewWithClock(clockwork.NewFakeClock(), time.Minute, 10)
	assert.True(t, d.ShouldProcess(""))
	assert.True(t, d.ShouldProcess(""))
	assert.Equal(t, 0, d.Len())
}

func TestShouldProcess_BoundedSize(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := NewWithClock(clock, time.Hour, 2)

	assert.True(t, d.ShouldProcess("a"))
	clock.Advance(time.Second)
	assert.True(t, d.ShouldProcess("b"))
	clock.Advance(time.Second)
	assert.True(t, d.ShouldProcess("c"))

	assert.Equal(t, 2, d.Len())
	assert.True(t, d.ShouldProcess("a"), "oldest entry was evicted")
	assert.False(t, d.ShouldProcess("c"))
}

func TestNewWithClock_Defaults(t *testing.T) {
	d := NewWithClock(clockwork.NewRealClock(), 0, 0)
	assert.Equal(t, 10*time.Minute, d.ttl)
	assert.Equal(t, 10000, d.max)
}
