package sirene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache_HitAndExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := newTTLCache(time.Minute)
	c.nowFunc = func() time.Time { return now }

	c.set("652014051", &Record{Siren: "652014051", Active: true})

	rec, found, hit := c.get("652014051")
	assert.True(t, hit)
	assert.True(t, found)
	assert.Equal(t, "652014051", rec.Siren)

	// Entries expire by age.
	now = now.Add(2 * time.Minute)
	_, _, hit = c.get("652014051")
	assert.False(t, hit)
}

func TestTTLCache_NotFoundEntry(t *testing.T) {
	t.Parallel()

	c := newTTLCache(time.Minute)
	c.set("123456782", nil)

	rec, found, hit := c.get("123456782")
	assert.True(t, hit)
	assert.False(t, found)
	assert.Nil(t, rec)
}

func TestTTLCache_MissOnUnknownKey(t *testing.T) {
	t.Parallel()

	c := newTTLCache(time.Minute)
	_, _, hit := c.get("356000000")
	assert.False(t, hit)
}

func TestTTLCache_ZeroTTLDisablesCaching(t *testing.T) {
	t.Parallel()

	c := newTTLCache(0)
	c.set("652014051", &Record{Siren: "652014051"})
	_, _, hit := c.get("652014051")
	assert.False(t, hit)
}

func TestTTLCache_SetPrunesExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := newTTLCache(time.Minute)
	c.nowFunc = func() time.Time { return now }

	c.set("a", &Record{Siren: "a"})
	now = now.Add(2 * time.Minute)
	c.set("b", &Record{Siren: "b"})

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Len(t, c.entries, 1)
	assert.Contains(t, c.entries, "b")
}
