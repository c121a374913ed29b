package cache

import (
	"testing"
	"time"

	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
)

func TestTTLCache_SetGet(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, time.Minute)
	value, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, value)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_ZeroTTLNotStored(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, 0)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCatalogCache_NilSafe(t *testing.T) {
	var c *CatalogCache

	_, ok := c.GetProduct("1")
	assert.False(t, ok)
	c.SetProduct("1", &catalogdomain.Product{})
}

func TestCatalogCache_RoundTrip(t *testing.T) {
	c := NewCatalogCache()

	product := &catalogdomain.Product{Name: "Enterprise Suite"}
	c.SetProduct("1", product)

	got, ok := c.GetProduct("1")
	assert.True(t, ok)
	assert.Same(t, product, got)
}
