package cache

import (
	"time"

	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
)

const defaultProductTTL = 10 * time.Minute

// CatalogCache stores hot-path product lookups for pricing configuration.
// The catalog only changes on reseed, so a short TTL is enough to bound
// staleness. A nil receiver behaves as a cache that never hits.
type CatalogCache struct {
	products   Cache[string, *catalogdomain.Product]
	productTTL time.Duration
}

func NewCatalogCache() *CatalogCache {
	return &CatalogCache{
		products:   NewTTLCache[string, *catalogdomain.Product](),
		productTTL: defaultProductTTL,
	}
}

func (c *CatalogCache) GetProduct(id string) (*catalogdomain.Product, bool) {
	if c == nil {
		return nil, false
	}
	return c.products.Get(id)
}

func (c *CatalogCache) SetProduct(id string, product *catalogdomain.Product) {
	if c == nil || product == nil {
		return
	}
	c.products.Set(id, product, c.productTTL)
}
