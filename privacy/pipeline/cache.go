package pipeline

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/youralert/youralert/privacy/dataset"
)

// DefaultCacheSize holds the per-user and generic pool of one feature type
const DefaultCacheSize = 2

// Cache keeps the most recently loaded datasets so that a sweep parses each
// file once. Cached datasets are shared and must not be modified.
// A nil Cache loads every time.
type Cache struct {
	datasets *lru.Cache
}

// NewCache returns a cache holding up to size datasets
func NewCache(size int) (*Cache, error) {
	datasets, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{datasets: datasets}, nil
}

// Load returns the dataset at path, reading it on a miss. Errors are not cached.
func (c *Cache) Load(path string) (*dataset.Dataset, error) {
	if c == nil {
		return dataset.Load(path)
	}
	if ds, ok := c.datasets.Get(path); ok {
		return ds.(*dataset.Dataset), nil
	}
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	c.datasets.Add(path, ds)
	return ds, nil
}

// Len is the number of cached datasets
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.datasets.Len()
}
