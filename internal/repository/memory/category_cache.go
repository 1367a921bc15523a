package memory

import (
	"time"

	"learnflow-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const allCategoriesKey = "categories:all"

// CategoryCache keeps the seeded category list in process. Categories are
// read-only at runtime, so entries only age out.
type CategoryCache struct {
	cache *cache.Cache
}

func NewCategoryCache(ttl time.Duration) *CategoryCache {
	return &CategoryCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CategoryCache) SaveAll(categories []*entity.Category) {
	c.cache.Set(allCategoriesKey, categories, cache.DefaultExpiration)
	for _, category := range categories {
		c.cache.Set(category.Id.String(), category, cache.DefaultExpiration)
	}
}

func (c *CategoryCache) GetAll() ([]*entity.Category, bool) {
	if x, found := c.cache.Get(allCategoriesKey); found {
		return x.([]*entity.Category), true
	}
	return nil, false
}

func (c *CategoryCache) Save(category *entity.Category) {
	c.cache.Set(category.Id.String(), category, cache.DefaultExpiration)
}

func (c *CategoryCache) Get(id uuid.UUID) (*entity.Category, bool) {
	if x, found := c.cache.Get(id.String()); found {
		return x.(*entity.Category), true
	}
	return nil, false
}

func (c *CategoryCache) Flush() {
	c.cache.Flush()
}
