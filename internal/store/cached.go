package store

import (
	"context"
	"strconv"
)

// ProductCache holds product read models by key. Implementations swallow their own failures,
// a failing cache behaves like an empty one.
type ProductCache interface {
	Get(ctx context.Context, key string) (*Product, bool)
	Set(ctx context.Context, key string, product *Product)
	Delete(ctx context.Context, key string)
}

var _ ProductStore = (*CachedProductStore)(nil)

// CachedProductStore reads single products through a cache. Writes evict the entry before and after
// they reach the store, the next read refills it. Searches always go to the underlying store.
type CachedProductStore struct {
	next  ProductStore
	cache ProductCache
}

func NewCachedProductStore(next ProductStore, cache ProductCache) *CachedProductStore {
	return &CachedProductStore{next: next, cache: cache}
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func (s *CachedProductStore) Save(ctx context.Context, product *Product) (*Product, error) {
	if product.ID != 0 {
		s.cache.Delete(ctx, productKey(product.ID))
	}
	saved, err := s.next.Save(ctx, product)
	if product.ID != 0 {
		s.cache.Delete(ctx, productKey(product.ID))
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *CachedProductStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	if cached, ok := s.cache.Get(ctx, productKey(id)); ok {
		return cached, nil
	}
	product, err := s.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, productKey(id), product)
	return product, nil
}

func (s *CachedProductStore) FindAll(ctx context.Context, filter ProductFilter, page PageRequest) (*Page[Product], error) {
	return s.next.FindAll(ctx, filter, page)
}

func (s *CachedProductStore) DeleteByID(ctx context.Context, id int64) error {
	s.cache.Delete(ctx, productKey(id))
	err := s.next.DeleteByID(ctx, id)
	s.cache.Delete(ctx, productKey(id))
	return err
}
