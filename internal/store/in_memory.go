package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	perrors "github.com/abgdnv/onlineshop/internal/errors"
)

var (
	_ ProductStore = (*MemoryProductStore)(nil)
	_ UserStore    = (*MemoryUserStore)(nil)
	_ CartStore    = (*MemoryCartStore)(nil)
)

// Memory keeps users, products and carts in maps guarded by one lock.
// Identifiers are assigned sequentially starting at 1.
type Memory struct {
	mu            sync.RWMutex
	products      map[int64]Product
	users         map[int64]User
	carts         map[int64]map[int64]struct{}
	nextProductID int64
	nextUserID    int64
}

// NewMemory creates an empty in-memory data set.
func NewMemory() *Memory {
	return &Memory{
		products:      make(map[int64]Product),
		users:         make(map[int64]User),
		carts:         make(map[int64]map[int64]struct{}),
		nextProductID: 1,
		nextUserID:    1,
	}
}

// Products returns a ProductStore backed by m.
func (m *Memory) Products() *MemoryProductStore { return &MemoryProductStore{m: m} }

// Users returns a UserStore backed by m.
func (m *Memory) Users() *MemoryUserStore { return &MemoryUserStore{m: m} }

// Carts returns a CartStore backed by m.
func (m *Memory) Carts() *MemoryCartStore { return &MemoryCartStore{m: m} }

// MemoryProductStore implements ProductStore on top of Memory.
type MemoryProductStore struct {
	m *Memory
}

func (s *MemoryProductStore) Save(_ context.Context, product *Product) (*Product, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	p := cloneProduct(*product)
	if p.ID == 0 {
		p.ID = s.m.nextProductID
		s.m.nextProductID++
	} else if _, ok := s.m.products[p.ID]; !ok {
		return nil, fmt.Errorf("product %d: %w", p.ID, perrors.ErrProductNotFound)
	}
	s.m.products[p.ID] = p

	saved := cloneProduct(p)
	return &saved, nil
}

func (s *MemoryProductStore) FindByID(_ context.Context, id int64) (*Product, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	p, ok := s.m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, perrors.ErrProductNotFound)
	}
	found := cloneProduct(p)
	return &found, nil
}

func (s *MemoryProductStore) FindAll(_ context.Context, filter ProductFilter, page PageRequest) (*Page[Product], error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	matched := make([]Product, 0, len(s.m.products))
	for _, p := range s.m.products {
		if matches(filter, p) {
			matched = append(matched, cloneProduct(p))
		}
	}
	slices.SortFunc(matched, func(a, b Product) int {
		return cmp.Compare(a.ID, b.ID)
	})

	total := int64(len(matched))
	start := min(page.Offset(), total)
	end := min(start+int64(page.Size), total)
	return NewPage(matched[start:end], page, total), nil
}

func (s *MemoryProductStore) DeleteByID(_ context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, perrors.ErrProductNotFound)
	}
	delete(s.m.products, id)
	for _, items := range s.m.carts {
		delete(items, id)
	}
	return nil
}

// MemoryUserStore implements UserStore on top of Memory.
type MemoryUserStore struct {
	m *Memory
}

func (s *MemoryUserStore) Save(_ context.Context, user *User) (*User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	u := *user
	if u.ID == 0 {
		u.ID = s.m.nextUserID
		s.m.nextUserID++
	} else if _, ok := s.m.users[u.ID]; !ok {
		return nil, fmt.Errorf("user %d: %w", u.ID, perrors.ErrUserNotFound)
	}
	s.m.users[u.ID] = u
	return &u, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id int64) (*User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	u, ok := s.m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, perrors.ErrUserNotFound)
	}
	return &u, nil
}

// MemoryCartStore implements CartStore on top of Memory.
type MemoryCartStore struct {
	m *Memory
}

func (s *MemoryCartStore) AddProducts(_ context.Context, userID int64, productIDs []int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	// mirror the foreign keys of the relational schema
	if _, ok := s.m.users[userID]; !ok {
		return fmt.Errorf("user %d: %w", userID, perrors.ErrUserNotFound)
	}
	for _, id := range productIDs {
		if _, ok := s.m.products[id]; !ok {
			return fmt.Errorf("product %d: %w", id, perrors.ErrProductNotFound)
		}
	}

	items, ok := s.m.carts[userID]
	if !ok {
		items = make(map[int64]struct{})
		s.m.carts[userID] = items
	}
	for _, id := range productIDs {
		items[id] = struct{}{}
	}
	return nil
}

func (s *MemoryCartStore) FindByUserID(_ context.Context, userID int64) (*Cart, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	items, ok := s.m.carts[userID]
	if !ok {
		return nil, fmt.Errorf("cart %d: %w", userID, perrors.ErrCartNotFound)
	}
	ids := make([]int64, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	cart := &Cart{UserID: userID, Products: make([]Product, 0, len(ids))}
	for _, id := range ids {
		cart.Products = append(cart.Products, cloneProduct(s.m.products[id]))
	}
	return cart, nil
}

func matches(f ProductFilter, p Product) bool {
	if f.PartialName != nil && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(*f.PartialName)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// cloneProduct copies the optional fields so callers never share them with the store.
func cloneProduct(p Product) Product {
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	if p.ImageURL != nil {
		u := *p.ImageURL
		p.ImageURL = &u
	}
	return p
}

// Ping always succeeds; the data lives in process.
func (m *Memory) Ping(context.Context) error {
	return nil
}
