package gallery

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu         sync.RWMutex
	categories map[int64]*Category
	nextCat    int64
	nextKitty  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{categories: make(map[int64]*Category)}
}

func (m *MemoryStore) ListCategories(ctx context.Context) ([]Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, clone(c))
	}
	slices.SortFunc(out, func(a, b Category) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *MemoryStore) CategoriesByIDs(ctx context.Context, ids []int64) ([]Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.categories[id]; ok {
			out = append(out, clone(c))
		}
	}
	return out, nil
}

func (m *MemoryStore) CategoryBySlug(ctx context.Context, slug string) (Category, error) {
	if err := ctx.Err(); err != nil {
		return Category{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if c := m.bySlug(slug); c != nil {
		return clone(c), nil
	}
	return Category{}, ErrCategoryNotFound
}

func (m *MemoryStore) CreateCategory(ctx context.Context, slug, name string) (Category, error) {
	if err := ctx.Err(); err != nil {
		return Category{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bySlug(slug) != nil {
		return Category{}, ErrSlugTaken
	}
	m.nextCat++
	c := &Category{ID: m.nextCat, Slug: slug, Name: name}
	m.categories[c.ID] = c
	return clone(c), nil
}

func (m *MemoryStore) UpdateCategory(ctx context.Context, id int64, slug, name string) (Category, error) {
	if err := ctx.Err(); err != nil {
		return Category{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.categories[id]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	if other := m.bySlug(slug); other != nil && other.ID != id {
		return Category{}, ErrSlugTaken
	}
	c.Slug, c.Name = slug, name
	return clone(c), nil
}

func (m *MemoryStore) CreateKitty(ctx context.Context, categoryID int64, art string) (Kitty, error) {
	if err := ctx.Err(); err != nil {
		return Kitty{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.categories[categoryID]
	if !ok {
		return Kitty{}, ErrCategoryNotFound
	}
	m.nextKitty++
	k := Kitty{ID: m.nextKitty, CategoryID: categoryID, ASCIIArt: art}
	c.Kitties = append(c.Kitties, k)
	return k, nil
}

func (m *MemoryStore) UpdateKitty(ctx context.Context, categoryID, kittyID int64, art string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i, c, err := m.kittyIndex(categoryID, kittyID)
	if err != nil {
		return err
	}
	c.Kitties[i].ASCIIArt = art
	return nil
}

func (m *MemoryStore) DeleteKitty(ctx context.Context, categoryID, kittyID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i, c, err := m.kittyIndex(categoryID, kittyID)
	if err != nil {
		return err
	}
	c.Kitties = slices.Delete(c.Kitties, i, i+1)
	return nil
}

func (m *MemoryStore) bySlug(slug string) *Category {
	for _, c := range m.categories {
		if c.Slug == slug {
			return c
		}
	}
	return nil
}

func (m *MemoryStore) kittyIndex(categoryID, kittyID int64) (int, *Category, error) {
	c, ok := m.categories[categoryID]
	if !ok {
		return 0, nil, ErrCategoryNotFound
	}
	i := slices.IndexFunc(c.Kitties, func(k Kitty) bool { return k.ID == kittyID })
	if i < 0 {
		return 0, nil, ErrKittyNotFound
	}
	return i, c, nil
}

func clone(c *Category) Category {
	out := *c
	out.Kitties = slices.Clone(c.Kitties)
	return out
}
