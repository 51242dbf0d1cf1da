package gallery

import "context"

// Store persists categories and kitties. Categories are returned with their
// kitties ordered by id. Lookups of absent rows return ErrCategoryNotFound
// or ErrKittyNotFound; slug conflicts return ErrSlugTaken.
type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CategoriesByIDs(ctx context.Context, ids []int64) ([]Category, error)
	CategoryBySlug(ctx context.Context, slug string) (Category, error)
	CreateCategory(ctx context.Context, slug, name string) (Category, error)
	UpdateCategory(ctx context.Context, id int64, slug, name string) (Category, error)
	CreateKitty(ctx context.Context, categoryID int64, art string) (Kitty, error)
	UpdateKitty(ctx context.Context, categoryID, kittyID int64, art string) error
	DeleteKitty(ctx context.Context, categoryID, kittyID int64) error
}
