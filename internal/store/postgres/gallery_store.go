package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrymomot/galleri/integration/database/pg"
	"github.com/dmitrymomot/galleri/internal/gallery"
)

// GalleryStore implements gallery.Store on the pc_category and pc_kitty tables.
type GalleryStore struct {
	db *sql.DB
}

func NewGalleryStore(db *sql.DB) *GalleryStore {
	return &GalleryStore{db: db}
}

func (s *GalleryStore) ListCategories(ctx context.Context) ([]gallery.Category, error) {
	return s.categories(ctx, psq.Select("id", "slug", "name").From(categoryTable).OrderBy("id"))
}

func (s *GalleryStore) CategoriesByIDs(ctx context.Context, ids []int64) ([]gallery.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.categories(ctx, psq.Select("id", "slug", "name").From(categoryTable).Where(sq.Eq{"id": ids}).OrderBy("id"))
}

func (s *GalleryStore) CategoryBySlug(ctx context.Context, slug string) (gallery.Category, error) {
	cats, err := s.categories(ctx, psq.Select("id", "slug", "name").From(categoryTable).Where(sq.Eq{"slug": slug}))
	if err != nil {
		return gallery.Category{}, err
	}
	if len(cats) == 0 {
		return gallery.Category{}, gallery.ErrCategoryNotFound
	}
	return cats[0], nil
}

func (s *GalleryStore) CreateCategory(ctx context.Context, slug, name string) (gallery.Category, error) {
	query, args, err := psq.Insert(categoryTable).
		Columns("slug", "name").
		Values(slug, name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return gallery.Category{}, fmt.Errorf("building category insert: %w", err)
	}

	c := gallery.Category{Slug: slug, Name: name}
	if err := pg.Conn(ctx, s.db).QueryRowContext(ctx, query, args...).Scan(&c.ID); err != nil {
		if pg.IsDuplicateKeyError(err) {
			return gallery.Category{}, gallery.ErrSlugTaken
		}
		return gallery.Category{}, fmt.Errorf("inserting category: %w", err)
	}
	return c, nil
}

func (s *GalleryStore) UpdateCategory(ctx context.Context, id int64, slug, name string) (gallery.Category, error) {
	var updated gallery.Category
	err := pg.InTx(ctx, s.db, func(ctx context.Context) error {
		query, args, err := psq.Update(categoryTable).
			Set("slug", slug).
			Set("name", name).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("building category update: %w", err)
		}

		res, err := pg.Conn(ctx, s.db).ExecContext(ctx, query, args...)
		if err != nil {
			if pg.IsDuplicateKeyError(err) {
				return gallery.ErrSlugTaken
			}
			return fmt.Errorf("updating category: %w", err)
		}
		if err := expectRow(res, gallery.ErrCategoryNotFound); err != nil {
			return err
		}

		updated, err = s.CategoryBySlug(ctx, slug)
		return err
	})
	if err != nil {
		return gallery.Category{}, err
	}
	return updated, nil
}

func (s *GalleryStore) CreateKitty(ctx context.Context, categoryID int64, art string) (gallery.Kitty, error) {
	query, args, err := psq.Insert(kittyTable).
		Columns("category_id", "ascii_art").
		Values(categoryID, art).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return gallery.Kitty{}, fmt.Errorf("building kitty insert: %w", err)
	}

	k := gallery.Kitty{CategoryID: categoryID, ASCIIArt: art}
	if err := pg.Conn(ctx, s.db).QueryRowContext(ctx, query, args...).Scan(&k.ID); err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return gallery.Kitty{}, gallery.ErrCategoryNotFound
		}
		return gallery.Kitty{}, fmt.Errorf("inserting kitty: %w", err)
	}
	return k, nil
}

func (s *GalleryStore) UpdateKitty(ctx context.Context, categoryID, kittyID int64, art string) error {
	query, args, err := psq.Update(kittyTable).
		Set("ascii_art", art).
		Where(sq.Eq{"id": kittyID, "category_id": categoryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building kitty update: %w", err)
	}
	res, err := pg.Conn(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating kitty: %w", err)
	}
	return expectRow(res, gallery.ErrKittyNotFound)
}

func (s *GalleryStore) DeleteKitty(ctx context.Context, categoryID, kittyID int64) error {
	query, args, err := psq.Delete(kittyTable).
		Where(sq.Eq{"id": kittyID, "category_id": categoryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building kitty delete: %w", err)
	}
	res, err := pg.Conn(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting kitty: %w", err)
	}
	return expectRow(res, gallery.ErrKittyNotFound)
}

// categories runs qb and attaches the kitties of every returned category.
func (s *GalleryStore) categories(ctx context.Context, qb sq.SelectBuilder) ([]gallery.Category, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building category select: %w", err)
	}

	rows, err := pg.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		cats []gallery.Category
		ids  []int64
	)
	for rows.Next() {
		var c gallery.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		cats = append(cats, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	if len(cats) == 0 {
		return cats, nil
	}

	kitties, err := s.kitties(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		cats[i].Kitties = kitties[cats[i].ID]
	}
	return cats, nil
}

func (s *GalleryStore) kitties(ctx context.Context, categoryIDs []int64) (map[int64][]gallery.Kitty, error) {
	query, args, err := psq.Select("id", "category_id", "ascii_art").
		From(kittyTable).
		Where(sq.Eq{"category_id": categoryIDs}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building kitty select: %w", err)
	}

	rows, err := pg.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting kitties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64][]gallery.Kitty, len(categoryIDs))
	for rows.Next() {
		var k gallery.Kitty
		if err := rows.Scan(&k.ID, &k.CategoryID, &k.ASCIIArt); err != nil {
			return nil, fmt.Errorf("scanning kitty: %w", err)
		}
		out[k.CategoryID] = append(out[k.CategoryID], k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating kitties: %w", err)
	}
	return out, nil
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
