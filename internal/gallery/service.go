package gallery

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dmitrymomot/galleri/core/logger"
	"github.com/dmitrymomot/galleri/pkg/slug"
)

// Service implements gallery use cases on top of a Store.
type Service struct {
	store Store
	log   *slog.Logger
}

// ServiceOption configures Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for change events.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{store: store, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summaries lists all categories ordered by id.
func (s *Service) Summaries(ctx context.Context) ([]Summary, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	out := make([]Summary, len(cats))
	for i, c := range cats {
		out[i] = summarize(c)
	}
	return out, nil
}

// Summary returns the summary of the category with the given id.
func (s *Service) Summary(ctx context.Context, id int64) (Summary, error) {
	sums, err := s.SummariesByIDs(ctx, []int64{id})
	if err != nil {
		return Summary{}, err
	}
	if len(sums) == 0 {
		return Summary{}, ErrCategoryNotFound
	}
	return sums[0], nil
}

// SummariesByIDs returns summaries in the order of ids. Unknown ids are skipped.
func (s *Service) SummariesByIDs(ctx context.Context, ids []int64) ([]Summary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cats, err := s.store.CategoriesByIDs(ctx, ids)
	if err != nil {
		return nil, storageErr(err)
	}
	byID := make(map[int64]Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, summarize(c))
		}
	}
	return out, nil
}

// CategoryBySlug returns a category with its kitties.
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (Category, error) {
	c, err := s.store.CategoryBySlug(ctx, slug)
	if err != nil {
		return Category{}, storageErr(err)
	}
	return c, nil
}

// HasCategory reports whether a category with slug exists.
func (s *Service) HasCategory(ctx context.Context, slug string) (bool, error) {
	_, err := s.CategoryBySlug(ctx, slug)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrCategoryNotFound):
		return false, nil
	default:
		return false, err
	}
}

// AddCategory validates name, derives the slug and stores a new category.
func (s *Service) AddCategory(ctx context.Context, name string) (Category, error) {
	name, slugValue, err := s.checkName(name)
	if err != nil {
		return Category{}, err
	}
	return s.CreateCategory(ctx, slugValue, name)
}

// CreateCategory stores a category under an explicit slug.
func (s *Service) CreateCategory(ctx context.Context, slugValue, name string) (Category, error) {
	c, err := s.store.CreateCategory(ctx, slugValue, name)
	if errors.Is(err, ErrSlugTaken) {
		return Category{}, slugTaken()
	}
	if err != nil {
		return Category{}, storageErr(err)
	}
	s.log.InfoContext(ctx, "category created", logger.Event("category_created"), slog.String("slug", c.Slug))
	return c, nil
}

// UpdateCategory renames the category at slug. The slug follows the new name.
func (s *Service) UpdateCategory(ctx context.Context, currentSlug, name string) (Category, error) {
	current, err := s.CategoryBySlug(ctx, currentSlug)
	if err != nil {
		return Category{}, err
	}
	name, slugValue, err := s.checkName(name)
	if err != nil {
		return Category{}, err
	}

	c, err := s.store.UpdateCategory(ctx, current.ID, slugValue, name)
	if errors.Is(err, ErrSlugTaken) {
		return Category{}, slugTaken()
	}
	if err != nil {
		return Category{}, storageErr(err)
	}
	s.log.InfoContext(ctx, "category updated", logger.Event("category_updated"),
		slog.String("slug", c.Slug), slog.String("previous_slug", currentSlug))
	return c, nil
}

// AddKitty validates art and adds it to the category at slug.
func (s *Service) AddKitty(ctx context.Context, categorySlug, art string) (Kitty, error) {
	c, err := s.CategoryBySlug(ctx, categorySlug)
	if err != nil {
		return Kitty{}, err
	}
	if err := validateArt(art); err != nil {
		return Kitty{}, err
	}
	k, err := s.store.CreateKitty(ctx, c.ID, art)
	if err != nil {
		return Kitty{}, storageErr(err)
	}
	return k, nil
}

// UpdateKitty replaces the art of a kitty in the category at slug.
func (s *Service) UpdateKitty(ctx context.Context, categorySlug string, kittyID int64, art string) error {
	c, err := s.CategoryBySlug(ctx, categorySlug)
	if err != nil {
		return err
	}
	if _, ok := c.Kitty(kittyID); !ok {
		return ErrKittyNotFound
	}
	if err := validateArt(art); err != nil {
		return err
	}
	return storageErr(s.store.UpdateKitty(ctx, c.ID, kittyID, art))
}

// DeleteKitty removes a kitty from the category at slug.
func (s *Service) DeleteKitty(ctx context.Context, categorySlug string, kittyID int64) error {
	c, err := s.CategoryBySlug(ctx, categorySlug)
	if err != nil {
		return err
	}
	return storageErr(s.store.DeleteKitty(ctx, c.ID, kittyID))
}

func (s *Service) checkName(name string) (string, string, error) {
	name, verr := validateName(name)
	if err := verr.orNil(); err != nil {
		return "", "", err
	}
	slugValue := slug.Make(name)
	if slugValue == "" {
		verr.add("Category name must contain letters or digits")
		return "", "", verr
	}
	return name, slugValue, nil
}

func slugTaken() error {
	return &ValidationError{Problems: []string{"Category id is already taken"}}
}

// storageErr passes domain errors through and tags everything else with ErrStorage.
func storageErr(err error) error {
	switch {
	case err == nil,
		errors.Is(err, ErrCategoryNotFound),
		errors.Is(err, ErrKittyNotFound),
		errors.Is(err, ErrSlugTaken),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return errors.Join(ErrStorage, err)
}
