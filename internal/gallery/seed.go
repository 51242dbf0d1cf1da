package gallery

import (
	"context"
	"errors"
)

// SeedCategory is a demo category with its kitties.
type SeedCategory struct {
	Slug    string
	Name    string
	Kitties []string
}

// DemoData is the content loaded by Seed.
var DemoData = []SeedCategory{
	{
		Slug:    "complex-cats",
		Name:    "complex kitties",
		Kitties: []string{":3", ":3", ":3", ":3", ":3"},
	},
	{
		Slug:    "emoji",
		Name:    "emoji",
		Kitties: []string{":3", ";3", ">:3", "3:", "3:<"},
	},
}

// Seed creates the given categories. Categories whose slug already exists
// are left untouched, so repeated runs do not duplicate data. It returns
// the categories it created.
func Seed(ctx context.Context, s *Service, data []SeedCategory) ([]Category, error) {
	var created []Category
	for _, sc := range data {
		exists, err := s.HasCategory(ctx, sc.Slug)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		c, err := s.CreateCategory(ctx, sc.Slug, sc.Name)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				continue
			}
			return created, err
		}
		for _, art := range sc.Kitties {
			k, err := s.AddKitty(ctx, c.Slug, art)
			if err != nil {
				return created, err
			}
			c.Kitties = append(c.Kitties, k)
		}
		created = append(created, c)
	}
	return created, nil
}
