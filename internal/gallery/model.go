package gallery

// Category groups kitties under a URL-safe slug derived from its name.
type Category struct {
	ID      int64
	Slug    string
	Name    string
	Kitties []Kitty
}

// Kitty is a single piece of ASCII art.
type Kitty struct {
	ID         int64
	CategoryID int64
	ASCIIArt   string
}

// Summary is the listing view of a category.
type Summary struct {
	ID         int64
	Slug       string
	Name       string
	KittyCount int
	Preview    string // art of the first kitty, empty for empty categories
}

func summarize(c Category) Summary {
	s := Summary{ID: c.ID, Slug: c.Slug, Name: c.Name, KittyCount: len(c.Kitties)}
	if len(c.Kitties) > 0 {
		s.Preview = c.Kitties[0].ASCIIArt
	}
	return s
}

// Kitty returns the kitty with the given id.
func (c Category) Kitty(id int64) (Kitty, bool) {
	for _, k := range c.Kitties {
		if k.ID == id {
			return k, true
		}
	}
	return Kitty{}, false
}
