package model

// Category is a directory entry used for input rendering and icon lookup.
// Categories are read-only from this client's perspective.
type Category struct {
	Name string
	Type TxType
	Icon string
}

// CategoriesForType filters a directory down to the entries usable for the
// given transaction type. An empty or unknown type returns everything.
func CategoriesForType(all []Category, t TxType) []Category {
	if !t.Valid() {
		return all
	}
	out := make([]Category, 0, len(all))
	for _, c := range all {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// IconFor returns the icon glyph for a category name, or "" when the
// directory has no entry or no icon for it.
func IconFor(all []Category, name string) string {
	for _, c := range all {
		if c.Name == name {
			return c.Icon
		}
	}
	return ""
}
