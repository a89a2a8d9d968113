package domain

// Modifier is a priced add-on to a cart item (e.g. "extra shot").
// Identity is by ID.
type Modifier struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

// ModifierSetEqual reports whether two modifier lists contain the same
// modifiers by ID, ignoring order and duplicates' positions. Display order
// is insertion order, but merge-equality is set-based.
func ModifierSetEqual(a, b []Modifier) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, m := range a {
		counts[m.ID]++
	}
	for _, m := range b {
		counts[m.ID]--
		if counts[m.ID] < 0 {
			return false
		}
	}
	return true
}
