package domain

// Category is a user-defined transaction category. Its Type decides which budget
// group rows may reference it.
type Category struct {
	CategoryID string      `json:"categoryID"`
	UserID     string      `json:"userID"`
	Name       string      `json:"name"`
	Type       BudgetGroup `json:"type"`
}

// CategoryIndex maps category ids to categories.
type CategoryIndex map[string]Category

// NewCategoryIndex indexes categories by id.
func NewCategoryIndex(categories []Category) CategoryIndex {
	idx := make(CategoryIndex, len(categories))
	for _, c := range categories {
		idx[c.CategoryID] = c
	}
	return idx
}

// NameOf resolves a category id to its display name.
func (idx CategoryIndex) NameOf(categoryID *string) string {
	if categoryID == nil {
		return ""
	}
	return idx[*categoryID].Name
}

// FilterCategories returns the categories selectable for rows of group.
func FilterCategories(categories []Category, group BudgetGroup) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == group {
			out = append(out, c)
		}
	}
	return out
}
