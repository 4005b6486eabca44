package budget

import "github.com/etnz/budget/date"

// Category classifies transactions. Default categories are seeded by the server and cannot be deleted.
type Category struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Type      Kind           `json:"type"`
	IsDefault bool           `json:"is_default"`
	Icon      *string        `json:"icon"`
	Color     *string        `json:"color"`
	CreatedAt date.Timestamp `json:"created_at"`
}

// NewCategory is the payload to create a category.
type NewCategory struct {
	Name  string `json:"name" validate:"required"`
	Type  Kind   `json:"type" validate:"oneof=income expense"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// CategoryPatch carries the fields to change, nil fields are left untouched.
type CategoryPatch struct {
	Name  *string `json:"name,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Color *string `json:"color,omitempty"`
}
