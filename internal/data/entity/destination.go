package entity

// Destination is a catalog entry tourists browse before booking a package.
type Destination struct {
	Base
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Location    string  `db:"location"`
	ImageURL    *string `db:"image_url"`
	BasePrice   float64 `db:"base_price"`
	IsActive    bool    `db:"is_active"`
}
