package request

type CreateDestinationRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"required,max=5000"`
	Location    string  `json:"location" validate:"required,max=255"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	BasePrice   float64 `json:"base_price" validate:"required,gt=0"`
}

type UpdateDestinationRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	BasePrice   *float64 `json:"base_price,omitempty" validate:"omitempty,gt=0"`
	IsActive    *bool    `json:"is_active,omitempty"`
}
