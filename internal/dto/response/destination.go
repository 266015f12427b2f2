package response

import (
	"time"

	"paradise-tours/internal/data/entity"
)

type DestinationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ImageURL    *string   `json:"image_url,omitempty"`
	BasePrice   float64   `json:"base_price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func DestinationToResponse(d *entity.Destination) DestinationResponse {
	return DestinationResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		Description: d.Description,
		Location:    d.Location,
		ImageURL:    d.ImageURL,
		BasePrice:   d.BasePrice,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
	}
}

func DestinationsToResponse(destinations []*entity.Destination) []DestinationResponse {
	resp := make([]DestinationResponse, 0, len(destinations))
	for _, d := range destinations {
		resp = append(resp, DestinationToResponse(d))
	}
	return resp
}
