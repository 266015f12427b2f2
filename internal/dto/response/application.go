package response

import (
	"time"

	"paradise-tours/internal/data/entity"
)

type ApplicationResponse struct {
	ID             string                   `json:"id"`
	UserID         string                   `json:"user_id"`
	Name           string                   `json:"name"`
	Phone          string                   `json:"phone"`
	Address        string                   `json:"address"`
	Experience     string                   `json:"experience"`
	Languages      string                   `json:"languages"`
	Certifications *string                  `json:"certifications,omitempty"`
	Availability   string                   `json:"availability"`
	Status         entity.ApplicationStatus `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
}

func ApplicationToResponse(a *entity.TourGuideApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:             a.ID.String(),
		UserID:         a.UserID.String(),
		Name:           a.Name,
		Phone:          a.Phone,
		Address:        a.Address,
		Experience:     a.Experience,
		Languages:      a.Languages,
		Certifications: a.Certifications,
		Availability:   a.Availability,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
	}
}

func ApplicationsToResponse(apps []*entity.TourGuideApplication) []ApplicationResponse {
	resp := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		resp = append(resp, ApplicationToResponse(a))
	}
	return resp
}
