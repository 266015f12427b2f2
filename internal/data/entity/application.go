package entity

import (
	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// TourGuideApplication is a user's request to be promoted to the tourguide
// role. Status is terminal once decided.
type TourGuideApplication struct {
	BaseSimple
	UserID         uuid.UUID         `db:"user_id"`
	Name           string            `db:"name"`
	Phone          string            `db:"phone"`
	Address        string            `db:"address"`
	Experience     string            `db:"experience"`
	Languages      string            `db:"languages"`
	Certifications *string           `db:"certifications"`
	Availability   string            `db:"availability"`
	Status         ApplicationStatus `db:"status"`
}
