package response

// PlatformStatsResponse is the admin dashboard summary.
type PlatformStatsResponse struct {
	TotalUsers          int64    `json:"total_users"`
	TotalGuides         int64    `json:"total_guides"`
	TotalBookings       int64    `json:"total_bookings"`
	PendingBookings     int64    `json:"pending_bookings"`
	ActiveBookings      int64    `json:"active_bookings"`
	CompletedBookings   int64    `json:"completed_bookings"`
	PendingApplications int64    `json:"pending_applications"`
	AverageRating       *float64 `json:"average_rating,omitempty"`
}

// PublicStatsResponse backs the landing-page counters. AverageRating
// falls back to a flattering default until real ratings come in.
type PublicStatsResponse struct {
	TouristSpots  int64   `json:"tourist_spots"`
	TotalTourists int64   `json:"total_tourists"`
	TotalGuides   int64   `json:"total_guides"`
	TotalBookings int64   `json:"total_bookings"`
	AverageRating float64 `json:"average_rating"`
}
