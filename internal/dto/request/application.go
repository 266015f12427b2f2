package request

type ApplyAsGuideRequest struct {
	Name           string  `json:"name" validate:"required,min=3,max=100"`
	Phone          string  `json:"phone" validate:"required,min=10,max=15"`
	Address        string  `json:"address" validate:"required,max=500"`
	Experience     string  `json:"experience" validate:"required,max=2000"`
	Languages      string  `json:"languages" validate:"required,max=255"`
	Certifications *string `json:"certifications,omitempty" validate:"omitempty,max=1000"`
	Availability   string  `json:"availability" validate:"required,max=255"`
}

type DecideApplicationRequest struct {
	Approve bool `json:"approve"`
}
