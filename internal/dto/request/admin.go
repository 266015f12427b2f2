package request

type AdminUpdateUserRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Role  *string `json:"role,omitempty" validate:"omitempty,oneof=user tourguide"`
}

type SuspendUserRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}
