package request

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=3,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Type  string `json:"type" validate:"required,oneof=email_verification password_reset"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Languages  *string `json:"languages,omitempty" validate:"omitempty,max=255"`
	Experience *string `json:"experience,omitempty" validate:"omitempty,max=1000"`
	Bio        *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}
