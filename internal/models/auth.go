package models

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=ORGANIZER ATTENDEE"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token   string      `json:"token"`
	User    User        `json:"user"`
	Profile UserProfile `json:"profile"`
}

type UpdateProfileRequest struct {
	ContactEmail     *string `json:"contact_email" validate:"omitempty,email"`
	OrganizationName *string `json:"organization_name"`
	PhoneNumber      *string `json:"phone_number"`
	Bio              *string `json:"bio"`
}
