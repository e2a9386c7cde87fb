package dto

type UpdateUserRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Work     string `json:"work" validate:"omitempty,max=100"`
	Rate     string `json:"rate" validate:"omitempty,max=50"`
}
