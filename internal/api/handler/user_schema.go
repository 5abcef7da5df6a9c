package handler

type createUserRequest struct {
	Username          string `json:"username" validate:"required"`
	Password          string `json:"password" validate:"required,min=6"`
	Role              string `json:"role" validate:"omitempty,oneof=user admin"`
	ServicePercentage *int   `json:"service_percentage" validate:"omitempty,min=0,max=100"`
}

type updateUserRequest struct {
	Password          *string `json:"password" validate:"omitempty,min=6"`
	Role              *string `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive          *bool   `json:"is_active"`
	ServicePercentage *int    `json:"service_percentage" validate:"omitempty,min=0,max=100"`
}
