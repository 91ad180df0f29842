package users

// CreateRequest is the payload for registering a user.
type CreateRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=64"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	RoleID       string `json:"role_id" validate:"required,uuid4"`
	DepartmentID string `json:"department_id" validate:"required,uuid4"`
}

// UpdateRequest carries partial user updates. Nil fields stay unchanged.
type UpdateRequest struct {
	Email        *string `json:"email" validate:"omitempty,email"`
	Password     *string `json:"password" validate:"omitempty,min=8"`
	RoleID       *string `json:"role_id" validate:"omitempty,uuid4"`
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid4"`
	IsActive     *bool   `json:"is_active"`
}
