package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type EmployeeResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email,omitempty"`
	Role     string  `json:"role"`
	BranchID *string `json:"branch_id,omitempty"`
	Active   bool    `json:"active"`
}

type CreateEmployeeRequest struct {
	Username string  `json:"username" validate:"required,min=3"`
	FullName string  `json:"full_name" validate:"required"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required,oneof=cashier supervisor admin"`
	BranchID *string `json:"branch_id,omitempty" validate:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	FullName string  `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password string  `json:"password,omitempty" validate:"omitempty,min=8"`
	Role     string  `json:"role,omitempty" validate:"omitempty,oneof=cashier supervisor admin"`
	BranchID *string `json:"branch_id,omitempty" validate:"omitempty,uuid"`
}

type LoginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int              `json:"expires_in"`
	User         EmployeeResponse `json:"user"`
}
