package handler

import "github.com/gcredit/registration-api/internal/core/domain"

// registerRequest is the POST /auth/register body. Unknown keys, including
// "role", are ignored: the service assigns the role.
type registerRequest struct {
	Email     string        `json:"email"     example:"jane.doe@example.com"`
	Password  domain.Secret `json:"password"  example:"SecurePass123" swaggertype:"string"`
	FirstName string        `json:"firstName" example:"Jane"`
	LastName  string        `json:"lastName"  example:"Doe"`
}

// accountResponse documents the 201 body; handlers return domain.AccountView directly.
type accountResponse struct {
	ID        string `json:"id"        example:"0b6f8a3e-4a43-4c4b-9a0e-2f8f1d1c9b11"`
	Email     string `json:"email"     example:"jane.doe@example.com"`
	FirstName string `json:"firstName" example:"Jane"`
	LastName  string `json:"lastName"  example:"Doe"`
	Role      string `json:"role"      example:"EMPLOYEE"`
	IsActive  bool   `json:"isActive"  example:"true"`
}

// errorResponse mirrors api.errorResponse for the generated docs.
type errorResponse struct {
	Error   string                  `json:"error"   example:"Conflict"`
	Message string                  `json:"message" example:"Email already registered"`
	Errors  []domain.FieldViolation `json:"errors,omitempty"`
}
