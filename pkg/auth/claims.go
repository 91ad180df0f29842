package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/distributech/distributech-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID       uuid.UUID
	Username     string
	Role         enums.Role
	DepartmentID *uuid.UUID
	JTI          string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID       uuid.UUID  `json:"user_id"`
	Username     string     `json:"username"`
	Role         enums.Role `json:"role"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}
