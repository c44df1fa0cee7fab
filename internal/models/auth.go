package models

import "github.com/golang-jwt/jwt/v5"

// AuthClaims is the access-token payload issued by the hosted auth provider.
// The subject is the profile id.
type AuthClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller resolved against its profile row.
type Principal struct {
	UserID   string
	Email    string
	FullName string
	Role     Role
}
