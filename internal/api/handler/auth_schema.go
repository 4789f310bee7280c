package handler

import "github.com/cleanus/booking-api/internal/core/domain"

// registerRequest is bound from the multipart form; the identity document
// travels separately as the idDocument file part.
type registerRequest struct {
	FullName string `form:"fullName" validate:"required"`
	Email    string `form:"email"    validate:"required,email"`
	Phone    string `form:"phone"    validate:"required"`
	Password string `form:"password" validate:"required,min=6,max=72"`
	Street   string `form:"street"   validate:"required"`
	Number   string `form:"number"   validate:"required"`
	City     string `form:"city"     validate:"required"`
	ZipCode  string `form:"zipCode"  validate:"required"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type loginRequest struct {
	LoginEmail    string `json:"loginEmail"    validate:"required"`
	LoginPassword string `json:"loginPassword" validate:"required"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}
