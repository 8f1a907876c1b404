package dto

import (
	"time"

	"github.com/gpai/backend/internal/app/models"
)

// UserResponse is the public view of a user
type UserResponse struct {
	ID           string    `json:"id" example:"7f1c0a4e-7a51-4a8f-9d55-9b0d0f0e3c11"`
	Name         string    `json:"name" example:"Ada Obi"`
	Email        string    `json:"email" example:"ada@example.com"`
	Role         string    `json:"role" example:"STUDENT" enums:"STUDENT,ADMIN"`
	SchoolName   string    `json:"school_name" example:"University of Lagos"`
	Department   string    `json:"department" example:"Computer Science"`
	Program      string    `json:"program" example:"B.Sc."`
	MatricNumber string    `json:"matric_number" example:"190805001"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpdateProfileRequest updates the editable profile fields. Omitted fields
// are left unchanged; an empty string clears an optional field.
type UpdateProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=100" example:"Ada Obi"`
	SchoolName   *string `json:"school_name" binding:"omitempty,max=150" example:"University of Lagos"`
	Department   *string `json:"department" binding:"omitempty,max=150" example:"Computer Science"`
	Program      *string `json:"program" binding:"omitempty,max=150" example:"B.Sc."`
	MatricNumber *string `json:"matric_number" binding:"omitempty,max=150" example:"190805001"`
}

// NewUserResponse maps a user model to its public view
func NewUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.RoleType),
		SchoolName:   deref(u.SchoolName),
		Department:   deref(u.Department),
		Program:      deref(u.Program),
		MatricNumber: deref(u.MatricNumber),
		CreatedAt:    u.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
