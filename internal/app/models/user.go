package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account created on first Google sign-in
type User struct {
	ID           uuid.UUID `json:"id" db:"id" example:"7f1c0a4e-7a51-4a8f-9d55-9b0d0f0e3c11"`
	GoogleID     string    `json:"google_id" db:"google_id" example:"109876543210987654321"`
	Name         string    `json:"name" db:"name" example:"Ada Obi"`
	Email        string    `json:"email" db:"email" example:"ada@example.com"`
	RoleType     RoleType  `json:"role_type" db:"role_type" example:"STUDENT"`
	SchoolName   *string   `json:"school_name,omitempty" db:"school_name" example:"University of Lagos"`
	Department   *string   `json:"department,omitempty" db:"department" example:"Computer Science"`
	Program      *string   `json:"program,omitempty" db:"program" example:"B.Sc."`
	MatricNumber *string   `json:"matric_number,omitempty" db:"matric_number" example:"190805001"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user may manage the newsletter
func (u *User) IsAdmin() bool {
	return u.RoleType == RoleAdmin
}
