package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent        Role = "STUDENT"
	RoleTeacher        Role = "TEACHER"
	RoleInstituteAdmin Role = "INSTITUTE_ADMIN"
	RoleSuperAdmin     Role = "SUPERADMIN"
	RoleSupport        Role = "SUPPORT"
)

// Roles lists every role in declaration order
var Roles = []Role{RoleStudent, RoleTeacher, RoleInstituteAdmin, RoleSuperAdmin, RoleSupport}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User as it is stored. Contains secrets, never render it directly
type User struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	Email       string
	FullName    *string
	Role        Role
	InstituteID *string

	// nil if the user can't authenticate with a password
	PasswordHash *string

	// Both set by forgot-password and cleared on a successful reset
	PasswordResetTokenHash *string
	PasswordResetExpiresAt *time.Time
}

// Profile returns the sanitized projection of the user
func (u User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		InstituteID: u.InstituteID,
	}
}

// Profile is the user projection that is safe to return to clients
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    *string   `json:"fullName"`
	Role        Role      `json:"role"`
	InstituteID *string   `json:"instituteId,omitempty"`
}
