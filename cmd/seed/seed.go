package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/logger"
	"github.com/adhyayanx/teachhub/internal/models"
	"github.com/adhyayanx/teachhub/internal/repository"
	"github.com/adhyayanx/teachhub/internal/service/auth"
	"github.com/adhyayanx/teachhub/internal/service/auth/hasher"
)

const (
	defaultAdminEmail    = "admin@adhyayanx.local"
	defaultAdminPassword = "Admin@1234"
	demoInstituteID      = "skillyard"
)

type account struct {
	Email       string
	Password    string
	FullName    string
	Role        models.Role
	InstituteID string
}

func demoAccounts(c config) []account {
	or := func(v string, fallback string) string {
		if v != "" {
			return v
		}
		return fallback
	}

	return []account{
		{or(c.AdminEmail, defaultAdminEmail), or(c.AdminPassword, defaultAdminPassword), "Super Admin", models.RoleSuperAdmin, ""},
		{"admin@skillyard.local", "InstAdmin@123", "Skillyard Admin", models.RoleInstituteAdmin, demoInstituteID},
		{"teacher1@skillyard.local", "Teacher@123", "John Teacher", models.RoleTeacher, demoInstituteID},
		{"teacher2@skillyard.local", "Teacher@123", "Priya Sharma", models.RoleTeacher, demoInstituteID},
		{"student1@skillyard.local", "Student@123", "Amit Student", models.RoleStudent, demoInstituteID},
		{"student2@skillyard.local", "Student@123", "Sneha Student", models.RoleStudent, demoInstituteID},
	}
}

// Create missing accounts, existing emails are left untouched
// Returns number of created accounts
func seed(ctx context.Context, users repository.UserRepo, h hasher.Hasher, accounts []account, l logger.Logger) (int, error) {
	created := 0

	for _, a := range accounts {
		hash, err := h.Hash(a.Password)
		if err != nil {
			return created, fmt.Errorf("hash password of %s: %w", a.Email, err)
		}

		params := repository.CreateUserParams{
			Email:        auth.NormalizeEmail(a.Email),
			PasswordHash: &hash,
			FullName:     &a.FullName,
			Role:         a.Role,
		}
		if a.InstituteID != "" {
			params.InstituteID = &a.InstituteID
		}

		_, err = users.CreateUser(ctx, params)
		switch {
		case errors.Is(err, apperrors.ErrEmailInUse):
			l.Info("User exists", "email", params.Email)
		case err != nil:
			return created, fmt.Errorf("create %s: %w", params.Email, err)
		default:
			l.Info("Created user", "email", params.Email, "role", a.Role)
			created++
		}
	}

	return created, nil
}
