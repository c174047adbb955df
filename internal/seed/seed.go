package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/oguzk/classhub/internal/app/models"
	appRepos "github.com/oguzk/classhub/internal/app/repositories"
	"github.com/oguzk/classhub/internal/pkg/apperrors"
	pkgAuth "github.com/oguzk/classhub/internal/pkg/auth"
)

// CreateDefaultData creates the default accounts if they don't exist: one
// admin (registration never produces admins) and a demo instructor/student
// pair for local development.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default accounts...")

	defaults := []struct {
		name     string
		email    string
		password string
		role     appModels.RoleType
	}{
		{"Admin", "admin@classhub.app", "admin-change-me", appModels.RoleAdmin},
		{"Demo Instructor", "instructor@classhub.app", "demo-instructor", appModels.RoleInstructor},
		{"Demo Student", "student@classhub.app", "demo-student", appModels.RoleStudent},
	}

	var finalErr error
	for _, d := range defaults {
		hashed, err := pkgAuth.HashPassword(d.password)
		if err != nil {
			lgr.Error().Err(err).Str("email", d.email).Msg("Error hashing default account password")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		user := &appModels.User{
			Name:     d.name,
			Email:    d.email,
			Password: hashed,
			Role:     d.role,
		}

		err = userRepo.Create(ctx, user)
		switch {
		case err == nil:
			lgr.Info().Str("email", d.email).Str("role", string(d.role)).Msg("Default account created")
		case errors.Is(err, apperrors.ErrEmailAlreadyExists):
			// Already seeded on a previous run
		default:
			lgr.Error().Err(err).Str("email", d.email).Msg("Error creating default account")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
