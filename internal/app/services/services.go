package services

import (
	"context"
	"time"

	"github.com/oguzk/classhub/internal/app/models"
	"github.com/oguzk/classhub/internal/app/repositories"
	"github.com/oguzk/classhub/internal/pkg/auth"
)

// Store interfaces are defined here, on the consumer side, so services can be
// tested against in-memory implementations. The pgx repositories satisfy them.

// CourseStore is the persistence surface for course aggregates.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.Course, error)
	Update(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
	AppendEnrollment(ctx context.Context, courseID int64, enrollment models.Enrollment) error
	AppendModule(ctx context.Context, courseID int64, module models.Module) error
	MutateModules(ctx context.Context, courseID int64, mutate func(modules []models.Module) ([]models.Module, error)) error
}

// UserStore is the persistence surface for users.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetRefsByIDs(ctx context.Context, ids []int64) (map[int64]*models.UserRef, error)
}

// TokenStore is the persistence surface for refresh tokens.
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// Services holds all the service instances
type Services struct {
	AuthService       *AuthService
	CourseService     *CourseService
	AssignmentService *AssignmentService
	GradeService      *GradeService
}

// NewServices initializes all services
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService) *Services {
	return &Services{
		AuthService:       NewAuthService(repos.UserRepository, repos.TokenRepository, jwtService),
		CourseService:     NewCourseService(repos.CourseRepository, repos.UserRepository),
		AssignmentService: NewAssignmentService(repos.CourseRepository),
		GradeService:      NewGradeService(repos.CourseRepository),
	}
}
