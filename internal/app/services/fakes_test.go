package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oguzk/classhub/internal/app/models"
	"github.com/oguzk/classhub/internal/pkg/apperrors"
)

// In-memory store implementations mirroring the repository semantics, so
// services can be exercised without a database.

type fakeCourseStore struct {
	mu      sync.Mutex
	seq     int64
	courses map[int64]*models.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[int64]*models.Course)}
}

func cloneCourse(c *models.Course) *models.Course {
	cp := *c
	cp.Modules = cloneModules(c.Modules)
	cp.Enrollments = append([]models.Enrollment(nil), c.Enrollments...)
	return &cp
}

func cloneModules(modules []models.Module) []models.Module {
	out := make([]models.Module, len(modules))
	for i, m := range modules {
		out[i] = m
		out[i].Items = append([]models.Item(nil), m.Items...)
	}
	return out
}

func (s *fakeCourseStore) Create(ctx context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.courses {
		if existing.Code == course.Code {
			return apperrors.ErrCourseCodeExists
		}
	}

	s.seq++
	course.ID = s.seq
	course.CreatedAt = time.Now()
	s.courses[course.ID] = cloneCourse(course)
	return nil
}

func (s *fakeCourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return cloneCourse(course), nil
}

func (s *fakeCourseStore) List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Course
	for _, course := range s.courses {
		if filter.Status != "" && course.Status != filter.Status {
			continue
		}
		if filter.InstructorID > 0 && course.InstructorID != filter.InstructorID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(course.Name), needle) &&
				!strings.Contains(strings.ToLower(course.Code), needle) {
				continue
			}
		}
		out = append(out, cloneCourse(course))
	}
	return out, nil
}

func (s *fakeCourseStore) ListForUser(ctx context.Context, userID int64) ([]*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Course
	for _, course := range s.courses {
		if course.InstructorID == userID || course.HasEnrollment(userID) {
			out = append(out, cloneCourse(course))
		}
	}
	return out, nil
}

func (s *fakeCourseStore) Update(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}

	if patch.Code != nil {
		for otherID, other := range s.courses {
			if otherID != id && other.Code == *patch.Code {
				return nil, apperrors.ErrCourseCodeExists
			}
		}
		course.Code = *patch.Code
	}
	if patch.Name != nil {
		course.Name = *patch.Name
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	if patch.StartDate != nil {
		course.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		course.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		course.Status = *patch.Status
	}
	if patch.Modules != nil {
		course.Modules = cloneModules(*patch.Modules)
	}

	return cloneCourse(course), nil
}

func (s *fakeCourseStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *fakeCourseStore) AppendEnrollment(ctx context.Context, courseID int64, enrollment models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if course.HasEnrollment(enrollment.UserID) {
		return apperrors.ErrAlreadyEnrolled
	}
	course.Enrollments = append(course.Enrollments, enrollment)
	return nil
}

func (s *fakeCourseStore) AppendModule(ctx context.Context, courseID int64, module models.Module) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	course.Modules = append(course.Modules, module)
	return nil
}

func (s *fakeCourseStore) MutateModules(ctx context.Context, courseID int64, mutate func(modules []models.Module) ([]models.Module, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}

	mutated, err := mutate(cloneModules(course.Modules))
	if err != nil {
		return err
	}
	course.Modules = mutated
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}

	s.seq++
	user.ID = s.seq
	user.CreatedAt = time.Now()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *fakeUserStore) GetRefsByIDs(ctx context.Context, ids []int64) (map[int64]*models.UserRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := make(map[int64]*models.UserRef, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			refs[id] = user.Ref()
		}
	}
	return refs, nil
}

// mustAddUser seeds a user directly, bypassing hashing.
func (s *fakeUserStore) mustAddUser(name, email, password string, role models.RoleType) *models.User {
	user := &models.User{Name: name, Email: email, Password: password, Role: role}
	if err := s.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]fakeToken
}

type fakeToken struct {
	userID  int64
	expiry  time.Time
	revoked bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]fakeToken)}
}

func (s *fakeTokenStore) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = fakeToken{userID: userID, expiry: expiryDate}
	return nil
}

func (s *fakeTokenStore) GetTokenByValue(ctx context.Context, token string) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[token]
	if !ok {
		return 0, time.Time{}, apperrors.ErrTokenNotFound
	}
	if t.revoked {
		return 0, time.Time{}, apperrors.ErrTokenRevoked
	}
	if t.expiry.Before(time.Now()) {
		return 0, time.Time{}, apperrors.ErrTokenExpired
	}
	return t.userID, t.expiry, nil
}

func (s *fakeTokenStore) RevokeToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.revoked = true
	s.tokens[token] = t
	return nil
}

func (s *fakeTokenStore) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for value, t := range s.tokens {
		if t.userID == userID {
			t.revoked = true
			s.tokens[value] = t
		}
	}
	return nil
}
