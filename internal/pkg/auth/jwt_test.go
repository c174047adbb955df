package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/oguzk/classhub/internal/app/models"
)

func testJWTService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "classhub.test",
	})
}

func testUser() *models.User {
	return &models.User{ID: 7, Email: "ada@school.edu", Role: models.RoleInstructor}
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := testJWTService(time.Hour)

	access, refresh, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair failed: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected non-empty tokens")
	}
	if expiresIn != 3600 || refreshExpiresIn != 86400 {
		t.Errorf("unexpected expirations: %d, %d", expiresIn, refreshExpiresIn)
	}

	claims, err := svc.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "ada@school.edu" || claims.Role != "instructor" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "classhub.test" {
		t.Errorf("unexpected issuer: %q", claims.Issuer)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := testJWTService(-time.Minute)

	access, _, _, _, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair failed: %v", err)
	}

	_, err = svc.ValidateToken(access)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := testJWTService(time.Hour)
	other := NewJWTService(JWTConfig{
		SecretKey:       "different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "classhub.test",
	})

	access, _, _, _, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair failed: %v", err)
	}

	if _, err := other.ValidateToken(access); err == nil {
		t.Fatal("expected validation to fail with wrong secret")
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"empty", "", "", true},
		{"no prefix", "abc.def.ghi", "", true},
		{"wrong scheme", "Basic abc", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tc.header)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Fatalf("expected format error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
