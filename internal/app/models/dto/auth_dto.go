package dto

// RegisterRequest carries registration data. Admin accounts are not created
// through this endpoint, only seeded.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Jane Doe"`
	Email    string `json:"email" binding:"required,email" example:"jane@school.edu"`
	Password string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	Role     string `json:"role" binding:"omitempty,oneof=student instructor" example:"student"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries a refresh token to exchange for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse is returned on successful login/refresh
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
}
