package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name"`
	Username       string    `json:"username" gorm:"uniqueIndex"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Password       string    `json:"-"` // bcrypt hash, never serialized
	ImageURL       string    `json:"imageUrl"`
	ImageID        string    `json:"-"` // storage object backing ImageURL, empty for generated avatars
	Education      string    `json:"education"`
	WorkExperience string    `json:"work_experience"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AuthUser is the identity projection returned by the session check and
// attached to authenticated requests.
type AuthUser struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ImageURL       string `json:"imageUrl"`
	Education      string `json:"education"`
	WorkExperience string `json:"work_experience"`
}

// EmptyAuthUser is the cleared identity used whenever a check resolves to unauthenticated.
var EmptyAuthUser = AuthUser{}

// Projection maps a stored user onto the identity projection
func (u *User) Projection() AuthUser {
	return AuthUser{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		Email:          u.Email,
		ImageURL:       u.ImageURL,
		Education:      u.Education,
		WorkExperience: u.WorkExperience,
	}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name           string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Education      string `json:"education,omitempty" validate:"omitempty,max=200"`
	WorkExperience string `json:"work_experience,omitempty" validate:"omitempty,max=200"`
}

// JwtSessionClaims are custom claims extending standard jwt.RegisteredClaims.
// SessionToken identifies the server-side session record; the token itself
// carries no expiry, session lifetime is enforced against the record.
type JwtSessionClaims struct {
	SessionToken string `json:"session_token"`
	UserID       uint   `json:"user_id"`
	jwt.RegisteredClaims
}
