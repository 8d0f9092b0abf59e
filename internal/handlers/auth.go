package handlers

import (
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mhasan-dev/devgram/backend/internal/auth"
	"github.com/mhasan-dev/devgram/backend/internal/middleware"
	"github.com/mhasan-dev/devgram/backend/internal/models"
	"github.com/mhasan-dev/devgram/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository    repositories.UserRepository
	sessionRepository repositories.SessionRepository
	checker           *auth.Checker
	jwtSecret         string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, checker *auth.Checker, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		checker:           checker,
		jwtSecret:         jwtSecret,
	}
}

// RegisterAuthRoutes registers unprotected authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.GET("/me", h.Me)
}

// RegisterProtectedAuthRoutes registers authentication routes that require a session
func (h *AuthHandler) RegisterProtectedAuthRoutes(g *echo.Group) {
	g.POST("/auth/signout", h.SignOut)
}

// Signup handles user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Check if user with this email already exists
	_, err := h.userRepository.GetUserByEmail(req.Email)
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name:     req.Name,
		Username: h.generateUsername(req.Name),
		Email:    req.Email,
		Password: string(hashedPassword),
		ImageURL: initialsAvatarURL(req.Name),
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := h.createSession(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session after signup")
	}

	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user.Projection()})
}

// SignIn handles user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	// Reuse a live session if the user already has one
	if session, err := h.sessionRepository.GetSessionByUserID(user.ID); err == nil {
		if session.LoginTimestamp == nil || time.Since(*session.LoginTimestamp) <= auth.LoginExpiration {
			token, err := h.signSessionToken(session.Token, user.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign session token")
			}
			return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user.Projection()})
		}
	} else if err != gorm.ErrRecordNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := h.createSession(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user.Projection()})
}

// SignOut deletes the current session
func (h *AuthHandler) SignOut(c echo.Context) error {
	token := sessionToken(c)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.sessionRepository.DeleteSession(token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Me runs the session check and reports the resolved identity. A failed check
// is a 200 with authenticated=false, not an error: "logged out" is a normal
// answer here.
func (h *AuthHandler) Me(c echo.Context) error {
	token := middleware.BearerSessionToken(c, h.jwtSecret)

	result := h.checker.CheckAuthUser(token)

	return c.JSON(http.StatusOK, echo.Map{
		"authenticated": result.Authenticated(),
		"state":         result.State.String(),
		"user":          result.User,
	})
}

// createSession creates a server-side session record and returns its signed token
func (h *AuthHandler) createSession(user *models.User) (string, error) {
	session := &models.Session{
		Token:  uuid.New().String(),
		UserID: user.ID,
	}
	if err := h.sessionRepository.CreateSession(session); err != nil {
		return "", err
	}
	return h.signSessionToken(session.Token, user.ID)
}

// signSessionToken wraps a session token in a signed JWT
func (h *AuthHandler) signSessionToken(sessionToken string, userID uint) (string, error) {
	claims := &models.JwtSessionClaims{
		SessionToken: sessionToken,
		UserID:       userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// generateUsername builds a username from the display name plus a random
// suffix, retrying on collision
func (h *AuthHandler) generateUsername(name string) string {
	for i := 0; i < 5; i++ {
		candidate := fmt.Sprintf("%s_%d", name, rand.Intn(10000))
		if _, err := h.userRepository.GetUserByUsername(candidate); err == gorm.ErrRecordNotFound {
			return candidate
		}
	}
	// Fall back to a suffix that cannot collide
	return fmt.Sprintf("%s_%s", name, uuid.New().String()[:8])
}

// initialsAvatarURL builds an initials avatar for users without an uploaded image
func initialsAvatarURL(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&size=256", url.QueryEscape(name))
}
