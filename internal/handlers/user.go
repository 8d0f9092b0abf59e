package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mhasan-dev/devgram/backend/internal/models"
	"github.com/mhasan-dev/devgram/backend/internal/repositories"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
	images         ImageStore
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, images ImageStore) *UserHandler {
	return &UserHandler{userRepository: userRepo, images: images}
}

// RegisterUserRoutes registers user and profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.GetUsers)
	g.GET("/users/:id", h.GetUser)
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
}

// GetUsers lists users, newest first, optionally limited (top creators surface)
func (h *UserHandler) GetUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	users, err := h.userRepository.GetUsers(limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	projections := make([]models.AuthUser, 0, len(users))
	for i := range users {
		projections = append(projections, users[i].Projection())
	}

	return c.JSON(http.StatusOK, projections)
}

// GetUser retrieves a user's public profile by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user.Projection())
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	user := currentUser(c)
	if user.ID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	stored, err := h.userRepository.GetUserByID(user.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, stored.Projection())
}

// UpdateProfile updates the authenticated user's profile from a multipart
// form. A new avatar replaces the old one with the same lifecycle as post
// images: upload new, persist, then delete old.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	authUser := currentUser(c)
	if authUser.ID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	req := models.UpdateProfileRequest{
		Name:           c.FormValue("name"),
		Education:      c.FormValue("education"),
		WorkExperience: c.FormValue("work_experience"),
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(authUser.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ctx := c.Request().Context()

	oldImageID := user.ImageID
	var newImageID string
	if fileHeader, ferr := c.FormFile("file"); ferr == nil {
		newImageURL, id, err := uploadImage(ctx, h.images, fileHeader)
		if err != nil {
			return err
		}
		newImageID = id
		user.ImageURL = newImageURL
		user.ImageID = newImageID
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Education != "" {
		user.Education = req.Education
	}
	if req.WorkExperience != "" {
		user.WorkExperience = req.WorkExperience
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		if newImageID != "" {
			if delErr := h.images.Delete(ctx, newImageID); delErr != nil {
				log.Printf("Error deleting orphaned avatar %s: %v", newImageID, delErr)
			}
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if newImageID != "" && oldImageID != "" {
		if err := h.images.Delete(ctx, oldImageID); err != nil {
			log.Printf("Error deleting replaced avatar %s: %v", oldImageID, err)
		}
	}

	return c.JSON(http.StatusOK, user.Projection())
}
