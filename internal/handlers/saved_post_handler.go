package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mhasan-dev/devgram/backend/internal/models"
	"github.com/mhasan-dev/devgram/backend/internal/repositories"
)

// SavedPostHandler handles saved post HTTP requests
type SavedPostHandler struct {
	savedPostRepository repositories.SavedPostRepository
	postRepository      repositories.PostRepository
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(savedPostRepo repositories.SavedPostRepository, postRepo repositories.PostRepository) *SavedPostHandler {
	return &SavedPostHandler{
		savedPostRepository: savedPostRepo,
		postRepository:      postRepo,
	}
}

// RegisterSavedPostRoutes registers saved post routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/posts/:id/save", h.SavePost)
	g.DELETE("/saved/:id", h.DeleteSavedPost)
	g.GET("/saved", h.GetSavedPosts)
}

// SavePost bookmarks a post for the current user
func (h *SavedPostHandler) SavePost(c echo.Context) error {
	user := currentUser(c)
	if user.ID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")

	// Verify post exists
	_, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	// Re-check at call time; the unique index backstops a racing duplicate
	isSaved, err := h.savedPostRepository.IsPostSaved(user.ID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isSaved {
		return echo.NewHTTPError(http.StatusConflict, "Post already saved")
	}

	savedPost := &models.SavedPost{
		UserID: user.ID,
		PostID: postID,
	}

	if err := h.savedPostRepository.SavePost(savedPost); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, savedPost)
}

// DeleteSavedPost removes a bookmark by its saved-record ID
func (h *SavedPostHandler) DeleteSavedPost(c echo.Context) error {
	user := currentUser(c)
	if user.ID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	savedID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid saved post ID")
	}

	saved, err := h.savedPostRepository.GetSavedPostByID(uint(savedID))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Saved post not found")
	}

	if saved.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this saved post")
	}

	if err := h.savedPostRepository.DeleteSavedPost(uint(savedID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": false}})
}

// GetSavedPosts lists the current user's bookmarks with their posts, newest first
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	user := currentUser(c)
	if user.ID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	saved, err := h.savedPostRepository.GetSavedPostsByUser(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postIDs := make([]string, 0, len(saved))
	for _, s := range saved {
		postIDs = append(postIDs, s.PostID)
	}

	posts, err := h.postRepository.GetPostsByIDs(c.Request().Context(), postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"saved": saved, "posts": posts})
}
