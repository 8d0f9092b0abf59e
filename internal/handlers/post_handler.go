package handlers

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mhasan-dev/devgram/backend/internal/models"
	"github.com/mhasan-dev/devgram/backend/internal/repositories"
)

const maxImageSize = 10 << 20 // 10 MB

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository     repositories.PostRepository
	userRepository     repositories.UserRepository
	reactionRepository repositories.ReactionRepository
	images             ImageStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, reactionRepo repositories.ReactionRepository, images ImageStore) *PostHandler {
	return &PostHandler{
		postRepository:     postRepo,
		userRepository:     userRepo,
		reactionRepository: reactionRepo,
		images:             images,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/recent", h.GetRecentPosts)
	g.GET("/posts/search", h.SearchPosts)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
	g.GET("/users/:id/liked-posts", h.GetLikedPosts)
}

// CreatePost creates a new post from a multipart form with an optional image.
// The image is uploaded first; if the document create fails the uploaded file
// is deleted again.
func (h *PostHandler) CreatePost(c echo.Context) error {
	user := currentUser(c)
	if user.ID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	req := models.CreatePostRequest{
		Caption:  c.FormValue("caption"),
		Tags:     c.FormValue("tags"),
		Location: c.FormValue("location"),
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	imageURL, imageID, err := h.uploadFormImage(c, "file")
	if err != nil {
		return err
	}

	post := &models.Post{
		CreatorID: user.ID,
		Caption:   req.Caption,
		Tags:      parseTags(req.Tags),
		ImageURL:  imageURL,
		ImageID:   imageID,
		Location:  req.Location,
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		if imageID != "" {
			if delErr := h.images.Delete(ctx, imageID); delErr != nil {
				log.Printf("Error deleting orphaned upload %s: %v", imageID, delErr)
			}
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	return c.JSON(http.StatusOK, post)
}

// GetPosts retrieves a page of the feed (newest updates first)
func (h *PostHandler) GetPosts(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit == 0 {
		limit = 9 // Default page size
	}

	posts, err := h.postRepository.GetPosts(c.Request().Context(), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}

// GetRecentPosts retrieves the most recent posts
func (h *PostHandler) GetRecentPosts(c echo.Context) error {
	posts, err := h.postRepository.GetRecentPosts(c.Request().Context(), 20)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}

// SearchPosts retrieves posts whose caption matches the query
func (h *PostHandler) SearchPosts(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}

	posts, err := h.postRepository.SearchPostsByCaption(c.Request().Context(), query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}

// GetUserPosts retrieves all posts created by a user
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	posts, err := h.postRepository.GetPostsByCreator(c.Request().Context(), uint(userID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}

// GetLikedPosts retrieves the posts a user has liked
func (h *PostHandler) GetLikedPosts(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	postIDs, err := h.reactionRepository.GetLikedPostIDs(uint(userID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.postRepository.GetPostsByIDs(c.Request().Context(), postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}

// UpdatePost updates an existing post. A new image replaces the old one: the
// new file is uploaded, the document updated, and only then the old file
// deleted, so a failed update never loses the current image.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	user := currentUser(c)
	if user.ID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("id")

	req := models.UpdatePostRequest{
		Caption:  c.FormValue("caption"),
		Tags:     c.FormValue("tags"),
		Location: c.FormValue("location"),
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	existingPost, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	if existingPost.CreatorID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this post")
	}

	oldImageID := existingPost.ImageID

	newImageURL, newImageID, err := h.uploadFormImage(c, "file")
	if err != nil {
		return err
	}

	existingPost.Caption = req.Caption
	existingPost.Tags = parseTags(req.Tags)
	existingPost.Location = req.Location
	if newImageID != "" {
		existingPost.ImageURL = newImageURL
		existingPost.ImageID = newImageID
	}

	if err := h.postRepository.UpdatePost(ctx, postID, existingPost); err != nil {
		if newImageID != "" {
			if delErr := h.images.Delete(ctx, newImageID); delErr != nil {
				log.Printf("Error deleting orphaned upload %s: %v", newImageID, delErr)
			}
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Safe to drop the old file only after the document points at the new one
	if newImageID != "" && oldImageID != "" {
		if err := h.images.Delete(ctx, oldImageID); err != nil {
			log.Printf("Error deleting replaced image %s: %v", oldImageID, err)
		}
	}

	return c.JSON(http.StatusOK, existingPost)
}

// DeletePost deletes a post and its stored image
func (h *PostHandler) DeletePost(c echo.Context) error {
	user := currentUser(c)
	if user.ID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("id")

	ctx := c.Request().Context()

	existingPost, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	if existingPost.CreatorID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(ctx, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if existingPost.ImageID != "" {
		if err := h.images.Delete(ctx, existingPost.ImageID); err != nil {
			log.Printf("Error deleting image %s of post %s: %v", existingPost.ImageID, postID, err)
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// uploadFormImage uploads the optional image file of a multipart form and
// returns its URL and object name. Both are empty when no file was sent.
func (h *PostHandler) uploadFormImage(c echo.Context, field string) (string, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// No file attached
		return "", "", nil
	}
	return uploadImage(c.Request().Context(), h.images, fileHeader)
}

// uploadImage validates and stores a multipart image upload
func uploadImage(ctx context.Context, images ImageStore, fileHeader *multipart.FileHeader) (string, string, error) {
	if fileHeader.Size > maxImageSize {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("file size exceeds maximum limit of %d MB", maxImageSize/(1<<20)))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !isValidImageType(ext) {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid file type: %s", ext))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to read uploaded file")
	}
	defer src.Close()

	objectName := uuid.New().String() + ext
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := images.Upload(ctx, objectName, src, contentType)
	if err != nil {
		return "", "", echo.NewHTTPError(http.StatusInternalServerError, "File upload failed")
	}

	return url, objectName, nil
}

func isValidImageType(ext string) bool {
	validTypes := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
	return validTypes[ext]
}

// parseTags splits a comma-separated tag string, dropping whitespace
func parseTags(tags string) []string {
	cleaned := strings.ReplaceAll(tags, " ", "")
	if cleaned == "" {
		return []string{}
	}
	parts := strings.Split(cleaned, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
