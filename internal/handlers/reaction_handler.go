package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhasan-dev/devgram/backend/internal/repositories"
)

// ReactionHandler handles HTTP requests for likes and unlikes
type ReactionHandler struct {
	reactionRepository repositories.ReactionRepository
	postRepository     repositories.PostRepository // To update like counts in posts
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactionRepo repositories.ReactionRepository, postRepo repositories.PostRepository) *ReactionHandler {
	return &ReactionHandler{
		reactionRepository: reactionRepo,
		postRepository:     postRepo,
	}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like", h.LikePost)
	g.POST("/posts/:post_id/unlike", h.UnlikePost)
	g.GET("/posts/:post_id/reactions", h.GetReactions)
}

// LikePost likes a post. Liking an already-liked post is a no-op; liking an
// unliked post removes the unlike in the same transaction.
func (h *ReactionHandler) LikePost(c echo.Context) error {
	user := currentUser(c)
	if user.ID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	// Verify post exists
	_, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	result, err := h.reactionRepository.LikePost(user.ID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if result.Created {
		go func() {
			if err := h.postRepository.IncrementLikesCount(context.Background(), postID); err != nil {
				log.Printf("Error incrementing likes count for post %s: %v", postID, err)
			}
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"post_id": postID,
		"user_id": user.ID,
		"liked":   true,
		"changed": result.Created,
	})
}

// UnlikePost is the mirror of LikePost
func (h *ReactionHandler) UnlikePost(c echo.Context) error {
	user := currentUser(c)
	if user.ID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	// Verify post exists
	_, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	result, err := h.reactionRepository.UnlikePost(user.ID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// A swap removed the like record, keep the post counter in step
	if result.RemovedOpposite {
		go func() {
			if err := h.postRepository.DecrementLikesCount(context.Background(), postID); err != nil {
				log.Printf("Error decrementing likes count for post %s: %v", postID, err)
			}
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"post_id": postID,
		"user_id": user.ID,
		"liked":   false,
		"changed": result.Created,
	})
}

// GetReactions retrieves like/unlike counts for a post plus the caller's own state
func (h *ReactionHandler) GetReactions(c echo.Context) error {
	user := currentUser(c)
	postID := c.Param("post_id")

	// Verify post exists
	_, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	likes, err := h.reactionRepository.GetLikesCount(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	unlikes, err := h.reactionRepository.GetUnlikesCount(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hasLiked, err := h.reactionRepository.HasLiked(user.ID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	hasUnliked, err := h.reactionRepository.HasUnliked(user.ID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"post_id":       postID,
		"likes_count":   likes,
		"unlikes_count": unlikes,
		"has_liked":     hasLiked,
		"has_unliked":   hasUnliked,
	})
}
