package repositories

import (
	"github.com/mhasan-dev/devgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SwapResult reports what a like/unlike actually changed. Created is false
// when the record already existed (idempotent no-op); RemovedOpposite is true
// when the mirror record for the same pair was deleted.
type SwapResult struct {
	Created         bool
	RemovedOpposite bool
}

// ReactionRepository defines the interface for like/unlike operations.
// For any (user, post) pair at most one of {Like, Unlike} exists; the swap
// runs in a single transaction with a conditional insert, so concurrent
// double-submission cannot leave both records.
type ReactionRepository interface {
	LikePost(userID uint, postID string) (SwapResult, error)
	UnlikePost(userID uint, postID string) (SwapResult, error)
	HasLiked(userID uint, postID string) (bool, error)
	HasUnliked(userID uint, postID string) (bool, error)
	GetLikesCount(postID string) (int64, error)
	GetUnlikesCount(postID string) (int64, error)
	GetLikedPostIDs(userID uint) ([]string, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// LikePost inserts a Like for the pair unless one exists, and removes any
// Unlike for the same pair in the same transaction
func (r *PostgresReactionRepository) LikePost(userID uint, postID string) (SwapResult, error) {
	var result SwapResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{UserID: userID, PostID: postID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// already liked
			return nil
		}
		result.Created = true

		del := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Unlike{})
		if del.Error != nil {
			return del.Error
		}
		result.RemovedOpposite = del.RowsAffected > 0
		return nil
	})
	return result, err
}

// UnlikePost is the mirror of LikePost
func (r *PostgresReactionRepository) UnlikePost(userID uint, postID string) (SwapResult, error) {
	var result SwapResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Unlike{UserID: userID, PostID: postID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// already unliked
			return nil
		}
		result.Created = true

		del := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if del.Error != nil {
			return del.Error
		}
		result.RemovedOpposite = del.RowsAffected > 0
		return nil
	})
	return result, err
}

// HasLiked checks whether a user has liked a specific post
func (r *PostgresReactionRepository) HasLiked(userID uint, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

// HasUnliked checks whether a user has unliked a specific post
func (r *PostgresReactionRepository) HasUnliked(userID uint, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Unlike{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

// GetLikesCount retrieves the number of likes for a specific post
func (r *PostgresReactionRepository) GetLikesCount(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// GetUnlikesCount retrieves the number of unlikes for a specific post
func (r *PostgresReactionRepository) GetUnlikesCount(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Unlike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// GetLikedPostIDs retrieves the IDs of all posts a user has liked, newest first
func (r *PostgresReactionRepository) GetLikedPostIDs(userID uint) ([]string, error) {
	var likes []models.Like
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&likes).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.PostID)
	}
	return ids, nil
}
