package models

import "time"

// Like records that a user liked a post. The unique index on (user_id,
// post_id) makes the insert conditional, so concurrent double-submission
// cannot produce duplicate rows.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_like_user_post"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_like_user_post"`
	CreatedAt time.Time `json:"created_at"`
}

// Unlike is the mirror record. For any (user, post) pair at most one of
// {Like, Unlike} may exist; the swap is done transactionally.
type Unlike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_unlike_user_post"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_unlike_user_post"`
	CreatedAt time.Time `json:"created_at"`
}
