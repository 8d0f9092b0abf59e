package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CreatorID     uint               `json:"creator_id" bson:"creator_id"`
	Caption       string             `json:"caption" bson:"caption"`
	Tags          []string           `json:"tags" bson:"tags"`
	ImageURL      string             `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	ImageID       string             `json:"imageId,omitempty" bson:"image_id,omitempty"`
	Location      string             `json:"location,omitempty" bson:"location,omitempty"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the multipart form fields for creating a new post
type CreatePostRequest struct {
	Caption  string `json:"caption" validate:"required,min=1,max=2200"`
	Tags     string `json:"tags" validate:"omitempty,max=500"`
	Location string `json:"location" validate:"omitempty,max=100"`
}

// UpdatePostRequest defines the multipart form fields for updating an existing post
type UpdatePostRequest struct {
	Caption  string `json:"caption" validate:"required,min=1,max=2200"`
	Tags     string `json:"tags" validate:"omitempty,max=500"`
	Location string `json:"location" validate:"omitempty,max=100"`
}
