package handlers

import (
	"context"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/mhasan-dev/devgram/backend/internal/models"
)

// currentUser returns the identity the session middleware attached to the
// request. The zero value means no authenticated user.
func currentUser(c echo.Context) models.AuthUser {
	user, ok := c.Get("authUser").(models.AuthUser)
	if !ok {
		return models.EmptyAuthUser
	}
	return user
}

// sessionToken returns the opaque session token of the current request.
func sessionToken(c echo.Context) string {
	token, ok := c.Get("sessionToken").(string)
	if !ok {
		return ""
	}
	return token
}

// ImageStore abstracts the object storage used for post images and avatars.
// Implemented by pkg/firebase.Storage.
type ImageStore interface {
	Upload(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}
